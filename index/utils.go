package index

import (
	"container/heap"
)

// MergeNSearchResults merges multiple sorted lists of SearchResult into a single sorted list of size k.
// All input lists must be sorted by distance (ascending).
// The result never holds more than the inputs combined, whatever k is.
func MergeNSearchResults[T any](k int, lists ...[]SearchResult[T]) []SearchResult[T] {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	res := make([]SearchResult[T], 0, min(k, total))
	MergeNSearchResultsInto(&res, k, lists...)
	return res
}

// MergeNSearchResultsInto merges multiple sorted lists of SearchResult into the provided buffer.
// The buffer is cleared before merging. Equal distances keep list order.
func MergeNSearchResultsInto[T any](dst *[]SearchResult[T], k int, lists ...[]SearchResult[T]) {
	*dst = (*dst)[:0]

	activeLists := make([][]SearchResult[T], 0, len(lists))
	for _, l := range lists {
		if len(l) > 0 {
			activeLists = append(activeLists, l)
		}
	}

	if len(activeLists) == 0 {
		return
	}
	if len(activeLists) == 1 {
		l := activeLists[0]
		if len(l) > k {
			l = l[:k]
		}
		*dst = append(*dst, l...)
		return
	}

	// For 2 lists, use optimized merge
	if len(activeLists) == 2 {
		mergeSearchResultsInto(dst, activeLists[0], activeLists[1], k)
		return
	}

	// Use a min-heap for N-way merge
	h := &mergeHeap[T]{}
	heap.Init(h)

	for i, list := range activeLists {
		heap.Push(h, mergeItem[T]{
			res:     list[0],
			listIdx: i,
			elemIdx: 0,
		})
	}

	for h.Len() > 0 && len(*dst) < k {
		item := heap.Pop(h).(mergeItem[T])
		*dst = append(*dst, item.res)

		// Push next element from the same list
		if item.elemIdx+1 < len(activeLists[item.listIdx]) {
			heap.Push(h, mergeItem[T]{
				res:     activeLists[item.listIdx][item.elemIdx+1],
				listIdx: item.listIdx,
				elemIdx: item.elemIdx + 1,
			})
		}
	}
}

func mergeSearchResultsInto[T any](dst *[]SearchResult[T], a, b []SearchResult[T], k int) {
	i, j := 0, 0
	for len(*dst) < k && (i < len(a) || j < len(b)) {
		if i < len(a) && j < len(b) {
			if a[i].Distance <= b[j].Distance {
				*dst = append(*dst, a[i])
				i++
			} else {
				*dst = append(*dst, b[j])
				j++
			}
		} else if i < len(a) {
			*dst = append(*dst, a[i])
			i++
		} else {
			*dst = append(*dst, b[j])
			j++
		}
	}
}

type mergeItem[T any] struct {
	res     SearchResult[T]
	listIdx int
	elemIdx int
}

type mergeHeap[T any] []mergeItem[T]

func (h mergeHeap[T]) Len() int { return len(h) }

func (h mergeHeap[T]) Less(i, j int) bool {
	if h[i].res.Distance == h[j].res.Distance {
		return h[i].listIdx < h[j].listIdx
	}
	return h[i].res.Distance < h[j].res.Distance
}

func (h mergeHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap[T]) Push(x any) {
	*h = append(*h, x.(mergeItem[T]))
}

func (h *mergeHeap[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
