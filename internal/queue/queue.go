// Package queue provides the bounded priority queue used for top-k selection.
package queue

// Item is a candidate slot and its distance to the query.
type Item struct {
	Node     uint32  // Node is the slot of the candidate.
	Distance float32 // Distance is the priority of the item in the queue.
}

// worse reports whether a ranks after b. Equal distances rank by node.
func worse(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.Node > b.Node
}

// TopK keeps the k best (smallest distance) items seen so far.
// It is a max-heap on distance, so the current worst item sits on top.
// Not safe for concurrent use.
type TopK struct {
	k     int
	items []Item
}

// NewTopK creates a queue retaining at most k items.
func NewTopK(k int) *TopK {
	return &TopK{
		k:     k,
		items: make([]Item, 0, k),
	}
}

// Offer adds item if it ranks among the k best and reports whether it was kept.
func (q *TopK) Offer(item Item) bool {
	if q.k <= 0 {
		return false
	}
	if len(q.items) < q.k {
		q.items = append(q.items, item)
		q.siftUp(len(q.items) - 1)
		return true
	}
	if !worse(q.items[0], item) {
		return false
	}
	q.items[0] = item
	q.siftDown(0)
	return true
}

// Sorted drains the queue and returns its items best first.
func (q *TopK) Sorted() []Item {
	out := make([]Item, len(q.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = q.pop()
	}
	return out
}

func (q *TopK) pop() Item {
	n := len(q.items)
	root := q.items[0]
	q.items[0] = q.items[n-1]
	q.items = q.items[:n-1]
	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return root
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !worse(q.items[i], q.items[p]) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		top := l
		r := l + 1
		if r < n && worse(q.items[r], q.items[l]) {
			top = r
		}
		if !worse(q.items[top], q.items[i]) {
			return
		}
		q.items[i], q.items[top] = q.items[top], q.items[i]
		i = top
	}
}
