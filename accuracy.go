package vecstats

import "github.com/hupe1980/vecstats/index"

// Accuracy compares approximate results against ground truth by item ID.
//
// It returns the overlap count and the overlap as an integer percentage of
// len(groundTruth), rounded half up. ok is false when groundTruth is empty.
// Distances are ignored, and an ID is counted at most once.
func Accuracy[K comparable, T index.Item[K]](approximate, groundTruth []index.SearchResult[T]) (accuracy, overlap int, ok bool) {
	total := len(groundTruth)
	if total == 0 {
		return 0, 0, false
	}

	seen := make(map[K]struct{}, len(approximate))
	for _, r := range approximate {
		seen[r.Item.ID()] = struct{}{}
	}

	for _, r := range groundTruth {
		id := r.Item.ID()
		if _, hit := seen[id]; hit {
			overlap++
			delete(seen, id)
		}
	}

	return percent(overlap, total), overlap, true
}

// percent returns round(part*100/total) with ties rounded up.
func percent(part, total int) int {
	return (part*200 + total) / (2 * total)
}
