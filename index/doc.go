// Package index defines the capability set shared by nearest neighbor indexes.
//
// Every index, approximate or exact, satisfies the generic Index interface:
//
//	type Index[K comparable, V any, T Item[K]] interface {
//	    Add(ctx context.Context, item T) error
//	    Remove(ctx context.Context, id K, version int64) (bool, error)
//	    Size() int
//	    Get(ctx context.Context, id K) (T, bool, error)
//	    Items() []T
//	    FindNearest(ctx context.Context, vector V, k int) ([]SearchResult[T], error)
//	    Save(ctx context.Context, w io.Writer) error
//	}
//
// Because the statistics decorator in the root package implements the same
// interface, decorated indexes can be substituted for plain ones and nested.
//
// # Subpackages
//
//   - flat: Exact brute-force search, typically used as ground truth
package index
