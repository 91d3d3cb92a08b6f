// Package flat provides an exact brute-force index, typically used as the
// ground truth when sampling the accuracy of an approximate index.
package flat

import (
	"context"
	"runtime"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecstats/distance"
	"github.com/hupe1980/vecstats/index"
	"github.com/hupe1980/vecstats/internal/conv"
	"github.com/hupe1980/vecstats/internal/queue"
	"golang.org/x/sync/errgroup"
)

// VectorItem is an item that carries its own feature vector.
type VectorItem[K comparable] interface {
	index.Item[K]
	Vector() []float32
}

// Options contains configuration options for the flat index.
type Options struct {
	// Dimension is the fixed vector dimensionality for this index.
	// It must be > 0 and is enforced for all adds and searches.
	Dimension int

	// Metric selects the distance function.
	Metric distance.Metric

	// Parallelism is the number of goroutines used per search.
	// Values <= 0 default to GOMAXPROCS.
	Parallelism int

	// MinChunkSize is the smallest number of slots handed to one goroutine.
	MinChunkSize int

	// Compression is applied by Save.
	Compression Compression
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{
	Dimension:    0,
	Metric:       distance.MetricL2,
	MinChunkSize: 1024,
	Compression:  CompressionZSTD,
}

type slot[T any] struct {
	item   T
	vector []float32
}

// Flat is an exact nearest neighbor index. Every search scans all live items.
// It is safe for concurrent use.
type Flat[K comparable, T VectorItem[K]] struct {
	mu           sync.RWMutex
	opts         Options
	distanceFunc distance.Func

	slots []slot[T]
	ids   map[K]uint32
	live  *roaring.Bitmap
	free  []uint32
}

// New creates a new instance of the flat index.
// Dimension is required and must be set at creation time.
func New[K comparable, T VectorItem[K]](optFns ...func(o *Options)) (*Flat[K, T], error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := index.ValidateDimension(opts.Dimension); err != nil {
		return nil, err
	}

	fn, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}
	if opts.MinChunkSize <= 0 {
		opts.MinChunkSize = DefaultOptions.MinChunkSize
	}

	return &Flat[K, T]{
		opts:         opts,
		distanceFunc: fn,
		ids:          make(map[K]uint32),
		live:         roaring.New(),
	}, nil
}

// Dimension returns the configured dimensionality.
func (f *Flat[K, T]) Dimension() int {
	return f.opts.Dimension
}

// Add inserts item, or replaces the stored item with the same ID unless
// the stored version is newer.
func (f *Flat[K, T]) Add(ctx context.Context, item T) error {
	vec := item.Vector()
	if len(vec) != f.opts.Dimension {
		return &index.ErrDimensionMismatch{Expected: f.opts.Dimension, Actual: len(vec)}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	s := slot[T]{item: item, vector: slices.Clone(vec)}

	if id, ok := f.ids[item.ID()]; ok {
		stored := f.slots[id].item.Version()
		if item.Version() < stored {
			return &index.ErrVersionConflict{Stored: stored, Supplied: item.Version()}
		}
		f.slots[id] = s
		return nil
	}

	var id uint32
	if n := len(f.free); n > 0 {
		id = f.free[n-1]
		f.free = f.free[:n-1]
		f.slots[id] = s
	} else {
		next, err := conv.IntToUint32(len(f.slots))
		if err != nil {
			return err
		}
		id = next
		f.slots = append(f.slots, s)
	}

	f.ids[item.ID()] = id
	f.live.Add(id)
	return nil
}

// Remove deletes the item with the given id if version is not older than
// the stored version.
func (f *Flat[K, T]) Remove(ctx context.Context, id K, version int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.ids[id]
	if !ok {
		return false, nil
	}
	if version < f.slots[n].item.Version() {
		return false, nil
	}

	delete(f.ids, id)
	f.live.Remove(n)
	f.slots[n] = slot[T]{}
	f.free = append(f.free, n)
	return true, nil
}

// Size returns the number of items.
func (f *Flat[K, T]) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.ids)
}

// Get looks up an item by id.
func (f *Flat[K, T]) Get(ctx context.Context, id K) (T, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n, ok := f.ids[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	return f.slots[n].item, true, nil
}

// Items lists all items in slot order.
func (f *Flat[K, T]) Items() []T {
	f.mu.RLock()
	defer f.mu.RUnlock()

	items := make([]T, 0, f.live.GetCardinality())
	it := f.live.Iterator()
	for it.HasNext() {
		items = append(items, f.slots[it.Next()].item)
	}
	return items
}

// FindNearest scans every live item and returns the k closest, best first.
// Equal distances are ordered by insertion slot.
func (f *Flat[K, T]) FindNearest(ctx context.Context, vector []float32, k int) ([]index.SearchResult[T], error) {
	if err := index.ValidateK(k); err != nil {
		return nil, err
	}
	if len(vector) != f.opts.Dimension {
		return nil, &index.ErrDimensionMismatch{Expected: f.opts.Dimension, Actual: len(vector)}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	chunks := f.chunks()
	partials := make([][]index.SearchResult[T], len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			res, err := f.scan(gctx, chunk, vector, k)
			if err != nil {
				return err
			}
			partials[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return index.MergeNSearchResults(k, partials...), nil
}

// chunks splits the live slots into contiguous runs, one per goroutine.
func (f *Flat[K, T]) chunks() [][]uint32 {
	all := f.live.ToArray()
	if len(all) == 0 {
		return nil
	}

	size := max((len(all)+f.opts.Parallelism-1)/f.opts.Parallelism, f.opts.MinChunkSize)

	chunks := make([][]uint32, 0, (len(all)+size-1)/size)
	for start := 0; start < len(all); start += size {
		chunks = append(chunks, all[start:min(start+size, len(all))])
	}
	return chunks
}

func (f *Flat[K, T]) scan(ctx context.Context, chunk []uint32, vector []float32, k int) ([]index.SearchResult[T], error) {
	q := queue.NewTopK(min(k, len(chunk)))
	for i, n := range chunk {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		q.Offer(queue.Item{Node: n, Distance: f.distanceFunc(vector, f.slots[n].vector)})
	}

	sorted := q.Sorted()
	out := make([]index.SearchResult[T], len(sorted))
	for i, c := range sorted {
		out[i] = index.SearchResult[T]{Item: f.slots[c.Node].item, Distance: c.Distance}
	}
	return out, nil
}
