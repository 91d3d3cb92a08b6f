package flat

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/vecstats/distance"
	"github.com/hupe1980/vecstats/internal/conv"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the stream compression used by Save.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 frames (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses zstd (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

var magic = [4]byte{'V', 'S', 'F', 'L'}

const formatVersion uint16 = 1

// ErrInvalidFormat is returned by Load for data not written by Save.
var ErrInvalidFormat = errors.New("flat: invalid snapshot format")

// header is the fixed-size uncompressed prefix of a snapshot.
// Format: [Magic 4][Version uint16][Compression uint8][Metric uint8][Dimension uint32]
type header struct {
	Magic       [4]byte
	Version     uint16
	Compression Compression
	Metric      uint8
	Dimension   uint32
}

// Save writes the index to w. Items are gob-encoded, so T must be
// encodable by encoding/gob.
func (f *Flat[K, T]) Save(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	items := f.Items()

	dim, err := conv.IntToUint32(f.opts.Dimension)
	if err != nil {
		return err
	}

	h := header{
		Magic:       magic,
		Version:     formatVersion,
		Compression: f.opts.Compression,
		Metric:      uint8(f.opts.Metric),
		Dimension:   dim,
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}

	cw, err := compressWriter(w, f.opts.Compression)
	if err != nil {
		return err
	}

	if err := gob.NewEncoder(cw).Encode(items); err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}

// Load reads an index written by Save. Options other than dimension,
// metric and compression are taken from optFns.
func Load[K comparable, T VectorItem[K]](ctx context.Context, r io.Reader, optFns ...func(o *Options)) (*Flat[K, T], error) {
	br := bufio.NewReader(r)

	var h header
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if h.Magic != magic {
		return nil, ErrInvalidFormat
	}
	if h.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, h.Version)
	}

	dim, err := conv.Uint32ToInt(h.Dimension)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	cr, err := decompressReader(br, h.Compression)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	var items []T
	if err := gob.NewDecoder(cr).Decode(&items); err != nil {
		return nil, err
	}

	optFns = append(optFns, func(o *Options) {
		o.Dimension = dim
		o.Metric = distance.Metric(h.Metric)
		o.Compression = h.Compression
	})

	f, err := New[K, T](optFns...)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := f.Add(ctx, item); err != nil {
			return nil, err
		}
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func compressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZSTD:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("flat: unsupported compression %s", c)
	}
}

func decompressReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported compression %s", ErrInvalidFormat, c)
	}
}
