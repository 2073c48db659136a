// Package strcol decodes direct-encoded string columns selectively.
//
// A direct string column stores the byte length of every non-null value in a length
// stream and the value bytes back to back in a data stream. strcol reads such a column
// batch by batch, materializing only the rows a caller selects and skipping the others
// by length arithmetic.
//
// # Core Features
//
//   - Selective reads over sparse or dense row sets, with forward offsets and skips
//   - 16-byte StringView records with values of up to 12 bytes stored inline
//   - Batch extractor decoding eight short values at a time, with a scalar fallback
//   - Null bitmaps from the column and from the caller, scattered into the output
//   - Staged filters (null, length, bytes) and an alternate value sink
//   - Length streams in ORC RLE v1, varint or fixed 32-bit form
//   - Optional chunk compression (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Encoding a column:
//
//	w, _ := strcol.NewWriter(column.WithCompression(format.CompressionZstd))
//	w.AppendString("GET")
//	w.AppendNull()
//	w.AppendString("a value longer than twelve bytes")
//	streams, _ := w.Finish()
//
// Reading selected rows:
//
//	r, _ := strcol.OpenReader(streams)
//	defer r.Close()
//	if err := r.Read(0, rowset.RowSet{0, 2}, nil); err != nil {
//	    log.Fatal(err)
//	}
//	vec := r.Vector()
//	for i := range vec.Len() {
//	    fmt.Println(vec.String(i))
//	}
//
// # Package Structure
//
// This package provides thin wrappers around the column package plus ReadColumns for
// decoding several columns in parallel. For fine-grained control, use column directly.
package strcol

import (
	"context"
	"fmt"
	"runtime"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/strcol/column"
	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/rowset"
)

// NewWriter creates a string column writer.
//
// Parameters:
//   - opts: Optional configuration functions (see column.WriterOption)
//
// Available options:
//   - column.WithLengthEncoding(format.LengthRLEv1|LengthVarint|LengthFixed32)
//   - column.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - column.WithChunkSize(n)
//   - column.WithLittleEndian() / column.WithBigEndian()
//
// Returns:
//   - *column.Writer: The created writer.
//   - error: An error if the configuration is invalid.
func NewWriter(opts ...column.WriterOption) (*column.Writer, error) {
	return column.NewWriter(opts...)
}

// Encode writes values into a new column. A nil element is a null row; an empty
// non-nil element is an empty string.
//
// Example:
//
//	streams, err := strcol.Encode([][]byte{[]byte("a"), nil, []byte("")},
//	    column.WithCompression(format.CompressionS2),
//	)
func Encode(values [][]byte, opts ...column.WriterOption) (*column.Streams, error) {
	w, err := column.NewWriter(opts...)
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		if v == nil {
			err = w.AppendNull()
		} else {
			err = w.Append(v)
		}
		if err != nil {
			return nil, err
		}
	}

	return w.Finish()
}

// OpenReader creates a reader over encoded column streams.
//
// The column's null bitmap and row count are taken from streams.
//
// Available options:
//   - column.WithLogger(logger)
//   - column.WithFastPath(column.FastPathAuto|FastPathForce|FastPathDisabled)
//   - column.WithArenaCapacity(n)
//   - column.WithFilter(f)
//   - column.WithValueHook(hook)
//   - column.WithWindowSize(n)
//
// Returns:
//   - *column.Reader: The created reader.
//   - error: An error if the streams or options are invalid.
func OpenReader(streams *column.Streams, opts ...column.ReaderOption) (*column.Reader, error) {
	return column.OpenReader(streams, opts...)
}

// Job is one column read for ReadColumns.
type Job struct {
	// Reader is the column's reader. Each job needs its own Reader.
	Reader *column.Reader
	// Offset is the first row of the batch.
	Offset int64
	// Rows are the selected rows, relative to Offset.
	Rows rowset.RowSet
	// Nulls marks additional null rows relative to Offset. May be nil.
	Nulls *bitset.BitSet
}

// ReadColumns runs the reads of independent columns in parallel, at most GOMAXPROCS
// at a time, and returns the first error. Jobs sharing a Reader are rejected with
// errs.ErrInvalidOption before any read starts.
//
// Jobs that have not started when the context is canceled or another job fails are not
// run. The results are in each job's Reader.
//
// Example:
//
//	err := strcol.ReadColumns(ctx,
//	    strcol.Job{Reader: names, Rows: rows},
//	    strcol.Job{Reader: urls, Rows: rows},
//	)
func ReadColumns(ctx context.Context, jobs ...Job) error {
	seen := make(map[*column.Reader]int, len(jobs))
	for i, job := range jobs {
		if job.Reader == nil {
			return fmt.Errorf("%w: job %d has no reader", errs.ErrInvalidOption, i)
		}
		if first, ok := seen[job.Reader]; ok {
			return fmt.Errorf("%w: jobs %d and %d share a reader", errs.ErrInvalidOption, first, i)
		}
		seen[job.Reader] = i
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := job.Reader.Read(job.Offset, job.Rows, job.Nulls); err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}

			return nil
		})
	}

	return g.Wait()
}
