package parquetread

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/outlierstats/internal/model"
)

// Row is a model type with a Parquet mapping.
type Row interface {
	model.ClaimLine | model.MemberMonth
}

// Reader wraps a parquet GenericReader for streaming model rows.
type Reader[T Row] struct {
	file   *os.File
	reader *parquet.GenericReader[T]
	schema *parquet.Schema
}

// Open opens a Parquet file and returns a streaming Reader.
func Open[T Row](path string) (*Reader[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	r := parquet.NewGenericReader[T](pf)
	return &Reader[T]{file: f, reader: r, schema: pf.Schema()}, nil
}

// NumRows returns the total number of rows in the Parquet file.
func (r *Reader[T]) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(rows) records into the provided slice.
// Returns the number of rows read and io.EOF when done.
func (r *Reader[T]) Read(rows []T) (int, error) {
	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read parquet rows: %w", err)
	}
	return n, err
}

// Schema returns the file's own schema, for validation.
func (r *Reader[T]) Schema() *parquet.Schema {
	return r.schema
}

// Close releases all resources.
func (r *Reader[T]) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// ReadAll validates the file schema for kind and reads every row.
func ReadAll[T Row](path string, kind model.FileKind) ([]T, error) {
	r, err := Open[T](path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := ValidateSchema(r.Schema(), kind); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make([]T, 0, r.NumRows())
	buf := make([]T, 1024)
	for {
		n, readErr := r.Read(buf)
		out = append(out, buf[:n]...)
		if readErr == io.EOF {
			return out, nil
		}
		if readErr != nil {
			return nil, readErr
		}
	}
}

// ReadClaims reads a claim-line Parquet file.
func ReadClaims(path string) ([]model.ClaimLine, error) {
	return ReadAll[model.ClaimLine](path, model.KindClaims)
}

// ReadMemberMonths reads a member-month Parquet file.
func ReadMemberMonths(path string) ([]model.MemberMonth, error) {
	return ReadAll[model.MemberMonth](path, model.KindMemberMonths)
}
