package ingest

import (
	"fmt"

	"github.com/gyeh/outlierstats/internal/csvread"
	"github.com/gyeh/outlierstats/internal/dataset"
	"github.com/gyeh/outlierstats/internal/model"
	"github.com/gyeh/outlierstats/internal/parquetread"
)

const readBatchSize = 1024

// rowStream yields one row at a time and io.EOF at the end.
// A *csvread.RowError is recoverable; any other error aborts the stream.
type rowStream[T any] interface {
	Next() (T, error)
	Close() error
}

// parquetStream adapts a batch-reading parquet Reader to rowStream.
type parquetStream[T parquetread.Row] struct {
	r   *parquetread.Reader[T]
	buf []T
	pos int
	n   int
	err error
}

func openParquetStream[T parquetread.Row](path string, kind model.FileKind) (*parquetStream[T], error) {
	r, err := parquetread.Open[T](path)
	if err != nil {
		return nil, err
	}
	if err := parquetread.ValidateSchema(r.Schema(), kind); err != nil {
		r.Close()
		return nil, err
	}
	return &parquetStream[T]{r: r, buf: make([]T, readBatchSize)}, nil
}

func (s *parquetStream[T]) Next() (T, error) {
	for s.pos >= s.n {
		var zero T
		if s.err != nil {
			return zero, s.err
		}
		s.n, s.err = s.r.Read(s.buf)
		s.pos = 0
	}
	row := s.buf[s.pos]
	s.pos++
	return row, nil
}

func (s *parquetStream[T]) Close() error {
	return s.r.Close()
}

// closer is the part of a stream Preflight needs.
type closer interface {
	Close() error
}

func openStream(kind model.FileKind, format dataset.Format, path string) (closer, error) {
	switch kind {
	case model.KindClaims:
		return openClaims(format, path)
	case model.KindMemberMonths:
		return openMemberMonths(format, path)
	}
	return nil, fmt.Errorf("unknown file kind %q", kind)
}

func openClaims(format dataset.Format, path string) (rowStream[model.ClaimLine], error) {
	if format == dataset.FormatParquet {
		return openParquetStream[model.ClaimLine](path, model.KindClaims)
	}
	return csvread.OpenClaims(path)
}

func openMemberMonths(format dataset.Format, path string) (rowStream[model.MemberMonth], error) {
	if format == dataset.FormatParquet {
		return openParquetStream[model.MemberMonth](path, model.KindMemberMonths)
	}
	return csvread.OpenMemberMonths(path)
}
