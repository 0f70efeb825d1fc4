package db

import (
	"sync"

	"github.com/jackc/pgx/v5"
)

// Copyable is a row that knows its COPY column values.
type Copyable interface {
	CopyValues() []any
}

// ChannelSource implements pgx.CopyFromSource by reading rows from a channel.
// This provides natural backpressure between the file reader and COPY writer.
type ChannelSource[T Copyable] struct {
	ch      <-chan T
	current T

	mu  sync.Mutex
	err error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource[T Copyable](ch <-chan T) *ChannelSource[T] {
	return &ChannelSource[T]{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[T]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource[T]) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Fail records a producer error. Calling it before closing the channel makes
// COPY abort instead of committing the rows sent so far.
func (s *ChannelSource[T]) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Err returns the error passed to Fail, if any.
func (s *ChannelSource[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Compile-time check that ChannelSource satisfies the interface.
var _ pgx.CopyFromSource = (*ChannelSource[Copyable])(nil)
