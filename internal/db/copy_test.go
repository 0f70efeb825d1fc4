package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	id   int
	name string
}

func (r *testRow) CopyValues() []any { return []any{r.id, r.name} }

func TestChannelSource(t *testing.T) {
	ch := make(chan *testRow, 2)
	ch <- &testRow{id: 1, name: "a"}
	ch <- &testRow{id: 2, name: "b"}
	close(ch)

	src := NewChannelSource(ch)
	var got [][]any
	for src.Next() {
		v, err := src.Values()
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, [][]any{{1, "a"}, {2, "b"}}, got)
	assert.NoError(t, src.Err())
}

func TestChannelSource_Fail(t *testing.T) {
	ch := make(chan *testRow)
	src := NewChannelSource(ch)

	first := errors.New("read row 3: boom")
	go func() {
		src.Fail(first)
		src.Fail(errors.New("second"))
		close(ch)
	}()

	assert.False(t, src.Next())
	assert.Equal(t, first, src.Err())
}
