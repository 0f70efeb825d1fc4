// Package csvread streams claim-line and member-month CSV extracts into model rows.
package csvread

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// RowError reports a record that could not be coerced. The reader stays
// usable after a RowError.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// IsRowError reports whether err is a per-row coercion failure.
func IsRowError(err error) bool {
	var re *RowError
	return errors.As(err, &re)
}

// column describes one canonical column and the header names accepted for it.
type column struct {
	name     string
	aliases  []string
	required bool
}

// table is a header-indexed CSV stream.
type table struct {
	file   *os.File
	csv    *csv.Reader
	colIdx map[string]int // canonical name → column index
	line   int
}

func openTable(path string, columns []column) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	br := bufio.NewReaderSize(f, 256*1024)
	// Skip UTF-8 BOM if present
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}

	idx, err := indexColumns(header, columns)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &table{file: f, csv: r, colIdx: idx, line: 1}, nil
}

func indexColumns(header []string, columns []column) (map[string]int, error) {
	byHeader := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := byHeader[key]; !dup {
			byHeader[key] = i
		}
	}

	idx := make(map[string]int, len(columns))
	var missing []string
	for _, col := range columns {
		found := false
		for _, name := range append([]string{col.name}, col.aliases...) {
			if i, ok := byHeader[name]; ok {
				idx[col.name] = i
				found = true
				break
			}
		}
		if !found && col.required {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// next returns the next record, or io.EOF.
func (t *table) next() ([]string, error) {
	rec, err := t.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	t.line++
	if err != nil {
		return nil, fmt.Errorf("read line %d: %w", t.line, err)
	}
	return rec, nil
}

// has reports whether the canonical column is present in the file.
func (t *table) has(col string) bool {
	_, ok := t.colIdx[col]
	return ok
}

// cell returns the raw value of col, or "" when the column or cell is absent.
func (t *table) cell(rec []string, col string) string {
	i, ok := t.colIdx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func (t *table) close() error {
	return t.file.Close()
}
