package csvread

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gyeh/outlierstats/internal/model"
	"github.com/gyeh/outlierstats/internal/normalize"
)

var memberMonthColumns = []column{
	{name: "member_id", required: true},
	{name: "year"},
	{name: "year_month", required: true},
	{name: "age"},
	{name: "sex", aliases: []string{"gender"}},
	{name: "race"},
	{name: "state"},
	{name: "risk_score", aliases: []string{"v24_risk_score"}},
}

// MemberMonthReader streams MemberMonth rows from a CSV file.
type MemberMonthReader struct {
	t *table
}

// OpenMemberMonths opens a member-month CSV and validates its header.
func OpenMemberMonths(path string) (*MemberMonthReader, error) {
	t, err := openTable(path, memberMonthColumns)
	if err != nil {
		return nil, err
	}
	return &MemberMonthReader{t: t}, nil
}

// Next returns the next member month, io.EOF at end of file, or a *RowError.
// When the file has no year column the year is taken from year_month.
func (r *MemberMonthReader) Next() (model.MemberMonth, error) {
	rec, err := r.t.next()
	if err != nil {
		return model.MemberMonth{}, err
	}
	rowErr := func(err error) (model.MemberMonth, error) {
		return model.MemberMonth{}, &RowError{Line: r.t.line, Err: err}
	}

	m := model.MemberMonth{
		MemberID: strings.TrimSpace(r.t.cell(rec, "member_id")),
		Sex:      strings.TrimSpace(r.t.cell(rec, "sex")),
		Race:     normalize.NormalizeLabel(r.t.cell(rec, "race")),
		State:    normalize.NormalizeLabel(r.t.cell(rec, "state")),
	}
	if m.MemberID == "" {
		return rowErr(fmt.Errorf("empty member_id"))
	}

	if m.YearMonth, err = normalize.ParseYearMonth(r.t.cell(rec, "year_month")); err != nil {
		return rowErr(err)
	}
	m.Year = normalize.YearOf(m.YearMonth)
	if r.t.has("year") {
		year, err := normalize.ParseInt(r.t.cell(rec, "year"))
		if err != nil {
			return rowErr(err)
		}
		if year != nil {
			m.Year = *year
		}
	}

	age, err := normalize.ParseInt(r.t.cell(rec, "age"))
	if err != nil {
		return rowErr(err)
	}
	if age != nil {
		if *age < 0 {
			return rowErr(fmt.Errorf("negative age %d", *age))
		}
		m.Age = *age
	}

	if m.RiskScore, err = normalize.ParseFloat(r.t.cell(rec, "risk_score")); err != nil {
		return rowErr(err)
	}
	return m, nil
}

// Close releases the underlying file.
func (r *MemberMonthReader) Close() error {
	return r.t.close()
}

// ReadMemberMonths reads every member month from path. The first bad record aborts the read.
func ReadMemberMonths(path string) ([]model.MemberMonth, error) {
	r, err := OpenMemberMonths(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []model.MemberMonth
	for {
		m, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, m)
	}
}
