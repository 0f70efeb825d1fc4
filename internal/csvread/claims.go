package csvread

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gyeh/outlierstats/internal/model"
	"github.com/gyeh/outlierstats/internal/normalize"
)

var claimColumns = []column{
	{name: "member_id"},
	{name: "encounter_id", required: true},
	{name: "year", aliases: []string{"incr_year", "claim_year"}, required: true},
	{name: "encounter_group"},
	{name: "encounter_type"},
	{name: "diagnosis_category", aliases: []string{"dx_ccsr_category2", "dx_ccsr_category", "ccsr_category"}},
	{name: "diagnosis_description", aliases: []string{"dx_description", "ccsr_description"}},
	{name: "paid_amount", aliases: []string{"paid"}, required: true},
}

// ClaimReader streams ClaimLine rows from a CSV file.
type ClaimReader struct {
	t *table
}

// OpenClaims opens a claim-line CSV and validates its header.
func OpenClaims(path string) (*ClaimReader, error) {
	t, err := openTable(path, claimColumns)
	if err != nil {
		return nil, err
	}
	return &ClaimReader{t: t}, nil
}

// Next returns the next claim line, io.EOF at end of file, or a *RowError for
// a record that failed coercion.
func (r *ClaimReader) Next() (model.ClaimLine, error) {
	rec, err := r.t.next()
	if err != nil {
		return model.ClaimLine{}, err
	}

	c := model.ClaimLine{
		MemberID:             strings.TrimSpace(r.t.cell(rec, "member_id")),
		EncounterID:          strings.TrimSpace(r.t.cell(rec, "encounter_id")),
		EncounterGroup:       normalize.NormalizeLabel(r.t.cell(rec, "encounter_group")),
		EncounterType:        normalize.NormalizeLabel(r.t.cell(rec, "encounter_type")),
		DiagnosisCategory:    normalize.NormalizeLabel(r.t.cell(rec, "diagnosis_category")),
		DiagnosisDescription: normalize.NormalizeLabel(r.t.cell(rec, "diagnosis_description")),
	}
	if c.EncounterID == "" {
		return model.ClaimLine{}, &RowError{Line: r.t.line, Err: fmt.Errorf("empty encounter_id")}
	}

	year, err := normalize.ParseInt(r.t.cell(rec, "year"))
	if err != nil {
		return model.ClaimLine{}, &RowError{Line: r.t.line, Err: err}
	}
	if year == nil {
		return model.ClaimLine{}, &RowError{Line: r.t.line, Err: fmt.Errorf("empty year")}
	}
	c.Year = *year

	c.PaidAmount, err = normalize.ParseMoney(r.t.cell(rec, "paid_amount"))
	if err != nil {
		return model.ClaimLine{}, &RowError{Line: r.t.line, Err: err}
	}
	return c, nil
}

// Close releases the underlying file.
func (r *ClaimReader) Close() error {
	return r.t.close()
}

// ReadClaims reads every claim line from path. The first bad record aborts the read.
func ReadClaims(path string) ([]model.ClaimLine, error) {
	r, err := OpenClaims(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []model.ClaimLine
	for {
		c, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, c)
	}
}
