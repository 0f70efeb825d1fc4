package model

// ClaimLine is one billed service line. Several lines may share an
// EncounterID; counts over encounters must use distinct IDs.
type ClaimLine struct {
	MemberID             string  `parquet:"member_id"`
	EncounterID          string  `parquet:"encounter_id"`
	Year                 int     `parquet:"year"`
	EncounterGroup       *string `parquet:"encounter_group,optional"`
	EncounterType        *string `parquet:"encounter_type,optional"`
	DiagnosisCategory    *string `parquet:"diagnosis_category,optional"`
	DiagnosisDescription *string `parquet:"diagnosis_description,optional"`
	PaidAmount           float64 `parquet:"paid_amount"`
}

// ClaimLineColumns returns the ordered column names for COPY into outlier.claim_lines.
func ClaimLineColumns() []string {
	return []string{
		"load_batch_id",
		"load_file_id",
		"member_id",
		"encounter_id",
		"year",
		"encounter_group",
		"encounter_type",
		"diagnosis_category",
		"diagnosis_description",
		"paid_amount",
	}
}

// Diagnosis returns the diagnosis field selected by g.
func (c *ClaimLine) Diagnosis(g Granularity) *string {
	if g == GranularityDescription {
		return c.DiagnosisDescription
	}
	return c.DiagnosisCategory
}
