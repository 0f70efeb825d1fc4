package model

// MemberMonth is one enrolled month for one member. MemberID + YearMonth is unique.
type MemberMonth struct {
	MemberID  string   `parquet:"member_id"`
	Year      int      `parquet:"year"`
	YearMonth int      `parquet:"year_month"` // YYYYMM
	Age       int      `parquet:"age"`
	Sex       string   `parquet:"sex,optional"`
	Race      *string  `parquet:"race,optional"`
	State     *string  `parquet:"state,optional"`
	RiskScore *float64 `parquet:"risk_score,optional"`
}

// MemberMonthColumns returns the ordered column names for COPY into outlier.member_months.
func MemberMonthColumns() []string {
	return []string{
		"load_batch_id",
		"load_file_id",
		"member_id",
		"year",
		"year_month",
		"age",
		"sex",
		"race",
		"state",
		"risk_score",
	}
}

// Value returns the member-month's value for a population dimension.
func (m *MemberMonth) Value(d Dimension) *string {
	switch d {
	case DimensionRace:
		return m.Race
	case DimensionState:
		return m.State
	}
	return nil
}

// Dataset is the pair of tables the metrics aggregator works over.
type Dataset struct {
	Claims       []ClaimLine
	MemberMonths []MemberMonth
}
