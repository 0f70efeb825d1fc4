package model

import "github.com/google/uuid"

// StagedClaim is a ClaimLine tagged with the load it arrived in.
type StagedClaim struct {
	LoadBatchID uuid.UUID
	LoadFileID  int64
	ClaimLine
}

// CopyValues returns the row values in the same order as ClaimLineColumns(),
// suitable for pgx CopyFromSource.
func (r *StagedClaim) CopyValues() []any {
	return []any{
		r.LoadBatchID,
		r.LoadFileID,
		r.MemberID,
		r.EncounterID,
		r.Year,
		r.EncounterGroup,
		r.EncounterType,
		r.DiagnosisCategory,
		r.DiagnosisDescription,
		r.PaidAmount,
	}
}

// StagedMemberMonth is a MemberMonth tagged with the load it arrived in.
type StagedMemberMonth struct {
	LoadBatchID uuid.UUID
	LoadFileID  int64
	MemberMonth
}

// CopyValues returns the row values in the same order as MemberMonthColumns().
func (r *StagedMemberMonth) CopyValues() []any {
	return []any{
		r.LoadBatchID,
		r.LoadFileID,
		r.MemberID,
		r.Year,
		r.YearMonth,
		r.Age,
		r.Sex,
		r.Race,
		r.State,
		r.RiskScore,
	}
}
