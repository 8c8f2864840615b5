package models

import (
	"time"

	"github.com/samber/mo"
)

// DefaultGradeLimit is the only limit ever requested; just the first record is displayed
const DefaultGradeLimit = 1

type GradeQuery struct {
	Symbol string
	Limit  int
}

// GradeRecord is one provider row. Every field may be absent, which is distinct from zero.
type GradeRecord struct {
	TraderGrade  mo.Option[float64]
	TAGrade      mo.Option[float64]
	QuantGrade   mo.Option[float64]
	PctChange24h mo.Option[float64]
	TokenName    mo.Option[string]
	Date         mo.Option[time.Time]
}

// FetchResult is either a successful (possibly empty) record sequence or a failure cause
type FetchResult struct {
	records []GradeRecord
	cause   error
}

func FetchSuccess(records []GradeRecord) FetchResult {
	return FetchResult{records: records}
}

// FetchFailure panics on a nil cause so a failure can never masquerade as an empty success
func FetchFailure(cause error) FetchResult {
	if cause == nil {
		panic("invariant violated - fetch failure requires a cause")
	}
	return FetchResult{cause: cause}
}

func (r FetchResult) IsFailure() bool {
	return r.cause != nil
}

// Cause is the operator-facing diagnostic; it is never shown to chat users
func (r FetchResult) Cause() error {
	return r.cause
}

func (r FetchResult) Records() []GradeRecord {
	return r.records
}

// First returns the record to display, None for failures and empty results alike
func (r FetchResult) First() mo.Option[GradeRecord] {
	if r.cause != nil || len(r.records) == 0 {
		return mo.None[GradeRecord]()
	}
	return mo.Some(r.records[0])
}
