package domain

import "time"

// PeriodStatus is the lifecycle state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// periodTransitions is the full transition table. LOCKED has no outgoing
// transitions: locking is a point of no return after a period is audited.
var periodTransitions = map[PeriodStatus][]PeriodStatus{
	PeriodOpen:   {PeriodClosed, PeriodLocked},
	PeriodClosed: {PeriodOpen, PeriodLocked},
	PeriodLocked: {},
}

// CanTransition reports whether a period may move from one status to another.
func CanTransition(from, to PeriodStatus) bool {
	for _, allowed := range periodTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AccountingPeriod is a contiguous date range gating which transactions can be
// posted. At most one period should contain any given date; uniqueness is
// enforced on (fiscalYear, fiscalMonth) at creation.
type AccountingPeriod struct {
	PeriodID      string       `json:"periodID"` // Primary Key (UUID)
	Name          string       `json:"name"`     // e.g. "March 2024"
	StartDate     time.Time    `json:"startDate"`
	EndDate       time.Time    `json:"endDate"`
	FiscalYear    int          `json:"fiscalYear"`
	FiscalQuarter int          `json:"fiscalQuarter"` // ceil(month/3)
	FiscalMonth   int          `json:"fiscalMonth"`
	Status        PeriodStatus `json:"status"`
	AuditFields
}

// Contains reports whether d falls inside the period's [start, end] range.
// Only the calendar date matters, not the time of day.
func (p AccountingPeriod) Contains(d time.Time) bool {
	day := truncateToDay(d)
	return !day.Before(truncateToDay(p.StartDate)) && !day.After(truncateToDay(p.EndDate))
}

// FiscalQuarterOf derives the fiscal quarter from a calendar month (1-12).
func FiscalQuarterOf(month int) int {
	return (month + 2) / 3
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
