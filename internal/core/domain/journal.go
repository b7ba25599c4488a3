package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	// EntryDraft is modeled for a future approval workflow but is never
	// produced by the engine, which posts immediately.
	EntryDraft    EntryStatus = "DRAFT"
	EntryPosted   EntryStatus = "POSTED"
	EntryReversed EntryStatus = "REVERSED"
)

// SourceType is the closed enumeration of systems that feed the ledger.
type SourceType string

const (
	SourceInvoice           SourceType = "invoice"
	SourceInvoiceAdjustment SourceType = "invoice_adjustment"
	SourcePayment           SourceType = "payment"
	SourceExpense           SourceType = "expense"
	SourcePayroll           SourceType = "payroll"
	SourceTimeEntry         SourceType = "time_entry"
	SourceManual            SourceType = "manual"
	SourceAdjustment        SourceType = "adjustment"
	SourceRenewal           SourceType = "renewal"
)

// ValidSourceType reports whether s is a known source type.
func ValidSourceType(s SourceType) bool {
	switch s {
	case SourceInvoice, SourceInvoiceAdjustment, SourcePayment, SourceExpense,
		SourcePayroll, SourceTimeEntry, SourceManual, SourceAdjustment, SourceRenewal:
		return true
	}
	return false
}

// BalanceEpsilon is the tolerance for the debits-equal-credits invariant. It
// absorbs fractional-cent rounding from rate x duration computations.
var BalanceEpsilon = decimal.NewFromFloat(0.01)

// JournalLine is a single line of a journal entry. The account number and name
// are a point-in-time snapshot taken at posting, not a live join: historical
// lines stay interpretable even after the account is renamed or deactivated.
type JournalLine struct {
	LineID        string          `json:"lineID"`
	EntryID       string          `json:"entryID"`
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"` // Snapshot at posting
	AccountName   string          `json:"accountName"`   // Snapshot at posting
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Memo          string          `json:"memo"`
	Department    string          `json:"department"` // Reporting dimension
	Project       string          `json:"project"`    // Reporting dimension
	CostCenter    string          `json:"costCenter"` // Reporting dimension
}

// AuditAction names a status-changing action recorded on an entry.
type AuditAction string

const (
	AuditCreated  AuditAction = "created"
	AuditReversed AuditAction = "reversed"
	AuditReversal AuditAction = "reversal_of"
)

// AuditRecord is one append-only audit trail item on a journal entry.
type AuditRecord struct {
	Action    AuditAction    `json:"action"`
	Actor     string         `json:"actor"`
	Timestamp time.Time      `json:"timestamp"`
	Detail    map[string]any `json:"detail,omitempty"`
}

// JournalEntry is one atomic, balanced set of ledger lines representing a
// single business event. Entries are never mutated in place after posting and
// never physically deleted; corrections go through reversal entries.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`     // Internal document id (UUID)
	EntryNumber      int64         `json:"entryNumber"` // From the journal_entries sequence
	EntryDate        time.Time     `json:"entryDate"`   // Business date
	PostingDate      time.Time     `json:"postingDate"` // System timestamp of creation
	PeriodID         string        `json:"periodID"`
	Description      string        `json:"description"`
	SourceType       SourceType    `json:"sourceType"`
	SourceID         string        `json:"sourceID"` // Idempotency key with SourceType
	Status           EntryStatus   `json:"status"`
	ReversedEntryID  string        `json:"reversedEntryID"`  // Set on the original once reversed
	ReversalOfEntryID string       `json:"reversalOfEntryID"` // Set on the reversal, points back
	Lines            []JournalLine `json:"lines"`
	Audit            []AuditRecord `json:"audit"`
	AuditFields
}

// TotalDebits sums the debit side of all lines.
func (e JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side of all lines.
func (e JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// IsBalanced reports whether total debits equal total credits within
// BalanceEpsilon. This is the core invariant of the whole system.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebits().Sub(e.TotalCredits()).Abs().LessThanOrEqual(BalanceEpsilon)
}

// ReversalLines returns the entry's lines with debit and credit swapped per
// line, preserving the account snapshot and reporting dimensions. A line-wise
// swap of a balanced entry is itself balanced.
func (e JournalEntry) ReversalLines() []JournalLine {
	lines := make([]JournalLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLine{
			AccountID:     l.AccountID,
			AccountNumber: l.AccountNumber,
			AccountName:   l.AccountName,
			Debit:         l.Credit,
			Credit:        l.Debit,
			Memo:          l.Memo,
			Department:    l.Department,
			Project:       l.Project,
			CostCenter:    l.CostCenter,
		}
	}
	return lines
}
