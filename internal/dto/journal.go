package dto

import (
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one line of a journal entry create request. Validation
// checks aggregate totals only; per-line debit/credit exclusivity is not
// enforced, matching conventional usage rather than a schema constraint.
type CreateLineRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Memo          string          `json:"memo"`
	Department    string          `json:"department"`
	Project       string          `json:"project"`
	CostCenter    string          `json:"costCenter"`
}

// CreateJournalEntryRequest defines the payload for posting a journal entry.
type CreateJournalEntryRequest struct {
	Date        time.Time           `json:"date" binding:"required"`
	Description string              `json:"description" binding:"required"`
	SourceType  domain.SourceType   `json:"sourceType"`
	SourceID    string              `json:"sourceID"`
	Lines       []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ListEntriesParams filters and paginates journal entry listing.
type ListEntriesParams struct {
	SourceType domain.SourceType `form:"sourceType"`
	Status     domain.EntryStatus `form:"status"`
	From       *time.Time        `form:"from" time_format:"2006-01-02"`
	To         *time.Time        `form:"to" time_format:"2006-01-02"`
	Limit      int               `form:"limit"`
	NextToken  *string           `form:"nextToken"`
}

// LineResponse is the API representation of a journal line.
type LineResponse struct {
	LineID        string          `json:"lineID"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Memo          string          `json:"memo,omitempty"`
	Department    string          `json:"department,omitempty"`
	Project       string          `json:"project,omitempty"`
	CostCenter    string          `json:"costCenter,omitempty"`
}

// JournalEntryResponse is the API representation of a journal entry.
type JournalEntryResponse struct {
	EntryID           string               `json:"entryID"`
	EntryNumber       int64                `json:"entryNumber"`
	Date              time.Time            `json:"date"`
	PostingDate       time.Time            `json:"postingDate"`
	PeriodID          string               `json:"periodID"`
	Description       string               `json:"description"`
	SourceType        string               `json:"sourceType"`
	SourceID          string               `json:"sourceID,omitempty"`
	Status            string               `json:"status"`
	ReversedEntryID   string               `json:"reversedEntryID,omitempty"`
	ReversalOfEntryID string               `json:"reversalOfEntryID,omitempty"`
	TotalDebits       decimal.Decimal      `json:"totalDebits"`
	TotalCredits      decimal.Decimal      `json:"totalCredits"`
	Lines             []LineResponse       `json:"lines,omitempty"`
	Audit             []domain.AuditRecord `json:"audit,omitempty"`
}

// ListEntriesResponse wraps a page of entries with the pagination token.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain entry to its API representation.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = LineResponse{
			LineID:        l.LineID,
			AccountNumber: l.AccountNumber,
			AccountName:   l.AccountName,
			Debit:         l.Debit,
			Credit:        l.Credit,
			Memo:          l.Memo,
			Department:    l.Department,
			Project:       l.Project,
			CostCenter:    l.CostCenter,
		}
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		Date:              e.EntryDate,
		PostingDate:       e.PostingDate,
		PeriodID:          e.PeriodID,
		Description:       e.Description,
		SourceType:        string(e.SourceType),
		SourceID:          e.SourceID,
		Status:            string(e.Status),
		ReversedEntryID:   e.ReversedEntryID,
		ReversalOfEntryID: e.ReversalOfEntryID,
		TotalDebits:       e.TotalDebits(),
		TotalCredits:      e.TotalCredits(),
		Lines:             lines,
		Audit:             e.Audit,
	}
}
