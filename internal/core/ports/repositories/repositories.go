// Package repositories defines the persistence facades the core services
// depend on. Implementations live under internal/repositories/database.
package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SequenceRepository issues unique, strictly increasing document numbers per
// named series. Next must be a single atomic increment-and-fetch against the
// store; two concurrent callers must never receive the same value, including
// on first use of a series.
type SequenceRepository interface {
	Next(ctx context.Context, series string, start int64) (int64, error)
}

// AccountRepositoryFacade persists the chart of accounts.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	// FindAccountByNumber resolves deactivated accounts too; callers decide
	// whether inactive is acceptable.
	FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error)
	// FindAccountsByNumbers bulk-fetches accounts keyed by number. Missing
	// numbers are absent from the map, not an error.
	FindAccountsByNumbers(ctx context.Context, numbers []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, accountType domain.AccountType, includeInactive bool) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// PeriodRepositoryFacade persists the accounting calendar.
type PeriodRepositoryFacade interface {
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
	// FindPeriodForDate returns the period bracketing the date, any status.
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)
	ExistsForYearMonth(ctx context.Context, fiscalYear, fiscalMonth int) (bool, error)
	ListPeriods(ctx context.Context, fiscalYear int) ([]domain.AccountingPeriod, error)
	// UpdatePeriodStatus is conditional: the row is updated only if its status
	// still equals from. Zero rows affected returns apperrors.ErrNotFound.
	UpdatePeriodStatus(ctx context.Context, periodID string, from, to domain.PeriodStatus, actor string, at time.Time) error
}

// JournalRepositoryFacade persists journal entries and their lines.
type JournalRepositoryFacade interface {
	// SaveEntry writes the entry and all its lines in one store transaction.
	// A violation of the (source_type, source_id) unique index surfaces as an
	// AppError with code duplicate_source.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error
	// SaveReversal writes the reversal entry and flips the original to
	// REVERSED in the same store transaction. The flip is conditional on the
	// original still being POSTED; if another caller won the race the whole
	// transaction rolls back with code already_reversed.
	SaveReversal(ctx context.Context, reversal domain.JournalEntry, originalEntryID string, auditOriginal domain.AuditRecord, actor string, at time.Time) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindEntryByNumber(ctx context.Context, entryNumber int64) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, sourceType domain.SourceType, status domain.EntryStatus, from, to *time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
	// ExistsForSource reports whether any non-reversed entry carries the
	// (sourceType, sourceID) idempotency key.
	ExistsForSource(ctx context.Context, sourceType domain.SourceType, sourceID string) (bool, error)
}

// ExpenseRepositoryFacade persists expense documents.
type ExpenseRepositoryFacade interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, status domain.ExpenseStatus) ([]domain.Expense, error)
	// MarkExpensePaid is conditional on status still being PENDING; zero rows
	// affected returns an AppError with code invalid_input.
	MarkExpensePaid(ctx context.Context, expenseID, journalEntryID string, actor string, at time.Time) error
}

// ReportingRepository runs the read-only aggregation queries. All queries see
// only POSTED entries; reversed originals and their reversals cancel out when
// included, so reversed entries are excluded for cleaner statements.
type ReportingRepository interface {
	GetTrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)
	// GetNetAmountsByType groups posted lines by account for the given types,
	// signed by normal balance polarity, over [from, to].
	GetNetAmountsByType(ctx context.Context, from, to time.Time, types []domain.AccountType) (map[domain.AccountType][]domain.AccountAmount, error)
	// GetAccountNetChange returns debit-credit per account number over [from, to].
	GetAccountNetChange(ctx context.Context, from, to time.Time, accountNumbers []string) (map[string]decimal.Decimal, error)
	GetEntryAmounts(ctx context.Context, from, to time.Time) ([]domain.EntryAmount, error)
}
