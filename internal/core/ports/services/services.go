// Package services defines the facades the delivery layer calls into.
package services

import (
	"context"
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/finbooks/ledger_backend/internal/dto"
)

// AccountSvcFacade is the chart of accounts registry.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetAccountsByNumbers(ctx context.Context, numbers []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, number string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, number string, actor string) error
	// SeedDefaultChart creates the standard numbered chart; existing numbers
	// are skipped. Returns how many accounts were created.
	SeedDefaultChart(ctx context.Context, actor string) (int, error)
}

// PeriodSvcFacade is the accounting period calendar.
type PeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, actor string) (*domain.AccountingPeriod, error)
	GenerateYear(ctx context.Context, fiscalYear int, actor string) ([]domain.AccountingPeriod, error)
	ResolveForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, fiscalYear int) ([]domain.AccountingPeriod, error)
	ClosePeriod(ctx context.Context, periodID string, actor string) (*domain.AccountingPeriod, error)
	ReopenPeriod(ctx context.Context, periodID string, actor string) (*domain.AccountingPeriod, error)
	LockPeriod(ctx context.Context, periodID string, actor string) (*domain.AccountingPeriod, error)
}

// JournalSvcFacade is the journal entry engine.
type JournalSvcFacade interface {
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actor string) (*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	GetEntryByNumber(ctx context.Context, entryNumber int64) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// PostingSvcFacade is the auto-posting adapter: pure translations from domain
// events to journal entries via the fixed account map. Each Post function
// returns (nil, nil) when the event is a benign no-op (non-positive amount,
// missing mapped account, or an already-posted source).
type PostingSvcFacade interface {
	PostInvoiceCreated(ctx context.Context, ev dto.InvoiceEvent, actor string) (*domain.JournalEntry, error)
	PostInvoiceAdjustment(ctx context.Context, ev dto.InvoiceAdjustmentEvent, actor string) (*domain.JournalEntry, error)
	PostPaymentReceived(ctx context.Context, ev dto.PaymentEvent, actor string) (*domain.JournalEntry, error)
	PostRefundIssued(ctx context.Context, ev dto.RefundEvent, actor string) (*domain.JournalEntry, error)
	PostTimeEntry(ctx context.Context, ev dto.TimeEntryEvent, actor string) (*domain.JournalEntry, error)
	PostRenewalCreated(ctx context.Context, ev dto.RenewalEvent, actor string) (*domain.JournalEntry, error)
	PostRevenueRecognition(ctx context.Context, ev dto.RecognitionEvent, actor string) (*domain.JournalEntry, error)

	ExistsForSource(ctx context.Context, sourceType domain.SourceType, sourceID string) (bool, error)

	RepostInvoices(ctx context.Context, events []dto.InvoiceEvent, actor string) dto.BulkPostResult
	RepostPayments(ctx context.Context, events []dto.PaymentEvent, actor string) dto.BulkPostResult
	RepostTimeEntries(ctx context.Context, events []dto.TimeEntryEvent, actor string) dto.BulkPostResult
	RepostRenewals(ctx context.Context, events []dto.RenewalEvent, actor string) dto.BulkPostResult
}

// ExpenseSvcFacade manages expense documents that post through the journal
// engine when marked paid.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actor string) (*domain.Expense, error)
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, status domain.ExpenseStatus) ([]domain.Expense, error)
	MarkExpensePaid(ctx context.Context, expenseID string, actor string) (*domain.Expense, error)
}

// ReportingSvcFacade produces derived, read-only views over posted entries.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
	CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error)
	KPIs(ctx context.Context, from, to time.Time) (*domain.KPIReport, error)
	Anomalies(ctx context.Context, from, to time.Time) ([]domain.Anomaly, error)
}
