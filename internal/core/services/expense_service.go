package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
)

// Sequence series for expense document numbers.
const (
	SeriesExpenses      = "expenses"
	SeriesExpensesStart = 1001
)

// expenseService manages expense documents. An expense holds no ledger truth
// of its own: it posts through the journal engine when marked paid.
type expenseService struct {
	expenseRepo  portsrepo.ExpenseRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
	accountSvc   portssvc.AccountSvcFacade
	journalSvc   portssvc.JournalSvcFacade
}

// NewExpenseService creates a new expense service.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	sequenceRepo portsrepo.SequenceRepository,
	accountSvc portssvc.AccountSvcFacade,
	journalSvc portssvc.JournalSvcFacade,
) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo:  expenseRepo,
		sequenceRepo: sequenceRepo,
		accountSvc:   accountSvc,
		journalSvc:   journalSvc,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense records a pending expense. The category account must be an
// active expense account; nothing touches the ledger yet.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actor string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "expense amount must be positive")
	}
	category, err := s.accountSvc.GetAccountByNumber(ctx, req.CategoryAccount)
	if err != nil {
		return nil, err
	}
	if category.AccountType != domain.ExpenseType {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "account %s is not an expense account", req.CategoryAccount)
	}
	if !category.IsActive {
		return nil, apperrors.Newf(apperrors.CodeAccountNotFound, "account %s is inactive", req.CategoryAccount)
	}

	expenseNumber, err := s.sequenceRepo.Next(ctx, SeriesExpenses, SeriesExpensesStart)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:       uuid.NewString(),
		ExpenseNumber:   expenseNumber,
		Vendor:          req.Vendor,
		CategoryAccount: req.CategoryAccount,
		Amount:          req.Amount,
		ExpenseDate:     req.ExpenseDate,
		Description:     req.Description,
		Status:          domain.ExpensePending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Expense recorded", slog.Int64("expense_number", expenseNumber), slog.String("vendor", req.Vendor))
	return &expense, nil
}

// GetExpenseByID retrieves an expense document.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "expense %s not found", expenseID)
		}
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns expenses, optionally filtered by status ("" = all).
func (s *expenseService) ListExpenses(ctx context.Context, status domain.ExpenseStatus) ([]domain.Expense, error) {
	return s.expenseRepo.ListExpenses(ctx, status)
}

// MarkExpensePaid posts Dr category account / Cr Cash through the journal
// engine, then flips the expense to PAID with a conditional update so a
// concurrent second call cannot double-post.
func (s *expenseService) MarkExpensePaid(ctx context.Context, expenseID string, actor string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != domain.ExpensePending {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "expense #%d is already %s", expense.ExpenseNumber, expense.Status)
	}

	entry, err := s.journalSvc.CreateEntry(ctx, dto.CreateJournalEntryRequest{
		Date:        expense.ExpenseDate,
		Description: fmt.Sprintf("Expense #%d - %s", expense.ExpenseNumber, expense.Vendor),
		SourceType:  domain.SourceExpense,
		SourceID:    expense.ExpenseID,
		Lines: []dto.CreateLineRequest{
			{AccountNumber: expense.CategoryAccount, Debit: expense.Amount},
			{AccountNumber: domain.AcctCash, Credit: expense.Amount},
		},
	}, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.expenseRepo.MarkExpensePaid(ctx, expense.ExpenseID, entry.EntryID, actor, now); err != nil {
		// The journal entry stands; the idempotency key on (expense, id)
		// prevents a second posting on retry.
		logger.Error("Failed to flip expense status after posting", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, err
	}

	expense.Status = domain.ExpensePaid
	expense.JournalEntryID = entry.EntryID
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = actor

	logger.Info("Expense paid and posted",
		slog.Int64("expense_number", expense.ExpenseNumber),
		slog.Int64("entry_number", entry.EntryNumber))
	return expense, nil
}
