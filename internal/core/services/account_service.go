package services

import (
	"context"
	"errors"
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

// accountService implements the chart of accounts registry.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account registry service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers a new account. The normal balance is derived from
// the account type, never taken from the caller.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidAccountType(req.AccountType) {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "unknown account type %q", req.AccountType)
	}
	if req.AccountNumber == "" || req.Name == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "account number and name are required")
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: req.AccountNumber,
		Name:          req.Name,
		AccountType:   req.AccountType,
		SubType:       req.SubType,
		NormalBalance: domain.NormalBalanceFor(req.AccountType),
		ParentNumber:  req.ParentNumber,
		Description:   req.Description,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.Newf(apperrors.CodeDuplicateAccount, "account number %s already exists", req.AccountNumber)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_number", req.AccountNumber))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_number", account.AccountNumber), slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

// GetAccountByNumber resolves an account, active or not. Historical journal
// lines reference deactivated accounts and must stay resolvable.
func (s *accountService) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.CodeAccountNotFound, "account %s not found", number)
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByNumbers bulk-fetches accounts keyed by number.
func (s *accountService) GetAccountsByNumbers(ctx context.Context, numbers []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByNumbers(ctx, numbers)
}

// ListAccounts returns accounts filtered by type and active flag.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	if params.AccountType != "" && !domain.ValidAccountType(params.AccountType) {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "unknown account type %q", params.AccountType)
	}
	return s.accountRepo.ListAccounts(ctx, params.AccountType, params.IncludeInactive)
}

// UpdateAccount mutates the editable subset: name, description, subtype and
// the active flag. Number, type and normal balance are fixed for life.
func (s *accountService) UpdateAccount(ctx context.Context, number string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && *req.Name != "" {
		account.Name = *req.Name
		updated = true
	}
	if req.SubType != nil {
		account.SubType = *req.SubType
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actor

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_number", number))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_number", number))
	return account, nil
}

// DeactivateAccount soft-deletes an account. New postings against it are
// rejected; history keeps resolving.
func (s *accountService) DeactivateAccount(ctx context.Context, number string, actor string) error {
	inactive := false
	_, err := s.UpdateAccount(ctx, number, dto.UpdateAccountRequest{IsActive: &inactive}, actor)
	return err
}

// SeedDefaultChart creates the canonical chart of accounts, skipping numbers
// that already exist. Safe to run repeatedly.
func (s *accountService) SeedDefaultChart(ctx context.Context, actor string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	created := 0
	for _, entry := range domain.DefaultChart() {
		_, err := s.CreateAccount(ctx, dto.CreateAccountRequest{
			AccountNumber: entry.Number,
			Name:          entry.Name,
			AccountType:   entry.Type,
			SubType:       entry.SubType,
		}, actor)
		if err != nil {
			if apperrors.Is(err, apperrors.CodeDuplicateAccount) {
				continue
			}
			return created, err
		}
		created++
	}

	logger.Info("Default chart seeded", slog.Int("created", created))
	return created, nil
}
