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

// periodService implements the accounting period calendar.
type periodService struct {
	periodRepo portsrepo.PeriodRepositoryFacade
}

// NewPeriodService creates a new period calendar service.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// CreatePeriod creates a single period in OPEN state. Uniqueness is enforced
// on (fiscalYear, fiscalMonth); gaps or overlaps from manual date entry are a
// data-entry risk the calendar does not police beyond that.
func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, actor string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.EndDate.After(req.StartDate) {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "end date must be after start date")
	}
	if req.FiscalMonth < 1 || req.FiscalMonth > 12 {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "fiscal month %d out of range", req.FiscalMonth)
	}

	exists, err := s.periodRepo.ExistsForYearMonth(ctx, req.FiscalYear, req.FiscalMonth)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "period for %d-%02d already exists", req.FiscalYear, req.FiscalMonth)
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("%s %d", time.Month(req.FiscalMonth), req.FiscalYear)
	}

	now := time.Now().UTC()
	period := domain.AccountingPeriod{
		PeriodID:      uuid.NewString(),
		Name:          name,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		FiscalYear:    req.FiscalYear,
		FiscalQuarter: domain.FiscalQuarterOf(req.FiscalMonth),
		FiscalMonth:   req.FiscalMonth,
		Status:        domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "period for %d-%02d already exists", req.FiscalYear, req.FiscalMonth)
		}
		logger.Error("Failed to save period", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// GenerateYear creates the 12 calendar-month periods of a fiscal year,
// skipping any (year, month) pair that already exists. Non-destructive.
func (s *periodService) GenerateYear(ctx context.Context, fiscalYear int, actor string) ([]domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	created := make([]domain.AccountingPeriod, 0, 12)
	for month := 1; month <= 12; month++ {
		exists, err := s.periodRepo.ExistsForYearMonth(ctx, fiscalYear, month)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		start := time.Date(fiscalYear, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		period, err := s.CreatePeriod(ctx, dto.CreatePeriodRequest{
			StartDate:   start,
			EndDate:     end,
			FiscalYear:  fiscalYear,
			FiscalMonth: month,
		}, actor)
		if err != nil {
			return created, err
		}
		created = append(created, *period)
	}

	logger.Info("Fiscal year generated", slog.Int("fiscal_year", fiscalYear), slog.Int("created", len(created)))
	return created, nil
}

// ResolveForDate finds the period bracketing the date, whatever its status.
// Callers gate on status: the journal engine distinguishes closed from locked
// so operators know whether reopening is a remedy.
func (s *periodService) ResolveForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNoOpenPeriod, "no accounting period contains %s", date.Format("2006-01-02"))
		}
		return nil, err
	}
	return period, nil
}

// ListPeriods returns periods, optionally filtered to one fiscal year (0 = all).
func (s *periodService) ListPeriods(ctx context.Context, fiscalYear int) ([]domain.AccountingPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, fiscalYear)
}

// ClosePeriod transitions OPEN -> CLOSED.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, actor string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, periodID, domain.PeriodClosed, actor)
}

// ReopenPeriod transitions CLOSED -> OPEN.
func (s *periodService) ReopenPeriod(ctx context.Context, periodID string, actor string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, periodID, domain.PeriodOpen, actor)
}

// LockPeriod transitions OPEN or CLOSED -> LOCKED. There is no unlock:
// locking is the point of no return after a period has been audited.
func (s *periodService) LockPeriod(ctx context.Context, periodID string, actor string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, periodID, domain.PeriodLocked, actor)
}

// transition applies the status state machine and persists the change with a
// conditional update so concurrent transitions cannot double-apply.
func (s *periodService) transition(ctx context.Context, periodID string, to domain.PeriodStatus, actor string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "period %s not found", periodID)
		}
		return nil, err
	}

	if !domain.CanTransition(period.Status, to) {
		if period.Status == domain.PeriodLocked {
			return nil, apperrors.Newf(apperrors.CodePeriodLocked, "period %s (%s) is locked", period.PeriodID, period.Name).
				WithDetails(map[string]any{"periodID": period.PeriodID, "status": string(period.Status)})
		}
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "cannot transition period %s from %s to %s", period.PeriodID, period.Status, to).
			WithDetails(map[string]any{"periodID": period.PeriodID, "status": string(period.Status)})
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, period.Status, to, actor, now); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Lost a race: someone else transitioned the period first.
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "period %s status changed concurrently", periodID)
		}
		logger.Error("Failed to update period status", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, err
	}

	period.Status = to
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actor

	logger.Info("Period status changed", slog.String("period_id", periodID), slog.String("status", string(to)))
	return period, nil
}
