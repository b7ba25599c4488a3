package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
)

// Sequence series for journal entry document numbers.
const (
	SeriesJournalEntries      = "journal_entries"
	SeriesJournalEntriesStart = 10001
)

// journalService is the journal entry engine: it validates, numbers and
// persists balanced entries, and produces reversals.
type journalService struct {
	journalRepo  portsrepo.JournalRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
	accountSvc   portssvc.AccountSvcFacade
	periodSvc    portssvc.PeriodSvcFacade
}

// NewJournalService creates a new journal entry engine.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	sequenceRepo portsrepo.SequenceRepository,
	accountSvc portssvc.AccountSvcFacade,
	periodSvc portssvc.PeriodSvcFacade,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo:  journalRepo,
		sequenceRepo: sequenceRepo,
		accountSvc:   accountSvc,
		periodSvc:    periodSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateStructure checks line count and amount signs. Aggregate totals only:
// a line with both sides zero, or both non-zero, is accepted if the entry
// balances, matching conventional double-entry usage over a schema constraint.
func validateStructure(lines []dto.CreateLineRequest) error {
	if len(lines) < 2 {
		return apperrors.New(apperrors.CodeInvalidInput, "journal entry must have at least two lines")
	}
	for i, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return apperrors.Newf(apperrors.CodeInvalidInput, "line %d: debit and credit must be non-negative", i+1)
		}
	}
	return nil
}

// validateBalance enforces the core invariant: total debits equal total
// credits within domain.BalanceEpsilon. The computed totals ride along in the
// error details so callers can display the mismatch; the engine never inserts
// a plug line to absorb one.
func validateBalance(lines []dto.CreateLineRequest) error {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, l := range lines {
		totalDebits = totalDebits.Add(l.Debit)
		totalCredits = totalCredits.Add(l.Credit)
	}
	if totalDebits.Sub(totalCredits).Abs().GreaterThan(domain.BalanceEpsilon) {
		return apperrors.Newf(apperrors.CodeDebitsCreditsMismatch,
			"debits (%s) do not equal credits (%s)", totalDebits.String(), totalCredits.String()).
			WithDetails(map[string]any{
				"totalDebits":  totalDebits.String(),
				"totalCredits": totalCredits.String(),
			})
	}
	return nil
}

// resolveAccounts bulk-fetches every referenced account and rejects the whole
// entry if any is missing or inactive. Partial posting is never acceptable.
func (s *journalService) resolveAccounts(ctx context.Context, lines []dto.CreateLineRequest) (map[string]domain.Account, error) {
	numbers := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountNumber]; ok {
			continue
		}
		seen[l.AccountNumber] = struct{}{}
		numbers = append(numbers, l.AccountNumber)
	}

	accounts, err := s.accountSvc.GetAccountsByNumbers(ctx, numbers)
	if err != nil {
		return nil, err
	}
	for _, number := range numbers {
		acc, found := accounts[number]
		if !found {
			return nil, apperrors.Newf(apperrors.CodeAccountNotFound, "account %s not found", number)
		}
		if !acc.IsActive {
			return nil, apperrors.Newf(apperrors.CodeAccountNotFound, "account %s is inactive", number)
		}
	}
	return accounts, nil
}

// resolvePostingPeriod resolves the business date to a period and gates on
// its status. Closed and locked fail distinctly: a closed period can be
// reopened by an administrator, a locked one cannot.
func (s *journalService) resolvePostingPeriod(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := s.periodSvc.ResolveForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	switch period.Status {
	case domain.PeriodClosed:
		return nil, apperrors.Newf(apperrors.CodePeriodClosed, "period %s (%s) is closed", period.PeriodID, period.Name).
			WithDetails(map[string]any{"periodID": period.PeriodID, "status": string(period.Status)})
	case domain.PeriodLocked:
		return nil, apperrors.Newf(apperrors.CodePeriodLocked, "period %s (%s) is locked", period.PeriodID, period.Name).
			WithDetails(map[string]any{"periodID": period.PeriodID, "status": string(period.Status)})
	}
	return period, nil
}

// CreateEntry validates and posts a journal entry. Validation order is fixed:
// structure, balance, accounts, period; only then is a sequence number drawn
// and the entry persisted, so a rejected entry never advances the counter.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = domain.SourceManual
	}
	if !domain.ValidSourceType(sourceType) {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "unknown source type %q", sourceType)
	}
	if req.Description == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "description is required")
	}

	if err := validateStructure(req.Lines); err != nil {
		return nil, err
	}
	if err := validateBalance(req.Lines); err != nil {
		return nil, err
	}

	accounts, err := s.resolveAccounts(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	period, err := s.resolvePostingPeriod(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	entryNumber, err := s.sequenceRepo.Next(ctx, SeriesJournalEntries, SeriesJournalEntriesStart)
	if err != nil {
		logger.Error("Failed to obtain entry number", slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		acc := accounts[l.AccountNumber]
		lines[i] = domain.JournalLine{
			LineID:        uuid.NewString(),
			EntryID:       entryID,
			AccountID:     acc.AccountID,
			AccountNumber: acc.AccountNumber,
			AccountName:   acc.Name,
			Debit:         l.Debit,
			Credit:        l.Credit,
			Memo:          l.Memo,
			Department:    l.Department,
			Project:       l.Project,
			CostCenter:    l.CostCenter,
		}
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: entryNumber,
		EntryDate:   req.Date,
		PostingDate: now,
		PeriodID:    period.PeriodID,
		Description: req.Description,
		SourceType:  sourceType,
		SourceID:    req.SourceID,
		Status:      domain.EntryPosted,
		Lines:       lines,
		Audit: []domain.AuditRecord{{
			Action:    domain.AuditCreated,
			Actor:     actor,
			Timestamp: now,
		}},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.Int64("entry_number", entryNumber))
		return nil, err
	}

	logger.Info("Journal entry posted",
		slog.Int64("entry_number", entry.EntryNumber),
		slog.String("source_type", string(entry.SourceType)),
		slog.String("period_id", period.PeriodID))
	return &entry, nil
}

// ReverseEntry creates a new entry with every line's debit and credit swapped
// and flips the original to REVERSED. The reversal is dated now, not at the
// original transaction date: it is a new economic event.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "journal entry %s not found", entryID)
		}
		return nil, err
	}

	switch original.Status {
	case domain.EntryReversed:
		return nil, apperrors.Newf(apperrors.CodeAlreadyReversed, "entry %d is already reversed", original.EntryNumber).
			WithDetails(map[string]any{"entryID": original.EntryID, "status": string(original.Status)})
	case domain.EntryPosted:
		// reversible
	default:
		return nil, apperrors.Newf(apperrors.CodeCanOnlyReversePosted, "entry %d has status %s, expected POSTED", original.EntryNumber, original.Status).
			WithDetails(map[string]any{"entryID": original.EntryID, "status": string(original.Status)})
	}

	// The original's period gates reversal: a locked period is untouchable.
	originalPeriod, err := s.periodSvc.ResolveForDate(ctx, original.EntryDate)
	if err != nil {
		return nil, err
	}
	if originalPeriod.Status == domain.PeriodLocked {
		return nil, apperrors.Newf(apperrors.CodePeriodLocked, "entry %d belongs to locked period %s", original.EntryNumber, originalPeriod.Name).
			WithDetails(map[string]any{"periodID": originalPeriod.PeriodID, "status": string(originalPeriod.Status)})
	}

	now := time.Now().UTC()

	// The reversal itself posts into today's period, which must accept writes.
	reversalPeriod, err := s.resolvePostingPeriod(ctx, now)
	if err != nil {
		return nil, err
	}

	entryNumber, err := s.sequenceRepo.Next(ctx, SeriesJournalEntries, SeriesJournalEntriesStart)
	if err != nil {
		logger.Error("Failed to obtain entry number for reversal", slog.String("error", err.Error()))
		return nil, err
	}

	reversalID := uuid.NewString()
	lines := original.ReversalLines()
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = reversalID
	}

	reversal := domain.JournalEntry{
		EntryID:           reversalID,
		EntryNumber:       entryNumber,
		EntryDate:         now,
		PostingDate:       now,
		PeriodID:          reversalPeriod.PeriodID,
		Description:       fmt.Sprintf("Reversal of entry #%d: %s", original.EntryNumber, original.Description),
		SourceType:        domain.SourceAdjustment,
		Status:            domain.EntryPosted,
		ReversalOfEntryID: original.EntryID,
		Lines:             lines,
		Audit: []domain.AuditRecord{{
			Action:    domain.AuditReversal,
			Actor:     actor,
			Timestamp: now,
			Detail:    map[string]any{"reversesEntryNumber": original.EntryNumber},
		}},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	auditOriginal := domain.AuditRecord{
		Action:    domain.AuditReversed,
		Actor:     actor,
		Timestamp: now,
		Detail:    map[string]any{"reversedByEntryNumber": reversal.EntryNumber},
	}

	// Atomic: the reversal insert and the conditional status flip of the
	// original commit together or not at all.
	if err := s.journalRepo.SaveReversal(ctx, reversal, original.EntryID, auditOriginal, actor, now); err != nil {
		if apperrors.Is(err, apperrors.CodeAlreadyReversed) {
			logger.Warn("Lost reversal race", slog.String("entry_id", original.EntryID))
		} else {
			logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("entry_id", original.EntryID))
		}
		return nil, err
	}

	logger.Info("Journal entry reversed",
		slog.Int64("original_entry_number", original.EntryNumber),
		slog.Int64("reversal_entry_number", reversal.EntryNumber))
	return &reversal, nil
}

// GetEntryByID retrieves an entry with its lines and audit trail.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "journal entry %s not found", entryID)
		}
		return nil, err
	}
	return entry, nil
}

// GetEntryByNumber retrieves an entry by its document number.
func (s *journalService) GetEntryByNumber(ctx context.Context, entryNumber int64) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByNumber(ctx, entryNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "journal entry #%d not found", entryNumber)
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries returns a filtered, keyset-paginated page of entries.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, params.SourceType, params.Status, params.From, params.To, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}
