package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/middleware"
)

// postingService is the auto-posting adapter: it translates domain events into
// canonical journal lines using the fixed account map and delegates to the
// journal engine. It holds no state of its own.
type postingService struct {
	journalSvc  portssvc.JournalSvcFacade
	accountSvc  portssvc.AccountSvcFacade
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewPostingService creates a new auto-posting adapter.
func NewPostingService(
	journalSvc portssvc.JournalSvcFacade,
	accountSvc portssvc.AccountSvcFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
) portssvc.PostingSvcFacade {
	return &postingService{
		journalSvc:  journalSvc,
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// ExistsForSource reports whether any non-reversed entry already carries the
// (sourceType, sourceID) key. Bulk jobs check this before posting; the partial
// unique index backs the window between check and post.
func (s *postingService) ExistsForSource(ctx context.Context, sourceType domain.SourceType, sourceID string) (bool, error) {
	return s.journalRepo.ExistsForSource(ctx, sourceType, sourceID)
}

// translate posts one debit/credit pair through the journal engine. It is a
// no-op (nil, nil) for non-positive amounts and for missing or inactive mapped
// accounts: a misconfigured chart must never half-post, only skip and log.
func (s *postingService) translate(
	ctx context.Context,
	sourceType domain.SourceType,
	sourceID string,
	date time.Time,
	description string,
	debitAccount, creditAccount string,
	amount decimal.Decimal,
	dims dto.CreateLineRequest,
	actor string,
) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return nil, nil
	}

	accounts, err := s.accountSvc.GetAccountsByNumbers(ctx, []string{debitAccount, creditAccount})
	if err != nil {
		return nil, err
	}
	for _, number := range []string{debitAccount, creditAccount} {
		acc, found := accounts[number]
		if !found || !acc.IsActive {
			logger.Warn("Auto-posting skipped: mapped account unavailable",
				slog.String("account_number", number),
				slog.String("source_type", string(sourceType)),
				slog.String("source_id", sourceID))
			return nil, nil
		}
	}

	entry, err := s.journalSvc.CreateEntry(ctx, dto.CreateJournalEntryRequest{
		Date:        date,
		Description: description,
		SourceType:  sourceType,
		SourceID:    sourceID,
		Lines: []dto.CreateLineRequest{
			{AccountNumber: debitAccount, Debit: amount, Department: dims.Department, Project: dims.Project, CostCenter: dims.CostCenter},
			{AccountNumber: creditAccount, Credit: amount, Department: dims.Department, Project: dims.Project, CostCenter: dims.CostCenter},
		},
	}, actor)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PostInvoiceCreated posts Dr Accounts Receivable / Cr Service Revenue.
func (s *postingService) PostInvoiceCreated(ctx context.Context, ev dto.InvoiceEvent, actor string) (*domain.JournalEntry, error) {
	return s.translate(ctx, domain.SourceInvoice, ev.InvoiceID, ev.Date,
		describe("Invoice", ev.InvoiceID, ev.CustomerName),
		domain.AcctAccountsReceivable, domain.AcctServiceRevenue,
		ev.Amount, dto.CreateLineRequest{}, actor)
}

// PostInvoiceAdjustment posts the signed delta of an invoice change: an
// increase grows the receivable, a decrease gives revenue back.
func (s *postingService) PostInvoiceAdjustment(ctx context.Context, ev dto.InvoiceAdjustmentEvent, actor string) (*domain.JournalEntry, error) {
	if ev.Delta.IsZero() {
		return nil, nil
	}
	description := describe("Invoice adjustment", ev.AdjustmentID, ev.Reason)
	if ev.Delta.IsPositive() {
		return s.translate(ctx, domain.SourceInvoiceAdjustment, ev.AdjustmentID, ev.Date,
			description, domain.AcctAccountsReceivable, domain.AcctServiceRevenue,
			ev.Delta, dto.CreateLineRequest{}, actor)
	}
	return s.translate(ctx, domain.SourceInvoiceAdjustment, ev.AdjustmentID, ev.Date,
		description, domain.AcctServiceRevenue, domain.AcctAccountsReceivable,
		ev.Delta.Neg(), dto.CreateLineRequest{}, actor)
}

// PostPaymentReceived posts Dr Cash / Cr Accounts Receivable.
func (s *postingService) PostPaymentReceived(ctx context.Context, ev dto.PaymentEvent, actor string) (*domain.JournalEntry, error) {
	return s.translate(ctx, domain.SourcePayment, ev.PaymentID, ev.Date,
		describe("Payment", ev.PaymentID, ev.CustomerName),
		domain.AcctCash, domain.AcctAccountsReceivable,
		ev.Amount, dto.CreateLineRequest{}, actor)
}

// PostRefundIssued posts Dr Service Revenue / Cr Cash.
func (s *postingService) PostRefundIssued(ctx context.Context, ev dto.RefundEvent, actor string) (*domain.JournalEntry, error) {
	return s.translate(ctx, domain.SourcePayment, ev.RefundID, ev.Date,
		describe("Refund", ev.RefundID, ev.CustomerName),
		domain.AcctServiceRevenue, domain.AcctCash,
		ev.Amount, dto.CreateLineRequest{}, actor)
}

// PostTimeEntry posts rate x hours of labor cost: billable work to Direct
// Labor (COGS), non-billable to Non-Billable Labor (OPEX), both accruing wages.
func (s *postingService) PostTimeEntry(ctx context.Context, ev dto.TimeEntryEvent, actor string) (*domain.JournalEntry, error) {
	amount := ev.Rate.Mul(ev.Hours)
	debitAccount := domain.AcctDirectLabor
	kind := "billable"
	if !ev.Billable {
		debitAccount = domain.AcctNonBillableLabor
		kind = "non-billable"
	}
	return s.translate(ctx, domain.SourceTimeEntry, ev.TimeEntryID, ev.Date,
		fmt.Sprintf("Time entry %s (%s, %s h)", ev.TimeEntryID, kind, ev.Hours.String()),
		debitAccount, domain.AcctAccruedWages,
		amount, dto.CreateLineRequest{Project: ev.Project}, actor)
}

// PostRenewalCreated posts Dr Accounts Receivable / Cr Deferred Revenue.
func (s *postingService) PostRenewalCreated(ctx context.Context, ev dto.RenewalEvent, actor string) (*domain.JournalEntry, error) {
	return s.translate(ctx, domain.SourceRenewal, ev.RenewalID, ev.Date,
		describe("Renewal", ev.RenewalID, ev.CustomerName),
		domain.AcctAccountsReceivable, domain.AcctDeferredRevenue,
		ev.Amount, dto.CreateLineRequest{}, actor)
}

// PostRevenueRecognition posts Dr Deferred Revenue / Cr Subscription Revenue.
func (s *postingService) PostRevenueRecognition(ctx context.Context, ev dto.RecognitionEvent, actor string) (*domain.JournalEntry, error) {
	return s.translate(ctx, domain.SourceRenewal, ev.RecognitionID, ev.Date,
		describe("Revenue recognition", ev.RecognitionID, ev.RenewalID),
		domain.AcctDeferredRevenue, domain.AcctSubscriptionRevenue,
		ev.Amount, dto.CreateLineRequest{}, actor)
}

// repost runs one source document through its check-then-post cycle and folds
// the outcome into the bulk result. A duplicate_source conflict from the
// unique index is the "already posted" signal, counted as skipped.
func (s *postingService) repost(
	ctx context.Context,
	result *dto.BulkPostResult,
	sourceType domain.SourceType,
	sourceID string,
	post func() (*domain.JournalEntry, error),
) {
	exists, err := s.ExistsForSource(ctx, sourceType, sourceID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %v", sourceType, sourceID, err))
		return
	}
	if exists {
		result.Skipped++
		return
	}

	entry, err := post()
	switch {
	case err != nil && apperrors.Is(err, apperrors.CodeDuplicateSource):
		result.Skipped++
	case err != nil:
		result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %v", sourceType, sourceID, err))
	case entry == nil:
		result.Skipped++
	default:
		result.Posted++
	}
}

// RepostInvoices retroactively posts any invoices without a journal entry.
// Sequential by design: parallel workers would race the idempotency check for
// the same source document.
func (s *postingService) RepostInvoices(ctx context.Context, events []dto.InvoiceEvent, actor string) dto.BulkPostResult {
	result := dto.BulkPostResult{}
	for _, ev := range events {
		ev := ev
		s.repost(ctx, &result, domain.SourceInvoice, ev.InvoiceID, func() (*domain.JournalEntry, error) {
			return s.PostInvoiceCreated(ctx, ev, actor)
		})
	}
	s.logBulkResult(ctx, "invoices", result)
	return result
}

// RepostPayments retroactively posts any payments without a journal entry.
func (s *postingService) RepostPayments(ctx context.Context, events []dto.PaymentEvent, actor string) dto.BulkPostResult {
	result := dto.BulkPostResult{}
	for _, ev := range events {
		ev := ev
		s.repost(ctx, &result, domain.SourcePayment, ev.PaymentID, func() (*domain.JournalEntry, error) {
			return s.PostPaymentReceived(ctx, ev, actor)
		})
	}
	s.logBulkResult(ctx, "payments", result)
	return result
}

// RepostTimeEntries retroactively posts any time entries without a journal entry.
func (s *postingService) RepostTimeEntries(ctx context.Context, events []dto.TimeEntryEvent, actor string) dto.BulkPostResult {
	result := dto.BulkPostResult{}
	for _, ev := range events {
		ev := ev
		s.repost(ctx, &result, domain.SourceTimeEntry, ev.TimeEntryID, func() (*domain.JournalEntry, error) {
			return s.PostTimeEntry(ctx, ev, actor)
		})
	}
	s.logBulkResult(ctx, "time_entries", result)
	return result
}

// RepostRenewals retroactively posts any renewals without a journal entry.
func (s *postingService) RepostRenewals(ctx context.Context, events []dto.RenewalEvent, actor string) dto.BulkPostResult {
	result := dto.BulkPostResult{}
	for _, ev := range events {
		ev := ev
		s.repost(ctx, &result, domain.SourceRenewal, ev.RenewalID, func() (*domain.JournalEntry, error) {
			return s.PostRenewalCreated(ctx, ev, actor)
		})
	}
	s.logBulkResult(ctx, "renewals", result)
	return result
}

func (s *postingService) logBulkResult(ctx context.Context, job string, result dto.BulkPostResult) {
	middleware.GetLoggerFromCtx(ctx).Info("Bulk repost finished",
		slog.String("job", job),
		slog.Int("posted", result.Posted),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))
}

func describe(kind, id, context string) string {
	if context == "" {
		return fmt.Sprintf("%s %s", kind, id)
	}
	return fmt.Sprintf("%s %s - %s", kind, id, context)
}
