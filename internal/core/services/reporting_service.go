package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
)

// ledgerEpoch is the lower bound for "since inception" queries.
var ledgerEpoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// Anomaly thresholds. Heuristic, not part of the correctness contract.
var (
	anomalyZScoreThreshold = 3.0
	largeManualThreshold   = decimal.NewFromInt(10000)
)

// reportingService derives read-only views over posted entries. It consumes
// only the invariants the journal engine guarantees; it never writes.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance reports every account's totals and signed balance as of a date.
// The grand totals must net to zero; that is a corollary of the per-entry
// balance invariant and a useful system-level regression check.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	rows, err := s.reportingRepo.GetTrialBalanceRows(ctx, asOf)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalance{
		AsOf:         asOf,
		Rows:         rows,
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for i := range rows {
		if domain.NormalBalanceFor(rows[i].AccountType) == domain.DebitNormal {
			rows[i].Balance = rows[i].TotalDebits.Sub(rows[i].TotalCredits)
		} else {
			rows[i].Balance = rows[i].TotalCredits.Sub(rows[i].TotalDebits)
		}
		report.TotalDebits = report.TotalDebits.Add(rows[i].TotalDebits)
		report.TotalCredits = report.TotalCredits.Add(rows[i].TotalCredits)
	}
	return report, nil
}

// IncomeStatement reports revenue and expenses over a date range.
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	byType, err := s.reportingRepo.GetNetAmountsByType(ctx, from, to, []domain.AccountType{domain.Revenue, domain.ExpenseType})
	if err != nil {
		return nil, err
	}

	report := &domain.IncomeStatement{
		From:     from,
		To:       to,
		Revenue:  byType[domain.Revenue],
		Expenses: byType[domain.ExpenseType],
	}
	report.TotalRevenue = sumAmounts(report.Revenue)
	report.TotalExpenses = sumAmounts(report.Expenses)
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)
	return report, nil
}

// BalanceSheet reports assets, liabilities and equity as of a date. Retained
// earnings is derived from net income since inception so the sheet balances
// without explicit closing entries.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	byType, err := s.reportingRepo.GetNetAmountsByType(ctx, ledgerEpoch, asOf,
		[]domain.AccountType{domain.Asset, domain.Liability, domain.Equity})
	if err != nil {
		return nil, err
	}

	income, err := s.IncomeStatement(ctx, ledgerEpoch, asOf)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheet{
		AsOf:             asOf,
		Assets:           byType[domain.Asset],
		Liabilities:      byType[domain.Liability],
		Equity:           byType[domain.Equity],
		RetainedEarnings: income.NetIncome,
	}
	report.TotalAssets = sumAmounts(report.Assets)
	report.TotalLiabilities = sumAmounts(report.Liabilities)
	report.TotalEquity = sumAmounts(report.Equity).Add(report.RetainedEarnings)
	return report, nil
}

// CashFlow derives an indirect-method cash flow statement: net income adjusted
// for working-capital movements, reconciled against the cash account's change.
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error) {
	income, err := s.IncomeStatement(ctx, from, to)
	if err != nil {
		return nil, err
	}

	changes, err := s.reportingRepo.GetAccountNetChange(ctx, from, to, []string{
		domain.AcctCash,
		domain.AcctAccountsReceivable,
		domain.AcctDeferredRevenue,
		domain.AcctAccruedWages,
	})
	if err != nil {
		return nil, err
	}

	// GetAccountNetChange returns debit-credit. AR is debit-normal: a positive
	// change means receivables grew, consuming cash. Deferred revenue and
	// accrued wages are credit-normal: growth is a negative debit-credit
	// change that frees cash, so their signs flip.
	arChange := changes[domain.AcctAccountsReceivable]
	deferredChange := changes[domain.AcctDeferredRevenue].Neg()
	wagesChange := changes[domain.AcctAccruedWages].Neg()

	report := &domain.CashFlowStatement{
		From:                  from,
		To:                    to,
		NetIncome:             income.NetIncome,
		ReceivablesChange:     arChange,
		DeferredRevenueChange: deferredChange,
		AccruedWagesChange:    wagesChange,
		NetCashChange:         changes[domain.AcctCash],
	}
	report.OperatingCashFlow = report.NetIncome.Sub(arChange).Add(deferredChange).Add(wagesChange)
	return report, nil
}

// KPIs reports headline figures over a date range.
func (s *reportingService) KPIs(ctx context.Context, from, to time.Time) (*domain.KPIReport, error) {
	income, err := s.IncomeStatement(ctx, from, to)
	if err != nil {
		return nil, err
	}

	entryAmounts, err := s.reportingRepo.GetEntryAmounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &domain.KPIReport{
		From:           from,
		To:             to,
		Revenue:        income.TotalRevenue,
		Expenses:       income.TotalExpenses,
		EntryCounts:    make(map[domain.SourceType]int),
		AmountBySource: make(map[domain.SourceType]decimal.Decimal),
	}
	for _, ea := range entryAmounts {
		report.EntryCounts[ea.SourceType]++
		report.AmountBySource[ea.SourceType] = report.AmountBySource[ea.SourceType].Add(ea.Amount)
	}
	if income.TotalRevenue.IsPositive() {
		report.NetMarginPct = income.NetIncome.Div(income.TotalRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return report, nil
}

// Anomalies flags entries whose amount is a z-score outlier within their
// source type, and large manual entries. Exploratory output for reviewers.
func (s *reportingService) Anomalies(ctx context.Context, from, to time.Time) ([]domain.Anomaly, error) {
	entryAmounts, err := s.reportingRepo.GetEntryAmounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	bySource := make(map[domain.SourceType][]domain.EntryAmount)
	for _, ea := range entryAmounts {
		bySource[ea.SourceType] = append(bySource[ea.SourceType], ea)
	}

	anomalies := []domain.Anomaly{}
	for sourceType, group := range bySource {
		mean, stddev := meanStddev(group)
		for _, ea := range group {
			if stddev > 0 {
				z := (amountFloat(ea.Amount) - mean) / stddev
				if math.Abs(z) > anomalyZScoreThreshold {
					anomalies = append(anomalies, domain.Anomaly{
						EntryID:     ea.EntryID,
						EntryNumber: ea.EntryNumber,
						SourceType:  sourceType,
						Amount:      ea.Amount,
						ZScore:      z,
						Reason:      fmt.Sprintf("amount is %.1f standard deviations from the %s mean", z, sourceType),
					})
					continue
				}
			}
			if sourceType == domain.SourceManual && ea.Amount.GreaterThan(largeManualThreshold) {
				anomalies = append(anomalies, domain.Anomaly{
					EntryID:     ea.EntryID,
					EntryNumber: ea.EntryNumber,
					SourceType:  sourceType,
					Amount:      ea.Amount,
					Reason:      "large manual entry",
				})
			}
		}
	}
	return anomalies, nil
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}

func amountFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func meanStddev(group []domain.EntryAmount) (float64, float64) {
	if len(group) < 2 {
		return 0, 0
	}
	sum := 0.0
	for _, ea := range group {
		sum += amountFloat(ea.Amount)
	}
	mean := sum / float64(len(group))

	variance := 0.0
	for _, ea := range group {
		diff := amountFloat(ea.Amount) - mean
		variance += diff * diff
	}
	variance /= float64(len(group))
	return mean, math.Sqrt(variance)
}
