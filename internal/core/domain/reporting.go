package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account in a trial balance report.
// Balance is signed by the account's normal polarity: debit-normal accounts
// report debit-credit, credit-normal accounts report credit-debit.
type TrialBalanceRow struct {
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	TotalDebits   decimal.Decimal `json:"totalDebits"`
	TotalCredits  decimal.Decimal `json:"totalCredits"`
	Balance       decimal.Decimal `json:"balance"`
}

// TrialBalance is the full report plus the zero-sum check totals.
type TrialBalance struct {
	AsOf         time.Time         `json:"asOf"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
}

// AccountAmount is an account with its net amount for statement sections.
type AccountAmount struct {
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"name"`
	SubType       string          `json:"subType"`
	NetAmount     decimal.Decimal `json:"netAmount"`
}

// IncomeStatement reports revenue and expenses over a date range.
type IncomeStatement struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// BalanceSheet reports assets, liabilities and equity as of a date. Retained
// earnings is a derived plug: net income over all time up to AsOf.
type BalanceSheet struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// CashFlowStatement is an indirect-method cash flow over a date range.
type CashFlowStatement struct {
	From                  time.Time       `json:"from"`
	To                    time.Time       `json:"to"`
	NetIncome             decimal.Decimal `json:"netIncome"`
	ReceivablesChange     decimal.Decimal `json:"receivablesChange"`
	DeferredRevenueChange decimal.Decimal `json:"deferredRevenueChange"`
	AccruedWagesChange    decimal.Decimal `json:"accruedWagesChange"`
	OperatingCashFlow     decimal.Decimal `json:"operatingCashFlow"`
	NetCashChange         decimal.Decimal `json:"netCashChange"`
}

// KPIReport is a set of headline figures over a date range.
type KPIReport struct {
	From           time.Time                 `json:"from"`
	To             time.Time                 `json:"to"`
	Revenue        decimal.Decimal           `json:"revenue"`
	Expenses       decimal.Decimal           `json:"expenses"`
	NetMarginPct   decimal.Decimal           `json:"netMarginPct"`
	EntryCounts    map[SourceType]int        `json:"entryCounts"`
	AmountBySource map[SourceType]decimal.Decimal `json:"amountBySource"`
}

// EntryAmount is one posted entry's economic value (its debit total), used by
// KPI and anomaly scans.
type EntryAmount struct {
	EntryID     string          `json:"entryID"`
	EntryNumber int64           `json:"entryNumber"`
	SourceType  SourceType      `json:"sourceType"`
	Amount      decimal.Decimal `json:"amount"`
}

// Anomaly flags a journal entry whose amount is unusual for its source type,
// or a large manual entry. Heuristic only, not part of the correctness contract.
type Anomaly struct {
	EntryID     string          `json:"entryID"`
	EntryNumber int64           `json:"entryNumber"`
	SourceType  SourceType      `json:"sourceType"`
	Amount      decimal.Decimal `json:"amount"`
	ZScore      float64         `json:"zScore"`
	Reason      string          `json:"reason"`
}
