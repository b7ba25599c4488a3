package domain

// Canonical account numbers used by the auto-posting adapter. The seeding
// routine creates these; administrators may add more around them.
const (
	AcctCash                = "1000"
	AcctAccountsReceivable  = "1100"
	AcctEquipment           = "1500"
	AcctAccountsPayable     = "2000"
	AcctAccruedWages        = "2100"
	AcctDeferredRevenue     = "2400"
	AcctOwnersEquity        = "3000"
	AcctRetainedEarnings    = "3900"
	AcctServiceRevenue      = "4000"
	AcctSubscriptionRevenue = "4100"
	AcctDirectLabor         = "5000"
	AcctOperatingExpenses   = "6000"
	AcctNonBillableLabor    = "6100"
)

// ChartEntry is one row of the default chart of accounts.
type ChartEntry struct {
	Number  string
	Name    string
	Type    AccountType
	SubType string
}

// DefaultChart returns the standard chart the auto-posting adapter maps onto.
func DefaultChart() []ChartEntry {
	return []ChartEntry{
		{AcctCash, "Cash", Asset, "current_asset"},
		{AcctAccountsReceivable, "Accounts Receivable", Asset, "current_asset"},
		{AcctEquipment, "Equipment", Asset, "fixed_asset"},
		{AcctAccountsPayable, "Accounts Payable", Liability, "current_liability"},
		{AcctAccruedWages, "Accrued Wages", Liability, "current_liability"},
		{AcctDeferredRevenue, "Deferred Revenue", Liability, "current_liability"},
		{AcctOwnersEquity, "Owner's Equity", Equity, "equity"},
		{AcctRetainedEarnings, "Retained Earnings", Equity, "equity"},
		{AcctServiceRevenue, "Service Revenue", Revenue, "operating_revenue"},
		{AcctSubscriptionRevenue, "Subscription Revenue", Revenue, "operating_revenue"},
		{AcctDirectLabor, "Direct Labor", ExpenseType, "cogs"},
		{AcctOperatingExpenses, "Operating Expenses", ExpenseType, "opex"},
		{AcctNonBillableLabor, "Non-Billable Labor", ExpenseType, "opex"},
	}
}
