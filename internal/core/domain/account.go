package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset       AccountType = "ASSET"
	Liability   AccountType = "LIABILITY"
	Equity      AccountType = "EQUITY"
	Revenue     AccountType = "REVENUE"
	ExpenseType AccountType = "EXPENSE"
)

// NormalBalance is the polarity in which an account type naturally increases.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// NormalBalanceFor derives the normal balance polarity from the account type.
// It is never user-supplied: Asset/Expense accounts are debit-normal, the rest
// are credit-normal.
func NormalBalanceFor(t AccountType) NormalBalance {
	switch t {
	case Asset, ExpenseType:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// ValidAccountType reports whether t is one of the five account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case Asset, Liability, Equity, Revenue, ExpenseType:
		return true
	}
	return false
}

// Account represents a ledger account in the chart of accounts.
// Accounts are never deleted, only deactivated: journal lines denormalize the
// account number and name at posting time and must stay interpretable.
type Account struct {
	AccountID     string        `json:"accountID"`     // Primary Key (UUID)
	AccountNumber string        `json:"accountNumber"` // Unique, human-assigned (e.g. "1010")
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	SubType       string        `json:"subType"` // Free-form statement grouping
	NormalBalance NormalBalance `json:"normalBalance"`
	ParentNumber  string        `json:"parentNumber"` // Optional rollup reference, not ownership
	Description   string        `json:"description"`
	IsActive      bool          `json:"isActive"`
	AuditFields
}
