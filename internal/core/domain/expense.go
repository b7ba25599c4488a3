package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the lifecycle state of an expense document.
type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "PENDING"
	ExpensePaid    ExpenseStatus = "PAID"
)

// Expense is a derived document type: it holds no ledger truth of its own and
// posts through the journal engine when marked paid.
type Expense struct {
	ExpenseID       string          `json:"expenseID"`     // Primary Key (UUID)
	ExpenseNumber   int64           `json:"expenseNumber"` // From the expenses sequence
	Vendor          string          `json:"vendor"`
	CategoryAccount string          `json:"categoryAccount"` // Expense account number to post against
	Amount          decimal.Decimal `json:"amount"`
	ExpenseDate     time.Time       `json:"expenseDate"`
	Description     string          `json:"description"`
	Status          ExpenseStatus   `json:"status"`
	JournalEntryID  string          `json:"journalEntryID"` // Set once paid and posted
	AuditFields
}
