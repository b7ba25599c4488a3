package dto

import (
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the payload for recording an expense document.
// CategoryAccount is the expense account the cost will post against once paid.
type CreateExpenseRequest struct {
	Vendor          string          `json:"vendor" binding:"required"`
	CategoryAccount string          `json:"categoryAccount" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate     time.Time       `json:"expenseDate" binding:"required"`
	Description     string          `json:"description"`
}

// ExpenseResponse is the API representation of an expense document.
type ExpenseResponse struct {
	ExpenseID       string          `json:"expenseID"`
	ExpenseNumber   int64           `json:"expenseNumber"`
	Vendor          string          `json:"vendor"`
	CategoryAccount string          `json:"categoryAccount"`
	Amount          decimal.Decimal `json:"amount"`
	ExpenseDate     time.Time       `json:"expenseDate"`
	Description     string          `json:"description,omitempty"`
	Status          string          `json:"status"`
	JournalEntryID  string          `json:"journalEntryID,omitempty"`
}

// ToExpenseResponse converts a domain expense to its API representation.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:       e.ExpenseID,
		ExpenseNumber:   e.ExpenseNumber,
		Vendor:          e.Vendor,
		CategoryAccount: e.CategoryAccount,
		Amount:          e.Amount,
		ExpenseDate:     e.ExpenseDate,
		Description:     e.Description,
		Status:          string(e.Status),
		JournalEntryID:  e.JournalEntryID,
	}
}
