package dto

import (
	"github.com/finbooks/ledger_backend/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating an account.
// NormalBalance is intentionally absent: it is derived from the type.
type CreateAccountRequest struct {
	AccountNumber string             `json:"accountNumber" binding:"required"`
	Name          string             `json:"name" binding:"required"`
	AccountType   domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType       string             `json:"subType"`
	ParentNumber  string             `json:"parentNumber"`
	Description   string             `json:"description"`
}

// UpdateAccountRequest defines the mutable subset of an account. The number
// and type are fixed for life; pointers distinguish "absent" from zero values.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	SubType     *string `json:"subType"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// ListAccountsParams filters account listing.
type ListAccountsParams struct {
	AccountType     domain.AccountType `form:"type"`
	IncludeInactive bool               `form:"includeInactive"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID     string `json:"accountID"`
	AccountNumber string `json:"accountNumber"`
	Name          string `json:"name"`
	AccountType   string `json:"accountType"`
	SubType       string `json:"subType"`
	NormalBalance string `json:"normalBalance"`
	ParentNumber  string `json:"parentNumber,omitempty"`
	Description   string `json:"description,omitempty"`
	IsActive      bool   `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		SubType:       a.SubType,
		NormalBalance: string(a.NormalBalance),
		ParentNumber:  a.ParentNumber,
		Description:   a.Description,
		IsActive:      a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
