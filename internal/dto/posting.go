package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceEvent describes an invoice created by the invoicing subsystem.
type InvoiceEvent struct {
	InvoiceID    string          `json:"invoiceID" binding:"required"`
	CustomerName string          `json:"customerName"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date" binding:"required"`
}

// InvoiceAdjustmentEvent describes a signed change to an existing invoice.
// A positive delta increases the receivable, a negative one decreases it.
type InvoiceAdjustmentEvent struct {
	AdjustmentID string          `json:"adjustmentID" binding:"required"`
	InvoiceID    string          `json:"invoiceID"`
	Delta        decimal.Decimal `json:"delta"`
	Date         time.Time       `json:"date" binding:"required"`
	Reason       string          `json:"reason"`
}

// PaymentEvent describes a customer payment received.
type PaymentEvent struct {
	PaymentID    string          `json:"paymentID" binding:"required"`
	CustomerName string          `json:"customerName"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date" binding:"required"`
}

// RefundEvent describes a refund issued to a customer.
type RefundEvent struct {
	RefundID     string          `json:"refundID" binding:"required"`
	CustomerName string          `json:"customerName"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date" binding:"required"`
}

// TimeEntryEvent describes logged work; amount posted is Rate x Hours.
type TimeEntryEvent struct {
	TimeEntryID string          `json:"timeEntryID" binding:"required"`
	Project     string          `json:"project"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	Billable    bool            `json:"billable"`
	Date        time.Time       `json:"date" binding:"required"`
}

// RenewalEvent describes a subscription renewal created.
type RenewalEvent struct {
	RenewalID    string          `json:"renewalID" binding:"required"`
	CustomerName string          `json:"customerName"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date" binding:"required"`
}

// RecognitionEvent describes a deferred-revenue recognition slice.
type RecognitionEvent struct {
	RecognitionID string          `json:"recognitionID" binding:"required"`
	RenewalID     string          `json:"renewalID"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date" binding:"required"`
}

// BulkPostResult aggregates the outcome of a retroactive posting job.
// Duplicate attempts are counted as skipped, not errors: re-running a bulk
// job is an expected, benign operation.
type BulkPostResult struct {
	Posted  int      `json:"posted"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}
