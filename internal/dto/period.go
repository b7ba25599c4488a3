package dto

import (
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
)

// CreatePeriodRequest defines the payload for creating a single period.
type CreatePeriodRequest struct {
	Name        string    `json:"name"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	FiscalYear  int       `json:"fiscalYear" binding:"required"`
	FiscalMonth int       `json:"fiscalMonth" binding:"required,gte=1,lte=12"`
}

// GenerateYearRequest asks for all 12 monthly periods of a fiscal year.
type GenerateYearRequest struct {
	FiscalYear int `json:"fiscalYear" binding:"required,gte=1900,lte=9999"`
}

// PeriodResponse is the API representation of an accounting period.
type PeriodResponse struct {
	PeriodID      string    `json:"periodID"`
	Name          string    `json:"name"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	FiscalYear    int       `json:"fiscalYear"`
	FiscalQuarter int       `json:"fiscalQuarter"`
	FiscalMonth   int       `json:"fiscalMonth"`
	Status        string    `json:"status"`
}

// ToPeriodResponse converts a domain period to its API representation.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:      p.PeriodID,
		Name:          p.Name,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		FiscalYear:    p.FiscalYear,
		FiscalQuarter: p.FiscalQuarter,
		FiscalMonth:   p.FiscalMonth,
		Status:        string(p.Status),
	}
}

// ToPeriodResponses converts a slice of periods.
func ToPeriodResponses(periods []domain.AccountingPeriod) []PeriodResponse {
	responses := make([]PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToPeriodResponse(&periods[i])
	}
	return responses
}
