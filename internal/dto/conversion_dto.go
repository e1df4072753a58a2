package dto

import (
	"time"

	"github.com/facturave/facturave/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ManualRateOverride carries a caller-supplied rate that must win over every
// stored or fed rate. The note justifies the override in the audit trail.
type ManualRateOverride struct {
	Rate  decimal.Decimal `json:"rate" binding:"required"`
	Notes string          `json:"notes"`
}

// ConvertRequest defines the caller-facing conversion contract input.
type ConvertRequest struct {
	CompanyID        string              `json:"companyID" binding:"required"`
	Amount           decimal.Decimal     `json:"amount" binding:"required"`
	FromCurrencyCode string              `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string              `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	RateDate         *time.Time          `json:"rateDate,omitempty"`
	ManualRate       *ManualRateOverride `json:"manualRate,omitempty"`
}

// ConversionResponse is the caller-facing conversion contract output.
type ConversionResponse struct {
	ConvertedAmount decimal.Decimal   `json:"convertedAmount"`
	Rate            decimal.Decimal   `json:"rate"`
	RateDate        time.Time         `json:"rateDate"`
	Source          domain.RateSource `json:"source"`
	InverseRate     decimal.Decimal   `json:"inverseRate"`
}

// ToConversionResponse converts a domain.ConversionResult.
func ToConversionResponse(r *domain.ConversionResult) ConversionResponse {
	return ConversionResponse{
		ConvertedAmount: r.ConvertedAmount,
		Rate:            r.Rate,
		RateDate:        r.RateDate,
		Source:          r.Source,
		InverseRate:     r.InverseRate,
	}
}
