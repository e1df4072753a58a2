package dto

import (
	"time"

	"github.com/facturave/facturave/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComputeInvoiceLineRequest is one requested invoice line. The reference
// price override, when present, replaces the catalog price for this line only.
type ComputeInvoiceLineRequest struct {
	ProductID              string           `json:"productID" binding:"required"`
	Quantity               decimal.Decimal  `json:"quantity" binding:"required"`
	ReferencePriceOverride *decimal.Decimal `json:"referencePriceOverride,omitempty"`
}

// ComputeInvoiceRequest defines the input of one invoice computation. The
// manual rate, when present, applies to the whole computation: all lines of
// one call share a single resolved rate per pair and date.
type ComputeInvoiceRequest struct {
	CompanyID string                      `json:"companyID" binding:"required"`
	Lines     []ComputeInvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	// PaymentMethod drives the surcharge exemption policy.
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	// SettlementCurrency defaults to the configured local currency.
	SettlementCurrency string              `json:"settlementCurrency,omitempty"`
	RateDate           *time.Time          `json:"rateDate,omitempty"`
	ManualRate         *ManualRateOverride `json:"manualRate,omitempty"`
	DiscountPercent    decimal.Decimal     `json:"discountPercent"`
}

// InvoiceLineResponse mirrors domain.LineComputation for API consumers.
type InvoiceLineResponse struct {
	ProductID            string          `json:"productID"`
	ProductName          string          `json:"productName"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitPriceReference   decimal.Decimal `json:"unitPriceReference"`
	UnitPriceSettlement  decimal.Decimal `json:"unitPriceSettlement"`
	SubtotalReference    decimal.Decimal `json:"subtotalReference"`
	SubtotalSettlement   decimal.Decimal `json:"subtotalSettlement"`
	ReferencePriceLegacy bool            `json:"referencePriceLegacy"`
}

// InvoiceComputationResponse is the API representation of a full computation.
type InvoiceComputationResponse struct {
	Lines              []InvoiceLineResponse `json:"lines"`
	ReferenceCurrency  string                `json:"referenceCurrency"`
	SettlementCurrency string                `json:"settlementCurrency"`
	PaymentMethod      string                `json:"paymentMethod"`
	SubtotalReference  decimal.Decimal       `json:"subtotalReference"`
	SubtotalSettlement decimal.Decimal       `json:"subtotalSettlement"`
	DiscountPercent    decimal.Decimal       `json:"discountPercent"`
	DiscountAmount     decimal.Decimal       `json:"discountAmount"`
	VATPercent         decimal.Decimal       `json:"vatPercent"`
	VATAmount          decimal.Decimal       `json:"vatAmount"`
	SurchargePercent   decimal.Decimal       `json:"surchargePercent"`
	SurchargeAmount    decimal.Decimal       `json:"surchargeAmount"`
	SurchargeExempt    bool                  `json:"surchargeExempt"`
	GrandTotal         decimal.Decimal       `json:"grandTotal"`
	Rate               decimal.Decimal       `json:"rate"`
	RateDate           time.Time             `json:"rateDate"`
	RateSource         domain.RateSource     `json:"rateSource"`
}

// ToInvoiceComputationResponse converts a domain.InvoiceComputation.
func ToInvoiceComputationResponse(c *domain.InvoiceComputation) InvoiceComputationResponse {
	lines := make([]InvoiceLineResponse, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = InvoiceLineResponse{
			ProductID:            l.ProductID,
			ProductName:          l.ProductName,
			Quantity:             l.Quantity,
			UnitPriceReference:   l.UnitPriceReference,
			UnitPriceSettlement:  l.UnitPriceSettlement,
			SubtotalReference:    l.SubtotalReference,
			SubtotalSettlement:   l.SubtotalSettlement,
			ReferencePriceLegacy: l.ReferencePriceLegacy,
		}
	}
	return InvoiceComputationResponse{
		Lines:              lines,
		ReferenceCurrency:  c.ReferenceCurrency,
		SettlementCurrency: c.SettlementCurrency,
		PaymentMethod:      c.PaymentMethod,
		SubtotalReference:  c.SubtotalReference,
		SubtotalSettlement: c.SubtotalSettlement,
		DiscountPercent:    c.DiscountPercent,
		DiscountAmount:     c.DiscountAmount,
		VATPercent:         c.VATPercent,
		VATAmount:          c.VATAmount,
		SurchargePercent:   c.SurchargePercent,
		SurchargeAmount:    c.SurchargeAmount,
		SurchargeExempt:    c.SurchargeExempt,
		GrandTotal:         c.GrandTotal,
		Rate:               c.Rate,
		RateDate:           c.RateDate,
		RateSource:         c.RateSource,
	}
}
