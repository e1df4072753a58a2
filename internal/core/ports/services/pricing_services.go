package services

import (
	"context"

	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/dto"
	"github.com/shopspring/decimal"
)

// ReferencePriceSvc looks up a product's price in the stable reference
// currency. Pure lookup, no computation.
type ReferencePriceSvc interface {
	// GetReferencePrice returns the authoritative reference price, or the
	// deprecated legacy price flagged as such, or
	// apperrors.ErrReferencePriceMissing when neither exists.
	GetReferencePrice(ctx context.Context, companyID, productID, referenceCurrency string) (*domain.ReferencePrice, error)
}

// TaxCalculatorSvc applies the fiscally mandated tax cascade.
type TaxCalculatorSvc interface {
	// ComputeTaxes applies VAT then the foreign-settlement surcharge on the
	// tax-inclusive amount, rounding half-up to 2 decimals at each stage.
	ComputeTaxes(baseAmount, vatPercent decimal.Decimal, surchargeApplicable bool, surchargePercent decimal.Decimal) (*domain.TaxBreakdown, error)

	// SurchargeApplicable evaluates the configured exemption policy for a
	// settlement currency and payment method.
	SurchargeApplicable(settlementCurrency, paymentMethod string) bool
}

// InvoiceCalculationSvcFacade composes line items, rate metadata and tax
// results into one immutable computation.
type InvoiceCalculationSvcFacade interface {
	ComputeInvoice(ctx context.Context, req dto.ComputeInvoiceRequest, actorUserID string) (*domain.InvoiceComputation, error)
}
