package services

import (
	"fmt"
	"strings"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// roundHalfUp rounds to 2 decimals, half up. All amounts in the cascade are
// non-negative, so decimal's round-half-away-from-zero is exactly half-up here.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// TaxService applies the fiscally mandated tax cascade: value-added tax on
// the settlement subtotal, then the foreign-settlement surcharge on the
// tax-inclusive amount. Rounding happens at each stage, not deferred to the
// end: aggregating rounded per-line results may differ by up to one cent per
// line from rounding a single aggregate, and that is the audit-compliant
// behavior, not an error.
type TaxService struct {
	localCurrency string
	exemptMethods map[string]bool
}

// NewTaxService creates a TaxService. exemptMethods is the configured set of
// payment methods (e.g. "efectivo", "cash") whose settlements never attract
// the surcharge.
func NewTaxService(localCurrency string, exemptMethods []string) *TaxService {
	exempt := make(map[string]bool, len(exemptMethods))
	for _, m := range exemptMethods {
		exempt[strings.ToLower(strings.TrimSpace(m))] = true
	}
	return &TaxService{
		localCurrency: strings.ToUpper(localCurrency),
		exemptMethods: exempt,
	}
}

// ComputeTaxes applies the cascade to a settlement-currency base amount.
func (s *TaxService) ComputeTaxes(baseAmount, vatPercent decimal.Decimal, surchargeApplicable bool, surchargePercent decimal.Decimal) (*domain.TaxBreakdown, error) {
	if baseAmount.IsNegative() {
		return nil, fmt.Errorf("%w: base amount cannot be negative", apperrors.ErrValidation)
	}
	if vatPercent.IsNegative() || surchargePercent.IsNegative() {
		return nil, fmt.Errorf("%w: tax rates cannot be negative", apperrors.ErrValidation)
	}

	vatAmount := roundHalfUp(baseAmount.Mul(vatPercent).Div(oneHundred))

	// The surcharge base is the tax-inclusive amount, not the pre-tax base.
	surchargeBase := baseAmount.Add(vatAmount)

	surchargeAmount := decimal.Zero
	if surchargeApplicable {
		surchargeAmount = roundHalfUp(surchargeBase.Mul(surchargePercent).Div(oneHundred))
	}

	return &domain.TaxBreakdown{
		VAT: domain.TaxLine{
			Kind:        domain.TaxKindVAT,
			BaseAmount:  baseAmount,
			RatePercent: vatPercent,
			Amount:      vatAmount,
		},
		Surcharge: domain.TaxLine{
			Kind:        domain.TaxKindSurcharge,
			BaseAmount:  surchargeBase,
			RatePercent: surchargePercent,
			Amount:      surchargeAmount,
			Exempt:      !surchargeApplicable,
		},
		Total: surchargeBase.Add(surchargeAmount),
	}, nil
}

// SurchargeApplicable evaluates the exemption policy in one place: settlement
// in the local currency is exempt, as is any payment method in the configured
// exempt set; every other (foreign-currency-equivalent) settlement attracts
// the surcharge.
func (s *TaxService) SurchargeApplicable(settlementCurrency, paymentMethod string) bool {
	if strings.ToUpper(settlementCurrency) == s.localCurrency {
		return false
	}
	if s.exemptMethods[strings.ToLower(strings.TrimSpace(paymentMethod))] {
		return false
	}
	return true
}
