package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/facturave/facturave/internal/core/domain"
	portssvc "github.com/facturave/facturave/internal/core/ports/services"
	"github.com/facturave/facturave/internal/dto"
	"github.com/shopspring/decimal"
)

// InvoiceCalculationService composes reference prices, one resolved rate and
// the tax cascade into an immutable invoice computation. The rate is resolved
// exactly once per call and every line converts with it, so recomputing the
// same request within one rate day is idempotent.
type InvoiceCalculationService struct {
	priceSvc    portssvc.ReferencePriceSvc
	resolverSvc portssvc.RateResolverSvcFacade
	taxSvc      portssvc.TaxCalculatorSvc

	referenceCurrency string
	localCurrency     string
	vatPercent        decimal.Decimal
	surchargePercent  decimal.Decimal
}

// NewInvoiceCalculationService creates a new InvoiceCalculationService with
// the configured fiscal percentages.
func NewInvoiceCalculationService(priceSvc portssvc.ReferencePriceSvc, resolverSvc portssvc.RateResolverSvcFacade, taxSvc portssvc.TaxCalculatorSvc, referenceCurrency, localCurrency string, vatPercent, surchargePercent decimal.Decimal) *InvoiceCalculationService {
	return &InvoiceCalculationService{
		priceSvc:          priceSvc,
		resolverSvc:       resolverSvc,
		taxSvc:            taxSvc,
		referenceCurrency: strings.ToUpper(referenceCurrency),
		localCurrency:     strings.ToUpper(localCurrency),
		vatPercent:        vatPercent,
		surchargePercent:  surchargePercent,
	}
}

// ComputeInvoice builds the full computation for the requested lines. The
// discount applies to the settlement subtotal before any tax; the tax cascade
// runs once on the discounted aggregate, not per line.
func (s *InvoiceCalculationService) ComputeInvoice(ctx context.Context, req dto.ComputeInvoiceRequest, actorUserID string) (*domain.InvoiceComputation, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: invoice must have at least one line", apperrors.ErrValidation)
	}
	if req.DiscountPercent.IsNegative() || req.DiscountPercent.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("%w: discount percent must be between 0 and 100", apperrors.ErrValidation)
	}
	for _, line := range req.Lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: line quantity must be positive for product %s", apperrors.ErrValidation, line.ProductID)
		}
		if line.ReferencePriceOverride != nil && line.ReferencePriceOverride.IsNegative() {
			return nil, fmt.Errorf("%w: price override cannot be negative for product %s", apperrors.ErrValidation, line.ProductID)
		}
	}

	settlementCurrency := strings.ToUpper(req.SettlementCurrency)
	if settlementCurrency == "" {
		settlementCurrency = s.localCurrency
	}

	rateDate := time.Now()
	if req.RateDate != nil {
		rateDate = *req.RateDate
	}

	rate, resolvedDate, source, err := s.resolveOnce(ctx, req.CompanyID, settlementCurrency, rateDate, req.ManualRate, actorUserID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.LineComputation, 0, len(req.Lines))
	subtotalReference := decimal.Zero
	subtotalSettlement := decimal.Zero

	for _, lineReq := range req.Lines {
		unitReference, productName, legacy, err := s.unitPrice(ctx, req.CompanyID, lineReq)
		if err != nil {
			return nil, err
		}

		unitSettlement := roundHalfUp(unitReference.Mul(rate))
		lineReference := roundHalfUp(unitReference.Mul(lineReq.Quantity))
		lineSettlement := roundHalfUp(unitSettlement.Mul(lineReq.Quantity))

		lines = append(lines, domain.LineComputation{
			ProductID:            lineReq.ProductID,
			ProductName:          productName,
			Quantity:             lineReq.Quantity,
			UnitPriceReference:   unitReference,
			UnitPriceSettlement:  unitSettlement,
			SubtotalReference:    lineReference,
			SubtotalSettlement:   lineSettlement,
			ReferencePriceLegacy: legacy,
		})
		subtotalReference = subtotalReference.Add(lineReference)
		subtotalSettlement = subtotalSettlement.Add(lineSettlement)
	}

	discountAmount := roundHalfUp(subtotalSettlement.Mul(req.DiscountPercent).Div(oneHundred))
	taxableBase := subtotalSettlement.Sub(discountAmount)

	surchargeApplicable := s.taxSvc.SurchargeApplicable(settlementCurrency, req.PaymentMethod)
	taxes, err := s.taxSvc.ComputeTaxes(taxableBase, s.vatPercent, surchargeApplicable, s.surchargePercent)
	if err != nil {
		return nil, err
	}

	return &domain.InvoiceComputation{
		Lines:              lines,
		ReferenceCurrency:  s.referenceCurrency,
		SettlementCurrency: settlementCurrency,
		PaymentMethod:      req.PaymentMethod,
		SubtotalReference:  subtotalReference,
		SubtotalSettlement: subtotalSettlement,
		DiscountPercent:    req.DiscountPercent,
		DiscountAmount:     discountAmount,
		VATPercent:         s.vatPercent,
		VATAmount:          taxes.VAT.Amount,
		SurchargePercent:   s.surchargePercent,
		SurchargeAmount:    taxes.Surcharge.Amount,
		SurchargeExempt:    taxes.Surcharge.Exempt,
		GrandTotal:         taxes.Total,
		Rate:               rate,
		RateDate:           resolvedDate,
		RateSource:         source,
	}, nil
}

// resolveOnce resolves the reference-to-settlement rate a single time for the
// whole computation. A same-currency settlement needs no rate at all.
func (s *InvoiceCalculationService) resolveOnce(ctx context.Context, companyID, settlementCurrency string, rateDate time.Time, manual *dto.ManualRateOverride, actorUserID string) (decimal.Decimal, time.Time, domain.RateSource, error) {
	if settlementCurrency == s.referenceCurrency {
		return decimal.NewFromInt(1), rateDate, domain.RateSourceManual, nil
	}

	resolved, err := s.resolverSvc.Resolve(ctx, companyID, s.referenceCurrency, settlementCurrency, rateDate, manual, actorUserID)
	if err != nil {
		return decimal.Zero, time.Time{}, "", err
	}
	return resolved.Rate, resolved.RateDate, resolved.Source, nil
}

// unitPrice returns the reference-currency unit price for a line: the
// caller's override when present, otherwise the catalog lookup.
func (s *InvoiceCalculationService) unitPrice(ctx context.Context, companyID string, lineReq dto.ComputeInvoiceLineRequest) (decimal.Decimal, string, bool, error) {
	if lineReq.ReferencePriceOverride != nil {
		return *lineReq.ReferencePriceOverride, "", false, nil
	}

	price, err := s.priceSvc.GetReferencePrice(ctx, companyID, lineReq.ProductID, s.referenceCurrency)
	if err != nil {
		return decimal.Zero, "", false, err
	}
	return price.Price, price.ProductName, price.Legacy, nil
}
