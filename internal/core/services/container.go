package services

import (
	"github.com/facturave/facturave/internal/core/ports"
	portssvc "github.com/facturave/facturave/internal/core/ports/services"
	"github.com/facturave/facturave/internal/platform/config"
	"github.com/shopspring/decimal"
)

// NewServiceContainer wires the services with their repository, feed and
// cache dependencies. Fiscal percentages come from configuration; a value
// that does not parse as a decimal falls back to zero, which disables that tax.
func NewServiceContainer(repos *ports.RepositoryProvider, provider ports.ExternalRateProvider, rateCache ports.RateCache, cfg *config.Config) *portssvc.ServiceContainer {
	vatPercent := parsePercent(cfg.VATPercent)
	surchargePercent := parsePercent(cfg.SurchargePercent)

	container := &portssvc.ServiceContainer{}

	container.DailyRate = NewDailyRateService(repos.DailyRateRepo, provider, rateCache, cfg.LocalCurrency, cfg.SyncCurrencies)
	container.RateResolver = NewRateResolutionService(repos.DailyRateRepo, provider, rateCache, cfg.LocalCurrency)
	container.ReferencePrice = NewReferencePriceService(repos.ReferencePriceRepo)
	container.Tax = NewTaxService(cfg.LocalCurrency, cfg.SurchargeExemptMethods)
	container.InvoiceCalculation = NewInvoiceCalculationService(
		container.ReferencePrice,
		container.RateResolver,
		container.Tax,
		cfg.ReferenceCurrency,
		cfg.LocalCurrency,
		vatPercent,
		surchargePercent,
	)

	return container
}

func parsePercent(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Compile-time interface checks.
var (
	_ portssvc.DailyRateSvcFacade          = (*DailyRateService)(nil)
	_ portssvc.RateResolverSvcFacade       = (*RateResolutionService)(nil)
	_ portssvc.ReferencePriceSvc           = (*ReferencePriceService)(nil)
	_ portssvc.TaxCalculatorSvc            = (*TaxService)(nil)
	_ portssvc.InvoiceCalculationSvcFacade = (*InvoiceCalculationService)(nil)
)
