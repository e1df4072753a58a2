package services

import (
	"context"
	"time"

	"github.com/facturave/facturave/internal/core/domain"
	"github.com/facturave/facturave/internal/core/ports"
	"github.com/facturave/facturave/internal/dto"
)

// DailyRateReaderSvc defines read operations over the stored rate history.
type DailyRateReaderSvc interface {
	// GetRateForDate retrieves the active rate for the exact pair and date.
	GetRateForDate(ctx context.Context, companyID, fromCode, toCode string, rateDate time.Time) (*domain.DailyRate, error)

	// GetLatestRate retrieves the most recent active rate for the pair.
	GetLatestRate(ctx context.Context, companyID, fromCode, toCode string) (*domain.DailyRate, error)

	// GetRateHistory lists active rates for the pair, newest first.
	GetRateHistory(ctx context.Context, companyID, fromCode, toCode string, filter ports.RateHistoryFilter) ([]domain.DailyRate, error)

	// GetRateAudit lists every row ever written for the pair and date,
	// superseded rows included.
	GetRateAudit(ctx context.Context, companyID, fromCode, toCode string, rateDate time.Time) ([]domain.DailyRate, error)

	// ProviderStatus reports the external feed's availability.
	ProviderStatus(ctx context.Context) dto.ProviderStatusResponse
}

// DailyRateWriterSvc defines write operations for daily rates.
type DailyRateWriterSvc interface {
	// CreateManualRate persists a manual rate, superseding any active rate
	// for the same pair and date.
	CreateManualRate(ctx context.Context, req dto.CreateManualRateRequest, creatorUserID string) (*domain.DailyRate, error)

	// SyncProviderRates pulls current quotes from the external feed and
	// stores changed ones. Per-currency failures are collected in the result.
	SyncProviderRates(ctx context.Context, companyID, actorUserID string, force bool) (*dto.SyncRatesResult, error)
}

// DailyRateSvcFacade combines all daily-rate service interfaces.
type DailyRateSvcFacade interface {
	DailyRateReaderSvc
	DailyRateWriterSvc
}

// RateResolverSvcFacade resolves effective rates and performs conversions.
type RateResolverSvcFacade interface {
	// Resolve determines the rate in effect for the pair on the date via the
	// fallback chain: manual override, direct, inverse, bounded feed refresh,
	// most recent historical. Returns apperrors.ErrRateNotAvailable only when
	// nothing was ever recorded for the pair.
	Resolve(ctx context.Context, companyID, fromCode, toCode string, rateDate time.Time, manual *dto.ManualRateOverride, actorUserID string) (*domain.ResolvedRate, error)

	// Convert applies a resolved rate to an amount, per the conversion contract.
	Convert(ctx context.Context, req dto.ConvertRequest, actorUserID string) (*domain.ConversionResult, error)
}
