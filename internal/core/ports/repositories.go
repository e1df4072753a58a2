package ports

import (
	"context"
	"time"

	"github.com/facturave/facturave/internal/core/domain"
)

// RateHistoryFilter windows a rate history listing. Zero values mean "no bound".
type RateHistoryFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

// DailyRateRepository defines the persistence operations for historical daily
// exchange rates. Implementations never hard-delete: superseding a rate
// deactivates the prior row and inserts a fresh one.
type DailyRateRepository interface {
	// GetRate returns the single active rate for the exact (company, pair, date),
	// or apperrors.ErrNotFound.
	GetRate(ctx context.Context, companyID string, pair domain.CurrencyPair, rateDate time.Time) (*domain.DailyRate, error)

	// UpsertRate atomically supersedes any active rate for the same
	// (company, pair, date) and inserts the given rate as the new active row.
	// Two writers racing to create the first rate for a (pair, date) are
	// serialized by the storage uniqueness constraint: the loser re-reads and
	// returns the winning row instead of erroring, unless override is set, in
	// which case the new rate always wins and supersedes the winner.
	UpsertRate(ctx context.Context, rate domain.DailyRate, override bool) (*domain.DailyRate, error)

	// LatestRate returns the most recent active rate for the pair, any date,
	// or apperrors.ErrNotFound. Staleness is judged by the caller from RateDate.
	LatestRate(ctx context.Context, companyID string, pair domain.CurrencyPair) (*domain.DailyRate, error)

	// ListRateHistory returns active rates for the pair ordered by date
	// descending, optionally windowed by the filter.
	ListRateHistory(ctx context.Context, companyID string, pair domain.CurrencyPair, filter RateHistoryFilter) ([]domain.DailyRate, error)

	// ListRateAudit returns every row ever written for (company, pair, date),
	// superseded rows included, newest first.
	ListRateAudit(ctx context.Context, companyID string, pair domain.CurrencyPair, rateDate time.Time) ([]domain.DailyRate, error)
}

// RepositoryProvider bundles the repositories for service wiring.
type RepositoryProvider struct {
	DailyRateRepo      DailyRateRepository
	ReferencePriceRepo ReferencePriceRepository
}

// ReferencePriceRepository reads product prices owned by the product catalog.
// It is read-only to this core.
type ReferencePriceRepository interface {
	// GetReferencePrice returns the product's price in the given reference
	// currency, or apperrors.ErrNotFound when no such price row exists.
	GetReferencePrice(ctx context.Context, companyID, productID, currencyCode string) (*domain.ReferencePrice, error)

	// GetLegacyPrice returns the deprecated direct price column for the
	// product, or apperrors.ErrNotFound. Provided only as an explicitly
	// unguaranteed compatibility fallback.
	GetLegacyPrice(ctx context.Context, companyID, productID string) (*domain.ReferencePrice, error)
}
