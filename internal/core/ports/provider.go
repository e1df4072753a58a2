package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExternalRateProvider is the contract of the external authoritative rate
// feed. Implementations own their networking and parsing; callers only rely
// on this logical surface. Failures map to apperrors.ErrProviderUnavailable
// and the resolution chain treats them as "no result", never as fatal.
type ExternalRateProvider interface {
	// GetRate returns the published rate between two currency codes, or
	// apperrors.ErrNotFound when the feed does not quote the pair.
	GetRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error)

	// Refresh forces a re-fetch of the feed's quotes.
	Refresh(ctx context.Context) error

	// IsAvailable reports whether the feed currently answers.
	IsAvailable(ctx context.Context) bool

	// LastUpdate returns the timestamp of the last successful refresh, or nil.
	LastUpdate() *time.Time

	// SupportedCurrencies lists the currency codes the feed publishes.
	SupportedCurrencies() []string
}
