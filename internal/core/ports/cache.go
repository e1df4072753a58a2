package ports

import (
	"time"

	"github.com/facturave/facturave/internal/core/domain"
)

// RateCache is an injectable read-through cache over resolved rates, keyed by
// (company, pair, date). It must be invalidated synchronously on every rate
// upsert so a superseded rate is never served; there is no TTL guesswork.
type RateCache interface {
	Get(companyID string, pair domain.CurrencyPair, rateDate time.Time) (*domain.ResolvedRate, bool)
	Put(companyID string, pair domain.CurrencyPair, rateDate time.Time, rate domain.ResolvedRate)
	// Invalidate drops the entries for both directions of the pair on the date.
	Invalidate(companyID string, pair domain.CurrencyPair, rateDate time.Time)
}
