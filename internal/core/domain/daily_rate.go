package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource tags the provenance of a stored exchange rate.
type RateSource string

const (
	// RateSourceOfficial marks rates pulled from the official central-bank feed.
	RateSourceOfficial RateSource = "OFFICIAL"
	// RateSourceManual marks operator-entered rates with a justification note.
	RateSourceManual RateSource = "MANUAL"
	// RateSourceScheduled marks rates written by the periodic sync job.
	RateSourceScheduled RateSource = "SCHEDULED"
	// RateSourceAPIBinance and RateSourceAPIFixer mark rates from secondary feeds.
	RateSourceAPIBinance RateSource = "API_BINANCE"
	RateSourceAPIFixer   RateSource = "API_FIXER"
)

// DailyRate is one historical exchange rate observation for a company and
// currency pair on a given day. Rows are append-only: a new rate for an
// already-covered (pair, date) deactivates the prior row, it never mutates
// or deletes it.
type DailyRate struct {
	DailyRateID        string            `json:"dailyRateID"`
	CompanyID          string            `json:"companyID"`
	BaseCurrencyCode   string            `json:"baseCurrencyCode"`
	TargetCurrencyCode string            `json:"targetCurrencyCode"`
	RateDate           time.Time         `json:"rateDate"` // day granularity
	Rate               decimal.Decimal   `json:"rate"`
	Source             RateSource        `json:"source"`
	IsActive           bool              `json:"isActive"`
	Notes              string            `json:"notes,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	AuditFields
}

// Pair returns the currency pair this rate covers.
func (r DailyRate) Pair() CurrencyPair {
	return CurrencyPair{BaseCurrencyCode: r.BaseCurrencyCode, TargetCurrencyCode: r.TargetCurrencyCode}
}

// InverseRate is the reciprocal of the stored rate, for display purposes.
// It is NOT used when resolving the opposite direction of a pair: the feed
// publishes how many units of local currency equal one unit of foreign
// currency, so the stored number is valid for either direction of lookup.
func (r DailyRate) InverseRate() decimal.Decimal {
	if r.Rate.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(r.Rate)
}

// ResolvedRate is the outcome of a rate resolution: the rate actually in
// effect, the date it was observed on (which may be older than the requested
// date when the history fallback fired) and its provenance.
type ResolvedRate struct {
	Rate     decimal.Decimal `json:"rate"`
	RateDate time.Time       `json:"rateDate"`
	Source   RateSource      `json:"source"`
}

// ConversionResult is the caller-facing outcome of a currency conversion.
type ConversionResult struct {
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Rate            decimal.Decimal `json:"rate"`
	RateDate        time.Time       `json:"rateDate"`
	Source          RateSource      `json:"source"`
	InverseRate     decimal.Decimal `json:"inverseRate"`
}
