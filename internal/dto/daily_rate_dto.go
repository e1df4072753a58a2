package dto

import (
	"time"

	"github.com/facturave/facturave/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateManualRateRequest defines the payload for entering a manual rate.
// A justification note is mandatory: manual rates supersede feed rates and
// must be auditable.
type CreateManualRateRequest struct {
	CompanyID          string          `json:"companyID" binding:"required"`
	FromCurrencyCode   string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode     string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	Rate               decimal.Decimal `json:"rate" binding:"required"`
	RateDate           time.Time       `json:"rateDate" binding:"required"`
	Notes              string          `json:"notes" binding:"required"`
}

// DailyRateResponse is the API representation of a stored daily rate.
type DailyRateResponse struct {
	DailyRateID        string            `json:"dailyRateID"`
	CompanyID          string            `json:"companyID"`
	FromCurrencyCode   string            `json:"fromCurrencyCode"`
	ToCurrencyCode     string            `json:"toCurrencyCode"`
	RateDate           time.Time         `json:"rateDate"`
	Rate               decimal.Decimal   `json:"rate"`
	Source             domain.RateSource `json:"source"`
	IsActive           bool              `json:"isActive"`
	Notes              string            `json:"notes,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	CreatedBy          string            `json:"createdBy"`
	LastUpdatedAt      time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy      string            `json:"lastUpdatedBy"`
}

// ToDailyRateResponse converts a domain.DailyRate to its API representation.
func ToDailyRateResponse(r *domain.DailyRate) DailyRateResponse {
	return DailyRateResponse{
		DailyRateID:      r.DailyRateID,
		CompanyID:        r.CompanyID,
		FromCurrencyCode: r.BaseCurrencyCode,
		ToCurrencyCode:   r.TargetCurrencyCode,
		RateDate:         r.RateDate,
		Rate:             r.Rate,
		Source:           r.Source,
		IsActive:         r.IsActive,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		CreatedBy:        r.CreatedBy,
		LastUpdatedAt:    r.LastUpdatedAt,
		LastUpdatedBy:    r.LastUpdatedBy,
	}
}

// ToListDailyRateResponse converts a slice of domain rates.
func ToListDailyRateResponse(rates []domain.DailyRate) []DailyRateResponse {
	responses := make([]DailyRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToDailyRateResponse(&rates[i])
	}
	return responses
}

// SyncedRate records the outcome for one currency during a feed sync.
type SyncedRate struct {
	CurrencyCode string          `json:"currencyCode"`
	Rate         decimal.Decimal `json:"rate,omitempty"`
	Action       string          `json:"action,omitempty"` // created, superseded
	Reason       string          `json:"reason,omitempty"` // for skipped/failed entries
}

// SyncRatesResult summarizes one synchronization run against the feed.
// Per-currency failures are collected here, not raised.
type SyncRatesResult struct {
	Synced      []SyncedRate `json:"synced"`
	Skipped     []SyncedRate `json:"skipped"`
	Failed      []SyncedRate `json:"failed"`
	TotalSynced int          `json:"totalSynced"`
	TotalFailed int          `json:"totalFailed"`
	Timestamp   time.Time    `json:"timestamp"`
}

// ProviderStatusResponse reports the health of the external rate feed.
type ProviderStatusResponse struct {
	Available           bool       `json:"available"`
	LastUpdate          *time.Time `json:"lastUpdate,omitempty"`
	SupportedCurrencies []string   `json:"supportedCurrencies"`
}
