package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyRate is the daily_rates table row. At most one row per
// (company, base, target, rate_date) may be active; superseded rows stay in
// place with is_active=false for the audit trail.
type DailyRate struct {
	DailyRateID        string          `json:"dailyRateID"`
	CompanyID          string          `json:"companyID"`
	BaseCurrencyCode   string          `json:"baseCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	RateDate           time.Time       `json:"rateDate"`
	Rate               decimal.Decimal `json:"rate"`
	Source             string          `json:"source"`
	IsActive           bool            `json:"isActive"`
	Notes              string          `json:"notes"`
	Metadata           []byte          `json:"metadata"` // JSON blob, optional
	AuditFields
}

// ReferencePrice is a read-only projection over the product catalog's price
// tables: the product_prices row in the reference currency, or the deprecated
// products.price_legacy column.
type ReferencePrice struct {
	ProductID    string          `json:"productID"`
	ProductName  string          `json:"productName"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currencyCode"`
}
