package domain

import "github.com/shopspring/decimal"

// TaxKind distinguishes the two cascade stages.
type TaxKind string

const (
	// TaxKindVAT is the value-added tax on the settlement-currency subtotal.
	TaxKindVAT TaxKind = "VAT"
	// TaxKindSurcharge is the foreign-settlement surcharge, computed on the
	// tax-inclusive amount (subtotal + VAT), not the pre-tax base.
	TaxKindSurcharge TaxKind = "SURCHARGE"
)

// TaxLine is one computed tax stage. Created fresh per computation and never
// mutated afterwards.
type TaxLine struct {
	Kind        TaxKind         `json:"kind"`
	BaseAmount  decimal.Decimal `json:"baseAmount"`
	RatePercent decimal.Decimal `json:"ratePercent"`
	Amount      decimal.Decimal `json:"amount"`
	Exempt      bool            `json:"exempt"`
}

// TaxBreakdown is the result of one cascade computation.
type TaxBreakdown struct {
	VAT       TaxLine         `json:"vat"`
	Surcharge TaxLine         `json:"surcharge"`
	Total     decimal.Decimal `json:"total"`
}
