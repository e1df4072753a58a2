package domain

import "github.com/shopspring/decimal"

// ReferencePrice is a product's authoritative price in the stable reference
// currency. When Legacy is true the price came from the deprecated direct
// price column instead of the reference price table; callers that need the
// authoritative figure must check the flag.
type ReferencePrice struct {
	ProductID    string          `json:"productID"`
	ProductName  string          `json:"productName"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currencyCode"`
	Legacy       bool            `json:"legacy"`
}
