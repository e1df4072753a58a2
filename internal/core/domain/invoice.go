package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineComputation carries the per-line outcome of an invoice computation:
// unit prices and subtotals in both the reference and settlement currencies.
type LineComputation struct {
	ProductID            string          `json:"productID"`
	ProductName          string          `json:"productName"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitPriceReference   decimal.Decimal `json:"unitPriceReference"`
	UnitPriceSettlement  decimal.Decimal `json:"unitPriceSettlement"`
	SubtotalReference    decimal.Decimal `json:"subtotalReference"`
	SubtotalSettlement   decimal.Decimal `json:"subtotalSettlement"`
	ReferencePriceLegacy bool            `json:"referencePriceLegacy"`
}

// InvoiceComputation is the immutable aggregate result of one invoice
// computation. Ownership passes to the caller; downstream persistence is not
// the engine's concern. All lines share the rate recorded here.
type InvoiceComputation struct {
	Lines              []LineComputation `json:"lines"`
	ReferenceCurrency  string            `json:"referenceCurrency"`
	SettlementCurrency string            `json:"settlementCurrency"`
	PaymentMethod      string            `json:"paymentMethod"`

	SubtotalReference  decimal.Decimal `json:"subtotalReference"`
	SubtotalSettlement decimal.Decimal `json:"subtotalSettlement"`
	DiscountPercent    decimal.Decimal `json:"discountPercent"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`

	VATPercent       decimal.Decimal `json:"vatPercent"`
	VATAmount        decimal.Decimal `json:"vatAmount"`
	SurchargePercent decimal.Decimal `json:"surchargePercent"`
	SurchargeAmount  decimal.Decimal `json:"surchargeAmount"`
	SurchargeExempt  bool            `json:"surchargeExempt"`

	GrandTotal decimal.Decimal `json:"grandTotal"`

	Rate       decimal.Decimal `json:"rate"`
	RateDate   time.Time       `json:"rateDate"`
	RateSource RateSource      `json:"rateSource"`
}
