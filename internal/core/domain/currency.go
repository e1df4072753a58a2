package domain

import "strings"

// CurrencyPair identifies a directed conversion from a base currency into a
// target currency, using ISO-4217 style 3-letter codes.
type CurrencyPair struct {
	BaseCurrencyCode   string `json:"baseCurrencyCode"`
	TargetCurrencyCode string `json:"targetCurrencyCode"`
}

// NewCurrencyPair builds a pair with codes normalized to uppercase.
func NewCurrencyPair(base, target string) CurrencyPair {
	return CurrencyPair{
		BaseCurrencyCode:   strings.ToUpper(base),
		TargetCurrencyCode: strings.ToUpper(target),
	}
}

// Inverse returns the pair with base and target swapped.
func (p CurrencyPair) Inverse() CurrencyPair {
	return CurrencyPair{
		BaseCurrencyCode:   p.TargetCurrencyCode,
		TargetCurrencyCode: p.BaseCurrencyCode,
	}
}

// Contains reports whether the pair involves the given currency code.
func (p CurrencyPair) Contains(code string) bool {
	code = strings.ToUpper(code)
	return p.BaseCurrencyCode == code || p.TargetCurrencyCode == code
}

func (p CurrencyPair) String() string {
	return p.BaseCurrencyCode + "/" + p.TargetCurrencyCode
}
