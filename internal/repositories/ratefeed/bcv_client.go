package ratefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/facturave/facturave/internal/apperrors"
	"github.com/shopspring/decimal"
)

const defaultRatesPath = "/v1/exchange-rates"

// BCVClient talks to the central-bank rate feed over HTTP. It caches the last
// published quote set in memory so that one refresh serves a whole sync run.
//
// The feed publishes quotes as "units of local currency per one unit of the
// foreign currency" (e.g. 1 USD = 36.52 VES), so a quote answers lookups in
// either direction of the pair with the same number.
type BCVClient struct {
	baseURL       string
	localCurrency string
	httpClient    *http.Client

	mu         sync.RWMutex
	quotes     map[string]decimal.Decimal
	lastUpdate *time.Time
}

// NewBCVClient creates a feed client. The timeout bounds every request; the
// resolution chain depends on this client never blocking indefinitely.
func NewBCVClient(baseURL, localCurrency string, timeout time.Duration) *BCVClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BCVClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		localCurrency: strings.ToUpper(localCurrency),
		httpClient:    &http.Client{Timeout: timeout},
		quotes:        make(map[string]decimal.Decimal),
	}
}

// feedResponse is the wire shape of the feed's quote listing.
type feedResponse struct {
	Rates []struct {
		CurrencyCode string `json:"currency_code"`
		Rate         string `json:"rate"`
		RateDate     string `json:"rate_date"`
	} `json:"rates"`
	UpdatedAt string `json:"updated_at"`
}

// GetRate returns the published rate for a pair involving the local currency.
// The cached quote set is used when present; otherwise one refresh is
// attempted. Unsupported pairs map to ErrNotFound, transport failures to
// ErrProviderUnavailable.
func (c *BCVClient) GetRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error) {
	foreign, ok := c.foreignLeg(fromCode, toCode)
	if !ok {
		return decimal.Zero, apperrors.NewNotFoundError("feed does not quote pair " + fromCode + "/" + toCode)
	}

	c.mu.RLock()
	quote, cached := c.quotes[foreign]
	c.mu.RUnlock()

	if !cached {
		if err := c.Refresh(ctx); err != nil {
			return decimal.Zero, err
		}
		c.mu.RLock()
		quote, cached = c.quotes[foreign]
		c.mu.RUnlock()
		if !cached {
			return decimal.Zero, apperrors.NewNotFoundError("feed does not quote currency " + foreign)
		}
	}
	return quote, nil
}

// Refresh re-fetches the feed's quote listing.
func (c *BCVClient) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+defaultRatesPath, nil)
	if err != nil {
		return apperrors.NewAppError(500, "failed to build feed request", err)
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: feed returned status %d", apperrors.ErrProviderUnavailable, resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("%w: malformed feed response: %v", apperrors.ErrProviderUnavailable, err)
	}

	quotes := make(map[string]decimal.Decimal, len(payload.Rates))
	for _, q := range payload.Rates {
		rate, err := decimal.NewFromString(q.Rate)
		if err != nil || rate.LessThanOrEqual(decimal.Zero) {
			// A bad quote never enters the cache; the rest of the set stays usable.
			continue
		}
		quotes[strings.ToUpper(q.CurrencyCode)] = rate
	}

	now := time.Now()
	c.mu.Lock()
	c.quotes = quotes
	c.lastUpdate = &now
	c.mu.Unlock()
	return nil
}

// IsAvailable reports whether the feed answers within the client timeout.
func (c *BCVClient) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+defaultRatesPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// LastUpdate returns the timestamp of the last successful refresh, or nil.
func (c *BCVClient) LastUpdate() *time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// SupportedCurrencies lists the codes present in the last fetched quote set.
func (c *BCVClient) SupportedCurrencies() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	codes := make([]string, 0, len(c.quotes))
	for code := range c.quotes {
		codes = append(codes, code)
	}
	return codes
}

// foreignLeg returns the non-local currency of the pair. The feed only quotes
// pairs against the local currency.
func (c *BCVClient) foreignLeg(fromCode, toCode string) (string, bool) {
	from := strings.ToUpper(fromCode)
	to := strings.ToUpper(toCode)
	switch c.localCurrency {
	case from:
		return to, true
	case to:
		return from, true
	default:
		return "", false
	}
}
