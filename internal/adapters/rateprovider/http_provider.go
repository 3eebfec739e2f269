// Package rateprovider fetches exchange rates from an HTTP JSON endpoint.
// Where the success flag, base currency and rate map live in the document is configured with
// JSONPath expressions, so any provider returning one rate table per request can be used.
package rateprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// Config describes the provider endpoint and the shape of its response.
type Config struct {
	URL          string
	Timeout      time.Duration
	SuccessPath  string // optional; when set, the value found there must equal SuccessValue
	SuccessValue string
	RatesPath    string // object of currency code -> rate
	BasePath     string // optional; falls back to BaseCurrency when empty or absent
	BaseCurrency string
}

// HTTPRateProvider implements gateways.RateProvider.
type HTTPRateProvider struct {
	client *http.Client
	cfg    Config
}

var _ gateways.RateProvider = (*HTTPRateProvider)(nil)

// NewHTTPRateProvider creates a provider. A nil client gets one with cfg.Timeout.
func NewHTTPRateProvider(cfg Config, client *http.Client) *HTTPRateProvider {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.RatesPath == "" {
		cfg.RatesPath = "$.rates"
	}
	return &HTTPRateProvider{client: client, cfg: cfg}
}

// FetchRates downloads and decodes the provider's rate table.
func (p *HTTPRateProvider) FetchRates(ctx context.Context) (string, domain.RateTable, error) {
	if p.cfg.URL == "" {
		return "", nil, fmt.Errorf("rate provider URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	var doc any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return "", nil, fmt.Errorf("decode rate response: %w", err)
	}

	if p.cfg.SuccessPath != "" {
		flag, err := lookup(p.cfg.SuccessPath, doc)
		if err != nil {
			return "", nil, fmt.Errorf("rate response success flag %q: %w", p.cfg.SuccessPath, err)
		}
		if fmt.Sprint(flag) != p.cfg.SuccessValue {
			return "", nil, fmt.Errorf("rate provider reported %v", flag)
		}
	}

	base := strings.ToUpper(p.cfg.BaseCurrency)
	if p.cfg.BasePath != "" {
		if v, err := lookup(p.cfg.BasePath, doc); err == nil {
			if s, ok := v.(string); ok && s != "" {
				base = strings.ToUpper(s)
			}
		}
	}
	if base == "" {
		return "", nil, fmt.Errorf("rate provider base currency unknown")
	}

	raw, err := lookup(p.cfg.RatesPath, doc)
	if err != nil {
		return "", nil, fmt.Errorf("rate response rates %q: %w", p.cfg.RatesPath, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("rate response rates %q: not an object", p.cfg.RatesPath)
	}

	rates := make(domain.RateTable, len(obj))
	for code, v := range obj {
		rate, err := toDecimal(v)
		if err != nil {
			return "", nil, fmt.Errorf("rate for %s: %w", code, err)
		}
		rates[strings.ToUpper(code)] = rate
	}
	return base, rates, nil
}

// lookup evaluates a JSONPath expression, keeping the first element when a list comes back.
func lookup(path string, doc any) (any, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, err
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, fmt.Errorf("no match")
		}
		v = list[0]
	}
	return v, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(n)
	case float64:
		return decimal.NewFromFloat(n), nil
	default:
		return decimal.Zero, fmt.Errorf("not a number: %v", v)
	}
}
