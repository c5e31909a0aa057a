package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
)

// PriceSource supplies live native prices for display valuation and for
// pre-filling default order prices. A quoted price is never authoritative:
// the user-confirmed price is what gets recorded.
type PriceSource interface {
	Quote(symbol, market string) (Money, error)
	QuoteAll(symbols map[string]string) (map[string]Money, error)
}

// QuoteProvider fetches prices from a JSON quote endpoint. The price and
// currency are extracted from the response with JSONPath expressions, so the
// provider adapts to different endpoint shapes through configuration.
type QuoteProvider struct {
	Client       *http.Client
	BaseURL      string // e.g. "https://quotes.example.com/v1/quote"
	APIKey       string
	PricePath    string // JSONPath to the numeric price, e.g. "$.quote.price"
	CurrencyPath string // JSONPath to the currency code, optional
}

// NewQuoteProvider creates a provider with default extraction paths.
func NewQuoteProvider(baseURL, apiKey string) *QuoteProvider {
	return &QuoteProvider{
		Client:       new(http.Client),
		BaseURL:      baseURL,
		APIKey:       apiKey,
		PricePath:    "$.price",
		CurrencyPath: "$.currency",
	}
}

// Quote fetches the latest native price for a symbol on a market. Lookup
// failures wrap ErrPriceUnavailable and are never fatal to order entry.
func (p *QuoteProvider) Quote(symbol, market string) (Money, error) {
	addr := fmt.Sprintf("%s?symbol=%s&market=%s&api_token=%s",
		p.BaseURL, url.QueryEscape(symbol), url.QueryEscape(market), url.QueryEscape(p.APIKey))

	var jobj any
	if err := jwget(p.Client, addr, &jobj); err != nil {
		return Money{}, fmt.Errorf("%w: quote for %s: %v", ErrPriceUnavailable, symbol, err)
	}

	val, err := jsonpathFloat(jobj, p.PricePath)
	if err != nil {
		return Money{}, fmt.Errorf("%w: quote for %s: %v", ErrPriceUnavailable, symbol, err)
	}

	currency := ""
	if p.CurrencyPath != "" {
		if c, err := jsonpathString(jobj, p.CurrencyPath); err == nil {
			currency = c
		}
	}
	return M(val, currency), nil
}

// QuoteAll fetches prices for a symbol->market set. Per-symbol failures are
// joined into the returned error; successfully quoted symbols are returned
// regardless.
func (p *QuoteProvider) QuoteAll(symbols map[string]string) (map[string]Money, error) {
	prices := make(map[string]Money, len(symbols))
	var errs error
	for symbol, market := range symbols {
		price, err := p.Quote(symbol, market)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		prices[symbol] = price
	}
	return prices, errs
}

// jsonpathFloat extracts a float value from a parsed JSON document.
func jsonpathFloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q is not a number: %v", path, jval)
	}
	return val, nil
}

// jsonpathString extracts a string value from a parsed JSON document.
func jsonpathString(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error evaluating %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%q is not a string: %v", path, jval)
	}
	return val, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}
