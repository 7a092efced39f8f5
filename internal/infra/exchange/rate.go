package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"
)

type Rate struct {
	KrwToUsd    float64 `json:"krwToUsd"`
	UsdToKrw    float64 `json:"usdToKrw"`
	LastUpdated string  `json:"lastUpdated"`
	Base        string  `json:"base"`
}

type RateSource interface {
	FetchRate(ctx context.Context) (*Rate, error)
}

// Client fetches the KRW base rate table from a public exchange-rate API.
// Any failure falls back to a fixed rate rather than erroring; card
// payments should not break because a free rate API is down.
type Client struct {
	url              string
	fallbackUsdToKrw float64
	httpClient       *http.Client
}

func NewClient(url string, fallbackUsdToKrw float64) *Client {
	return &Client{
		url:              url,
		fallbackUsdToKrw: fallbackUsdToKrw,
		httpClient:       &http.Client{Timeout: 10 * time.Second},
	}
}

var _ RateSource = (*Client)(nil)

func (c *Client) FetchRate(ctx context.Context) (*Rate, error) {
	rate, err := c.fetch(ctx)
	if err != nil {
		log.Printf("exchange rate fetch failed, using fallback %v KRW/USD: %v", c.fallbackUsdToKrw, err)
		return c.fallback(), nil
	}
	return rate, nil
}

func (c *Client) fetch(ctx context.Context) (*Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate api returned status %d", resp.StatusCode)
	}

	var body struct {
		Base  string             `json:"base"`
		Date  string             `json:"date"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	usd, ok := body.Rates["USD"]
	if !ok || usd <= 0 {
		return nil, fmt.Errorf("USD rate not found in response")
	}

	return &Rate{
		KrwToUsd:    usd,
		UsdToKrw:    1 / usd,
		LastUpdated: body.Date,
		Base:        body.Base,
	}, nil
}

func (c *Client) fallback() *Rate {
	return &Rate{
		KrwToUsd:    1 / c.fallbackUsdToKrw,
		UsdToKrw:    c.fallbackUsdToKrw,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Base:        "KRW",
	}
}

// ConvertKrwToUsd converts a whole-KRW amount using the given rate,
// rounded to cents.
func ConvertKrwToUsd(krw int64, rate *Rate) float64 {
	return math.Round(float64(krw)*rate.KrwToUsd*100) / 100
}
