// Package pricefeed tracks the XRP spot price used by the dashboard views.
// The feed is an external collaborator: consumers always observe a total
// function, because any failure degrades to a fixed fallback pair.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// FallbackBWP is the static XRP price in Pula used when the feed is down.
	FallbackBWP = 32.50
	// bwpPerUSD approximates the Pula/USD rate for deriving the USD fallback.
	bwpPerUSD = 13.5

	clientTimeout = 10 * time.Second
)

// Pair holds one asset quote in both display currencies.
type Pair struct {
	USD float64 `json:"usd"`
	BWP float64 `json:"bwp"`
}

// Fallback returns the documented constant pair.
func Fallback() Pair {
	return Pair{USD: FallbackBWP / bwpPerUSD, BWP: FallbackBWP}
}

// Client fetches the spot price from a public price API.
type Client struct {
	url    string
	client *http.Client
}

// NewClient builds a price feed client for the given endpoint.
func NewClient(url string) *Client {
	return &Client{url: url, client: &http.Client{Timeout: clientTimeout}}
}

// Fetch performs one GET against the feed. Callers that want fallback
// semantics use Poller or FetchOrFallback instead.
func (c *Client) Fetch(ctx context.Context) (Pair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Pair{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Pair{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Pair{}, fmt.Errorf("price feed status %d", resp.StatusCode)
	}

	var payload map[string]Pair
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Pair{}, fmt.Errorf("decode price payload: %w", err)
	}
	pair, ok := payload["ripple"]
	if !ok || pair.BWP == 0 {
		return Pair{}, fmt.Errorf("price payload missing ripple quote")
	}
	return pair, nil
}

// FetchOrFallback fetches the current quote, substituting the fallback pair
// on any failure.
func (c *Client) FetchOrFallback(ctx context.Context) Pair {
	pair, err := c.Fetch(ctx)
	if err != nil {
		return Fallback()
	}
	return pair
}
