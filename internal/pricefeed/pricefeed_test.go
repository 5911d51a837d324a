package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/greenpula/greenpula/internal/logging"
)

func TestFetchParsesQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ripple":{"usd":2.41,"bwp":33.10}}`))
	}))
	defer srv.Close()

	pair, err := NewClient(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if pair.USD != 2.41 || pair.BWP != 33.10 {
		t.Fatalf("unexpected pair: %+v", pair)
	}
}

func TestFetchRejectsBadResponses(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>rate limited</html>"))
		}},
		{"missing ripple key", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"bitcoin":{"usd":60000,"bwp":810000}}`))
		}},
		{"zero bwp quote", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ripple":{"usd":2.41,"bwp":0}}`))
		}},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(tc.handler)
		if _, err := NewClient(srv.URL).Fetch(context.Background()); err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
		srv.Close()
	}
}

func TestFetchOrFallbackDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	pair := NewClient(srv.URL).FetchOrFallback(context.Background())
	if pair != Fallback() {
		t.Fatalf("expected fallback pair, got %+v", pair)
	}
	if pair.BWP != FallbackBWP || pair.USD == 0 {
		t.Fatalf("fallback pair incomplete: %+v", pair)
	}
}

func TestPollerRefreshUpdatesCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ripple":{"usd":2.50,"bwp":34.00}}`))
	}))
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL), time.Minute, nil, logging.Discard())
	p.refresh(context.Background())

	pair, asOf := p.Current()
	if pair.BWP != 34.00 {
		t.Fatalf("poller did not pick up the quote: %+v", pair)
	}
	if asOf.IsZero() {
		t.Fatal("observation time not recorded")
	}
}

func TestPollerFallsBackWhenFeedDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL), time.Minute, nil, logging.Discard())
	p.refresh(context.Background())

	pair, _ := p.Current()
	if pair != Fallback() {
		t.Fatalf("expected fallback while the feed is down, got %+v", pair)
	}
}

func TestPollerCachesQuote(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ripple":{"usd":2.60,"bwp":35.00}}`))
	}))
	defer srv.Close()

	p := NewPoller(NewClient(srv.URL), time.Minute, cache, logging.Discard())
	p.refresh(context.Background())

	cached, err := mr.Get("pricefeed:xrp:latest")
	if err != nil {
		t.Fatalf("cache read: %v", err)
	}
	if cached != `{"usd":2.6,"bwp":35}` {
		t.Fatalf("unexpected cached payload: %s", cached)
	}
}
