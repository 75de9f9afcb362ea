package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCityForResolvesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("lat") == "" || r.URL.Query().Get("lon") == "" {
			t.Errorf("missing coordinates in query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"address":{"city":"Fortaleza"}}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, time.Second, zap.NewNop())

	if city := r.CityFor(context.Background(), -3.7319, -38.5267); city != "Fortaleza" {
		t.Fatalf("expected Fortaleza, got %q", city)
	}
	// Same rounded coordinates hit the cache, not the API.
	if city := r.CityFor(context.Background(), -3.73191, -38.52672); city != "Fortaleza" {
		t.Fatalf("expected cached Fortaleza, got %q", city)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected 1 upstream request, got %d", hits.Load())
	}
}

func TestCityForFallsBackToTownAndVillage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"town":"Quixada"}}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, time.Second, zap.NewNop())
	if city := r.CityFor(context.Background(), -4.97, -39.01); city != "Quixada" {
		t.Fatalf("expected Quixada, got %q", city)
	}
}

func TestCityForDegradesOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, time.Second, zap.NewNop())
	if city := r.CityFor(context.Background(), 1, 1); city != "" {
		t.Fatalf("expected empty city on upstream failure, got %q", city)
	}
}

func TestCityForDegradesWhenUnreachable(t *testing.T) {
	r := NewResolver("http://127.0.0.1:1", 50*time.Millisecond, zap.NewNop())
	if city := r.CityFor(context.Background(), 1, 1); city != "" {
		t.Fatalf("expected empty city when endpoint unreachable, got %q", city)
	}
}
