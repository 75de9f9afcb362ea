// Package geocode resolves coordinates to a city name, best effort. A
// failed or slow lookup degrades to an empty city and must never block or
// fail the write path that requested it.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// reverseResponse is the subset of the reverse-geocoding payload we use
// (Nominatim-compatible).
type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
	DisplayName string `json:"display_name"`
}

// Resolver performs reverse lookups with a short timeout and caches results
// keyed by coordinates rounded to ~100 m, since nearby samples resolve to
// the same city anyway.
type Resolver struct {
	Endpoint string
	Logger   *zap.Logger

	client http.Client

	cacheMutex sync.RWMutex
	cache      map[string]string
}

// NewResolver builds a Resolver against the given endpoint.
func NewResolver(endpoint string, timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		Endpoint: endpoint,
		Logger:   logger,
		client:   http.Client{Timeout: timeout},
		cache:    make(map[string]string),
	}
}

// CityFor resolves coordinates to a city name. Returns "" on any failure.
func (r *Resolver) CityFor(ctx context.Context, lat, lon float64) string {
	key := fmt.Sprintf("%.3f,%.3f", lat, lon)

	r.cacheMutex.RLock()
	if city, exists := r.cache[key]; exists {
		r.cacheMutex.RUnlock()
		return city
	}
	r.cacheMutex.RUnlock()

	city := r.lookup(ctx, lat, lon)
	if city == "" {
		return ""
	}

	r.cacheMutex.Lock()
	r.cache[key] = city
	r.cacheMutex.Unlock()
	return city
}

func (r *Resolver) lookup(ctx context.Context, lat, lon float64) string {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return ""
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.Logger.Warn("Failed to query reverse geocoding API", zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.Logger.Warn("Reverse geocoding API returned non-OK status", zap.Int("status", resp.StatusCode))
		return ""
	}

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		r.Logger.Warn("Failed to decode reverse geocoding response", zap.Error(err))
		return ""
	}

	switch {
	case decoded.Address.City != "":
		return decoded.Address.City
	case decoded.Address.Town != "":
		return decoded.Address.Town
	case decoded.Address.Village != "":
		return decoded.Address.Village
	default:
		return ""
	}
}
