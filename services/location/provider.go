package location

import (
	"context"
	"sync"
	"time"

	"fieldops/models"
)

// PushProvider adapts the device's callback-style geolocation API: the UI
// layer pushes fixes (or error codes) as they arrive, and Current hands out
// the freshest one, waiting for a new fix when none is fresh enough.
type PushProvider struct {
	// MaxAge bounds how old a pushed fix may be and still satisfy Current.
	MaxAge time.Duration

	mu      sync.Mutex
	latest  *models.LocationSample
	lastErr error
	waiters []chan models.LocationSample
}

// NewPushProvider returns a provider accepting device-pushed fixes.
func NewPushProvider(maxAge time.Duration) *PushProvider {
	return &PushProvider{MaxAge: maxAge}
}

// Offer records a new device fix and wakes any blocked Current call.
func (p *PushProvider) Offer(sample models.LocationSample) {
	if sample.CapturedAt.IsZero() {
		sample.CapturedAt = time.Now()
	}

	p.mu.Lock()
	p.latest = &sample
	p.lastErr = nil
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	for _, w := range waiters {
		w <- sample
	}
}

// OfferError records a device error code (permission denied, signal lost).
// Subsequent Current calls fail fast with that reason until a fix arrives.
func (p *PushProvider) OfferError(reason AcquireFailureReason) {
	p.mu.Lock()
	p.lastErr = UnavailableError{Reason: reason}
	p.mu.Unlock()
}

// Current returns the freshest pushed fix if it is within MaxAge, otherwise
// blocks until a new fix is pushed or ctx expires.
func (p *PushProvider) Current(ctx context.Context) (models.LocationSample, error) {
	p.mu.Lock()
	if p.lastErr != nil {
		err := p.lastErr
		p.mu.Unlock()
		return models.LocationSample{}, err
	}
	if p.latest != nil && time.Since(p.latest.CapturedAt) <= p.MaxAge {
		sample := *p.latest
		p.mu.Unlock()
		return sample, nil
	}
	wait := make(chan models.LocationSample, 1)
	p.waiters = append(p.waiters, wait)
	p.mu.Unlock()

	select {
	case sample := <-wait:
		return sample, nil
	case <-ctx.Done():
		p.dropWaiter(wait)
		return models.LocationSample{}, UnavailableError{Reason: ReasonTimeout}
	}
}

func (p *PushProvider) dropWaiter(wait chan models.LocationSample) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, w := range p.waiters {
		if w == wait {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return
		}
	}
}
