package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldops/models"
)

func TestPushProviderReturnsFreshFix(t *testing.T) {
	p := NewPushProvider(time.Minute)
	p.Offer(models.LocationSample{Latitude: 1, Longitude: 2})

	sample, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample.Latitude != 1 || sample.Longitude != 2 {
		t.Fatalf("unexpected sample: %+v", sample)
	}
}

func TestPushProviderWaitsForNextFix(t *testing.T) {
	p := NewPushProvider(time.Minute)
	// A stale fix must not satisfy Current.
	p.Offer(models.LocationSample{Latitude: 9, CapturedAt: time.Now().Add(-2 * time.Minute)})

	got := make(chan models.LocationSample, 1)
	errs := make(chan error, 1)
	go func() {
		sample, err := p.Current(context.Background())
		if err != nil {
			errs <- err
			return
		}
		got <- sample
	}()

	// Give Current time to park, then push a fresh fix.
	time.Sleep(10 * time.Millisecond)
	p.Offer(models.LocationSample{Latitude: 3})

	select {
	case sample := <-got:
		if sample.Latitude != 3 {
			t.Fatalf("expected the pushed fix, got %+v", sample)
		}
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("Current never woke up")
	}
}

func TestPushProviderTimesOutWithoutFix(t *testing.T) {
	p := NewPushProvider(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Current(ctx)
	var unavailable UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if unavailable.Reason != ReasonTimeout {
		t.Fatalf("expected timeout, got %s", unavailable.Reason)
	}
}

func TestPushProviderFailsFastAfterError(t *testing.T) {
	p := NewPushProvider(time.Minute)
	p.OfferError(ReasonPermissionDenied)

	_, err := p.Current(context.Background())
	var unavailable UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if unavailable.Reason != ReasonPermissionDenied {
		t.Fatalf("expected permission_denied, got %s", unavailable.Reason)
	}

	// A new fix clears the error state.
	p.Offer(models.LocationSample{Latitude: 5})
	sample, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error after fix: %v", err)
	}
	if sample.Latitude != 5 {
		t.Fatalf("unexpected sample: %+v", sample)
	}
}
