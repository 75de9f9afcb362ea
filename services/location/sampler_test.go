package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldops/models"

	"go.uber.org/zap"
)

// metersPerDegreeLat is close enough for moving test fixtures around.
const metersPerDegreeLat = 111194.9

type sinkCall struct {
	technician string
	sample     models.LocationSample
}

type stubSink struct {
	live    []sinkCall
	history []sinkCall
	liveErr error
}

func (s *stubSink) SetLive(ctx context.Context, technician string, sample models.LocationSample) error {
	if s.liveErr != nil {
		return s.liveErr
	}
	s.live = append(s.live, sinkCall{technician, sample})
	return nil
}

func (s *stubSink) AppendHistory(ctx context.Context, technician string, sample models.LocationSample) (string, error) {
	s.history = append(s.history, sinkCall{technician, sample})
	return "entry-1", nil
}

type stubProvider struct {
	sample models.LocationSample
	err    error
	calls  int
}

func (p *stubProvider) Current(ctx context.Context) (models.LocationSample, error) {
	p.calls++
	if p.err != nil {
		return models.LocationSample{}, p.err
	}
	return p.sample, nil
}

func newTestTracker(sink *stubSink, provider *stubProvider) *Tracker {
	t := NewTracker(provider, sink, zap.NewNop())
	t.MinDistanceMeters = 1000
	t.MaxGap = 30 * time.Minute
	t.AcquireTimeout = 100 * time.Millisecond
	t.MaxAge = time.Minute
	return t
}

func sampleAt(lat, lon float64, at time.Time) models.LocationSample {
	return models.LocationSample{Latitude: lat, Longitude: lon, AccuracyMeters: 10, CapturedAt: at}
}

func TestRecordAmbientFirstSampleAdmitted(t *testing.T) {
	sink := &stubSink{}
	tr := newTestTracker(sink, &stubProvider{})
	tr.SetTechnician("carlos")

	admitted, err := tr.RecordAmbient(context.Background(), sampleAt(-23.55, -46.63, time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !admitted {
		t.Fatal("first sample of a session must be admitted")
	}
	if len(sink.history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(sink.history))
	}
}

func TestRecordAmbientNearbySampleUpdatesLiveOnly(t *testing.T) {
	sink := &stubSink{}
	tr := newTestTracker(sink, &stubProvider{})
	tr.SetTechnician("carlos")

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := base
	tr.now = func() time.Time { return clock }

	if _, err := tr.RecordAmbient(context.Background(), sampleAt(-23.55, -46.63, base)); err != nil {
		t.Fatalf("seed sample: %v", err)
	}

	// 500m away, 5 minutes later: below both admission thresholds.
	clock = base.Add(5 * time.Minute)
	moved := sampleAt(-23.55+500/metersPerDegreeLat, -46.63, clock)
	admitted, err := tr.RecordAmbient(context.Background(), moved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admitted {
		t.Fatal("sample within distance and gap thresholds must not reach history")
	}
	if len(sink.history) != 1 {
		t.Fatalf("expected history untouched, got %d entries", len(sink.history))
	}
	if len(sink.live) != 2 {
		t.Fatalf("live pointer must still be overwritten, got %d writes", len(sink.live))
	}
	if sink.live[1].sample.Latitude != moved.Latitude {
		t.Fatal("live pointer should carry the newest sample")
	}
}

func TestRecordAmbientDistanceThreshold(t *testing.T) {
	sink := &stubSink{}
	tr := newTestTracker(sink, &stubProvider{})
	tr.SetTechnician("carlos")

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := base
	tr.now = func() time.Time { return clock }

	if _, err := tr.RecordAmbient(context.Background(), sampleAt(-23.55, -46.63, base)); err != nil {
		t.Fatalf("seed sample: %v", err)
	}

	// 1.5km away just minutes later: distance alone admits.
	clock = base.Add(2 * time.Minute)
	admitted, err := tr.RecordAmbient(context.Background(), sampleAt(-23.55+1500/metersPerDegreeLat, -46.63, clock))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !admitted {
		t.Fatal("sample beyond the distance threshold must be admitted")
	}
	if len(sink.history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(sink.history))
	}
}

func TestRecordAmbientGapThreshold(t *testing.T) {
	sink := &stubSink{}
	tr := newTestTracker(sink, &stubProvider{})
	tr.SetTechnician("carlos")

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := base
	tr.now = func() time.Time { return clock }

	if _, err := tr.RecordAmbient(context.Background(), sampleAt(-23.55, -46.63, base)); err != nil {
		t.Fatalf("seed sample: %v", err)
	}

	// Barely moved, but 31 minutes elapsed: time alone admits.
	clock = base.Add(31 * time.Minute)
	admitted, err := tr.RecordAmbient(context.Background(), sampleAt(-23.55+10/metersPerDegreeLat, -46.63, clock))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !admitted {
		t.Fatal("sample past the max gap must be admitted")
	}
}

func TestRecordAmbientRequiresTechnician(t *testing.T) {
	tr := newTestTracker(&stubSink{}, &stubProvider{})
	if _, err := tr.RecordAmbient(context.Background(), sampleAt(0, 0, time.Now())); err == nil {
		t.Fatal("expected error when no technician is bound")
	}
}

func TestRecordForSubmissionAlwaysAdmits(t *testing.T) {
	sink := &stubSink{}
	tr := newTestTracker(sink, &stubProvider{})
	tr.SetTechnician("carlos")

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := base
	tr.now = func() time.Time { return clock }

	if _, err := tr.RecordAmbient(context.Background(), sampleAt(-23.55, -46.63, base)); err != nil {
		t.Fatalf("seed sample: %v", err)
	}

	// Same spot seconds later: ambient would skip it, an order sample
	// must not.
	clock = base.Add(30 * time.Second)
	entryID, err := tr.RecordForSubmission(context.Background(), "carlos", sampleAt(-23.55, -46.63, clock), "41712345678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entryID == "" {
		t.Fatal("expected a history entry id")
	}
	if len(sink.history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(sink.history))
	}
	if sink.history[1].sample.LinkedOrderID != "41712345678" {
		t.Fatalf("history entry must carry the order id, got %q", sink.history[1].sample.LinkedOrderID)
	}
}

func TestAcquireReusesFreshFix(t *testing.T) {
	provider := &stubProvider{}
	sink := &stubSink{}
	tr := newTestTracker(sink, provider)
	tr.SetTechnician("carlos")

	fresh := sampleAt(-23.55, -46.63, time.Now())
	if _, err := tr.RecordAmbient(context.Background(), fresh); err != nil {
		t.Fatalf("seed sample: %v", err)
	}

	got, err := tr.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Latitude != fresh.Latitude || got.Longitude != fresh.Longitude {
		t.Fatal("expected the cached fix")
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be asked while the fix is fresh, got %d calls", provider.calls)
	}
}

func TestAcquireMapsProviderFailure(t *testing.T) {
	provider := &stubProvider{err: UnavailableError{Reason: ReasonPermissionDenied}}
	tr := newTestTracker(&stubSink{}, provider)

	_, err := tr.Acquire(context.Background())
	var unavailable UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if unavailable.Reason != ReasonPermissionDenied {
		t.Fatalf("expected permission_denied, got %s", unavailable.Reason)
	}
}

func TestAcquireTimesOut(t *testing.T) {
	tr := newTestTracker(&stubSink{}, nil)
	tr.Provider = blockingProvider{}

	_, err := tr.Acquire(context.Background())
	var unavailable UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if unavailable.Reason != ReasonTimeout {
		t.Fatalf("expected timeout, got %s", unavailable.Reason)
	}
}

type blockingProvider struct{}

func (blockingProvider) Current(ctx context.Context) (models.LocationSample, error) {
	<-ctx.Done()
	return models.LocationSample{}, ctx.Err()
}

func TestHaversineKnownDistance(t *testing.T) {
	// One degree of latitude is about 111.19 km.
	d := haversineMeters(0, 0, 1, 0)
	if d < 111000 || d > 111400 {
		t.Fatalf("unexpected distance: %f", d)
	}
}
