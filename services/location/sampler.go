package location

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"fieldops/models"

	"go.uber.org/zap"
)

// earthRadiusMeters is the spherical Earth radius used for great-circle
// distances.
const earthRadiusMeters = 6371e3

// Tracker acquires device positions, keeps the live pointer fresh and
// decides which readings become permanent history. One Tracker exists per
// device; the technician identity is effectively single-owned.
type Tracker struct {
	Provider PositionProvider
	Sink     HistorySink
	Logger   *zap.Logger

	// Admission policy knobs, injected from config.
	MinDistanceMeters float64
	MaxGap            time.Duration
	AcquireTimeout    time.Duration
	MaxAge            time.Duration

	now func() time.Time

	mu           sync.Mutex
	technician   string
	lastFix      *models.LocationSample
	lastAdmitted *models.LocationSample
	lastAdmitAt  time.Time
}

// NewTracker wires a Tracker with the given collaborators.
func NewTracker(provider PositionProvider, sink HistorySink, logger *zap.Logger) *Tracker {
	return &Tracker{
		Provider: provider,
		Sink:     sink,
		Logger:   logger,
		now:      time.Now,
	}
}

// SetTechnician binds the tracker to a technician and resets the admission
// session, so the next ambient sample is always admitted.
func (t *Tracker) SetTechnician(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.technician != name {
		t.technician = name
		t.lastAdmitted = nil
		t.lastAdmitAt = time.Time{}
	}
}

// Technician returns the currently bound technician, or "".
func (t *Tracker) Technician() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.technician
}

// Acquire produces a position reading, reusing the cached fix when it is
// fresher than MaxAge, otherwise asking the provider within the bounded
// acquisition timeout. It never hangs: the result is a sample or an
// UnavailableError.
func (t *Tracker) Acquire(ctx context.Context) (models.LocationSample, error) {
	t.mu.Lock()
	cached := t.lastFix
	t.mu.Unlock()

	if cached != nil && t.now().Sub(cached.CapturedAt) <= t.MaxAge {
		return *cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.AcquireTimeout)
	defer cancel()

	sample, err := t.Provider.Current(ctx)
	if err != nil {
		var unavailable UnavailableError
		if errors.As(err, &unavailable) {
			return models.LocationSample{}, unavailable
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return models.LocationSample{}, UnavailableError{Reason: ReasonTimeout}
		}
		return models.LocationSample{}, UnavailableError{Reason: ReasonUnavailable}
	}

	t.mu.Lock()
	t.lastFix = &sample
	t.mu.Unlock()
	return sample, nil
}

// RecordAmbient handles one periodic sample: the live pointer is always
// overwritten, then the history admission policy decides whether the point
// is informative enough to keep. Returns whether the sample was admitted.
func (t *Tracker) RecordAmbient(ctx context.Context, sample models.LocationSample) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.technician == "" {
		return false, errors.New("no technician bound")
	}
	t.lastFix = &sample

	if err := t.Sink.SetLive(ctx, t.technician, sample); err != nil {
		return false, err
	}

	if !t.admit(sample) {
		return false, nil
	}

	if _, err := t.Sink.AppendHistory(ctx, t.technician, sample); err != nil {
		return false, err
	}
	t.lastAdmitted = &sample
	t.lastAdmitAt = t.now()
	return true, nil
}

// RecordForSubmission bypasses the admission test: a sample tied to a
// completed work order is evidentiary and always admitted, tagged with the
// order id. Returns the history entry id.
func (t *Tracker) RecordForSubmission(ctx context.Context, technician string, sample models.LocationSample, orderID string) (string, error) {
	sample.LinkedOrderID = orderID

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.Sink.SetLive(ctx, technician, sample); err != nil {
		return "", err
	}
	entryID, err := t.Sink.AppendHistory(ctx, technician, sample)
	if err != nil {
		return "", err
	}
	if technician == t.technician {
		t.lastAdmitted = &sample
		t.lastAdmitAt = t.now()
	}
	return entryID, nil
}

// admit applies the history admission policy. Caller holds t.mu.
func (t *Tracker) admit(sample models.LocationSample) bool {
	if t.lastAdmitted == nil {
		return true
	}
	distance := haversineMeters(
		t.lastAdmitted.Latitude, t.lastAdmitted.Longitude,
		sample.Latitude, sample.Longitude,
	)
	elapsed := t.now().Sub(t.lastAdmitAt)
	return distance > t.MinDistanceMeters || elapsed > t.MaxGap
}

// haversineMeters computes the great-circle distance between two points
// given in degrees.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
