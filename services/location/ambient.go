package location

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunAmbient drives the fixed-cadence sampling loop until ctx is cancelled.
// Ticks are processed one at a time; a slow acquisition simply delays the
// next evaluation, two samples are never evaluated concurrently.
func (t *Tracker) RunAmbient(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.ambientTick(ctx)
		}
	}
}

func (t *Tracker) ambientTick(ctx context.Context) {
	if t.Technician() == "" {
		return
	}

	acquireCtx, cancel := context.WithTimeout(ctx, t.AcquireTimeout)
	sample, err := t.Provider.Current(acquireCtx)
	cancel()
	if err != nil {
		t.Logger.Debug("ambient sample skipped", zap.Error(err))
		return
	}

	admitted, err := t.RecordAmbient(ctx, sample)
	if err != nil {
		t.Logger.Warn("failed to record ambient sample", zap.Error(err))
		return
	}
	if admitted {
		t.Logger.Debug("ambient sample admitted to history",
			zap.Float64("lat", sample.Latitude),
			zap.Float64("lon", sample.Longitude))
	}
}
