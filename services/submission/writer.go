package submission

import (
	"context"
	"fmt"
	"time"

	orderRepo "fieldops/database/repository/order"
	statsRepo "fieldops/database/repository/stats"
	"fieldops/models"

	"go.uber.org/zap"
)

// DefaultSubmissionWriter is the single write path every submission takes,
// whether live or replayed from the queue: profile marker, order document,
// aggregate delta, then the evidentiary location sample. Any failure fails
// the whole item; every step is individually safe to repeat, so a retried
// item converges instead of double-counting.
type DefaultSubmissionWriter struct {
	Orders   orderRepo.OrderRepository
	Stats    statsRepo.StatsRepository
	Recorder SampleRecorder
	Enricher Enricher
	Logger   *zap.Logger
}

// Deliver runs the full remote write path for one submission.
func (w *DefaultSubmissionWriter) Deliver(ctx context.Context, sub models.WorkOrderSubmission, delta models.AggregateDelta) error {
	if err := w.Orders.EnsureTechnician(ctx, sub.Technician); err != nil {
		return fmt.Errorf("technician profile: %w", err)
	}

	sub.DeliveredAt = time.Now()
	if err := w.Orders.PutOrder(ctx, sub); err != nil {
		return fmt.Errorf("order document: %w", err)
	}

	outcome, err := w.Stats.Apply(ctx, sub.Technician, delta)
	if err != nil {
		return fmt.Errorf("aggregate delta: %w", err)
	}
	if outcome == statsRepo.OutcomeAlreadyApplied {
		w.Logger.Info("aggregate delta already applied, skipping",
			zap.String("technician", sub.Technician),
			zap.String("orderId", sub.OrderID))
	}

	if sub.LocationSample != nil {
		entryID, err := w.Recorder.RecordForSubmission(ctx, sub.Technician, *sub.LocationSample, sub.OrderID)
		if err != nil {
			return fmt.Errorf("submission location sample: %w", err)
		}
		if w.Enricher != nil {
			w.Enricher.Schedule(sub.Technician, entryID, sub.LocationSample.Latitude, sub.LocationSample.Longitude)
		}
	}

	return nil
}
