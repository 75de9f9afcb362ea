package queue

import (
	"context"
	"fmt"
	"time"

	"fieldops/models"

	"go.uber.org/zap"
)

// DefaultQueueService persists not-yet-delivered submissions in the local
// store and replays them FIFO through a SubmissionWriter.
type DefaultQueueService struct {
	Store  Store
	Logger *zap.Logger

	// WarnThreshold triggers a log alert when the backlog grows past it.
	// The queue itself is unbounded by design.
	WarnThreshold int

	// ItemTimeout bounds one remote delivery during a drain so a hung
	// network call cannot block the queue indefinitely.
	ItemTimeout time.Duration
}

// Enqueue appends the submission to the durable list. It returns only once
// the item is persisted; the caller may then report "saved offline".
func (s *DefaultQueueService) Enqueue(ctx context.Context, sub models.WorkOrderSubmission, delta models.AggregateDelta) error {
	item := models.QueueItem{
		Payload:    sub,
		Delta:      delta,
		EnqueuedAt: time.Now(),
	}
	if _, err := s.Store.Append(ctx, item); err != nil {
		return fmt.Errorf("failed to enqueue submission %s: %w", sub.OrderID, err)
	}

	if n, err := s.Store.Count(ctx); err == nil && s.WarnThreshold > 0 && n > s.WarnThreshold {
		s.Logger.Warn("offline queue past sanity threshold",
			zap.Int("pending", n),
			zap.Int("threshold", s.WarnThreshold))
	}

	s.Logger.Info("submission saved offline", zap.String("orderId", sub.OrderID))
	return nil
}

// Drain replays the persisted list in FIFO order. Each delivered item is
// removed immediately, so a crash mid-drain neither loses committed
// progress nor re-delivers succeeded items. A failed item stays queued and
// the drain moves on to the next one.
func (s *DefaultQueueService) Drain(ctx context.Context, writer SubmissionWriter) (models.DrainResult, error) {
	items, err := s.Store.List(ctx)
	if err != nil {
		return models.DrainResult{}, fmt.Errorf("failed to read offline queue: %w", err)
	}

	var result models.DrainResult
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.deliverOne(ctx, writer, item); err != nil {
			result.Failed++
			s.Logger.Warn("queued submission failed, retained for retry",
				zap.Int64("queueId", item.ID),
				zap.String("orderId", item.Payload.OrderID),
				zap.Error(err))
			continue
		}

		if err := s.Store.Remove(ctx, item.ID); err != nil {
			// Delivered but not removed: the next drain re-delivers, which
			// the idempotent write path absorbs.
			s.Logger.Error("failed to remove delivered queue item",
				zap.Int64("queueId", item.ID), zap.Error(err))
		}
		result.Succeeded++
		s.Logger.Info("queued submission delivered",
			zap.Int64("queueId", item.ID),
			zap.String("orderId", item.Payload.OrderID))
	}
	return result, nil
}

func (s *DefaultQueueService) deliverOne(ctx context.Context, writer SubmissionWriter, item models.QueueItem) error {
	if s.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ItemTimeout)
		defer cancel()
	}
	return writer.Deliver(ctx, item.Payload, item.Delta)
}

// Pending returns the queued items in FIFO order.
func (s *DefaultQueueService) Pending(ctx context.Context) ([]models.QueueItem, error) {
	return s.Store.List(ctx)
}

// Len returns the number of queued items.
func (s *DefaultQueueService) Len(ctx context.Context) (int, error) {
	return s.Store.Count(ctx)
}
