package sync

import (
	"context"
	"errors"
	"sync/atomic"

	"fieldops/models"
	"fieldops/services/queue"

	"go.uber.org/zap"
)

// ErrDrainInProgress is returned when a drain is requested while another is
// still running; triggers coalesce instead of stacking.
var ErrDrainInProgress = errors.New("drain already in progress")

// Engine orchestrates queue draining: once at startup when the store is
// already reachable and the queue non-empty, then on every connectivity
// restored event. Two drains never run concurrently.
type Engine struct {
	Queue   queue.QueueService
	Writer  queue.SubmissionWriter
	Monitor ConnectivityMonitor
	Logger  *zap.Logger

	draining atomic.Bool
}

// NewEngine wires a sync engine.
func NewEngine(q queue.QueueService, writer queue.SubmissionWriter, monitor ConnectivityMonitor, logger *zap.Logger) *Engine {
	return &Engine{
		Queue:   q,
		Writer:  writer,
		Monitor: monitor,
		Logger:  logger,
	}
}

// Run reacts to connectivity transitions until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.startupDrain(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.Monitor.Transitions():
			result, err := e.SyncNow(ctx)
			if err != nil && !errors.Is(err, ErrDrainInProgress) {
				e.Logger.Error("drain after reconnect failed", zap.Error(err))
				continue
			}
			if err == nil {
				e.Logger.Info("reconnect drain finished",
					zap.Int("succeeded", result.Succeeded),
					zap.Int("failed", result.Failed))
			}
		}
	}
}

func (e *Engine) startupDrain(ctx context.Context) {
	if !e.Monitor.Online() {
		return
	}
	pending, err := e.Queue.Len(ctx)
	if err != nil {
		e.Logger.Error("failed to inspect queue at startup", zap.Error(err))
		return
	}
	if pending == 0 {
		return
	}

	e.Logger.Info("draining offline queue at startup", zap.Int("pending", pending))
	result, err := e.SyncNow(ctx)
	if err != nil {
		e.Logger.Error("startup drain failed", zap.Error(err))
		return
	}
	e.Logger.Info("startup drain finished",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
}

// SyncNow drains the queue through the live write path. A second caller
// while a drain is in progress gets ErrDrainInProgress and no work happens.
func (e *Engine) SyncNow(ctx context.Context) (models.DrainResult, error) {
	if !e.draining.CompareAndSwap(false, true) {
		return models.DrainResult{}, ErrDrainInProgress
	}
	defer e.draining.Store(false)

	return e.Queue.Drain(ctx, e.Writer)
}

// Draining reports whether a drain is currently running.
func (e *Engine) Draining() bool {
	return e.draining.Load()
}
