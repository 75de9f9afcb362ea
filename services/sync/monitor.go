package sync

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ConnectivityMonitor reports whether the remote store is reachable and
// announces offline-to-online transitions.
type ConnectivityMonitor interface {
	Online() bool
	// Transitions delivers a value whenever connectivity is regained.
	Transitions() <-chan struct{}
}

// Pinger is the probe target.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function into a Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// ProbeMonitor pings the remote store on a fixed cadence and emits a
// transition event each time reachability returns after an outage.
type ProbeMonitor struct {
	Target   Pinger
	Interval time.Duration
	Logger   *zap.Logger

	online      atomic.Bool
	transitions chan struct{}
}

// NewProbeMonitor builds a monitor; Run must be started for it to probe.
func NewProbeMonitor(target Pinger, interval time.Duration, logger *zap.Logger) *ProbeMonitor {
	m := &ProbeMonitor{
		Target:      target,
		Interval:    interval,
		Logger:      logger,
		transitions: make(chan struct{}, 1),
	}
	return m
}

// Online reports the last observed reachability.
func (m *ProbeMonitor) Online() bool {
	return m.online.Load()
}

// Transitions returns the offline-to-online event channel. The channel has
// capacity one: transitions coalesce rather than pile up.
func (m *ProbeMonitor) Transitions() <-chan struct{} {
	return m.transitions
}

// Run probes until ctx is cancelled. The first probe happens immediately so
// startup code can ask Online() early.
func (m *ProbeMonitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *ProbeMonitor) probe(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := m.Target.Ping(pingCtx)
	cancel()

	nowOnline := err == nil
	wasOnline := m.online.Swap(nowOnline)

	if nowOnline && !wasOnline {
		m.Logger.Info("connectivity restored")
		select {
		case m.transitions <- struct{}{}:
		default:
		}
	}
	if !nowOnline && wasOnline {
		m.Logger.Warn("connectivity lost", zap.Error(err))
	}
}
