package sync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// flakyPinger fails until healthy is flipped.
type flakyPinger struct {
	mu      sync.Mutex
	healthy bool
}

func (p *flakyPinger) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.healthy {
		return errors.New("no route to host")
	}
	return nil
}

func (p *flakyPinger) setHealthy(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.healthy = v
}

func TestMonitorEmitsTransitionOnReconnect(t *testing.T) {
	pinger := &flakyPinger{}
	m := NewProbeMonitor(pinger, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	waitFor(t, func() bool { return !m.Online() })

	pinger.setHealthy(true)
	select {
	case <-m.Transitions():
	case <-time.After(2 * time.Second):
		t.Fatal("no transition event after reconnect")
	}
	if !m.Online() {
		t.Fatal("monitor must report online after a successful probe")
	}
}

func TestMonitorCoalescesTransitions(t *testing.T) {
	pinger := &flakyPinger{}
	m := NewProbeMonitor(pinger, time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	// Flap a few times without anyone reading the channel.
	for i := 0; i < 3; i++ {
		pinger.setHealthy(true)
		waitFor(t, func() bool { return m.Online() })
		pinger.setHealthy(false)
		waitFor(t, func() bool { return !m.Online() })
	}
	pinger.setHealthy(true)
	waitFor(t, func() bool { return m.Online() })

	// The buffered channel holds at most one pending event.
	<-m.Transitions()
	select {
	case <-m.Transitions():
		t.Fatal("transitions must coalesce, not pile up")
	default:
	}
}

func TestMonitorStartsOffline(t *testing.T) {
	m := NewProbeMonitor(&flakyPinger{}, time.Minute, zap.NewNop())
	if m.Online() {
		t.Fatal("monitor must assume offline until a probe succeeds")
	}
}
