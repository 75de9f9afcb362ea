package queue

import (
	"context"
	"errors"
	"testing"

	"fieldops/models"

	"go.uber.org/zap"
)

// memStore is an in-memory Store with the same FIFO semantics as the sqlite
// implementation.
type memStore struct {
	items  []models.QueueItem
	nextID int64
}

func (m *memStore) Append(ctx context.Context, item models.QueueItem) (int64, error) {
	m.nextID++
	item.ID = m.nextID
	m.items = append(m.items, item)
	return item.ID, nil
}

func (m *memStore) List(ctx context.Context) ([]models.QueueItem, error) {
	out := make([]models.QueueItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memStore) Remove(ctx context.Context, id int64) error {
	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memStore) Count(ctx context.Context) (int, error) {
	return len(m.items), nil
}

// recordingWriter delivers in order and fails the order ids listed in fail.
type recordingWriter struct {
	delivered []string
	fail      map[string]bool
}

func (w *recordingWriter) Deliver(ctx context.Context, sub models.WorkOrderSubmission, delta models.AggregateDelta) error {
	if w.fail[sub.OrderID] {
		return errors.New("remote write failed")
	}
	w.delivered = append(w.delivered, sub.OrderID)
	return nil
}

func newQueue(store Store) *DefaultQueueService {
	return &DefaultQueueService{Store: store, Logger: zap.NewNop()}
}

func submissionFor(orderID string) (models.WorkOrderSubmission, models.AggregateDelta) {
	sub := models.WorkOrderSubmission{
		OrderID:    orderID,
		Technician: "carlos",
		OrderType:  models.OrderTypePrimary,
	}
	return sub, models.DeltaFor(sub)
}

func TestDrainDeliversFIFO(t *testing.T) {
	store := &memStore{}
	q := newQueue(store)
	ctx := context.Background()

	for _, id := range []string{"4171111111", "4172222222", "4173333333"} {
		sub, delta := submissionFor(id)
		if err := q.Enqueue(ctx, sub, delta); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	writer := &recordingWriter{}
	result, err := q.Drain(ctx, writer)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if result.Succeeded != 3 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	want := []string{"4171111111", "4172222222", "4173333333"}
	for i, id := range want {
		if writer.delivered[i] != id {
			t.Fatalf("delivery order broken: got %v, want %v", writer.delivered, want)
		}
	}
	if n, _ := q.Len(ctx); n != 0 {
		t.Fatalf("expected empty queue after drain, got %d", n)
	}
}

func TestDrainRetainsFailedItems(t *testing.T) {
	store := &memStore{}
	q := newQueue(store)
	ctx := context.Background()

	for _, id := range []string{"4171111111", "4172222222", "4173333333"} {
		sub, delta := submissionFor(id)
		if err := q.Enqueue(ctx, sub, delta); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	writer := &recordingWriter{fail: map[string]bool{"4172222222": true}}
	result, err := q.Drain(ctx, writer)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// The failed item stays; its neighbors are gone.
	pending, _ := q.Pending(ctx)
	if len(pending) != 1 || pending[0].Payload.OrderID != "4172222222" {
		t.Fatalf("expected only the failed item retained, got %+v", pending)
	}

	// Next drain with a healthy writer clears it.
	writer.fail = nil
	result, err = q.Drain(ctx, writer)
	if err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if result.Succeeded != 1 {
		t.Fatalf("expected retained item delivered, got %+v", result)
	}
	if n, _ := q.Len(ctx); n != 0 {
		t.Fatalf("expected empty queue, got %d", n)
	}
}

func TestDrainStopsOnCancelledContext(t *testing.T) {
	store := &memStore{}
	q := newQueue(store)

	sub, delta := submissionFor("4171111111")
	if err := q.Enqueue(context.Background(), sub, delta); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Drain(ctx, &recordingWriter{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n, _ := q.Len(context.Background()); n != 1 {
		t.Fatal("cancelled drain must not drop items")
	}
}

func TestEnqueueIsDurableBeforeReturn(t *testing.T) {
	store := &memStore{}
	q := newQueue(store)
	ctx := context.Background()

	sub, delta := submissionFor("4171111111")
	if err := q.Enqueue(ctx, sub, delta); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Fatal("item must be in the store when Enqueue returns")
	}
}
