package local

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fieldops/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "fieldops.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func queuedItem(orderID string) models.QueueItem {
	sub := models.WorkOrderSubmission{
		OrderID:        orderID,
		Technician:     "carlos",
		OrderType:      models.OrderTypePrimary,
		ClientName:     "Dona Maria",
		ApprovedBudget: 99.90,
		CreatedAtLocal: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}
	return models.QueueItem{Payload: sub, Delta: models.DeltaFor(sub)}
}

func TestQueueAppendListRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Append(ctx, queuedItem("4171111111"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	second, err := store.Append(ctx, queuedItem("4172222222"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if second <= first {
		t.Fatalf("ids must be monotonic: %d then %d", first, second)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Payload.OrderID != "4171111111" || items[1].Payload.OrderID != "4172222222" {
		t.Fatalf("list must be FIFO, got %s then %s", items[0].Payload.OrderID, items[1].Payload.OrderID)
	}
	if items[0].Payload.ApprovedBudget != 99.90 {
		t.Fatal("payload fields must survive the roundtrip")
	}
	if items[0].Delta.OrderID != "4171111111" {
		t.Fatal("delta must survive the roundtrip")
	}
	if items[0].EnqueuedAt.IsZero() {
		t.Fatal("enqueue timestamp must be stamped")
	}
}

func TestQueueRemove(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Append(ctx, queuedItem("4171111111"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := store.Remove(ctx, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n, err := store.Count(ctx); err != nil || n != 0 {
		t.Fatalf("expected empty queue, got n=%d err=%v", n, err)
	}

	if err := store.Remove(ctx, id); err == nil {
		t.Fatal("removing a missing item must error")
	}
}

func TestQueueSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fieldops.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Append(ctx, queuedItem("4171111111")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	items, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Payload.OrderID != "4171111111" {
		t.Fatalf("queued item must survive a restart, got %+v", items)
	}
}

func TestTechnicianIdentity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	name, err := store.Technician(ctx)
	if err != nil {
		t.Fatalf("read unset: %v", err)
	}
	if name != "" {
		t.Fatalf("expected empty identity, got %q", name)
	}

	if err := store.SetTechnician(ctx, "carlos"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.SetTechnician(ctx, "ana"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	name, err = store.Technician(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if name != "ana" {
		t.Fatalf("expected latest identity, got %q", name)
	}
}
