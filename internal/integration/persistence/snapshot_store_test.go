package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/domain/entity"
)

func newTestStore(t *testing.T) (*RedisSnapshotStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisSnapshotStore(client, "tyre_ledger:entries").(*RedisSnapshotStore)
	return store, mr
}

func TestRedisSnapshotStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	inv := entity.NewInvoice("2024-01-10", "INV-1", nil, "195/55-R16", "Tubeless", 4, decimal.NewFromInt(2500), "")
	pay := entity.NewPayment("2024-01-20", decimal.NewFromInt(5000), "")
	entries := []entity.LedgerEntry{*inv, *pay}

	if err := store.Save(ctx, entries); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a snapshot to exist")
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if loaded[0].ID != inv.ID || loaded[0].InvoiceNo != "INV-1" {
		t.Errorf("invoice not preserved: %+v", loaded[0])
	}
	if !loaded[0].InvoiceAmount.Equal(inv.InvoiceAmount) {
		t.Errorf("invoice amount = %s, want %s", loaded[0].InvoiceAmount, inv.InvoiceAmount)
	}
	if !loaded[1].PaymentAmount.Equal(pay.PaymentAmount) {
		t.Errorf("payment amount = %s, want %s", loaded[1].PaymentAmount, pay.PaymentAmount)
	}
}

func TestRedisSnapshotStore_LoadMissingSnapshot(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Error("expected no snapshot")
	}
}

func TestRedisSnapshotStore_CorruptSnapshotTreatedAsAbsent(t *testing.T) {
	store, mr := newTestStore(t)

	if err := mr.Set("tyre_ledger:entries", "{not json"); err != nil {
		t.Fatalf("failed to seed corrupt snapshot: %v", err)
	}

	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("a corrupt snapshot must not error, got %v", err)
	}
	if ok {
		t.Error("a corrupt snapshot must be treated as absent")
	}
}

func TestRedisSnapshotStore_SaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := entity.NewPayment("2024-01-20", decimal.NewFromInt(100), "")
	if err := store.Save(ctx, []entity.LedgerEntry{*first}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a snapshot to exist")
	}
	if len(loaded) != 0 {
		t.Errorf("expected the empty snapshot to win, got %d entries", len(loaded))
	}
}
