package persistence

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tyreledger/backend/internal/domain/entity"
	"github.com/tyreledger/backend/internal/integration/persistence/model"
)

func newTestRepo(t *testing.T) *EntryRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.LedgerEntryModel{}, &model.InvoiceItemModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewEntryRepository(db).(*EntryRepository)
}

func TestEntryRepository_CreateAndListAllInCreationOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := entity.NewInvoice("2024-02-10", "INV-2", nil, "195/55-R16", "", 1, decimal.NewFromInt(100), "")
	second := entity.NewInvoice("2024-01-10", "INV-1", nil, "90/100", "", 2, decimal.NewFromInt(50), "")

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	entries, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Creation order, not date order.
	if entries[0].InvoiceNo != "INV-2" || entries[1].InvoiceNo != "INV-1" {
		t.Errorf("wrong order: %s, %s", entries[0].InvoiceNo, entries[1].InvoiceNo)
	}
}

func TestEntryRepository_ItemsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inv := entity.NewInvoice("2024-01-10", "INV-1", []entity.InvoiceItem{
		{ID: uuid.New(), Size: "195/55-R16", Pattern: "Tubeless", Quantity: 4, UnitPrice: decimal.NewFromInt(2500)},
		{ID: uuid.New(), Size: "100/90-D17", Pattern: "Street", Quantity: 2, UnitPrice: decimal.NewFromInt(1200)},
	}, "", "", 0, decimal.Zero, "")

	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected the invoice to be found")
	}
	if len(found.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(found.Items))
	}
	if found.Items[0].Size != "195/55-R16" || found.Items[1].Size != "100/90-D17" {
		t.Errorf("item order not preserved: %+v", found.Items)
	}
	if !found.InvoiceAmount.Equal(inv.InvoiceAmount) {
		t.Errorf("amount = %s, want %s", found.InvoiceAmount, inv.InvoiceAmount)
	}
}

func TestEntryRepository_FindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)

	found, err := repo.FindByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found != nil {
		t.Error("expected nil for a missing entry")
	}
}

func TestEntryRepository_UpdateReplacesItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inv := entity.NewInvoice("2024-01-10", "INV-1", []entity.InvoiceItem{
		{ID: uuid.New(), Size: "195/55-R16", Quantity: 4, UnitPrice: decimal.NewFromInt(2500)},
	}, "", "", 0, decimal.Zero, "")
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	inv.Items = []entity.InvoiceItem{
		{ID: uuid.New(), Size: "90/100", Quantity: 6, UnitPrice: decimal.NewFromInt(800)},
	}
	inv.Recalculate()
	inv.Status = entity.StatusPaid
	if err := repo.Update(ctx, inv); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := repo.FindByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(found.Items) != 1 || found.Items[0].Size != "90/100" {
		t.Errorf("items not replaced: %+v", found.Items)
	}
	if found.Status != entity.StatusPaid {
		t.Errorf("status = %s, want %s", found.Status, entity.StatusPaid)
	}
	if !found.InvoiceAmount.Equal(decimal.NewFromInt(4800)) {
		t.Errorf("amount = %s, want 4800", found.InvoiceAmount)
	}
}

func TestEntryRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pay := entity.NewPayment("2024-01-20", decimal.NewFromInt(5000), "")
	if err := repo.Create(ctx, pay); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := repo.Delete(ctx, pay.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("expected deleted=true")
	}

	deleted, err = repo.Delete(ctx, pay.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted {
		t.Error("expected deleted=false for a missing entry")
	}
}

func TestEntryRepository_ReplaceAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	old := entity.NewPayment("2024-01-20", decimal.NewFromInt(100), "")
	if err := repo.Create(ctx, old); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	inv := entity.NewInvoice("2024-02-10", "INV-9", nil, "195/55-R16", "", 1, decimal.NewFromInt(700), "")
	cn := entity.NewCreditNote("2024-02-15", decimal.NewFromInt(50), "")
	if err := repo.ReplaceAll(ctx, []entity.LedgerEntry{*inv, *cn}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	entries, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after replace, got %d", len(entries))
	}
	if entries[0].InvoiceNo != "INV-9" || entries[1].Kind != entity.KindCreditNote {
		t.Errorf("replaced order wrong: %+v", entries)
	}

	if found, _ := repo.FindByID(ctx, old.ID); found != nil {
		t.Error("expected the old entry to be gone")
	}
}
