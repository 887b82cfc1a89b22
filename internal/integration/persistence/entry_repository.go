// Package persistence implements the application adapters backed by the
// database and the snapshot store.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/domain/entity"
	"github.com/tyreledger/backend/internal/integration/persistence/model"
)

// EntryRepository implements adapter.EntryRepository using GORM.
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new EntryRepository instance.
func NewEntryRepository(db *gorm.DB) adapter.EntryRepository {
	return &EntryRepository{db: db}
}

// ListAll returns every ledger entry in creation order.
func (r *EntryRepository) ListAll(ctx context.Context) ([]entity.LedgerEntry, error) {
	var models []model.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("seq ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	entries := make([]entity.LedgerEntry, 0, len(models))
	for i := range models {
		entries = append(entries, models[i].ToEntity())
	}
	return entries, nil
}

// FindByID returns the entry with the given ID, or nil when it does not exist.
func (r *EntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	var m model.LedgerEntryModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entry: %w", err)
	}

	entry := m.ToEntity()
	return &entry, nil
}

// Create persists a new ledger entry.
func (r *EntryRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	m := model.FromEntity(entry, time.Now().UnixNano())
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

// Update persists changes to an existing entry, replacing its items.
func (r *EntryRepository) Update(ctx context.Context, entry *entity.LedgerEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.LedgerEntryModel
		if err := tx.Select("seq").Where("id = ?", entry.ID).First(&current).Error; err != nil {
			return err
		}

		if err := tx.Where("entry_id = ?", entry.ID).Delete(&model.InvoiceItemModel{}).Error; err != nil {
			return err
		}

		m := model.FromEntity(entry, current.Seq)
		m.UpdatedAt = time.Now()
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(m).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}
	return nil
}

// Delete removes the entry with the given ID. It reports whether an entry
// was actually deleted.
func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&model.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.LedgerEntryModel{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	return deleted, nil
}

// ReplaceAll wipes the ledger and inserts the given entries, preserving
// their order as the new creation order.
func (r *EntryRepository) ReplaceAll(ctx context.Context, entries []entity.LedgerEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&model.LedgerEntryModel{}).Error; err != nil {
			return err
		}
		for i := range entries {
			m := model.FromEntity(&entries[i], int64(i+1))
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace ledger entries: %w", err)
	}
	return nil
}
