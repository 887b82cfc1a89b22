// Package model defines database models for persistence.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/domain/entity"
)

// LedgerEntryModel is the database representation of a ledger entry.
// Seq preserves creation order, which the engines use as the stable
// tie-break when sorting.
type LedgerEntryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int64     `gorm:"index;not null"`
	Kind      string    `gorm:"size:16;not null;index"`
	Date      string    `gorm:"size:10;not null;index"`
	InvoiceNo string    `gorm:"size:64;not null"`

	Size      string          `gorm:"size:64"`
	Pattern   string          `gorm:"size:64"`
	Quantity  int             `gorm:"not null;default:0"`
	UnitPrice decimal.Decimal `gorm:"type:numeric"`

	InvoiceAmount decimal.Decimal `gorm:"type:numeric"`
	PaymentAmount decimal.Decimal `gorm:"type:numeric"`
	CNAmount      decimal.Decimal `gorm:"type:numeric;column:cn_amount"`

	DueDate       string     `gorm:"size:10"`
	Status        string     `gorm:"size:16;index"`
	OriginalRefID *uuid.UUID `gorm:"type:uuid"`
	Notes         string     `gorm:"type:text"`

	Items []InvoiceItemModel `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name.
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// InvoiceItemModel is the database representation of one invoice line item.
type InvoiceItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EntryID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Position  int             `gorm:"not null"`
	Size      string          `gorm:"size:64"`
	Pattern   string          `gorm:"size:64"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric"`
}

// TableName overrides the table name.
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// FromEntity converts a domain entry to its database model.
func FromEntity(e *entity.LedgerEntry, seq int64) *LedgerEntryModel {
	m := &LedgerEntryModel{
		ID:            e.ID,
		Seq:           seq,
		Kind:          string(e.Kind),
		Date:          e.Date,
		InvoiceNo:     e.InvoiceNo,
		Size:          e.Size,
		Pattern:       e.Pattern,
		Quantity:      e.Quantity,
		UnitPrice:     e.UnitPrice,
		InvoiceAmount: e.InvoiceAmount,
		PaymentAmount: e.PaymentAmount,
		CNAmount:      e.CNAmount,
		DueDate:       e.DueDate,
		Status:        string(e.Status),
		OriginalRefID: e.OriginalRefID,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	for i, item := range e.Items {
		m.Items = append(m.Items, InvoiceItemModel{
			ID:        item.ID,
			EntryID:   e.ID,
			Position:  i,
			Size:      item.Size,
			Pattern:   item.Pattern,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return m
}

// ToEntity converts a database model to its domain entry.
func (m *LedgerEntryModel) ToEntity() entity.LedgerEntry {
	e := entity.LedgerEntry{
		ID:            m.ID,
		Kind:          entity.EntryKind(m.Kind),
		Date:          m.Date,
		InvoiceNo:     m.InvoiceNo,
		Size:          m.Size,
		Pattern:       m.Pattern,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		InvoiceAmount: m.InvoiceAmount,
		PaymentAmount: m.PaymentAmount,
		CNAmount:      m.CNAmount,
		DueDate:       m.DueDate,
		Status:        entity.InvoiceStatus(m.Status),
		OriginalRefID: m.OriginalRefID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, item := range m.Items {
		e.Items = append(e.Items, entity.InvoiceItem{
			ID:        item.ID,
			Size:      item.Size,
			Pattern:   item.Pattern,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return e
}
