// internal/infrastructure/database/postgres/slot.go
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/storefront/internal/infrastructure/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotRecord is one durable key-value slot row
type SlotRecord struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     []byte    `gorm:"type:bytea;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (SlotRecord) TableName() string {
	return "storage_slots"
}

// Slot stores values in the storage_slots table
type Slot struct {
	*DB
}

// NewSlot serves the database as a durable slot
func NewSlot(db *DB) *Slot {
	return &Slot{DB: db}
}

// Load reads the row for key
func (s *Slot) Load(ctx context.Context, key string) ([]byte, error) {
	var record SlotRecord
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrSlotEmpty
	}
	if err != nil {
		return nil, storage.Unavailable("postgres select", key, err)
	}
	return record.Value, nil
}

// Save upserts the row for key
func (s *Slot) Save(ctx context.Context, key string, value []byte) error {
	record := SlotRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return storage.Unavailable("postgres upsert", key, err)
	}
	return nil
}

// Delete removes the row for key
func (s *Slot) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&SlotRecord{}).Error; err != nil {
		return storage.Unavailable("postgres delete", key, err)
	}
	return nil
}

var _ storage.Slot = (*Slot)(nil)
