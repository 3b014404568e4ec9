package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrDuplicateRecord is returned by Insert when another worker recorded the
// same message id first. Callers treat it as a ledger hit.
var ErrDuplicateRecord = errors.New("delivery record already exists")

// DeliveryRecord is the idempotency row written exactly once per message id,
// before any dispatch side effect. Records are never updated or deleted.
type DeliveryRecord struct {
	MessageID  string    `gorm:"column:message_id;primaryKey"`
	ReceivedAt time.Time `gorm:"column:received_at;not null"`
}

// LedgerStore persists delivery records. The primary key on message_id is
// what makes concurrent first-sighting checks race-safe across instances.
type LedgerStore struct {
	db        *gorm.DB
	tableName string
}

// NewLedgerStore migrates the ledger table and returns a store bound to it.
func NewLedgerStore(db *gorm.DB, tableName string) (*LedgerStore, error) {
	if tableName == "" {
		tableName = "delivery_records"
	}
	if err := db.Table(tableName).AutoMigrate(&DeliveryRecord{}); err != nil {
		return nil, fmt.Errorf("migrate ledger table %s: %w", tableName, err)
	}
	return &LedgerStore{db: db, tableName: tableName}, nil
}

// Exists reports whether a record for messageID has already been written.
func (s *LedgerStore) Exists(ctx context.Context, messageID string) (bool, error) {
	var record DeliveryRecord
	err := s.db.WithContext(ctx).Table(s.tableName).
		Where("message_id = ?", messageID).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert writes the first-sighting record for messageID. A lost race against
// another worker surfaces as ErrDuplicateRecord.
func (s *LedgerStore) Insert(ctx context.Context, messageID string) error {
	record := DeliveryRecord{
		MessageID:  messageID,
		ReceivedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Table(s.tableName).Create(&record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRecord
	}
	return err
}
