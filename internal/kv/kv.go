package kv

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("slot not found")

// Slot is one named blob.
type Slot struct {
	Key       string `gorm:"primaryKey;column:slot_key;size:191"`
	Value     []byte
	UpdatedAt time.Time
}

func (Slot) TableName() string { return "kv_slots" }

type GormRepo struct {
	DB *gorm.DB
}

func NewGormRepo(ctx context.Context, db *gorm.DB) (*GormRepo, error) {
	if err := db.WithContext(ctx).AutoMigrate(&Slot{}); err != nil {
		return nil, err
	}
	return &GormRepo{DB: db}, nil
}

func (r *GormRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var slot Slot
	err := r.DB.WithContext(ctx).Where("slot_key = ?", key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return slot.Value, nil
}

func (r *GormRepo) Put(ctx context.Context, key string, value []byte) error {
	slot := Slot{Key: key, Value: value}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
}

func (r *GormRepo) Delete(ctx context.Context, key string) error {
	return r.DB.WithContext(ctx).Where("slot_key = ?", key).Delete(&Slot{}).Error
}
