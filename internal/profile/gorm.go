package profile

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRow struct {
	UID       string `gorm:"primaryKey;size:128"`
	Email     string
	Name      string
	Role      string
	CreatedAt string
}

func (profileRow) TableName() string { return "profiles" }

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(ctx context.Context, db *gorm.DB) (*GormStore, error) {
	if err := db.WithContext(ctx).AutoMigrate(&profileRow{}); err != nil {
		return nil, err
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) CreateIfAbsent(ctx context.Context, p Profile) (Profile, bool, error) {
	row := profileRow(p)
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return Profile{}, false, res.Error
	}
	if res.RowsAffected == 1 {
		return p, true, nil
	}

	var existing profileRow
	if err := s.DB.WithContext(ctx).Where("uid = ?", p.UID).First(&existing).Error; err != nil {
		return Profile{}, false, err
	}
	return Profile(existing), false, nil
}
