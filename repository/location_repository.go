package repository

import (
	"context"

	"food-ordering-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Upsert(ctx context.Context, loc *models.CustomerLocation) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "address", "updated_at"}),
	}).Create(loc).Error
	return translate(err, "customer location")
}

func (r *locationRepository) Get(ctx context.Context, customerID uint) (*models.CustomerLocation, error) {
	var loc models.CustomerLocation
	if err := r.db.WithContext(ctx).First(&loc, "customer_id = ?", customerID).Error; err != nil {
		return nil, translate(err, "customer location")
	}
	return &loc, nil
}
