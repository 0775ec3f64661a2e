package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
)

type pgLocationRepository struct {
	db *gorm.DB
}

func NewPGLocationRepository(db *gorm.DB) LocationRepository {
	return &pgLocationRepository{db: db}
}

func (r *pgLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var location model.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *pgLocationRepository) List(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).Order("name ASC, address ASC").Find(&locations).Error
	return locations, err
}

func (r *pgLocationRepository) FindIDs(ctx context.Context, m LocationMatch) ([]uuid.UUID, error) {
	q := r.db.WithContext(ctx).Model(&model.Location{})
	if m.State != "" {
		q = q.Where("state = ?", m.State)
	}
	if m.City != "" {
		q = q.Where("city = ?", m.City)
	}
	if m.Country != "" {
		q = q.Where("country = ?", m.Country)
	}

	var ids []uuid.UUID
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
