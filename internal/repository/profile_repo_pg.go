package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
)

type pgProfileRepository struct {
	db *gorm.DB
}

func NewPGProfileRepository(db *gorm.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

func (r *pgProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *pgProfileRepository) Update(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*model.Profile, error) {
	columns := map[string]interface{}{}
	if upd.FullName != nil {
		columns["full_name"] = *upd.FullName
	}
	if upd.Username != nil {
		columns["username"] = *upd.Username
	}
	if upd.Bio != nil {
		columns["bio"] = *upd.Bio
	}
	if upd.Location != nil {
		columns["location"] = *upd.Location
	}
	if upd.AvatarURL != nil {
		columns["avatar_url"] = *upd.AvatarURL
	}

	var profile model.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			res := tx.Model(&model.Profile{}).Where("user_id = ?", userID).Updates(columns)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.First(&profile, "user_id = ?", userID).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *pgProfileRepository) UsernameTaken(ctx context.Context, username string, exceptUserID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("lower(username) = lower(?) AND user_id <> ?", username, exceptUserID).
		Count(&n).Error
	return n > 0, err
}
