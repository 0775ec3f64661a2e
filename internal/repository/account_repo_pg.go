package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
)

type pgAccountRepository struct {
	db *gorm.DB
}

func NewPGAccountRepository(db *gorm.DB) AccountRepository {
	return &pgAccountRepository{db: db}
}

func (r *pgAccountRepository) CreateUserWithProfile(
	ctx context.Context, user *model.User, identity *model.UserIdentity, profile *model.Profile,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		identity.UserID = user.ID
		if err := tx.Create(identity).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}

func (r *pgAccountRepository) DeleteUserAndProfile(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.User{}, "id = ?", userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		joined := tx.Model(&model.Attendee{}).Select("game_id").Where("user_id = ?", userID)
		if err := tx.Model(&model.Game{}).
			Where("id IN (?) AND current_attendees > 0", joined).
			UpdateColumn("current_attendees", gorm.Expr("current_attendees - 1")).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Attendee{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Game{}).
			Where("created_by = ? AND is_active = ?", userID, true).
			UpdateColumns(map[string]interface{}{
				"is_active": false,
				"closed_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&model.UserIdentity{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.Profile{}).Error
	})
}
