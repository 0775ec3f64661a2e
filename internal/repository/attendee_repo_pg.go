package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
)

type pgAttendeeRepository struct {
	db *gorm.DB
}

func NewPGAttendeeRepository(db *gorm.DB) AttendeeRepository {
	return &pgAttendeeRepository{db: db}
}

func (r *pgAttendeeRepository) Exists(ctx context.Context, gameID, userID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Attendee{}).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *pgAttendeeRepository) Join(ctx context.Context, gameID, userID uuid.UUID) (*model.Attendee, error) {
	attendee := &model.Attendee{UserID: userID, GameID: gameID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockLiveUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Create(attendee).Error; err != nil {
			return err
		}

		// The conditional increment is the capacity gate: it takes the row lock
		// and re-evaluates the predicate against the committed counter.
		res := tx.Model(&model.Game{}).
			Where("id = ? AND current_attendees < max_attendees", gameID).
			UpdateColumn("current_attendees", gorm.Expr("current_attendees + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}

		var game model.Game
		if err := tx.Select("id").First(&game, "id = ?", gameID).Error; err != nil {
			return err
		}
		return ErrCapacityReached
	})
	if err != nil {
		return nil, err
	}
	return attendee, nil
}

func (r *pgAttendeeRepository) CountByGame(ctx context.Context, gameID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Attendee{}).Where("game_id = ?", gameID).Count(&n).Error
	return n, err
}
