package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pickup/gamehub/internal/model"
)

type pgUserRepository struct {
	db *gorm.DB
}

func NewPGUserRepository(db *gorm.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// lockLiveUser share-locks the user row inside tx so a concurrent account
// deletion waits for the transaction, or fails it with ErrUserGone when the
// deletion committed first.
func lockLiveUser(tx *gorm.DB, userID uuid.UUID) error {
	var user model.User
	err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		Select("id").
		First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserGone
	}
	return err
}
