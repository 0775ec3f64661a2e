package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
)

type pgIdentityRepository struct {
	db *gorm.DB
}

func NewPGIdentityRepository(db *gorm.DB) IdentityRepository {
	return &pgIdentityRepository{db: db}
}

func (r *pgIdentityRepository) GetByTypeAndIdentifier(
	ctx context.Context, idType model.IdentityType, identifier string,
) (*model.UserIdentity, error) {
	var identity model.UserIdentity
	err := r.db.WithContext(ctx).
		Where("identity_type = ? AND identifier = ?", idType, identifier).
		First(&identity).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *pgIdentityRepository) UpdateCredentialData(ctx context.Context, id uuid.UUID, data model.CredentialData) error {
	res := r.db.WithContext(ctx).
		Model(&model.UserIdentity{}).
		Where("id = ?", id).
		Update("credential_data", data)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
