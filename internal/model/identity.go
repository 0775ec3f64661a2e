package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IdentityType string

const (
	IdentityTypePassword IdentityType = "password"
)

// CredentialData is the jsonb blob stored in the credential_data column.
// Password identities keep their bcrypt hash under "password_hash".
type CredentialData = datatypes.JSONMap

const CredentialKeyPasswordHash = "password_hash"

type UserIdentity struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	IdentityType   IdentityType   `gorm:"type:varchar(32);not null" json:"identity_type"`
	Identifier     string         `gorm:"type:varchar(512);not null" json:"identifier"`
	CredentialData CredentialData `gorm:"type:jsonb" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserIdentity) TableName() string { return "user_identities" }

func (i *UserIdentity) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// PasswordHash returns the stored bcrypt hash, or "" for non-password identities.
func (i *UserIdentity) PasswordHash() string {
	if i.CredentialData == nil {
		return ""
	}
	hash, _ := i.CredentialData[CredentialKeyPasswordHash].(string)
	return hash
}
