package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
// Production schemas are managed by cmd/migrate; this path serves local dev and tests.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&UserIdentity{},
		&Profile{},
		&Location{},
		&Game{},
		&Attendee{},
	); err != nil {
		return err
	}

	// Composite unique index: only enforce on non-soft-deleted rows.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_identity_type_identifier " +
			"ON user_identities (identity_type, identifier) WHERE deleted_at IS NULL",
	).Error; err != nil {
		return err
	}

	// Case-insensitive unique username for live profiles that picked one.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username_lower " +
			"ON profiles (lower(username)) WHERE deleted_at IS NULL AND username <> ''",
	).Error
}
