package testutil

import (
	"testing"

	"pickup/gamehub/internal/model"
)

func TestCreateGameInactive(t *testing.T) {
	db := NewDB(t)
	owner := CreateUser(t, db)

	game := CreateGame(t, db, owner.ID, "Closed", Inactive())
	if game.IsActive {
		t.Error("returned game is active, want inactive")
	}

	var stored model.Game
	if err := db.First(&stored, "id = ?", game.ID).Error; err != nil {
		t.Fatalf("load game: %v", err)
	}
	if stored.IsActive {
		t.Error("stored is_active = true, want false")
	}
	if stored.ClosedAt == nil {
		t.Error("stored closed_at is nil")
	}

	open := CreateGame(t, db, owner.ID, "Open")
	if !open.IsActive {
		t.Error("default game is inactive")
	}
}
