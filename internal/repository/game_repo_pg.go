package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
)

// Columns an owner may change. current_attendees belongs to AttendeeRepository.
var gameMutableColumns = []string{
	"title", "location_id", "game_time", "is_recurring", "max_attendees",
	"level", "age_limit", "description", "is_active", "closed_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type pgGameRepository struct {
	db *gorm.DB
}

func NewPGGameRepository(db *gorm.DB) GameRepository {
	return &pgGameRepository{db: db}
}

func (r *pgGameRepository) Create(ctx context.Context, game *model.Game, location *model.Location) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockLiveUser(tx, game.CreatedBy); err != nil {
			return err
		}
		if location != nil {
			if err := tx.Create(location).Error; err != nil {
				return err
			}
			id := location.ID
			game.LocationID = &id
		}
		return tx.Omit("Location").Create(game).Error
	})
}

func (r *pgGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Game, error) {
	var game model.Game
	if err := r.db.WithContext(ctx).Preload("Location").First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *pgGameRepository) ListActive(ctx context.Context, q GameQuery) ([]model.Game, int64, error) {
	filter := activeGameFilter(q)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Game{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	games := []model.Game{}
	if total == 0 || int64(q.Offset) >= total {
		return games, total, nil
	}

	err := r.db.WithContext(ctx).
		Scopes(filter).
		Preload("Location").
		Order("created_at DESC").
		Order("id ASC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&games).Error
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

func activeGameFilter(q GameQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_active = ?", true)
		if q.TitleContains != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(q.TitleContains)) + "%"
			db = db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
		}
		if q.Level != model.LevelUnset {
			db = db.Where("level = ?", q.Level)
		}
		if q.LocationIDs != nil {
			db = db.Where("location_id IN ?", q.LocationIDs)
		}
		return db
	}
}

func (r *pgGameRepository) Update(ctx context.Context, game *model.Game) error {
	res := r.db.WithContext(ctx).
		Model(game).
		Select(gameMutableColumns).
		Updates(game)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pgGameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&model.Attendee{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Game{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
