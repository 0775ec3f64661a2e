package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
	"pickup/gamehub/internal/repository"
)

// GameFilter narrows a directory listing. Empty fields do not filter.
type GameFilter struct {
	TitleContains string
	Level         model.Level
	State         string
	City          string
	Country       string
}

func (f GameFilter) locationMatch() repository.LocationMatch {
	return repository.LocationMatch{
		State:   strings.TrimSpace(f.State),
		City:    strings.TrimSpace(f.City),
		Country: strings.TrimSpace(f.Country),
	}
}

type DirectoryService interface {
	// ListGames returns one page of active games and the total number of
	// games matching filter. Pages are 1-based.
	ListGames(ctx context.Context, filter GameFilter, page, pageSize int) ([]model.Game, int64, error)
	GetGame(ctx context.Context, id uuid.UUID) (*model.Game, error)
	ListLocations(ctx context.Context) ([]model.Location, error)
}

type directoryService struct {
	gameRepo     repository.GameRepository
	locationRepo repository.LocationRepository
}

func NewDirectoryService(gameRepo repository.GameRepository, locationRepo repository.LocationRepository) DirectoryService {
	return &directoryService{
		gameRepo:     gameRepo,
		locationRepo: locationRepo,
	}
}

func (s *directoryService) ListGames(ctx context.Context, filter GameFilter, page, pageSize int) ([]model.Game, int64, error) {
	if page < 1 || pageSize < 1 {
		return nil, 0, ErrInvalidPagination
	}
	if !filter.Level.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown level %q", ErrValidationFailed, filter.Level)
	}

	q := repository.GameQuery{
		TitleContains: filter.TitleContains,
		Level:         filter.Level,
		Offset:        (page - 1) * pageSize,
		Limit:         pageSize,
	}

	// 1. Resolve location filters first; no match means no game can match.
	if match := filter.locationMatch(); !match.IsEmpty() {
		ids, err := s.locationRepo.FindIDs(ctx, match)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: resolve locations: %w", ErrDirectoryUnavailable, err)
		}
		if len(ids) == 0 {
			return []model.Game{}, 0, nil
		}
		q.LocationIDs = ids
	}

	// 2. Query the window and the unwindowed count.
	games, total, err := s.gameRepo.ListActive(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list games: %w", ErrDirectoryUnavailable, err)
	}
	return games, total, nil
}

func (s *directoryService) GetGame(ctx context.Context, id uuid.UUID) (*model.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("%w: get game: %w", ErrDirectoryUnavailable, err)
	}
	return game, nil
}

func (s *directoryService) ListLocations(ctx context.Context) ([]model.Location, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list locations: %w", ErrDirectoryUnavailable, err)
	}
	return locations, nil
}

var _ DirectoryService = (*directoryService)(nil)
