package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
	"pickup/gamehub/internal/repository"
)

type NewLocationInput struct {
	Name    string
	Address string
	City    string
	State   string
	Country string
}

// CreateGameInput describes a new game. LocationID wins over NewLocation;
// with neither the game is created without a location.
type CreateGameInput struct {
	Title        string
	LocationID   *uuid.UUID
	NewLocation  *NewLocationInput
	GameTime     time.Time
	IsRecurring  bool
	MaxAttendees int
	Level        model.Level
	AgeLimit     *int
	Description  string
}

// GamePatch is a partial update; nil fields keep their stored value.
type GamePatch struct {
	Title        *string
	LocationID   *uuid.UUID
	GameTime     *time.Time
	IsRecurring  *bool
	MaxAttendees *int
	Level        *model.Level
	AgeLimit     *int
	Description  *string
	IsActive     *bool
	ClosedAt     *time.Time
}

type ParticipationService interface {
	CreateGame(ctx context.Context, userID uuid.UUID, input CreateGameInput) (*model.Game, error)
	JoinGame(ctx context.Context, gameID, userID uuid.UUID) (*model.Attendee, error)
	UpdateGame(ctx context.Context, gameID, actingUserID uuid.UUID, patch GamePatch) (*model.Game, error)
	DeleteGame(ctx context.Context, gameID, actingUserID uuid.UUID) error
	// DeleteAccount removes the user's identity and profile in one atomic step.
	DeleteAccount(ctx context.Context, actingUserID, userID uuid.UUID) error
}

type participationService struct {
	gameRepo     repository.GameRepository
	locationRepo repository.LocationRepository
	attendeeRepo repository.AttendeeRepository
	accountRepo  repository.AccountRepository
	publisher    EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewParticipationService(
	gameRepo repository.GameRepository,
	locationRepo repository.LocationRepository,
	attendeeRepo repository.AttendeeRepository,
	accountRepo repository.AccountRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) ParticipationService {
	return &participationService{
		gameRepo:     gameRepo,
		locationRepo: locationRepo,
		attendeeRepo: attendeeRepo,
		accountRepo:  accountRepo,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *participationService) CreateGame(ctx context.Context, userID uuid.UUID, input CreateGameInput) (*model.Game, error) {
	game := &model.Game{
		Title:        strings.TrimSpace(input.Title),
		LocationID:   input.LocationID,
		GameTime:     input.GameTime,
		IsRecurring:  input.IsRecurring,
		MaxAttendees: input.MaxAttendees,
		Level:        input.Level,
		AgeLimit:     input.AgeLimit,
		Description:  strings.TrimSpace(input.Description),
		CreatedBy:    userID,
		IsActive:     true,
	}
	if err := validateGame(game); err != nil {
		return nil, err
	}

	var location *model.Location
	switch {
	case game.LocationID != nil:
		if err := s.ensureLocation(ctx, *game.LocationID); err != nil {
			return nil, err
		}
	case input.NewLocation != nil:
		loc, err := newLocation(*input.NewLocation)
		if err != nil {
			return nil, err
		}
		location = loc
	}

	if err := s.gameRepo.Create(ctx, game, location); err != nil {
		if errors.Is(err, repository.ErrUserGone) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr("create game", err)
	}
	game.Location = location

	s.publish(ctx, EventGameCreated, game.ID, userID)
	return game, nil
}

func (s *participationService) JoinGame(ctx context.Context, gameID, userID uuid.UUID) (*model.Attendee, error) {
	// 1. Early exits. The gateway re-checks both conditions atomically.
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, storageErr("get game", err)
	}

	joined, err := s.attendeeRepo.Exists(ctx, gameID, userID)
	if err != nil {
		return nil, storageErr("check attendee", err)
	}
	if joined {
		return nil, ErrAlreadyJoined
	}
	if game.IsFull() {
		return nil, ErrGameFull
	}

	// 2. Conditional insert
	attendee, err := s.attendeeRepo.Join(ctx, gameID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrAlreadyJoined
		case errors.Is(err, repository.ErrCapacityReached):
			return nil, ErrGameFull
		case errors.Is(err, repository.ErrUserGone):
			return nil, ErrUserNotFound
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrGameNotFound
		default:
			return nil, storageErr("join game", err)
		}
	}

	s.publish(ctx, EventGameJoined, gameID, userID)
	return attendee, nil
}

func (s *participationService) UpdateGame(ctx context.Context, gameID, actingUserID uuid.UUID, patch GamePatch) (*model.Game, error) {
	game, err := s.ownedGame(ctx, gameID, actingUserID)
	if err != nil {
		return nil, err
	}

	wasActive := game.IsActive
	applyPatch(game, patch)
	switch {
	case wasActive && !game.IsActive && patch.ClosedAt == nil:
		now := s.now()
		game.ClosedAt = &now
	case !wasActive && game.IsActive:
		game.ClosedAt = nil
	}

	if err := validateGame(game); err != nil {
		return nil, err
	}
	if game.LocationID == nil {
		return nil, fmt.Errorf("%w: location_id is required", ErrValidationFailed)
	}
	if game.MaxAttendees < game.CurrentAttendees {
		return nil, fmt.Errorf("%w: max_attendees is below the %d players already joined",
			ErrValidationFailed, game.CurrentAttendees)
	}
	if patch.LocationID != nil {
		if err := s.ensureLocation(ctx, *patch.LocationID); err != nil {
			return nil, err
		}
		game.Location = nil
	}

	if err := s.gameRepo.Update(ctx, game); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrGameNotFound
		case errors.Is(err, gorm.ErrCheckConstraintViolated):
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		default:
			return nil, storageErr("update game", err)
		}
	}

	s.publish(ctx, EventGameUpdated, gameID, actingUserID)
	return s.reload(ctx, game), nil
}

func (s *participationService) DeleteGame(ctx context.Context, gameID, actingUserID uuid.UUID) error {
	if _, err := s.ownedGame(ctx, gameID, actingUserID); err != nil {
		return err
	}

	if err := s.gameRepo.Delete(ctx, gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGameNotFound
		}
		return storageErr("delete game", err)
	}

	s.publish(ctx, EventGameDeleted, gameID, actingUserID)
	return nil
}

func (s *participationService) DeleteAccount(ctx context.Context, actingUserID, userID uuid.UUID) error {
	if actingUserID != userID {
		return ErrForbidden
	}

	if err := s.accountRepo.DeleteUserAndProfile(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %w", ErrAccountDeletionFailed, ErrUserNotFound)
		}
		return fmt.Errorf("%w: %w", ErrAccountDeletionFailed, err)
	}
	return nil
}

// ownedGame loads the game and checks that actingUserID created it.
func (s *participationService) ownedGame(ctx context.Context, gameID, actingUserID uuid.UUID) (*model.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, storageErr("get game", err)
	}
	if game.CreatedBy != actingUserID {
		return nil, ErrNotGameOwner
	}
	return game, nil
}

func (s *participationService) ensureLocation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.locationRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %w", ErrValidationFailed, ErrLocationNotFound)
		}
		return storageErr("get location", err)
	}
	return nil
}

// reload returns the stored game with its location; the written copy is
// good enough when the read fails after a committed update.
func (s *participationService) reload(ctx context.Context, game *model.Game) *model.Game {
	fresh, err := s.gameRepo.GetByID(ctx, game.ID)
	if err != nil {
		s.logger.Warn("reload game after update", zap.String("game_id", game.ID.String()), zap.Error(err))
		return game
	}
	return fresh
}

func (s *participationService) publish(ctx context.Context, typ EventType, gameID, userID uuid.UUID) {
	evt := GameEvent{ID: uuid.New(), Type: typ, GameID: gameID, UserID: userID, OccurredAt: s.now().UTC()}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("publish game event",
			zap.String("type", string(typ)),
			zap.String("game_id", gameID.String()),
			zap.Error(err),
		)
	}
}

func applyPatch(game *model.Game, patch GamePatch) {
	if patch.Title != nil {
		game.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.LocationID != nil {
		id := *patch.LocationID
		game.LocationID = &id
	}
	if patch.GameTime != nil {
		game.GameTime = *patch.GameTime
	}
	if patch.IsRecurring != nil {
		game.IsRecurring = *patch.IsRecurring
	}
	if patch.MaxAttendees != nil {
		game.MaxAttendees = *patch.MaxAttendees
	}
	if patch.Level != nil {
		game.Level = *patch.Level
	}
	if patch.AgeLimit != nil {
		age := *patch.AgeLimit
		game.AgeLimit = &age
	}
	if patch.Description != nil {
		game.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsActive != nil {
		game.IsActive = *patch.IsActive
	}
	if patch.ClosedAt != nil {
		closedAt := *patch.ClosedAt
		game.ClosedAt = &closedAt
	}
}

func validateGame(game *model.Game) error {
	switch {
	case game.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidationFailed)
	case game.GameTime.IsZero():
		return fmt.Errorf("%w: game_time is required", ErrValidationFailed)
	case game.MaxAttendees < 1:
		return fmt.Errorf("%w: max_attendees must be at least 1", ErrValidationFailed)
	case !game.Level.Valid():
		return fmt.Errorf("%w: unknown level %q", ErrValidationFailed, game.Level)
	case game.AgeLimit != nil && *game.AgeLimit < 0:
		return fmt.Errorf("%w: age_limit must not be negative", ErrValidationFailed)
	}
	return nil
}

func newLocation(in NewLocationInput) (*model.Location, error) {
	loc := &model.Location{
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		City:    strings.TrimSpace(in.City),
		State:   strings.TrimSpace(in.State),
		Country: strings.TrimSpace(in.Country),
	}
	if loc.Address == "" {
		return nil, fmt.Errorf("%w: new location address is required", ErrValidationFailed)
	}
	return loc, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailed, op, err)
}

var _ ParticipationService = (*participationService)(nil)
