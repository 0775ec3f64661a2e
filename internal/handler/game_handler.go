package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pickup/gamehub/internal/config"
	"pickup/gamehub/internal/model"
	"pickup/gamehub/internal/service"
	"pickup/gamehub/pkg/response"
)

type GameHandler struct {
	directory     service.DirectoryService
	participation service.ParticipationService
	pageCfg       config.DirectoryConfig
}

func NewGameHandler(
	directory service.DirectoryService,
	participation service.ParticipationService,
	pageCfg config.DirectoryConfig,
) *GameHandler {
	return &GameHandler{
		directory:     directory,
		participation: participation,
		pageCfg:       pageCfg,
	}
}

type NewLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type CreateGameRequest struct {
	Title        string              `json:"title" binding:"required"`
	LocationID   *uuid.UUID          `json:"location_id"`
	NewLocation  *NewLocationRequest `json:"new_location"`
	GameTime     time.Time           `json:"game_time" binding:"required"`
	IsRecurring  bool                `json:"is_recurring"`
	MaxAttendees int                 `json:"max_attendees" binding:"required"`
	Level        model.Level         `json:"level"`
	AgeLimit     *int                `json:"age_limit"`
	Description  string              `json:"description"`
}

type UpdateGameRequest struct {
	Title        *string      `json:"title"`
	LocationID   *uuid.UUID   `json:"location_id"`
	GameTime     *time.Time   `json:"game_time"`
	IsRecurring  *bool        `json:"is_recurring"`
	MaxAttendees *int         `json:"max_attendees"`
	Level        *model.Level `json:"level"`
	AgeLimit     *int         `json:"age_limit"`
	Description  *string      `json:"description"`
	IsActive     *bool        `json:"is_active"`
	ClosedAt     *time.Time   `json:"closed_at"`
}

// List serves the public game directory.
// Query: title, level, state, city, country, page (default 1), page_size.
func (h *GameHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		response.BadRequest(c, "page must be an integer")
		return
	}
	pageSize, err := queryInt(c, "page_size", h.pageCfg.DefaultPageSize)
	if err != nil {
		response.BadRequest(c, "page_size must be an integer")
		return
	}
	if h.pageCfg.MaxPageSize > 0 && pageSize > h.pageCfg.MaxPageSize {
		pageSize = h.pageCfg.MaxPageSize
	}

	filter := service.GameFilter{
		TitleContains: c.Query("title"),
		Level:         model.Level(c.Query("level")),
		State:         c.Query("state"),
		City:          c.Query("city"),
		Country:       c.Query("country"),
	}

	games, total, err := h.directory.ListGames(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		writeGameError(c, err, "failed to list games")
		return
	}

	response.Success(c, response.NewPage(games, total, page, pageSize))
}

func (h *GameHandler) Get(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	game, err := h.directory.GetGame(c.Request.Context(), gameID)
	if err != nil {
		writeGameError(c, err, "failed to get game")
		return
	}

	response.Success(c, game)
}

func (h *GameHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	input := service.CreateGameInput{
		Title:        req.Title,
		LocationID:   req.LocationID,
		GameTime:     req.GameTime,
		IsRecurring:  req.IsRecurring,
		MaxAttendees: req.MaxAttendees,
		Level:        req.Level,
		AgeLimit:     req.AgeLimit,
		Description:  req.Description,
	}
	if req.NewLocation != nil {
		input.NewLocation = &service.NewLocationInput{
			Name:    req.NewLocation.Name,
			Address: req.NewLocation.Address,
			City:    req.NewLocation.City,
			State:   req.NewLocation.State,
			Country: req.NewLocation.Country,
		}
	}

	game, err := h.participation.CreateGame(c.Request.Context(), userID, input)
	if err != nil {
		writeGameError(c, err, "failed to create game")
		return
	}

	response.Created(c, game)
}

func (h *GameHandler) Update(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	var req UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	game, err := h.participation.UpdateGame(c.Request.Context(), gameID, userID, service.GamePatch{
		Title:        req.Title,
		LocationID:   req.LocationID,
		GameTime:     req.GameTime,
		IsRecurring:  req.IsRecurring,
		MaxAttendees: req.MaxAttendees,
		Level:        req.Level,
		AgeLimit:     req.AgeLimit,
		Description:  req.Description,
		IsActive:     req.IsActive,
		ClosedAt:     req.ClosedAt,
	})
	if err != nil {
		writeGameError(c, err, "failed to update game")
		return
	}

	response.Success(c, game)
}

func (h *GameHandler) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	if err := h.participation.DeleteGame(c.Request.Context(), gameID, userID); err != nil {
		writeGameError(c, err, "failed to delete game")
		return
	}

	response.Success(c, nil)
}

func (h *GameHandler) Join(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	attendee, err := h.participation.JoinGame(c.Request.Context(), gameID, userID)
	if err != nil {
		writeGameError(c, err, "failed to join game")
		return
	}

	response.Created(c, attendee)
}

func parseGameID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid game id")
		return uuid.Nil, false
	}
	return id, true
}

// writeGameError maps directory and participation errors to HTTP answers.
func writeGameError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.Unauthorized(c, "account no longer exists")
	case errors.Is(err, service.ErrNotGameOwner), errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrAlreadyJoined), errors.Is(err, service.ErrGameFull):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrValidationFailed), errors.Is(err, service.ErrInvalidPagination):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrDirectoryUnavailable):
		response.ServiceUnavailable(c, "game directory is unavailable")
	default:
		response.InternalError(c, fallback)
	}
}
