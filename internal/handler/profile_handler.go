package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pickup/gamehub/internal/repository"
	"pickup/gamehub/internal/service"
	"pickup/gamehub/pkg/response"
)

type ProfileHandler struct {
	profileService service.ProfileService
	participation  service.ParticipationService
}

func NewProfileHandler(profileService service.ProfileService, participation service.ParticipationService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, participation: participation}
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	AvatarURL *string `json:"avatar_url"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFound(c, "profile not found")
			return
		}
		response.InternalError(c, "failed to get profile")
		return
	}

	response.Success(c, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, repository.ProfileUpdate{
		FullName:  req.FullName,
		Username:  req.Username,
		Bio:       req.Bio,
		Location:  req.Location,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUsernameTaken):
			response.Conflict(c, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			response.NotFound(c, "profile not found")
		default:
			response.InternalError(c, "failed to update profile")
		}
		return
	}

	response.Success(c, profile)
}

// DeleteAccount removes the caller's own account.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.participation.DeleteAccount(c.Request.Context(), userID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "account not found")
		default:
			response.InternalError(c, "account deletion failed")
		}
		return
	}

	response.Success(c, nil)
}
