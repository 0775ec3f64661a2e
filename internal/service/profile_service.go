package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
	"pickup/gamehub/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd repository.ProfileUpdate) (*model.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, storageErr("get profile", err)
	}
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd repository.ProfileUpdate) (*model.Profile, error) {
	upd = trimProfileUpdate(upd)
	if err := validateProfileUpdate(upd); err != nil {
		return nil, err
	}

	if upd.Username != nil && *upd.Username != "" {
		taken, err := s.profileRepo.UsernameTaken(ctx, *upd.Username, userID)
		if err != nil {
			return nil, storageErr("check username", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}

	profile, err := s.profileRepo.Update(ctx, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrProfileNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrUsernameTaken
		default:
			return nil, storageErr("update profile", err)
		}
	}
	return profile, nil
}

func trimProfileUpdate(upd repository.ProfileUpdate) repository.ProfileUpdate {
	for _, field := range []**string{&upd.FullName, &upd.Username, &upd.Bio, &upd.Location, &upd.AvatarURL} {
		if *field != nil {
			v := strings.TrimSpace(**field)
			*field = &v
		}
	}
	return upd
}

func validateProfileUpdate(upd repository.ProfileUpdate) error {
	if upd.Username != nil && *upd.Username != "" && !usernamePattern.MatchString(*upd.Username) {
		return fmt.Errorf("%w: username must be 3-32 letters, digits, '.', '_' or '-'", ErrValidationFailed)
	}
	if upd.FullName != nil && len(*upd.FullName) > 128 {
		return fmt.Errorf("%w: full_name is too long", ErrValidationFailed)
	}
	if upd.Location != nil && len(*upd.Location) > 256 {
		return fmt.Errorf("%w: location is too long", ErrValidationFailed)
	}
	if upd.AvatarURL != nil && *upd.AvatarURL != "" {
		u, err := url.Parse(*upd.AvatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: avatar_url must be an http(s) URL", ErrValidationFailed)
		}
	}
	return nil
}

var _ ProfileService = (*profileService)(nil)
