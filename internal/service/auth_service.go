package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickup/gamehub/internal/model"
	"pickup/gamehub/internal/repository"
	"pickup/gamehub/pkg/crypto"
	jwtpkg "pickup/gamehub/pkg/jwt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores anything longer

	refreshKeyPrefix = "refresh:"
)

// TokenSet represents a set of tokens returned after authentication.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
	FullName string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*TokenSet, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo     repository.UserRepository
	identityRepo repository.IdentityRepository
	profileRepo  repository.ProfileRepository
	accountRepo  repository.AccountRepository
	stateStore   repository.StateStore
	jwtManager   *jwtpkg.Manager
}

func NewAuthService(
	userRepo repository.UserRepository,
	identityRepo repository.IdentityRepository,
	profileRepo repository.ProfileRepository,
	accountRepo repository.AccountRepository,
	stateStore repository.StateStore,
	jwtManager *jwtpkg.Manager,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		identityRepo: identityRepo,
		profileRepo:  profileRepo,
		accountRepo:  accountRepo,
		stateStore:   stateStore,
		jwtManager:   jwtManager,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(input.Username)
	if err := validateProfileUpdate(repository.ProfileUpdate{Username: &username}); err != nil {
		return nil, err
	}

	// 1. Check identity not already taken
	_, err = s.identityRepo.GetByTypeAndIdentifier(ctx, model.IdentityTypePassword, email)
	if err == nil {
		return nil, ErrIdentityAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check identity: %w", err)
	}
	if username != "" {
		taken, err := s.profileRepo.UsernameTaken(ctx, username, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}

	// 2. Hash the password
	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. User, identity and profile go in together
	user := &model.User{Status: model.UserStatusActive}
	identity := &model.UserIdentity{
		IdentityType:   model.IdentityTypePassword,
		Identifier:     email,
		CredentialData: model.CredentialData{model.CredentialKeyPasswordHash: hash},
	}
	profile := &model.Profile{
		Username: username,
		FullName: strings.TrimSpace(input.FullName),
	}
	if err := s.accountRepo.CreateUserWithProfile(ctx, user, identity, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if username != "" {
				return nil, ErrUsernameTaken
			}
			return nil, ErrIdentityAlreadyExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenSet, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	identity, err := s.identityRepo.GetByTypeAndIdentifier(ctx, model.IdentityTypePassword, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if !crypto.CheckPassword(password, identity.PasswordHash()) {
		return nil, ErrInvalidCredentials
	}

	if err := s.ensureActive(ctx, identity.UserID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.issueTokens(ctx, identity.UserID)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error) {
	claims, err := s.jwtManager.ValidateType(refreshToken, jwtpkg.TokenTypeRefresh)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}

	// Rotation: each refresh token is redeemable once.
	owner, err := s.stateStore.Take(ctx, refreshKeyPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("redeem refresh token: %w", err)
	}
	if owner == nil || string(owner) != userID.String() {
		return nil, ErrRefreshTokenInvalid
	}

	if err := s.ensureActive(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrRefreshTokenInvalid
		}
		return nil, err
	}
	return s.issueTokens(ctx, userID)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.ValidateType(refreshToken, jwtpkg.TokenTypeRefresh)
	if err != nil {
		return ErrRefreshTokenInvalid
	}
	return s.stateStore.Delete(ctx, refreshKeyPrefix+claims.ID)
}

func (s *authService) ensureActive(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.Status != model.UserStatusActive {
		return ErrUserDisabled
	}
	return nil
}

func (s *authService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenSet, error) {
	access, err := s.jwtManager.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, claims, err := s.jwtManager.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.stateStore.Set(ctx, refreshKeyPrefix+claims.ID, []byte(userID.String()), s.jwtManager.RefreshTokenTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", ErrValidationFailed)
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidationFailed, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidationFailed, maxPasswordLength)
	}
	return nil
}

// ensure authService implements AuthService
var _ AuthService = (*authService)(nil)
