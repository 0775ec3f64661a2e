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
	"pickup/gamehub/pkg/crypto"
)

const resetKeyPrefix = "pwreset:"

type PasswordResetService interface {
	// RequestPasswordReset mails a one-time reset link. Unknown addresses
	// return nil so callers cannot enumerate accounts.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	identityRepo repository.IdentityRepository
	stateStore   repository.StateStore
	mailer       MailSender
	tokenTTL     time.Duration
	resetURL     string
	logger       *zap.Logger
}

func NewPasswordResetService(
	identityRepo repository.IdentityRepository,
	stateStore repository.StateStore,
	mailer MailSender,
	tokenTTL time.Duration,
	resetURL string,
	logger *zap.Logger,
) PasswordResetService {
	return &passwordResetService{
		identityRepo: identityRepo,
		stateStore:   stateStore,
		mailer:       mailer,
		tokenTTL:     tokenTTL,
		resetURL:     resetURL,
		logger:       logger,
	}
}

func (s *passwordResetService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	identity, err := s.identityRepo.GetByTypeAndIdentifier(ctx, model.IdentityTypePassword, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to find identity: %w", err)
	}

	token, err := crypto.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.stateStore.Set(ctx, resetKeyPrefix+token, []byte(identity.ID.String()), s.tokenTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	body := fmt.Sprintf("Use the link below to choose a new password. It expires in %s.\n\n%s%s\n",
		s.tokenTTL, s.resetURL, token)
	if err := s.mailer.Send(ctx, email, "Reset your password", body); err != nil {
		_ = s.stateStore.Delete(ctx, resetKeyPrefix+token)
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrResetTokenInvalid
	}

	raw, err := s.stateStore.Take(ctx, resetKeyPrefix+token)
	if err != nil {
		return fmt.Errorf("redeem reset token: %w", err)
	}
	if raw == nil {
		return ErrResetTokenInvalid
	}
	identityID, err := uuid.Parse(string(raw))
	if err != nil {
		return ErrResetTokenInvalid
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.identityRepo.UpdateCredentialData(ctx, identityID, model.CredentialData{
		model.CredentialKeyPasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

var _ PasswordResetService = (*passwordResetService)(nil)
