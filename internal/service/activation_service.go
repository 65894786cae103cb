package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialnet/internal/auth"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/logger"
	"socialnet/internal/repository"
)

// ActivationService flips a user from unverified to verified.
type ActivationService interface {
	Activate(ctx context.Context, token string) error
}

type activationService struct {
	users  repository.UserRepository
	tokens *auth.JWTService
	cache  Invalidator
	now    func() time.Time
}

// Invalidator drops cached state for a user.
type Invalidator interface {
	Invalidate(ctx context.Context, id uuid.UUID)
}

// NewActivationService creates an ActivationService. cache may be nil.
func NewActivationService(users repository.UserRepository, tokens *auth.JWTService, cache Invalidator, now func() time.Time) ActivationService {
	if now == nil {
		now = time.Now
	}
	return &activationService{users: users, tokens: tokens, cache: cache, now: now}
}

// Activate verifies the account named by an activation token. A second
// activation of the same account fails with ErrAccountAlreadyActivated.
//
// The read and the write are separate statements, so two concurrent requests
// for the same token may both succeed.
func (s *activationService) Activate(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.ErrInvalidToken
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}
	if !claims.HasPurpose(auth.PurposeActivation) {
		return fmt.Errorf("%w: not an activation token", apperrors.ErrInvalidToken)
	}
	if claims.Expired(s.now()) {
		return apperrors.ErrTokenExpired
	}

	id, err := uuid.Parse(claims.Data.UserID)
	if err != nil {
		return fmt.Errorf("%w: malformed user id", apperrors.ErrInvalidToken)
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("%w: unknown user", apperrors.ErrInvalidToken)
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if user.Verified {
		return apperrors.ErrAccountAlreadyActivated
	}

	user.Verified = true
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, user.ID)
	}
	logger.Log(ctx).Info(ctx, "account activated", zap.String("user_id", user.ID.String()))
	return nil
}
