package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/logger"
	"socialnet/internal/mailer"
	"socialnet/internal/metrics"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// SignupResult is what a successful registration hands back to the caller.
type SignupResult struct {
	User  *model.User
	Token string // 7-day session token
}

// SignupService runs the registration pipeline.
type SignupService interface {
	Register(ctx context.Context, req SignupRequest) (*SignupResult, error)
}

type signupService struct {
	users     repository.UserRepository
	validator *SignupValidator
	hasher    *auth.PasswordHasher
	usernames *UsernameAllocator
	tokens    *auth.JWTService
	notifier  mailer.Notifier
	baseURL   string
}

// NewSignupService wires the pipeline stages. baseURL prefixes activation links.
func NewSignupService(
	users repository.UserRepository,
	validator *SignupValidator,
	hasher *auth.PasswordHasher,
	tokens *auth.JWTService,
	notifier mailer.Notifier,
	baseURL string,
) SignupService {
	return &signupService{
		users:     users,
		validator: validator,
		hasher:    hasher,
		usernames: NewUsernameAllocator(users),
		tokens:    tokens,
		notifier:  notifier,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Register validates req, persists a new unverified user, emails an
// activation link and returns a session token. Nothing is rolled back if a
// step after the insert fails.
func (s *signupService) Register(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	input, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}

	// Check if email already registered
	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("check email availability: %w", err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	username, err := s.usernames.Allocate(ctx, input.FirstName, input.LastName)
	if err != nil {
		return nil, fmt.Errorf("allocate username: %w", err)
	}

	user := &model.User{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Username:   username,
		Password:   hashed,
		Picture:    model.DefaultPicture,
		BirthYear:  input.BirthYear,
		BirthMonth: input.BirthMonth,
		BirthDay:   input.BirthDay,
		Gender:     input.Gender,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	log := logger.Log(ctx).With(zap.String("user_id", user.ID.String()))
	log.Info(ctx, "user registered", zap.String("username", user.Username))

	if err := s.sendVerificationEmail(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(auth.TokenPayload{UserID: user.ID.String(), Purpose: auth.PurposeSession}, config.SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &SignupResult{User: user, Token: token}, nil
}

// sendVerificationEmail mails the activation link. Delivery failures are
// logged and swallowed; only a failure to sign the token is returned.
func (s *signupService) sendVerificationEmail(ctx context.Context, user *model.User) error {
	token, err := s.tokens.Issue(auth.TokenPayload{UserID: user.ID.String(), Purpose: auth.PurposeActivation}, config.ActivationTokenTTL)
	if err != nil {
		return fmt.Errorf("issue activation token: %w", err)
	}

	data := mailer.VerificationData{
		VerificationLink: s.baseURL + "/activate/" + token,
		FirstName:        user.FirstName,
	}
	if err := s.notifier.SendVerificationEmail(ctx, data, user.Email); err != nil {
		logger.Log(ctx).Error(ctx, "verification email not sent",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		metrics.RecordVerificationEmail(false)
		return nil
	}
	metrics.RecordVerificationEmail(true)
	return nil
}
