package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
)

func activationToken(t *testing.T, svc *auth.JWTService, userID string) string {
	t.Helper()
	token, err := svc.Issue(auth.TokenPayload{UserID: userID, Purpose: auth.PurposeActivation}, config.ActivationTokenTTL)
	require.NoError(t, err)
	return token
}

func TestActivationService_ActivatesOnce(t *testing.T) {
	jwtSvc := auth.NewJWTService(testSecret)
	repo := new(MockUserRepository)
	cache := new(MockInvalidator)
	svc := NewActivationService(repo, jwtSvc, cache, nil)

	user := &model.User{ID: uuid.New(), Verified: false}
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil).Once()
	cache.On("Invalidate", mock.Anything, user.ID).Once()

	token := activationToken(t, jwtSvc, user.ID.String())

	require.NoError(t, svc.Activate(context.Background(), token))
	assert.True(t, user.Verified)

	err := svc.Activate(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrAccountAlreadyActivated)

	repo.AssertNumberOfCalls(t, "Save", 1)
	cache.AssertExpectations(t)
}

func TestActivationService_Rejects(t *testing.T) {
	jwtSvc := auth.NewJWTService(testSecret)
	userID := uuid.New().String()

	tests := []struct {
		name     string
		token    func(t *testing.T) string
		expected error
	}{
		{
			name:     "empty token",
			token:    func(*testing.T) string { return "" },
			expected: apperrors.ErrInvalidToken,
		},
		{
			name:     "garbage",
			token:    func(*testing.T) string { return "not.a.token" },
			expected: apperrors.ErrInvalidToken,
		},
		{
			name: "wrong key",
			token: func(t *testing.T) string {
				return activationToken(t, auth.NewJWTService("other-secret"), userID)
			},
			expected: apperrors.ErrInvalidToken,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				past := jwtSvc.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
				return activationToken(t, past, userID)
			},
			expected: apperrors.ErrTokenExpired,
		},
		{
			name: "session token",
			token: func(t *testing.T) string {
				token, err := jwtSvc.Issue(auth.TokenPayload{UserID: userID, Purpose: auth.PurposeSession}, config.SessionTokenTTL)
				require.NoError(t, err)
				return token
			},
			expected: apperrors.ErrInvalidToken,
		},
		{
			name: "no purpose",
			token: func(t *testing.T) string {
				token, err := jwtSvc.Issue(auth.TokenPayload{UserID: userID}, config.ActivationTokenTTL)
				require.NoError(t, err)
				return token
			},
			expected: apperrors.ErrInvalidToken,
		},
		{
			name: "malformed user id",
			token: func(t *testing.T) string {
				return activationToken(t, jwtSvc, "not-a-uuid")
			},
			expected: apperrors.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			svc := NewActivationService(repo, jwtSvc, nil, nil)

			err := svc.Activate(context.Background(), tt.token(t))

			assert.ErrorIs(t, err, tt.expected)
			repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestActivationService_UnknownUser(t *testing.T) {
	jwtSvc := auth.NewJWTService(testSecret)
	repo := new(MockUserRepository)
	svc := NewActivationService(repo, jwtSvc, nil, nil)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, apperrors.ErrUserNotFound)

	err := svc.Activate(context.Background(), activationToken(t, jwtSvc, id.String()))

	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestActivationService_SaveFailure(t *testing.T) {
	jwtSvc := auth.NewJWTService(testSecret)
	repo := new(MockUserRepository)
	cache := new(MockInvalidator)
	svc := NewActivationService(repo, jwtSvc, cache, nil)

	user := &model.User{ID: uuid.New()}
	dbErr := errors.New("deadlock")
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(dbErr)

	err := svc.Activate(context.Background(), activationToken(t, jwtSvc, user.ID.String()))

	assert.ErrorIs(t, err, dbErr)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestActivationService_ClockDecidesExpiry(t *testing.T) {
	jwtSvc := auth.NewJWTService(testSecret)
	repo := new(MockUserRepository)
	later := func() time.Time { return time.Now().Add(config.ActivationTokenTTL + time.Minute) }
	svc := NewActivationService(repo, jwtSvc, nil, later)

	err := svc.Activate(context.Background(), activationToken(t, jwtSvc, uuid.New().String()))
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}
