package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "socialnet/internal/errors"
)

const testSecret = "test-secret"

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret)

	token, err := svc.Issue(TokenPayload{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Data.UserID)
	assert.False(t, claims.Expired(time.Now()))
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 2*time.Second)
}

func TestJWTService_ExpiryIsReportedNotEnforced(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc := NewJWTService(testSecret).WithClock(func() time.Time { return issuedAt })

	token, err := svc.Issue(TokenPayload{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	claims, err := NewJWTService(testSecret).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Data.UserID)
	assert.True(t, claims.Expired(time.Now()))
	assert.False(t, claims.Expired(issuedAt.Add(30*time.Minute)))
}

func TestJWTService_SessionTokenLifetime(t *testing.T) {
	svc := NewJWTService(testSecret)

	token, err := svc.Issue(TokenPayload{UserID: "user-1"}, 7*24*time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.False(t, claims.Expired(time.Now().Add(6*24*time.Hour)))
	assert.True(t, claims.Expired(time.Now().Add(8*24*time.Hour)))
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(testSecret)
	valid, err := svc.Issue(TokenPayload{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	otherKey, err := NewJWTService("another-secret").Issue(TokenPayload{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Data:             &TokenPayload{},
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Data: &TokenPayload{UserID: "user-1"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noData, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		Data:             &TokenPayload{UserID: "user-1"},
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"signed with different key", otherKey},
		{"tampered payload", tampered},
		{"missing user id", noUser},
		{"missing expiry", noExp},
		{"payload outside data", noData},
		{"unexpected algorithm", hs512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService("").Issue(TokenPayload{UserID: "user-1"}, time.Hour)
	assert.Error(t, err)
}
