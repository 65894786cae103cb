package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "socialnet/internal/errors"
)

// SigningMethod is the only algorithm tokens are issued or accepted with.
const SigningMethod = "HS256"

// Token purposes. A token is only accepted where its purpose matches.
const (
	PurposeActivation = "activation"
	PurposeSession    = "session"
)

// TokenPayload is the application data embedded in every token.
type TokenPayload struct {
	UserID  string `json:"userId"`
	Purpose string `json:"purpose,omitempty"`
}

// Claims represents JWT claims. The payload sits under "data".
type Claims struct {
	Data *TokenPayload `json:"data,omitempty"`
	jwt.RegisteredClaims
}

// HasPurpose reports whether the token was issued for purpose.
func (c *Claims) HasPurpose(purpose string) bool {
	return c.Data != nil && c.Data.Purpose == purpose
}

// Expired reports whether the token is past its expiry at now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || now.After(c.ExpiresAt.Time)
}

// JWTService signs and verifies HS256 tokens with a process-wide secret.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock replaces the issuing clock. Tests use it to mint expired tokens.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	return &JWTService{secret: s.secret, now: now}
}

// Secret returns the signing key for middleware that verifies session tokens.
func (s *JWTService) Secret() []byte {
	return s.secret
}

// Issue signs payload with an expiry ttl after now.
func (s *JWTService) Issue(payload TokenPayload, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("sign token: empty secret")
	}

	now := s.now()
	claims := &Claims{
		Data: &payload,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and structure of tokenString and returns its
// claims. Expiry is not enforced here; callers check Claims.Expired against
// their own clock and report ErrTokenExpired themselves.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{SigningMethod}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.Data == nil || claims.Data.UserID == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing required claims", apperrors.ErrInvalidToken)
	}
	return claims, nil
}
