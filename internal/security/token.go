package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gearshare-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UserClaims defines the standard claims for our application. Identity is the
// (user_type, user_id) pair because Google and phone accounts live in
// separate ID spaces.
type UserClaims struct {
	UserID   string          `json:"user_id"`
	UserType domain.UserType `json:"user_type"`
	Name     string          `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Ref returns the authenticated user's reference.
func (c *UserClaims) Ref() domain.UserRef {
	return domain.UserRef{Type: c.UserType, ID: c.UserID}
}

type TokenManager interface {
	GenerateAccessToken(ref domain.UserRef, name string) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *tokenManager) GenerateAccessToken(ref domain.UserRef, name string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:   ref.ID,
		UserType: ref.Type,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ref.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "gearshare",
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		if claims.UserID == "" && claims.Subject != "" {
			claims.UserID = claims.Subject
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
