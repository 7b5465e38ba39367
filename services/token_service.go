package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"storefront-service/apperrors"
	"storefront-service/repository"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// AccessTokenTTL bounds how long a stolen access token stays useful.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is mirrored by the Redis key expiry.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenPair holds the generated access and refresh tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService creates and validates JWTs. Access and refresh tokens are
// signed with distinct secrets, so one class of token can never stand in for
// the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	store         repository.RefreshTokenStore
}

// NewTokenService creates a new TokenService.
func NewTokenService(accessSecret, refreshSecret string, store repository.RefreshTokenStore) *TokenService {
	if accessSecret == "" || refreshSecret == "" {
		// The service cannot function without its secrets, so it's appropriate to panic on startup.
		panic("token secrets not configured")
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     AccessTokenTTL,
		refreshTTL:    RefreshTokenTTL,
		store:         store,
	}
}

// IssueTokens mints a fresh access/refresh pair for the user and persists
// the refresh token under the per-user key with a matching TTL.
func (s *TokenService) IssueTokens(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, err := s.generateToken(userID, "access", s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(userID, "refresh", s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, userID, refreshToken, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ValidateAccess verifies an access token and resolves it to a user id.
// An expired token is reported distinctly so clients know to refresh.
func (s *TokenService) ValidateAccess(tokenStr string) (string, error) {
	userID, err := s.parseToken(tokenStr, "access", s.accessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrTokenExpired
		}
		return "", apperrors.ErrInvalidToken
	}
	return userID, nil
}

// RefreshAccess verifies the presented refresh token against the stored one
// and mints a new access token. The refresh token itself is unchanged. A
// token that fails the byte-for-byte comparison was rotated out or revoked,
// and the session is terminal.
func (s *TokenService) RefreshAccess(ctx context.Context, refreshToken string) (string, string, error) {
	userID, err := s.parseToken(refreshToken, "refresh", s.refreshSecret)
	if err != nil {
		return "", "", apperrors.ErrInvalidToken
	}

	stored, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", apperrors.ErrInvalidToken
		}
		return "", "", fmt.Errorf("failed to load refresh token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return "", "", apperrors.ErrInvalidToken
	}

	accessToken, err := s.generateToken(userID, "access", s.accessSecret, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, userID, nil
}

// Revoke deletes the stored refresh token, used on logout.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}

// UserIDFromRefresh decodes a refresh token without touching the store,
// enough to know whose session to revoke on logout.
func (s *TokenService) UserIDFromRefresh(refreshToken string) (string, error) {
	userID, err := s.parseToken(refreshToken, "refresh", s.refreshSecret)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}
	return userID, nil
}

func (s *TokenService) generateToken(userID, tokenType string, secret []byte, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": tokenType,
		"exp": time.Now().Add(duration).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *TokenService) parseToken(tokenStr, expectedType string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	if typ, ok := claims["typ"].(string); !ok || typ != expectedType {
		return "", fmt.Errorf("invalid token type")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("missing subject claim")
	}
	return sub, nil
}
