package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-service/apperrors"
	"storefront-service/services"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestTokenService(store *mockTokenStore) *services.TokenService {
	return services.NewTokenService(testAccessSecret, testRefreshSecret, store)
}

func TestIssueTokens_StoresRefreshToken(t *testing.T) {
	store := newMockTokenStore()
	svc := newTestTokenService(store)

	pair, err := svc.IssueTokens(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, pair.RefreshToken, store.tokens["user-1"])
}

func TestValidateAccess_RoundTrip(t *testing.T) {
	svc := newTestTokenService(newMockTokenStore())

	pair, err := svc.IssueTokens(context.Background(), "user-1")
	assert.NoError(t, err)

	userID, err := svc.ValidateAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateAccess_RejectsRefreshToken(t *testing.T) {
	svc := newTestTokenService(newMockTokenStore())

	pair, err := svc.IssueTokens(context.Background(), "user-1")
	assert.NoError(t, err)

	// A refresh token is signed with a different secret and typ claim.
	_, err = svc.ValidateAccess(pair.RefreshToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestValidateAccess_ExpiredIsDistinct(t *testing.T) {
	svc := newTestTokenService(newMockTokenStore())

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"typ": "access",
		"exp": time.Now().Add(-time.Minute).Unix(),
		"iat": time.Now().Add(-time.Hour).Unix(),
	})
	tokenStr, err := expired.SignedString([]byte(testAccessSecret))
	assert.NoError(t, err)

	_, err = svc.ValidateAccess(tokenStr)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestRefreshAccess_MintsNewAccessToken(t *testing.T) {
	store := newMockTokenStore()
	svc := newTestTokenService(store)

	pair, err := svc.IssueTokens(context.Background(), "user-1")
	assert.NoError(t, err)

	accessToken, userID, err := svc.RefreshAccess(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	resolved, err := svc.ValidateAccess(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", resolved)

	// The stored refresh token is unchanged.
	assert.Equal(t, pair.RefreshToken, store.tokens["user-1"])
}

func TestRefreshAccess_RejectsRotatedOutToken(t *testing.T) {
	store := newMockTokenStore()
	svc := newTestTokenService(store)

	first, err := svc.IssueTokens(context.Background(), "user-1")
	assert.NoError(t, err)

	// A second login replaces the stored refresh token.
	time.Sleep(1100 * time.Millisecond) // distinct iat so the tokens differ
	second, err := svc.IssueTokens(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, _, err = svc.RefreshAccess(context.Background(), first.RefreshToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))

	_, _, err = svc.RefreshAccess(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshAccess_RejectsAfterRevoke(t *testing.T) {
	store := newMockTokenStore()
	svc := newTestTokenService(store)

	pair, err := svc.IssueTokens(context.Background(), "user-1")
	assert.NoError(t, err)

	assert.NoError(t, svc.Revoke(context.Background(), "user-1"))

	_, _, err = svc.RefreshAccess(context.Background(), pair.RefreshToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}
