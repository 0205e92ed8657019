package authorization

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/DaneshVerma/CitySettel/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:   primitive.NewObjectID(),
		Role: domain.RoleVendor,
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	manager, err := NewTokenManager([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	user := testUser()
	token, err := manager.Generate(user)
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleVendor, claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager, err := NewTokenManager([]byte("test-secret"), -time.Minute)
	require.NoError(t, err)

	token, err := manager.Generate(testUser())
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	signer, err := NewTokenManager([]byte("one-secret"), time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenManager([]byte("another-secret"), time.Hour)
	require.NoError(t, err)

	token, err := signer.Generate(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestExtractTokenPrefersCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "cookie-token", ExtractToken(req))
}

func TestExtractTokenFallsBackToBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "header-token", ExtractToken(req))
}

func TestExtractTokenEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/listings", nil)
	assert.Equal(t, "", ExtractToken(req))
}
