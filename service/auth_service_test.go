package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/DaneshVerma/CitySettel/authorization"
	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
)

func newAuthService(t *testing.T, users domain.UserStore) (*AuthService, *authorization.TokenManager) {
	t.Helper()
	tokens, err := authorization.NewTokenManager([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return NewAuthService(users, tokens, testLogger(), testTracer()), tokens
}

func signupRequest() *domain.SignupRequest {
	return &domain.SignupRequest{
		FullName: domain.FullName{FirstName: "Asha", LastName: "Verma"},
		Email:    "asha@example.com",
		Password: "secret123",
	}
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	users := newFakeUserStore()
	service, _ := newAuthService(t, users)

	user, token, err := service.Register(context.Background(), signupRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, domain.RoleConsumer, user.Role)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
}

func TestRegisterVendorStartsPendingVerification(t *testing.T) {
	users := newFakeUserStore()
	service, _ := newAuthService(t, users)

	request := signupRequest()
	request.Role = domain.RoleVendor
	request.BusinessName = "Verma Foods"

	user, _, err := service.Register(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVendor, user.Role)
	assert.Equal(t, domain.VerificationPending, user.VerificationStatus)
	assert.Equal(t, "Verma Foods", user.BusinessName)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	service, _ := newAuthService(t, users)

	_, _, err := service.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	_, _, err = service.Register(context.Background(), signupRequest())
	require.Error(t, err)
	assert.Equal(t, errors.UserAlreadyExists, err.Error())
}

func TestLoginVerifiesPassword(t *testing.T) {
	users := newFakeUserStore()
	service, tokens := newAuthService(t, users)

	registered, _, err := service.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	user, token, err := service.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Role, claims.Role)
}

func TestLoginDoesNotDistinguishUnknownEmailFromWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	service, _ := newAuthService(t, users)

	_, _, err := service.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	_, _, wrongPassword := service.Login(context.Background(), "asha@example.com", "nope")
	_, _, unknownEmail := service.Login(context.Background(), "ghost@example.com", "secret123")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, errors.InvalidCredentials, wrongPassword.Error())
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestFederatedLoginRegistersUnknownProfile(t *testing.T) {
	users := newFakeUserStore()
	service, _ := newAuthService(t, users)

	profile := &domain.FederatedProfile{
		ID:         "google-123",
		Email:      "asha@example.com",
		GivenName:  "Asha",
		FamilyName: "Verma",
	}

	user, token, err := service.FederatedLogin(context.Background(), profile)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, domain.RoleConsumer, user.Role)
	assert.Equal(t, "google-123", user.GoogleID)
	assert.Empty(t, user.Password)

	again, _, err := service.FederatedLogin(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, users.users, 1)
}
