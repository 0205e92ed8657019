package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/authorization"
	"github.com/DaneshVerma/CitySettel/domain"
	application "github.com/DaneshVerma/CitySettel/service"
)

type stubUserStore struct {
	users map[primitive.ObjectID]*domain.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: map[primitive.ObjectID]*domain.User{}}
}

func (store *stubUserStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	store.users[user.ID] = user
	return user, nil
}

func (store *stubUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := store.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (store *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (store *stubUserStore) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	for _, user := range store.users {
		if user.GoogleID != "" && user.GoogleID == googleID {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (store *stubUserStore) Update(ctx context.Context, user *domain.User) error { return nil }

func (store *stubUserStore) AddSavedItem(ctx context.Context, userID, listingID primitive.ObjectID) error {
	return nil
}

func (store *stubUserStore) RemoveSavedItem(ctx context.Context, userID, listingID primitive.ObjectID) error {
	return nil
}

func (store *stubUserStore) AppendListing(ctx context.Context, vendorID, listingID primitive.ObjectID) error {
	return nil
}

func (store *stubUserStore) RemoveListing(ctx context.Context, vendorID, listingID primitive.ObjectID) error {
	return nil
}

func (store *stubUserStore) GetVendor(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (store *stubUserStore) GetVendors(ctx context.Context, status domain.VerificationStatus, skip, limit int64) ([]*domain.User, error) {
	return nil, nil
}

func (store *stubUserStore) CountVendors(ctx context.Context, status domain.VerificationStatus) (int64, error) {
	return 0, nil
}

func (store *stubUserStore) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	return 0, nil
}

func (store *stubUserStore) CountVendorsCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

type stubProvider struct {
	profile *domain.FederatedProfile
}

func (provider *stubProvider) Profile(ctx context.Context, code string) (*domain.FederatedProfile, error) {
	return provider.profile, nil
}

func newAuthRouter(t *testing.T) (*mux.Router, *stubUserStore) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	tracer := trace.NewNoopTracerProvider().Tracer("test")

	tokens, err := authorization.NewTokenManager([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	users := newStubUserStore()
	service := application.NewAuthService(users, tokens, logger, tracer)
	authenticate := authorization.Authenticate(tokens, users, logger)

	provider := &stubProvider{profile: &domain.FederatedProfile{
		ID:    "google-123",
		Email: "sso@example.com",
	}}

	handler := NewAuthHandler(service, provider, tokens, authenticate, false, logger, tracer)

	router := mux.NewRouter()
	handler.Init(router.PathPrefix("/api/auth").Subrouter())
	return router, users
}

func signupBody() *bytes.Buffer {
	body, _ := json.Marshal(map[string]interface{}{
		"fullName": map[string]string{"firstName": "Asha", "lastName": "Verma"},
		"email":    "asha@example.com",
		"password": "secret123",
	})
	return bytes.NewBuffer(body)
}

func TestSignupSetsSessionCookie(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/signup", signupBody()))

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&payload))
	assert.NotEmpty(t, payload["token"])
	assert.Equal(t, "User registered successfully", payload["message"])

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}

func TestSignupRejectsMissingFields(t *testing.T) {
	router, _ := newAuthRouter(t)

	body, _ := json.Marshal(map[string]interface{}{"email": "asha@example.com"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBuffer(body)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/signup", signupBody()))
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/signup", signupBody()))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/signup", signupBody()))
	require.Equal(t, http.StatusCreated, recorder.Code)

	body, _ := json.Marshal(map[string]string{"email": "asha@example.com", "password": "wrong"})
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(body)))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestMeRequiresCredential(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestMeReturnsAuthenticatedUser(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/signup", signupBody()))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&payload))
	token := payload["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var me map[string]map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&me))
	assert.Equal(t, "asha@example.com", me["user"]["email"])
}

func TestLogoutClearsCookie(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestGoogleCallback(t *testing.T) {
	router, users := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, users.users, 1)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
