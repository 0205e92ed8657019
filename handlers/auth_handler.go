package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/authorization"
	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
	application "github.com/DaneshVerma/CitySettel/service"
)

const sessionCookie = "token"

type AuthHandler struct {
	service      *application.AuthService
	provider     application.FederatedProvider
	tokens       *authorization.TokenManager
	authenticate func(http.Handler) http.Handler
	secureCookie bool
	logger       *logrus.Logger
	tracer       trace.Tracer
}

func NewAuthHandler(service *application.AuthService, provider application.FederatedProvider, tokens *authorization.TokenManager,
	authenticate func(http.Handler) http.Handler, secureCookie bool, logger *logrus.Logger, tracer trace.Tracer) *AuthHandler {
	return &AuthHandler{
		service:      service,
		provider:     provider,
		tokens:       tokens,
		authenticate: authenticate,
		secureCookie: secureCookie,
		logger:       logger,
		tracer:       tracer,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/signup", handler.Signup).Methods(http.MethodPost)
	router.HandleFunc("/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", handler.Logout).Methods(http.MethodPost)
	router.HandleFunc("/google/callback", handler.GoogleCallback).Methods(http.MethodGet)
	router.Handle("/me", handler.authenticate(http.HandlerFunc(handler.Me))).Methods(http.MethodGet)
}

func (handler *AuthHandler) Signup(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Signup")
	defer span.End()

	var request domain.SignupRequest
	if err := request.FromJSON(req.Body); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}
	if err := request.Validate(); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.AllFieldsRequired)
		return
	}

	user, token, err := handler.service.Register(ctx, &request)
	if err != nil {
		if err.Error() == errors.UserAlreadyExists {
			messageResponse(writer, http.StatusBadRequest, errors.UserAlreadyExists)
			return
		}
		internalError(writer, handler.logger, err)
		return
	}

	handler.setSession(writer, token)
	createdResponse(map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	}, writer)
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var request domain.LoginRequest
	if err := request.FromJSON(req.Body); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}
	if err := request.Validate(); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.AllFieldsRequired)
		return
	}

	user, token, err := handler.service.Login(ctx, request.Email, request.Password)
	if err != nil {
		if err.Error() == errors.InvalidCredentials {
			messageResponse(writer, http.StatusUnauthorized, errors.InvalidCredentials)
			return
		}
		internalError(writer, handler.logger, err)
		return
	}

	handler.setSession(writer, token)
	jsonResponse(map[string]interface{}{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	}, writer)
}

// Me echoes the identity resolved by the authentication middleware.
func (handler *AuthHandler) Me(writer http.ResponseWriter, req *http.Request) {
	_, span := handler.tracer.Start(req.Context(), "AuthHandler.Me")
	defer span.End()

	user, ok := authorization.UserFromContext(req.Context())
	if !ok {
		messageResponse(writer, http.StatusUnauthorized, errors.Unauthorized)
		return
	}
	jsonResponse(map[string]interface{}{"user": user}, writer)
}

func (handler *AuthHandler) Logout(writer http.ResponseWriter, req *http.Request) {
	_, span := handler.tracer.Start(req.Context(), "AuthHandler.Logout")
	defer span.End()

	handler.clearSession(writer)
	messageResponse(writer, http.StatusOK, "Logged out successfully")
}

// GoogleCallback completes the provider redirect: the authorization code is
// traded for a profile and the profile logged in or registered.
func (handler *AuthHandler) GoogleCallback(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.GoogleCallback")
	defer span.End()

	code := req.URL.Query().Get("code")
	if code == "" {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}

	profile, err := handler.provider.Profile(ctx, code)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	user, token, err := handler.service.FederatedLogin(ctx, profile)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	handler.setSession(writer, token)
	jsonResponse(map[string]interface{}{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	}, writer)
}

func (handler *AuthHandler) setSession(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(handler.tokens.Lifetime().Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (handler *AuthHandler) clearSession(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func decodeMap(req *http.Request) (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}
