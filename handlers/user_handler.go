package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/authorization"
	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
	application "github.com/DaneshVerma/CitySettel/service"
)

type UserHandler struct {
	service      *application.UserService
	authenticate func(http.Handler) http.Handler
	logger       *logrus.Logger
	tracer       trace.Tracer
}

func NewUserHandler(service *application.UserService, authenticate func(http.Handler) http.Handler,
	logger *logrus.Logger, tracer trace.Tracer) *UserHandler {
	return &UserHandler{
		service:      service,
		authenticate: authenticate,
		logger:       logger,
		tracer:       tracer,
	}
}

func (handler *UserHandler) Init(router *mux.Router) {
	router.Handle("/profile", handler.authenticate(http.HandlerFunc(handler.Profile))).Methods(http.MethodGet)
	router.Handle("/profile", handler.authenticate(http.HandlerFunc(handler.UpdateProfile))).Methods(http.MethodPut)
	router.Handle("/saved", handler.authenticate(http.HandlerFunc(handler.SavedListings))).Methods(http.MethodGet)
	router.Handle("/saved", handler.authenticate(http.HandlerFunc(handler.SaveListing))).Methods(http.MethodPost)
	router.Handle("/saved/{listingId}", handler.authenticate(http.HandlerFunc(handler.UnsaveListing))).Methods(http.MethodDelete)
}

// Profile returns the account together with the dereferenced saved listings.
func (handler *UserHandler) Profile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.Profile")
	defer span.End()

	user, ok := authorization.UserFromContext(req.Context())
	if !ok {
		messageResponse(writer, http.StatusUnauthorized, errors.Unauthorized)
		return
	}

	saved, err := handler.service.Profile(ctx, user)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"user":          user,
		"savedListings": saved,
	}, writer)
}

func (handler *UserHandler) UpdateProfile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.UpdateProfile")
	defer span.End()

	user, ok := authorization.UserFromContext(req.Context())
	if !ok {
		messageResponse(writer, http.StatusUnauthorized, errors.Unauthorized)
		return
	}

	payload, err := decodeMap(req)
	if err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}

	updated, err := handler.service.UpdateProfile(ctx, user, payload)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    updated,
	}, writer)
}

func (handler *UserHandler) SaveListing(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.SaveListing")
	defer span.End()

	user, ok := authorization.UserFromContext(req.Context())
	if !ok {
		messageResponse(writer, http.StatusUnauthorized, errors.Unauthorized)
		return
	}

	var request domain.SaveListingRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil || request.ListingID == "" {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}

	listingID, err := primitive.ObjectIDFromHex(request.ListingID)
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		return
	}

	savedItems, err := handler.service.SaveListing(ctx, user, listingID)
	if err != nil {
		switch err.Error() {
		case errors.ListingNotFound:
			messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		case errors.ListingAlreadySaved:
			messageResponse(writer, http.StatusBadRequest, errors.ListingAlreadySaved)
		default:
			internalError(writer, handler.logger, err)
		}
		return
	}

	jsonResponse(map[string]interface{}{
		"message":    "Listing saved successfully",
		"savedItems": savedItems,
	}, writer)
}

func (handler *UserHandler) UnsaveListing(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.UnsaveListing")
	defer span.End()

	user, ok := authorization.UserFromContext(req.Context())
	if !ok {
		messageResponse(writer, http.StatusUnauthorized, errors.Unauthorized)
		return
	}

	listingID, err := primitive.ObjectIDFromHex(mux.Vars(req)["listingId"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		return
	}

	savedItems, err := handler.service.UnsaveListing(ctx, user, listingID)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"message":    "Listing removed from saved",
		"savedItems": savedItems,
	}, writer)
}

func (handler *UserHandler) SavedListings(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.SavedListings")
	defer span.End()

	user, ok := authorization.UserFromContext(req.Context())
	if !ok {
		messageResponse(writer, http.StatusUnauthorized, errors.Unauthorized)
		return
	}

	saved, err := handler.service.SavedListings(ctx, user)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"savedListings": saved,
		"count":         len(saved),
	}, writer)
}
