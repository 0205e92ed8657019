package handlers

import (
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

type ListingHandler struct {
	service      *application.ListingService
	authenticate func(http.Handler) http.Handler
	logger       *logrus.Logger
	tracer       trace.Tracer
}

func NewListingHandler(service *application.ListingService, authenticate func(http.Handler) http.Handler,
	logger *logrus.Logger, tracer trace.Tracer) *ListingHandler {
	return &ListingHandler{
		service:      service,
		authenticate: authenticate,
		logger:       logger,
		tracer:       tracer,
	}
}

func (handler *ListingHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetAll).Methods(http.MethodGet)
	router.Handle("", handler.authenticate(http.HandlerFunc(handler.Create))).Methods(http.MethodPost)
	router.Handle("/vendor/my-listings", handler.authenticate(http.HandlerFunc(handler.VendorListings))).Methods(http.MethodGet)
	router.HandleFunc("/{id}", handler.Get).Methods(http.MethodGet)
	router.Handle("/{id}", handler.authenticate(http.HandlerFunc(handler.Update))).Methods(http.MethodPut)
	router.Handle("/{id}", handler.authenticate(http.HandlerFunc(handler.Delete))).Methods(http.MethodDelete)
}

func (handler *ListingHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.GetAll")
	defer span.End()

	filter := domain.ParseListingFilter(req.URL.Query())
	listings, pagination, err := handler.service.Listings(ctx, filter)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"listings":   listings,
		"pagination": pagination,
	}, writer)
}

func (handler *ListingHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.Get")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		return
	}

	listing, err := handler.service.Listing(ctx, id)
	if err != nil {
		if err.Error() == errors.ListingNotFound {
			messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
			return
		}
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{"listing": listing}, writer)
}

func (handler *ListingHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.Create")
	defer span.End()

	vendor, ok := authorization.UserFromContext(req.Context())
	if !ok || !vendor.IsVendor() {
		messageResponse(writer, http.StatusForbidden, errors.VendorRoleRequired)
		return
	}

	var listing domain.Listing
	if err := listing.FromJSON(req.Body); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}
	if err := listing.Validate(); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.AllFieldsRequired)
		return
	}

	saved, err := handler.service.Create(ctx, vendor, &listing)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	createdResponse(map[string]interface{}{
		"message": "Listing created successfully",
		"listing": saved,
	}, writer)
}

func (handler *ListingHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.Update")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		return
	}

	payload, err := decodeMap(req)
	if err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}

	listing, err := handler.service.Update(ctx, id, payload)
	if err != nil {
		switch err.Error() {
		case errors.ListingNotFound:
			messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		case errors.InvalidRequestFormat:
			messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		default:
			internalError(writer, handler.logger, err)
		}
		return
	}

	jsonResponse(map[string]interface{}{
		"message": "Listing updated successfully",
		"listing": listing,
	}, writer)
}

func (handler *ListingHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.Delete")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		if err.Error() == errors.ListingNotFound {
			messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
			return
		}
		internalError(writer, handler.logger, err)
		return
	}

	messageResponse(writer, http.StatusOK, "Listing deleted successfully")
}

// VendorListings returns the caller's own listings, pending and rejected ones
// included.
func (handler *ListingHandler) VendorListings(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.VendorListings")
	defer span.End()

	vendor, ok := authorization.UserFromContext(req.Context())
	if !ok {
		messageResponse(writer, http.StatusUnauthorized, errors.Unauthorized)
		return
	}

	listings, err := handler.service.VendorListings(ctx, vendor)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	}, writer)
}
