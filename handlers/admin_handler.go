package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
	application "github.com/DaneshVerma/CitySettel/service"
)

type AdminHandler struct {
	service      *application.AdminService
	authenticate func(http.Handler) http.Handler
	logger       *logrus.Logger
	tracer       trace.Tracer
}

func NewAdminHandler(service *application.AdminService, authenticate func(http.Handler) http.Handler,
	logger *logrus.Logger, tracer trace.Tracer) *AdminHandler {
	return &AdminHandler{
		service:      service,
		authenticate: authenticate,
		logger:       logger,
		tracer:       tracer,
	}
}

func (handler *AdminHandler) Init(router *mux.Router) {
	router.Handle("/stats", handler.authenticate(http.HandlerFunc(handler.Stats))).Methods(http.MethodGet)
	router.Handle("/listings", handler.authenticate(http.HandlerFunc(handler.Listings))).Methods(http.MethodGet)
	router.Handle("/listings/pending", handler.authenticate(http.HandlerFunc(handler.PendingListings))).Methods(http.MethodGet)
	router.Handle("/listings/{id}/approve", handler.authenticate(http.HandlerFunc(handler.ApproveListing))).Methods(http.MethodPut)
	router.Handle("/listings/{id}/reject", handler.authenticate(http.HandlerFunc(handler.RejectListing))).Methods(http.MethodPut)
	router.Handle("/vendors", handler.authenticate(http.HandlerFunc(handler.Vendors))).Methods(http.MethodGet)
	router.Handle("/vendors/{id}/verify", handler.authenticate(http.HandlerFunc(handler.VerifyVendor))).Methods(http.MethodPut)
	router.Handle("/vendors/{id}/reject", handler.authenticate(http.HandlerFunc(handler.RejectVendor))).Methods(http.MethodPut)
}

func (handler *AdminHandler) PendingListings(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.PendingListings")
	defer span.End()

	filter := domain.ParseAdminListingFilter(req.URL.Query())
	listings, pagination, err := handler.service.PendingListings(ctx, filter.Page, filter.Limit)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"listings":   listings,
		"pagination": pagination,
	}, writer)
}

func (handler *AdminHandler) Listings(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.Listings")
	defer span.End()

	filter := domain.ParseAdminListingFilter(req.URL.Query())
	listings, stats, pagination, err := handler.service.AllListings(ctx, filter)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"listings":   listings,
		"stats":      stats,
		"pagination": pagination,
	}, writer)
}

func (handler *AdminHandler) ApproveListing(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.ApproveListing")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		return
	}

	listing, err := handler.service.ApproveListing(ctx, id)
	if err != nil {
		if err.Error() == errors.ListingNotFound {
			messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
			return
		}
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"message": "Listing approved successfully",
		"listing": listing,
	}, writer)
}

func (handler *AdminHandler) RejectListing(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.RejectListing")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		return
	}

	var request domain.RejectListingRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}

	listing, err := handler.service.RejectListing(ctx, id, request.Reason)
	if err != nil {
		switch err.Error() {
		case errors.ListingNotFound:
			messageResponse(writer, http.StatusNotFound, errors.ListingNotFound)
		case errors.RejectionReasonMissing:
			messageResponse(writer, http.StatusBadRequest, errors.RejectionReasonMissing)
		default:
			internalError(writer, handler.logger, err)
		}
		return
	}

	jsonResponse(map[string]interface{}{
		"message": "Listing rejected",
		"listing": listing,
	}, writer)
}

func (handler *AdminHandler) Vendors(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.Vendors")
	defer span.End()

	filter := domain.ParseAdminListingFilter(req.URL.Query())
	status := domain.VerificationStatus(req.URL.Query().Get("status"))

	vendors, stats, pagination, err := handler.service.Vendors(ctx, status, filter.Page, filter.Limit)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"vendors":    vendors,
		"stats":      stats,
		"pagination": pagination,
	}, writer)
}

func (handler *AdminHandler) VerifyVendor(writer http.ResponseWriter, req *http.Request) {
	handler.setVendorStatus(writer, req, "AdminHandler.VerifyVendor", handler.service.VerifyVendor, "Vendor verified successfully")
}

func (handler *AdminHandler) RejectVendor(writer http.ResponseWriter, req *http.Request) {
	handler.setVendorStatus(writer, req, "AdminHandler.RejectVendor", handler.service.RejectVendor, "Vendor rejected")
}

func (handler *AdminHandler) setVendorStatus(writer http.ResponseWriter, req *http.Request, spanName string,
	update func(ctx context.Context, id primitive.ObjectID) (*domain.User, error), message string) {
	ctx, span := handler.tracer.Start(req.Context(), spanName)
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.VendorNotFound)
		return
	}

	vendor, err := update(ctx, id)
	if err != nil {
		if err.Error() == errors.VendorNotFound {
			messageResponse(writer, http.StatusNotFound, errors.VendorNotFound)
			return
		}
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"message": message,
		"vendor":  vendor,
	}, writer)
}

func (handler *AdminHandler) Stats(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.Stats")
	defer span.End()

	stats, err := handler.service.Stats(ctx)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{"stats": stats}, writer)
}
