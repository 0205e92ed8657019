package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
	application "github.com/DaneshVerma/CitySettel/service"
)

type ComboHandler struct {
	service      *application.ComboService
	authenticate func(http.Handler) http.Handler
	logger       *logrus.Logger
	tracer       trace.Tracer
}

func NewComboHandler(service *application.ComboService, authenticate func(http.Handler) http.Handler,
	logger *logrus.Logger, tracer trace.Tracer) *ComboHandler {
	return &ComboHandler{
		service:      service,
		authenticate: authenticate,
		logger:       logger,
		tracer:       tracer,
	}
}

func (handler *ComboHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetAll).Methods(http.MethodGet)
	router.Handle("", handler.authenticate(http.HandlerFunc(handler.Create))).Methods(http.MethodPost)
	router.HandleFunc("/{id}", handler.Get).Methods(http.MethodGet)
	router.Handle("/{id}", handler.authenticate(http.HandlerFunc(handler.Update))).Methods(http.MethodPut)
	router.Handle("/{id}", handler.authenticate(http.HandlerFunc(handler.Delete))).Methods(http.MethodDelete)
}

func (handler *ComboHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ComboHandler.GetAll")
	defer span.End()

	filter := domain.ParseListingFilter(req.URL.Query())
	combos, pagination, err := handler.service.Combos(ctx, filter)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"combos":     combos,
		"pagination": pagination,
	}, writer)
}

func (handler *ComboHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ComboHandler.Get")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ComboNotFound)
		return
	}

	combo, err := handler.service.Combo(ctx, id)
	if err != nil {
		if err.Error() == errors.ComboNotFound {
			messageResponse(writer, http.StatusNotFound, errors.ComboNotFound)
			return
		}
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{"combo": combo}, writer)
}

func (handler *ComboHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ComboHandler.Create")
	defer span.End()

	var combo domain.Combo
	if err := combo.FromJSON(req.Body); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}
	if err := combo.Validate(); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.AllFieldsRequired)
		return
	}

	saved, err := handler.service.Create(ctx, &combo)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	createdResponse(map[string]interface{}{
		"message": "Combo created successfully",
		"combo":   saved,
	}, writer)
}

func (handler *ComboHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ComboHandler.Update")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ComboNotFound)
		return
	}

	payload, err := decodeMap(req)
	if err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		return
	}

	combo, err := handler.service.Update(ctx, id, payload)
	if err != nil {
		switch err.Error() {
		case errors.ComboNotFound:
			messageResponse(writer, http.StatusNotFound, errors.ComboNotFound)
		case errors.InvalidRequestFormat:
			messageResponse(writer, http.StatusBadRequest, errors.InvalidRequestFormat)
		default:
			internalError(writer, handler.logger, err)
		}
		return
	}

	jsonResponse(map[string]interface{}{
		"message": "Combo updated successfully",
		"combo":   combo,
	}, writer)
}

func (handler *ComboHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ComboHandler.Delete")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		messageResponse(writer, http.StatusNotFound, errors.ComboNotFound)
		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		if err.Error() == errors.ComboNotFound {
			messageResponse(writer, http.StatusNotFound, errors.ComboNotFound)
			return
		}
		internalError(writer, handler.logger, err)
		return
	}

	messageResponse(writer, http.StatusOK, "Combo deleted successfully")
}
