package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/errors"
	application "github.com/DaneshVerma/CitySettel/service"
)

const maxUploadSize = 32 << 20

type ImageHandler struct {
	service      *application.ImageService
	authenticate func(http.Handler) http.Handler
	logger       *logrus.Logger
	tracer       trace.Tracer
}

func NewImageHandler(service *application.ImageService, authenticate func(http.Handler) http.Handler,
	logger *logrus.Logger, tracer trace.Tracer) *ImageHandler {
	return &ImageHandler{
		service:      service,
		authenticate: authenticate,
		logger:       logger,
		tracer:       tracer,
	}
}

func (handler *ImageHandler) Init(router *mux.Router) {
	router.Handle("/auth", handler.authenticate(http.HandlerFunc(handler.AuthParams))).Methods(http.MethodGet)
	router.Handle("/upload", handler.authenticate(http.HandlerFunc(handler.Upload))).Methods(http.MethodPost)
	router.Handle("/upload-multiple", handler.authenticate(http.HandlerFunc(handler.UploadMultiple))).Methods(http.MethodPost)
	router.Handle("/{fileId}", handler.authenticate(http.HandlerFunc(handler.Delete))).Methods(http.MethodDelete)
}

// AuthParams hands the SPA a short-lived signature for uploading straight to
// the asset host.
func (handler *ImageHandler) AuthParams(writer http.ResponseWriter, req *http.Request) {
	_, span := handler.tracer.Start(req.Context(), "ImageHandler.AuthParams")
	defer span.End()

	jsonResponse(handler.service.AuthenticationParameters(), writer)
}

func (handler *ImageHandler) Upload(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ImageHandler.Upload")
	defer span.End()

	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.NoFileUploaded)
		return
	}

	file, header, err := req.FormFile("image")
	if err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.NoFileUploaded)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	uploaded, err := handler.service.Upload(ctx, header.Filename, content)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"message": "Image uploaded successfully",
		"image":   uploaded,
	}, writer)
}

func (handler *ImageHandler) UploadMultiple(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ImageHandler.UploadMultiple")
	defer span.End()

	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		messageResponse(writer, http.StatusBadRequest, errors.NoFileUploaded)
		return
	}

	headers := req.MultipartForm.File["images"]
	if len(headers) == 0 {
		messageResponse(writer, http.StatusBadRequest, errors.NoFileUploaded)
		return
	}

	names := make([]string, 0, len(headers))
	files := make([][]byte, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			internalError(writer, handler.logger, err)
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			internalError(writer, handler.logger, err)
			return
		}
		names = append(names, header.Filename)
		files = append(files, content)
	}

	uploaded, err := handler.service.UploadMany(ctx, names, files)
	if err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	jsonResponse(map[string]interface{}{
		"message": "Images uploaded successfully",
		"images":  uploaded,
	}, writer)
}

func (handler *ImageHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ImageHandler.Delete")
	defer span.End()

	fileID := mux.Vars(req)["fileId"]
	if fileID == "" {
		messageResponse(writer, http.StatusBadRequest, errors.FileIDRequired)
		return
	}

	if err := handler.service.Delete(ctx, fileID); err != nil {
		internalError(writer, handler.logger, err)
		return
	}

	messageResponse(writer, http.StatusOK, "Image deleted successfully")
}
