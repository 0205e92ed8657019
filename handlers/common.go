package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/DaneshVerma/CitySettel/errors"
)

func jsonResponse(payload interface{}, writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

// createdResponse sets the Content-Type header before the 201 status so the
// header actually reaches the wire.
func createdResponse(payload interface{}, writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(writer).Encode(payload)
}

func messageResponse(writer http.ResponseWriter, status int, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{"message": message})
}

// internalError logs the underlying failure and answers with a generic body;
// store and logic errors are never echoed to clients.
func internalError(writer http.ResponseWriter, logger *logrus.Logger, err error) {
	logger.WithError(err).Error("request failed")
	messageResponse(writer, http.StatusInternalServerError, errors.InternalServerError)
}
