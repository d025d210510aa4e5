package config

import (
	"encoding/json"
	"net/http"

	"github.com/saulo-duarte/learnpath/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		Log.WithError(err).Error("Failed to encode response")
	}
}

type errorBody struct {
	Error   apperr.Kind `json:"error"`
	Message string      `json:"message"`
}

// Error writes err using its taxonomy kind. Errors outside the taxonomy
// are logged and reported as internal.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		WithContext(r.Context()).WithError(err).Error("Unhandled error")
	}
	JSON(w, apperr.HTTPStatus(err), errorBody{Error: kind, Message: apperr.Message(err)})
}

func Binary(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		Log.WithError(err).Error("Failed to write binary response")
	}
}
