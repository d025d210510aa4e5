package config

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
)

var validate = validator.New()

// Decode reads a JSON body into dst and runs its `validate` tags.
// An empty body is accepted so every field falls back to its zero value.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.ValidationFailed, "invalid request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		return apperr.Wrap(apperr.ValidationFailed, "invalid request body", err)
	}
	return nil
}

// PathUUID parses the named chi URL parameter as a uuid.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.ValidationFailed, "invalid "+name, err)
	}
	return id, nil
}
