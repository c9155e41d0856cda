package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/google/uuid"
)

// DecodeJSON reads a JSON request body into dst. Unknown fields are
// rejected. An empty body leaves dst untouched when allowEmpty is set.
func DecodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	const op = "request.decode"

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF) && allowEmpty:
			return nil
		case errors.Is(err, io.EOF):
			return domain.Invalid(op, "request body is required")
		case errors.As(err, &maxErr):
			return domain.Errorf(domain.ETOOLARGE, op, "request body too large")
		default:
			return domain.Invalid(op, "invalid JSON body: "+err.Error())
		}
	}
	return nil
}

// PathUUID parses a path parameter as a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("request.path", name, "must be a valid UUID")
	}
	return id, nil
}
