// Package handler provides the JSON plumbing shared by the API surfaces:
// response envelopes, error mapping, and request decoding with validation.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hollowaybooks/folio/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// DecodeJSON decodes and validates a request body into dst. dst must be a
// pointer to a struct with validate tags.
func DecodeJSON(r *http.Request, dst any) error {
	const op = "handler.DecodeJSON"

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid(op, "request body is required")
		}
		return domain.Invalid(op, "invalid JSON: "+err.Error())
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return domain.Invalid(op, fmt.Sprintf("field %s failed on %s", f.Field(), f.Tag()))
		}
		return domain.Invalid(op, "validation failed")
	}
	return nil
}
