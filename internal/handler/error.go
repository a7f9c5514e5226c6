package handler

import (
	"log/slog"
	"net/http"

	"github.com/hollowaybooks/folio/internal/domain"
)

// ErrorCodeToHTTPStatus maps application error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFUNDS:
		return http.StatusPaymentRequired
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT, domain.ESTATE, domain.ESTOCK:
		return http.StatusConflict
	case domain.EGATEWAY:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// ErrorResponse writes err as a JSON error envelope. Internal errors are
// logged with their cause but reported to the client without details.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)

	if code == domain.EINTERNAL {
		slog.Default().Error("internal error",
			"error", err,
			"op", domain.ErrorOp(err),
			"path", r.URL.Path,
			"request_id", domain.RequestIDFromContext(r.Context()),
		)
		message = "Internal server error"
	}

	RespondJSON(w, ErrorCodeToHTTPStatus(code), errorEnvelope{
		Error: errorBody{Code: code, Message: message},
	})
}
