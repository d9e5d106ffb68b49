// Package httputil writes the storefront's {"data","error"} JSON envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
	"github.com/VedantYeola/Wear-Story/pkg/logger"
	"github.com/VedantYeola/Wear-Story/pkg/validator"
)

// Response is the envelope every API response uses.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v with status. Encoding errors are dropped since the
// header is already out.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps data in the envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Response{Data: data})
}

// WriteError maps err onto a status and envelope. Validation failures carry
// per-field messages; unclassified errors are logged and hidden behind a
// generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	l := logger.FromContext(r.Context())
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{Error: &ErrorResponse{
			Code:      "VALIDATION_ERROR",
			Message:   "request validation failed",
			Fields:    valErr.Fields(),
			RequestID: requestID,
		}})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			l.ErrorContext(r.Context(), "request failed",
				slog.String("code", appErr.Code),
				slog.String("error", err.Error()),
				slog.String("path", r.URL.Path),
			)
		}
		WriteJSON(w, appErr.Status, Response{Error: &ErrorResponse{
			Code: appErr.Code, Message: appErr.Message, RequestID: requestID,
		}})
		return
	}

	status := apperrors.HTTPStatus(err)
	code, message := "INTERNAL_ERROR", "an internal error occurred"
	switch status {
	case http.StatusNotFound:
		code, message = "NOT_FOUND", "resource not found"
	case http.StatusBadRequest:
		code, message = "INVALID_INPUT", err.Error()
	case http.StatusConflict:
		code, message = "CONFLICT", err.Error()
	default:
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
	WriteJSON(w, status, Response{Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID}})
}
