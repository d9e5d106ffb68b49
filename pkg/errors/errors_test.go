package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorString(t *testing.T) {
	withInner := &AppError{Code: "INTERNAL_ERROR", Message: "boom", Err: fmt.Errorf("redis down")}
	assert.Equal(t, "INTERNAL_ERROR: boom: redis down", withInner.Error())

	bare := &AppError{Code: "NOT_FOUND", Message: "item missing"}
	assert.Equal(t, "NOT_FOUND: item missing", bare.Error())
}

func TestConstructors_WrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		sentinel error
		status   int
		code     string
	}{
		{"not found", NotFound("item", "7"), ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invalid", InvalidInput("bad delta"), ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"unauthorized", Unauthorized("wrong passphrase"), ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"conflict", Conflict("checkout already submitted"), ErrConflict, http.StatusConflict, "CONFLICT"},
		{"unavailable", Unavailable("catalog writes disabled"), ErrServiceUnavail, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	assert.Equal(t, "item with id 42 not found", NotFound("item", "42").Message)
}

func TestInternal_HidesCause(t *testing.T) {
	cause := fmt.Errorf("pgx: connection reset")
	err := Internal(cause)
	assert.Equal(t, "an internal error occurred", err.Message)
	assert.True(t, errors.Is(err, cause))
}

func TestHTTPStatus_WrappedSentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("load: %w", ErrNotFound)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("parse: %w", ErrInvalidInput)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(fmt.Errorf("state: %w", ErrConflict)))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(fmt.Errorf("sink: %w", ErrServiceUnavail)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("plain")))
}
