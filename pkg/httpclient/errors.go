package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

// apiErrorBody is the error envelope Google-style JSON APIs return.
type apiErrorBody struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ParseResponseError consumes and closes a non-2xx response body and maps
// it onto an AppError.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", upstream, resp.StatusCode, err)
	}

	message := string(raw)
	var body apiErrorBody
	if json.Unmarshal(raw, &body) == nil && body.Error != nil {
		message = body.Error.Message
	}
	qualified := fmt.Sprintf("%s: %s", upstream, message)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperrors.Unauthorized(qualified)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(upstream, message)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualified)
	default:
		return fmt.Errorf("%s returned status %d: %s", upstream, resp.StatusCode, message)
	}
}
