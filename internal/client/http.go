package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/resumefit/internal/model"
)

// maxErrorBody bounds how much of a failed response is read for diagnostics.
const maxErrorBody = 4 << 10

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// serviceError is the body the analysis service sends alongside 4xx/5xx.
type serviceError struct {
	Error string `json:"error"`
}

// httpError builds an HTTPError from a non-2xx response, keeping the
// service's error detail for logs.
func httpError(resp *http.Response) *model.HTTPError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	detail := strings.TrimSpace(string(body))
	var se serviceError
	if err := json.Unmarshal(body, &se); err == nil && se.Error != "" {
		detail = se.Error
	}

	herr := &model.HTTPError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
	if detail != "" {
		herr.Err = errors.New(detail)
	}
	return herr
}
