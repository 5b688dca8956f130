package gateway

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is surfaced when an authorization failure survives the
// single refresh-and-retry cycle. The session has been cleared and the
// logout hook fired by the time a caller sees it.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response from the HR API, passed through to the
// caller unmodified. The gateway performs no retries for these.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}
