package broker

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx brokerage response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("broker http %d: %s", e.Code, e.Body)
}

// Transient reports whether the failure is worth retrying: server-side
// errors and throttling. 4xx responses other than 429 are rejections.
func (e *StatusError) Transient() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// IsTransient classifies an error from a brokerage call. Network-level
// failures (no StatusError in the chain) are treated as transient.
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}
	return err != nil
}
