package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable indicates a provider is down or unreachable.
type ErrUnavailable struct {
	Provider string
	Err      error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("provider %s unavailable", e.Provider)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrEmptyResponse indicates a provider returned no usable content.
type ErrEmptyResponse struct {
	Provider string
}

func (e *ErrEmptyResponse) Error() string {
	return fmt.Sprintf("provider %s returned an empty response", e.Provider)
}

// IsTimeout reports whether err represents a call that exceeded its
// deadline. Timeouts are treated as provider failures and trigger the
// fallback path, not a session-level abort.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
