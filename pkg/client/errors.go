package client

import "fmt"

// AuthorizationError reports a 401 or 403. It is never retried and
// always triggers a full rollback of the optimistic projection.
type AuthorizationError struct {
	StatusCode int
	Message    string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization failed (%d): %s", e.StatusCode, e.Message)
}

// TransientError reports a network failure, timeout or 5xx response.
// It is eligible for exactly one automatic retry.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient failure: %v", e.Err)
	}
	return fmt.Sprintf("transient failure: server returned %d", e.StatusCode)
}

func (e *TransientError) Unwrap() error { return e.Err }

// APIError reports any other non-2xx response (validation failures,
// not-found). No retry.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// StaleReadError reports a failed refresh for which the cache kept the
// last-known-good value; the caller received that value alongside.
type StaleReadError struct {
	Key Key
	Err error
}

func (e *StaleReadError) Error() string {
	return fmt.Sprintf("refresh of %s/%s failed, serving stale value: %v", e.Key.Kind, e.Key.Scope, e.Err)
}

func (e *StaleReadError) Unwrap() error { return e.Err }
