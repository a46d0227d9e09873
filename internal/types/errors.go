package types

import "fmt"

// AuthError means the exchange of the static API token for a bearer token
// failed. The whole fetch chain that needed the token fails with it; there is
// no retry beyond the single refresh attempt per call.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamError is a non-2xx reply from the remote project-management API.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream: %d %s", e.Status, e.Message)
}

// QueryError wraps a database or connection failure. Surfaced to callers as a
// generic server error; the wrapped detail stays in the server log.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ValidationError is a client mistake, a missing or malformed request
// parameter. Maps to 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing required parameter %q", e.Field)
	}
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}
