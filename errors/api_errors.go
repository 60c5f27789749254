// Package errors defines the client-side error taxonomy for the SkillNet
// API: transport failures, HTTP failures, session expiry, and the profile
// update failure surfaced after an optimistic local write.
package errors

import "fmt"

// NetworkError means no response reached the server. It is terminal for the
// request; the client never retries transport failures.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetworkError wraps a transport-level failure.
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

// HTTPError means the server responded with a non-2xx status.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// NewHTTPError builds an HTTPError from a decoded response.
func NewHTTPError(status int, body string) *HTTPError {
	return &HTTPError{Status: status, Body: body}
}

// AuthError means the session is no longer usable: a 401 that survived the
// refresh attempt, or a 403. The transport has already cleared local session
// state and fired the auth-expired hook by the time callers see this.
type AuthError struct {
	Status int
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%d): %s", e.Status, e.Reason)
}

// NewAuthError builds an AuthError for a dead session.
func NewAuthError(status int, reason string) *AuthError {
	return &AuthError{Status: status, Reason: reason}
}

// ProfileUpdateError means a profile write failed after the optimistic local
// merge was already applied. Callers are expected to offer a retry.
type ProfileUpdateError struct {
	Err error
}

func (e *ProfileUpdateError) Error() string {
	return fmt.Sprintf("profile update failed: %v", e.Err)
}

func (e *ProfileUpdateError) Unwrap() error { return e.Err }

// NewProfileUpdateError wraps a failed remote profile write.
func NewProfileUpdateError(err error) *ProfileUpdateError {
	return &ProfileUpdateError{Err: err}
}
