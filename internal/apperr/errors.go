// Package apperr defines the error taxonomy shared by every layer.
// Handlers map these sentinels to HTTP status codes; everything else
// wraps them with fmt.Errorf("%w: ...").
package apperr

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrInternal       = errors.New("internal error")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnavailable    = errors.New("service unavailable")
)
