package apperrors

import (
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")

	ErrListingNotFound = errors.New("listing not found or not public")

	ErrInvalidPagination = errors.New("pagination parameters out of range")

	// Returned when the data store is unreachable or refuses the query.
	// Callers must treat it as temporary and never expose store details.
	ErrStoreUnavailable = errors.New("data store unavailable")
)
