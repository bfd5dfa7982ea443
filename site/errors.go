package site

import "errors"

var (
	// ErrNoContent signals that the content directory holds no markdown pages.
	ErrNoContent = errors.New("content directory has no markdown pages")
	// ErrUnknownLocale is returned when a caller asks for a locale that is not configured.
	ErrUnknownLocale = errors.New("unknown locale")
	// ErrDuplicateRoute is returned when two content files resolve to the same route id.
	ErrDuplicateRoute = errors.New("duplicate route")
)
