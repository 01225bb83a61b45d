package comicvine

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned by NewClient when no key is supplied.
	ErrMissingAPIKey = errors.New("comicvine: missing API key")

	// ErrNotFound is returned by detail calls when the remote answers with an
	// empty result list.
	ErrNotFound = errors.New("comicvine: resource not found")
)

// APIError is the uniform failure of a remote call.
type APIError struct {
	// HTTP status, 0 when the request never got a response.
	StatusCode int
	// Comic Vine status_code from the body, 0 when absent.
	RemoteStatus int
	Message      string
	Err          error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Comic Vine API Error: %s", e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }
