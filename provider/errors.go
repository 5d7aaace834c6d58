package provider

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrNoAccount is returned when no credentials are configured.
	ErrNoAccount = errors.New("no account credentials found")

	// ErrUnauthorized is returned when the service rejects the token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrJobNotFound is returned when a job id does not exist in the project.
	ErrJobNotFound = errors.New("job not found")

	// ErrRequestFailed is returned for any other unsuccessful response.
	ErrRequestFailed = errors.New("request failed")

	// ErrNoActiveProvider is returned by Active when no provider was activated.
	ErrNoActiveProvider = errors.New("no active provider")
)

// statusError maps an HTTP response status to a categorised error.
func statusError(method, path string, status int) error {
	msg := fmt.Sprintf("%s %s: %d %s", method, path, status, http.StatusText(status))

	var sentinel error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = ErrUnauthorized
	case http.StatusNotFound:
		sentinel = ErrJobNotFound
	default:
		sentinel = ErrRequestFailed
	}

	category := goerrors.HTTPStatusToCategory(status)
	if status >= http.StatusInternalServerError {
		category = goerrors.CategoryExternal
	}

	return goerrors.Wrap(sentinel, category, msg).
		WithCode(status).
		WithTextCode(goerrors.HTTPStatusToTextCode(status))
}
