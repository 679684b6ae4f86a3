// internal/prismic/errors.go
//
// Error values returned by the Prismic client.
//
// Context
// -------
// Callers need to tell three situations apart:
//
//   - the repository or token is wrong (the operator must fix config),
//   - a document simply does not exist, and
//   - anything else went wrong upstream.
//
// `ErrNotFound` covers the second case.  Everything else is an `*Error`
// carrying the operation, HTTP status, and a short body excerpt.
// `IsConnectionError` answers the first question.
package prismic

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("prismic: document not found")

// ErrUntrustedPreview is returned when a preview token does not point at the
// configured repository.
var ErrUntrustedPreview = errors.New("prismic: preview token host does not match repository")

// Error describes a failed API call.  Status is zero when no HTTP response
// was received.
type Error struct {
	Op     string // "open", "query", "preview"
	URL    string // request URL without query string
	Status int
	Body   string // first bytes of the response body
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("prismic %s %s: status %d: %v", e.Op, e.URL, e.Status, e.Err)
	case e.Status != 0:
		if e.Body != "" {
			return fmt.Sprintf("prismic %s %s: status %d: %s", e.Op, e.URL, e.Status, e.Body)
		}
		return fmt.Sprintf("prismic %s %s: status %d", e.Op, e.URL, e.Status)
	default:
		return fmt.Sprintf("prismic %s %s: %v", e.Op, e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsConnectionError reports whether err means the repository could not be
// reached with the configured endpoint and token: a rejected token, an
// unknown repository, or a transport failure before any response.  A
// cancelled or expired context is not a connection error.
func IsConnectionError(err error) bool {
	var pe *Error
	if !errors.As(err, &pe) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch pe.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	case 0:
		var ue *url.Error
		var ne net.Error
		return errors.As(pe.Err, &ue) || errors.As(pe.Err, &ne)
	}
	return false
}

// excerpt trims a response body for inclusion in error messages.
func excerpt(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}
