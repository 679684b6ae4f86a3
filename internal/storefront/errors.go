// internal/storefront/errors.go
//
// Pipeline error taxonomy.  Every failure a handler or middleware sees is
// mapped to exactly one Kind, and each Kind has one status and one
// client-facing message.

package storefront

import (
	"net/http"

	"github.com/yanizio/storefront/internal/prismic"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	KindConfiguration Kind = iota + 1 // endpoint or token rejected
	KindUpstream                      // any other CMS failure
	KindNotFound                      // requested document absent
	KindMissingLayout                 // layout singleton absent
	KindValidation                    // bad request parameters
)

// Client-facing messages.
const (
	msgConfiguration = "There was a problem connecting to your API, please check your configuration file for errors."
	msgMissingLayout = "No Layout document was found."
	msgUpstream      = "Error 500: "
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	case KindNotFound:
		return "not_found"
	case KindMissingLayout:
		return "missing_layout"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Status is the HTTP status for e.
func (e *Error) Status() int {
	switch e.Kind {
	case KindConfiguration, KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message is the plain-text body sent for e.  NotFound is rendered with
// the theme instead.
func (e *Error) Message() string {
	switch e.Kind {
	case KindConfiguration:
		return msgConfiguration
	case KindMissingLayout:
		return msgMissingLayout
	case KindValidation:
		if e.Err != nil {
			return e.Err.Error()
		}
		return http.StatusText(http.StatusBadRequest)
	case KindNotFound:
		return http.StatusText(http.StatusNotFound)
	default:
		if e.Err != nil {
			return msgUpstream + e.Err.Error()
		}
		return msgUpstream + http.StatusText(http.StatusInternalServerError)
	}
}

// ClassifyOpen maps a session-open failure to Configuration or Upstream.
func ClassifyOpen(err error) *Error {
	if prismic.IsConnectionError(err) {
		return &Error{Kind: KindConfiguration, Err: err}
	}
	return &Error{Kind: KindUpstream, Err: err}
}

// classifyFetch maps a document lookup failure.
func classifyFetch(err error) *Error {
	if prismic.IsNotFound(err) {
		return &Error{Kind: KindNotFound, Err: err}
	}
	return &Error{Kind: KindUpstream, Err: err}
}

