// internal/middleware/requestid.go
//
// Request IDs.  An inbound X-Request-ID is kept when it looks sane,
// otherwise a UUIDv4 is minted.  The ID is echoed in the response header
// and bound to a request-scoped zap logger.

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/yanizio/storefront/internal/logger"
)

// HeaderRequestID is the header read and written by RequestID.
const HeaderRequestID = "X-Request-ID"

// RequestID assigns an ID and a request-scoped logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		ctx := logger.WithContext(r.Context(), logger.FromContext(r.Context()).With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
