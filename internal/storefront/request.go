// internal/storefront/request.go
//
// Per-request pipeline state.  One *Request is built by the session
// middleware, completed by the layout middleware, and read by handlers.
// It never outlives the request and is never shared across goroutines.

package storefront

import (
	"context"

	"github.com/yanizio/storefront/internal/prismic"
)

// Request carries the content session and the layout singleton.
type Request struct {
	Session Session
	Layout  *prismic.Document
}

type reqKey struct{}

func withRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, reqKey{}, r)
}

// FromContext returns the pipeline state, or nil outside the pipeline.
func FromContext(ctx context.Context) *Request {
	r, _ := ctx.Value(reqKey{}).(*Request)
	return r
}
