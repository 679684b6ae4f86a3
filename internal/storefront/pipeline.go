// internal/storefront/pipeline.go
//
// Session and layout stages of the request pipeline.

package storefront

import (
	"net/http"

	"github.com/yanizio/storefront/internal/prismic"
)

// session opens a CMS session bound to the preview cookie, if present.
// Open failures end the request: rejected credentials are reported as a
// configuration problem, anything else as an upstream error.
func (s *Site) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		previewRef := ""
		if c, err := r.Cookie(prismic.PreviewCookie); err == nil {
			previewRef = c.Value
		}

		sess, err := s.opener.Open(r.Context(), previewRef)
		if err != nil {
			s.fail(w, r, ClassifyOpen(err))
			return
		}
		ctx := withRequest(r.Context(), &Request{Session: sess})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// layout fetches the layout singleton.  No page is rendered without it.
func (s *Site) layout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := FromContext(r.Context())

		doc, err := req.Session.GetSingle(r.Context(), "layout")
		switch {
		case prismic.IsNotFound(err):
			s.fail(w, r, &Error{Kind: KindMissingLayout, Err: err})
			return
		case err != nil:
			s.fail(w, r, &Error{Kind: KindUpstream, Err: err})
			return
		}
		req.Layout = doc
		next.ServeHTTP(w, r)
	})
}
