// internal/storefront/render.go
//
// Page data, rendering, and failure responses.

package storefront

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/storefront/internal/head"
	"github.com/yanizio/storefront/internal/logger"
	"github.com/yanizio/storefront/internal/metrics"
	"github.com/yanizio/storefront/internal/prismic"
)

const previewToolbar = "https://static.cdn.prismic.io/prismic.js"

// Page is the template context.  Settings and Layout are present on every
// rendered page; the rest depends on the route.
type Page struct {
	Settings Settings
	Layout   *prismic.Document
	Head     *head.Builder
	Preview  bool

	Doc        *prismic.Document  // product or category
	Products   []prismic.Document // listing results or related products
	Pagination *prismic.Response  // home listing only
	PageURL    string             // absolute URL of this page
}

// newPage starts a template context from the pipeline state.
func (s *Site) newPage(r *http.Request) *Page {
	p := &Page{Settings: s.settings, Head: head.New()}
	if req := FromContext(r.Context()); req != nil {
		p.Layout = req.Layout
		p.Preview = req.Session.InPreview()
		if req.Layout != nil {
			p.Head.SetTitle(req.Layout.Data.Text("site_name"))
		}
	}
	if p.Preview {
		p.Head.Script(previewToolbar)
	}
	return p
}

// render writes page with status.  The template runs into a buffer first,
// so a render error still yields a clean 500.
func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, page string, p *Page) {
	body, err := s.pages.Render(page, p)
	if err != nil {
		logger.FromContext(r.Context()).Errorw("render failed", "page", page, "err", err)
		s.plain(w, r, http.StatusInternalServerError, msgUpstream+"template error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
	countResponse(r, status)
}

// fail ends the request for e.  NotFound renders the theme's 404 page when
// the theme has one; every other kind is a plain-text body.
func (s *Site) fail(w http.ResponseWriter, r *http.Request, e *Error) {
	log := logger.FromContext(r.Context())
	switch e.Kind {
	case KindNotFound, KindValidation:
		log.Debugw("request rejected", "kind", e.Kind.String(), "err", e.Err)
	default:
		log.Errorw("request failed", "kind", e.Kind.String(), "err", e.Err)
	}

	if e.Kind == KindNotFound && FromContext(r.Context()) != nil && s.pages.Has("404") {
		s.render(w, r, http.StatusNotFound, "404", s.newPage(r))
		return
	}
	s.plain(w, r, e.Status(), e.Message())
}

func (s *Site) plain(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
	countResponse(r, status)
}

func countResponse(r *http.Request, status int) {
	route := "unmatched"
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		route = rc.RoutePattern()
	}
	metrics.PageResponsesTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
