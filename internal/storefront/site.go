// internal/storefront/site.go
//
// Storefront HTTP surface.
//
/*
Context
--------
Site owns the chi router.  Page routes run inside one group whose
middleware implements the per-request state machine:

  SessionPending   session()  opens a CMS session (preview cookie aware)
  LayoutPending    layout()   fetches the "layout" singleton
  RouteDispatch    chi        home, category, product, preview, catch-all
  Rendering        render()   executes the theme into a buffer
  Responded/Failed            exactly one response per request

Static theme assets are served under /assets/ outside the group and never
touch the CMS.

Routes
------
  GET /                 listing of products, newest first (?page=N)
  GET /category/{uid}   listing of the category's linked products
  GET /product/{uid}    product detail plus related products
  GET /preview?token=   preview bridge (cookie + 302)
  GET /*                not-found page
*/
package storefront

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/storefront/internal/theme"
)

// Renderer executes a named page template.
type Renderer interface {
	Render(page string, data any) ([]byte, error)
	Has(page string) bool
}

// Site wires the pipeline to a content Opener and a theme.
type Site struct {
	opener   Opener
	pages    Renderer
	assets   string
	settings Settings
}

// New returns a Site rendering with th.
func New(opener Opener, th *theme.Theme, settings Settings) *Site {
	return &Site{
		opener:   opener,
		pages:    th,
		assets:   th.AssetsDir(),
		settings: settings,
	}
}

// Routes returns the storefront handler.
func (s *Site) Routes() http.Handler {
	r := chi.NewRouter()

	if s.assets != "" {
		fs := http.StripPrefix(theme.AssetPrefix, http.FileServer(http.Dir(s.assets)))
		r.Handle(theme.AssetPrefix+"*", fs)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.session, s.layout)

		r.Get("/", s.home)
		r.Get("/category/{uid}", s.category)
		r.Get("/product/{uid}", s.product)
		r.Get("/preview", s.preview)
		r.Get("/*", s.notFound)
	})
	return r
}
