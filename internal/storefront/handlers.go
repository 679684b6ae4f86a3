// internal/storefront/handlers.go
//
// Route handlers.  Each one fetches what its page needs, maps failures
// through the error taxonomy, and renders exactly once.  A missing
// product or category renders the 404 page and returns immediately; no
// related or member fetch runs for it.

package storefront

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/storefront/internal/logger"
	"github.com/yanizio/storefront/internal/metrics"
	"github.com/yanizio/storefront/internal/prismic"
)

// previewMaxAge is the lifetime of the preview cookie.
const previewMaxAge = 30 * time.Minute

var (
	isProduct   = prismic.At("document.type", "product")
	newestFirst = []prismic.Ordering{{Field: "my.product.date", Desc: true}}
)

// home lists every product, newest first.
func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.fail(w, r, &Error{Kind: KindValidation, Err: errors.New("invalid page parameter")})
			return
		}
		page = n
	}

	sess := FromContext(r.Context()).Session
	res, err := sess.Query(r.Context(), []prismic.Predicate{isProduct},
		prismic.QueryOptions{Orderings: newestFirst, Page: page})
	if err != nil {
		s.fail(w, r, &Error{Kind: KindUpstream, Err: err})
		return
	}

	p := s.newPage(r)
	p.Products = res.Results
	p.Pagination = res
	s.render(w, r, http.StatusOK, "listing", p)
}

// category lists the products linked from a category's "products" group.
// A category without that group falls back to the products that link back
// to it through their "categories" group.
func (s *Site) category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := FromContext(ctx).Session

	doc, err := sess.GetByUID(ctx, "category", chi.URLParam(r, "uid"))
	if err != nil {
		s.fail(w, r, classifyFetch(err))
		return
	}

	var products []prismic.Document
	if doc.Data.Has("products") {
		products, err = sess.GetByIDs(ctx, doc.Data.LinkIDs("products", "link"))
	} else {
		var res *prismic.Response
		res, err = sess.Query(ctx,
			[]prismic.Predicate{isProduct, prismic.At("my.product.categories.link", doc.ID)},
			prismic.QueryOptions{Orderings: newestFirst})
		if res != nil {
			products = res.Results
		}
	}
	if err != nil {
		s.fail(w, r, &Error{Kind: KindUpstream, Err: err})
		return
	}

	p := s.newPage(r)
	p.Doc = doc
	p.Products = products
	if name := doc.Data.Text("name"); name != "" {
		p.Head.SetTitle(name)
	}
	p.Head.Link("canonical", siteURL(r)+r.URL.Path)
	s.render(w, r, http.StatusOK, "listing", p)
}

// product renders one product with its related products.
func (s *Site) product(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := FromContext(ctx).Session

	doc, err := sess.GetByUID(ctx, "product", chi.URLParam(r, "uid"))
	if err != nil {
		s.fail(w, r, classifyFetch(err))
		return
	}

	related, err := sess.GetByIDs(ctx, doc.Data.LinkIDs("relatedProducts", "link"))
	if err != nil {
		s.fail(w, r, &Error{Kind: KindUpstream, Err: err})
		return
	}

	p := s.newPage(r)
	p.Doc = doc
	p.Products = related
	p.PageURL = pageURL(r)

	name := doc.Data.Text("product_name")
	if name != "" {
		p.Head.SetTitle(name)
	}
	desc := doc.Data.Text("sub_title")
	image := doc.Data.Image("product_image").URL
	p.Head.OpenGraph("product", name, desc, p.PageURL, image)
	p.Head.Link("canonical", siteURL(r)+r.URL.Path)
	if err := p.Head.JSONLD(productLD(doc, name, desc, image, p.PageURL)); err != nil {
		logger.FromContext(ctx).Warnw("product json-ld skipped", "uid", doc.UID, "err", err)
	}
	s.render(w, r, http.StatusOK, "product", p)
}

// preview exchanges a preview token for a path, stores the token in the
// preview cookie, and redirects.
func (s *Site) preview(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.fail(w, r, &Error{Kind: KindValidation, Err: errors.New("missing token parameter")})
		return
	}

	sess := FromContext(r.Context()).Session
	path, err := sess.ResolvePreview(r.Context(), token, LinkResolver, "/")
	if err != nil {
		s.fail(w, r, &Error{Kind: KindUpstream, Err: err})
		return
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		path = "/"
	}

	http.SetCookie(w, &http.Cookie{
		Name:    prismic.PreviewCookie,
		Value:   token,
		Path:    "/",
		MaxAge:  int(previewMaxAge.Seconds()),
		Expires: time.Now().Add(previewMaxAge),
	})
	metrics.PreviewSessionsTotal.Inc()
	http.Redirect(w, r, path, http.StatusFound)
	countResponse(r, http.StatusFound)
}

// notFound renders the 404 page for any unmatched path.
func (s *Site) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "404", s.newPage(r))
}

// pageURL is the absolute URL of r, honouring a TLS-terminating proxy.
func pageURL(r *http.Request) string {
	return siteURL(r) + r.URL.RequestURI()
}

// siteURL is scheme://host of the request.
func siteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// productLD is the schema.org Product block for a product page.  Empty
// values are left out.
func productLD(doc *prismic.Document, name, desc, image, url string) map[string]any {
	ld := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Product",
		"name":     name,
		"url":      url,
	}
	if desc != "" {
		ld["description"] = desc
	}
	if image != "" {
		ld["image"] = image
	}
	if price, ok := doc.Data.Number("price"); ok {
		ld["offers"] = map[string]any{
			"@type": "Offer",
			"price": strconv.FormatFloat(price, 'f', 2, 64),
			"url":   url,
		}
	}
	if pub, ok := doc.Published(); ok {
		ld["releaseDate"] = pub.Format("2006-01-02")
	}
	return ld
}
