package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yanizio/storefront/internal/config"
	"github.com/yanizio/storefront/internal/prismic"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func get(t *testing.T, s *Site, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

/*──────────────────────────── link resolver ───────────────────────────────*/

func TestLinkResolver(t *testing.T) {
	cases := []struct{ typ, uid, want string }{
		{"category", "shoes", "/category/shoes"},
		{"product", "blue shirt", "/product/blue%20shirt"},
		{"product", "a/b", "/product/a%2Fb"},
		{"layout", "x", "/"},
		{"", "", "/"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LinkResolver(c.typ, c.uid))
		assert.Equal(t, LinkResolver(c.typ, c.uid), LinkResolver(c.typ, c.uid))
	}
}

func TestSettingsFromLeavesTokenOut(t *testing.T) {
	cfg := &config.Config{
		Prismic:  config.Prismic{Endpoint: "https://shop.cdn.prismic.io/api/v2", AccessToken: "cms-secret"},
		Snipcart: config.Snipcart{Key: "pk"},
	}
	got := SettingsFrom(cfg)

	assert.Equal(t, Settings{Endpoint: "https://shop.cdn.prismic.io/api/v2", SnipcartKey: "pk"}, got)
	assert.NotContains(t, fmt.Sprintf("%+v", got), "cms-secret")
}

/*──────────────────────────── home ────────────────────────────────────────*/

func TestHomeQueriesProductsNewestFirst(t *testing.T) {
	cms := newFakeCMS()
	cms.queryRes = &prismic.Response{Page: 1, Results: []prismic.Document{
		{ID: "p2", Type: "product"}, {ID: "p1", Type: "product"},
	}}

	rec := get(t, newTestSite(t, cms), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LAYOUT[main-layout]LISTING[p2][p1]", rec.Body.String())
	require.Len(t, cms.queries, 1)
	assert.Equal(t, `[[at(document.type, "product")]]`, cms.queries[0].Q)
	assert.Equal(t, []prismic.Ordering{{Field: "my.product.date", Desc: true}}, cms.queries[0].Opts.Orderings)
	assert.Equal(t, 1, cms.queries[0].Opts.Page)
}

func TestHomePageParameter(t *testing.T) {
	cms := newFakeCMS()
	s := newTestSite(t, cms)

	rec := get(t, s, "/?page=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, cms.queries[0].Opts.Page)

	for _, bad := range []string{"0", "-1", "two"} {
		rec = get(t, s, "/?page="+bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
	assert.Len(t, cms.queries, 1)
}

func TestHomeQueryFailure(t *testing.T) {
	cms := newFakeCMS()
	cms.queryErr = errors.New("boom")

	rec := get(t, newTestSite(t, cms), "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error 500: boom", rec.Body.String())
}

/*──────────────────────────── product ─────────────────────────────────────*/

func TestProductNotFoundShortCircuits(t *testing.T) {
	cms := newFakeCMS()

	rec := get(t, newTestSite(t, cms), "/product/blue-shirt")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "LAYOUT[main-layout]NOTFOUND", rec.Body.String())
	assert.Empty(t, cms.idsCalls)
}

func TestProductRelatedSkipsEmptyLinks(t *testing.T) {
	cms := newFakeCMS()
	cms.addDoc(prismic.Document{ID: "p1", UID: "hat", Type: "product", Data: prismic.Fields{
		"product_name":    json.RawMessage(`"Hat"`),
		"relatedProducts": linkGroup("r1", "", "r2"),
	}})
	cms.addDoc(prismic.Document{ID: "r1", UID: "r1", Type: "product"})
	cms.addDoc(prismic.Document{ID: "r2", UID: "r2", Type: "product"})

	rec := get(t, newTestSite(t, cms), "/product/hat")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LAYOUT[main-layout]PRODUCT(hat)http://example.com/product/hat[r1][r2]", rec.Body.String())
	require.Len(t, cms.idsCalls, 1)
	assert.Equal(t, []string{"r1", "r2"}, cms.idsCalls[0])
}

func TestProductWithoutRelatedMakesNoBatchCall(t *testing.T) {
	cms := newFakeCMS()
	cms.addDoc(prismic.Document{ID: "p1", UID: "hat", Type: "product", Data: prismic.Fields{}})

	rec := get(t, newTestSite(t, cms), "/product/hat")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, cms.idsCalls)
}

/*──────────────────────────── category ────────────────────────────────────*/

func TestCategoryFetchesLinkedMembers(t *testing.T) {
	cms := newFakeCMS()
	cms.addDoc(prismic.Document{ID: "c1", UID: "shoes", Type: "category", Data: prismic.Fields{
		"products": linkGroup("p1", "", "p2"),
	}})
	cms.addDoc(prismic.Document{ID: "p1", UID: "p1", Type: "product"})
	cms.addDoc(prismic.Document{ID: "p2", UID: "p2", Type: "product"})

	rec := get(t, newTestSite(t, cms), "/category/shoes")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LAYOUT[main-layout]LISTING(shoes)[p1][p2]", rec.Body.String())
	require.Len(t, cms.idsCalls, 1)
	assert.Equal(t, []string{"p1", "p2"}, cms.idsCalls[0])
	assert.Empty(t, cms.queries)
}

func TestCategoryWithoutGroupQueriesBackLinks(t *testing.T) {
	cms := newFakeCMS()
	cms.addDoc(prismic.Document{ID: "c1", UID: "hats", Type: "category", Data: prismic.Fields{}})
	cms.queryRes = &prismic.Response{Results: []prismic.Document{{ID: "p9"}}}

	rec := get(t, newTestSite(t, cms), "/category/hats")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LAYOUT[main-layout]LISTING(hats)[p9]", rec.Body.String())
	require.Len(t, cms.queries, 1)
	assert.Equal(t,
		`[[at(document.type, "product")][at(my.product.categories.link, "c1")]]`,
		cms.queries[0].Q)
}

func TestCategoryNotFoundShortCircuits(t *testing.T) {
	cms := newFakeCMS()

	rec := get(t, newTestSite(t, cms), "/category/none")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOTFOUND")
	assert.Empty(t, cms.idsCalls)
	assert.Empty(t, cms.queries)
}

/*──────────────────────────── pipeline failures ───────────────────────────*/

func TestMissingLayoutRendersNoPage(t *testing.T) {
	cms := newFakeCMS()
	cms.layout = nil

	for _, path := range []string{"/", "/product/x", "/nowhere", "/preview?token=t"} {
		rec := get(t, newTestSite(t, cms), path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.Equal(t, "No Layout document was found.", rec.Body.String(), path)
	}
	assert.Empty(t, cms.queries)
	assert.Empty(t, cms.tokens)
}

func TestLayoutFetchFailure(t *testing.T) {
	cms := newFakeCMS()
	cms.layoutErr = errors.New("timeout")

	rec := get(t, newTestSite(t, cms), "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error 500: timeout", rec.Body.String())
}

func TestSessionOpenFailures(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"rejected token", &prismic.Error{Op: "open", Status: http.StatusUnauthorized},
			http.StatusNotFound, msgConfiguration},
		{"unknown repo", &prismic.Error{Op: "open", Status: http.StatusNotFound},
			http.StatusNotFound, msgConfiguration},
		{"unreachable", &prismic.Error{Op: "open", Err: &url.Error{Op: "Get", URL: "x", Err: errors.New("refused")}},
			http.StatusNotFound, msgConfiguration},
		{"server error", &prismic.Error{Op: "open", URL: "https://x", Status: http.StatusBadGateway},
			http.StatusInternalServerError, "Error 500: prismic open https://x: status 502"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cms := newFakeCMS()
			cms.openErr = c.err
			rec := get(t, newTestSite(t, cms), "/")
			assert.Equal(t, c.status, rec.Code)
			assert.Equal(t, c.body, rec.Body.String())
		})
	}
}

func TestCatchAllRendersNotFound(t *testing.T) {
	cms := newFakeCMS()
	for _, path := range []string{"/about", "/a/b/c"} {
		rec := get(t, newTestSite(t, cms), path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "LAYOUT[main-layout]NOTFOUND", rec.Body.String(), path)
	}
}

func TestAssetsBypassPipeline(t *testing.T) {
	cms := newFakeCMS()

	rec := get(t, newTestSite(t, cms), "/assets/css/main.css")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
	assert.Empty(t, cms.previewRefs)
}

/*──────────────────────────── preview ─────────────────────────────────────*/

func TestPreviewMissingToken(t *testing.T) {
	cms := newFakeCMS()

	rec := get(t, newTestSite(t, cms), "/preview")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Empty(t, cms.tokens)
}

func TestPreviewSetsCookieAndRedirects(t *testing.T) {
	cms := newFakeCMS()
	cms.previewTo = "/product/hat"
	token := "https://shop.prismic.io/previews/abc?websitePreviewId=1"

	rec := get(t, newTestSite(t, cms), "/preview?token="+url.QueryEscape(token))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/product/hat", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, prismic.PreviewCookie, c.Name)
	assert.Equal(t, token, c.Value)
	assert.Equal(t, 1800, c.MaxAge)
	assert.Equal(t, "/", c.Path)
	assert.False(t, c.HttpOnly)
	assert.Equal(t, []string{token}, cms.tokens)
}

func TestPreviewRejectsOffsiteRedirect(t *testing.T) {
	for _, target := range []string{"//evil.example", "https://evil.example/", "product/x"} {
		cms := newFakeCMS()
		cms.previewTo = target

		rec := get(t, newTestSite(t, cms), "/preview?token=t")
		assert.Equal(t, http.StatusFound, rec.Code, target)
		assert.Equal(t, "/", rec.Header().Get("Location"), target)
	}
}

func TestPreviewFailureSetsNoCookie(t *testing.T) {
	cms := newFakeCMS()
	cms.previewEr = errors.New("bad token")

	rec := get(t, newTestSite(t, cms), "/preview?token=t")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Empty(t, rec.Header().Get("Location"))
}

// without404 hides the theme's 404 page.
type without404 struct{ Renderer }

func (without404) Has(page string) bool { return page != "404" }

func TestNotFoundWithoutThemePageIsPlainText(t *testing.T) {
	s := newTestSite(t, newFakeCMS())
	s.pages = without404{s.pages}

	rec := get(t, s, "/product/none")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusNotFound), rec.Body.String())
}

func TestPreviewCookieBindsSession(t *testing.T) {
	cms := newFakeCMS()
	cms.queryRes = &prismic.Response{Results: []prismic.Document{}}

	rec := get(t, newTestSite(t, cms), "/", &http.Cookie{Name: prismic.PreviewCookie, Value: "preview-ref"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"preview-ref"}, cms.previewRefs)
	assert.Equal(t, "LAYOUT[main-layout]PREVIEWLISTING", rec.Body.String())
}
