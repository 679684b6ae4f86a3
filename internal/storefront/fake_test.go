package storefront

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanizio/storefront/internal/prismic"
	"github.com/yanizio/storefront/internal/theme"
)

/*──────────────────────────── fake CMS ────────────────────────────────────*/

type recordedQuery struct {
	Q    string
	Opts prismic.QueryOptions
}

// fakeCMS is an in-memory Opener.  Every Session it opens shares the
// recorded call log.
type fakeCMS struct {
	mu sync.Mutex

	openErr   error
	layout    *prismic.Document
	layoutErr error
	docs      map[string]*prismic.Document // "type/uid"
	byID      map[string]prismic.Document
	queryRes  *prismic.Response
	queryErr  error
	previewTo string
	previewEr error

	previewRefs []string
	idsCalls    [][]string
	queries     []recordedQuery
	tokens      []string
}

func newFakeCMS() *fakeCMS {
	return &fakeCMS{
		layout: &prismic.Document{ID: "L", UID: "main-layout", Type: "layout",
			Data: prismic.Fields{"site_name": json.RawMessage(`"Test Shop"`)}},
		docs: map[string]*prismic.Document{},
		byID: map[string]prismic.Document{},
		queryRes: &prismic.Response{Page: 1, Results: []prismic.Document{}},
	}
}

func (f *fakeCMS) Open(_ context.Context, previewRef string) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.previewRefs = append(f.previewRefs, previewRef)
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakeSession{f: f, preview: previewRef != ""}, nil
}

func (f *fakeCMS) addDoc(d prismic.Document) {
	f.docs[d.Type+"/"+d.UID] = &d
	f.byID[d.ID] = d
}

type fakeSession struct {
	f       *fakeCMS
	preview bool
}

func (s *fakeSession) GetSingle(_ context.Context, typ string) (*prismic.Document, error) {
	if typ != "layout" {
		return nil, prismic.ErrNotFound
	}
	if s.f.layoutErr != nil {
		return nil, s.f.layoutErr
	}
	if s.f.layout == nil {
		return nil, prismic.ErrNotFound
	}
	return s.f.layout, nil
}

func (s *fakeSession) GetByUID(_ context.Context, typ, uid string) (*prismic.Document, error) {
	if d, ok := s.f.docs[typ+"/"+uid]; ok {
		return d, nil
	}
	return nil, prismic.ErrNotFound
}

func (s *fakeSession) GetByIDs(_ context.Context, ids []string) ([]prismic.Document, error) {
	if len(ids) == 0 {
		return []prismic.Document{}, nil
	}
	s.f.mu.Lock()
	s.f.idsCalls = append(s.f.idsCalls, append([]string(nil), ids...))
	s.f.mu.Unlock()

	out := []prismic.Document{}
	for _, id := range ids {
		if d, ok := s.f.byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *fakeSession) Query(_ context.Context, preds []prismic.Predicate, opts prismic.QueryOptions) (*prismic.Response, error) {
	s.f.mu.Lock()
	s.f.queries = append(s.f.queries, recordedQuery{Q: prismic.Q(preds...), Opts: opts})
	s.f.mu.Unlock()
	if s.f.queryErr != nil {
		return nil, s.f.queryErr
	}
	return s.f.queryRes, nil
}

func (s *fakeSession) ResolvePreview(_ context.Context, token string, _ prismic.LinkResolver, fallback string) (string, error) {
	s.f.mu.Lock()
	s.f.tokens = append(s.f.tokens, token)
	s.f.mu.Unlock()
	if s.f.previewEr != nil {
		return "", s.f.previewEr
	}
	if s.f.previewTo == "" {
		return fallback, nil
	}
	return s.f.previewTo, nil
}

func (s *fakeSession) InPreview() bool { return s.preview }

/*──────────────────────────── test theme ──────────────────────────────────*/

var testTemplates = map[string]string{
	"layout.html": `{{ define "layout" }}LAYOUT[{{ .Layout.UID }}]{{ if .Preview }}PREVIEW{{ end }}{{ template "content" . }}{{ end }}`,
	"pages/listing.html": `{{ define "content" }}LISTING{{ with .Doc }}({{ .UID }}){{ end }}` +
		`{{ range .Products }}[{{ .ID }}]{{ end }}{{ end }}`,
	"pages/product.html": `{{ define "content" }}PRODUCT({{ .Doc.UID }}){{ .PageURL }}` +
		`{{ range .Products }}[{{ .ID }}]{{ end }}{{ end }}`,
	"pages/404.html": `{{ define "content" }}NOTFOUND{{ end }}`,
}

func newTestSite(t *testing.T, cms *fakeCMS) *Site {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "test")
	for name, body := range testTemplates {
		p := filepath.Join(root, "templates", name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	css := filepath.Join(root, "assets", "css", "main.css")
	require.NoError(t, os.MkdirAll(filepath.Dir(css), 0o755))
	require.NoError(t, os.WriteFile(css, []byte("body{}"), 0o644))

	th, err := (&theme.Manager{BaseDir: base}).Load("test", LinkResolver)
	require.NoError(t, err)
	return New(cms, th, Settings{Endpoint: "https://shop.cdn.prismic.io/api/v2", SnipcartKey: "pk"})
}

// linkGroup builds a group field whose entries hold one "link" each.  An
// empty id yields an empty (unlinked) entry.
func linkGroup(ids ...string) json.RawMessage {
	entries := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			entries = append(entries, map[string]any{"link": map[string]any{"link_type": "Any"}})
			continue
		}
		entries = append(entries, map[string]any{"link": map[string]any{
			"link_type": "Document", "id": id, "type": "product", "uid": id,
		}})
	}
	b, _ := json.Marshal(entries)
	return b
}
