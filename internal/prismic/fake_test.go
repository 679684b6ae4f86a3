package prismic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// fakeRepo is an httptest stand-in for a Prismic repository.  Search
// responses are canned per `q` parameter; unknown queries return no
// results.
type fakeRepo struct {
	srv      *httptest.Server
	token    string            // required access token, "" for open API
	rootCode int               // status override for the API root
	results  map[string]string // q → JSON array of documents
	previews map[string]string // path → mainDocument

	mu       sync.Mutex
	searches []url.Values
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	f := &fakeRepo{
		results:  map[string]string{},
		previews: map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2", f.root)
	mux.HandleFunc("/api/v2/documents/search", f.search)
	mux.HandleFunc("/previews/", f.preview)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeRepo) endpoint() string { return f.srv.URL + "/api/v2" }

func (f *fakeRepo) authorized(r *http.Request) bool {
	return f.token == "" || r.URL.Query().Get("access_token") == f.token
}

func (f *fakeRepo) root(w http.ResponseWriter, r *http.Request) {
	if f.rootCode != 0 {
		http.Error(w, `{"error":"boom"}`, f.rootCode)
		return
	}
	if !f.authorized(r) {
		http.Error(w, `{"error":"invalid access token"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]any{
		"refs": []map[string]any{
			{"id": "master", "ref": "master-ref", "label": "Master", "isMasterRef": true},
		},
		"forms": map[string]any{
			"everything": map[string]any{
				"method": "GET",
				"action": f.srv.URL + "/api/v2/documents/search",
			},
		},
	})
}

func (f *fakeRepo) search(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		http.Error(w, `{"error":"invalid access token"}`, http.StatusUnauthorized)
		return
	}
	q := r.URL.Query()
	f.mu.Lock()
	f.searches = append(f.searches, q)
	f.mu.Unlock()

	raw, ok := f.results[q.Get("q")]
	if !ok {
		raw = "[]"
	}
	var results []json.RawMessage
	_ = json.Unmarshal([]byte(raw), &results)
	writeJSON(w, map[string]any{
		"page":               1,
		"results_per_page":   20,
		"results_size":       len(results),
		"total_results_size": len(results),
		"total_pages":        1,
		"next_page":          nil,
		"prev_page":          nil,
		"results":            results,
	})
}

func (f *fakeRepo) preview(w http.ResponseWriter, r *http.Request) {
	main, ok := f.previews[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{"mainDocument": main})
}

func (f *fakeRepo) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func (f *fakeRepo) lastSearch() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.searches) == 0 {
		return nil
	}
	return f.searches[len(f.searches)-1]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func resolvePath(typ, uid string) string {
	switch typ {
	case "product":
		return "/product/" + uid
	case "category":
		return "/category/" + uid
	}
	return "/"
}
