// internal/prismic/session.go
//
// Session: one API handle bound to a ref and an access token.
//
// Context
// -------
// A Session is created by Client.Open for a single incoming request and
// dropped when the response is written.  It never mutates after creation,
// so the lookups below may run from any goroutine.
//
// Lookups
// -------
//   - Query       – predicate conjunction + orderings + paging.
//   - GetSingle   – the one document of a singleton type.
//   - GetByUID    – a document by type and UID.
//   - GetByID     – a document by ID.
//   - GetByIDs    – several documents by ID, in input order.
//
// The single-document lookups return ErrNotFound rather than a nil
// document, so callers cannot dereference a missing result by accident.
package prismic

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

// Session is a request-scoped API handle.
type Session struct {
	client  *Client
	api     *API
	ref     string
	preview bool
	token   string
	search  string
	lang    string
}

// Ref returns the content ref queries run against.
func (s *Session) Ref() string { return s.ref }

// InPreview reports whether the session is bound to a preview ref.
func (s *Session) InPreview() bool { return s.preview }

// API returns the API root the session was opened with.  Read only.
func (s *Session) API() *API { return s.api }

// QueryOptions tunes a Query.  Zero values use the API defaults.
type QueryOptions struct {
	Orderings []Ordering
	Page      int
	PageSize  int
	Lang      string
}

// Response is one page of query results.
type Response struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         string     `json:"next_page"`
	PrevPage         string     `json:"prev_page"`
	Results          []Document `json:"results"`
}

// HasNext reports whether another page follows this one.
func (r *Response) HasNext() bool { return r.NextPage != "" }

// HasPrev reports whether a page precedes this one.
func (r *Response) HasPrev() bool { return r.PrevPage != "" }

// Query runs preds as a conjunction.
func (s *Session) Query(ctx context.Context, preds []Predicate, opts QueryOptions) (*Response, error) {
	v := url.Values{}
	v.Set("ref", s.ref)
	if q := Q(preds...); q != "" {
		v.Set("q", q)
	}
	if o := orderings(opts.Orderings); o != "" {
		v.Set("orderings", o)
	}
	if opts.Page > 0 {
		v.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		size := opts.PageSize
		if size > maxPageSize {
			size = maxPageSize
		}
		v.Set("pageSize", strconv.Itoa(size))
	}
	lang := opts.Lang
	if lang == "" {
		lang = s.lang
	}
	if lang != "" {
		v.Set("lang", lang)
	}

	var resp Response
	if err := s.client.getJSON(ctx, "query", s.search+"?"+v.Encode(), s.token, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []Document{}
	}
	return &resp, nil
}

// first runs preds and returns the first hit or ErrNotFound.
func (s *Session) first(ctx context.Context, preds ...Predicate) (*Document, error) {
	resp, err := s.Query(ctx, preds, QueryOptions{PageSize: 1})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNotFound
	}
	doc := resp.Results[0]
	return &doc, nil
}

// GetSingle returns the document of singleton type typ.
func (s *Session) GetSingle(ctx context.Context, typ string) (*Document, error) {
	return s.first(ctx, At("document.type", typ))
}

// GetByUID returns the document of type typ whose UID is uid.  A result of
// another type or UID is treated as not found.
func (s *Session) GetByUID(ctx context.Context, typ, uid string) (*Document, error) {
	if typ == "" || uid == "" {
		return nil, ErrNotFound
	}
	doc, err := s.first(ctx, At("my."+typ+".uid", uid))
	if err != nil {
		return nil, err
	}
	if doc.Type != typ || doc.UID != uid {
		return nil, ErrNotFound
	}
	return doc, nil
}

// GetByID returns the document with the given ID.
func (s *Session) GetByID(ctx context.Context, id string) (*Document, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return s.first(ctx, At("document.id", id))
}

// GetByIDs fetches every document in ids and returns them in input order.
// IDs that match nothing are skipped.  An empty ids returns an empty slice
// without calling the API.
func (s *Session) GetByIDs(ctx context.Context, ids []string) ([]Document, error) {
	if len(ids) == 0 {
		return []Document{}, nil
	}

	// Deduplicate, keeping first-seen order.
	seen := make(map[string]struct{}, len(ids))
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return []Document{}, nil
	}

	byID := make(map[string]Document, len(uniq))
	for start := 0; start < len(uniq); start += maxPageSize {
		end := min(start+maxPageSize, len(uniq))
		chunk := uniq[start:end]
		resp, err := s.Query(ctx, []Predicate{In("document.id", chunk)},
			QueryOptions{PageSize: len(chunk)})
		if err != nil {
			return nil, err
		}
		for _, d := range resp.Results {
			byID[d.ID] = d
		}
	}

	out := make([]Document, 0, len(byID))
	for _, id := range uniq {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
