// internal/storefront/cms.go
//
// Content adapter seam.
//
// Context
// -------
// The pipeline talks to the CMS only through Opener and Session so tests
// can substitute an in-memory fake.  NewOpener adapts *prismic.Client and
// wraps every call with Prometheus timing and a DEBUG log line.

package storefront

import (
	"context"
	"time"

	"github.com/yanizio/storefront/internal/logger"
	"github.com/yanizio/storefront/internal/metrics"
	"github.com/yanizio/storefront/internal/prismic"
)

// Opener opens one content session per request.  previewRef is the value
// of the preview cookie, or "".
type Opener interface {
	Open(ctx context.Context, previewRef string) (Session, error)
}

// Session is the set of reads the pipeline performs.  GetSingle and
// GetByUID return prismic.ErrNotFound when nothing matches; GetByIDs
// returns an empty slice, without I/O, for an empty input.
type Session interface {
	GetSingle(ctx context.Context, typ string) (*prismic.Document, error)
	GetByUID(ctx context.Context, typ, uid string) (*prismic.Document, error)
	GetByIDs(ctx context.Context, ids []string) ([]prismic.Document, error)
	Query(ctx context.Context, preds []prismic.Predicate, opts prismic.QueryOptions) (*prismic.Response, error)
	ResolvePreview(ctx context.Context, token string, resolve prismic.LinkResolver, fallback string) (string, error)
	InPreview() bool
}

/*──────────────────────────── prismic adapter ─────────────────────────────*/

type prismicOpener struct {
	client *prismic.Client
	token  string
}

// NewOpener returns an Opener backed by client and authenticated with
// accessToken (may be empty).
func NewOpener(client *prismic.Client, accessToken string) Opener {
	return &prismicOpener{client: client, token: accessToken}
}

func (o *prismicOpener) Open(ctx context.Context, previewRef string) (Session, error) {
	start := time.Now()
	s, err := o.client.Open(ctx, prismic.SessionOptions{
		AccessToken: o.token,
		PreviewRef:  previewRef,
	})
	observe(ctx, "open", start, err)
	if err != nil {
		return nil, err
	}
	return &instrumented{s: s}, nil
}

// instrumented decorates *prismic.Session with metrics and logging.
type instrumented struct{ s *prismic.Session }

func (i *instrumented) GetSingle(ctx context.Context, typ string) (*prismic.Document, error) {
	start := time.Now()
	d, err := i.s.GetSingle(ctx, typ)
	observe(ctx, "get_single", start, err, "type", typ)
	return d, err
}

func (i *instrumented) GetByUID(ctx context.Context, typ, uid string) (*prismic.Document, error) {
	start := time.Now()
	d, err := i.s.GetByUID(ctx, typ, uid)
	observe(ctx, "get_by_uid", start, err, "type", typ, "uid", uid)
	return d, err
}

func (i *instrumented) GetByIDs(ctx context.Context, ids []string) ([]prismic.Document, error) {
	if len(ids) == 0 {
		return i.s.GetByIDs(ctx, ids)
	}
	start := time.Now()
	docs, err := i.s.GetByIDs(ctx, ids)
	observe(ctx, "get_by_ids", start, err, "ids", len(ids))
	return docs, err
}

func (i *instrumented) Query(ctx context.Context, preds []prismic.Predicate, opts prismic.QueryOptions) (*prismic.Response, error) {
	start := time.Now()
	r, err := i.s.Query(ctx, preds, opts)
	observe(ctx, "query", start, err, "q", prismic.Q(preds...), "page", opts.Page)
	return r, err
}

func (i *instrumented) ResolvePreview(ctx context.Context, token string, resolve prismic.LinkResolver, fallback string) (string, error) {
	start := time.Now()
	p, err := i.s.ResolvePreview(ctx, token, resolve, fallback)
	observe(ctx, "preview", start, err)
	return p, err
}

func (i *instrumented) InPreview() bool { return i.s.InPreview() }

func observe(ctx context.Context, op string, start time.Time, err error, kv ...any) {
	outcome := metrics.OutcomeOK
	switch {
	case prismic.IsNotFound(err):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.ObserveCMS(op, outcome, start)

	fields := append([]any{"op", op, "outcome", outcome, "ms", time.Since(start).Milliseconds()}, kv...)
	logger.FromContext(ctx).Debugw("cms call", fields...)
}
