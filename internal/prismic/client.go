// internal/prismic/client.go
//
// Prismic REST v2 client.
//
// Context
// -------
// The storefront never talks to Prismic directly; it opens a Session per
// request through this Client and runs lookups on it.  A Client is safe for
// concurrent use and holds no per-request state.  Concurrent Open calls for
// the same access token share one API-root fetch through singleflight, but
// every caller still gets its own Session, and one caller going away does
// not cancel the fetch for the others.
//
// Usage
// -----
//
//	c, err := prismic.New("https://repo.cdn.prismic.io/api/v2")
//	s, err := c.Open(ctx, prismic.SessionOptions{AccessToken: tok})
//	doc, err := s.GetByUID(ctx, "product", "blue-shirt")
//
// Notes
// -----
//   - The access token travels as the `access_token` query parameter, the
//     way the Prismic API expects it.  It is never written into errors.
//   - The default transport is wrapped with otelhttp so CMS calls show up
//     as child spans of the incoming request.
package prismic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	// PreviewCookie is the cookie the Prismic toolbar and SDKs use to carry
	// a preview ref between requests.
	PreviewCookie = "io.prismic.preview"

	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "storefront-prismic/1"
	maxPageSize      = 100
	maxBodyBytes     = 8 << 20
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for every call.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent to Prismic.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// Client talks to one Prismic repository.
type Client struct {
	endpoint   string
	host       string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	sfg        singleflight.Group
}

// New validates endpoint and returns a Client.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("prismic endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("prismic endpoint %q: want absolute http(s) URL", endpoint)
	}

	c := &Client{
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		host:      u.Host,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:   c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return c, nil
}

// Endpoint returns the API root URL.
func (c *Client) Endpoint() string { return c.endpoint }

//
// API root document
//

// Ref is one content release (the master ref is the published state).
type Ref struct {
	ID       string `json:"id"`
	Ref      string `json:"ref"`
	Label    string `json:"label"`
	IsMaster bool   `json:"isMasterRef"`
}

// Form is a query form advertised by the API root.
type Form struct {
	Method  string `json:"method"`
	Action  string `json:"action"`
	Enctype string `json:"enctype"`
}

// API mirrors the subset of the API root document the client needs.
type API struct {
	Refs  []Ref             `json:"refs"`
	Types map[string]string `json:"types"`
	Tags  []string          `json:"tags"`
	Forms map[string]Form   `json:"forms"`
}

// Master returns the master ref.
func (a *API) Master() (Ref, bool) {
	for _, r := range a.Refs {
		if r.IsMaster {
			return r, true
		}
	}
	return Ref{}, false
}

// SessionOptions binds a Session to credentials and an optional preview.
type SessionOptions struct {
	AccessToken string
	PreviewRef  string // value of the preview cookie, if any
	Lang        string
}

// Open fetches the API root and returns a Session bound to the master ref,
// or to opts.PreviewRef when it is set.
func (c *Client) Open(ctx context.Context, opts SessionOptions) (*Session, error) {
	api, err := c.root(ctx, opts.AccessToken)
	if err != nil {
		return nil, err
	}
	master, ok := api.Master()
	if !ok {
		return nil, &Error{Op: "open", URL: c.endpoint, Status: http.StatusOK,
			Err: errors.New("api root has no master ref")}
	}

	ref := master.Ref
	if opts.PreviewRef != "" {
		ref = opts.PreviewRef
	}
	search := c.endpoint + "/documents/search"
	if f, ok := api.Forms["everything"]; ok && f.Action != "" {
		search = f.Action
	}

	return &Session{
		client:  c,
		api:     api,
		ref:     ref,
		preview: opts.PreviewRef != "",
		token:   opts.AccessToken,
		search:  search,
		lang:    opts.Lang,
	}, nil
}

// root fetches the API root document, sharing in-flight fetches between
// concurrent callers that use the same token.  The shared fetch is detached
// from any one caller's cancellation and bounded by the client timeout; a
// caller that gives up early gets its own context error.
func (c *Client) root(ctx context.Context, token string) (*API, error) {
	ch := c.sfg.DoChan("root\x00"+token, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		var api API
		if err := c.getJSON(fetchCtx, "open", c.endpoint, token, &api); err != nil {
			return nil, err
		}
		return &api, nil
	})

	select {
	case <-ctx.Done():
		return nil, &Error{Op: "open", URL: c.endpoint, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*API), nil
	}
}

//
// transport helper
//

// getJSON issues a GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, op, rawURL, token string, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return &Error{Op: op, URL: rawURL, Err: err}
	}
	bare := u.Scheme + "://" + u.Host + u.Path
	if token != "" {
		q := u.Query()
		q.Set("access_token", token)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &Error{Op: op, URL: bare, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, URL: bare, Err: redact(err, token)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Op: op, URL: bare, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &Error{Op: op, URL: bare, Status: resp.StatusCode, Body: excerpt(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: op, URL: bare, Status: resp.StatusCode,
			Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// redact strips the full request URL out of transport errors so the access
// token never reaches logs or error pages.
func redact(err error, token string) error {
	var ue *url.Error
	if token == "" || !errors.As(err, &ue) {
		return err
	}
	clean := *ue
	clean.URL = strings.ReplaceAll(ue.URL, url.QueryEscape(token), "REDACTED")
	return &clean
}
