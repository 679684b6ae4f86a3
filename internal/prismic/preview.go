// internal/prismic/preview.go
//
// Preview-token exchange.
//
// Context
// -------
// When an editor clicks "preview" in the Prismic writing room, the browser
// lands on /preview?token=<url>.  The token is itself an API URL that
// answers with the ID of the document being edited.  ResolvePreview fetches
// it, looks the document up at the preview ref, and maps it to a site path
// so the caller can redirect there.
//
// Notes
// -----
//   - The token is fetched server-side, so its host must belong to the
//     configured repository.  Anything else is rejected before any I/O.
//   - A token without a main document (e.g. a release preview) resolves to
//     the fallback path.
package prismic

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

type previewInfo struct {
	MainDocument string `json:"mainDocument"`
}

// ResolvePreview exchanges token for the path of the previewed document.
func (s *Session) ResolvePreview(ctx context.Context, token string, resolve LinkResolver, fallback string) (string, error) {
	u, err := url.Parse(token)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &Error{Op: "preview", URL: "token", Err: errors.New("malformed preview token")}
	}
	if !sameRepository(s.client.host, u.Host) {
		return "", &Error{Op: "preview", URL: u.Host, Err: ErrUntrustedPreview}
	}

	var info previewInfo
	if err := s.client.getJSON(ctx, "preview", token, s.token, &info); err != nil {
		return "", err
	}
	if info.MainDocument == "" {
		return fallback, nil
	}

	at := *s
	at.ref = token
	at.preview = true
	doc, err := at.GetByID(ctx, info.MainDocument)
	if IsNotFound(err) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return resolve(doc.Type, doc.UID), nil
}

// sameRepository reports whether candidate serves the same repository as
// the API host.  "repo.prismic.io" and "repo.cdn.prismic.io" match.
func sameRepository(apiHost, candidate string) bool {
	apiHost = strings.ToLower(apiHost)
	candidate = strings.ToLower(candidate)
	if apiHost == candidate {
		return true
	}
	const suffix = ".prismic.io"
	if !strings.HasSuffix(apiHost, suffix) || !strings.HasSuffix(candidate, suffix) {
		return false
	}
	return repoName(apiHost) == repoName(candidate)
}

func repoName(host string) string {
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}
