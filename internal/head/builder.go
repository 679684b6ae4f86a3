// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single render.  Handlers push tags,
// then the layout template emits them with {{ .Head.HTML }}.
//
// Features
// --------
//   - SetTitle            – single <title> tag (last call wins).
//   - Meta, Property      – name= and property= (Open Graph) meta tags.
//   - Link, Script        – rel/href and src tags.
//   - JSONLD              – marshals a value into
//     <script type="application/ld+json">…</script>.
//
// Every tag is deduplicated by its full rendered text; attribute values
// are HTML-escaped here so callers pass raw strings.
package head

import (
	"encoding/json"
	"html/template"
	"strings"
	"sync"
)

// Builder is safe for concurrent writes.
type Builder struct {
	mu sync.Mutex

	title   string
	metas   []string
	links   []string
	scripts []string
	jsonLD  []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helper
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + esc(b.title) + "</title>")
}

// ------------------------------------------------------------------
// Tag helpers with deduplication
// ------------------------------------------------------------------

// Meta adds <meta name="…" content="…">.  Empty content is skipped.
func (b *Builder) Meta(name, content string) {
	if content == "" {
		return
	}
	b.add(&b.metas, `<meta name="`+esc(name)+`" content="`+esc(content)+`">`)
}

// Property adds <meta property="…" content="…"> for Open Graph.
func (b *Builder) Property(prop, content string) {
	if content == "" {
		return
	}
	b.add(&b.metas, `<meta property="`+esc(prop)+`" content="`+esc(content)+`">`)
}

// Link adds <link rel="…" href="…">.
func (b *Builder) Link(rel, href string) {
	b.add(&b.links, `<link rel="`+esc(rel)+`" href="`+esc(href)+`">`)
}

// Script adds <script src="…" defer></script>.
func (b *Builder) Script(src string) {
	b.add(&b.scripts, `<script src="`+esc(src)+`" defer></script>`)
}

// JSONLD marshals v as a JSON-LD block.  encoding/json escapes <, >, and &
// so the payload cannot close the script element.
func (b *Builder) JSONLD(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.add(&b.jsonLD, `<script type="application/ld+json">`+string(raw)+`</script>`)
	return nil
}

// OpenGraph adds the common og: and twitter: tags for a shareable page.
func (b *Builder) OpenGraph(kind, title, description, url, image string) {
	b.Property("og:type", kind)
	b.Property("og:title", title)
	b.Property("og:description", description)
	b.Property("og:url", url)
	b.Property("og:image", image)
	if image != "" {
		b.Meta("twitter:card", "summary_large_image")
	}
	b.Meta("description", description)
}

func (b *Builder) add(tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[tag]; dup {
		return
	}
	b.seen[tag] = struct{}{}
	*tgt = append(*tgt, tag)
}

// ------------------------------------------------------------------
// Rendering
// ------------------------------------------------------------------

// HTML returns title, metas, links, scripts, and JSON-LD in that order.
func (b *Builder) HTML() template.HTML {
	title := b.Title()
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(string(title))
	for _, group := range [][]string{b.metas, b.links, b.scripts, b.jsonLD} {
		for _, tag := range group {
			sb.WriteString(tag)
		}
	}
	return template.HTML(sb.String())
}

func esc(s string) string { return template.HTMLEscapeString(s) }
