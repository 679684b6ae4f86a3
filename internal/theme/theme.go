// Package theme holds the data structures that describe one visual theme.
// A Theme combines:
//
//   - Name   – the theme directory name (for example, “default”).
//   - Root   – path to that directory on disk.
//   - pages  – one template set per page, each a clone of the shared
//     layout plus the page file.
//   - Asset  – helper injected into templates so `{{ asset "css/main.css" }}`
//     resolves to a URL under AssetPrefix.
//
// Directory shape:
//
//	<root>/templates/layout.html      defines "layout"
//	<root>/templates/partials/*.html  shared blocks
//	<root>/templates/pages/*.html     one file per page, defines "content"
//	<root>/assets/                    served at AssetPrefix
package theme

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// AssetPrefix is the URL path under which theme assets are served.
const AssetPrefix = "/assets/"

// Theme is returned by the Manager once all templates are parsed.
type Theme struct {
	Name  string
	Root  string
	pages map[string]*template.Template
}

// Asset maps a theme-relative path to its public URL.
func (t *Theme) Asset(p string) string { return AssetPrefix + p }

// AssetsDir is the on-disk directory served at AssetPrefix.
func (t *Theme) AssetsDir() string { return filepath.Join(t.Root, "assets") }

// Has reports whether a page template exists.
func (t *Theme) Has(page string) bool {
	_, ok := t.pages[page]
	return ok
}

// Render executes the "layout" template of page into a buffer.  Nothing is
// written to the client until the whole page has rendered.
func (t *Theme) Render(page string, data any) ([]byte, error) {
	tpl, ok := t.pages[page]
	if !ok {
		return nil, fmt.Errorf("theme %s: no page template %q", t.Name, page)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}
