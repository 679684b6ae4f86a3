package theme

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/prismic"
)

// Manager discovers and loads themes.
type Manager struct {
	BaseDir string // e.g., "themes" (relative) or "/srv/themes" (absolute)
}

// Load parses the layout, partials, and every page of theme name.
// Template precedence (high → low):
//  1. templates/pages/<page>.html  (page "content" and overrides)
//  2. templates/partials/...       (shared blocks)
//  3. templates/layout.html        (page shell)
func (m *Manager) Load(name string, resolve prismic.LinkResolver) (*Theme, error) {
	root := filepath.Join(m.BaseDir, name)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("theme %s not found at %s", name, root)
	}
	th := &Theme{Name: name, Root: root, pages: make(map[string]*template.Template)}
	tplDir := filepath.Join(root, "templates")

	base, err := template.New("").
		Funcs(FuncMap(th.Asset, resolve)).
		ParseFiles(filepath.Join(tplDir, "layout.html"))
	if err != nil {
		return nil, fmt.Errorf("parse %s layout: %w", name, err)
	}
	if files, _ := CollectHTML(filepath.Join(tplDir, "partials")); len(files) > 0 {
		if _, err := base.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("parse %s partials: %w", name, err)
		}
	}

	pages, err := CollectHTML(filepath.Join(tplDir, "pages"))
	if err != nil {
		return nil, fmt.Errorf("scan %s pages: %w", name, err)
	}
	for _, f := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFiles(f); err != nil {
			return nil, fmt.Errorf("parse %s page %s: %w", name, filepath.Base(f), err)
		}
		th.pages[pageName(f)] = clone
	}
	if len(th.pages) == 0 {
		return nil, fmt.Errorf("theme %s has no pages under %s", name, filepath.Join(tplDir, "pages"))
	}

	zap.S().Infow("theme loaded", "theme", name, "pages", len(th.pages))
	return th, nil
}
