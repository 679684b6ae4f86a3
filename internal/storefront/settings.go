// internal/storefront/settings.go
//
// Static storefront settings and the link resolver.
//
// Context
// -------
// Settings are built once from config at startup and copied into every
// template context.  LinkResolver is the single place that maps a document
// (type, uid) to a site path; templates, rich-text hyperlinks, and the
// preview bridge all go through it.

package storefront

import (
	"net/url"

	"github.com/yanizio/storefront/internal/config"
)

// Settings is the read-only configuration record handed to templates.  The
// CMS access token stays with the Opener and is never part of it.
type Settings struct {
	Endpoint    string
	SnipcartKey string
}

// SettingsFrom copies the storefront-relevant fields out of cfg.
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		Endpoint:    cfg.Prismic.Endpoint,
		SnipcartKey: cfg.Snipcart.Key,
	}
}

// LinkResolver maps a document type and uid to its path.  Pure.
func LinkResolver(typ, uid string) string {
	switch typ {
	case "category":
		return "/category/" + url.PathEscape(uid)
	case "product":
		return "/product/" + url.PathEscape(uid)
	default:
		return "/"
	}
}
