//
//  internal/theme/funcs.go
//
//  Template functions.  Content helpers close over the link resolver so
//  templates never build URLs by hand:
//
//    {{ richText (.Doc.Data.RichText "description") }}
//    {{ docURL .Doc }}           {{ linkURL (.Doc.Data.Link "category") }}
//    {{ asset "css/main.css" }}  {{ price .Doc.Data "price" }}
//

package theme

import (
	"html/template"
	"strconv"

	"github.com/yanizio/storefront/internal/prismic"
)

// FuncMap returns the template function map for one theme.
func FuncMap(asset func(string) string, resolve prismic.LinkResolver) template.FuncMap {
	return template.FuncMap{
		"asset": asset,

		// Content helpers
		"richText": func(rt prismic.RichText) template.HTML { return rt.HTML(resolve) },
		"asText":   func(rt prismic.RichText) string { return rt.Text() },
		"linkURL":  func(l prismic.Link) string { return l.Resolve(resolve) },
		"docURL":   func(d prismic.Document) string { return resolve(d.Type, d.UID) },

		// Formatting
		"price": func(f prismic.Fields, name string) string {
			v, ok := f.Number(name)
			if !ok {
				return ""
			}
			return strconv.FormatFloat(v, 'f', 2, 64)
		},
		"add": func(a, b int) int { return a + b },
	}
}
