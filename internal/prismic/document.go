// internal/prismic/document.go
//
// Document model and typed field accessors.
//
// Context
// -------
// Prismic documents are schemaless from the client's point of view: every
// custom type carries its own `data` object.  Fields keeps that object as
// raw JSON and decodes on access, so a template can ask for
// `.Data.Text "name"` without the Go side declaring a struct per type.
//
// Accessors never fail.  A missing, null, or mistyped field yields the zero
// value, which templates render as empty.
package prismic

import (
	"bytes"
	"encoding/json"
	"time"
)

// prismicTime is the layout of publication dates ("2017-01-10T11:16:55+0000").
const prismicTime = "2006-01-02T15:04:05-0700"

// Document is one content item.
type Document struct {
	ID               string   `json:"id"`
	UID              string   `json:"uid"`
	Type             string   `json:"type"`
	Href             string   `json:"href"`
	Tags             []string `json:"tags"`
	Slugs            []string `json:"slugs"`
	Lang             string   `json:"lang"`
	FirstPublication string   `json:"first_publication_date"`
	LastPublication  string   `json:"last_publication_date"`
	Data             Fields   `json:"data"`
}

// Published returns the first publication date when present.
func (d *Document) Published() (time.Time, bool) {
	t, err := time.Parse(prismicTime, d.FirstPublication)
	return t, err == nil
}

// Link returns a document link pointing at d.
func (d *Document) Link() Link {
	return Link{ID: d.ID, Type: d.Type, UID: d.UID, Lang: d.Lang, Kind: LinkDocument}
}

//
// Fields
//

// Fields is a document's `data` object, or one entry of a group field.
type Fields map[string]json.RawMessage

// raw returns the field bytes, or nil when absent or null.
func (f Fields) raw(name string) json.RawMessage {
	b, ok := f[name]
	if !ok || len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	return b
}

// Has reports whether name is present and non-null.
func (f Fields) Has(name string) bool { return f.raw(name) != nil }

// Text returns a key-text, select, date, or color field.  For a rich-text
// field it returns the plain text of all blocks.
func (f Fields) Text(name string) string {
	b := f.raw(name)
	if b == nil {
		return ""
	}
	var s string
	if json.Unmarshal(b, &s) == nil {
		return s
	}
	var rt RichText
	if json.Unmarshal(b, &rt) == nil {
		return rt.Text()
	}
	return ""
}

// RichText returns a title or rich-text field.
func (f Fields) RichText(name string) RichText {
	var rt RichText
	if b := f.raw(name); b != nil {
		_ = json.Unmarshal(b, &rt)
	}
	return rt
}

// Number returns a number field.
func (f Fields) Number(name string) (float64, bool) {
	var n float64
	b := f.raw(name)
	if b == nil || json.Unmarshal(b, &n) != nil {
		return 0, false
	}
	return n, true
}

// Image returns an image field.
func (f Fields) Image(name string) Image {
	var img Image
	if b := f.raw(name); b != nil {
		_ = json.Unmarshal(b, &img)
	}
	return img
}

// Link returns a link or content-relationship field.
func (f Fields) Link(name string) Link {
	var l Link
	if b := f.raw(name); b != nil {
		_ = json.Unmarshal(b, &l)
	}
	return l
}

// Group returns the entries of a group (repeatable) field.
func (f Fields) Group(name string) []Fields {
	var g []Fields
	if b := f.raw(name); b != nil {
		_ = json.Unmarshal(b, &g)
	}
	return g
}

// LinkIDs collects the target IDs of the link field named field in every
// entry of group.  Entries whose link is empty, broken, or not a document
// link are skipped, so the result never contains an empty ID.
func (f Fields) LinkIDs(group, field string) []string {
	entries := f.Group(group)
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if l := e.Link(field); l.IsDocument() {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

//
// Field value types
//

// Image is an image field.
type Image struct {
	URL        string `json:"url"`
	Alt        string `json:"alt"`
	Copyright  string `json:"copyright"`
	Dimensions struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"dimensions"`
}

// Link kinds as reported in `link_type`.
const (
	LinkDocument = "Document"
	LinkWeb      = "Web"
	LinkMedia    = "Media"
	LinkAny      = "Any"
)

// Link is a link or content-relationship field.
type Link struct {
	Kind     string `json:"link_type"`
	ID       string `json:"id"`
	Type     string `json:"type"`
	UID      string `json:"uid"`
	Slug     string `json:"slug"`
	Lang     string `json:"lang"`
	IsBroken bool   `json:"isBroken"`
	URL      string `json:"url"`    // Web and Media links
	Target   string `json:"target"` // Web links
}

// IsDocument reports whether l points at an existing document.
func (l Link) IsDocument() bool {
	return l.Kind == LinkDocument && l.ID != "" && !l.IsBroken
}

// Resolve returns the href for l: the resolver's path for document links,
// the raw URL for web and media links, and "" otherwise.
func (l Link) Resolve(resolve LinkResolver) string {
	switch {
	case l.IsDocument():
		return resolve(l.Type, l.UID)
	case l.Kind == LinkWeb, l.Kind == LinkMedia:
		return l.URL
	}
	return ""
}

// LinkResolver maps a document type and UID to a site-relative path.
type LinkResolver func(typ, uid string) string
