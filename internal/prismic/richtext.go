// internal/prismic/richtext.go
//
// Rich-text rendering.
//
// Context
// -------
// Title and rich-text fields arrive as a list of blocks, each with its own
// text and a list of spans (bold, italic, hyperlink, label) given as
// character offsets.  Templates need two things from that: plain text for
// <title> and alt attributes, and safe HTML for page bodies.
//
// Notes
// -----
//   - Offsets count UTF-16 code units, so text is indexed through
//     utf16.Encode; a surrogate pair is written out at its first unit.
//   - Link targets and image sources pass through safeURL: only http,
//     https, mailto, tel, and relative URLs survive, anything else is "#".
//   - Overlapping spans are closed and reopened so the HTML stays well
//     nested.
//   - Embeds are dropped; their HTML comes from third parties.
package prismic

import (
	"html/template"
	"net/url"
	"sort"
	"strings"
	"unicode/utf16"
)

// Span is inline formatting within a block.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"` // strong, em, hyperlink, label
	Data  *struct {
		Link
		Label string `json:"label"`
	} `json:"data,omitempty"`
}

// Block is one paragraph, heading, list item, or image.
type Block struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Spans []Span `json:"spans"`
	URL   string `json:"url"` // image blocks
	Alt   string `json:"alt"`
}

// RichText is a title or rich-text field.
type RichText []Block

// Text joins the text of every block with a single space.
func (rt RichText) Text() string {
	parts := make([]string, 0, len(rt))
	for _, b := range rt {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, " ")
}

// HTML renders rt as escaped HTML.  Document hyperlinks go through resolve;
// a nil resolve renders them as "/".
func (rt RichText) HTML(resolve LinkResolver) template.HTML {
	if resolve == nil {
		resolve = func(string, string) string { return "/" }
	}

	var sb strings.Builder
	list := "" // open list tag, "ul" or "ol"
	for _, b := range rt {
		want := ""
		switch b.Type {
		case "list-item":
			want = "ul"
		case "o-list-item":
			want = "ol"
		}
		if list != want {
			if list != "" {
				sb.WriteString("</" + list + ">")
			}
			if want != "" {
				sb.WriteString("<" + want + ">")
			}
			list = want
		}

		switch b.Type {
		case "heading1", "heading2", "heading3", "heading4", "heading5", "heading6":
			tag := "h" + b.Type[len(b.Type)-1:]
			sb.WriteString("<" + tag + ">" + spans(b, resolve) + "</" + tag + ">")
		case "paragraph":
			sb.WriteString("<p>" + spans(b, resolve) + "</p>")
		case "preformatted":
			sb.WriteString("<pre>" + spans(b, resolve) + "</pre>")
		case "list-item", "o-list-item":
			sb.WriteString("<li>" + spans(b, resolve) + "</li>")
		case "image":
			sb.WriteString(`<p class="block-img"><img src="` +
				template.HTMLEscapeString(safeURL(b.URL)) + `" alt="` +
				template.HTMLEscapeString(b.Alt) + `"></p>`)
		}
	}
	if list != "" {
		sb.WriteString("</" + list + ">")
	}
	return template.HTML(sb.String())
}

// spans renders the text of b with its inline formatting.
func spans(b Block, resolve LinkResolver) string {
	if len(b.Spans) == 0 {
		return escape(b.Text)
	}
	text := utf16.Encode([]rune(b.Text))

	ss := make([]Span, 0, len(b.Spans))
	for _, s := range b.Spans {
		if s.Start < 0 || s.End > len(text) || s.Start >= s.End {
			continue
		}
		ss = append(ss, s)
	}
	// Outer spans first: earlier start, then longer.
	sort.SliceStable(ss, func(i, j int) bool {
		if ss[i].Start != ss[j].Start {
			return ss[i].Start < ss[j].Start
		}
		return ss[i].End > ss[j].End
	})

	var out strings.Builder
	var open []Span
	next := 0
	for i := 0; i <= len(text); i++ {
		// Close spans ending here, reopening any inner span that outlives
		// one of them.
		if closing := endingAt(open, i); closing > 0 {
			var reopen []Span
			for closing > 0 {
				top := open[len(open)-1]
				open = open[:len(open)-1]
				out.WriteString(closeTag(top))
				if top.End == i {
					closing--
				} else {
					reopen = append(reopen, top)
				}
			}
			for k := len(reopen) - 1; k >= 0; k-- {
				out.WriteString(openTag(reopen[k], resolve))
				open = append(open, reopen[k])
			}
		}
		for next < len(ss) && ss[next].Start == i {
			out.WriteString(openTag(ss[next], resolve))
			open = append(open, ss[next])
			next++
		}
		if i < len(text) {
			out.WriteString(escape(unitText(text, i)))
		}
	}
	return out.String()
}

// unitText returns the character starting at UTF-16 unit i, or "" for the
// trailing half of a surrogate pair.
func unitText(text []uint16, i int) string {
	u := text[i]
	switch {
	case utf16.IsSurrogate(rune(u)) && u < 0xdc00:
		if i+1 < len(text) {
			if r := utf16.DecodeRune(rune(u), rune(text[i+1])); r != '\uFFFD' {
				return string(r)
			}
		}
		return "\uFFFD"
	case utf16.IsSurrogate(rune(u)):
		if i > 0 && utf16.IsSurrogate(rune(text[i-1])) && text[i-1] < 0xdc00 {
			return ""
		}
		return "\uFFFD"
	}
	return string(rune(u))
}

// safeURL passes through URLs a browser will not execute and replaces the
// rest with "#".
func safeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return raw
	}
	return "#"
}

func endingAt(open []Span, i int) int {
	n := 0
	for _, s := range open {
		if s.End == i {
			n++
		}
	}
	return n
}

func openTag(s Span, resolve LinkResolver) string {
	switch s.Type {
	case "strong":
		return "<strong>"
	case "em":
		return "<em>"
	case "hyperlink":
		href := ""
		target := ""
		if s.Data != nil {
			href = s.Data.Link.Resolve(resolve)
			if s.Data.Target != "" {
				target = ` target="` + template.HTMLEscapeString(s.Data.Target) + `" rel="noopener"`
			}
		}
		return `<a href="` + template.HTMLEscapeString(safeURL(href)) + `"` + target + `>`
	case "label":
		label := ""
		if s.Data != nil {
			label = s.Data.Label
		}
		return `<span class="` + template.HTMLEscapeString(label) + `">`
	}
	return "<span>"
}

func closeTag(s Span) string {
	switch s.Type {
	case "strong":
		return "</strong>"
	case "em":
		return "</em>"
	case "hyperlink":
		return "</a>"
	}
	return "</span>"
}

// escape HTML-escapes s and turns newlines into <br>.
func escape(s string) string {
	return strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>")
}
