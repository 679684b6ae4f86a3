// internal/prismic/predicate.go
//
// Query predicates and orderings in Prismic query syntax.
//
//	At("document.type", "product")    → [at(document.type, "product")]
//	In("document.id", []string{"a"})  → [in(document.id, ["a"])]
//	Ordering{"my.product.date", true} → my.product.date desc
//
// A query is the conjunction of its predicates, rendered as one outer
// bracket pair around the individual predicates.
package prismic

import (
	"strconv"
	"strings"
)

// Predicate is one structured filter.  Build it with At, Not, Any, In, or
// Fulltext.
type Predicate struct {
	op   string
	path string
	arg  string // already rendered
}

// At matches documents whose field at path equals value.
func At(path, value string) Predicate {
	return Predicate{op: "at", path: path, arg: quote(value)}
}

// Not matches documents whose field at path differs from value.
func Not(path, value string) Predicate {
	return Predicate{op: "not", path: path, arg: quote(value)}
}

// Any matches documents whose field at path equals one of values.
func Any(path string, values []string) Predicate {
	return Predicate{op: "any", path: path, arg: list(values)}
}

// In matches documents whose ID or UID at path is one of values.
func In(path string, values []string) Predicate {
	return Predicate{op: "in", path: path, arg: list(values)}
}

// Fulltext matches documents whose field at path contains text.
func Fulltext(path, text string) Predicate {
	return Predicate{op: "fulltext", path: path, arg: quote(text)}
}

// String renders the predicate, e.g. `[at(document.type, "product")]`.
func (p Predicate) String() string {
	return "[" + p.op + "(" + p.path + ", " + p.arg + ")]"
}

// Q renders the conjunction of preds as the `q` query parameter.  It
// returns "" for no predicates.
func Q(preds ...Predicate) string {
	if len(preds) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, p := range preds {
		b.WriteString(p.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Ordering sorts query results by one field.
type Ordering struct {
	Field string // "my.product.date", "document.first_publication_date"
	Desc  bool
}

func (o Ordering) String() string {
	if o.Desc {
		return o.Field + " desc"
	}
	return o.Field
}

// orderings renders the `orderings` query parameter.
func orderings(os []Ordering) string {
	if len(os) == 0 {
		return ""
	}
	parts := make([]string, len(os))
	for i, o := range os {
		parts[i] = o.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func quote(s string) string { return strconv.Quote(s) }

func list(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = quote(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
