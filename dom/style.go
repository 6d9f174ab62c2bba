package dom

import (
	"sort"
	"strings"
)

// Style is the effective, cascaded property map for one element: the
// result of composing presentation attributes, the inline style
// attribute, and matching <style> block rules, in that cascading order
// (spec.md §3, "Style view").
type Style map[string]string

// presentationAttrs lists the SVG attribute names that participate in the
// CSS cascade (spec.md's glossary: "Presentation attribute"). Jobs consult
// this to decide whether an attribute assignment also needs to be
// reflected into (or read from) the style cascade.
var presentationAttrs = map[string]bool{
	"fill": true, "fill-opacity": true, "fill-rule": true,
	"stroke": true, "stroke-width": true, "stroke-opacity": true,
	"stroke-linecap": true, "stroke-linejoin": true, "stroke-dasharray": true,
	"stroke-dashoffset": true, "stroke-miterlimit": true,
	"opacity": true, "color": true, "display": true, "visibility": true,
	"transform": true, "clip-path": true, "clip-rule": true, "mask": true,
	"filter": true, "font-family": true, "font-size": true, "font-weight": true,
	"font-style": true, "text-anchor": true, "letter-spacing": true,
	"word-spacing": true, "marker-start": true, "marker-mid": true,
	"marker-end": true, "stop-color": true, "stop-opacity": true,
	"enable-background": true,
}

// IsPresentationAttr reports whether name is a recognised CSS-cascading
// presentation attribute.
func IsPresentationAttr(name string) bool { return presentationAttrs[name] }

// ParseDeclarations splits a CSS declaration-list body (the contents of a
// style attribute, or of one rule's braces) into an ordered property/value
// map. It is a small, purpose-built scanner, not a general CSS parser: the
// grammar of a declaration list (semicolon-separated "prop: value" pairs)
// is simple enough that reaching for a full CSS tokenizer to split it
// would cost more than it saves; selector parsing and matching, the part
// that is genuinely hard to get right, is delegated entirely to cascadia
// (see selector.go).
func ParseDeclarations(body string) Style {
	out := make(Style)
	for _, decl := range strings.Split(body, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

// WriteDeclarations renders a Style back into a ";"-separated declaration
// list, sorted for stable output, for whichever job shortens style<->attrs.
func (s Style) WriteDeclarations(order []string) string {
	var b strings.Builder
	first := true
	emit := func(k, v string) {
		if !first {
			b.WriteByte(';')
		}
		first = false
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(v)
	}
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		if v, ok := s[k]; ok {
			emit(k, v)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(s))
	for k := range s {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		emit(k, s[k])
	}
	return b.String()
}

// StyleRule is one rule parsed out of a <style> element: a selector and
// its declaration body, in source order (cascade order among <style>
// rules is source order, last writer wins per property).
type StyleRule struct {
	Selector *Selector
	Props    Style
}

// ComputedStyle composes, in cascading order, presentation attributes on
// id, id's inline style attribute, and any rule in rules whose selector
// matches id. Results are cached per element behind the document's epoch
// counter (spec.md §9). The pipeline bumps the epoch after each pass of a
// job that declares CapName, CapAttributes, CapChildren or CapStyles, so a
// cached style does not reflect mutations made earlier in the same pass.
func (d *Document) ComputedStyle(id NodeID, rules []StyleRule) Style {
	r := d.rec(id)
	if r.style != nil && r.styleEpoch == d.epoch {
		return r.style
	}
	out := make(Style)
	for _, rule := range rules {
		if d.Matches(id, rule.Selector) {
			for k, v := range rule.Props {
				out[k] = v
			}
		}
	}
	for _, a := range r.attrs {
		if a.Name.URI == "" && presentationAttrs[a.Name.Local] {
			out[a.Name.Local] = a.Value
		}
	}
	if inline, ok := d.AttrLocal(id, "style"); ok {
		for k, v := range ParseDeclarations(inline) {
			out[k] = v
		}
	}
	r.style = out
	r.styleEpoch = d.epoch
	return out
}
