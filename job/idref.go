package job

import (
	"strings"

	"github.com/optisvg/optisvg/dom"
)

// extractURLRef pulls the id out of a "url(#id)" functional value,
// returning ok=false if v is not (only) such a reference.
func extractURLRef(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	inner := strings.TrimSpace(v[len("url(") : len(v)-1])
	inner = strings.Trim(inner, `"'`)
	if !strings.HasPrefix(inner, "#") {
		return "", false
	}
	return inner[1:], true
}

// extractBareRef pulls the id out of a bare "#id" reference (href and
// xlink:href values).
func extractBareRef(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "#") {
		return "", false
	}
	return v[1:], true
}

// refsIn returns every id referenced by one attribute value, covering
// both the bare-"#id" and "url(#id)" conventions (a value such as a
// style declaration's "fill:url(#x)" is handled by the caller extracting
// the declaration value first).
func refsIn(v string) []string {
	var out []string
	if id, ok := extractBareRef(v); ok {
		out = append(out, id)
	}
	if id, ok := extractURLRef(v); ok {
		out = append(out, id)
	}
	return out
}

// collectIDRefs walks the whole document and returns the set of ids
// referenced from anywhere: href/xlink:href attributes, url(#id)-valued
// presentation attributes, and url(#id) inside inline style declarations.
// Used by remove-useless-defs to decide which ids are load-bearing.
func collectIDRefs(doc *dom.Document) map[string]bool {
	refs := make(map[string]bool)
	var walk func(id dom.NodeID)
	walk = func(id dom.NodeID) {
		if doc.Kind(id) == dom.KindElement {
			for _, a := range refAttrs {
				if v, ok := doc.AttrLocal(id, a); ok {
					for _, r := range refsIn(v) {
						refs[r] = true
					}
				}
			}
			if v, ok := doc.Attr(id, refAttrsNS); ok {
				for _, r := range refsIn(v) {
					refs[r] = true
				}
			}
			for _, a := range urlRefAttrs {
				if v, ok := doc.AttrLocal(id, a); ok {
					if r, ok := extractURLRef(v); ok {
						refs[r] = true
					}
				}
			}
			if style, ok := doc.AttrLocal(id, "style"); ok {
				for _, v := range dom.ParseDeclarations(style) {
					if r, ok := extractURLRef(v); ok {
						refs[r] = true
					}
				}
			}
		}
		for c := doc.FirstChild(id); c != dom.NilNode; c = doc.NextSibling(c) {
			walk(c)
		}
	}
	walk(doc.Root())
	return refs
}

// rewriteIDRefs rewrites every reference to an id present in rename
// (oldID -> newID) throughout the document. Used by minify-ids and
// prefix-ids after they've decided on the new names.
func rewriteIDRefs(doc *dom.Document, rename map[string]string) {
	var walk func(id dom.NodeID)
	walk = func(id dom.NodeID) {
		if doc.Kind(id) == dom.KindElement {
			for _, a := range refAttrs {
				if v, ok := doc.AttrLocal(id, a); ok {
					if nv, changed := rewriteRefValue(v, rename); changed {
						doc.SetAttrLocal(id, a, nv)
					}
				}
			}
			if v, ok := doc.Attr(id, refAttrsNS); ok {
				if nv, changed := rewriteRefValue(v, rename); changed {
					doc.SetAttr(id, refAttrsNS, nv)
				}
			}
			for _, a := range urlRefAttrs {
				if v, ok := doc.AttrLocal(id, a); ok {
					if nv, changed := rewriteRefValue(v, rename); changed {
						doc.SetAttrLocal(id, a, nv)
					}
				}
			}
			if style, ok := doc.AttrLocal(id, "style"); ok {
				decls := dom.ParseDeclarations(style)
				changedAny := false
				for k, v := range decls {
					if nv, changed := rewriteRefValue(v, rename); changed {
						decls[k] = nv
						changedAny = true
					}
				}
				if changedAny {
					doc.SetAttrLocal(id, "style", decls.WriteDeclarations(nil))
				}
			}
		}
		for c := doc.FirstChild(id); c != dom.NilNode; c = doc.NextSibling(c) {
			walk(c)
		}
	}
	walk(doc.Root())
}

func rewriteRefValue(v string, rename map[string]string) (string, bool) {
	if id, ok := extractBareRef(v); ok {
		if nid, ok := rename[id]; ok {
			return "#" + nid, true
		}
		return v, false
	}
	if id, ok := extractURLRef(v); ok {
		if nid, ok := rename[id]; ok {
			return "url(#" + nid + ")", true
		}
		return v, false
	}
	return v, false
}
