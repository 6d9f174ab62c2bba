package job

import (
	"regexp"
	"strings"

	"github.com/optisvg/optisvg/dom"
)

// RemoveComments drops comment nodes, except those whose text matches a
// regular expression in PreservePatterns (spec.md §4.4's "preserve
// patterns" escape hatch for license headers and similar, exercised by
// spec.md §8 scenario S4).
type RemoveComments struct {
	dom.BaseVisitor
	PreservePatterns []string `json:"preservePatterns,omitempty"`

	compiled []*regexp.Regexp
	built    bool
}

func (j *RemoveComments) Name() string                  { return "removeComments" }
func (j *RemoveComments) Capabilities() dom.Capabilities { return dom.CapChildren }
func (j *RemoveComments) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveComments) Reset() { j.built = false; j.compiled = nil }

func (j *RemoveComments) ensureCompiled() {
	if j.built {
		return
	}
	j.built = true
	for _, p := range j.PreservePatterns {
		if re, err := regexp.Compile(p); err == nil {
			j.compiled = append(j.compiled, re)
		}
	}
}

func (j *RemoveComments) VisitComment(c dom.Cursor) (dom.Action, error) {
	j.ensureCompiled()
	text := c.Doc.Data(c.ID)
	for _, re := range j.compiled {
		if re.MatchString(text) {
			return dom.Keep(), nil
		}
	}
	return dom.Remove(), nil
}

// RemoveMetadata drops <metadata> elements wholesale; their contents are
// RDF/Dublin-Core bookkeeping with no rendering effect.
type RemoveMetadata struct{ dom.BaseVisitor }

func (j *RemoveMetadata) Name() string                  { return "removeMetadata" }
func (j *RemoveMetadata) Capabilities() dom.Capabilities { return dom.CapChildren }
func (j *RemoveMetadata) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveMetadata) EnterElement(c dom.Cursor) (dom.Action, error) {
	if c.Doc.LocalName(c.ID) == "metadata" {
		return dom.Remove(), nil
	}
	return dom.Keep(), nil
}

// RemoveDoctype drops the document's DOCTYPE declaration, if present.
// Doctype nodes are document-level children, outside the element/text/
// comment/proc-inst callbacks Visitor exposes, so this walks the root's
// direct children itself from StartDocument rather than via Action.
type RemoveDoctype struct{ dom.BaseVisitor }

func (j *RemoveDoctype) Name() string                  { return "removeDoctype" }
func (j *RemoveDoctype) Capabilities() dom.Capabilities { return dom.CapChildren }
func (j *RemoveDoctype) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveDoctype) StartDocument(c dom.Cursor) error {
	for _, child := range c.Doc.Children(c.ID) {
		if c.Doc.Kind(child) == dom.KindDoctype {
			c.Doc.Detach(child)
		}
	}
	return nil
}

// RemoveXMLProcInst drops the leading "<?xml ...?>" declaration. Other
// processing instructions (e.g. xml-stylesheet) are left alone since they
// can affect rendering/tooling.
type RemoveXMLProcInst struct{ dom.BaseVisitor }

func (j *RemoveXMLProcInst) Name() string                  { return "removeXMLProcInst" }
func (j *RemoveXMLProcInst) Capabilities() dom.Capabilities { return dom.CapChildren }
func (j *RemoveXMLProcInst) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveXMLProcInst) VisitProcInst(c dom.Cursor) (dom.Action, error) {
	if strings.EqualFold(c.Doc.LocalName(c.ID), "xml") {
		return dom.Remove(), nil
	}
	return dom.Keep(), nil
}

// editorNamespaceURIs identifies namespaces that exist purely to carry
// vendor editor metadata (Inkscape, Sodipodi, Adobe Illustrator) with no
// rendering effect.
var editorNamespaceURIs = []string{
	"http://www.inkscape.org/namespaces/inkscape",
	"http://sodipodi.sourceforge.net/DTD/sodipodi-0.0.dtd",
	"http://ns.adobe.com/AdobeIllustrator/10.0/",
	"http://ns.adobe.com/Graphs/1.0/",
	"http://ns.adobe.com/Variables/1.0/",
	"http://ns.adobe.com/SaveForWeb/1.0/",
	"http://ns.adobe.com/Extensibility/1.0/",
	"http://ns.adobe.com/Flows/1.0/",
	"http://ns.adobe.com/ImageReplacement/1.0/",
	"http://ns.adobe.com/GenericCustomNamespace/1.0/",
	"http://ns.adobe.com/XPath/1.0/",
	"http://schemas.microsoft.com/visio/2003/SVGExtensions/",
	"http://taptrix.com/vectorillustrator/svg_extensions",
	"http://www.figma.com/figma/ns",
}

func isEditorNamespace(uri string) bool {
	for _, u := range editorNamespaceURIs {
		if u == uri {
			return true
		}
	}
	return false
}

// RemoveEditorsData removes elements and attributes belonging to known
// vector-editor metadata namespaces, and editor-specific top-level
// elements such as <sodipodi:namedview>.
type RemoveEditorsData struct{ dom.BaseVisitor }

func (j *RemoveEditorsData) Name() string                  { return "removeEditorsData" }
func (j *RemoveEditorsData) Capabilities() dom.Capabilities { return dom.CapChildren | dom.CapAttributes }
func (j *RemoveEditorsData) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveEditorsData) EnterElement(c dom.Cursor) (dom.Action, error) {
	name := c.Doc.QName(c.ID)
	if isEditorNamespace(name.URI) {
		return dom.Remove(), nil
	}
	var drop []dom.Name
	c.Doc.RangeAttrs(c.ID, func(a dom.Attr) bool {
		if isEditorNamespace(a.Name.URI) {
			drop = append(drop, a.Name)
		}
		return true
	})
	for _, n := range drop {
		c.Doc.RemoveAttr(c.ID, n)
	}
	decls := c.Doc.NamespaceDecls(c.ID)
	for prefix, uri := range decls {
		if isEditorNamespace(uri) {
			delete(decls, prefix)
		}
	}
	return dom.Keep(), nil
}

// RemoveEmptyText drops text nodes that contain only whitespace, which in
// a non-text-layout format like SVG serve no purpose beyond
// pretty-printing indentation.
type RemoveEmptyText struct{ dom.BaseVisitor }

func (j *RemoveEmptyText) Name() string                  { return "removeEmptyText" }
func (j *RemoveEmptyText) Capabilities() dom.Capabilities { return dom.CapChildren }
func (j *RemoveEmptyText) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveEmptyText) VisitText(c dom.Cursor) (dom.Action, error) {
	if strings.TrimSpace(c.Doc.Data(c.ID)) == "" {
		return dom.Remove(), nil
	}
	return dom.Keep(), nil
}

// RemoveEmptyContainers drops grouping elements left with no children
// after earlier jobs ran, excluding containers whose emptiness is itself
// meaningful (clipPath, mask, pattern). Runs post-order so a container
// whose only children were themselves emptied containers also collapses.
type RemoveEmptyContainers struct{ dom.BaseVisitor }

func (j *RemoveEmptyContainers) Name() string                  { return "removeEmptyContainers" }
func (j *RemoveEmptyContainers) Capabilities() dom.Capabilities { return dom.CapChildren }
func (j *RemoveEmptyContainers) Order() dom.TraversalOrder      { return dom.PostOrder }

func (j *RemoveEmptyContainers) ExitElement(c dom.Cursor) (dom.Action, error) {
	name := c.Doc.LocalName(c.ID)
	if !containerElements[name] || neverEmptyContainers[name] {
		return dom.Keep(), nil
	}
	if name == "svg" && c.Doc.Parent(c.ID) == c.Doc.Root() {
		return dom.Keep(), nil // never remove the document's root <svg>
	}
	if c.Doc.ChildCount(c.ID) == 0 {
		return dom.Remove(), nil
	}
	return dom.Keep(), nil
}

// hiddenDisplay/hiddenVisibility are the presentation-attribute
// values that make an element (and its subtree) never render.
const (
	hiddenDisplay    = "none"
	hiddenVisibility = "hidden"
)

// RemoveHidden drops elements whose own presentation attributes or inline
// style set display:none, childless elements set to visibility:hidden,
// and <path> elements with a missing or empty d, since none of them ever
// produce visible output. Scoped to an element's own attributes and
// inline style, not the full CSS cascade; opacity is not consulted.
type RemoveHidden struct{ dom.BaseVisitor }

func (j *RemoveHidden) Name() string                  { return "removeHidden" }
func (j *RemoveHidden) Capabilities() dom.Capabilities { return dom.CapChildren }
func (j *RemoveHidden) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveHidden) EnterElement(c dom.Cursor) (dom.Action, error) {
	if own, ok := ownStyle(c.Doc, c.ID)["display"]; ok && own == hiddenDisplay {
		return dom.Remove(), nil
	}
	if own, ok := ownStyle(c.Doc, c.ID)["visibility"]; ok && own == hiddenVisibility {
		// visibility:hidden is inheritable-but-overridable, so unlike
		// display:none it cannot be pruned without checking descendants
		// for a visibility:visible override; conservatively, only prune
		// when this element has no children that could re-enable it.
		if c.Doc.ChildCount(c.ID) == 0 {
			return dom.Remove(), nil
		}
	}
	if c.Doc.LocalName(c.ID) == "path" {
		if d, ok := c.Doc.AttrLocal(c.ID, "d"); !ok || strings.TrimSpace(d) == "" {
			return dom.Remove(), nil
		}
	}
	return dom.Keep(), nil
}

// ownStyle composes an element's presentation attributes with its inline
// style attribute only (no <style> block matching), for jobs that need a
// best-effort style view without the cost of a full cascade.
func ownStyle(d *dom.Document, id dom.NodeID) dom.Style {
	out := make(dom.Style)
	d.RangeAttrs(id, func(a dom.Attr) bool {
		if a.Name.URI == "" && dom.IsPresentationAttr(a.Name.Local) {
			out[a.Name.Local] = a.Value
		}
		return true
	})
	if inline, ok := d.AttrLocal(id, "style"); ok {
		for k, v := range dom.ParseDeclarations(inline) {
			out[k] = v
		}
	}
	return out
}

// RemoveEmptyAttrs drops attributes whose value is the empty string; an
// empty attribute is never meaningful in SVG's attribute grammar.
type RemoveEmptyAttrs struct{ dom.BaseVisitor }

func (j *RemoveEmptyAttrs) Name() string                  { return "removeEmptyAttrs" }
func (j *RemoveEmptyAttrs) Capabilities() dom.Capabilities { return dom.CapAttributes }
func (j *RemoveEmptyAttrs) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveEmptyAttrs) EnterElement(c dom.Cursor) (dom.Action, error) {
	var drop []dom.Name
	c.Doc.RangeAttrs(c.ID, func(a dom.Attr) bool {
		if a.Value == "" {
			drop = append(drop, a.Name)
		}
		return true
	})
	for _, n := range drop {
		c.Doc.RemoveAttr(c.ID, n)
	}
	return dom.Keep(), nil
}

// uselessDefaults maps attribute name to the value it takes implicitly,
// per element, when absent; setting it explicitly to that value is a
// no-op that only costs bytes. Keyed by "element/attr"; an element of "*"
// matches any element.
var uselessDefaults = map[string]string{
	"*/opacity":           "1",
	"*/fill-opacity":      "1",
	"*/stroke-opacity":    "1",
	"*/stroke-width":      "1",
	"*/stroke-dasharray":  "none",
	"*/stroke-dashoffset": "0",
	"*/stroke-linecap":    "butt",
	"*/stroke-linejoin":   "miter",
	"*/stroke-miterlimit": "4",
	"*/fill-rule":         "nonzero",
	"*/clip-rule":         "nonzero",
	"svg/x":                "0",
	"svg/y":                "0",
	"rect/x":               "0",
	"rect/y":               "0",
	"use/x":                "0",
	"use/y":                "0",
	"image/x":              "0",
	"image/y":              "0",
}

// RemoveUselessDefaults removes explicit attributes whose value matches
// the attribute's implicit default for that element (spec.md's "useless
// default" edge case).
type RemoveUselessDefaults struct{ dom.BaseVisitor }

func (j *RemoveUselessDefaults) Name() string                  { return "removeUselessDefaults" }
func (j *RemoveUselessDefaults) Capabilities() dom.Capabilities { return dom.CapAttributes }
func (j *RemoveUselessDefaults) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveUselessDefaults) EnterElement(c dom.Cursor) (dom.Action, error) {
	elem := c.Doc.LocalName(c.ID)
	var drop []string
	c.Doc.RangeAttrs(c.ID, func(a dom.Attr) bool {
		if a.Name.URI != "" {
			return true
		}
		if def, ok := uselessDefaults[elem+"/"+a.Name.Local]; ok && a.Value == def {
			drop = append(drop, a.Name.Local)
			return true
		}
		if def, ok := uselessDefaults["*/"+a.Name.Local]; ok && a.Value == def {
			drop = append(drop, a.Name.Local)
		}
		return true
	})
	for _, n := range drop {
		c.Doc.RemoveAttrLocal(c.ID, n)
	}
	return dom.Keep(), nil
}

// CleanupEnableBackground removes the legacy, Adobe-only
// "enable-background" attribute/style property, which modern renderers
// ignore entirely.
type CleanupEnableBackground struct{ dom.BaseVisitor }

func (j *CleanupEnableBackground) Name() string                  { return "cleanupEnableBackground" }
func (j *CleanupEnableBackground) Capabilities() dom.Capabilities { return dom.CapAttributes }
func (j *CleanupEnableBackground) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *CleanupEnableBackground) EnterElement(c dom.Cursor) (dom.Action, error) {
	c.Doc.RemoveAttrLocal(c.ID, "enable-background")
	if style, ok := c.Doc.AttrLocal(c.ID, "style"); ok {
		decls := dom.ParseDeclarations(style)
		if _, had := decls["enable-background"]; had {
			delete(decls, "enable-background")
			c.Doc.SetAttrLocal(c.ID, "style", decls.WriteDeclarations(nil))
		}
	}
	return dom.Keep(), nil
}

// CleanupAttrs normalises incidental whitespace inside a small set of
// list-valued attributes (class, points) that authoring tools sometimes
// pad or separate inconsistently.
type CleanupAttrs struct{ dom.BaseVisitor }

func (j *CleanupAttrs) Name() string                  { return "cleanupAttrs" }
func (j *CleanupAttrs) Capabilities() dom.Capabilities { return dom.CapAttributes }
func (j *CleanupAttrs) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *CleanupAttrs) EnterElement(c dom.Cursor) (dom.Action, error) {
	if v, ok := c.Doc.AttrLocal(c.ID, "class"); ok {
		c.Doc.SetAttrLocal(c.ID, "class", strings.Join(strings.Fields(v), " "))
	}
	if v, ok := c.Doc.AttrLocal(c.ID, "points"); ok {
		c.Doc.SetAttrLocal(c.ID, "points", strings.Join(strings.Fields(strings.ReplaceAll(v, ",", " ")), " "))
	}
	return dom.Keep(), nil
}

// knownAttrsByElement is a conservative allowlist used by
// RemoveUnknownsAndDefaults to spot clearly-bogus attributes (editor
// crumbs not caught by namespace, typos); anything not recognised as
// global or shape-specific is left alone rather than risk dropping a
// legitimate but less common attribute.
var globalAttrs = map[string]bool{
	"id": true, "class": true, "style": true, "transform": true,
	"clip-path": true, "mask": true, "filter": true, "opacity": true,
	"fill": true, "fill-opacity": true, "fill-rule": true,
	"stroke": true, "stroke-width": true, "stroke-opacity": true,
	"stroke-linecap": true, "stroke-linejoin": true, "stroke-dasharray": true,
	"stroke-dashoffset": true, "stroke-miterlimit": true,
	"display": true, "visibility": true, "color": true,
	"font-family": true, "font-size": true, "font-weight": true, "font-style": true,
	"text-anchor": true, "letter-spacing": true, "word-spacing": true,
	"marker-start": true, "marker-mid": true, "marker-end": true,
	"stop-color": true, "stop-opacity": true, "enable-background": true,
	"xmlns": true, "version": true, "viewBox": true,
	"width": true, "height": true, "x": true, "y": true,
	"preserveAspectRatio": true, "xml:space": true,
}

// RemoveUnknownsAndDefaults is the more aggressive counterpart to
// RemoveUselessDefaults: it also strips attributes that are neither a
// known global attribute nor a recognised attribute of the element
// carrying them. Deliberately conservative: the allowlist only covers
// SVG's common global and presentation attributes, so element-specific
// ones (e.g. <rect>'s rx) are accepted on every element rather than risk
// a false positive.
type RemoveUnknownsAndDefaults struct {
	dom.BaseVisitor
	ElementAttrs map[string]map[string]bool `json:"elementAttrs,omitempty"` // element -> its own attrs, in addition to globalAttrs
}

func (j *RemoveUnknownsAndDefaults) Name() string { return "removeUnknownsAndDefaults" }
func (j *RemoveUnknownsAndDefaults) Capabilities() dom.Capabilities {
	return dom.CapAttributes
}
func (j *RemoveUnknownsAndDefaults) Order() dom.TraversalOrder { return dom.PreOrder }

func (j *RemoveUnknownsAndDefaults) EnterElement(c dom.Cursor) (dom.Action, error) {
	elem := c.Doc.LocalName(c.ID)
	own := j.ElementAttrs[elem]
	var drop []dom.Name
	c.Doc.RangeAttrs(c.ID, func(a dom.Attr) bool {
		if a.Name.URI != "" || a.Name.Prefix != "" {
			return true // namespaced attrs (xlink:href, etc.) are never "unknown"
		}
		if globalAttrs[a.Name.Local] || own[a.Name.Local] || shapeSpecificAttrs[elem][a.Name.Local] {
			return true
		}
		drop = append(drop, a.Name)
		return true
	})
	for _, n := range drop {
		c.Doc.RemoveAttr(c.ID, n)
	}
	return dom.Keep(), nil
}

// shapeSpecificAttrs names the handful of attributes each basic shape
// uses that aren't part of globalAttrs.
var shapeSpecificAttrs = map[string]map[string]bool{
	"rect":     {"x": true, "y": true, "width": true, "height": true, "rx": true, "ry": true},
	"circle":   {"cx": true, "cy": true, "r": true},
	"ellipse":  {"cx": true, "cy": true, "rx": true, "ry": true},
	"line":     {"x1": true, "y1": true, "x2": true, "y2": true},
	"polyline": {"points": true},
	"polygon":  {"points": true},
	"path":     {"d": true, "pathLength": true},
	"use":      {"x": true, "y": true, "width": true, "height": true},
	"stop":     {"offset": true},
	"linearGradient": {"x1": true, "y1": true, "x2": true, "y2": true,
		"gradientUnits": true, "gradientTransform": true, "spreadMethod": true},
	"radialGradient": {"cx": true, "cy": true, "r": true, "fx": true, "fy": true,
		"gradientUnits": true, "gradientTransform": true, "spreadMethod": true},
}
