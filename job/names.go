package job

import "github.com/optisvg/optisvg/dom"

// svgName is the unqualified-name shorthand used throughout this package:
// SVG's own elements and attributes carry no namespace prefix in the
// overwhelming majority of real documents, so jobs compare against
// dom.Document.LocalName/AttrLocal directly rather than full dom.Name
// values.
func svgName(local string) dom.Name { return dom.Name{Local: local} }

// containerElements are elements whose sole purpose is to group other
// content; several jobs (remove-empty-containers, collapse-groups) treat
// them specially once they have no children left to group.
var containerElements = map[string]bool{
	"g": true, "svg": true, "defs": true, "symbol": true,
	"clipPath": true, "mask": true, "pattern": true, "marker": true,
	"switch": true, "a": true,
}

// neverEmptyContainers are containers that stay meaningful even with no
// children (an empty <clipPath id="x"/> still clips everything away,
// which is a real, intentional effect some authors rely on) and so are
// excluded from remove-empty-containers.
var neverEmptyContainers = map[string]bool{
	"clipPath": true, "mask": true, "pattern": true,
}

// shapeElements are the basic shapes convert-shape-to-path knows how to
// rewrite as an equivalent <path>.
var shapeElements = map[string]bool{
	"rect": true, "circle": true, "ellipse": true,
	"line": true, "polyline": true, "polygon": true,
}

// refAttrs lists the attributes whose value may be a bare ID reference
// ("#id") rather than a "url(#id)" functional reference, used by
// collectIDRefs and rewriteIDRefs (remove-useless-defs, minify-ids,
// prefix-ids) to find every place an id is consumed.
var refAttrs = []string{"href"}

// refAttrsNS is the xlink-namespaced legacy spelling of href, still common
// in hand-authored and older-tool-produced SVG.
var refAttrsNS = dom.Name{URI: "http://www.w3.org/1999/xlink", Local: "href"}

// urlRefAttrs lists presentation attributes whose value may contain a
// "url(#id)" functional reference.
var urlRefAttrs = []string{
	"fill", "stroke", "clip-path", "mask", "filter",
	"marker-start", "marker-mid", "marker-end", "marker",
}
