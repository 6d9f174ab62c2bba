package job

import (
	"math"
	"strconv"
	"strings"

	"github.com/optisvg/optisvg/dom"
	"github.com/optisvg/optisvg/pathdata"
)

// numericAttrs lists attributes whose value is a single plain length or
// number, independent of path data (handled by ConvertPathData) and
// transform lists (handled by ConvertTransform).
var numericAttrs = map[string]bool{
	"x": true, "y": true, "cx": true, "cy": true, "r": true, "rx": true, "ry": true,
	"x1": true, "y1": true, "x2": true, "y2": true, "width": true, "height": true,
	"stroke-width": true, "stroke-dashoffset": true, "stroke-miterlimit": true,
	"opacity": true, "fill-opacity": true, "stroke-opacity": true, "offset": true,
}

// CleanupNumericValues rounds numeric attribute values to Precision
// fractional digits and strips a trailing "px" unit suffix (SVG user
// units and CSS pixels are the same length, so "px" is always redundant
// weight). Percentage values and any other unit suffix are left alone,
// since those aren't safe to just truncate the suffix from.
type CleanupNumericValues struct {
	dom.BaseVisitor
	Precision int `json:"precision"`
}

func (j *CleanupNumericValues) Name() string                  { return "cleanupNumericValues" }
func (j *CleanupNumericValues) Capabilities() dom.Capabilities { return dom.CapAttributes }
func (j *CleanupNumericValues) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *CleanupNumericValues) EnterElement(c dom.Cursor) (dom.Action, error) {
	var edits []dom.Attr
	c.Doc.RangeAttrs(c.ID, func(a dom.Attr) bool {
		if a.Name.URI != "" || !numericAttrs[a.Name.Local] {
			return true
		}
		if nv, changed := cleanupNumber(a.Value, j.Precision); changed {
			edits = append(edits, dom.Attr{Name: a.Name, Value: nv})
		}
		return true
	})
	for _, e := range edits {
		c.Doc.SetAttr(c.ID, e.Name, e.Value)
	}
	return dom.Keep(), nil
}

func cleanupNumber(v string, precision int) (string, bool) {
	s := strings.TrimSpace(v)
	trimmed := strings.TrimSuffix(s, "px")
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return "", false
	}
	if precision >= 0 {
		m := math.Pow(10, float64(precision))
		f = math.Round(f*m) / m
	}
	out := pathdata.FormatNumber(f)
	return out, out != v
}
