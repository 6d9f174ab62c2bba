package job

import (
	"math"
	"strconv"
	"strings"

	"github.com/optisvg/optisvg/dom"
	"github.com/optisvg/optisvg/pathdata"
)

// matrix2D is a 2D affine transform in SVG's row-major a,b,c,d,e,f form:
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
type matrix2D struct{ a, b, c, d, e, f float64 }

func identityMatrix() matrix2D { return matrix2D{a: 1, d: 1} }

func (m matrix2D) isIdentity() bool {
	return m.a == 1 && m.b == 0 && m.c == 0 && m.d == 1 && m.e == 0 && m.f == 0
}

// multiply composes m then n: a point is mapped by m first and by n after
// it (n * m in matrix terms).
func (m matrix2D) multiply(n matrix2D) matrix2D {
	return matrix2D{
		a: n.a*m.a + n.c*m.b,
		b: n.b*m.a + n.d*m.b,
		c: n.a*m.c + n.c*m.d,
		d: n.b*m.c + n.d*m.d,
		e: n.a*m.e + n.c*m.f + n.e,
		f: n.b*m.e + n.d*m.f + n.f,
	}
}

// parseTransformList parses an SVG `transform` attribute value into a
// composed matrix. Unparseable input returns ok=false, leaving the
// attribute untouched rather than risk silently discarding a transform
// the caller doesn't understand.
func parseTransformList(v string) (matrix2D, bool) {
	m := identityMatrix()
	sc := &transformScanner{s: v}
	found := false
	for {
		name, args, ok := sc.next()
		if !ok {
			break
		}
		found = true
		fn, ok := transformFuncs[name]
		if !ok {
			return matrix2D{}, false
		}
		next, ok := fn(args)
		if !ok {
			return matrix2D{}, false
		}
		m = next.multiply(m) // the rightmost function maps points first
	}
	if !found || !sc.eof() {
		return matrix2D{}, false
	}
	return m, true
}

var transformFuncs = map[string]func([]float64) (matrix2D, bool){
	"matrix": func(a []float64) (matrix2D, bool) {
		if len(a) != 6 {
			return matrix2D{}, false
		}
		return matrix2D{a[0], a[1], a[2], a[3], a[4], a[5]}, true
	},
	"translate": func(a []float64) (matrix2D, bool) {
		switch len(a) {
		case 1:
			return matrix2D{a: 1, d: 1, e: a[0]}, true
		case 2:
			return matrix2D{a: 1, d: 1, e: a[0], f: a[1]}, true
		}
		return matrix2D{}, false
	},
	"scale": func(a []float64) (matrix2D, bool) {
		switch len(a) {
		case 1:
			return matrix2D{a: a[0], d: a[0]}, true
		case 2:
			return matrix2D{a: a[0], d: a[1]}, true
		}
		return matrix2D{}, false
	},
	"rotate": func(a []float64) (matrix2D, bool) {
		if len(a) != 1 && len(a) != 3 {
			return matrix2D{}, false
		}
		rad := a[0] * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		rot := matrix2D{a: cos, b: sin, c: -sin, d: cos}
		if len(a) == 1 {
			return rot, true
		}
		cx, cy := a[1], a[2]
		return identityMatrix().
			multiply(matrix2D{a: 1, d: 1, e: -cx, f: -cy}).
			multiply(rot).
			multiply(matrix2D{a: 1, d: 1, e: cx, f: cy}), true
	},
	"skewX": func(a []float64) (matrix2D, bool) {
		if len(a) != 1 {
			return matrix2D{}, false
		}
		return matrix2D{a: 1, d: 1, c: math.Tan(a[0] * math.Pi / 180)}, true
	},
	"skewY": func(a []float64) (matrix2D, bool) {
		if len(a) != 1 {
			return matrix2D{}, false
		}
		return matrix2D{a: 1, d: 1, b: math.Tan(a[0] * math.Pi / 180)}, true
	},
}

// transformScanner tokenizes "name(args) name(args) ..." text.
type transformScanner struct {
	s   string
	pos int
}

func (sc *transformScanner) eof() bool {
	return strings.TrimSpace(sc.s[sc.pos:]) == ""
}

func (sc *transformScanner) next() (string, []float64, bool) {
	sc.skipSep()
	if sc.pos >= len(sc.s) {
		return "", nil, false
	}
	start := sc.pos
	for sc.pos < len(sc.s) && sc.s[sc.pos] != '(' {
		sc.pos++
	}
	if sc.pos >= len(sc.s) {
		return "", nil, false
	}
	name := strings.TrimSpace(sc.s[start:sc.pos])
	sc.pos++ // skip '('
	argStart := sc.pos
	for sc.pos < len(sc.s) && sc.s[sc.pos] != ')' {
		sc.pos++
	}
	if sc.pos >= len(sc.s) {
		return "", nil, false
	}
	argStr := sc.s[argStart:sc.pos]
	sc.pos++ // skip ')'

	var args []float64
	for _, f := range strings.FieldsFunc(argStr, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	}) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return "", nil, false
		}
		args = append(args, v)
	}
	return name, args, true
}

func (sc *transformScanner) skipSep() {
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == ',' || sc.s[sc.pos] == '\t' || sc.s[sc.pos] == '\n') {
		sc.pos++
	}
}

// ConvertTransform collapses a `transform` attribute's list of functions
// into a single equivalent matrix(...) (or drops the attribute entirely
// when it resolves to the identity), and renders its numbers through the
// same compact formatting pathdata uses for path numbers.
type ConvertTransform struct{ dom.BaseVisitor }

func (j *ConvertTransform) Name() string                  { return "convertTransform" }
func (j *ConvertTransform) Capabilities() dom.Capabilities { return dom.CapAttributes | dom.CapStyles }
func (j *ConvertTransform) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *ConvertTransform) EnterElement(c dom.Cursor) (dom.Action, error) {
	v, ok := c.Doc.AttrLocal(c.ID, "transform")
	if !ok {
		return dom.Keep(), nil
	}
	m, ok := parseTransformList(v)
	if !ok {
		return dom.Keep(), nil
	}
	if m.isIdentity() {
		c.Doc.RemoveAttrLocal(c.ID, "transform")
		return dom.Keep(), nil
	}
	c.Doc.SetAttrLocal(c.ID, "transform", formatMatrix(m))
	return dom.Keep(), nil
}

func formatMatrix(m matrix2D) string {
	return "matrix(" + pathdata.FormatNumber(m.a) + " " + pathdata.FormatNumber(m.b) + " " +
		pathdata.FormatNumber(m.c) + " " + pathdata.FormatNumber(m.d) + " " +
		pathdata.FormatNumber(m.e) + " " + pathdata.FormatNumber(m.f) + ")"
}
