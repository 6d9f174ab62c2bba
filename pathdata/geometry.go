package pathdata

import "math"

// MinifyOptions controls the geometry-preserving rewrites Minify applies
// (spec.md §4.3). Precision fields of -1 disable rounding for that axis.
type MinifyOptions struct {
	// Precision rounds absolute cursor positions (and standalone lengths
	// such as radii) to this many fractional digits.
	Precision int `json:"precision"`
	// DeltaPrecision rounds the numeric arguments of relative commands
	// independently of Precision, since a relative delta that looks small
	// can still need more digits than the absolute position it's anchored
	// to, and vice versa (spec.md §4.3).
	DeltaPrecision int `json:"deltaPrecision"`
	// CollinearEpsilon is the tolerance IsDegenerate uses when deciding
	// whether a curve has collapsed to a line. Zero selects a small
	// default.
	CollinearEpsilon float64 `json:"collinearEpsilon,omitempty"`
	// PreferRelative breaks ties towards relative commands when absolute
	// and relative forms serialize to the same length; PreferAbsolute does
	// the opposite. If neither is set, the shorter serialized form wins
	// and ties favor whichever form the input already used.
	PreferRelative bool `json:"preferRelative,omitempty"`
	PreferAbsolute bool `json:"preferAbsolute,omitempty"`
}

func (o MinifyOptions) epsilon() float64 {
	if o.CollinearEpsilon > 0 {
		return o.CollinearEpsilon
	}
	return 1e-6
}

// Minify returns a new Path holding a shorter, geometrically equivalent
// command sequence: it picks the shorter of relative/absolute per
// command, folds H/V/L where that is shorter, collapses degenerate
// curves to lines, promotes reflectable curves to their smooth (S/T)
// shortcut, drops redundant consecutive M's and zero-length segments, and
// rounds numeric precision (spec.md §4.3).
func Minify(p Path, opts MinifyOptions) Path {
	out := make([]Command, 0, len(p.Commands))
	cur := Point{}
	subpathStart := Point{}
	var prevCtrl Point
	havePrevCtrl := false

	for _, c := range p.Commands {
		// ClosePath returns to the current subpath's start.
		resolvedEnd := c.EndPoint(cur)
		if c.Type == ClosePath {
			resolvedEnd = subpathStart
		}

		if c.Type == MoveTo && len(out) > 0 && out[len(out)-1].Type == MoveTo {
			// Collapse consecutive M's: only the last one's destination
			// matters.
			out = out[:len(out)-1]
		}

		rc := c
		if c.Type == CubicTo || c.Type == SmoothCubicTo || c.Type == QuadTo {
			if c.IsDegenerate(cur, opts.epsilon()) {
				rc = Command{Type: LineTo, Relative: c.Relative, Args: endArgs(c)}
			}
		}

		rc = promoteSmooth(rc, cur, prevCtrl, havePrevCtrl)

		if isZeroLength(rc, cur, resolvedEnd) && rc.Type != ClosePath && rc.Type != MoveTo {
			cur = resolvedEnd
			continue
		}

		best := chooseForm(rc, cur, opts)
		best = roundCommand(best, opts)
		out = append(out, best)

		if ctrl, ok := c.ControlPoint(cur); ok {
			prevCtrl, havePrevCtrl = ctrl, true
		} else {
			havePrevCtrl = false
		}

		if c.Type == MoveTo {
			subpathStart = resolvedEnd
		}
		cur = resolvedEnd
	}
	return Path{Commands: out}
}

func endArgs(c Command) []float64 {
	switch c.Type {
	case CubicTo:
		return []float64{c.Args[4], c.Args[5]}
	case SmoothCubicTo, QuadTo:
		return []float64{c.Args[2], c.Args[3]}
	default:
		return c.Args
	}
}

// promoteSmooth rewrites a cubic/quad command into its S/T shortcut when
// its first control point is the reflection of the previous command's
// control point across cur, per spec.md §4.3's "promote to smooth
// shortcut when the implicit reflected control point matches".
func promoteSmooth(c Command, cur, prevCtrl Point, havePrevCtrl bool) Command {
	if !havePrevCtrl {
		return c
	}
	reflected := Point{2*cur.X - prevCtrl.X, 2*cur.Y - prevCtrl.Y}
	switch c.Type {
	case CubicTo:
		c1 := absCtrl(c, cur, 0)
		if closeEnough(c1, reflected, 1e-6) {
			rest := []float64{c.Args[2], c.Args[3], c.Args[4], c.Args[5]}
			return Command{Type: SmoothCubicTo, Relative: c.Relative, Args: rest}
		}
	case QuadTo:
		c1 := absCtrl(c, cur, 0)
		if closeEnough(c1, reflected, 1e-6) {
			return Command{Type: SmoothQuadTo, Relative: c.Relative, Args: []float64{c.Args[2], c.Args[3]}}
		}
	}
	return c
}

func closeEnough(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func isZeroLength(c Command, cur, end Point) bool {
	switch c.Type {
	case LineTo, HorizLineTo, VertLineTo, CubicTo, SmoothCubicTo, QuadTo, SmoothQuadTo:
		return closeEnough(cur, end, 1e-9)
	default:
		return false
	}
}

// chooseForm picks whichever of the relative or absolute rendering of c
// is shorter once serialized, breaking ties per opts.
func chooseForm(c Command, cur Point, opts MinifyOptions) Command {
	c = foldAxisAligned(c, cur)

	relForm, ok := toForm(c, cur, true)
	if !ok {
		return c
	}
	absForm, _ := toForm(c, cur, false)

	relLen := len(Path{Commands: []Command{relForm}}.Serialize(SerializeOptions{}))
	absLen := len(Path{Commands: []Command{absForm}}.Serialize(SerializeOptions{}))

	switch {
	case relLen < absLen:
		return relForm
	case absLen < relLen:
		return absForm
	case opts.PreferRelative:
		return relForm
	case opts.PreferAbsolute:
		return absForm
	default:
		return c
	}
}

// foldAxisAligned rewrites L commands that move along a single axis into
// H or V when that is unconditionally no longer, per spec.md §4.3.
func foldAxisAligned(c Command, cur Point) Command {
	if c.Type != LineTo {
		return c
	}
	x, y := c.Args[0], c.Args[1]
	if c.Relative {
		if y == 0 {
			return Command{Type: HorizLineTo, Relative: true, Args: []float64{x}}
		}
		if x == 0 {
			return Command{Type: VertLineTo, Relative: true, Args: []float64{y}}
		}
		return c
	}
	if y == cur.Y {
		return Command{Type: HorizLineTo, Relative: false, Args: []float64{x}}
	}
	if x == cur.X {
		return Command{Type: VertLineTo, Relative: false, Args: []float64{y}}
	}
	return c
}

// toForm re-expresses c as relative or absolute, converting its numeric
// arguments against cur as needed. ok is false for commands with no
// coordinate form to flip (ClosePath).
func toForm(c Command, cur Point, relative bool) (Command, bool) {
	if c.Relative == relative {
		return c, true
	}
	switch c.Type {
	case ClosePath:
		return c, false
	case MoveTo, LineTo, SmoothQuadTo:
		x, y := absXY(c, cur, 0)
		if relative {
			return Command{Type: c.Type, Relative: true, Args: []float64{x - cur.X, y - cur.Y}}, true
		}
		return Command{Type: c.Type, Relative: false, Args: []float64{x, y}}, true
	case HorizLineTo:
		x := absSingle(c, cur.X)
		if relative {
			return Command{Type: c.Type, Relative: true, Args: []float64{x - cur.X}}, true
		}
		return Command{Type: c.Type, Relative: false, Args: []float64{x}}, true
	case VertLineTo:
		y := absSingle(c, cur.Y)
		if relative {
			return Command{Type: c.Type, Relative: true, Args: []float64{y - cur.Y}}, true
		}
		return Command{Type: c.Type, Relative: false, Args: []float64{y}}, true
	case CubicTo:
		return Command{Type: c.Type, Relative: relative, Args: flipPairs(c, cur, relative, 3)}, true
	case SmoothCubicTo, QuadTo:
		return Command{Type: c.Type, Relative: relative, Args: flipPairs(c, cur, relative, 2)}, true
	case ArcTo:
		return flipArc(c, cur, relative), true
	default:
		return c, false
	}
}

func absXY(c Command, cur Point, offset int) (float64, float64) {
	x, y := c.Args[offset], c.Args[offset+1]
	if c.Relative {
		return cur.X + x, cur.Y + y
	}
	return x, y
}

func absSingle(c Command, curAxis float64) float64 {
	v := c.Args[0]
	if c.Relative {
		return curAxis + v
	}
	return v
}

func flipPairs(c Command, cur Point, relative bool, pairs int) []float64 {
	out := make([]float64, len(c.Args))
	for i := 0; i < pairs; i++ {
		x, y := absXY(c, cur, i*2)
		if relative {
			out[i*2], out[i*2+1] = x-cur.X, y-cur.Y
		} else {
			out[i*2], out[i*2+1] = x, y
		}
	}
	return out
}

func flipArc(c Command, cur Point, relative bool) Command {
	x, y := absXY(c, cur, 5)
	args := make([]float64, 7)
	copy(args, c.Args[:5])
	if relative {
		args[5], args[6] = x-cur.X, y-cur.Y
	} else {
		args[5], args[6] = x, y
	}
	return Command{Type: ArcTo, Relative: relative, Args: args}
}

// roundCommand rounds c's numeric arguments per opts, using DeltaPrecision
// for relative commands and Precision for absolute ones. ArcTo's flag
// arguments (indices 3, 4) are never rounded.
func roundCommand(c Command, opts MinifyOptions) Command {
	prec := opts.Precision
	if c.Relative {
		prec = opts.DeltaPrecision
	}
	if prec < 0 {
		return c
	}
	out := Command{Type: c.Type, Relative: c.Relative, Args: make([]float64, len(c.Args))}
	for i, v := range c.Args {
		if c.Type == ArcTo && (i == 3 || i == 4) {
			out.Args[i] = v
			continue
		}
		out.Args[i] = roundTo(v, prec)
	}
	return out
}

func roundTo(v float64, prec int) float64 {
	if prec < 0 {
		return v
	}
	m := math.Pow(10, float64(prec))
	r := math.Round(v*m) / m
	if r == 0 {
		return 0 // normalize -0
	}
	return r
}
