package pathdata

// Path is an ordered list of parsed path commands (spec.md §3, "Path
// value"). Its zero value is the empty path.
type Path struct {
	Commands []Command
}

// Parse tokenizes a `d` attribute value into a Path. Per spec.md §4.3,
// parse errors degrade rather than fail outright: on the first
// unparseable token, parsing stops and the commands parsed so far are
// returned alongside the unparsed remainder of the string (including the
// offending token), so a caller can preserve the original text rather
// than lose it. A clean parse to end of input returns an empty remainder.
//
// The first command of a non-empty path must be M/m (spec.md §3's
// invariant); if it is not, nothing is parsed and the whole input is
// returned as the remainder.
func Parse(d string) (Path, string) {
	sc := &scanner{s: d}
	var cmds []Command
	first := true

	for {
		sc.skipWsp()
		mark := sc.pos
		typ, rel, ok := sc.command()
		if !ok {
			if sc.eof() {
				return Path{Commands: cmds}, ""
			}
			return Path{Commands: cmds}, sc.s[mark:]
		}
		if first {
			if typ != MoveTo {
				return Path{}, d
			}
			first = false
		}

		cur := typ
		n := typ.ArgCount()
		for {
			args, ok := parseArgs(sc, cur, n)
			if !ok {
				return Path{Commands: cmds}, sc.s[mark:]
			}
			cmds = append(cmds, Command{Type: cur, Relative: rel, Args: args})
			if n == 0 || !sc.moreArgsFollow() {
				break
			}
			// Implicit repetition: a bare number following M/m's args is
			// an implicit L/l, per spec.md §4.3.
			if cur == MoveTo {
				cur = LineTo
			}
			mark = sc.pos
		}
	}
}

func parseArgs(sc *scanner, typ Type, n int) ([]float64, bool) {
	args := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if typ == ArcTo && (i == 3 || i == 4) {
			v, ok := sc.flag()
			if !ok {
				return nil, false
			}
			args = append(args, v)
			continue
		}
		v, ok := sc.number()
		if !ok {
			return nil, false
		}
		args = append(args, v)
	}
	return args, true
}
