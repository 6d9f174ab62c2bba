package pathdata

import (
	"strconv"
	"strings"
)

// SerializeOptions controls the compact re-rendering of a Path. Numeric
// rounding is applied by Minify, not here — Serialize's only job is
// choosing the shortest *textual* form of already-final numbers and
// commands (spec.md §4.3).
type SerializeOptions struct{}

// Serialize renders p back into a `d` attribute value, choosing for each
// command the shorter of keeping or omitting its letter (omitted when
// identical in type and relativity to the previous command — except a
// repeated M/m, which would re-parse as an implicit L/l per spec.md
// §4.3's own parsing rule, so it is always written out; and except a
// zero-argument command such as ClosePath, whose letter is the only thing
// distinguishing two consecutive instances of it in the output), and
// omitting the separator between two numbers whenever the second cannot
// be conflated with the first.
//
// Arc flags are serialized through the same general number/separator
// logic as every other argument. The SVG arc grammar's flags are
// positionally fixed at one digit and so never truly need a separator
// from their neighbors; this implementation does not special-case that,
// trading a little extra minimality for one fewer place a subtly wrong
// hand-rolled rule could corrupt the output.
func (p Path) Serialize(SerializeOptions) string {
	var b strings.Builder
	var prevType Type
	var prevRelative bool
	havePrev := false
	lastNum := ""

	for _, c := range p.Commands {
		omitLetter := havePrev && c.Type == prevType && c.Relative == prevRelative && c.Type != MoveTo && c.Type.ArgCount() != 0
		if !omitLetter {
			b.WriteByte(c.Letter())
			lastNum = ""
		}
		for _, v := range c.Args {
			s := formatNumber(v)
			if lastNum != "" && !canOmitSeparator(lastNum, s) {
				b.WriteByte(' ')
			}
			b.WriteString(s)
			lastNum = s
		}
		prevType, prevRelative, havePrev = c.Type, c.Relative, true
	}
	return b.String()
}

// canOmitSeparator reports whether next can be written immediately after
// prev with no intervening space or comma. A leading '-' is always
// unambiguous (a number never ends mid-digit with a dangling sign). A
// leading '.' is safe only when prev already used its own decimal point,
// since otherwise the two would read back as one number's fraction.
func canOmitSeparator(prev, next string) bool {
	if next == "" {
		return true
	}
	switch next[0] {
	case '-':
		return true
	case '.':
		return strings.ContainsRune(prev, '.')
	default:
		return false
	}
}

// FormatNumber renders v in the shorter of fixed and scientific form, with
// trailing zeros stripped and a redundant leading "0" before "." removed.
// Exported for jobs (cleanup-numeric-values, convert-transform, ...) that
// need the same compact numeric rendering outside of path data.
func FormatNumber(v float64) string { return formatNumber(v) }

// formatNumber renders v in the shorter of fixed and scientific form,
// with trailing zeros stripped and a redundant leading "0" before "."
// removed (spec.md §4.3).
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	fixed := stripLeadingZero(strconv.FormatFloat(v, 'f', -1, 64))
	sci := shortenSci(strconv.FormatFloat(v, 'e', -1, 64))
	if len(sci) < len(fixed) {
		return sci
	}
	return fixed
}

func stripLeadingZero(s string) string {
	neg := strings.HasPrefix(s, "-")
	t := s
	if neg {
		t = s[1:]
	}
	if strings.HasPrefix(t, "0.") && len(t) > 2 {
		t = t[1:]
	}
	if neg {
		return "-" + t
	}
	return t
}

func shortenSci(s string) string {
	idx := strings.IndexAny(s, "eE")
	if idx < 0 {
		return s
	}
	mantissa, exp := s[:idx], s[idx+1:]
	sign := ""
	switch {
	case strings.HasPrefix(exp, "+"):
		exp = exp[1:]
	case strings.HasPrefix(exp, "-"):
		sign = "-"
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return stripLeadingZero(mantissa) + "e" + sign + exp
}
