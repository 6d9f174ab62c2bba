package job

import (
	"regexp"
	"strings"

	"github.com/optisvg/optisvg/dom"
)

// RemoveAttrs deletes attributes matching a caller-supplied pattern list,
// unconditionally — unlike RemoveEmptyAttrs or RemoveUselessDefaults,
// which only drop values the document's semantics already ignore. It is
// never in the default preset's job order (dropping an arbitrary,
// possibly load-bearing attribute is something a caller must opt into
// explicitly), but it is registered so an overlay can enable it, per
// spec.md §8 scenario S3.
//
// Each pattern in Attrs has up to three ':'-separated segments —
// elementPattern:attrPattern:valuePattern — matching SVGO's removeAttrs
// plugin: a bare "fill" matches the fill attribute on any element, while
// "path:fill" restricts the match to <path> elements. A missing segment
// defaults to matching anything. Each segment is a regular expression
// matched against the whole candidate (anchored both ends), unless it is
// exactly "*", which also matches anything.
type RemoveAttrs struct {
	dom.BaseVisitor

	// Attrs are the elementPattern:attrPattern:valuePattern patterns
	// described above.
	Attrs []string `json:"attrs"`

	// ElemSeparator overrides the ':' segment separator (SVGO exposes
	// this for attribute names that legitimately contain a colon, e.g.
	// "xlink:href", where the caller wants to target the attribute by
	// its full qualified name rather than have the colon split it).
	ElemSeparator string `json:"elemSeparator,omitempty"`

	compiled []attrPattern
	built    bool
}

type attrPattern struct {
	elem, attr, value *regexp.Regexp
}

func (j *RemoveAttrs) Name() string                  { return "removeAttrs" }
func (j *RemoveAttrs) Capabilities() dom.Capabilities { return dom.CapAttributes }
func (j *RemoveAttrs) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveAttrs) Reset() { j.built = false; j.compiled = nil }

func anchoredMatch(pattern string) (*regexp.Regexp, error) {
	if pattern == "" || pattern == "*" {
		return nil, nil
	}
	return regexp.Compile("^(?:" + pattern + ")$")
}

func (j *RemoveAttrs) ensureCompiled() {
	if j.built {
		return
	}
	j.built = true
	sep := j.ElemSeparator
	if sep == "" {
		sep = ":"
	}
	for _, raw := range j.Attrs {
		parts := strings.Split(raw, sep)
		var p attrPattern
		var err error
		switch len(parts) {
		case 1:
			p.attr, err = anchoredMatch(parts[0])
		case 2:
			if p.elem, err = anchoredMatch(parts[0]); err == nil {
				p.attr, err = anchoredMatch(parts[1])
			}
		default:
			if p.elem, err = anchoredMatch(parts[0]); err == nil {
				if p.attr, err = anchoredMatch(parts[1]); err == nil {
					p.value, err = anchoredMatch(strings.Join(parts[2:], sep))
				}
			}
		}
		if err != nil {
			continue
		}
		j.compiled = append(j.compiled, p)
	}
}

func (p attrPattern) matches(elem, attr, value string) bool {
	if p.elem != nil && !p.elem.MatchString(elem) {
		return false
	}
	if p.attr != nil && !p.attr.MatchString(attr) {
		return false
	}
	if p.value != nil && !p.value.MatchString(value) {
		return false
	}
	return true
}

func (j *RemoveAttrs) EnterElement(c dom.Cursor) (dom.Action, error) {
	j.ensureCompiled()
	if len(j.compiled) == 0 {
		return dom.Keep(), nil
	}
	elem := c.Doc.LocalName(c.ID)
	var drop []dom.Name
	c.Doc.RangeAttrs(c.ID, func(a dom.Attr) bool {
		for _, p := range j.compiled {
			if p.matches(elem, a.Name.Local, a.Value) || p.matches(elem, a.Name.String(), a.Value) {
				drop = append(drop, a.Name)
				break
			}
		}
		return true
	})
	for _, n := range drop {
		c.Doc.RemoveAttr(c.ID, n)
	}
	return dom.Keep(), nil
}
