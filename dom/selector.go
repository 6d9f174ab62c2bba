package dom

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlNode lets doc.go name the shadow-tree cache fields without importing
// golang.org/x/net/html itself.
type htmlNode = html.Node

// Selector is a compiled CSS selector list, used by style-aware jobs
// (inline-styles, merge-styled-groups, ...) and by ComputedStyle's
// <style>-block matching. It is backed by andybalholm/cascadia, the
// third-party CSS selector engine spec.md §1/§4.1 assumes is available.
type Selector struct {
	compiled cascadia.Selector
	source   string
}

// CompileSelector parses a CSS selector list once. The returned Selector
// may be reused across elements and documents.
func CompileSelector(s string) (*Selector, error) {
	c, err := cascadia.Compile(s)
	if err != nil {
		return nil, err
	}
	return &Selector{compiled: c, source: s}, nil
}

// String returns the selector's original source text.
func (s *Selector) String() string { return s.source }

// shadowTree rebuilds (or reuses) an *html.Node mirror of the whole
// document, shaped closely enough after golang.org/x/net/html.Node
// (element type/attrs/namespace, parent/child/sibling links) for cascadia
// to match CSS selectors against it. The mirror is cached and invalidated
// by the same epoch counter that invalidates the computed-style cache
// (spec.md §9): rebuilding is O(document size), so a job that only reads
// selectors without mutating attributes/styles never pays for it twice.
func (d *Document) shadowTree() (map[NodeID]*htmlNode, map[*htmlNode]NodeID) {
	if d.shadowBuilt && d.shadowEpoch == d.epoch {
		return d.shadowByID, d.shadowByNode
	}
	byID := make(map[NodeID]*htmlNode)
	byNode := make(map[*htmlNode]NodeID)
	var build func(id NodeID) *htmlNode
	build = func(id NodeID) *htmlNode {
		r := d.rec(id)
		var hn *htmlNode
		switch r.kind {
		case KindElement:
			hn = &htmlNode{
				Type:      html.ElementNode,
				Data:      r.name.Local,
				DataAtom:  atom.Lookup([]byte(r.name.Local)),
				Namespace: r.name.URI,
			}
			for _, a := range r.attrs {
				hn.Attr = append(hn.Attr, html.Attribute{
					Namespace: a.Name.URI,
					Key:       a.Name.Local,
					Val:       a.Value,
				})
			}
		case KindText, KindCData:
			hn = &htmlNode{Type: html.TextNode, Data: r.data}
		case KindComment:
			hn = &htmlNode{Type: html.CommentNode, Data: r.data}
		default:
			hn = &htmlNode{Type: html.CommentNode}
		}
		byID[id] = hn
		byNode[hn] = id
		for c := r.firstChild; c != NilNode; c = d.rec(c).nextSibling {
			hn.AppendChild(build(c))
		}
		return hn
	}
	build(d.root)
	d.shadowByID = byID
	d.shadowByNode = byNode
	d.shadowEpoch = d.epoch
	d.shadowBuilt = true
	return byID, byNode
}

// Matches reports whether id satisfies sel.
func (d *Document) Matches(id NodeID, sel *Selector) bool {
	byID, _ := d.shadowTree()
	hn, ok := byID[id]
	if !ok {
		return false
	}
	return sel.compiled.Match(hn)
}

// QuerySelectorAll returns every element under (and including) root that
// satisfies sel, in document order.
func (d *Document) QuerySelectorAll(root NodeID, sel *Selector) []NodeID {
	byID, byNode := d.shadowTree()
	sr, ok := byID[root]
	if !ok {
		return nil
	}
	matched := sel.compiled.MatchAll(sr)
	out := make([]NodeID, 0, len(matched))
	for _, hn := range matched {
		if id, ok := byNode[hn]; ok {
			out = append(out, id)
		}
	}
	return out
}
