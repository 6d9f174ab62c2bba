package job

import (
	"sort"

	"github.com/optisvg/optisvg/dom"
)

// RemoveUselessDefs removes children of <defs> (gradients, symbols,
// clip-paths, reusable paths, ...) that carry no id, or an id nothing in
// the document references, since a definition can only have an effect
// through a reference.
type RemoveUselessDefs struct {
	dom.BaseVisitor
	refs map[string]bool
}

func (j *RemoveUselessDefs) Name() string                  { return "removeUselessDefs" }
func (j *RemoveUselessDefs) Capabilities() dom.Capabilities { return dom.CapChildren }
func (j *RemoveUselessDefs) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveUselessDefs) StartDocument(c dom.Cursor) error {
	j.refs = collectIDRefs(c.Doc)
	return nil
}

func (j *RemoveUselessDefs) EnterElement(c dom.Cursor) (dom.Action, error) {
	parent := c.Doc.Parent(c.ID)
	if parent == dom.NilNode || c.Doc.LocalName(parent) != "defs" {
		return dom.Keep(), nil
	}
	id, ok := c.Doc.AttrLocal(c.ID, "id")
	if !ok || !j.refs[id] {
		return dom.Remove(), nil
	}
	return dom.Keep(), nil
}

// SortDefsChildren reorders the children of every <defs> by element name,
// then by id, purely to make repeated runs and diffs deterministic and to
// group similar-content nodes for better general-purpose compression.
type SortDefsChildren struct{ dom.BaseVisitor }

func (j *SortDefsChildren) Name() string                  { return "sortDefsChildren" }
func (j *SortDefsChildren) Capabilities() dom.Capabilities { return dom.CapOrder }
func (j *SortDefsChildren) Order() dom.TraversalOrder      { return dom.PostOrder }

func (j *SortDefsChildren) ExitElement(c dom.Cursor) (dom.Action, error) {
	if c.Doc.LocalName(c.ID) != "defs" {
		return dom.Keep(), nil
	}
	children := c.Doc.Children(c.ID)
	if len(children) < 2 {
		return dom.Keep(), nil
	}
	sort.SliceStable(children, func(i, k int) bool {
		ni, nk := c.Doc.LocalName(children[i]), c.Doc.LocalName(children[k])
		if ni != nk {
			return ni < nk
		}
		idi, _ := c.Doc.AttrLocal(children[i], "id")
		idk, _ := c.Doc.AttrLocal(children[k], "id")
		return idi < idk
	})
	for _, ch := range children {
		c.Doc.Detach(ch)
	}
	for _, ch := range children {
		c.Doc.AppendChild(c.ID, ch)
	}
	return dom.Keep(), nil
}

// ReusePaths finds elements whose entire attribute set (including a
// non-empty "d") is byte-identical across two or more occurrences and
// factors them into a single <path> under <defs>, replacing each
// occurrence with a <use> that references it. This only ever reduces the
// resulting document's serialized length for genuinely repeated shapes;
// a shape that appears once is left untouched.
type ReusePaths struct {
	dom.BaseVisitor
	// IDPrefix names the generated shared paths, suffixed with a counter.
	IDPrefix string `json:"idPrefix,omitempty"`
}

func (j *ReusePaths) Name() string                  { return "reusePaths" }
func (j *ReusePaths) Capabilities() dom.Capabilities { return dom.CapChildren }
func (j *ReusePaths) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *ReusePaths) StartDocument(c dom.Cursor) error {
	groups := make(map[string][]dom.NodeID)
	var walk func(id dom.NodeID)
	walk = func(id dom.NodeID) {
		if c.Doc.Kind(id) == dom.KindElement && c.Doc.LocalName(id) == "path" {
			if d, ok := c.Doc.AttrLocal(id, "d"); ok && d != "" {
				sig := pathSignature(c.Doc, id)
				groups[sig] = append(groups[sig], id)
			}
		}
		for ch := c.Doc.FirstChild(id); ch != dom.NilNode; ch = c.Doc.NextSibling(ch) {
			walk(ch)
		}
	}
	walk(c.Doc.Root())

	var sigs []string
	for sig, nodes := range groups {
		if len(nodes) > 1 {
			sigs = append(sigs, sig)
		}
	}
	sort.Strings(sigs) // deterministic id assignment across runs
	if len(sigs) == 0 {
		return nil
	}

	prefix := j.IDPrefix
	if prefix == "" {
		prefix = "reuse"
	}
	defsID := findOrCreateDefs(c.Doc)

	for i, sig := range sigs {
		nodes := groups[sig]
		shared := c.Doc.Clone(nodes[0])
		sharedID := prefix + shortID(i)
		c.Doc.SetAttrLocal(shared, "id", sharedID)
		c.Doc.RemoveAttrLocal(shared, "transform") // transform stays per-use below
		c.Doc.AppendChild(defsID, shared)

		for _, n := range nodes {
			parent := c.Doc.Parent(n)
			next := c.Doc.NextSibling(n)
			use := c.Doc.CreateElement(svgName("use"))
			c.Doc.SetAttr(use, refAttrsNS, "#"+sharedID)
			if t, ok := c.Doc.AttrLocal(n, "transform"); ok && t != "" {
				c.Doc.SetAttrLocal(use, "transform", t)
			}
			c.Doc.Detach(n)
			c.Doc.InsertBefore(parent, use, next)
		}
	}
	return nil
}

// pathSignature is the equality key ReusePaths groups by: every
// attribute except id and transform (both of which legitimately differ
// between otherwise-identical copies).
func pathSignature(d *dom.Document, id dom.NodeID) string {
	sig := ""
	d.RangeAttrs(id, func(a dom.Attr) bool {
		if a.Name.Local == "id" || a.Name.Local == "transform" {
			return true
		}
		sig += a.Name.String() + "=" + a.Value + ";"
		return true
	})
	return sig
}

func findOrCreateDefs(d *dom.Document) dom.NodeID {
	root := d.Root()
	svg := d.ChildAt(root, 0)
	for c := d.FirstChild(svg); c != dom.NilNode; c = d.NextSibling(c) {
		if d.Kind(c) == dom.KindElement && d.LocalName(c) == "defs" {
			return c
		}
	}
	defs := d.CreateElement(svgName("defs"))
	first := d.FirstChild(svg)
	d.InsertBefore(svg, defs, first)
	return defs
}
