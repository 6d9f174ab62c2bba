package dom

import "fmt"

// Document owns the node arena for one optimisation invocation. Documents
// never share nodes; a Clone always allocates into the same document's
// arena, since nodes never migrate between documents (spec.md §3).
type Document struct {
	nodes []nodeRec
	root  NodeID

	// Origin is the document's source path, if any, surfaced to jobs via
	// pipeline.Info. Empty when the document did not come from a file.
	Origin string

	epoch uint64 // bumped after each pass of a job whose capabilities invalidate styles

	// shadow* cache the html.Node tree built for cascadia-backed selector
	// matching (see selector.go), invalidated whenever epoch advances past
	// shadowEpoch.
	shadowEpoch  uint64
	shadowBuilt  bool
	shadowByID   map[NodeID]*htmlNode
	shadowByNode map[*htmlNode]NodeID
}

// NewDocument creates an empty document containing only a root Document
// node. Index 0 of the arena is a sentinel that NilNode addresses and is
// never a valid node.
func NewDocument() *Document {
	d := &Document{nodes: make([]nodeRec, 1)}
	d.root = d.alloc(nodeRec{kind: KindDocument})
	return d
}

func (d *Document) alloc(r nodeRec) NodeID {
	d.nodes = append(d.nodes, r)
	return NodeID(len(d.nodes) - 1)
}

func (d *Document) rec(id NodeID) *nodeRec {
	if id == NilNode || int(id) >= len(d.nodes) {
		panic(fmt.Sprintf("dom: invalid NodeID %d", id))
	}
	return &d.nodes[id]
}

// Valid reports whether id currently addresses a node (it may still be a
// detached one; detaching never frees the arena slot, since documents live
// for a single invocation per spec.md §3's lifecycle).
func (d *Document) Valid(id NodeID) bool {
	return id != NilNode && int(id) < len(d.nodes)
}

// Root returns the document's root (pseudo-)node.
func (d *Document) Root() NodeID { return d.root }

// Kind returns id's node variant.
func (d *Document) Kind(id NodeID) Kind { return d.rec(id).kind }

// Epoch is the document-wide style-invalidation counter. pipeline bumps it
// after each pass of any job that declared the Name, Attributes, Children
// or Styles capability; ComputedStyle compares a node's cached epoch
// against this value.
func (d *Document) Epoch() uint64 { return d.epoch }

// BumpEpoch invalidates every cached computed style in the document.
func (d *Document) BumpEpoch() { d.epoch++ }

// --- navigation ---

func (d *Document) Parent(id NodeID) NodeID      { return d.rec(id).parent }
func (d *Document) FirstChild(id NodeID) NodeID  { return d.rec(id).firstChild }
func (d *Document) LastChild(id NodeID) NodeID   { return d.rec(id).lastChild }
func (d *Document) PrevSibling(id NodeID) NodeID { return d.rec(id).prevSibling }
func (d *Document) NextSibling(id NodeID) NodeID { return d.rec(id).nextSibling }

// ChildAt returns the index'th child of id, or NilNode if out of range.
// Per spec.md §4.1's failure semantics, callers that expect a child to
// exist should treat NilNode here as a programmer error and abort the job
// (see job.Abort), not silently continue.
func (d *Document) ChildAt(id NodeID, index int) NodeID {
	c := d.rec(id).firstChild
	for i := 0; i < index && c != NilNode; i++ {
		c = d.rec(c).nextSibling
	}
	return c
}

// ChildCount returns the number of children of id.
func (d *Document) ChildCount(id NodeID) int {
	n := 0
	for c := d.rec(id).firstChild; c != NilNode; c = d.rec(c).nextSibling {
		n++
	}
	return n
}

// Children returns id's children as a slice, in order. Callers that only
// need to iterate should prefer walking FirstChild/NextSibling directly to
// avoid the allocation.
func (d *Document) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := d.rec(id).firstChild; c != NilNode; c = d.rec(c).nextSibling {
		out = append(out, c)
	}
	return out
}

// --- identity ---

// LocalName returns id's unqualified element (or processing-instruction
// target) name.
func (d *Document) LocalName(id NodeID) string { return d.rec(id).name.Local }

// NamespaceURI returns id's namespace URI, or "" if none.
func (d *Document) NamespaceURI(id NodeID) string { return d.rec(id).name.URI }

// Prefix returns the serialization prefix recorded for id, or "".
func (d *Document) Prefix(id NodeID) string { return d.rec(id).name.Prefix }

// QName returns id's full qualified name.
func (d *Document) QName(id NodeID) Name { return d.rec(id).name }

// SetQName overwrites id's qualified name. Used by jobs that rename
// elements (e.g. convert-shape-to-path turning a <rect> into a <path>).
func (d *Document) SetQName(id NodeID, name Name) { d.rec(id).name = name }

// Data returns the textual payload of a Text, Comment, CData, Doctype, or
// ProcInst node.
func (d *Document) Data(id NodeID) string { return d.rec(id).data }

// SetData overwrites the textual payload of a Text, Comment, CData,
// Doctype, or ProcInst node.
func (d *Document) SetData(id NodeID, data string) { d.rec(id).data = data }

// Snapshot captures the document's current node arena so a caller can
// restore it later with Restore, discarding any mutation made in between.
// Used by the pipeline to recover from a job panic without leaving the
// document in a partially-mutated state.
func (d *Document) Snapshot() Snapshot {
	nodes := make([]nodeRec, len(d.nodes))
	for i, r := range d.nodes {
		nodes[i] = r
		if r.attrs != nil {
			nodes[i].attrs = append([]Attr(nil), r.attrs...)
		}
		if r.nsDecls != nil {
			decls := make(map[string]string, len(r.nsDecls))
			for k, v := range r.nsDecls {
				decls[k] = v
			}
			nodes[i].nsDecls = decls
		}
	}
	return Snapshot{nodes: nodes, root: d.root, epoch: d.epoch}
}

// Restore puts the document back into the state captured by s, dropping
// the shadow selector-matching cache (see selector.go) so it rebuilds
// against the restored tree on next use.
func (d *Document) Restore(s Snapshot) {
	d.nodes = s.nodes
	d.root = s.root
	d.epoch = s.epoch
	d.shadowBuilt = false
	d.shadowByID = nil
	d.shadowByNode = nil
}

// Snapshot is an opaque capture of a Document's arena, produced by
// Document.Snapshot and consumed by Document.Restore.
type Snapshot struct {
	nodes []nodeRec
	root  NodeID
	epoch uint64
}

// Equal reports whether a and b are structurally identical subtrees within
// this document: same kind, name, attributes (in order), data, and
// recursively identical children.
func (d *Document) Equal(a, b NodeID) bool {
	ra, rb := d.rec(a), d.rec(b)
	if ra.kind != rb.kind || ra.name != rb.name || ra.data != rb.data {
		return false
	}
	if len(ra.attrs) != len(rb.attrs) {
		return false
	}
	for i := range ra.attrs {
		if ra.attrs[i] != rb.attrs[i] {
			return false
		}
	}
	ca, cb := ra.firstChild, rb.firstChild
	for ca != NilNode && cb != NilNode {
		if !d.Equal(ca, cb) {
			return false
		}
		ca, cb = d.rec(ca).nextSibling, d.rec(cb).nextSibling
	}
	return ca == NilNode && cb == NilNode
}
