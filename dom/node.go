// Package dom implements the mutable, DOM-like document model optisvg's job
// pipeline walks and mutates. Nodes live in a single arena owned by a
// *Document and are addressed by NodeID, never by pointer, so that a job
// holding a stale handle across a mutation re-resolves through the arena
// instead of reading freed or reparented memory.
package dom

// NodeID addresses a node within a single Document's arena. The zero value,
// NilNode, never identifies a real node.
type NodeID int32

// NilNode is the invalid NodeID, returned by navigation operations that have
// no answer (e.g. the parent of the root, or a missing sibling).
const NilNode NodeID = 0

// Kind distinguishes the node variants spec.md §3 enumerates.
type Kind uint8

const (
	KindDocument Kind = iota
	KindElement
	KindText
	KindComment
	KindProcInst
	KindDoctype
	KindCData
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindProcInst:
		return "processing-instruction"
	case KindDoctype:
		return "doctype"
	case KindCData:
		return "cdata"
	default:
		return "unknown"
	}
}

// Name is a qualified name: a namespace URI, the prefix used to serialize
// it at this particular node (which may differ from the prefix used
// elsewhere in the document for the same URI), and the local part.
type Name struct {
	URI    string
	Prefix string
	Local  string
}

// String renders the name the way it would appear as a tag or attribute
// name in source: "prefix:local" or just "local".
func (n Name) String() string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Local
	}
	return n.Local
}

// Attr is one attribute: a qualified name plus its raw string value.
// Attribute values are never interpreted by the document model itself;
// callers parse numeric lists, colours, `d` strings, etc. on demand.
type Attr struct {
	Name  Name
	Value string
}

// nodeRec is the arena-resident storage for one node. Parent/sibling/child
// links are NodeIDs, never pointers, so detaching a subtree never dangles
// a reference held elsewhere into the same arena.
type nodeRec struct {
	kind                                                     Kind
	parent, firstChild, lastChild, prevSibling, nextSibling  NodeID

	name    Name   // element local/namespace identity; for ProcInst, name.Local is the target
	attrs   []Attr // insertion order preserved
	nsDecls map[string]string

	data string // text/comment/cdata content, or doctype declaration text

	styleEpoch uint64
	style      *Style
}

func (r *nodeRec) attrIndex(name Name) int {
	for i := range r.attrs {
		if r.attrs[i].Name == name {
			return i
		}
	}
	return -1
}
