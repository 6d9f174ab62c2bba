package dom

// CreateElement allocates a new, detached element node.
func (d *Document) CreateElement(name Name) NodeID {
	return d.alloc(nodeRec{kind: KindElement, name: name})
}

// CreateText allocates a new, detached text node.
func (d *Document) CreateText(data string) NodeID {
	return d.alloc(nodeRec{kind: KindText, data: data})
}

// CreateComment allocates a new, detached comment node.
func (d *Document) CreateComment(data string) NodeID {
	return d.alloc(nodeRec{kind: KindComment, data: data})
}

// CreateCData allocates a new, detached CDATA section node.
func (d *Document) CreateCData(data string) NodeID {
	return d.alloc(nodeRec{kind: KindCData, data: data})
}

// CreateProcInst allocates a new, detached processing-instruction node.
func (d *Document) CreateProcInst(target, data string) NodeID {
	return d.alloc(nodeRec{kind: KindProcInst, name: Name{Local: target}, data: data})
}

// CreateDoctype allocates a new, detached document type node.
func (d *Document) CreateDoctype(decl string) NodeID {
	return d.alloc(nodeRec{kind: KindDoctype, data: decl})
}

// attached reports whether id currently has a parent or siblings.
func (d *Document) attached(id NodeID) bool {
	r := d.rec(id)
	return r.parent != NilNode || r.prevSibling != NilNode || r.nextSibling != NilNode
}

// InsertBefore inserts newChild as a child of parent immediately before
// oldChild. If oldChild is NilNode, newChild is appended. It panics if
// newChild is already attached somewhere — callers must detach a node
// before moving it, rather than relying on an implicit move.
func (d *Document) InsertBefore(parent, newChild, oldChild NodeID) {
	if d.attached(newChild) {
		panic("dom: InsertBefore called with an attached node")
	}
	pr := d.rec(parent)
	var prev, next NodeID
	if oldChild != NilNode {
		prev, next = d.rec(oldChild).prevSibling, oldChild
	} else {
		prev = pr.lastChild
	}
	if prev != NilNode {
		d.rec(prev).nextSibling = newChild
	} else {
		pr.firstChild = newChild
	}
	if next != NilNode {
		d.rec(next).prevSibling = newChild
	} else {
		pr.lastChild = newChild
	}
	nc := d.rec(newChild)
	nc.parent = parent
	nc.prevSibling = prev
	nc.nextSibling = next
}

// AppendChild adds child as parent's last child. It panics if child is
// already attached.
func (d *Document) AppendChild(parent, child NodeID) {
	d.InsertBefore(parent, child, NilNode)
}

// insertListBefore inserts each of newChildren, in order, as children of
// parent immediately before oldChild (NilNode appends at the end). Used by
// ReplaceWithList and the visitor framework's ReplaceWith action.
func (d *Document) insertListBefore(parent NodeID, newChildren []NodeID, oldChild NodeID) {
	for _, c := range newChildren {
		d.InsertBefore(parent, c, oldChild)
	}
}

// Detach removes id from its parent and siblings. The subtree rooted at id
// remains intact and may be reattached elsewhere; if it is not reattached
// before the walk ends, it is simply unreachable garbage in the arena
// (documents live for one invocation, per spec.md §3).
func (d *Document) Detach(id NodeID) {
	r := d.rec(id)
	if r.parent != NilNode {
		p := d.rec(r.parent)
		if p.firstChild == id {
			p.firstChild = r.nextSibling
		}
		if p.lastChild == id {
			p.lastChild = r.prevSibling
		}
	}
	if r.prevSibling != NilNode {
		d.rec(r.prevSibling).nextSibling = r.nextSibling
	}
	if r.nextSibling != NilNode {
		d.rec(r.nextSibling).prevSibling = r.prevSibling
	}
	r.parent, r.prevSibling, r.nextSibling = NilNode, NilNode, NilNode
}

// RemoveChild detaches c, which must be a child of parent.
func (d *Document) RemoveChild(parent, c NodeID) {
	if d.rec(c).parent != parent {
		panic("dom: RemoveChild called for a non-child node")
	}
	d.Detach(c)
}

// ReplaceWithList detaches id and inserts replacement in its place among
// its former siblings, used by jobs like collapse-groups and
// flatten-defs to replace a node by its children (spec.md §4.1).
func (d *Document) ReplaceWithList(id NodeID, replacement []NodeID) {
	parent := d.rec(id).parent
	next := d.rec(id).nextSibling
	d.Detach(id)
	if parent == NilNode {
		return
	}
	d.insertListBefore(parent, replacement, next)
}

// Clone deep-clones the subtree rooted at id into the same document's
// arena, returning a new, detached root. Required by <use> expansion and
// by reuse-paths' defs extraction.
func (d *Document) Clone(id NodeID) NodeID {
	src := d.rec(id)
	attrs := make([]Attr, len(src.attrs))
	copy(attrs, src.attrs)
	var nsDecls map[string]string
	if src.nsDecls != nil {
		nsDecls = make(map[string]string, len(src.nsDecls))
		for k, v := range src.nsDecls {
			nsDecls[k] = v
		}
	}
	newID := d.alloc(nodeRec{
		kind:    src.kind,
		name:    src.name,
		attrs:   attrs,
		nsDecls: nsDecls,
		data:    src.data,
	})
	for c := src.firstChild; c != NilNode; c = d.rec(c).nextSibling {
		d.AppendChild(newID, d.Clone(c))
	}
	return newID
}
