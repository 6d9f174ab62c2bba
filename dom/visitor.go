package dom

// Capabilities is the bitset a job declares up front, naming which aspects
// of a node it may mutate (spec.md §4.2). The pipeline driver uses this to
// decide whether to invalidate the computed-style cache and the selector
// shadow tree around a job's pass, rather than invalidating on every
// mutation unconditionally.
type Capabilities uint8

const (
	CapName Capabilities = 1 << iota
	CapAttributes
	CapChildren
	CapOrder
	CapStyles
)

// Has reports whether c declares every capability in mask.
func (c Capabilities) Has(mask Capabilities) bool { return c&mask == mask }

// Any reports whether c declares at least one capability in mask.
func (c Capabilities) Any(mask Capabilities) bool { return c&mask != 0 }

// InvalidatesStyle reports whether a job with these capabilities can
// change the outcome of a ComputedStyle/selector-match lookup.
func (c Capabilities) InvalidatesStyle() bool {
	return c.Any(CapAttributes | CapChildren | CapStyles | CapName)
}

// TraversalOrder lets a visitor skip the half of the enter/exit pair it
// never uses (spec.md §4.2).
type TraversalOrder uint8

const (
	PreOrder TraversalOrder = iota
	PostOrder
	BothOrders
)

// ActionKind is the traversal instruction a callback returns.
type ActionKind uint8

const (
	Continue ActionKind = iota
	SkipChildren
	RemoveSelf
	ReplaceWithAction
)

// Action is returned by every visitor callback to tell Walk what to do
// next. Removal of the current node must always go through this return
// value, never an ad-hoc Detach call from inside a callback (spec.md §4.2).
type Action struct {
	Kind        ActionKind
	Replacement []NodeID // populated only when Kind == ReplaceWithAction
}

// Keep is the zero Action: proceed normally.
func Keep() Action { return Action{Kind: Continue} }

// Skip instructs Walk not to descend into the current element's children.
func Skip() Action { return Action{Kind: SkipChildren} }

// Remove instructs Walk to detach the current node and advance to its
// former next sibling.
func Remove() Action { return Action{Kind: RemoveSelf} }

// ReplaceWith instructs Walk to detach the current node and splice
// replacement into its place among its former siblings.
func ReplaceWith(replacement ...NodeID) Action {
	return Action{Kind: ReplaceWithAction, Replacement: replacement}
}

// Cursor is the handle a visitor callback receives instead of a bare node
// reference. It always re-resolves through the arena, so a callback that
// restructures an ancestor mid-walk never reads a stale pointer
// (spec.md §9).
type Cursor struct {
	Doc *Document
	ID  NodeID
}

func (c Cursor) Parent() (Cursor, bool) {
	p := c.Doc.Parent(c.ID)
	return Cursor{c.Doc, p}, p != NilNode
}

// Visitor is one optimisation pass. Every callback is optional in spirit
// (spec.md §4.2 lists them as such); BaseVisitor supplies Keep()-returning
// defaults so a job only overrides the callbacks it cares about.
type Visitor interface {
	Name() string
	Capabilities() Capabilities
	Order() TraversalOrder

	StartDocument(c Cursor) error
	EndDocument(c Cursor) error
	EnterElement(c Cursor) (Action, error)
	ExitElement(c Cursor) (Action, error)
	VisitText(c Cursor) (Action, error)
	VisitComment(c Cursor) (Action, error)
	VisitProcInst(c Cursor) (Action, error)
}

// BaseVisitor implements every Visitor callback as a no-op returning
// Keep(). Jobs embed it and override only the callbacks they actually
// care about.
type BaseVisitor struct{}

func (BaseVisitor) StartDocument(Cursor) error             { return nil }
func (BaseVisitor) EndDocument(Cursor) error                { return nil }
func (BaseVisitor) EnterElement(Cursor) (Action, error)     { return Keep(), nil }
func (BaseVisitor) ExitElement(Cursor) (Action, error)      { return Keep(), nil }
func (BaseVisitor) VisitText(Cursor) (Action, error)        { return Keep(), nil }
func (BaseVisitor) VisitComment(Cursor) (Action, error)     { return Keep(), nil }
func (BaseVisitor) VisitProcInst(Cursor) (Action, error)    { return Keep(), nil }

// Walk performs one depth-first, pre-order traversal of doc (post-order
// ExitElement calls delivered after the last child, per spec.md §4.2),
// applying each callback's returned Action immediately. Document-level
// children (the root element, any top-level comments/doctype/PI) are
// visited between StartDocument and EndDocument.
func Walk(doc *Document, v Visitor) error {
	root := Cursor{doc, doc.Root()}
	if err := v.StartDocument(root); err != nil {
		return err
	}
	if err := walkChildren(doc, doc.Root(), v); err != nil {
		return err
	}
	return v.EndDocument(root)
}

// walkChildren visits every child of parent in order, applying the
// returned Action (including removal/replacement) before moving to the
// next sibling.
func walkChildren(doc *Document, parent NodeID, v Visitor) error {
	child := doc.FirstChild(parent)
	for child != NilNode {
		action, err := visitNode(doc, child, v)
		if err != nil {
			return err
		}
		next := doc.NextSibling(child)
		switch action.Kind {
		case RemoveSelf:
			doc.Detach(child)
		case ReplaceWithAction:
			doc.Detach(child)
			doc.insertListBefore(parent, action.Replacement, next)
		}
		child = next
	}
	return nil
}

func visitNode(doc *Document, id NodeID, v Visitor) (Action, error) {
	switch doc.Kind(id) {
	case KindElement:
		return visitElement(doc, id, v)
	case KindText:
		return v.VisitText(Cursor{doc, id})
	case KindComment:
		return v.VisitComment(Cursor{doc, id})
	case KindProcInst:
		return v.VisitProcInst(Cursor{doc, id})
	default:
		return Keep(), nil
	}
}

func visitElement(doc *Document, id NodeID, v Visitor) (Action, error) {
	cur := Cursor{doc, id}
	order := v.Order()

	action := Keep()
	if order != PostOrder {
		a, err := v.EnterElement(cur)
		if err != nil {
			return Action{}, err
		}
		action = a
	}
	if action.Kind == RemoveSelf || action.Kind == ReplaceWithAction {
		return action, nil
	}
	if action.Kind != SkipChildren {
		if err := walkChildren(doc, id, v); err != nil {
			return Action{}, err
		}
	}
	if order != PreOrder {
		return v.ExitElement(cur)
	}
	return Keep(), nil
}
