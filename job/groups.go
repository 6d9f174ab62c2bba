package job

import (
	"sort"

	"github.com/optisvg/optisvg/dom"
)

// CollapseGroups removes a <g> that carries no attributes at all (once
// other jobs have already hoisted or dropped anything meaningful),
// splicing its children directly into its parent. Runs post-order so a
// nested group collapses before its parent is considered.
type CollapseGroups struct{ dom.BaseVisitor }

func (j *CollapseGroups) Name() string                  { return "collapseGroups" }
func (j *CollapseGroups) Capabilities() dom.Capabilities { return dom.CapChildren | dom.CapOrder }
func (j *CollapseGroups) Order() dom.TraversalOrder      { return dom.PostOrder }

func (j *CollapseGroups) ExitElement(c dom.Cursor) (dom.Action, error) {
	if c.Doc.LocalName(c.ID) != "g" {
		return dom.Keep(), nil
	}
	if c.Doc.AttrCount(c.ID) > 0 {
		return dom.Keep(), nil
	}
	if c.Doc.Parent(c.ID) == dom.NilNode {
		return dom.Keep(), nil
	}
	children := c.Doc.Children(c.ID)
	for _, ch := range children {
		c.Doc.Detach(ch)
	}
	return dom.ReplaceWith(children...), nil
}

// MoveGroupAttrsToChildren pushes a <g>'s own presentation attributes
// down onto its single child when it has exactly one, so the group
// itself becomes attribute-free and eligible for CollapseGroups. Only
// attributes the child doesn't already set explicitly are moved, since an
// explicit child value already wins the cascade and must not be
// overwritten.
type MoveGroupAttrsToChildren struct{ dom.BaseVisitor }

func (j *MoveGroupAttrsToChildren) Name() string { return "moveGroupAttrsToChildren" }
func (j *MoveGroupAttrsToChildren) Capabilities() dom.Capabilities {
	return dom.CapAttributes | dom.CapStyles
}
func (j *MoveGroupAttrsToChildren) Order() dom.TraversalOrder { return dom.PostOrder }

func (j *MoveGroupAttrsToChildren) ExitElement(c dom.Cursor) (dom.Action, error) {
	if c.Doc.LocalName(c.ID) != "g" {
		return dom.Keep(), nil
	}
	if c.Doc.ChildCount(c.ID) != 1 {
		return dom.Keep(), nil
	}
	child := c.Doc.ChildAt(c.ID, 0)
	if c.Doc.Kind(child) != dom.KindElement {
		return dom.Keep(), nil
	}
	var moved []dom.Name
	c.Doc.RangeAttrs(c.ID, func(a dom.Attr) bool {
		if a.Name.Local == "id" || a.Name.Local == "class" || a.Name.Local == "transform" ||
			a.Name.Local == "clip-path" || a.Name.Local == "mask" || a.Name.Local == "filter" {
			return true // structural/identity attrs never migrate
		}
		if !dom.IsPresentationAttr(a.Name.Local) {
			return true
		}
		if _, has := c.Doc.Attr(child, a.Name); has {
			return true // child's own explicit value must win; leave on the group
		}
		c.Doc.SetAttr(child, a.Name, a.Value)
		moved = append(moved, a.Name)
		return true
	})
	for _, n := range moved {
		c.Doc.RemoveAttr(c.ID, n)
	}
	return dom.Keep(), nil
}

// MoveElemsAttrsToGroup is the inverse: when every child of a <g> is an
// element and explicitly agrees on the same value for a presentation
// attribute, that attribute is hoisted onto the group (where the cascade
// still delivers it to each child) and dropped from every child.
type MoveElemsAttrsToGroup struct{ dom.BaseVisitor }

func (j *MoveElemsAttrsToGroup) Name() string { return "moveElemsAttrsToGroup" }
func (j *MoveElemsAttrsToGroup) Capabilities() dom.Capabilities {
	return dom.CapAttributes | dom.CapStyles
}
func (j *MoveElemsAttrsToGroup) Order() dom.TraversalOrder { return dom.PostOrder }

func (j *MoveElemsAttrsToGroup) ExitElement(c dom.Cursor) (dom.Action, error) {
	if c.Doc.LocalName(c.ID) != "g" {
		return dom.Keep(), nil
	}
	children := c.Doc.Children(c.ID)
	var elems []dom.NodeID
	for _, ch := range children {
		if c.Doc.Kind(ch) == dom.KindElement {
			elems = append(elems, ch)
		}
	}
	if len(elems) < 2 || len(elems) != len(children) {
		return dom.Keep(), nil
	}

	candidates := make(map[string]string)
	c.Doc.RangeAttrs(elems[0], func(a dom.Attr) bool {
		if a.Name.URI == "" && dom.IsPresentationAttr(a.Name.Local) {
			candidates[a.Name.Local] = a.Value
		}
		return true
	})
	for _, ch := range elems[1:] {
		for name, val := range candidates {
			v, ok := c.Doc.AttrLocal(ch, name)
			if !ok || v != val {
				delete(candidates, name)
			}
		}
	}
	if len(candidates) == 0 {
		return dom.Keep(), nil
	}
	for name, val := range candidates {
		if _, already := c.Doc.AttrLocal(c.ID, name); already {
			continue
		}
		c.Doc.SetAttrLocal(c.ID, name, val)
		for _, ch := range elems {
			c.Doc.RemoveAttrLocal(ch, name)
		}
	}
	return dom.Keep(), nil
}

// MergeStyledGroups folds a run of adjacent sibling <g> elements that
// share an identical attribute set (order-independent, ignoring id) into
// the first of
// the run, moving the later groups' children into it and discarding the
// now-empty later groups. Declared order-sensitive (CapOrder) since it
// depends on siblings being adjacent.
type MergeStyledGroups struct{ dom.BaseVisitor }

func (j *MergeStyledGroups) Name() string { return "mergeStyledGroups" }
func (j *MergeStyledGroups) Capabilities() dom.Capabilities {
	return dom.CapChildren | dom.CapOrder
}
func (j *MergeStyledGroups) Order() dom.TraversalOrder { return dom.PostOrder }

func (j *MergeStyledGroups) ExitElement(c dom.Cursor) (dom.Action, error) {
	children := c.Doc.Children(c.ID)
	i := 0
	for i < len(children) {
		if c.Doc.Kind(children[i]) != dom.KindElement || c.Doc.LocalName(children[i]) != "g" {
			i++
			continue
		}
		sig := attrSignature(c.Doc, children[i])
		k := i + 1
		for k < len(children) &&
			c.Doc.Kind(children[k]) == dom.KindElement &&
			c.Doc.LocalName(children[k]) == "g" &&
			attrSignature(c.Doc, children[k]) == sig {
			for _, gc := range c.Doc.Children(children[k]) {
				c.Doc.Detach(gc)
				c.Doc.AppendChild(children[i], gc)
			}
			c.Doc.Detach(children[k])
			k++
		}
		i = k
	}
	return dom.Keep(), nil
}

func attrSignature(d *dom.Document, id dom.NodeID) string {
	attrs := d.Attrs(id)
	names := make([]dom.Name, len(attrs))
	byName := make(map[dom.Name]string, len(attrs))
	for i, a := range attrs {
		if a.Name.Local == "id" {
			continue // two groups differing only by id are still "the same style"
		}
		names[i] = a.Name
		byName[a.Name] = a.Value
	}
	sort.Slice(names, func(i, k int) bool { return names[i].String() < names[k].String() })
	sig := ""
	for _, n := range names {
		if n.Local == "" {
			continue
		}
		sig += n.String() + "=" + byName[n] + ";"
	}
	return sig
}

// canonicalAttrOrder is the order sort-attrs places recognised attributes
// in: identity first, then geometry, then transform, then presentation,
// opacity and style, in the fixed order listed below. Unrecognised attributes keep their relative order,
// appended at the end (dom.ReorderAttrs's documented fallback).
var canonicalAttrOrder = []string{
	"id", "class",
	"x", "y", "cx", "cy", "r", "rx", "ry", "x1", "y1", "x2", "y2",
	"width", "height", "d", "points",
	"transform",
	"fill", "fill-opacity", "fill-rule",
	"stroke", "stroke-width", "stroke-opacity", "stroke-linecap",
	"stroke-linejoin", "stroke-dasharray", "stroke-dashoffset", "stroke-miterlimit",
	"opacity", "style",
}

// SortAttrs reorders each element's attributes into canonicalAttrOrder,
// which does nothing to a document's rendered output but measurably helps
// general-purpose (gzip/brotli) compression of batches of similar
// elements by keeping their attribute runs byte-aligned.
type SortAttrs struct{ dom.BaseVisitor }

func (j *SortAttrs) Name() string                  { return "sortAttrs" }
func (j *SortAttrs) Capabilities() dom.Capabilities { return dom.CapAttributes }
func (j *SortAttrs) Order() dom.TraversalOrder      { return dom.PreOrder }

var canonicalAttrNames = func() []dom.Name {
	out := make([]dom.Name, len(canonicalAttrOrder))
	for i, n := range canonicalAttrOrder {
		out[i] = dom.Name{Local: n}
	}
	return out
}()

func (j *SortAttrs) EnterElement(c dom.Cursor) (dom.Action, error) {
	c.Doc.ReorderAttrs(c.ID, canonicalAttrNames)
	return dom.Keep(), nil
}
