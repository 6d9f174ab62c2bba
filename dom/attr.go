package dom

// Attr returns the value of the attribute qualified by name, and whether it
// is present. An empty attribute ("") is distinct from an absent one
// (ok == false), per spec.md §3.
func (d *Document) Attr(id NodeID, name Name) (string, bool) {
	r := d.rec(id)
	if i := r.attrIndex(name); i >= 0 {
		return r.attrs[i].Value, true
	}
	return "", false
}

// AttrLocal looks up an attribute by its local name only, ignoring
// namespace. Most presentation attributes ("fill", "d", "transform", ...)
// carry no namespace, so jobs overwhelmingly use this form.
func (d *Document) AttrLocal(id NodeID, local string) (string, bool) {
	r := d.rec(id)
	for i := range r.attrs {
		if r.attrs[i].Name.Local == local && r.attrs[i].Name.URI == "" {
			return r.attrs[i].Value, true
		}
	}
	return "", false
}

// SetAttr sets name to value, appending it if not already present.
// Setting an attribute that already exists preserves its position
// (spec.md §4.1).
func (d *Document) SetAttr(id NodeID, name Name, value string) {
	r := d.rec(id)
	if i := r.attrIndex(name); i >= 0 {
		r.attrs[i].Value = value
		return
	}
	r.attrs = append(r.attrs, Attr{Name: name, Value: value})
}

// SetAttrLocal is the unqualified-name convenience form of SetAttr.
func (d *Document) SetAttrLocal(id NodeID, local, value string) {
	d.SetAttr(id, Name{Local: local}, value)
}

// RemoveAttr removes the attribute qualified by name, returning whether it
// was present.
func (d *Document) RemoveAttr(id NodeID, name Name) bool {
	r := d.rec(id)
	i := r.attrIndex(name)
	if i < 0 {
		return false
	}
	r.attrs = append(r.attrs[:i], r.attrs[i+1:]...)
	return true
}

// RemoveAttrLocal is the unqualified-name convenience form of RemoveAttr.
func (d *Document) RemoveAttrLocal(id NodeID, local string) bool {
	r := d.rec(id)
	for i := range r.attrs {
		if r.attrs[i].Name.Local == local && r.attrs[i].Name.URI == "" {
			r.attrs = append(r.attrs[:i], r.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Attrs returns a copy of id's attributes in insertion order. Mutating the
// returned slice has no effect on the document; use SetAttr/RemoveAttr.
func (d *Document) Attrs(id NodeID) []Attr {
	r := d.rec(id)
	out := make([]Attr, len(r.attrs))
	copy(out, r.attrs)
	return out
}

// AttrCount returns the number of attributes on id without allocating.
func (d *Document) AttrCount(id NodeID) int { return len(d.rec(id).attrs) }

// RangeAttrs calls fn for each attribute of id, in insertion order, until
// fn returns false. It does not allocate.
func (d *Document) RangeAttrs(id NodeID, fn func(Attr) bool) {
	for _, a := range d.rec(id).attrs {
		if !fn(a) {
			return
		}
	}
}

// ReorderAttrs replaces id's attribute order with the order of the names
// listed in order (used by the sort-attrs job).
// Unknown names in order are ignored; attributes present on the element but
// missing from order are appended afterwards in their prior order.
func (d *Document) ReorderAttrs(id NodeID, order []Name) {
	r := d.rec(id)
	byName := make(map[Name]Attr, len(r.attrs))
	for _, a := range r.attrs {
		byName[a.Name] = a
	}
	seen := make(map[Name]bool, len(r.attrs))
	next := make([]Attr, 0, len(r.attrs))
	for _, n := range order {
		if a, ok := byName[n]; ok && !seen[n] {
			next = append(next, a)
			seen[n] = true
		}
	}
	for _, a := range r.attrs {
		if !seen[a.Name] {
			next = append(next, a)
		}
	}
	r.attrs = next
}

// DeclareNamespace records a prefix->URI binding on id. An empty prefix
// declares the default namespace.
func (d *Document) DeclareNamespace(id NodeID, prefix, uri string) {
	r := d.rec(id)
	if r.nsDecls == nil {
		r.nsDecls = make(map[string]string)
	}
	r.nsDecls[prefix] = uri
}

// NamespaceDecls returns id's own namespace declarations (not inherited).
func (d *Document) NamespaceDecls(id NodeID) map[string]string {
	return d.rec(id).nsDecls
}

// LookupNamespaceURI walks id and its ancestors looking for a declaration
// of prefix, per spec.md §4.1's "Lookups walk ancestors".
func (d *Document) LookupNamespaceURI(id NodeID, prefix string) (string, bool) {
	for n := id; n != NilNode; n = d.rec(n).parent {
		if decls := d.rec(n).nsDecls; decls != nil {
			if uri, ok := decls[prefix]; ok {
				return uri, true
			}
		}
	}
	return "", false
}

// LookupPrefix is the reverse of LookupNamespaceURI: the first prefix found
// walking ancestors that is declared to bind uri.
func (d *Document) LookupPrefix(id NodeID, uri string) (string, bool) {
	for n := id; n != NilNode; n = d.rec(n).parent {
		if decls := d.rec(n).nsDecls; decls != nil {
			for p, u := range decls {
				if u == uri {
					return p, true
				}
			}
		}
	}
	return "", false
}
