package dom

import "github.com/beevik/etree"

// Parse reads src as an XML document using beevik/etree — the external
// XML 1.0 parser spec.md §1/§6 treats as a boundary collaborator — and
// builds our own arena-backed Document from the resulting token tree.
// etree's tree-construction has no HTML5 implicit-closing behaviour, which
// is what lets optisvg honor the "no bare HTML" non-goal structurally
// rather than by convention.
//
// Known limitation: etree does not expose, through its public API,
// whether a parsed character-data token originated from a CDATA section
// or plain text, so Parse conflates both into KindText nodes. Jobs that
// need to emit a literal CDATA section (vendor-prefixed inline scripts,
// mostly) can still construct one directly with Document.CreateCData.
func Parse(src string) (*Document, error) {
	ed := etree.NewDocument()
	if err := ed.ReadFromString(src); err != nil {
		return nil, &ParseError{Err: err}
	}

	doc := NewDocument()
	for _, tok := range ed.Child {
		if id := convertToken(doc, tok); id != NilNode {
			doc.AppendChild(doc.Root(), id)
		}
	}
	doc.resolveAttrNamespaces()
	return doc, nil
}

func convertToken(doc *Document, tok etree.Token) NodeID {
	switch t := tok.(type) {
	case *etree.Element:
		return convertElement(doc, t)
	case *etree.CharData:
		return doc.CreateText(t.Data)
	case *etree.Comment:
		return doc.CreateComment(t.Data)
	case *etree.Directive:
		return doc.CreateDoctype(t.Data)
	case *etree.ProcInst:
		return doc.CreateProcInst(t.Target, t.Inst)
	default:
		return NilNode
	}
}

func convertElement(doc *Document, el *etree.Element) NodeID {
	name := Name{URI: el.NamespaceURI(), Prefix: el.Space, Local: el.Tag}
	id := doc.CreateElement(name)

	for _, a := range el.Attr {
		switch {
		case a.Space == "xmlns":
			doc.DeclareNamespace(id, a.Key, a.Value)
		case a.Space == "" && a.Key == "xmlns":
			doc.DeclareNamespace(id, "", a.Value)
		default:
			doc.SetAttr(id, Name{Prefix: a.Space, Local: a.Key}, a.Value)
		}
	}

	for _, c := range el.Child {
		if cid := convertToken(doc, c); cid != NilNode {
			doc.AppendChild(id, cid)
		}
	}
	return id
}

// resolveAttrNamespaces fills in the namespace URI of prefixed attributes
// (e.g. xlink:href) now that the whole ancestor chain is attached.
// Attribute parsing happens before an element is linked to its parent, so
// this runs as a second pass over the finished tree instead.
func (d *Document) resolveAttrNamespaces() {
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if d.Kind(id) == KindElement {
			r := d.rec(id)
			for i := range r.attrs {
				if r.attrs[i].Name.Prefix != "" && r.attrs[i].Name.URI == "" {
					if uri, ok := d.LookupNamespaceURI(id, r.attrs[i].Name.Prefix); ok {
						r.attrs[i].Name.URI = uri
					}
				}
			}
		}
		for c := d.FirstChild(id); c != NilNode; c = d.NextSibling(c) {
			walk(c)
		}
	}
	walk(d.Root())
}
