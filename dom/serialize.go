package dom

import "github.com/beevik/etree"

// Serialize walks doc into an etree.Document and renders it with
// beevik/etree's writer — the external serialiser boundary spec.md §1/§6
// treats as a collaborator, symmetric with Parse's use of etree as the
// reader. No attempt is made to preserve the source's original
// whitespace/quoting choices (spec.md's Non-goals).
func Serialize(doc *Document) (string, error) {
	ed := etree.NewDocument()
	for c := doc.FirstChild(doc.Root()); c != NilNode; c = doc.NextSibling(c) {
		if tok := toToken(doc, c); tok != nil {
			ed.AddChild(tok)
		}
	}
	return ed.WriteToString()
}

func toToken(doc *Document, id NodeID) etree.Token {
	switch doc.Kind(id) {
	case KindElement:
		el := etree.NewElement(doc.LocalName(id))
		if p := doc.Prefix(id); p != "" {
			el.Space = p
		}
		for prefix, uri := range doc.NamespaceDecls(id) {
			if prefix == "" {
				el.CreateAttr("xmlns", uri)
			} else {
				el.CreateAttr("xmlns:"+prefix, uri)
			}
		}
		doc.RangeAttrs(id, func(a Attr) bool {
			key := a.Name.Local
			if a.Name.Prefix != "" {
				key = a.Name.Prefix + ":" + a.Name.Local
			}
			el.CreateAttr(key, a.Value)
			return true
		})
		for c := doc.FirstChild(id); c != NilNode; c = doc.NextSibling(c) {
			if t := toToken(doc, c); t != nil {
				el.AddChild(t)
			}
		}
		return el
	case KindText:
		return etree.NewCharData(doc.Data(id))
	case KindCData:
		return etree.NewCData(doc.Data(id))
	case KindComment:
		return etree.NewComment(doc.Data(id))
	case KindProcInst:
		return etree.NewProcInst(doc.LocalName(id), doc.Data(id))
	case KindDoctype:
		return etree.NewDirective(doc.Data(id))
	default:
		return nil
	}
}
