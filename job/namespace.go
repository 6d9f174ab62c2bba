package job

import "github.com/optisvg/optisvg/dom"

// RemoveXMLNSPrefixes drops namespace declarations whose prefix is never
// actually used as an element or attribute prefix anywhere in the
// document (a common leftover from round-tripping through editors that
// declare the full set of namespaces they know about, whether or not a
// given document uses them).
type RemoveXMLNSPrefixes struct {
	dom.BaseVisitor
	used map[string]bool
}

func (j *RemoveXMLNSPrefixes) Name() string                  { return "removeXMLNSPrefixes" }
func (j *RemoveXMLNSPrefixes) Capabilities() dom.Capabilities { return dom.CapAttributes }
func (j *RemoveXMLNSPrefixes) Order() dom.TraversalOrder      { return dom.PreOrder }

func (j *RemoveXMLNSPrefixes) StartDocument(c dom.Cursor) error {
	j.used = make(map[string]bool)
	var walk func(id dom.NodeID)
	walk = func(id dom.NodeID) {
		if c.Doc.Kind(id) == dom.KindElement {
			if p := c.Doc.Prefix(id); p != "" {
				j.used[p] = true
			}
			c.Doc.RangeAttrs(id, func(a dom.Attr) bool {
				if a.Name.Prefix != "" {
					j.used[a.Name.Prefix] = true
				}
				return true
			})
		}
		for ch := c.Doc.FirstChild(id); ch != dom.NilNode; ch = c.Doc.NextSibling(ch) {
			walk(ch)
		}
	}
	walk(c.Doc.Root())
	return nil
}

func (j *RemoveXMLNSPrefixes) EnterElement(c dom.Cursor) (dom.Action, error) {
	decls := c.Doc.NamespaceDecls(c.ID)
	for prefix := range decls {
		if prefix != "" && !j.used[prefix] {
			delete(decls, prefix)
		}
	}
	return dom.Keep(), nil
}
