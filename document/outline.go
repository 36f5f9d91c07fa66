package document

import (
	"fmt"

	"pdfgen/raw"
)

// outlineNode is one bookmark; the zero value is the invisible root.
type outlineNode struct {
	title    string
	page     int
	children []*outlineNode
}

// OutlineNode lets callers build the bookmark tree. Nodes are written
// when the document ends.
type OutlineNode struct {
	doc  *Document
	node *outlineNode
}

// Outline returns the root of the bookmark tree.
func (d *Document) Outline() OutlineNode {
	return OutlineNode{doc: d, node: &d.outline}
}

// Add appends a bookmark below this node pointing at a zero-based page
// index, and returns it so children can be nested under it.
func (n OutlineNode) Add(title string, page int) OutlineNode {
	child := &outlineNode{title: title, page: page}
	n.node.children = append(n.node.children, child)
	return OutlineNode{doc: n.doc, node: child}
}

// descendants counts the node's whole subtree, the /Count value for an
// open outline item.
func (n *outlineNode) descendants() int {
	total := len(n.children)
	for _, c := range n.children {
		total += c.descendants()
	}
	return total
}

// writeOutline emits the outline dictionary tree, linking siblings and
// parents, and returns a reference to the root, or nil when there are
// no bookmarks.
func (d *Document) writeOutline() (*raw.Ref, error) {
	if len(d.outline.children) == 0 {
		return nil, nil
	}

	root := d.w.Alloc(raw.Dict{"Type": raw.Name("Outlines")})
	if err := d.writeOutlineLevel(&d.outline, root.Ref(), root.Dict()); err != nil {
		return nil, err
	}
	if err := root.End(); err != nil {
		return nil, err
	}
	ref := root.Ref()
	return &ref, nil
}

func (d *Document) writeOutlineLevel(n *outlineNode, parent raw.Ref, parentDict raw.Dict) error {
	if len(n.children) == 0 {
		return nil
	}
	objs := make([]*raw.Ref, len(n.children))
	dicts := make([]raw.Dict, len(n.children))

	for i, c := range n.children {
		if c.page < 0 || c.page >= d.pageCount {
			return fmt.Errorf("document: outline %q targets page %d (document has %d pages)",
				c.title, c.page, d.pageCount)
		}
		obj := d.w.Alloc(raw.Dict{
			"Title":  raw.Text(c.title),
			"Parent": parent,
			"Dest":   raw.Array{d.kids[c.page], raw.Name("XYZ"), raw.Null{}, raw.Null{}, raw.Null{}},
		})
		ref := obj.Ref()
		objs[i] = &ref
		dicts[i] = obj.Dict()

		if err := d.writeOutlineLevel(c, ref, obj.Dict()); err != nil {
			return err
		}
		if err := obj.End(); err != nil {
			return err
		}
	}

	// Sibling links can be set after End; dictionaries stay mutable
	// until the writer drains.
	for i := range n.children {
		if i > 0 {
			dicts[i]["Prev"] = *objs[i-1]
		}
		if i < len(n.children)-1 {
			dicts[i]["Next"] = *objs[i+1]
		}
	}
	parentDict["First"] = *objs[0]
	parentDict["Last"] = *objs[len(objs)-1]
	parentDict["Count"] = raw.Integer(n.descendants())
	return nil
}
