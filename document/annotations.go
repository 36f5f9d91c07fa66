package document

import (
	"fmt"

	"pdfgen/raw"
	"pdfgen/writer"
)

// pageLink is a link annotation whose destination page may not exist
// yet; its object stays open until End resolves the target.
type pageLink struct {
	obj  *writer.Object
	page int
}

// annotRect converts a top-left rectangle to the bottom-up /Rect
// array.
func (p *Page) annotRect(x, y, w, h float64) raw.Array {
	return raw.Array{
		raw.Real(x), raw.Real(p.height - y - h),
		raw.Real(x + w), raw.Real(p.height - y),
	}
}

// LinkURL places a link annotation opening an external URL.
func (d *Document) LinkURL(x, y, w, h float64, url string) error {
	p := d.Page()
	if p == nil {
		return fmt.Errorf("document: no open page")
	}
	obj := d.w.Alloc(raw.Dict{
		"Type":    raw.Name("Annot"),
		"Subtype": raw.Name("Link"),
		"Rect":    p.annotRect(x, y, w, h),
		"Border":  raw.Array{raw.Integer(0), raw.Integer(0), raw.Integer(0)},
		"A": raw.Dict{
			"S":   raw.Name("URI"),
			"URI": raw.Text(url),
		},
	})
	if err := obj.End(); err != nil {
		return err
	}
	p.addAnnotation(obj.Ref())
	return nil
}

// LinkPage places a link annotation jumping to a zero-based page
// index. The target page may be added later; the index is checked when
// the document ends.
func (d *Document) LinkPage(x, y, w, h float64, page int) error {
	p := d.Page()
	if p == nil {
		return fmt.Errorf("document: no open page")
	}
	obj := d.w.Alloc(raw.Dict{
		"Type":    raw.Name("Annot"),
		"Subtype": raw.Name("Link"),
		"Rect":    p.annotRect(x, y, w, h),
		"Border":  raw.Array{raw.Integer(0), raw.Integer(0), raw.Integer(0)},
	})
	d.links = append(d.links, pageLink{obj: obj, page: page})
	p.addAnnotation(obj.Ref())
	return nil
}

// NoteAnnotation places a text annotation with a popup comment.
func (d *Document) NoteAnnotation(x, y, w, h float64, contents string) error {
	p := d.Page()
	if p == nil {
		return fmt.Errorf("document: no open page")
	}
	obj := d.w.Alloc(raw.Dict{
		"Type":     raw.Name("Annot"),
		"Subtype":  raw.Name("Text"),
		"Rect":     p.annotRect(x, y, w, h),
		"Contents": raw.Text(contents),
		"Name":     raw.Name("Note"),
	})
	if err := obj.End(); err != nil {
		return err
	}
	p.addAnnotation(obj.Ref())
	return nil
}

// resolveLinks fills in the destinations of page links now that every
// page exists.
func (d *Document) resolveLinks() error {
	for _, l := range d.links {
		if l.page < 0 || l.page >= d.pageCount {
			return fmt.Errorf("document: link target page %d does not exist (document has %d pages)",
				l.page, d.pageCount)
		}
		l.obj.Dict()["Dest"] = raw.Array{d.kids[l.page], raw.Name("XYZ"), raw.Null{}, raw.Null{}, raw.Null{}}
		if err := l.obj.End(); err != nil {
			return err
		}
	}
	d.links = nil
	return nil
}
