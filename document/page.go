package document

import (
	"fmt"
	"strings"

	"pdfgen/contentstream"
	"pdfgen/raw"
	"pdfgen/writer"
)

// Margins are the page margins, in points.
type Margins struct {
	Top, Left, Bottom, Right float64
}

// PageOptions selects size, orientation and margins for one page.
// The zero value means letter, portrait, one inch margins.
type PageOptions struct {
	// Size is a named paper size such as "A4" or "letter".
	Size string
	// Width and Height override Size when both are nonzero.
	Width, Height float64
	Landscape     bool
	// Margins applies all four margins when nonzero; the individual
	// fields of MarginSet win over it.
	Margin    float64
	MarginSet *Margins
}

// paper sizes in points, portrait.
var paperSizes = map[string][2]float64{
	"a3":        {841.89, 1190.55},
	"a4":        {595.28, 841.89},
	"a5":        {419.53, 595.28},
	"a6":        {297.64, 419.53},
	"letter":    {612, 792},
	"legal":     {612, 1008},
	"tabloid":   {792, 1224},
	"executive": {521.86, 756},
	"folio":     {612, 936},
}

// Page is one page under construction: its content stream buffer plus
// the resource names the content refers to.
type Page struct {
	doc *Document
	obj *writer.Object

	width, height float64
	margins       Margins

	content contentstream.Buffer

	// lazy resource sub-dictionaries
	fontRes  raw.Dict
	xobjRes  raw.Dict
	extgRes  raw.Dict
	annots   raw.Array
	finished bool
}

func resolveSize(po PageOptions) (w, h float64, err error) {
	w, h = po.Width, po.Height
	if w == 0 || h == 0 {
		name := po.Size
		if name == "" {
			name = "letter"
		}
		dim, ok := paperSizes[strings.ToLower(name)]
		if !ok {
			return 0, 0, fmt.Errorf("document: unknown page size %q", po.Size)
		}
		w, h = dim[0], dim[1]
	}
	if po.Landscape && h > w {
		w, h = h, w
	}
	return w, h, nil
}

func newPage(d *Document, po PageOptions) (*Page, error) {
	w, h, err := resolveSize(po)
	if err != nil {
		return nil, err
	}

	m := Margins{Top: 72, Left: 72, Bottom: 72, Right: 72}
	if po.Margin > 0 {
		m = Margins{Top: po.Margin, Left: po.Margin, Bottom: po.Margin, Right: po.Margin}
	}
	if po.MarginSet != nil {
		m = *po.MarginSet
	}

	p := &Page{
		doc:     d,
		obj:     d.w.Alloc(raw.Dict{"Type": raw.Name("Page"), "Parent": d.pagesObj.Ref()}),
		width:   w,
		height:  h,
		margins: m,
	}
	// Flip into top-left coordinates: all page content is authored
	// with y growing downward.
	p.content.Transform(1, 0, 0, -1, 0, h)
	return p, nil
}

// Width reports the page width in points.
func (p *Page) Width() float64 { return p.width }

// Height reports the page height in points.
func (p *Page) Height() float64 { return p.height }

// Margins reports the page margins.
func (p *Page) Margins() Margins { return p.margins }

// ContentWidth is the width between the left and right margins.
func (p *Page) ContentWidth() float64 { return p.width - p.margins.Left - p.margins.Right }

// MaxY is the vertical limit content may flow to.
func (p *Page) MaxY() float64 { return p.height - p.margins.Bottom }

func (p *Page) addFont(name string, ref raw.Ref) {
	if p.fontRes == nil {
		p.fontRes = raw.Dict{}
	}
	p.fontRes[raw.Name(name)] = ref
}

func (p *Page) addXObject(name string, ref raw.Ref) {
	if p.xobjRes == nil {
		p.xobjRes = raw.Dict{}
	}
	p.xobjRes[raw.Name(name)] = ref
}

func (p *Page) addExtGState(name string, ref raw.Ref) {
	if p.extgRes == nil {
		p.extgRes = raw.Dict{}
	}
	p.extgRes[raw.Name(name)] = ref
}

func (p *Page) addAnnotation(ref raw.Ref) {
	p.annots = append(p.annots, ref)
}

// finalize writes the content stream object and completes the page
// dictionary. The page cannot be drawn on afterwards.
func (p *Page) finalize() error {
	if p.finished {
		return nil
	}
	p.finished = true

	if err := p.content.Err(); err != nil {
		return fmt.Errorf("document: page content: %w", err)
	}
	content := p.doc.w.Alloc(raw.Dict{})
	if _, err := content.Write(p.content.Bytes()); err != nil {
		return err
	}
	if err := content.End(); err != nil {
		return err
	}

	res := raw.Dict{}
	if p.fontRes != nil {
		res["Font"] = p.fontRes
	}
	if p.xobjRes != nil {
		res["XObject"] = p.xobjRes
	}
	if p.extgRes != nil {
		res["ExtGState"] = p.extgRes
	}

	dict := p.obj.Dict()
	dict["MediaBox"] = raw.Array{raw.Integer(0), raw.Integer(0), raw.Real(p.width), raw.Real(p.height)}
	dict["Contents"] = content.Ref()
	dict["Resources"] = res
	if len(p.annots) > 0 {
		dict["Annots"] = p.annots
	}
	return p.obj.End()
}
