// Package markup renders structured text — markdown and HTML — through
// the document text flow. Block elements become styled Text calls;
// inline emphasis switches fonts mid-line using continued flows.
package markup

import (
	"pdfgen/document"
	"pdfgen/fonts"
)

// Options selects the fonts and spacing the renderer works with. Zero
// fields take the defaults: the Helvetica family at 12pt with Courier
// for code.
type Options struct {
	BaseSize     float64
	Regular      fonts.Font
	Bold         fonts.Font
	Italic       fonts.Font
	Code         fonts.Font
	ListIndent   float64
	ParagraphGap float64
}

// Renderer drives one document. It is not safe for concurrent use.
type Renderer struct {
	doc  *document.Document
	opts Options
}

// NewRenderer builds a renderer over an open document.
func NewRenderer(d *document.Document, opts ...Options) *Renderer {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.BaseSize == 0 {
		o.BaseSize = 12
	}
	std := func(name string) fonts.Font {
		f, _ := fonts.Standard(name)
		return f
	}
	if o.Regular == nil {
		o.Regular = std("Helvetica")
	}
	if o.Bold == nil {
		o.Bold = std("Helvetica-Bold")
	}
	if o.Italic == nil {
		o.Italic = std("Helvetica-Oblique")
	}
	if o.Code == nil {
		o.Code = std("Courier")
	}
	if o.ListIndent == 0 {
		o.ListIndent = 15
	}
	if o.ParagraphGap == 0 {
		o.ParagraphGap = o.BaseSize * 0.5
	}
	return &Renderer{doc: d, opts: o}
}

// styledRun is one inline fragment with its font.
type styledRun struct {
	text string
	font fonts.Font
	size float64
}

// emit flows the runs as one paragraph starting at the cursor.
func (r *Renderer) emit(runs []styledRun) error {
	runs = dropEmpty(runs)
	if len(runs) == 0 {
		return nil
	}
	for i, run := range runs {
		r.doc.Font(run.font, run.size)
		err := r.doc.Text(run.text, document.TextOptions{Continued: i < len(runs)-1})
		if err != nil {
			return err
		}
	}
	return nil
}

func dropEmpty(runs []styledRun) []styledRun {
	out := runs[:0]
	for _, r := range runs {
		if r.text != "" {
			out = append(out, r)
		}
	}
	return out
}

// gap moves the cursor down between blocks.
func (r *Renderer) gap() {
	r.doc.MoveCursor(r.doc.Page().Margins().Left, r.doc.Y()+r.opts.ParagraphGap)
}

// headingSize mirrors the usual scale: h1 doubles the base size, h2
// is half again, everything deeper is a quarter more.
func (r *Renderer) headingSize(level int) float64 {
	switch {
	case level <= 1:
		return r.opts.BaseSize * 2
	case level == 2:
		return r.opts.BaseSize * 1.5
	default:
		return r.opts.BaseSize * 1.25
	}
}

// rule draws a horizontal separator across the content width.
func (r *Renderer) rule() error {
	d := r.doc
	p := d.Page()
	y := d.Y() + r.opts.ParagraphGap/2
	d.Save().
		LineWidth(0.5).
		MoveTo(p.Margins().Left, y).
		LineTo(p.Width()-p.Margins().Right, y).
		Stroke().
		Restore()
	d.MoveCursor(p.Margins().Left, y+r.opts.ParagraphGap/2)
	return nil
}
