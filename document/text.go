package document

import (
	"fmt"
	"strings"

	"pdfgen/layout"
)

// Alignment values, re-exported so callers need not import the layout
// package.
const (
	AlignLeft    = layout.AlignLeft
	AlignCenter  = layout.AlignCenter
	AlignRight   = layout.AlignRight
	AlignJustify = layout.AlignJustify
)

// TextOptions styles one text flow. The zero value flows left-aligned
// from the cursor to the right margin and down across pages.
type TextOptions struct {
	// Width bounds the flow horizontally; 0 means up to the right
	// margin.
	Width float64
	// Height bounds the flow vertically; text past the bound is cut
	// (see Ellipsis). 0 means the flow continues onto new pages.
	Height    float64
	Align     layout.Align
	Columns   int
	ColumnGap float64
	// Indent shifts the first line of the flow.
	Indent float64
	// LineGap adds to the font's natural line height.
	LineGap float64
	// Ellipsis is appended to the last visible line when a Height
	// bound cuts the text. It is dropped entirely when it cannot fit.
	Ellipsis string
	// Continued keeps the flow open: the next Text call extends the
	// same line instead of starting a new flow.
	Continued bool
}

// textFlow is the state kept between continued Text calls.
type textFlow struct {
	wrapper *layout.Wrapper
	opts    TextOptions
}

// Text flows s starting at the cursor. The cursor drops to just below
// the last emitted line.
func (d *Document) Text(s string, opts ...TextOptions) error {
	return d.text(s, d.x, d.y, opts)
}

// Truncated reports whether the most recent Text call ran out of room
// under its Height bound before consuming all of its text.
func (d *Document) Truncated() bool { return d.truncated }

// TextAt flows s starting at an explicit top-left position.
func (d *Document) TextAt(s string, x, y float64, opts ...TextOptions) error {
	return d.text(s, x, y, opts)
}

func (d *Document) text(s string, x, y float64, optsList []TextOptions) error {
	if d.curFont == nil {
		if err := d.FontNamed("Helvetica", 12); err != nil {
			return err
		}
	}
	p := d.Page()
	if p == nil {
		return fmt.Errorf("document: no open page")
	}

	var opts TextOptions
	if len(optsList) > 0 {
		opts = optsList[0]
	}

	flow := d.flow
	if flow == nil {
		width := opts.Width
		if width == 0 {
			width = p.width - p.margins.Right - x
		}
		cfg := layout.Config{
			X:          x,
			Y:          y,
			Width:      width,
			Height:     opts.Height,
			MaxY:       p.MaxY(),
			Columns:    opts.Columns,
			ColumnGap:  opts.ColumnGap,
			Indent:     opts.Indent,
			LineHeight: d.curFont.font.LineHeight(d.curFontSize, true) + opts.LineGap,
			Align:      opts.Align,
			Ellipsis:   opts.Ellipsis,
			Measure:    func(t string) float64 { return d.curFont.font.WidthOf(t, d.curFontSize) },
			Breaker:    layout.UAX14Breaker{},
		}
		flow = &textFlow{opts: opts}
		flow.wrapper = layout.New(cfg, layout.Events{
			Line:      func(l layout.Line, lx, ly float64) error { return d.writeLine(flow, l, lx, ly) },
			PageBreak: d.flowPageBreak,
		})
	}

	done, err := flow.wrapper.Wrap(s, opts.Continued)
	if err != nil {
		return err
	}
	d.truncated = !done

	d.y = flow.wrapper.Y()
	if opts.Continued {
		d.flow = flow
	} else {
		d.flow = nil
	}
	return nil
}

// flowPageBreak opens the next page mid-flow and re-establishes the
// graphics state the flow depends on.
func (d *Document) flowPageBreak() (x, y, maxY float64, err error) {
	old := d.Page()
	po := PageOptions{Width: old.width, Height: old.height, MarginSet: &old.margins}
	if err := d.AddPage(po); err != nil {
		return 0, 0, 0, err
	}
	p := d.Page()
	// The fill color is graphics state, which does not survive the
	// page boundary.
	d.applyFill(p)
	return p.margins.Left, p.margins.Top, p.MaxY(), nil
}

// writeLine renders one wrapped line at its computed position,
// applying alignment inside the space the line was given.
func (d *Document) writeLine(flow *textFlow, l layout.Line, x, y float64) error {
	p := d.Page()
	df := d.curFont
	size := d.curFontSize
	p.addFont(df.name, df.obj.Ref())

	var extra float64
	switch flow.opts.Align {
	case layout.AlignCenter:
		x += (l.LineWidth - l.Width) / 2
	case layout.AlignRight:
		x += l.LineWidth - l.Width
	case layout.AlignJustify:
		if !l.Last && l.WordCount > 1 {
			space := df.font.WidthOf(" ", size)
			noSpace := l.Width - float64(l.WordCount-1)*space
			extra = layout.JustifySpacing(l.LineWidth, noSpace, space, l.WordCount)
		}
	}

	c := &p.content
	c.Save()
	// Text renders in PDF's native bottom-up space; undo the page flip
	// and place the baseline.
	c.Transform(1, 0, 0, -1, 0, p.height)
	base := p.height - y - df.font.Ascender(size)
	c.BeginText()
	c.SetFont(df.name, size)
	c.TextPosition(x, base)

	if df.ttf == nil {
		if extra > 0 {
			c.WordSpacing(extra)
		}
		c.ShowText(l.Text)
		if extra > 0 {
			c.WordSpacing(0)
		}
	} else {
		d.showShaped(flow, l.Text, extra, x, base)
	}

	c.EndText()
	c.Restore()
	return nil
}

// showShaped renders text through the embedded font's glyph ids. Word
// spacing does not apply to composite fonts, so justified lines place
// each word at its own position.
func (d *Document) showShaped(flow *textFlow, text string, extra, x, base float64) {
	df := d.curFont
	size := d.curFontSize
	c := &d.Page().content

	show := func(s string) float64 {
		gs := df.ttf.Glyphs(s)
		ids := make([]uint16, len(gs))
		var units float64
		for i, g := range gs {
			ids[i] = g.GID
			df.used[g.GID] = g.Advance
			units += g.Advance
		}
		c.ShowGlyphs(ids)
		return units * size / 1000
	}

	if extra <= 0 {
		show(text)
		return
	}
	space := df.font.WidthOf(" ", size)
	pos := x
	for i, word := range strings.Fields(text) {
		if i > 0 {
			c.TextPosition(pos-x, 0)
			x = pos
		}
		w := show(word)
		pos += w + space + extra
	}
}
