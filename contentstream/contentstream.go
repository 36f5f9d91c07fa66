// Package contentstream builds PDF content streams operator by
// operator. A Buffer accumulates the textual operator stream for one
// page; the document layer hands the finished bytes to the object
// writer, which compresses them on the way out.
package contentstream

import (
	"bytes"

	"pdfgen/raw"
)

// TextRenderMode matches PDF text rendering modes set via Tr.
type TextRenderMode int

const (
	TextFill TextRenderMode = iota
	TextStroke
	TextFillStroke
	TextInvisible
	TextFillClip
	TextStrokeClip
	TextFillStrokeClip
	TextClip
)

// LineCap represents the line cap style (J operator).
type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin represents the line join style (j operator).
type LineJoin int

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// Buffer accumulates content stream operators. Operand encoding
// errors are sticky; Err surfaces the first one when the stream is
// collected.
type Buffer struct {
	buf bytes.Buffer
	err error
}

// Len reports the number of bytes accumulated so far.
func (b *Buffer) Len() int { return b.buf.Len() }

// Bytes returns the accumulated stream.
func (b *Buffer) Bytes() []byte { return b.buf.Bytes() }

// Err reports the first operand encoding failure, if any.
func (b *Buffer) Err() error { return b.err }

func (b *Buffer) num(dst []byte, v float64) []byte {
	out, err := raw.AppendNumber(dst, v)
	if err != nil && b.err == nil {
		b.err = err
	}
	return out
}

// Op appends one operator line: each operand, space separated, then
// the operator name and a newline. Numeric operands are rounded the
// same way the object serializer rounds them.
func (b *Buffer) Op(op string, args ...float64) {
	out := b.buf.AvailableBuffer()
	for _, a := range args {
		out = b.num(out, a)
		out = append(out, ' ')
	}
	out = append(out, op...)
	out = append(out, '\n')
	b.buf.Write(out)
}

// Name appends an operator taking a single name operand, e.g. "/F1 gs".
func (b *Buffer) Name(op, name string, args ...float64) {
	out := b.buf.AvailableBuffer()
	out = append(out, '/')
	out = append(out, name...)
	for _, a := range args {
		out = append(out, ' ')
		out = b.num(out, a)
	}
	out = append(out, ' ')
	out = append(out, op...)
	out = append(out, '\n')
	b.buf.Write(out)
}

// Raw appends a preformatted operator sequence verbatim, adding the
// trailing newline.
func (b *Buffer) Raw(s string) {
	b.buf.WriteString(s)
	b.buf.WriteByte('\n')
}

// Save pushes the graphics state (q).
func (b *Buffer) Save() { b.Op("q") }

// Restore pops the graphics state (Q).
func (b *Buffer) Restore() { b.Op("Q") }

// Transform concatenates a matrix onto the CTM (cm).
func (b *Buffer) Transform(a, bb, c, d, e, f float64) { b.Op("cm", a, bb, c, d, e, f) }

// BeginText starts a text object (BT).
func (b *Buffer) BeginText() { b.Op("BT") }

// EndText closes a text object (ET).
func (b *Buffer) EndText() { b.Op("ET") }

// SetFont selects a font resource at a size (Tf).
func (b *Buffer) SetFont(res string, size float64) { b.Name("Tf", res, size) }

// TextPosition moves the text line origin (Td).
func (b *Buffer) TextPosition(x, y float64) { b.Op("Td", x, y) }

// WordSpacing sets inter-word spacing (Tw); text lines are stretched
// this way when they are justified.
func (b *Buffer) WordSpacing(w float64) { b.Op("Tw", w) }

// RenderMode sets the text rendering mode (Tr).
func (b *Buffer) RenderMode(m TextRenderMode) { b.Op("Tr", float64(m)) }

// ShowText appends a Tj with the string escaped as a literal string.
func (b *Buffer) ShowText(s string) {
	out, err := raw.Append(b.buf.AvailableBuffer(), raw.Text(s))
	if err != nil && b.err == nil {
		b.err = err
	}
	b.buf.Write(out)
	b.buf.WriteString(" Tj\n")
}

// ShowGlyphs appends a Tj with a hex string of glyph IDs, for fonts
// written with an identity CMap.
func (b *Buffer) ShowGlyphs(gids []uint16) {
	const hexDigits = "0123456789ABCDEF"
	b.buf.WriteByte('<')
	for _, g := range gids {
		b.buf.WriteByte(hexDigits[g>>12&0xF])
		b.buf.WriteByte(hexDigits[g>>8&0xF])
		b.buf.WriteByte(hexDigits[g>>4&0xF])
		b.buf.WriteByte(hexDigits[g&0xF])
	}
	b.buf.WriteString("> Tj\n")
}

// MoveTo starts a new subpath (m).
func (b *Buffer) MoveTo(x, y float64) { b.Op("m", x, y) }

// LineTo appends a straight segment (l).
func (b *Buffer) LineTo(x, y float64) { b.Op("l", x, y) }

// CurveTo appends a cubic Bezier segment (c).
func (b *Buffer) CurveTo(c1x, c1y, c2x, c2y, x, y float64) { b.Op("c", c1x, c1y, c2x, c2y, x, y) }

// Rect appends a rectangle subpath (re).
func (b *Buffer) Rect(x, y, w, h float64) { b.Op("re", x, y, w, h) }

// ClosePath closes the current subpath (h).
func (b *Buffer) ClosePath() { b.Op("h") }

// Fill paints the path; evenOdd selects the even-odd rule (f / f*).
func (b *Buffer) Fill(evenOdd bool) {
	if evenOdd {
		b.Op("f*")
	} else {
		b.Op("f")
	}
}

// Stroke strokes the path (S).
func (b *Buffer) Stroke() { b.Op("S") }

// FillAndStroke paints and strokes in one pass (B / B*).
func (b *Buffer) FillAndStroke(evenOdd bool) {
	if evenOdd {
		b.Op("B*")
	} else {
		b.Op("B")
	}
}

// Clip intersects the clipping region with the path and discards it
// (W n / W* n).
func (b *Buffer) Clip(evenOdd bool) {
	if evenOdd {
		b.Op("W*")
	} else {
		b.Op("W")
	}
	b.Op("n")
}

// EndPath discards the current path (n).
func (b *Buffer) EndPath() { b.Op("n") }

// LineWidth sets the stroke width (w).
func (b *Buffer) LineWidth(w float64) { b.Op("w", w) }

// SetLineCap sets the stroke cap style (J).
func (b *Buffer) SetLineCap(c LineCap) { b.Op("J", float64(c)) }

// SetLineJoin sets the stroke join style (j).
func (b *Buffer) SetLineJoin(j LineJoin) { b.Op("j", float64(j)) }

// MiterLimit sets the miter limit (M).
func (b *Buffer) MiterLimit(m float64) { b.Op("M", m) }

// Dash sets the dash pattern (d). An empty pattern restores solid
// strokes.
func (b *Buffer) Dash(pattern []float64, phase float64) {
	out := b.buf.AvailableBuffer()
	out = append(out, '[')
	for i, p := range pattern {
		if i > 0 {
			out = append(out, ' ')
		}
		out = b.num(out, p)
	}
	out = append(out, "] "...)
	out = b.num(out, phase)
	out = append(out, " d\n"...)
	b.buf.Write(out)
}

// FillRGB sets the nonstroking color in DeviceRGB (rg).
func (b *Buffer) FillRGB(r, g, bl float64) { b.Op("rg", r, g, bl) }

// StrokeRGB sets the stroking color in DeviceRGB (RG).
func (b *Buffer) StrokeRGB(r, g, bl float64) { b.Op("RG", r, g, bl) }

// FillCMYK sets the nonstroking color in DeviceCMYK (k).
func (b *Buffer) FillCMYK(c, m, y, k float64) { b.Op("k", c, m, y, k) }

// StrokeCMYK sets the stroking color in DeviceCMYK (K).
func (b *Buffer) StrokeCMYK(c, m, y, k float64) { b.Op("K", c, m, y, k) }

// ExtGState applies a named graphics state resource (gs).
func (b *Buffer) ExtGState(res string) { b.Name("gs", res) }

// XObject paints a named XObject resource (Do).
func (b *Buffer) XObject(res string) { b.Name("Do", res) }
