package document

import (
	"math"

	"pdfgen/contentstream"
)

// kappa approximates a quarter circle with one cubic segment.
const kappa = 4 * (math.Sqrt2 - 1) / 3

// Save pushes the graphics state.
func (d *Document) Save() *Document {
	d.Page().content.Save()
	return d
}

// Restore pops the graphics state.
func (d *Document) Restore() *Document {
	d.Page().content.Restore()
	return d
}

// Translate moves the origin.
func (d *Document) Translate(x, y float64) *Document {
	d.Page().content.Transform(1, 0, 0, 1, x, y)
	return d
}

// Scale scales subsequent drawing.
func (d *Document) Scale(sx, sy float64) *Document {
	d.Page().content.Transform(sx, 0, 0, sy, 0, 0)
	return d
}

// Rotate rotates subsequent drawing by degrees around a point.
func (d *Document) Rotate(deg, x, y float64) *Document {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	c := &d.Page().content
	c.Transform(cos, sin, -sin, cos,
		x-x*cos+y*sin, y-x*sin-y*cos)
	return d
}

// MoveTo begins a new subpath.
func (d *Document) MoveTo(x, y float64) *Document {
	d.Page().content.MoveTo(x, y)
	return d
}

// LineTo extends the path with a straight segment.
func (d *Document) LineTo(x, y float64) *Document {
	d.Page().content.LineTo(x, y)
	return d
}

// BezierCurveTo extends the path with a cubic segment.
func (d *Document) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) *Document {
	d.Page().content.CurveTo(c1x, c1y, c2x, c2y, x, y)
	return d
}

// ClosePath closes the current subpath.
func (d *Document) ClosePath() *Document {
	d.Page().content.ClosePath()
	return d
}

// Rect adds a rectangle subpath.
func (d *Document) Rect(x, y, w, h float64) *Document {
	d.Page().content.Rect(x, y, w, h)
	return d
}

// RoundedRect adds a rectangle with circular corners of radius r.
func (d *Document) RoundedRect(x, y, w, h, r float64) *Document {
	r = math.Min(r, math.Min(w/2, h/2))
	c := r * kappa
	d.MoveTo(x+r, y)
	d.LineTo(x+w-r, y)
	d.BezierCurveTo(x+w-r+c, y, x+w, y+r-c, x+w, y+r)
	d.LineTo(x+w, y+h-r)
	d.BezierCurveTo(x+w, y+h-r+c, x+w-r+c, y+h, x+w-r, y+h)
	d.LineTo(x+r, y+h)
	d.BezierCurveTo(x+r-c, y+h, x, y+h-r+c, x, y+h-r)
	d.LineTo(x, y+r)
	d.BezierCurveTo(x, y+r-c, x+r-c, y, x+r, y)
	return d.ClosePath()
}

// Ellipse adds an ellipse subpath centered at (cx, cy).
func (d *Document) Ellipse(cx, cy, rx, ry float64) *Document {
	ox, oy := rx*kappa, ry*kappa
	d.MoveTo(cx-rx, cy)
	d.BezierCurveTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	d.BezierCurveTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	d.BezierCurveTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	d.BezierCurveTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	return d.ClosePath()
}

// Circle adds a circle subpath.
func (d *Document) Circle(cx, cy, r float64) *Document {
	return d.Ellipse(cx, cy, r, r)
}

// Polygon adds a closed polyline through the given points, listed as
// x,y pairs.
func (d *Document) Polygon(coords ...float64) *Document {
	if len(coords) < 4 {
		return d
	}
	d.MoveTo(coords[0], coords[1])
	for i := 2; i+1 < len(coords); i += 2 {
		d.LineTo(coords[i], coords[i+1])
	}
	return d.ClosePath()
}

// LineWidth sets the stroke width.
func (d *Document) LineWidth(w float64) *Document {
	d.Page().content.LineWidth(w)
	return d
}

// LineCap sets the stroke cap style.
func (d *Document) LineCap(c contentstream.LineCap) *Document {
	d.Page().content.SetLineCap(c)
	return d
}

// LineJoin sets the stroke join style.
func (d *Document) LineJoin(j contentstream.LineJoin) *Document {
	d.Page().content.SetLineJoin(j)
	return d
}

// MiterLimit sets the stroke miter limit.
func (d *Document) MiterLimit(m float64) *Document {
	d.Page().content.MiterLimit(m)
	return d
}

// Dash sets the stroke dash pattern.
func (d *Document) Dash(pattern []float64, phase float64) *Document {
	d.Page().content.Dash(pattern, phase)
	return d
}

// Undash restores solid strokes.
func (d *Document) Undash() *Document {
	d.Page().content.Dash(nil, 0)
	return d
}

// Fill paints the current path with the fill color.
func (d *Document) Fill(evenOdd ...bool) *Document {
	d.Page().content.Fill(len(evenOdd) > 0 && evenOdd[0])
	return d
}

// Stroke strokes the current path.
func (d *Document) Stroke() *Document {
	d.Page().content.Stroke()
	return d
}

// FillAndStroke paints and strokes the current path.
func (d *Document) FillAndStroke(evenOdd ...bool) *Document {
	d.Page().content.FillAndStroke(len(evenOdd) > 0 && evenOdd[0])
	return d
}

// Clip intersects the clip region with the current path.
func (d *Document) Clip(evenOdd ...bool) *Document {
	d.Page().content.Clip(len(evenOdd) > 0 && evenOdd[0])
	return d
}
