package document

import (
	"fmt"
	"math"
	"strconv"
)

// Path appends an SVG path-data string to the current path. All of the
// SVG 1.1 commands are supported, including elliptical arcs, which are
// converted to cubic segments.
func (d *Document) Path(data string) error {
	p := svgParser{doc: d}
	return p.run(data)
}

// svgParser carries the per-call interpreter state: current point,
// subpath start, and the previous control point for the S/T shorthand
// reflections. A fresh parser per Path call keeps concurrent documents
// independent.
type svgParser struct {
	doc *Document

	x, y   float64 // current point
	sx, sy float64 // subpath start
	cx, cy float64 // last cubic control point
	qx, qy float64 // last quadratic control point
	prev   byte    // previous command letter, lowercased
}

func (p *svgParser) run(data string) error {
	i := 0
	n := len(data)
	var cmd byte

	for i < n {
		c := data[i]
		switch {
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			i++
			continue
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			cmd = c
			i++
		case cmd == 0:
			return fmt.Errorf("document: svg path starts with %q, not a command", c)
		case cmd == 'Z' || cmd == 'z':
			// Z takes no arguments, so data cannot follow it.
			return fmt.Errorf("document: svg path: unexpected %q after close", c)
		}
		// Implicit repetition: after M/m the repeated form is L/l.
		switch cmd {
		case 'M':
			cmd = 'L'
			if err := p.moveTo(&i, data, false); err != nil {
				return err
			}
			continue
		case 'm':
			cmd = 'l'
			if err := p.moveTo(&i, data, true); err != nil {
				return err
			}
			continue
		}
		if err := p.apply(cmd, &i, data); err != nil {
			return err
		}
	}
	return nil
}

func (p *svgParser) apply(cmd byte, i *int, data string) error {
	rel := cmd >= 'a'
	switch cmd {
	case 'L', 'l':
		x, y, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		p.lineTo(x, y)
	case 'H', 'h':
		v, err := p.number(i, data)
		if err != nil {
			return err
		}
		if rel {
			v += p.x
		}
		p.lineTo(v, p.y)
	case 'V', 'v':
		v, err := p.number(i, data)
		if err != nil {
			return err
		}
		if rel {
			v += p.y
		}
		p.lineTo(p.x, v)
	case 'C', 'c':
		c1x, c1y, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		c2x, c2y, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		x, y, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		p.cubic(c1x, c1y, c2x, c2y, x, y)
	case 'S', 's':
		c2x, c2y, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		x, y, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		c1x, c1y := p.x, p.y
		if p.prev == 'c' || p.prev == 's' {
			c1x, c1y = 2*p.x-p.cx, 2*p.y-p.cy
		}
		p.cubic(c1x, c1y, c2x, c2y, x, y)
	case 'Q', 'q':
		qx, qy, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		x, y, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		p.quadratic(qx, qy, x, y)
	case 'T', 't':
		x, y, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		qx, qy := p.x, p.y
		if p.prev == 'q' || p.prev == 't' {
			qx, qy = 2*p.x-p.qx, 2*p.y-p.qy
		}
		p.quadratic(qx, qy, x, y)
	case 'A', 'a':
		rx, err := p.number(i, data)
		if err != nil {
			return err
		}
		ry, err := p.number(i, data)
		if err != nil {
			return err
		}
		rot, err := p.number(i, data)
		if err != nil {
			return err
		}
		large, err := p.flag(i, data)
		if err != nil {
			return err
		}
		sweep, err := p.flag(i, data)
		if err != nil {
			return err
		}
		x, y, err := p.coords2(i, data, rel)
		if err != nil {
			return err
		}
		p.arc(rx, ry, rot, large, sweep, x, y)
	case 'Z', 'z':
		p.doc.ClosePath()
		p.x, p.y = p.sx, p.sy
	default:
		return fmt.Errorf("document: svg path command %q not recognized", cmd)
	}
	p.prev = cmd | 0x20
	return nil
}

func (p *svgParser) moveTo(i *int, data string, rel bool) error {
	x, y, err := p.coords2(i, data, rel)
	if err != nil {
		return err
	}
	p.doc.MoveTo(x, y)
	p.x, p.y = x, y
	p.sx, p.sy = x, y
	p.prev = 'm'
	return nil
}

func (p *svgParser) lineTo(x, y float64) {
	p.doc.LineTo(x, y)
	p.x, p.y = x, y
}

func (p *svgParser) cubic(c1x, c1y, c2x, c2y, x, y float64) {
	p.doc.BezierCurveTo(c1x, c1y, c2x, c2y, x, y)
	p.cx, p.cy = c2x, c2y
	p.x, p.y = x, y
}

// quadratic raises a quadratic segment to the equivalent cubic.
func (p *svgParser) quadratic(qx, qy, x, y float64) {
	c1x := p.x + 2.0/3.0*(qx-p.x)
	c1y := p.y + 2.0/3.0*(qy-p.y)
	c2x := x + 2.0/3.0*(qx-x)
	c2y := y + 2.0/3.0*(qy-y)
	p.doc.BezierCurveTo(c1x, c1y, c2x, c2y, x, y)
	p.qx, p.qy = qx, qy
	p.x, p.y = x, y
}

// arc converts an SVG endpoint arc into center form and emits it as
// cubic segments of at most a quarter turn each.
func (p *svgParser) arc(rx, ry, rotDeg float64, large, sweep bool, x, y float64) {
	if rx == 0 || ry == 0 {
		p.lineTo(x, y)
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	phi := rotDeg * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	// midpoint form
	dx := (p.x - x) / 2
	dy := (p.y - y) / 2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	// scale radii up if the endpoints are too far apart
	lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	co := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		co = -co
	}
	cx1 := co * rx * y1 / ry
	cy1 := -co * ry * x1 / rx
	cx := cosPhi*cx1 - sinPhi*cy1 + (p.x+x)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (p.y+y)/2

	angle := func(ux, uy, vx, vy float64) float64 {
		dot := ux*vx + uy*vy
		len := math.Sqrt((ux*ux + uy*uy) * (vx*vx + vy*vy))
		a := math.Acos(math.Min(1, math.Max(-1, dot/len)))
		if ux*vy-uy*vx < 0 {
			a = -a
		}
		return a
	}
	theta1 := angle(1, 0, (x1-cx1)/rx, (y1-cy1)/ry)
	delta := angle((x1-cx1)/rx, (y1-cy1)/ry, (-x1-cx1)/rx, (-y1-cy1)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	segments := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if segments < 1 {
		segments = 1
	}
	step := delta / float64(segments)
	// cubic approximation constant for one step
	alpha := 4.0 / 3.0 * math.Tan(step/4)

	t := theta1
	for s := 0; s < segments; s++ {
		t2 := t + step

		pt := func(a float64) (float64, float64) {
			ex := rx * math.Cos(a)
			ey := ry * math.Sin(a)
			return cosPhi*ex - sinPhi*ey + cx, sinPhi*ex + cosPhi*ey + cy
		}
		deriv := func(a float64) (float64, float64) {
			ex := -rx * math.Sin(a)
			ey := ry * math.Cos(a)
			return cosPhi*ex - sinPhi*ey, sinPhi*ex + cosPhi*ey
		}

		x0, y0 := pt(t)
		x3, y3 := pt(t2)
		d0x, d0y := deriv(t)
		d3x, d3y := deriv(t2)

		p.doc.BezierCurveTo(
			x0+alpha*d0x, y0+alpha*d0y,
			x3-alpha*d3x, y3-alpha*d3y,
			x3, y3,
		)
		t = t2
	}
	p.x, p.y = x, y
}

func (p *svgParser) coords2(i *int, data string, rel bool) (float64, float64, error) {
	x, err := p.number(i, data)
	if err != nil {
		return 0, 0, err
	}
	y, err := p.number(i, data)
	if err != nil {
		return 0, 0, err
	}
	if rel {
		x += p.x
		y += p.y
	}
	return x, y, nil
}

// number scans one float, skipping leading separators. A sign or a dot
// may start a new number immediately after the previous one, as SVG
// allows "1.5.5" and "1-2".
func (p *svgParser) number(i *int, data string) (float64, error) {
	n := len(data)
	for *i < n && (data[*i] == ' ' || data[*i] == ',' || data[*i] == '\t' || data[*i] == '\n' || data[*i] == '\r') {
		*i++
	}
	start := *i
	if *i < n && (data[*i] == '+' || data[*i] == '-') {
		*i++
	}
	sawDot := false
	for *i < n {
		c := data[*i]
		if c >= '0' && c <= '9' {
			*i++
			continue
		}
		if c == '.' && !sawDot {
			sawDot = true
			*i++
			continue
		}
		if (c == 'e' || c == 'E') && *i > start {
			*i++
			if *i < n && (data[*i] == '+' || data[*i] == '-') {
				*i++
			}
			continue
		}
		break
	}
	if *i == start {
		return 0, fmt.Errorf("document: svg path: number expected at offset %d", start)
	}
	v, err := strconv.ParseFloat(data[start:*i], 64)
	if err != nil {
		return 0, fmt.Errorf("document: svg path: %w", err)
	}
	return v, nil
}

// flag scans an arc flag, which is a bare 0 or 1 and may be run
// together with the next number.
func (p *svgParser) flag(i *int, data string) (bool, error) {
	n := len(data)
	for *i < n && (data[*i] == ' ' || data[*i] == ',' || data[*i] == '\t' || data[*i] == '\n' || data[*i] == '\r') {
		*i++
	}
	if *i >= n || (data[*i] != '0' && data[*i] != '1') {
		return false, fmt.Errorf("document: svg path: flag expected at offset %d", *i)
	}
	v := data[*i] == '1'
	*i++
	return v, nil
}
