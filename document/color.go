package document

import (
	"fmt"
	"strconv"
	"strings"

	"pdfgen/raw"
)

// gstate is one shared ExtGState resource: its document-wide resource
// name and the written object.
type gstate struct {
	name string
	ref  raw.Ref
}

type colorSpace int

const (
	spaceRGB colorSpace = iota
	spaceCMYK
)

// colorValue is a device color plus the space it lives in. Components
// are in [0,1].
type colorValue struct {
	space colorSpace
	c     [4]float64
}

func rgb(r, g, b float64) colorValue {
	return colorValue{space: spaceRGB, c: [4]float64{r, g, b}}
}

// cssColors is the keyword table accepted by ParseColor. It covers the
// basic CSS palette plus the extended names that come up in practice.
var cssColors = map[string]colorValue{
	"black":   rgb(0, 0, 0),
	"white":   rgb(1, 1, 1),
	"red":     rgb(1, 0, 0),
	"green":   rgb(0, 128.0 / 255, 0),
	"blue":    rgb(0, 0, 1),
	"yellow":  rgb(1, 1, 0),
	"cyan":    rgb(0, 1, 1),
	"aqua":    rgb(0, 1, 1),
	"magenta": rgb(1, 0, 1),
	"fuchsia": rgb(1, 0, 1),
	"gray":    rgb(128.0 / 255, 128.0 / 255, 128.0 / 255),
	"grey":    rgb(128.0 / 255, 128.0 / 255, 128.0 / 255),
	"silver":  rgb(192.0 / 255, 192.0 / 255, 192.0 / 255),
	"maroon":  rgb(128.0 / 255, 0, 0),
	"olive":   rgb(128.0 / 255, 128.0 / 255, 0),
	"lime":    rgb(0, 1, 0),
	"teal":    rgb(0, 128.0 / 255, 128.0 / 255),
	"navy":    rgb(0, 0, 128.0 / 255),
	"purple":  rgb(128.0 / 255, 0, 128.0 / 255),
	"orange":  rgb(1, 165.0 / 255, 0),
	"pink":    rgb(1, 192.0 / 255, 203.0 / 255),
	"brown":   rgb(165.0 / 255, 42.0 / 255, 42.0 / 255),
	"gold":    rgb(1, 215.0 / 255, 0),
	"indigo":  rgb(75.0 / 255, 0, 130.0 / 255),
	"violet":  rgb(238.0 / 255, 130.0 / 255, 238.0 / 255),
}

// ParseColor accepts a CSS keyword, "#rgb" or "#rrggbb".
func ParseColor(s string) (colorValue, error) {
	if c, ok := cssColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			v, err := strconv.ParseUint(hex, 16, 32)
			if err == nil {
				return rgb(
					float64(v>>16&0xFF)/255,
					float64(v>>8&0xFF)/255,
					float64(v&0xFF)/255,
				), nil
			}
		}
	}
	return colorValue{}, fmt.Errorf("document: cannot parse color %q", s)
}

// FillColor sets the nonstroking color from a CSS keyword or hex
// string.
func (d *Document) FillColor(s string) error {
	c, err := ParseColor(s)
	if err != nil {
		return err
	}
	d.setFill(c)
	return nil
}

// StrokeColor sets the stroking color from a CSS keyword or hex string.
func (d *Document) StrokeColor(s string) error {
	c, err := ParseColor(s)
	if err != nil {
		return err
	}
	d.setStroke(c)
	return nil
}

// FillRGB sets the nonstroking color with components in [0,1].
func (d *Document) FillRGB(r, g, b float64) *Document {
	d.setFill(rgb(r, g, b))
	return d
}

// StrokeRGB sets the stroking color with components in [0,1].
func (d *Document) StrokeRGB(r, g, b float64) *Document {
	d.setStroke(rgb(r, g, b))
	return d
}

// FillCMYK sets the nonstroking color in DeviceCMYK.
func (d *Document) FillCMYK(c, m, y, k float64) *Document {
	d.setFill(colorValue{space: spaceCMYK, c: [4]float64{c, m, y, k}})
	return d
}

// StrokeCMYK sets the stroking color in DeviceCMYK.
func (d *Document) StrokeCMYK(c, m, y, k float64) *Document {
	d.setStroke(colorValue{space: spaceCMYK, c: [4]float64{c, m, y, k}})
	return d
}

func (d *Document) setFill(c colorValue) {
	d.fill = c
	d.applyFill(d.Page())
}

func (d *Document) setStroke(c colorValue) {
	d.stroke = c
	d.applyStroke(d.Page())
}

// applyFill re-emits the current fill color onto a page's content,
// used both on color changes and after a page break inside a text
// flow.
func (d *Document) applyFill(p *Page) {
	if p == nil {
		return
	}
	c := d.fill
	if c.space == spaceCMYK {
		p.content.FillCMYK(c.c[0], c.c[1], c.c[2], c.c[3])
	} else {
		p.content.FillRGB(c.c[0], c.c[1], c.c[2])
	}
}

func (d *Document) applyStroke(p *Page) {
	if p == nil {
		return
	}
	c := d.stroke
	if c.space == spaceCMYK {
		p.content.StrokeCMYK(c.c[0], c.c[1], c.c[2], c.c[3])
	} else {
		p.content.StrokeRGB(c.c[0], c.c[1], c.c[2])
	}
}

// Opacity applies fill and stroke alpha through a shared ExtGState
// object; equal values reuse the same object across pages.
func (d *Document) Opacity(fill, stroke float64) error {
	key := [2]float64{fill, stroke}
	gs, ok := d.gstates[key]
	if !ok {
		obj := d.w.Alloc(raw.Dict{
			"Type": raw.Name("ExtGState"),
			"ca":   raw.Real(fill),
			"CA":   raw.Real(stroke),
		})
		if err := obj.End(); err != nil {
			return err
		}
		gs = gstate{name: fmt.Sprintf("Gs%d", len(d.gstates)+1), ref: obj.Ref()}
		d.gstates[key] = gs
	}
	p := d.Page()
	p.addExtGState(gs.name, gs.ref)
	p.content.ExtGState(gs.name)
	return nil
}
