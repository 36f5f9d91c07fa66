package fonts

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// shapeSize makes one em equal 1000 layout units, the PDF text-space
// convention, so advances come back directly in 1/1000 em.
const shapeSize = fixed.Int26_6(1000 * 64)

// TrueType is an embeddable font backed by a TrueType/OpenType program.
// Widths are produced by shaping, so ligatures and script-specific
// forms measure the way they will render.
type TrueType struct {
	name string
	data []byte
	face *gofont.Face

	shaper shaping.HarfbuzzShaper

	widthCache map[string]float64 // advance in 1/1000 em units
	glyphRunes map[uint16]rune    // reverse mapping for text extraction
	ascent     float64            // 1/1000 em
	descent    float64            // 1/1000 em, negative
	gap        float64            // 1/1000 em
	metricsOK  bool
}

// ParseTTF parses a TrueType or OpenType font program.
func ParseTTF(name string, data []byte) (*TrueType, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fonts: parse %s: %w", name, err)
	}
	return &TrueType{
		name:       name,
		data:       append([]byte(nil), data...),
		face:       face,
		widthCache: make(map[string]float64),
		glyphRunes: make(map[uint16]rune),
	}, nil
}

func (f *TrueType) PostScriptName() string { return f.name }
func (f *TrueType) Builtin() bool          { return false }

// Program returns the raw font file bytes for embedding.
func (f *TrueType) Program() []byte { return f.data }

func (f *TrueType) shape(runes []rune) shaping.Output {
	script := detectScript(runes)
	return f.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      f.face,
		Size:      shapeSize,
		Script:    script,
		Language:  language.DefaultLanguage(),
	})
}

func (f *TrueType) unitsOf(s string) float64 {
	if w, ok := f.widthCache[s]; ok {
		return w
	}
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	out := f.shape(runes)
	var adv fixed.Int26_6
	for _, g := range out.Glyphs {
		adv += g.XAdvance
		ci := g.ClusterIndex
		if ci >= 0 && ci < len(runes) {
			f.glyphRunes[uint16(g.GlyphID)] = runes[ci]
		}
	}
	if !f.metricsOK {
		f.ascent = float64(out.LineBounds.Ascent) / 64
		f.descent = float64(out.LineBounds.Descent) / 64
		f.gap = float64(out.LineBounds.Gap) / 64
		f.metricsOK = true
	}
	w := float64(adv) / 64
	f.widthCache[s] = w
	return w
}

func (f *TrueType) WidthOf(s string, size float64) float64 {
	return f.unitsOf(s) * size / 1000
}

// Glyph is one shaped glyph: the id to place in the content stream and
// its advance in 1/1000 em units.
type Glyph struct {
	GID     uint16
	Advance float64
}

// Glyphs shapes s into the glyph sequence that renders it. The
// glyph-to-rune record is updated as a side effect, the same way
// WidthOf updates it.
func (f *TrueType) Glyphs(s string) []Glyph {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	out := f.shape(runes)
	gs := make([]Glyph, 0, len(out.Glyphs))
	for _, g := range out.Glyphs {
		ci := g.ClusterIndex
		if ci >= 0 && ci < len(runes) {
			f.glyphRunes[uint16(g.GlyphID)] = runes[ci]
		}
		gs = append(gs, Glyph{GID: uint16(g.GlyphID), Advance: float64(g.XAdvance) / 64})
	}
	return gs
}

func (f *TrueType) ensureMetrics() {
	if !f.metricsOK {
		f.unitsOf(" ")
	}
}

func (f *TrueType) Ascender(size float64) float64 {
	f.ensureMetrics()
	return f.ascent * size / 1000
}

func (f *TrueType) Descender(size float64) float64 {
	f.ensureMetrics()
	return f.descent * size / 1000
}

func (f *TrueType) LineHeight(size float64, includeGap bool) float64 {
	f.ensureMetrics()
	h := f.ascent - f.descent
	if includeGap {
		h += f.gap
	}
	return h * size / 1000
}

// Runes reports the code point each used glyph id was shaped from, for
// building the reverse-extraction (ToUnicode) map. Only glyphs seen by
// earlier WidthOf calls are present.
func (f *TrueType) Runes() map[uint16]rune {
	out := make(map[uint16]rune, len(f.glyphRunes))
	for g, r := range f.glyphRunes {
		out[g] = r
	}
	return out
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

func detectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	best := language.Latin
	max := 0
	for _, r := range runes {
		s := scriptFromRune(r)
		if s == language.Unknown {
			continue
		}
		counts[s]++
		if counts[s] > max {
			max = counts[s]
			best = s
		}
	}
	return best
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
		return language.Hiragana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	case unicode.Is(unicode.Devanagari, r):
		return language.Devanagari
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	default:
		return language.Unknown
	}
}
