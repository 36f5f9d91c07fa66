package document

import (
	"fmt"
	"sort"
	"unicode/utf16"

	"pdfgen/fonts"
	"pdfgen/raw"
	"pdfgen/writer"
)

// docFont is one font registered with a document: its resource name
// and the font object, which for embedded fonts stays open until End
// so the used-glyph set is complete.
type docFont struct {
	font fonts.Font
	name string
	obj  *writer.Object

	// embedded fonts only
	ttf  *fonts.TrueType
	used map[uint16]float64 // gid -> advance, 1/1000 em
}

type fontRegistry struct {
	w     *writer.Writer
	byKey map[string]*docFont
	order []*docFont
}

func newFontRegistry(w *writer.Writer) *fontRegistry {
	return &fontRegistry{w: w, byKey: make(map[string]*docFont)}
}

// register returns the document-wide handle for a font, creating its
// object on first use.
func (r *fontRegistry) register(f fonts.Font) *docFont {
	key := f.PostScriptName()
	if df, ok := r.byKey[key]; ok {
		return df
	}
	df := &docFont{
		font: f,
		name: fmt.Sprintf("F%d", len(r.order)+1),
		obj:  r.w.Alloc(raw.Dict{"Type": raw.Name("Font")}),
	}
	if ttf, ok := f.(*fonts.TrueType); ok {
		df.ttf = ttf
		df.used = make(map[uint16]float64)
	}
	r.byKey[key] = df
	r.order = append(r.order, df)
	return df
}

// finish writes every registered font object. Standard faces become
// plain Type1 dictionaries; embedded fonts become Type0 composite
// fonts with an identity CMap over glyph ids.
func (r *fontRegistry) finish() error {
	for _, df := range r.order {
		var err error
		if df.ttf == nil {
			err = r.finishStandard(df)
		} else {
			err = r.finishEmbedded(df)
		}
		if err != nil {
			return fmt.Errorf("font %s: %w", df.font.PostScriptName(), err)
		}
	}
	return nil
}

func (r *fontRegistry) finishStandard(df *docFont) error {
	dict := df.obj.Dict()
	dict["Subtype"] = raw.Name("Type1")
	dict["BaseFont"] = raw.Name(df.font.PostScriptName())
	// Symbol and ZapfDingbats map codes through their built-in
	// encoding; overriding it would select the wrong glyphs.
	if s, ok := df.font.(interface{ Symbolic() bool }); !ok || !s.Symbolic() {
		dict["Encoding"] = raw.Name("WinAnsiEncoding")
	}
	return df.obj.End()
}

func (r *fontRegistry) finishEmbedded(df *docFont) error {
	program := r.w.Alloc(raw.Dict{"Length1": raw.Integer(len(df.ttf.Program()))})
	if _, err := program.Write(df.ttf.Program()); err != nil {
		return err
	}
	if err := program.End(); err != nil {
		return err
	}

	ascent := df.ttf.Ascender(1000)
	descent := df.ttf.Descender(1000)
	descriptor := r.w.Alloc(raw.Dict{
		"Type":        raw.Name("FontDescriptor"),
		"FontName":    raw.Name(df.font.PostScriptName()),
		"Flags":       raw.Integer(4), // symbolic: identity-encoded glyphs
		"FontBBox":    raw.Array{raw.Real(-1000), raw.Real(descent), raw.Real(2000), raw.Real(ascent)},
		"ItalicAngle": raw.Integer(0),
		"Ascent":      raw.Real(ascent),
		"Descent":     raw.Real(descent),
		"CapHeight":   raw.Real(ascent),
		"XHeight":     raw.Real(ascent * 0.5),
		"StemV":       raw.Integer(80),
		"FontFile2":   program.Ref(),
	})
	if err := descriptor.End(); err != nil {
		return err
	}

	descendant := r.w.Alloc(raw.Dict{
		"Type":           raw.Name("Font"),
		"Subtype":        raw.Name("CIDFontType2"),
		"BaseFont":       raw.Name(df.font.PostScriptName()),
		"CIDSystemInfo":  cidSystemInfo(),
		"FontDescriptor": descriptor.Ref(),
		"CIDToGIDMap":    raw.Name("Identity"),
		"W":              widthsArray(df.used),
	})
	if err := descendant.End(); err != nil {
		return err
	}

	toUnicode, err := r.writeToUnicode(df)
	if err != nil {
		return err
	}

	dict := df.obj.Dict()
	dict["Subtype"] = raw.Name("Type0")
	dict["BaseFont"] = raw.Name(df.font.PostScriptName())
	dict["Encoding"] = raw.Name("Identity-H")
	dict["DescendantFonts"] = raw.Array{descendant.Ref()}
	dict["ToUnicode"] = toUnicode.Ref()
	return df.obj.End()
}

func cidSystemInfo() raw.Dict {
	return raw.Dict{
		"Registry":   raw.Text("Adobe"),
		"Ordering":   raw.Text("Identity"),
		"Supplement": raw.Integer(0),
	}
}

// widthsArray builds the /W entry from the used-glyph record, one
// [gid [w]] run per glyph, in gid order.
func widthsArray(used map[uint16]float64) raw.Array {
	gids := make([]int, 0, len(used))
	for g := range used {
		gids = append(gids, int(g))
	}
	sort.Ints(gids)

	var out raw.Array
	for _, g := range gids {
		out = append(out,
			raw.Integer(g),
			raw.Array{raw.Real(used[uint16(g)])},
		)
	}
	return out
}

// writeToUnicode emits the reverse-extraction CMap mapping each used
// glyph id back to the code point it was shaped from.
func (r *fontRegistry) writeToUnicode(df *docFont) (*writer.Object, error) {
	runes := df.ttf.Runes()
	gids := make([]int, 0, len(runes))
	for g := range runes {
		gids = append(gids, int(g))
	}
	sort.Ints(gids)

	obj := r.w.Alloc(raw.Dict{})
	buf := []byte(`/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo <<
  /Registry (Adobe)
  /Ordering (UCS)
  /Supplement 0
>> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <ffff>
endcodespacerange
`)
	buf = append(buf, fmt.Sprintf("%d beginbfchar\n", len(gids))...)
	for _, g := range gids {
		rn := runes[uint16(g)]
		if rn > 0xFFFF {
			hi, lo := utf16.EncodeRune(rn)
			buf = append(buf, fmt.Sprintf("<%04x> <%04x%04x>\n", g, hi, lo)...)
		} else {
			buf = append(buf, fmt.Sprintf("<%04x> <%04x>\n", g, rn)...)
		}
	}
	buf = append(buf, []byte(`endbfchar
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`)...)
	if _, err := obj.Write(buf); err != nil {
		return nil, err
	}
	if err := obj.End(); err != nil {
		return nil, err
	}
	return obj, nil
}

// Font selects the current font and size for subsequent Text calls.
// Standard face names resolve through the built-in metrics; embedded
// fonts are passed as fonts.Font values.
func (d *Document) Font(f fonts.Font, size float64) *Document {
	d.curFont = d.fonts.register(f)
	d.curFontSize = size
	return d
}

// FontNamed selects one of the built-in standard faces by PostScript
// name.
func (d *Document) FontNamed(name string, size float64) error {
	f, ok := fonts.Standard(name)
	if !ok {
		return fmt.Errorf("document: unknown standard font %q", name)
	}
	d.Font(f, size)
	return nil
}
