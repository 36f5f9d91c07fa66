package fonts

// Advance widths for the standard faces, in 1/1000 em, covering the
// code range 32..126. Taken from the Adobe core AFM files. For the
// symbolic faces (Symbol, ZapfDingbats) the codes select glyphs
// through the font's built-in encoding, so text passed to them must
// use those codes.

type afmFont struct {
	name      string
	widths    *[95]int16
	ascender  float64 // 1/1000 em
	descender float64 // 1/1000 em, negative
	symbolic  bool    // built-in encoding; no WinAnsi override
}

// Symbolic reports whether the face uses its built-in encoding; the
// font dictionary must not override it.
func (f *afmFont) Symbolic() bool { return f.symbolic }

func (f *afmFont) PostScriptName() string { return f.name }
func (f *afmFont) Builtin() bool          { return true }

func (f *afmFont) WidthOf(s string, size float64) float64 {
	var units int64
	for _, r := range s {
		units += int64(f.widthUnits(r))
	}
	return float64(units) * size / 1000
}

func (f *afmFont) widthUnits(r rune) int16 {
	if r >= 32 && r <= 126 {
		return f.widths[r-32]
	}
	if r == '\u00A0' { // no-break space measures like a space
		return f.widths[0]
	}
	return f.widths[0]
}

func (f *afmFont) Ascender(size float64) float64  { return f.ascender * size / 1000 }
func (f *afmFont) Descender(size float64) float64 { return f.descender * size / 1000 }

// LineHeight ignores includeGap: the AFM files carry no line gap.
func (f *afmFont) LineHeight(size float64, includeGap bool) float64 {
	return (f.ascender - f.descender) * size / 1000
}

var helveticaWidths = [95]int16{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333,
	278, 278, 556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278,
	584, 584, 584, 556, 1015, 667, 667, 722, 722, 667, 611, 778, 722, 278,
	500, 667, 556, 833, 722, 778, 667, 778, 722, 667, 611, 722, 667, 944,
	667, 667, 611, 278, 278, 278, 469, 556, 333, 556, 556, 500, 556, 556,
	278, 556, 556, 222, 222, 500, 222, 833, 556, 556, 556, 556, 333, 500,
	278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

var helveticaBoldWidths = [95]int16{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333,
	278, 278, 556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333,
	584, 584, 584, 611, 975, 722, 722, 722, 722, 667, 611, 778, 722, 278,
	556, 722, 611, 833, 722, 778, 667, 778, 722, 667, 611, 722, 667, 944,
	667, 667, 611, 333, 278, 333, 584, 556, 333, 556, 611, 556, 611, 556,
	333, 611, 611, 278, 278, 556, 278, 889, 611, 611, 611, 611, 389, 556,
	333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}

var timesRomanWidths = [95]int16{
	250, 333, 408, 500, 500, 833, 778, 180, 333, 333, 500, 564, 250, 333,
	250, 278, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 278, 278,
	564, 564, 564, 444, 921, 722, 667, 667, 722, 611, 556, 722, 722, 333,
	389, 722, 611, 889, 722, 722, 556, 722, 667, 556, 611, 722, 722, 944,
	722, 722, 611, 333, 278, 333, 469, 500, 333, 444, 500, 444, 500, 444,
	333, 500, 500, 278, 278, 500, 278, 778, 500, 500, 500, 500, 333, 389,
	278, 500, 500, 722, 500, 500, 444, 480, 200, 480, 541,
}

var timesBoldWidths = [95]int16{
	250, 333, 555, 500, 500, 1000, 833, 278, 333, 333, 500, 570, 250, 333,
	250, 278, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333,
	570, 570, 570, 500, 930, 722, 667, 722, 722, 667, 611, 778, 778, 389,
	500, 778, 667, 944, 722, 778, 611, 778, 722, 556, 667, 722, 722, 1000,
	722, 722, 667, 333, 278, 333, 581, 500, 333, 500, 556, 444, 556, 444,
	333, 500, 556, 278, 333, 556, 278, 833, 556, 500, 556, 556, 444, 389,
	333, 556, 500, 722, 500, 500, 444, 394, 220, 394, 520,
}

var timesItalicWidths = [95]int16{
	250, 333, 420, 500, 500, 833, 778, 214, 333, 333, 500, 675, 250, 333,
	250, 278, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333,
	675, 675, 675, 500, 920, 611, 611, 667, 722, 611, 611, 722, 722, 333,
	444, 667, 556, 833, 667, 722, 611, 722, 611, 500, 556, 722, 611, 833,
	611, 556, 556, 389, 278, 389, 422, 500, 333, 500, 500, 444, 500, 444,
	278, 500, 500, 278, 278, 444, 278, 722, 500, 500, 500, 500, 389, 389,
	278, 500, 444, 667, 444, 444, 389, 400, 275, 400, 541,
}

var timesBoldItalicWidths = [95]int16{
	250, 389, 555, 500, 500, 833, 778, 278, 333, 333, 500, 570, 250, 333,
	250, 278, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333,
	570, 570, 570, 500, 832, 667, 667, 667, 722, 667, 667, 722, 778, 389,
	500, 667, 611, 889, 722, 722, 611, 722, 667, 556, 611, 722, 667, 889,
	667, 611, 611, 333, 278, 333, 570, 500, 333, 500, 500, 444, 500, 444,
	333, 500, 556, 278, 278, 500, 278, 778, 556, 500, 500, 500, 389, 389,
	278, 556, 444, 667, 500, 444, 389, 348, 220, 348, 570,
}

var courierWidths = func() *[95]int16 {
	var w [95]int16
	for i := range w {
		w[i] = 600
	}
	return &w
}()

var symbolWidths = [95]int16{
	250, 333, 713, 500, 549, 833, 778, 439, 333, 333, 500, 549, 250, 549,
	250, 278, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 278, 278,
	549, 549, 549, 444, 549, 722, 667, 722, 612, 611, 763, 603, 722, 333,
	631, 722, 686, 889, 722, 722, 768, 741, 556, 592, 611, 690, 439, 768,
	645, 795, 611, 333, 863, 333, 658, 500, 500, 631, 549, 549, 494, 439,
	521, 411, 603, 329, 603, 549, 549, 576, 521, 549, 549, 521, 549, 603,
	439, 576, 713, 686, 493, 686, 494, 480, 200, 480, 549,
}

var zapfDingbatsWidths = [95]int16{
	278, 974, 961, 974, 980, 719, 789, 790, 791, 690, 960, 939, 549, 855,
	911, 933, 911, 945, 974, 755, 846, 762, 761, 571, 677, 763, 760, 759,
	754, 494, 552, 537, 577, 692, 786, 788, 788, 790, 793, 794, 816, 823,
	789, 841, 823, 833, 816, 831, 923, 744, 723, 749, 790, 792, 695, 776,
	768, 792, 759, 707, 708, 682, 701, 826, 815, 789, 789, 707, 687, 696,
	689, 786, 787, 713, 791, 785, 791, 873, 761, 762, 762, 759, 759, 892,
	892, 789, 789, 707, 687, 696, 689, 786, 787, 713, 791,
}

var standardFaces = map[string]*afmFont{
	"Helvetica":             {"Helvetica", &helveticaWidths, 718, -207, false},
	"Helvetica-Bold":        {"Helvetica-Bold", &helveticaBoldWidths, 718, -207, false},
	"Helvetica-Oblique":     {"Helvetica-Oblique", &helveticaWidths, 718, -207, false},
	"Helvetica-BoldOblique": {"Helvetica-BoldOblique", &helveticaBoldWidths, 718, -207, false},
	"Times-Roman":           {"Times-Roman", &timesRomanWidths, 683, -217, false},
	"Times-Bold":            {"Times-Bold", &timesBoldWidths, 676, -205, false},
	"Times-Italic":          {"Times-Italic", &timesItalicWidths, 683, -205, false},
	"Times-BoldItalic":      {"Times-BoldItalic", &timesBoldItalicWidths, 682, -217, false},
	"Courier":               {"Courier", courierWidths, 629, -157, false},
	"Courier-Bold":          {"Courier-Bold", courierWidths, 629, -157, false},
	"Courier-Oblique":       {"Courier-Oblique", courierWidths, 629, -157, false},
	"Courier-BoldOblique":   {"Courier-BoldOblique", courierWidths, 629, -157, false},
	// The symbolic AFMs carry no Ascender/Descender; the font bounding
	// box stands in.
	"Symbol":       {"Symbol", &symbolWidths, 1010, -293, true},
	"ZapfDingbats": {"ZapfDingbats", &zapfDingbatsWidths, 820, -143, true},
}

// Standard returns one of the built-in faces by its PostScript name.
func Standard(name string) (Font, bool) {
	f, ok := standardFaces[name]
	return f, ok
}
