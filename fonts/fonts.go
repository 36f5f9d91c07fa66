// Package fonts provides the width-measurement collaborator for text
// layout: advance widths and vertical metrics for the built-in
// standard faces and for embedded TrueType fonts.
package fonts

// Font answers the metric queries the layout engine and the text
// renderer need. All dimensions are in points at the requested size.
type Font interface {
	// PostScriptName is the BaseFont name written into the font
	// dictionary.
	PostScriptName() string
	// WidthOf measures the total advance of s at the given size.
	WidthOf(s string, size float64) float64
	// Ascender is the distance from baseline to the top of the em.
	Ascender(size float64) float64
	// Descender is the distance from baseline to the bottom of the em;
	// it is negative.
	Descender(size float64) float64
	// LineHeight is the default baseline-to-baseline distance.
	LineHeight(size float64, includeGap bool) float64
	// Builtin reports whether this is one of the standard faces that
	// viewers provide, as opposed to an embedded font program.
	Builtin() bool
}
