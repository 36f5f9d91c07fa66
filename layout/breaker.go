package layout

import "github.com/go-text/typesetting/segmenter"

// Break is one line-break opportunity. Pos is the rune index just past
// the breakable segment (trailing whitespace belongs to the segment
// before the break). Required marks a mandatory break: a hard newline
// that must end the line regardless of remaining space.
type Break struct {
	Pos      int
	Required bool
}

// Breaker produces the finite sequence of break opportunities for a
// string. Implementations must be restartable: calling Breaks twice
// with the same input yields the same sequence.
type Breaker interface {
	Breaks(text string) []Break
}

// UAX14Breaker finds break opportunities with the Unicode line
// breaking algorithm.
type UAX14Breaker struct{}

func (UAX14Breaker) Breaks(text string) []Break {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	var seg segmenter.Segmenter
	seg.Init(runes)
	var out []Break
	iter := seg.LineIterator()
	for iter.Next() {
		line := iter.Line()
		out = append(out, Break{
			Pos:      line.Offset + len(line.Text),
			Required: line.IsMandatoryBreak,
		})
	}
	return out
}
