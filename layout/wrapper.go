// Package layout implements the text flow engine: greedy line fitting,
// overlong-word splitting, justification arithmetic, ellipsis
// truncation, and multi-column / multi-page continuation. The engine
// emits line events; rendering them is the consumer's concern.
package layout

import (
	"math"
	"strings"
	"unicode"
)

// Align selects horizontal placement of each emitted line.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// Line is one "line ready to render" event.
type Line struct {
	// Text is the line's content with trailing whitespace stripped.
	Text string
	// Width is the measured width of Text, without justification
	// padding.
	Width float64
	// WordCount is the number of break-delimited words packed into the
	// line.
	WordCount int
	// LineWidth is the horizontal space the line was allotted.
	LineWidth float64
	// Last marks the final line of a paragraph; justification degrades
	// to left alignment on such lines.
	Last bool
}

// Events connects the engine to its consumer. Line is required.
// PageBreak is called when vertical space is exhausted and no column
// remains; it returns the new content origin and vertical limit.
type Events struct {
	Line      func(l Line, x, y float64) error
	PageBreak func() (x, y, maxY float64, err error)
}

// Config fixes the geometry and style of one text flow.
type Config struct {
	X, Y       float64 // content origin
	Width      float64 // total width available, across all columns
	Height     float64 // optional bound; 0 means limited by MaxY only
	MaxY       float64 // vertical limit before a section advance
	Columns    int     // default 1
	ColumnGap  float64
	Indent     float64 // first-line indent
	LineHeight float64 // baseline-to-baseline advance
	Align      Align
	Ellipsis   string // truncation marker; empty disables truncation

	Measure func(s string) float64
	Breaker Breaker
}

// Wrapper runs the flow state machine. A wrapper survives across
// continued fragments so the indent consumed by one fragment's final
// line carries into the next fragment.
type Wrapper struct {
	cfg Config
	ev  Events

	lineWidth float64 // width of a single column
	column    int
	x, y      float64 // left edge of current column, top of current line
	startX    float64
	startY    float64
	maxY      float64

	continuedX float64

	// current line accumulation
	buf       strings.Builder
	spaceLeft float64
	curIndent float64
	wordCount int

	lineCount     int
	lastLineWidth float64
	noRoom        bool
}

// New builds a wrapper for one flow. Width, LineHeight, Measure and
// Breaker must be set.
func New(cfg Config, ev Events) *Wrapper {
	if cfg.Columns < 1 {
		cfg.Columns = 1
	}
	w := &Wrapper{
		cfg:       cfg,
		ev:        ev,
		lineWidth: (cfg.Width - cfg.ColumnGap*float64(cfg.Columns-1)) / float64(cfg.Columns),
		column:    1,
		x:         cfg.X,
		y:         cfg.Y,
		startX:    cfg.X,
		startY:    cfg.Y,
		maxY:      cfg.MaxY,
	}
	if cfg.Height > 0 && cfg.Y+cfg.Height < w.maxY {
		w.maxY = cfg.Y + cfg.Height
	}
	return w
}

// Y reports the vertical cursor after the last emitted line.
func (w *Wrapper) Y() float64 { return w.y }

// X reports the left edge of the current column.
func (w *Wrapper) X() float64 { return w.x }

// ContinuedX reports the indent the next continued fragment starts at.
func (w *Wrapper) ContinuedX() float64 { return w.continuedX }

// Truncated reports whether the previous Wrap ran out of room before
// consuming all of its text.
func (w *Wrapper) Truncated() bool { return w.noRoom }

// Wrap flows text through the engine. continued marks the fragment as
// part of a run that a later call will extend on the same line. It
// returns false when a height bound cut the text short.
func (w *Wrapper) Wrap(text string, continued bool) (bool, error) {
	w.noRoom = false
	w.lineCount = 0

	indent := w.cfg.Indent
	if w.continuedX > 0 {
		indent = w.continuedX
	}
	w.beginLine(indent)

	// Orphan avoidance: advance before emitting anything if even one
	// line cannot fit here.
	if w.y+w.cfg.LineHeight > w.maxY {
		ok, err := w.nextSection()
		if err != nil {
			return false, err
		}
		if !ok {
			w.noRoom = true
			return false, nil
		}
	}

	runes := []rune(text)
	endedRequired := false
	prev := 0
	for _, bk := range w.cfg.Breaker.Breaks(text) {
		word := string(runes[prev:bk.Pos])
		prev = bk.Pos
		ww := w.measure(word)

		var ok bool
		var err error
		if ww > w.lineWidth {
			ok, err = w.splitWord(word, ww, bk.Required)
		} else {
			ok, err = w.addWord(word, ww, bk.Required, bk.Required, false)
		}
		if err != nil {
			return false, err
		}
		if !ok {
			w.noRoom = true
			return false, nil
		}
		endedRequired = bk.Required
	}

	if w.buf.Len() > 0 {
		if err := w.emitLine(!continued); err != nil {
			return false, err
		}
		if continued && !endedRequired {
			// The next fragment continues on this baseline.
			w.y -= w.cfg.LineHeight
		}
	}

	if continued && !endedRequired {
		if w.lineCount > 1 {
			w.continuedX = w.lastLineWidth
		} else {
			w.continuedX += w.lastLineWidth
		}
	} else {
		w.continuedX = 0
	}
	return true, nil
}

func (w *Wrapper) measure(s string) float64 { return w.cfg.Measure(s) }

func (w *Wrapper) beginLine(indent float64) {
	w.buf.Reset()
	w.curIndent = indent
	w.spaceLeft = w.lineWidth - indent
	w.wordCount = 0
}

// addWord packs one word that fits on an empty line. required forces
// the line to end after the word; paragraphEnd additionally marks it
// the last line of its paragraph (suppressing justification). forced
// words are placed even when they overflow the line; splitWord uses it
// for pieces that cannot shrink further.
func (w *Wrapper) addWord(word string, ww float64, required, paragraphEnd, forced bool) (bool, error) {
	if w.buf.Len() == 0 && w.y+w.cfg.LineHeight > w.maxY {
		// A fresh line is about to start below the limit.
		ok, err := w.nextSection()
		if err != nil || !ok {
			return ok, err
		}
	}
	if ww > w.spaceLeft && w.buf.Len() > 0 {
		ok, err := w.wrapLine()
		if err != nil || !ok {
			return ok, err
		}
	}
	if ww > w.spaceLeft && !forced {
		// An indented first line can be narrower than the word even
		// though a full line is not.
		return w.splitWord(word, ww, paragraphEnd)
	}

	w.buf.WriteString(word)
	w.spaceLeft -= ww
	w.wordCount++

	if required {
		if err := w.emitLine(paragraphEnd); err != nil {
			return false, err
		}
		w.beginLine(0)
	}
	return true, nil
}

// wrapLine closes the current line because the next word will not fit.
// Before emitting it checks whether a further line has anywhere to go;
// if not, the ellipsis (when configured) is folded into this line and
// the flow stops.
func (w *Wrapper) wrapLine() (bool, error) {
	if w.y+2*w.cfg.LineHeight > w.maxY && w.column >= w.cfg.Columns && w.bounded() {
		if w.cfg.Ellipsis != "" {
			w.truncateWithEllipsis()
			if err := w.emitLine(true); err != nil {
				return false, err
			}
			return false, nil
		}
		if err := w.emitLine(true); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := w.emitLine(false); err != nil {
		return false, err
	}
	w.beginLine(0)
	if w.y+w.cfg.LineHeight > w.maxY {
		return w.nextSection()
	}
	return true, nil
}

// bounded reports whether running out of vertical room stops the flow
// instead of requesting a new page.
func (w *Wrapper) bounded() bool { return w.cfg.Height > 0 }

// splitWord breaks a word wider than a whole line into exact-fit
// pieces. The cut point is estimated by linear interpolation from the
// word's average character width, then nudged until it is the longest
// prefix that still fits, which avoids scanning from zero on very long
// words.
func (w *Wrapper) splitWord(word string, ww float64, required bool) (bool, error) {
	for len(word) > 0 {
		if ww <= w.spaceLeft {
			// Final remainder: flows like a normal word, keeping the
			// original break's flag.
			return w.addWord(word, ww, required, required, false)
		}

		runes := []rune(word)
		if len(runes) == 1 {
			// A lone rune wider than the remaining space: close any
			// open line, then place the rune even though it overflows,
			// so the flow always consumes input.
			if w.buf.Len() > 0 {
				ok, err := w.wrapLine()
				if err != nil || !ok {
					return ok, err
				}
				continue
			}
			return w.addWord(word, ww, required, required, true)
		}

		l := int(w.spaceLeft / (ww / float64(len(runes))))
		if l < 1 {
			l = 1
		}
		if l > len(runes)-1 {
			l = len(runes) - 1
		}
		pw := w.measure(string(runes[:l]))
		if pw <= w.spaceLeft {
			for l < len(runes)-1 {
				nw := w.measure(string(runes[:l+1]))
				if nw > w.spaceLeft {
					break
				}
				l++
				pw = nw
			}
		} else {
			for l > 1 && pw > w.spaceLeft {
				l--
				pw = w.measure(string(runes[:l]))
			}
		}

		if pw > w.spaceLeft && w.buf.Len() > 0 {
			// Not even one character fits after the current content;
			// close the line and retry with full width.
			ok, err := w.wrapLine()
			if err != nil || !ok {
				return ok, err
			}
			continue
		}
		// On an empty line a single character is placed even if it
		// overflows, to guarantee progress.

		ok, err := w.addWord(string(runes[:l]), pw, true, false, true)
		if err != nil || !ok {
			return ok, err
		}
		word = string(runes[l:])
		ww = w.measure(word)
	}
	return true, nil
}

func (w *Wrapper) emitLine(last bool) error {
	text := strings.TrimRightFunc(w.buf.String(), unicode.IsSpace)
	width := w.measure(text)
	line := Line{
		Text:      text,
		Width:     width,
		WordCount: w.wordCount,
		LineWidth: w.lineWidth - w.curIndent,
		Last:      last,
	}
	if err := w.ev.Line(line, w.x+w.curIndent, w.y); err != nil {
		return err
	}
	w.y += w.cfg.LineHeight
	w.lineCount++
	w.lastLineWidth = width
	return nil
}

// truncateWithEllipsis trims the buffer until the ellipsis marker fits
// on the line; if it never fits the marker is omitted entirely.
func (w *Wrapper) truncateWithEllipsis() {
	buf := strings.TrimRightFunc(w.buf.String(), unicode.IsSpace)
	for len(buf) > 0 && w.measure(buf+w.cfg.Ellipsis) > w.lineWidth-w.curIndent {
		r := []rune(buf)
		buf = strings.TrimRightFunc(string(r[:len(r)-1]), unicode.IsSpace)
	}
	if w.measure(buf+w.cfg.Ellipsis) <= w.lineWidth-w.curIndent {
		buf += w.cfg.Ellipsis
	}
	w.buf.Reset()
	w.buf.WriteString(buf)
	w.spaceLeft = w.lineWidth - w.curIndent - w.measure(buf)
}

// nextSection advances to the next column, or asks for a new page when
// no column remains. Bounded flows refuse instead.
func (w *Wrapper) nextSection() (bool, error) {
	if w.column < w.cfg.Columns {
		w.column++
		w.x = w.startX + float64(w.column-1)*(w.lineWidth+w.cfg.ColumnGap)
		w.y = w.startY
		return true, nil
	}
	if w.bounded() || w.ev.PageBreak == nil {
		return false, nil
	}
	x, y, maxY, err := w.ev.PageBreak()
	if err != nil {
		return false, err
	}
	w.startX, w.startY = x, y
	w.x, w.y = x, y
	w.maxY = maxY
	w.column = 1
	return true, nil
}

// JustifySpacing computes the extra inter-word spacing that stretches a
// line to targetWidth. textWidth is the width of the line's text with
// all whitespace removed; spaceWidth is the width of one plain space.
// Lines with fewer than two words get no extra spacing.
func JustifySpacing(targetWidth, textWidth, spaceWidth float64, wordCount int) float64 {
	if wordCount < 2 {
		return 0
	}
	return math.Max(0, (targetWidth-textWidth)/float64(wordCount-1)-spaceWidth)
}
