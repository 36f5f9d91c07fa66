package document

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextOperators(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.FontNamed("Helvetica", 12); err != nil {
		t.Fatal(err)
	}
	if err := d.Text("Hi"); err != nil {
		t.Fatal(err)
	}

	content := string(d.Page().content.Bytes())
	for _, want := range []string{
		"q\n",
		"1 0 0 -1 0 792 cm", // flip back for the text object
		"BT\n",
		"/F1 12 Tf\n",
		"(Hi) Tj\n",
		"ET\n",
		"Q\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("content lacks %q:\n%s", want, content)
		}
	}
	// Baseline: page height - cursor y - ascender.
	if !strings.Contains(content, "72 711.384 Td\n") {
		t.Errorf("baseline placement missing:\n%s", content)
	}
}

func TestJustifiedTextStretchesSpaces(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("alpha beta gamma delta ", 10)
	if err := d.Text(text, TextOptions{Width: 200, Align: AlignJustify}); err != nil {
		t.Fatal(err)
	}
	content := string(d.Page().content.Bytes())
	if !strings.Contains(content, " Tw\n") {
		t.Error("justified flow should set word spacing")
	}
	if !strings.Contains(content, "0 Tw\n") {
		t.Error("word spacing must be reset after each line")
	}
}

func TestRightAlignedTextShifts(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.TextAt("x", 100, 100, TextOptions{Width: 200, Align: AlignRight}); err != nil {
		t.Fatal(err)
	}
	content := string(d.Page().content.Bytes())
	// "x" is 500/1000 em at 12pt = 6 wide; the line starts at
	// 100 + 200 - 6.
	if !strings.Contains(content, "294 ") {
		t.Errorf("right alignment offset missing:\n%s", content)
	}
}

func TestHeightBoundTruncatesWithEllipsis(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	lh := 925.0 * 12 / 1000
	long := strings.Repeat("word ", 500)
	err = d.Text(long, TextOptions{Width: 200, Height: 2*lh + 1, Ellipsis: "..."})
	if err != nil {
		t.Fatal(err)
	}
	if d.PageCount() != 1 {
		t.Errorf("bounded text must not add pages, got %d", d.PageCount())
	}
	if !bytes.Contains(d.Page().content.Bytes(), []byte("... ) Tj")) &&
		!bytes.Contains(d.Page().content.Bytes(), []byte("...) Tj")) {
		t.Error("ellipsis missing from final line")
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}
