package document

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want colorValue
	}{
		{"red", rgb(1, 0, 0)},
		{"RED", rgb(1, 0, 0)},
		{"#ff0000", rgb(1, 0, 0)},
		{"#F00", rgb(1, 0, 0)},
		{"#000000", rgb(0, 0, 0)},
		{"navy", rgb(0, 0, 128.0 / 255)},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "#12", "#zzzzzz", "blurple"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestColorOperators(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	before := d.Page().content.Len()
	if err := d.FillColor("#336699"); err != nil {
		t.Fatal(err)
	}
	d.StrokeRGB(1, 0, 0)
	d.FillCMYK(0, 0.1, 0.2, 0.3)

	got := string(d.Page().content.Bytes()[before:])
	for _, want := range []string{
		"0.2 0.4 0.6 rg\n",
		"1 0 0 RG\n",
		"0 0.1 0.2 0.3 k\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("content lacks %q in %q", want, got)
		}
	}
}

func TestFillColorSurvivesPageBreak(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.FillColor("red"); err != nil {
		t.Fatal(err)
	}
	long := strings.Repeat("word ", 4000)
	if err := d.Text(long); err != nil {
		t.Fatal(err)
	}
	if d.PageCount() < 2 {
		t.Fatal("test needs a page break")
	}
	// The current page is a fresh one; the fill color must have been
	// re-applied to its content stream.
	if !bytes.Contains(d.Page().content.Bytes(), []byte("1 0 0 rg\n")) {
		t.Error("fill color not re-established after page break")
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}
