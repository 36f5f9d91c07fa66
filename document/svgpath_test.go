package document

import (
	"bytes"
	"strings"
	"testing"
)

// pathOps runs the interpreter and returns the emitted operator lines,
// skipping the page's initial flip transform.
func pathOps(t *testing.T, data string) []string {
	t.Helper()
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	before := d.Page().content.Len()
	if err := d.Path(data); err != nil {
		t.Fatal(err)
	}
	out := string(d.Page().content.Bytes()[before:])
	return strings.Split(strings.TrimRight(out, "\n"), "\n")
}

func TestPathBasicCommands(t *testing.T) {
	got := pathOps(t, "M10 20 L30 40 l5,5 H50 V60 Z")
	want := []string{
		"10 20 m",
		"30 40 l",
		"35 45 l",
		"50 45 l",
		"50 60 l",
		"h",
	}
	if len(got) != len(want) {
		t.Fatalf("ops = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPathImplicitLineAfterMove(t *testing.T) {
	got := pathOps(t, "M0 0 10 10 20 0")
	want := []string{"0 0 m", "10 10 l", "20 0 l"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPathCubicAndShorthand(t *testing.T) {
	got := pathOps(t, "M0 0 C10 0 20 10 30 10 S50 20 60 10")
	want := []string{
		"0 0 m",
		"10 0 20 10 30 10 c",
		// S reflects the previous control point (20,10) around (30,10)
		"40 10 50 20 60 10 c",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPathQuadraticRaisesToCubic(t *testing.T) {
	got := pathOps(t, "M50 60 Q62 72 74 60")
	want := []string{"50 60 m", "58 68 66 68 74 60 c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPathDegenerateArcIsLine(t *testing.T) {
	got := pathOps(t, "M0 0 A0 0 0 0 1 70 60")
	want := []string{"0 0 m", "70 60 l"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPathArcEndsAtTarget(t *testing.T) {
	got := pathOps(t, "M0 0 A50 50 0 0 1 100 0")
	last := got[len(got)-1]
	if !strings.HasSuffix(last, " c") {
		t.Fatalf("arc should emit curves, got %q", last)
	}
	fields := strings.Fields(last)
	x, y := fields[len(fields)-3], fields[len(fields)-2]
	if x != "100" || y != "0" {
		t.Errorf("arc endpoint = %s,%s, want 100,0", x, y)
	}
}

func TestPathErrors(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, bad := range []string{
		"10 20",            // data before any command
		"M10 20 X5",        // unknown command
		"M10",              // missing coordinate
		"M0 0 Z 5 5",       // data after close
		"M0 0 A50 50 0 2 1 10 10", // bad arc flag
	} {
		if err := d.Path(bad); err == nil {
			t.Errorf("Path(%q) should fail", bad)
		}
	}
}

func TestPathStateIsPerCall(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Path("M10 10 l5 0"); err != nil {
		t.Fatal(err)
	}
	before := d.Page().content.Len()
	// A fresh call starts with no current point, so relative moveto
	// resolves against the origin.
	if err := d.Path("m5 5"); err != nil {
		t.Fatal(err)
	}
	got := strings.TrimRight(string(d.Page().content.Bytes()[before:]), "\n")
	if got != "5 5 m" {
		t.Errorf("got %q", got)
	}
}
