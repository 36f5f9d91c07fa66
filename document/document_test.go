package document

import (
	"bytes"
	"strings"
	"testing"

	"pdfgen/observability"
)

// captureLogger records every emitted entry so tests can assert on
// structured fields.
type capturedEntry struct {
	msg    string
	fields map[string]interface{}
}

type captureLogger struct{ entries []capturedEntry }

func (l *captureLogger) log(msg string, fields []observability.Field) {
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key()] = f.Value()
	}
	l.entries = append(l.entries, capturedEntry{msg, m})
}

func (l *captureLogger) Debug(msg string, fields ...observability.Field) { l.log(msg, fields) }
func (l *captureLogger) Info(msg string, fields ...observability.Field)  { l.log(msg, fields) }
func (l *captureLogger) Warn(msg string, fields ...observability.Field)  { l.log(msg, fields) }
func (l *captureLogger) Error(msg string, fields ...observability.Field) { l.log(msg, fields) }
func (l *captureLogger) With(...observability.Field) observability.Logger { return l }

func TestSinglePageDocument(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf, WithInfo(Info{Title: "report"}))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.FontNamed("Helvetica", 12); err != nil {
		t.Fatal(err)
	}
	if err := d.Text("Hello world"); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-1.7\n") {
		t.Errorf("missing header: %q", out[:16])
	}
	if !strings.HasSuffix(out, "%%EOF\n") {
		t.Error("missing trailer terminator")
	}
	for _, want := range []string{
		"/Type /Page", "/Type /Pages", "/Type /Catalog",
		"/BaseFont /Helvetica", "/Title (report)", "startxref",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	if d.PageCount() != 1 {
		t.Errorf("page count = %d", d.PageCount())
	}
}

func TestPageSizes(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf, WithFirstPage(PageOptions{Size: "A4", Landscape: true}))
	if err != nil {
		t.Fatal(err)
	}
	p := d.Page()
	if p.Width() != 841.89 || p.Height() != 595.28 {
		t.Errorf("landscape A4 = %gx%g", p.Width(), p.Height())
	}

	if err := d.AddPage(PageOptions{Size: "letterhead"}); err == nil {
		t.Error("unknown size must fail")
	} else if !strings.Contains(err.Error(), "letterhead") {
		t.Errorf("error should name the size: %v", err)
	}
}

func TestCustomMargins(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf, WithFirstPage(PageOptions{Margin: 36}))
	if err != nil {
		t.Fatal(err)
	}
	if m := d.Page().Margins(); m.Top != 36 || m.Left != 36 {
		t.Errorf("margins = %+v", m)
	}
	if got := d.Page().ContentWidth(); got != 612-72 {
		t.Errorf("content width = %g", got)
	}
}

func TestBufferedPageWindow(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf, WithBufferedPages())
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AddPage(); err != nil {
		t.Fatal(err)
	}
	if err := d.AddPage(); err != nil {
		t.Fatal(err)
	}

	start, count := d.BufferedPageRange()
	if start != 0 || count != 3 {
		t.Fatalf("range = %d,%d", start, count)
	}
	if err := d.SwitchToPage(0); err != nil {
		t.Fatal(err)
	}
	if err := d.Text("page one footer"); err != nil {
		t.Fatal(err)
	}

	err = d.SwitchToPage(3)
	if err == nil {
		t.Fatal("out of range switch must fail")
	}
	if !strings.Contains(err.Error(), "page 3 out of buffered range [0..2]") {
		t.Errorf("error = %v", err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestSwitchNeedsBuffering(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SwitchToPage(0); err == nil {
		t.Error("SwitchToPage without buffering must fail")
	}
}

func TestUnbufferedPagesFlushEagerly(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Text("first"); err != nil {
		t.Fatal(err)
	}
	before := buf.Len()
	if err := d.AddPage(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() <= before {
		t.Error("AddPage should flush the finished page to the output")
	}
	start, count := d.BufferedPageRange()
	if start != 1 || count != 1 {
		t.Errorf("window = %d,%d", start, count)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestTextFlowsAcrossPages(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	long := strings.Repeat("lorem ipsum dolor sit amet ", 400)
	if err := d.Text(long); err != nil {
		t.Fatal(err)
	}
	if d.PageCount() < 2 {
		t.Errorf("long text should break pages, got %d", d.PageCount())
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestContinuedText(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	yBefore := d.Y()
	if err := d.Text("Total: ", TextOptions{Continued: true}); err != nil {
		t.Fatal(err)
	}
	if d.flow == nil {
		t.Fatal("continued call must keep the flow open")
	}
	if err := d.Text("42"); err != nil {
		t.Fatal(err)
	}
	if d.flow != nil {
		t.Error("flow must close after a non-continued call")
	}
	if d.Y() != yBefore+d.curFont.font.LineHeight(d.curFontSize, true) {
		t.Errorf("both fragments should occupy one line")
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestLinkTargetValidated(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.LinkPage(72, 72, 100, 20, 7); err != nil {
		t.Fatal(err)
	}
	err = d.End()
	if err == nil {
		t.Fatal("dangling page link must fail End")
	}
	if !strings.Contains(err.Error(), "page 7") {
		t.Errorf("error = %v", err)
	}
}

func TestURLLink(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.LinkURL(72, 72, 100, 20, "https://example.com"); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "/S /URI") || !strings.Contains(out, "(https://example.com)") {
		t.Error("URI action missing")
	}
	if !strings.Contains(out, "/Annots") {
		t.Error("page should carry an annotation array")
	}
}

func TestOutlineTree(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AddPage(); err != nil {
		t.Fatal(err)
	}
	root := d.Outline()
	ch1 := root.Add("Introduction", 0)
	ch1.Add("Background", 0)
	root.Add("Results", 1)
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"/Type /Outlines", "(Introduction)", "(Background)", "(Results)",
		"/First", "/Last", "/Count 3", "/PageMode /UseOutlines",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestOutlinePageValidated(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	d.Outline().Add("Nowhere", 9)
	if err := d.End(); err == nil {
		t.Error("outline to a missing page must fail End")
	}
}

func TestOpacitySharesStates(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Opacity(0.5, 1); err != nil {
		t.Fatal(err)
	}
	if err := d.Opacity(0.5, 1); err != nil {
		t.Fatal(err)
	}
	if len(d.gstates) != 1 {
		t.Errorf("equal opacities should share one ExtGState, got %d", len(d.gstates))
	}
	if err := d.Opacity(0.25, 1); err != nil {
		t.Fatal(err)
	}
	if len(d.gstates) != 2 {
		t.Errorf("distinct opacities need distinct states, got %d", len(d.gstates))
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestTinyWidthTextCompletes(t *testing.T) {
	// A flow narrower than a single glyph still terminates: each glyph
	// overflows a line of its own instead of looping on empty pieces.
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Text("ab", TextOptions{Width: 1}); err != nil {
		t.Fatal(err)
	}
	if d.PageCount() != 1 {
		t.Errorf("two glyphs fit on one page, got %d", d.PageCount())
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestTruncationSurfaced(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Text(strings.Repeat("word ", 200), TextOptions{Height: 30}); err != nil {
		t.Fatal(err)
	}
	if !d.Truncated() {
		t.Error("height-bound flow should report truncation")
	}
	if err := d.Text("fits"); err != nil {
		t.Fatal(err)
	}
	if d.Truncated() {
		t.Error("a completed flow must clear the truncation report")
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestSymbolFontBuiltinEncoding(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.FontNamed("Symbol", 14); err != nil {
		t.Fatal(err)
	}
	if err := d.Text("abg"); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "/BaseFont /Symbol") {
		t.Error("Symbol font dictionary missing")
	}
	if strings.Contains(out, "/Encoding /WinAnsiEncoding") {
		t.Error("symbolic faces keep their built-in encoding")
	}
}

func TestEndEmitsDocumentMetrics(t *testing.T) {
	var buf bytes.Buffer
	logs := &captureLogger{}
	d, err := New(&buf, WithLogger(logs))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AddPage(); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, e := range logs.entries {
		pc, ok := e.fields[observability.MetricPageCount]
		if !ok {
			continue
		}
		found = true
		if pc != 2 {
			t.Errorf("page count metric = %v, want 2", pc)
		}
		if _, ok := e.fields[observability.MetricWriteTime]; !ok {
			t.Error("write duration metric missing")
		}
	}
	if !found {
		t.Error("End should emit the page count metric")
	}
}

func TestEndTwice(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err == nil {
		t.Error("second End must fail")
	}
	if err := d.AddPage(); err == nil {
		t.Error("AddPage after End must fail")
	}
}
