package markup

import (
	"bytes"
	"strings"
	"testing"

	"pdfgen/document"
)

func newDoc(t *testing.T, buf *bytes.Buffer) *document.Document {
	t.Helper()
	d, err := document.New(buf)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestMarkdownRendersStyledBlocks(t *testing.T) {
	var buf bytes.Buffer
	d := newDoc(t, &buf)
	r := NewRenderer(d)

	src := `# Report

First paragraph with *emphasis* and **strong** words and ` + "`code`" + `.

- first item
- second item

1. ordered one
2. ordered two

---

` + "```\nx := 1\n```\n"

	if err := r.Markdown(src); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"/BaseFont /Helvetica",
		"/BaseFont /Helvetica-Bold",    // heading and strong
		"/BaseFont /Helvetica-Oblique", // emphasis
		"/BaseFont /Courier",           // code span and block
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestMarkdownLongDocumentPaginates(t *testing.T) {
	var buf bytes.Buffer
	d := newDoc(t, &buf)
	r := NewRenderer(d)

	var src strings.Builder
	for i := 0; i < 60; i++ {
		src.WriteString("## Section\n\nSome paragraph text that occupies a line or two of the page.\n\n")
	}
	if err := r.Markdown(src.String()); err != nil {
		t.Fatal(err)
	}
	if d.PageCount() < 2 {
		t.Errorf("long markdown should paginate, got %d pages", d.PageCount())
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestHTMLRendersStyledBlocks(t *testing.T) {
	var buf bytes.Buffer
	d := newDoc(t, &buf)
	r := NewRenderer(d)

	src := `<html><head><style>p{}</style></head><body>
<h1>Title</h1>
<p>Plain with <b>bold</b>, <em>italic</em> and <code>mono</code>.</p>
<ul><li>alpha</li><li>beta</li></ul>
<ol><li>one</li><li>two</li></ol>
<hr>
<pre>raw
block</pre>
</body></html>`

	if err := r.HTML(src); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"/BaseFont /Helvetica-Bold",
		"/BaseFont /Helvetica-Oblique",
		"/BaseFont /Courier",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestHTMLWhitespaceCollapse(t *testing.T) {
	if got := collapseSpace("  hello \n world  "); got != " hello world " {
		t.Errorf("collapseSpace = %q", got)
	}
	if got := collapseSpace("\n\t"); got != " " {
		t.Errorf("whitespace-only = %q", got)
	}
	if got := collapseSpace(""); got != "" {
		t.Errorf("empty = %q", got)
	}
}

func TestRendererCustomOptions(t *testing.T) {
	var buf bytes.Buffer
	d := newDoc(t, &buf)
	r := NewRenderer(d, Options{BaseSize: 9})
	if r.opts.BaseSize != 9 {
		t.Fatalf("base size = %g", r.opts.BaseSize)
	}
	if r.headingSize(1) != 18 || r.headingSize(2) != 13.5 {
		t.Errorf("heading scale = %g, %g", r.headingSize(1), r.headingSize(2))
	}
	if err := r.Markdown("plain text"); err != nil {
		t.Fatal(err)
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}
