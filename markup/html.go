package markup

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"pdfgen/document"
	"pdfgen/fonts"
)

// HTML parses src and flows its block elements into the document.
// Unknown elements are traversed transparently.
func (r *Renderer) HTML(src string) error {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("markup: parse html: %w", err)
	}
	return r.htmlWalk(doc)
}

func (r *Renderer) htmlWalk(n *html.Node) error {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			return r.htmlHeading(n)
		case atom.P:
			return r.htmlParagraph(n)
		case atom.Ul, atom.Ol:
			return r.htmlList(n)
		case atom.Pre:
			return r.htmlPre(n)
		case atom.Blockquote:
			return r.htmlBlockquote(n)
		case atom.Hr:
			return r.rule()
		case atom.Script, atom.Style, atom.Head:
			return nil
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := r.htmlWalk(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) htmlHeading(n *html.Node) error {
	level := 4
	switch n.DataAtom {
	case atom.H1:
		level = 1
	case atom.H2:
		level = 2
	case atom.H3:
		level = 3
	}
	size := r.headingSize(level)
	if err := r.emit(r.htmlInline(n, r.opts.Bold, size)); err != nil {
		return err
	}
	r.gap()
	return nil
}

func (r *Renderer) htmlParagraph(n *html.Node) error {
	if err := r.emit(r.htmlInline(n, r.opts.Regular, r.opts.BaseSize)); err != nil {
		return err
	}
	r.gap()
	return nil
}

func (r *Renderer) htmlList(list *html.Node) error {
	d := r.doc
	left := d.Page().Margins().Left
	number := 1

	for item := list.FirstChild; item != nil; item = item.NextSibling {
		if item.Type != html.ElementNode || item.DataAtom != atom.Li {
			continue
		}
		marker := "- "
		if list.DataAtom == atom.Ol {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}
		d.MoveCursor(left, d.Y())
		d.Font(r.opts.Regular, r.opts.BaseSize)
		if err := d.Text(marker, document.TextOptions{Continued: true}); err != nil {
			return err
		}
		if err := r.emit(r.htmlInline(item, r.opts.Regular, r.opts.BaseSize)); err != nil {
			return err
		}
	}
	r.gap()
	return nil
}

func (r *Renderer) htmlPre(n *html.Node) error {
	text := strings.TrimRight(htmlText(n), "\n")
	if text == "" {
		return nil
	}
	r.doc.Font(r.opts.Code, r.opts.BaseSize)
	if err := r.doc.Text(text); err != nil {
		return err
	}
	r.gap()
	return nil
}

func (r *Renderer) htmlBlockquote(n *html.Node) error {
	d := r.doc
	left := d.Page().Margins().Left
	d.MoveCursor(left+r.opts.ListIndent, d.Y())
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := r.htmlWalk(c); err != nil {
			return err
		}
	}
	d.MoveCursor(left, d.Y())
	return nil
}

// htmlInline flattens an element's contents into styled runs. Inline
// whitespace collapses the way browsers collapse it.
func (r *Renderer) htmlInline(n *html.Node, font fonts.Font, size float64) []styledRun {
	var runs []styledRun
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			runs = append(runs, styledRun{text: collapseSpace(c.Data), font: font, size: size})
		case c.Type != html.ElementNode:
		default:
			switch c.DataAtom {
			case atom.B, atom.Strong:
				runs = append(runs, r.htmlInline(c, r.opts.Bold, size)...)
			case atom.I, atom.Em:
				runs = append(runs, r.htmlInline(c, r.opts.Italic, size)...)
			case atom.Code:
				runs = append(runs, r.htmlInline(c, r.opts.Code, size)...)
			case atom.Br:
				runs = append(runs, styledRun{text: "\n", font: font, size: size})
			default:
				runs = append(runs, r.htmlInline(c, font, size)...)
			}
		}
	}
	return runs
}

// collapseSpace folds runs of whitespace to single spaces while
// keeping a boundary space, so words split across inline elements do
// not fuse.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	out := strings.Join(strings.Fields(s), " ")
	if out == "" {
		return " "
	}
	runes := []rune(s)
	if unicode.IsSpace(runes[0]) {
		out = " " + out
	}
	if unicode.IsSpace(runes[len(runes)-1]) {
		out += " "
	}
	return out
}

func htmlText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
