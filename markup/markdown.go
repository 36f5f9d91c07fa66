package markup

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"pdfgen/document"
	"pdfgen/fonts"
)

// Markdown parses src with goldmark and flows it into the document.
func (r *Renderer) Markdown(src string) error {
	md := goldmark.New()
	source := []byte(src)
	root := md.Parser().Parse(gmtext.NewReader(source))
	return r.mdBlocks(root, source)
}

func (r *Renderer) mdBlocks(node ast.Node, source []byte) error {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		var err error
		switch n := child.(type) {
		case *ast.Heading:
			err = r.mdHeading(n, source)
		case *ast.Paragraph:
			err = r.mdParagraph(n, source)
		case *ast.List:
			err = r.mdList(n, source)
		case *ast.FencedCodeBlock:
			err = r.mdCode(n.Lines(), source)
		case *ast.CodeBlock:
			err = r.mdCode(n.Lines(), source)
		case *ast.Blockquote:
			err = r.mdBlockquote(n, source)
		case *ast.ThematicBreak:
			err = r.rule()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) mdHeading(n *ast.Heading, source []byte) error {
	size := r.headingSize(n.Level)
	runs := r.mdInline(n, source, r.opts.Bold, size)
	if err := r.emit(runs); err != nil {
		return err
	}
	r.gap()
	return nil
}

func (r *Renderer) mdParagraph(n *ast.Paragraph, source []byte) error {
	runs := r.mdInline(n, source, r.opts.Regular, r.opts.BaseSize)
	if err := r.emit(runs); err != nil {
		return err
	}
	r.gap()
	return nil
}

func (r *Renderer) mdList(list *ast.List, source []byte) error {
	d := r.doc
	left := d.Page().Margins().Left
	number := list.Start
	if number == 0 {
		number = 1
	}

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}
		d.MoveCursor(left, d.Y())
		d.Font(r.opts.Regular, r.opts.BaseSize)
		if err := d.Text(marker, document.TextOptions{Continued: true}); err != nil {
			return err
		}

		for block := item.FirstChild(); block != nil; block = block.NextSibling() {
			switch b := block.(type) {
			case *ast.Paragraph:
				if err := r.emit(r.mdInline(b, source, r.opts.Regular, r.opts.BaseSize)); err != nil {
					return err
				}
			case *ast.TextBlock:
				if err := r.emit(r.mdInline(b, source, r.opts.Regular, r.opts.BaseSize)); err != nil {
					return err
				}
			case *ast.List:
				d.MoveCursor(left+r.opts.ListIndent, d.Y())
				if err := r.mdList(b, source); err != nil {
					return err
				}
			}
		}
		d.MoveCursor(left, d.Y())
	}
	r.gap()
	return nil
}

func (r *Renderer) mdCode(lines *gmtext.Segments, source []byte) error {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	text := strings.TrimRight(sb.String(), "\n")
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

func (r *Renderer) mdBlockquote(n *ast.Blockquote, source []byte) error {
	d := r.doc
	left := d.Page().Margins().Left
	d.MoveCursor(left+r.opts.ListIndent, d.Y())
	if err := r.mdBlocks(n, source); err != nil {
		return err
	}
	d.MoveCursor(left, d.Y())
	return nil
}

// mdInline flattens a block's inline children into styled runs,
// switching fonts for emphasis and code spans.
func (r *Renderer) mdInline(n ast.Node, source []byte, font fonts.Font, size float64) []styledRun {
	var runs []styledRun
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			t := string(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				t += " "
			}
			runs = append(runs, styledRun{text: t, font: font, size: size})
		case *ast.CodeSpan:
			runs = append(runs, r.mdInline(c, source, r.opts.Code, size)...)
		case *ast.Emphasis:
			f := r.opts.Italic
			if c.Level >= 2 {
				f = r.opts.Bold
			}
			runs = append(runs, r.mdInline(c, source, f, size)...)
		case *ast.Link:
			runs = append(runs, r.mdInline(c, source, font, size)...)
		default:
			runs = append(runs, styledRun{text: string(child.Text(source)), font: font, size: size})
		}
	}
	return runs
}
