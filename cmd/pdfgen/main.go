// pdfgen renders a markdown or HTML file to PDF.
//
//	go run ./cmd/pdfgen -size A4 -title "Notes" notes.md out.pdf
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdfgen/document"
	"pdfgen/markup"
)

type options struct {
	in, out string
	size    string
	margin  float64
	title   string
	html    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfgen: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "pdfgen: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: pdfgen [flags] <input> <output.pdf>\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.size, "size", "letter", "Page size (A4, letter, legal, ...)")
	flag.Float64Var(&opts.margin, "margin", 72, "Page margin in points")
	flag.StringVar(&opts.title, "title", "", "Document title")
	flag.BoolVar(&opts.html, "html", false, "Treat the input as HTML regardless of extension")
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		return opts, fmt.Errorf("expected an input file and an output file")
	}
	opts.in = flag.Arg(0)
	opts.out = flag.Arg(1)
	if !opts.html {
		switch strings.ToLower(filepath.Ext(opts.in)) {
		case ".html", ".htm":
			opts.html = true
		}
	}
	return opts, nil
}

func run(opts options) error {
	src, err := os.ReadFile(opts.in)
	if err != nil {
		return err
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}

	doc, err := document.New(f,
		document.WithInfo(document.Info{Title: opts.title}),
		document.WithFirstPage(document.PageOptions{Size: opts.size, Margin: opts.margin}),
	)
	if err != nil {
		return err
	}

	r := markup.NewRenderer(doc)
	if opts.html {
		err = r.HTML(string(src))
	} else {
		err = r.Markdown(string(src))
	}
	if err != nil {
		return err
	}
	// End drains the writer and closes f through the output sink.
	if err := doc.End(); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d pages)\n", opts.out, doc.PageCount())
	return nil
}
