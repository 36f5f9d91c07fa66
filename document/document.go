// Package document is the drawing front-end: it assembles pages, text,
// vector graphics, images, links and outlines, and streams the result
// through the incremental object writer. Output is emitted page by
// page; only buffered pages are held in memory.
package document

import (
	"fmt"
	"io"
	"time"

	"pdfgen/observability"
	"pdfgen/raw"
	"pdfgen/writer"
)

// Info carries the document information dictionary fields.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

type config struct {
	log           observability.Logger
	compression   int
	bufferPages   bool
	autoFirstPage bool
	firstPage     PageOptions
	info          Info
	now           func() time.Time
}

// Option configures a Document at creation time.
type Option func(*config)

// WithLogger installs a logger; the default discards everything.
func WithLogger(log observability.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithCompression sets the flate level for streams.
func WithCompression(level int) Option {
	return func(c *config) { c.compression = level }
}

// WithBufferedPages keeps every page open until End, enabling
// SwitchToPage. Without it each AddPage flushes the previous page to
// the output.
func WithBufferedPages() Option {
	return func(c *config) { c.bufferPages = true }
}

// WithoutFirstPage suppresses the automatic first page; the caller adds
// pages explicitly.
func WithoutFirstPage() Option {
	return func(c *config) { c.autoFirstPage = false }
}

// WithFirstPage sets the options of the automatic first page.
func WithFirstPage(opts PageOptions) Option {
	return func(c *config) { c.firstPage = opts }
}

// WithInfo sets the document information dictionary.
func WithInfo(info Info) Option {
	return func(c *config) { c.info = info }
}

// Document is an in-progress PDF. Drawing operations apply to the
// current page; AddPage starts the next one and, unless page buffering
// is on, flushes the previous page to the output stream.
type Document struct {
	w   *writer.Writer
	log observability.Logger
	cfg config

	pagesObj *writer.Object
	kids     raw.Array

	pages     []*Page // buffered window, pages[i] is document page base+i
	base      int     // document index of pages[0]
	cur       int     // index into pages
	pageCount int

	fonts *fontRegistry

	curFont     *docFont
	curFontSize float64

	started time.Time

	fill      colorValue
	stroke    colorValue
	images    map[string]*docImage
	gstates   map[[2]float64]gstate
	links     []pageLink
	outline   outlineNode
	truncated bool
	ended     bool

	// text cursor, in top-left page coordinates
	x, y float64
	// flow state that survives across continued Text calls
	flow *textFlow
}

// New starts a document writing to out. Unless configured otherwise a
// first page with default options is opened immediately.
func New(out io.Writer, opts ...Option) (*Document, error) {
	cfg := config{
		log:           observability.NopLogger{},
		compression:   -1,
		autoFirstPage: true,
		now:           time.Now,
	}
	for _, o := range opts {
		o(&cfg)
	}

	w, err := writer.New(out,
		writer.WithCompression(cfg.compression),
		writer.WithLogger(cfg.log),
	)
	if err != nil {
		return nil, err
	}

	d := &Document{
		w:       w,
		log:     cfg.log,
		cfg:     cfg,
		started: cfg.now(),
		fill:    colorValue{space: spaceRGB},
		stroke:  colorValue{space: spaceRGB},
		images:  make(map[string]*docImage),
		gstates: make(map[[2]float64]gstate),
	}
	d.pagesObj = w.Alloc(raw.Dict{"Type": raw.Name("Pages")})
	d.fonts = newFontRegistry(w)

	if cfg.autoFirstPage {
		if err := d.AddPage(cfg.firstPage); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Page returns the current page.
func (d *Document) Page() *Page {
	if len(d.pages) == 0 {
		return nil
	}
	return d.pages[d.cur]
}

// PageCount reports how many pages have been added so far.
func (d *Document) PageCount() int { return d.pageCount }

// AddPage opens a new page and makes it current. The previous page is
// flushed to the output unless page buffering is on.
func (d *Document) AddPage(opts ...PageOptions) error {
	if d.ended {
		return fmt.Errorf("document: AddPage after End")
	}
	var po PageOptions
	if len(opts) > 0 {
		po = opts[0]
	}

	if !d.cfg.bufferPages && len(d.pages) > 0 {
		if err := d.flushPage(d.pages[d.cur]); err != nil {
			return err
		}
		d.pages = d.pages[:0]
		d.base = d.pageCount
	}

	p, err := newPage(d, po)
	if err != nil {
		return err
	}
	d.kids = append(d.kids, p.obj.Ref())
	d.pages = append(d.pages, p)
	d.cur = len(d.pages) - 1
	d.pageCount++

	d.x = p.margins.Left
	d.y = p.margins.Top

	d.log.Debug("page added",
		observability.Int("page", d.pageCount),
		observability.Int("object", p.obj.ID()))
	return nil
}

// SwitchToPage makes a buffered page current again, for adding content
// such as page numbers after later pages exist. It is an error when
// page buffering is off or the page has already been flushed.
func (d *Document) SwitchToPage(index int) error {
	if !d.cfg.bufferPages {
		return fmt.Errorf("document: SwitchToPage(%d) requires buffered pages", index)
	}
	if index < d.base || index >= d.base+len(d.pages) {
		return fmt.Errorf("document: page %d out of buffered range [%d..%d]",
			index, d.base, d.base+len(d.pages)-1)
	}
	d.cur = index - d.base
	p := d.pages[d.cur]
	d.x = p.margins.Left
	d.y = p.margins.Top
	return nil
}

// BufferedPageRange reports the window of pages still open, as a start
// index and a count.
func (d *Document) BufferedPageRange() (start, count int) {
	return d.base, len(d.pages)
}

// X reports the text cursor's horizontal position.
func (d *Document) X() float64 { return d.x }

// Y reports the text cursor's vertical position, measured from the top
// of the page.
func (d *Document) Y() float64 { return d.y }

// MoveCursor repositions the text cursor.
func (d *Document) MoveCursor(x, y float64) *Document {
	d.x, d.y = x, y
	return d
}

// End finishes the document: flushes the remaining pages, writes fonts,
// outlines and the catalog, then the cross-reference table and trailer.
// The Document is unusable afterwards.
func (d *Document) End() error {
	if d.ended {
		return fmt.Errorf("document: End called twice")
	}
	d.ended = true

	for _, p := range d.pages {
		if err := d.flushPage(p); err != nil {
			return err
		}
	}
	d.pages = nil

	if err := d.resolveLinks(); err != nil {
		return err
	}
	if err := d.fonts.finish(); err != nil {
		return err
	}

	pd := d.pagesObj.Dict()
	pd["Kids"] = d.kids
	pd["Count"] = raw.Integer(d.pageCount)
	if err := d.pagesObj.End(); err != nil {
		return err
	}

	catalog := raw.Dict{
		"Type":  raw.Name("Catalog"),
		"Pages": d.pagesObj.Ref(),
	}
	if outlineRef, err := d.writeOutline(); err != nil {
		return err
	} else if outlineRef != nil {
		catalog["Outlines"] = *outlineRef
		catalog["PageMode"] = raw.Name("UseOutlines")
	}
	root := d.w.Alloc(catalog)
	if err := root.End(); err != nil {
		return err
	}

	info := d.w.Alloc(d.infoDict())
	if err := info.End(); err != nil {
		return err
	}

	if err := d.w.End(root.Ref(), info.Ref()); err != nil {
		return err
	}
	if err := d.w.Drain(); err != nil {
		return err
	}

	d.log.Info("document ended",
		observability.Int(observability.MetricPageCount, d.pageCount),
		observability.Int64(observability.MetricWriteTime, d.cfg.now().Sub(d.started).Milliseconds()))
	return nil
}

func (d *Document) infoDict() raw.Dict {
	info := raw.Dict{
		"Producer":     raw.Text("pdfgen"),
		"Creator":      raw.Text("pdfgen"),
		"CreationDate": raw.Date(d.cfg.now()),
	}
	set := func(key raw.Name, v string) {
		if v != "" {
			info[key] = raw.Text(v)
		}
	}
	set("Title", d.cfg.info.Title)
	set("Author", d.cfg.info.Author)
	set("Subject", d.cfg.info.Subject)
	set("Keywords", d.cfg.info.Keywords)
	set("Creator", d.cfg.info.Creator)
	set("Producer", d.cfg.info.Producer)
	return info
}

// flushPage writes the page's content stream and page dictionary and
// drains the writer so the bytes leave the process.
func (d *Document) flushPage(p *Page) error {
	if err := p.finalize(); err != nil {
		return err
	}
	return d.w.Drain()
}
