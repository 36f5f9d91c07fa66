// Package writer emits a PDF file incrementally: indirect objects are
// allocated up front, filled in any order, and serialized through a
// deferred finalize queue; the cross-reference table and trailer are
// written once the document has been ended and no object is pending.
package writer

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"pdfgen/filters"
	"pdfgen/observability"
	"pdfgen/raw"
	"pdfgen/xref"
)

// ErrPending reports a Close attempt while allocated objects have not
// been finalized.
var ErrPending = errors.New("writer: objects still pending")

const header = "%PDF-1.7\n%\xE2\xE3\xCF\xD3\n"

type settings struct {
	level int
	log   observability.Logger
}

type Option func(*settings)

// WithCompression sets the zlib level used for stream objects.
func WithCompression(level int) Option {
	return func(s *settings) { s.level = level }
}

func WithLogger(log observability.Logger) Option {
	return func(s *settings) { s.log = log }
}

// Writer owns the object store: id allocation, per-id offsets, the
// pending-object counter and the finalize queue.
type Writer struct {
	sink  *Sink
	table xref.Table
	enc   filters.Encoder
	log   observability.Logger

	pending int
	ended   bool
	closed  bool
	root    raw.Ref
	info    raw.Ref

	queue    []*Object
	draining bool

	err error // first failure; everything after fails fast
}

// New writes the file header and returns a Writer ready to allocate
// objects.
func New(w io.Writer, opts ...Option) (*Writer, error) {
	s := settings{level: zlib.DefaultCompression, log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(&s)
	}
	pw := &Writer{
		sink: NewSink(w),
		enc:  filters.NewFlate(s.level),
		log:  s.log,
	}
	if _, err := io.WriteString(pw.sink, header); err != nil {
		return nil, fmt.Errorf("writer: header: %w", err)
	}
	return pw, nil
}

// Alloc registers a new object id and returns its handle. Ids are
// assigned sequentially and never reused.
func (w *Writer) Alloc(dict raw.Dict) *Object {
	if dict == nil {
		dict = raw.Dict{}
	}
	id := w.table.Len() + 1
	w.table.Grow(id)
	w.pending++
	return &Object{w: w, id: id, dict: dict}
}

// Pending returns the number of objects allocated but not finalized.
func (w *Writer) Pending() int { return w.pending }

// Closed reports whether the trailer has been written and the sink
// closed.
func (w *Writer) Closed() bool { return w.closed }

// Offset returns the cumulative number of bytes emitted.
func (w *Writer) Offset() int64 { return w.sink.Offset() }

func (w *Writer) enqueue(o *Object) {
	w.queue = append(w.queue, o)
}

// Drain runs every queued finalize, including ones scheduled while
// draining. The Document calls this at controlled points (page flush,
// document end) instead of relying on an event-loop tick.
func (w *Writer) Drain() error {
	if w.err != nil {
		return w.err
	}
	if w.draining {
		return nil
	}
	w.draining = true
	defer func() { w.draining = false }()

	for len(w.queue) > 0 {
		o := w.queue[0]
		w.queue = w.queue[1:]
		if err := w.finalizeObject(o); err != nil {
			w.err = err
			return err
		}
	}
	if w.ended && w.pending == 0 && !w.closed {
		if err := w.finalizeDocument(); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// End marks the document complete. The trailer is emitted by the next
// Drain once the pending count reaches zero; End itself drains once.
func (w *Writer) End(root, info raw.Ref) error {
	if w.err != nil {
		return w.err
	}
	w.ended = true
	w.root = root
	w.info = info
	return w.Drain()
}

func (w *Writer) finalizeObject(o *Object) error {
	o.offset = w.sink.Offset()
	if err := w.table.Set(o.id, o.offset); err != nil {
		return err
	}

	data := o.data
	if o.hasStream {
		if o.compress {
			enc, err := w.enc.Encode(data)
			if err != nil {
				return fmt.Errorf("writer: object %d: %w", o.id, err)
			}
			data = enc
			o.dict["Filter"] = raw.Name(w.enc.Name())
		}
		o.dict["Length"] = raw.Integer(len(data))
	}

	buf := make([]byte, 0, len(data)+256)
	buf = fmt.Appendf(buf, "%d 0 obj\n", o.id)
	var err error
	buf, err = raw.Append(buf, o.dict)
	if err != nil {
		return fmt.Errorf("writer: object %d: %w", o.id, err)
	}
	if o.hasStream {
		buf = append(buf, "\nstream\n"...)
		buf = append(buf, data...)
		buf = append(buf, "\nendstream"...)
	}
	buf = append(buf, "\nendobj\n"...)

	if _, err := w.sink.Write(buf); err != nil {
		return fmt.Errorf("writer: object %d: %w", o.id, err)
	}

	// Release the stream buffer; large documents would otherwise hold
	// every stream in memory until the trailer.
	o.data = nil
	o.state = stateFinalized
	w.pending--
	w.log.Debug("object finalized",
		observability.Int("id", o.id),
		observability.Int64("offset", o.offset))
	return nil
}

func (w *Writer) finalizeDocument() error {
	if w.root == (raw.Ref{}) {
		return errors.New("writer: document ended without a root object")
	}
	startXRef := w.sink.Offset()
	if err := w.table.EncodeTo(w.sink); err != nil {
		return err
	}

	trailer := raw.Dict{
		"Size": raw.Integer(w.table.Len() + 1),
		"Root": w.root,
	}
	if w.info != (raw.Ref{}) {
		trailer["Info"] = w.info
	}
	buf := []byte("trailer\n")
	var err error
	buf, err = raw.Append(buf, trailer)
	if err != nil {
		return err
	}
	buf = fmt.Appendf(buf, "\nstartxref\n%d\n%%%%EOF\n", startXRef)
	if _, err := w.sink.Write(buf); err != nil {
		return fmt.Errorf("writer: trailer: %w", err)
	}

	w.closed = true
	w.log.Debug("document finalized",
		observability.Int(observability.MetricObjectCount, w.table.Len()),
		observability.Int64(observability.MetricBytesOut, w.sink.Offset()))
	return w.sink.Close()
}
