package writer

import "io"

// Sink is the append-only output channel. It tracks the cumulative
// byte offset so object positions can be recorded as they are emitted.
type Sink struct {
	w   io.Writer
	off int64
}

func NewSink(w io.Writer) *Sink { return &Sink{w: w} }

func (s *Sink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.off += int64(n)
	return n, err
}

// Offset returns the number of bytes emitted so far.
func (s *Sink) Offset() int64 { return s.off }

// Close closes the underlying writer when it supports closing.
func (s *Sink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
