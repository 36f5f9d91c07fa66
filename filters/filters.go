// Package filters implements the stream encoders used when emitting
// PDF stream objects.
package filters

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"fmt"
)

// Encoder transforms stream bytes into their on-disk encoded form.
// Name returns the PDF filter name to declare in the stream dictionary.
type Encoder interface {
	Name() string
	Encode(input []byte) ([]byte, error)
}

type flateEncoder struct{ level int }

// NewFlate returns the standard Flate encoder. level follows
// compress/zlib semantics; zlib.DefaultCompression is the usual choice.
func NewFlate(level int) Encoder { return &flateEncoder{level: level} }

func (e *flateEncoder) Name() string { return "FlateDecode" }

func (e *flateEncoder) Encode(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, e.level)
	if err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}
	if _, err := zw.Write(input); err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}
	return buf.Bytes(), nil
}

type asciiHexEncoder struct{}

// NewASCIIHex returns the ASCIIHex encoder. Mostly useful for
// debugging output, since it doubles the stream size.
func NewASCIIHex() Encoder { return asciiHexEncoder{} }

func (asciiHexEncoder) Name() string { return "ASCIIHexDecode" }

func (asciiHexEncoder) Encode(input []byte) ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(input))+1)
	hex.Encode(out, input)
	out[len(out)-1] = '>'
	return out, nil
}

// Registry maps filter names to encoders.
type Registry struct{ encoders map[string]Encoder }

func (r *Registry) Register(e Encoder) {
	if r.encoders == nil {
		r.encoders = make(map[string]Encoder)
	}
	r.encoders[e.Name()] = e
}

func (r *Registry) Get(name string) (Encoder, bool) {
	e, ok := r.encoders[name]
	return e, ok
}
