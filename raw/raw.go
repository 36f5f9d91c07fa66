// Package raw defines the low-level PDF value types and their
// serialization grammar. Every value that can appear inside an object
// dictionary or array is one of the closed set below; Serialize is the
// single place that knows how each of them is written.
package raw

import (
	"errors"
	"fmt"
	"time"
)

// Ref identifies an indirect object. Generation numbers are always zero
// for freshly built documents; the field exists because the reference
// grammar requires it.
type Ref struct {
	Num int
	Gen int
}

func (r Ref) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// Object is the closed set of PDF value types. Only the types in this
// package implement it.
type Object interface {
	isObject()
}

// Name is a PDF name, written with a leading slash.
type Name string

// Integer is a whole number.
type Integer int64

// Real is a fractional number. Values are rounded to six decimal places
// on output; magnitudes at or beyond 1e21 are rejected.
type Real float64

// Bool is a PDF boolean.
type Bool bool

// Null is the PDF null object.
type Null struct{}

// Text is a human-readable string. ASCII content is written as an
// escaped literal; anything else is transcoded to UTF-16BE with a
// byte order mark first.
type Text string

// Hex is a binary string written in hexadecimal form.
type Hex []byte

// Date is a timestamp, written as a fixed-width D:YYYYMMDDHHMMSSZ
// literal in UTC.
type Date time.Time

// Array is an ordered list of values.
type Array []Object

// Dict maps names to values. Keys are emitted in sorted order so output
// is deterministic.
type Dict map[Name]Object

// Verbatim is a pre-serialized fragment spliced into the output as-is.
// Used for content that already obeys the grammar, such as rendered
// operator strings inside appearance dictionaries.
type Verbatim []byte

func (Name) isObject()     {}
func (Integer) isObject()  {}
func (Real) isObject()     {}
func (Bool) isObject()     {}
func (Null) isObject()     {}
func (Text) isObject()     {}
func (Hex) isObject()      {}
func (Date) isObject()     {}
func (Array) isObject()    {}
func (Dict) isObject()     {}
func (Verbatim) isObject() {}
func (Ref) isObject()      {}

// ErrNumberRange reports a numeric value too large to represent.
var ErrNumberRange = errors.New("raw: number out of representable range")

// ErrOddUTF16 reports a UTF-16 buffer with an odd byte count.
var ErrOddUTF16 = errors.New("raw: odd-length UTF-16 buffer")

// TextFromUTF16 validates b as big-endian UTF-16 bytes (without byte
// order mark) and returns a Text that will serialize them unchanged.
// An odd-length buffer is a hard error.
func TextFromUTF16(b []byte) (Hex, error) {
	if len(b)%2 != 0 {
		return nil, ErrOddUTF16
	}
	out := make([]byte, 0, len(b)+2)
	out = append(out, 0xFE, 0xFF)
	out = append(out, b...)
	return Hex(out), nil
}
