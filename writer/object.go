package writer

import (
	"errors"
	"fmt"

	"pdfgen/raw"
)

// ErrFinalized reports a write against an object that already ended.
var ErrFinalized = errors.New("writer: object already finalized")

type objState int

const (
	stateOpen objState = iota
	stateQueued
	stateFinalized
)

// Object is one indirect object in the output graph. It is created by
// Writer.Alloc, accumulates stream bytes through Write, and is
// serialized when its deferred finalize runs. The handle is usable as a
// forward reference from the moment it is allocated.
type Object struct {
	w *Writer

	id        int
	dict      raw.Dict
	data      []byte
	hasStream bool
	compress  bool
	state     objState
	offset    int64
}

func (o *Object) ID() int { return o.id }

// Ref returns the indirect reference to this object, valid before the
// object's content is known.
func (o *Object) Ref() raw.Ref { return raw.Ref{Num: o.id} }

// Dict returns the object's dictionary. It may be mutated until the
// deferred finalize runs.
func (o *Object) Dict() raw.Dict { return o.dict }

// Offset returns the byte position at which the object was emitted.
// It is meaningful only after finalize.
func (o *Object) Offset() int64 { return o.offset }

// Write appends stream bytes. The first write marks the object as a
// stream; unless the dictionary already declares a /Filter, the buffer
// will be Flate-compressed at finalize time.
func (o *Object) Write(p []byte) (int, error) {
	if o.state != stateOpen {
		return 0, fmt.Errorf("%w: object %d", ErrFinalized, o.id)
	}
	if !o.hasStream {
		o.hasStream = true
		if _, explicit := o.dict["Filter"]; !explicit {
			o.compress = true
		}
	}
	o.data = append(o.data, p...)
	return len(p), nil
}

// End schedules the object's finalize. Serialization does not happen
// here: it runs when the owning Writer drains its queue, so that
// forward references built in the same unit of work resolve first.
func (o *Object) End() error {
	if o.state != stateOpen {
		return fmt.Errorf("%w: object %d", ErrFinalized, o.id)
	}
	o.state = stateQueued
	o.w.enqueue(o)
	return nil
}
