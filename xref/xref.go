// Package xref builds and emits the classic cross-reference table.
package xref

import (
	"fmt"
	"io"
)

// unset marks an object id whose offset was never recorded.
const unset = int64(-1)

// Table records the byte offset at which each indirect object was
// emitted, indexed by object id. Entries are written in id order no
// matter what order offsets were recorded in.
type Table struct {
	offsets []int64 // offsets[i] is the offset of object id i+1
}

// Grow extends the table to cover ids 1..n.
func (t *Table) Grow(n int) {
	for len(t.offsets) < n {
		t.offsets = append(t.offsets, unset)
	}
}

// Set records the offset for the given object id. Ids are 1-based.
func (t *Table) Set(id int, offset int64) error {
	if id < 1 {
		return fmt.Errorf("xref: invalid object id %d", id)
	}
	t.Grow(id)
	if t.offsets[id-1] != unset {
		return fmt.Errorf("xref: offset for object %d recorded twice", id)
	}
	t.offsets[id-1] = offset
	return nil
}

// Len returns the number of allocated object ids.
func (t *Table) Len() int { return len(t.offsets) }

// EncodeTo writes the xref section: the section header, the fixed free
// entry for object 0, and one fixed-width 20-byte line per object id.
// An id with no recorded offset means the object graph was never
// completed and is a hard error.
func (t *Table) EncodeTo(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "xref\n0 %d\n", len(t.offsets)+1); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "0000000000 65535 f \n"); err != nil {
		return err
	}
	for i, off := range t.offsets {
		if off == unset {
			return fmt.Errorf("xref: object %d was allocated but never finalized", i+1)
		}
		if _, err := fmt.Fprintf(w, "%010d 00000 n \n", off); err != nil {
			return err
		}
	}
	return nil
}
