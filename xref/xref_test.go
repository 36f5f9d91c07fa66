package xref

import (
	"strings"
	"testing"
)

func TestEncodeIdOrder(t *testing.T) {
	var tab Table
	tab.Grow(3)
	// Offsets arrive out of id order.
	if err := tab.Set(3, 300); err != nil {
		t.Fatal(err)
	}
	if err := tab.Set(1, 100); err != nil {
		t.Fatal(err)
	}
	if err := tab.Set(2, 200); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := tab.EncodeTo(&sb); err != nil {
		t.Fatal(err)
	}
	got := sb.String()
	want := "xref\n0 4\n" +
		"0000000000 65535 f \n" +
		"0000000100 00000 n \n" +
		"0000000200 00000 n \n" +
		"0000000300 00000 n \n"
	if got != want {
		t.Errorf("table mismatch:\n%q\nwant\n%q", got, want)
	}

	// Every in-use line must be exactly 20 bytes.
	for _, line := range strings.SplitAfter(got, "\n") {
		if strings.HasSuffix(line, " \n") && len(line) != 20 {
			t.Errorf("entry %q is %d bytes, want 20", line, len(line))
		}
	}
}

func TestEncodeMissingOffset(t *testing.T) {
	var tab Table
	tab.Grow(2)
	if err := tab.Set(1, 15); err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	err := tab.EncodeTo(&sb)
	if err == nil || !strings.Contains(err.Error(), "never finalized") {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestSetTwice(t *testing.T) {
	var tab Table
	if err := tab.Set(1, 10); err != nil {
		t.Fatal(err)
	}
	if err := tab.Set(1, 20); err == nil {
		t.Fatal("second Set for one id should fail")
	}
}
