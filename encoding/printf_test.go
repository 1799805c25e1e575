package encoding

import (
	"testing"

	"github.com/abstractsig/io-core/mem"
	"github.com/abstractsig/io-core/value"
)

func TestPrintfLiteralTextPassesThrough(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	n := Printf(e, nil, "hello world")
	if n != len("hello world") {
		t.Fatalf("Printf() returned %d, want %d", n, len("hello world"))
	}
	if string(e.GetContent()) != "hello world" {
		t.Fatalf("GetContent() = %q", e.GetContent())
	}
}

func TestPrintfStringAndIntConversions(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	Printf(e, nil, "%s=%d", "count", 42)
	if got := string(e.GetContent()); got != "count=42" {
		t.Fatalf("GetContent() = %q, want %q", got, "count=42")
	}
}

func TestPrintfHexConversion(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	Printf(e, nil, "%x", 255)
	if got := string(e.GetContent()); got != "ff" {
		t.Fatalf("GetContent() = %q, want %q", got, "ff")
	}
}

func TestPrintfPercentEscapesLiteralPercent(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	Printf(e, nil, "100%%")
	if got := string(e.GetContent()); got != "100%" {
		t.Fatalf("GetContent() = %q, want %q", got, "100%")
	}
}

func TestPrintfValueConversionUsesEncodeValueHook(t *testing.T) {
	prev := EncodeValue
	defer func() { EncodeValue = prev }()

	EncodeValue = func(heap *mem.Heap, v value.Ref) []byte { return []byte("<val>") }

	e := NewBinary(newTestHeap(t))
	Printf(e, nil, "v=%v", value.Constant([]byte("x")))
	if got := string(e.GetContent()); got != "v=<val>" {
		t.Fatalf("GetContent() = %q, want %q", got, "v=<val>")
	}
}

func TestPrintfValueConversionNoopWithoutHook(t *testing.T) {
	prev := EncodeValue
	defer func() { EncodeValue = prev }()
	EncodeValue = nil

	e := NewBinary(newTestHeap(t))
	Printf(e, nil, "v=%v", value.Constant([]byte("x")))
	if got := string(e.GetContent()); got != "v=" {
		t.Fatalf("GetContent() = %q, want %q", got, "v=")
	}
}
