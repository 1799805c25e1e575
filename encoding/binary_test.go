package encoding

import (
	"testing"

	"github.com/abstractsig/io-core/mem"
)

func newTestHeap(t *testing.T) *mem.Heap {
	t.Helper()
	return mem.NewHeap(64*1024, 16, nil)
}

func TestBinaryAppendAndContent(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	e.AppendBytes([]byte("hello"))
	e.AppendByte(' ')
	e.AppendBytes([]byte("world"))

	if got := string(e.GetContent()); got != "hello world" {
		t.Fatalf("GetContent() = %q, want %q", got, "hello world")
	}
	if e.Length() != len("hello world") {
		t.Fatalf("Length() = %d, want %d", e.Length(), len("hello world"))
	}
}

func TestBinaryPopLastByte(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	e.AppendBytes([]byte("ab"))

	b, ok := e.PopLastByte()
	if !ok || b != 'b' {
		t.Fatalf("PopLastByte() = (%q, %v), want ('b', true)", b, ok)
	}
	if e.Length() != 1 {
		t.Fatalf("Length() after pop = %d, want 1", e.Length())
	}

	e.PopLastByte()
	if _, ok := e.PopLastByte(); ok {
		t.Fatal("PopLastByte() on empty buffer should fail")
	}
}

func TestBinaryResetClearsContentKeepsCapacity(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	e.AppendBytes([]byte("some bytes"))
	e.Reset()

	if e.Length() != 0 {
		t.Fatalf("Length() after Reset() = %d, want 0", e.Length())
	}
	e.AppendBytes([]byte("x"))
	if string(e.GetContent()) != "x" {
		t.Fatalf("GetContent() after reuse = %q, want %q", e.GetContent(), "x")
	}
}

func TestBinaryGrowsPastInitialCapacity(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	big := make([]byte, 500)
	for i := range big {
		big[i] = byte(i)
	}
	if !e.AppendBytes(big) {
		t.Fatal("AppendBytes() of 500 bytes should succeed by growing")
	}
	if e.Length() != 500 {
		t.Fatalf("Length() = %d, want 500", e.Length())
	}
}

func TestBinaryReferenceCountingFreesOnZero(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	if e.RefCount() != 1 {
		t.Fatalf("RefCount() after NewBinary = %d, want 1", e.RefCount())
	}
	e.Reference()
	if e.RefCount() != 2 {
		t.Fatalf("RefCount() after Reference() = %d, want 2", e.RefCount())
	}
	e.Unreference()
	if e.RefCount() != 1 {
		t.Fatalf("RefCount() after one Unreference() = %d, want 1", e.RefCount())
	}
	e.Unreference()
	if e.RefCount() != 0 {
		t.Fatalf("RefCount() after final Unreference() = %d, want 0", e.RefCount())
	}
}

func TestBinaryFillAppendsRepeatedByte(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	n := e.Fill(0xAA, 4)
	if n != 4 {
		t.Fatalf("Fill() returned %d, want 4", n)
	}
	content := e.GetContent()
	for i, b := range content {
		if b != 0xAA {
			t.Fatalf("content[%d] = %#x, want 0xAA", i, b)
		}
	}
}

func TestBinaryLimitIsUnbounded(t *testing.T) {
	e := NewBinary(newTestHeap(t))
	if e.Limit() != -1 {
		t.Fatalf("Limit() = %d, want -1", e.Limit())
	}
}

func TestBinaryHeapReturnsUnderlyingHeap(t *testing.T) {
	h := newTestHeap(t)
	e := NewBinary(h)
	if e.Heap() != h {
		t.Fatal("Heap() did not return the heap the encoding was built with")
	}
}
