package encoding

import (
	"bytes"
	"testing"

	"github.com/abstractsig/io-core/value"
)

func TestUintValueRoundTrips(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 300, 1 << 20, 0xffffffff}
	for _, v := range cases {
		e := NewX70(newTestHeap(t))
		if !AppendUintValue(e, v) {
			t.Fatalf("AppendUintValue(%d) failed", v)
		}
		got, n := TakeUintValue(e.GetContent())
		if n < 0 {
			t.Fatalf("TakeUintValue() reported malformed input for %d", v)
		}
		if got != v {
			t.Fatalf("TakeUintValue() = %d, want %d", got, v)
		}
		if n != e.Length() {
			t.Fatalf("TakeUintValue() consumed %d bytes, want %d", n, e.Length())
		}
	}
}

func TestTakeUintValueRejectsMissingMarker(t *testing.T) {
	if _, n := TakeUintValue([]byte{0, 1, 2}); n != -1 {
		t.Fatalf("TakeUintValue() on unmarked bytes returned n=%d, want -1", n)
	}
}

func TestTakeUintValueRejectsTruncatedVarint(t *testing.T) {
	if _, n := TakeUintValue([]byte{x70UintMarker, 0x80}); n != -1 {
		t.Fatalf("TakeUintValue() on truncated varint returned n=%d, want -1", n)
	}
}

// rawBytesImpl is a minimal X70Implementation whose body is just the raw
// constant bytes backing the value, for exercising AppendValue/Decode's
// name-dispatch plumbing without needing a full value.Memory allocator.
type rawBytesImpl struct{ name string }

func (r rawBytesImpl) Name() string { return r.name }

func (r rawBytesImpl) EncodeBody(e Encoding, v value.Ref) bool {
	return e.AppendBytes(v.ROPointer())
}

func (r rawBytesImpl) DecodeBody(body []byte, vm *value.Memory) (value.Ref, int, bool) {
	return value.Constant(body), len(body), true
}

func TestX70AppendAndDecodeRoundTrip(t *testing.T) {
	const testID uint16 = 1
	RegisterX70Implementation(testID, rawBytesImpl{name: "test.raw"})

	e := NewX70(newTestHeap(t))
	payload := value.Constant([]byte("payload"))
	if !e.AppendValue(testID, payload) {
		t.Fatal("AppendValue() failed")
	}

	v, n, ok := Decode(e.GetContent(), nil)
	if !ok {
		t.Fatal("Decode() reported failure on a value it just encoded")
	}
	if n != e.Length() {
		t.Fatalf("Decode() consumed %d bytes, want %d", n, e.Length())
	}
	if !bytes.Equal(v.ROPointer(), []byte("payload")) {
		t.Fatalf("Decode() body = %q, want %q", v.ROPointer(), "payload")
	}
}

func TestDecodeRejectsUnknownName(t *testing.T) {
	e := NewX70(newTestHeap(t))
	e.AppendByte(x70UintMarker)
	e.AppendByte(byte(len("nope")))
	e.AppendBytes([]byte("nope"))

	if _, _, ok := Decode(e.GetContent(), nil); ok {
		t.Fatal("Decode() succeeded on an unregistered name")
	}
}
