package ioaddr

import (
	"testing"

	"github.com/abstractsig/io-core/mem"
)

func TestInvalidAddressIsInvalid(t *testing.T) {
	if Invalid().IsValid() {
		t.Fatal("Invalid() should not be valid")
	}
}

func TestU8U16U32Roundtrip(t *testing.T) {
	a := U8(0x7a)
	if !a.IsValid() || a.Size() != 1 || a.Bytes()[0] != 0x7a {
		t.Fatalf("U8 mismatch: %+v", a)
	}
	b := U16(0xbeef)
	if b.Size() != 2 || b.Bytes()[0] != 0xef || b.Bytes()[1] != 0xbe {
		t.Fatalf("U16 mismatch: %+v", b)
	}
	c := U32(0xdeadbeef)
	want := []byte{0xef, 0xbe, 0xad, 0xde}
	for i, v := range want {
		if c.Bytes()[i] != v {
			t.Fatalf("U32 mismatch at %d: got %x want %x", i, c.Bytes()[i], v)
		}
	}
}

func TestMakeLongAddressUsesHeap(t *testing.T) {
	h := mem.NewHeap(4096, 16, nil)
	bytes := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	a := Make(h, bytes)
	if !a.IsValid() || !a.IsVolatile() || a.Size() != 8 {
		t.Fatalf("expected volatile 8-byte address, got %+v", a)
	}
	if got := a.Bytes(); string(got) != string(bytes) {
		t.Fatalf("got %v want %v", got, bytes)
	}
	a.Free()
}

func TestDuplicateCopiesVolatileAddresses(t *testing.T) {
	h := mem.NewHeap(4096, 16, nil)
	bytes := []byte{9, 9, 9, 9, 9, 9}
	a := Make(h, bytes)
	b := a.Duplicate(h)
	if b.Bytes() == nil {
		t.Fatal("duplicate produced nil bytes")
	}
	a.Free()
	if string(b.Bytes()) != string(bytes) {
		t.Fatalf("duplicate's bytes corrupted after original freed: %v", b.Bytes())
	}
	b.Free()
}

// Mirrors the spec's worked example: an address built from {1,0,0,0,1}
// compares equal to u8(1), and less than u8(2).
func TestCompareBigIntStyleWithTrailingZeros(t *testing.T) {
	h := mem.NewHeap(4096, 16, nil)
	a := Make(h, []byte{1, 0, 0, 0, 1})
	defer a.Free()

	if Compare(a, U8(1)) != 0 {
		t.Fatalf("expected {1,0,0,0,1} == u8(1)")
	}
	if Compare(a, U8(2)) != -1 {
		t.Fatalf("expected {1,0,0,0,1} < u8(2)")
	}
	if Compare(U8(2), a) != 1 {
		t.Fatalf("expected u8(2) > {1,0,0,0,1}")
	}
}

func TestCompareInvalidSortsBeforeValid(t *testing.T) {
	if Compare(Invalid(), U8(0)) != -1 {
		t.Fatal("invalid should sort before any valid address, including u8(0)")
	}
	if Compare(U8(0), Invalid()) != 1 {
		t.Fatal("valid should sort after invalid")
	}
	if Compare(Invalid(), Invalid()) != 0 {
		t.Fatal("two invalids should compare equal")
	}
}

func TestEqualMatchesCompare(t *testing.T) {
	if !Equal(U16(42), U16(42)) {
		t.Fatal("equal u16 addresses should be Equal")
	}
	if Equal(U16(42), U16(43)) {
		t.Fatal("unequal u16 addresses should not be Equal")
	}
}

func TestWriteReadRoundtripInline(t *testing.T) {
	cases := []Address{U8(5), U16(1000), U32(123456), Invalid()}
	for _, a := range cases {
		buf := make([]byte, 16)
		n, ok := WriteLE(a, buf)
		if !ok {
			t.Fatalf("WriteLE failed for %+v", a)
		}
		got, consumed, ok := ReadLE(nil, buf[:n])
		if !ok {
			t.Fatalf("ReadLE failed for %+v", a)
		}
		if consumed != n {
			t.Fatalf("consumed %d, wrote %d", consumed, n)
		}
		if !Equal(a, got) {
			t.Fatalf("roundtrip mismatch: wrote %+v, got %+v", a, got)
		}
	}
}

func TestWriteReadRoundtripLongAddress(t *testing.T) {
	h := mem.NewHeap(4096, 16, nil)
	bytes := make([]byte, 200)
	for i := range bytes {
		bytes[i] = byte(i)
	}
	a := Make(h, bytes)
	defer a.Free()

	buf := make([]byte, 256)
	n, ok := WriteLE(a, buf)
	if !ok {
		t.Fatal("WriteLE failed")
	}
	// length 200 requires two varint bytes (200 >= 0x80).
	if buf[0]&0x80 == 0 {
		t.Fatal("expected continuation bit on first length byte for a 200-byte address")
	}

	got, consumed, ok := ReadLE(h, buf[:n])
	if !ok {
		t.Fatal("ReadLE failed")
	}
	defer got.Free()
	if consumed != n {
		t.Fatalf("consumed %d, wrote %d", consumed, n)
	}
	if !Equal(a, got) {
		t.Fatal("long address roundtrip mismatch")
	}
}

func TestWriteLEInvalidAddressIsSingleZeroByte(t *testing.T) {
	buf := make([]byte, 4)
	n, ok := WriteLE(Invalid(), buf)
	if !ok || n != 1 || buf[0] != 0 {
		t.Fatalf("expected single zero byte, got n=%d buf[0]=%d ok=%v", n, buf[0], ok)
	}
}

func TestReadLETruncatedBufferFails(t *testing.T) {
	if _, _, ok := ReadLE(nil, nil); ok {
		t.Fatal("expected failure on empty input")
	}
	// Length byte claims 2 bytes of payload but only 1 is present.
	if _, _, ok := ReadLE(nil, []byte{2, 0xaa}); ok {
		t.Fatal("expected failure on truncated payload")
	}
}
