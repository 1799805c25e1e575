// Package ioaddr implements the runtime's address type (spec §4.E): a
// tagged inline-or-allocated byte string with a variable-length codec and
// big-integer-style comparison. The byte-scanning style here — explicit
// index loops instead of bytes.Compare/bytes.Equal — follows the
// teacher's std/strings.go, which rolls its own Index/HasPrefix/TrimRight
// rather than reaching for the standard library's string routines.
package ioaddr

import "github.com/abstractsig/io-core/mem"

// invalidSize marks an address with no value (size 0 ⇒ invalid, spec §3).
const invalidSize = 0

// Address is a small tagged union: 0/1/2/4-byte values are stored inline;
// anything larger is owned by a byte heap and referenced through a
// mem.Ptr, with Volatile recording that the bytes are heap-owned (and so
// must be freed when the address is released) rather than borrowed.
type Address struct {
	size     uint32
	inline   [4]byte
	heap     *mem.Heap
	ptr      mem.Ptr
	volatile bool
}

// Invalid returns the canonical invalid address (size 0).
func Invalid() Address { return Address{size: invalidSize} }

// IsValid reports whether a carries a value.
func (a Address) IsValid() bool { return a.size != invalidSize }

// IsVolatile reports whether a owns heap-allocated bytes that must be
// freed when the address's container is freed.
func (a Address) IsVolatile() bool { return a.volatile }

// Size returns the address's byte length.
func (a Address) Size() uint32 { return a.size }

// U8 builds a 1-byte inline address (def_io_u8_address).
func U8(v uint8) Address {
	a := Address{size: 1}
	a.inline[0] = v
	return a
}

// U16 builds a 2-byte inline little-endian address.
func U16(v uint16) Address {
	a := Address{size: 2}
	a.inline[0] = byte(v)
	a.inline[1] = byte(v >> 8)
	return a
}

// U32 builds a 4-byte inline little-endian address.
func U32(v uint32) Address {
	a := Address{size: 4}
	a.inline[0] = byte(v)
	a.inline[1] = byte(v >> 8)
	a.inline[2] = byte(v >> 16)
	a.inline[3] = byte(v >> 24)
	return a
}

// Make builds an address from an arbitrary byte string, taking the fast
// inline path for length 1/2/4 and otherwise allocating from heap to hold
// a copy of bytes (mk_io_address).
func Make(heap *mem.Heap, bytes []byte) Address {
	switch len(bytes) {
	case invalidSize:
		return Invalid()
	case 1:
		return U8(bytes[0])
	case 2:
		return U16(uint16(bytes[0]) | uint16(bytes[1])<<8)
	case 4:
		return U32(uint32(bytes[0]) | uint32(bytes[1])<<8 | uint32(bytes[2])<<16 | uint32(bytes[3])<<24)
	default:
		return longAddress(heap, bytes)
	}
}

func longAddress(heap *mem.Heap, bytes []byte) Address {
	ptr, ok := heap.Allocate(len(bytes))
	if !ok {
		return Invalid()
	}
	copy(heap.Data(ptr), bytes)
	return Address{size: uint32(len(bytes)), heap: heap, ptr: ptr, volatile: true}
}

// Bytes returns the address's value as a byte slice. For inline addresses
// this is a fresh slice; for heap-backed addresses it aliases the heap's
// arena and must not be retained past a Free of the address.
func (a Address) Bytes() []byte {
	if a.size <= 4 {
		return a.inline[:a.size]
	}
	return a.heap.Data(a.ptr)[:a.size]
}

// Duplicate copies a into a fresh address that the caller owns, matching
// duplicate_io_address: inline and non-volatile addresses are copied by
// value (cheap), volatile (heap-owned) addresses get a fresh allocation.
func (a Address) Duplicate(heap *mem.Heap) Address {
	if a.size <= 4 || !a.volatile {
		return a
	}
	return longAddress(heap, a.Bytes())
}

// Free releases any heap allocation a owns. Non-volatile and inline
// addresses are no-ops.
func (a Address) Free() {
	if a.volatile && a.heap != nil {
		a.heap.Free(a.ptr)
	}
}

// trailingZeroStripped returns the sub-slice of b with trailing zero
// bytes removed, mirroring compare_as_big_int_values's walk from the high
// end down past zero bytes. An all-zero slice strips to a single byte so
// comparisons still have something to look at; an empty slice stays empty.
func trailingZeroStripped(b []byte) []byte {
	end := len(b)
	for end > 1 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}

// compareMagnitude compares two little-endian byte strings as unsigned
// big integers: longer (after stripping trailing zero bytes) wins, then
// most-significant byte first.
func compareMagnitude(a, b []byte) int {
	a = trailingZeroStripped(a)
	b = trailingZeroStripped(b)
	if len(a) != len(b) {
		if len(a) > len(b) {
			return 1
		}
		return -1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] > b[i] {
			return 1
		}
		if a[i] < b[i] {
			return -1
		}
	}
	return 0
}

// Compare orders addresses as little-endian big integers (spec §3), with
// the invalid address sorting before any valid one.
func Compare(a, b Address) int {
	if !b.IsValid() {
		if !a.IsValid() {
			return 0
		}
		return 1
	}
	if !a.IsValid() {
		return -1
	}
	return compareMagnitude(a.Bytes(), b.Bytes())
}

// Equal reports structural equality: both invalid, or valid and
// comparing equal as big integers.
func Equal(a, b Address) bool {
	return Compare(a, b) == 0
}
