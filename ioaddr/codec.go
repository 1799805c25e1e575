package ioaddr

import "github.com/abstractsig/io-core/mem"

// WriteLE encodes a into dest as a length-prefixed little-endian varint
// followed by the address's raw bytes (write_le_io_address), returning the
// number of bytes written or false if dest is too small. The length prefix
// uses standard unsigned LEB128: 7 bits of length per byte, MSB set to
// signal "more bytes follow". An invalid (size 0) address encodes as a
// single zero byte.
func WriteLE(a Address, dest []byte) (int, bool) {
	size := a.Size()
	n := 0
	for {
		b := byte(size & 0x7f)
		size >>= 7
		if size != 0 {
			b |= 0x80
		}
		if n >= len(dest) {
			return 0, false
		}
		dest[n] = b
		n++
		if size == 0 {
			break
		}
	}
	if !a.IsValid() {
		return n, true
	}
	bytes := a.Bytes()
	if n+len(bytes) > len(dest) {
		return 0, false
	}
	n += copy(dest[n:], bytes)
	return n, true
}

// ReadLE decodes an address written by WriteLE, returning the address and
// the number of bytes consumed from src (read_le_io_address). Long
// (size > 4) addresses are allocated from heap; heap may be nil when every
// address expected on the wire is known to be inline-sized.
func ReadLE(heap *mem.Heap, src []byte) (Address, int, bool) {
	var size uint32
	shift := uint(0)
	n := 0
	for {
		if n >= len(src) {
			return Invalid(), 0, false
		}
		b := src[n]
		n++
		size |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	if size == invalidSize {
		return Invalid(), n, true
	}
	if n+int(size) > len(src) {
		return Invalid(), 0, false
	}
	a := Make(heap, src[n:n+int(size)])
	return a, n + int(size), true
}
