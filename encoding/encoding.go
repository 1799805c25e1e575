// Package encoding implements the runtime's encoding hierarchy (spec
// §4.G): a shared reference-counted base contract, a binary encoding
// backed by a byte-heap-grown buffer, a text encoding for human-readable
// printing (with cycle-breaking via a visited set), an x70 TLV encoding,
// and a packet encoding that carries a stack of protocol Layers. The
// original's io_encoding_implementation_t vtable is replaced by a Go
// interface, and "specialisation_of" inheritance chains become ordinary
// struct embedding (spec §9 REDESIGN FLAGS).
package encoding

import (
	"github.com/abstractsig/io-core/ioc"
	"github.com/abstractsig/io-core/mem"
	"github.com/abstractsig/io-core/value"
)

// refCountLimit is the maximum encoding reference count (spec §3:
// "max 2^16-1, panic on overflow").
const refCountLimit = 0xffff

// Decoder turns an encoding's bytes into a value (io_value_decoder_t).
type Decoder func(Encoding, *value.Memory) (value.Ref, bool)

// Layer is the contract a packet encoding's protocol layers satisfy.
// Defined here (rather than in a separate layer package importing this
// one) so packet encodings can hold a stack of them without an import
// cycle — the layer package instead imports this one to implement it.
type Layer interface {
	// Offset is this layer's byte offset into its encoding's buffer,
	// cached rather than a pointer because the buffer may be reallocated
	// out from under a growing encoding (spec §3).
	Offset() int
	SetOffset(int)
}

// Encoding is the contract every encoding flavor satisfies
// (IO_ENCODING_IMPLEMENTATION_STRUCT_MEMBERS, minus the handful of
// operations — get_io, decode_to_io_value's va_list plumbing — that don't
// translate to idiomatic Go).
type Encoding interface {
	Free()
	GetContent() []byte
	Length() int
	Limit() int
	Reset()
	Fill(b byte, count int) int
	Grow(increment uint32) bool
	GrowIncrement() uint32
	AppendByte(b byte) bool
	AppendBytes(bytes []byte) bool
	PopLastByte() (byte, bool)
	DecodeToValue(d Decoder, vm *value.Memory) (value.Ref, bool)

	Reference() Encoding
	Unreference()
	RefCount() uint16
}

// base carries the reference count every encoding flavor shares
// (IO_ENCODING_STRUCT_MEMBERS).
type base struct {
	refCount uint16
	log      *ioc.Logger
}

func (b *base) RefCount() uint16 { return b.refCount }

func (b *base) reference() {
	if b.refCount == refCountLimit {
		ioc.PanicWithCode(b.log, ioc.SomethingBadHappened, "encoding: reference count overflow")
		return
	}
	b.refCount++
}

func (b *base) unreference() bool {
	if b.refCount > 0 {
		b.refCount--
	}
	return b.refCount == 0
}

// growBuffer is the shared byte-heap-backed growable buffer underlying
// binary, text and packet encodings (IO_BINARY_ENCODING_STRUCT_MEMBERS).
type growBuffer struct {
	heap   *mem.Heap
	ptr    mem.Ptr
	cursor int // bytes in use, cursor - start
}

func newGrowBuffer(heap *mem.Heap, initial int) growBuffer {
	if initial < 16 {
		initial = 16
	}
	ptr, ok := heap.AllocateAndZero(initial)
	if !ok {
		return growBuffer{heap: heap}
	}
	return growBuffer{heap: heap, ptr: ptr}
}

func (g *growBuffer) capacity() int {
	if g.ptr == 0 {
		return 0
	}
	return len(g.heap.Data(g.ptr))
}

func (g *growBuffer) bytes() []byte {
	if g.ptr == 0 {
		return nil
	}
	return g.heap.Data(g.ptr)[:g.cursor]
}

// growIncrement doubles, the default every encoding uses unless it
// overrides GrowIncrement (default_io_encoding_grow_increment).
func (g *growBuffer) growIncrement() uint32 {
	c := g.capacity()
	if c == 0 {
		return 64
	}
	return uint32(c)
}

func (g *growBuffer) grow(increment uint32) bool {
	newSize := g.capacity() + int(increment)
	ptr, ok := g.heap.Reallocate(g.ptr, newSize)
	if !ok {
		return false
	}
	g.ptr = ptr
	return true
}

func (g *growBuffer) ensure(extra int) bool {
	if g.cursor+extra <= g.capacity() {
		return true
	}
	need := uint32(g.cursor + extra - g.capacity())
	inc := g.growIncrement()
	if inc < need {
		inc = need
	}
	return g.grow(inc)
}

func (g *growBuffer) appendByte(b byte) bool {
	if !g.ensure(1) {
		return false
	}
	g.heap.Data(g.ptr)[g.cursor] = b
	g.cursor++
	return true
}

func (g *growBuffer) appendBytes(bytes []byte) bool {
	if !g.ensure(len(bytes)) {
		return false
	}
	copy(g.heap.Data(g.ptr)[g.cursor:], bytes)
	g.cursor += len(bytes)
	return true
}

func (g *growBuffer) fill(b byte, count int) int {
	if !g.ensure(count) {
		return 0
	}
	data := g.heap.Data(g.ptr)
	for i := 0; i < count; i++ {
		data[g.cursor+i] = b
	}
	g.cursor += count
	return count
}

func (g *growBuffer) popLastByte() (byte, bool) {
	if g.cursor == 0 {
		return 0, false
	}
	g.cursor--
	return g.heap.Data(g.ptr)[g.cursor], true
}

func (g *growBuffer) reset() { g.cursor = 0 }

func (g *growBuffer) free() {
	if g.ptr != 0 {
		g.heap.Free(g.ptr)
		g.ptr = 0
	}
}
