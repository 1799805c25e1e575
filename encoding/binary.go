package encoding

import "github.com/abstractsig/io-core/mem"
import "github.com/abstractsig/io-core/value"

// Binary is a dynamically-grown byte buffer encoding (io_binary_encoding_t).
type Binary struct {
	base
	buf growBuffer
}

// NewBinary allocates a fresh binary encoding from heap with an initial
// reference count of one.
func NewBinary(heap *mem.Heap) *Binary {
	return &Binary{base: base{refCount: 1}, buf: newGrowBuffer(heap, 64)}
}

func (e *Binary) Free() { e.buf.free() }

// Heap returns the byte heap this encoding allocates from, so code
// holding only an Encoding can build a fresh same-heap encoding (e.g. a
// shared-media socket's receive-copy path).
func (e *Binary) Heap() *mem.Heap { return e.buf.heap }

func (e *Binary) GetContent() []byte { return e.buf.bytes() }

func (e *Binary) Length() int { return e.buf.cursor }

// Limit reports -1: a binary encoding is unbounded (null_encoding_limit's
// complement — io_binary_encoding_nolimit).
func (e *Binary) Limit() int { return -1 }

func (e *Binary) Reset() { e.buf.reset() }

func (e *Binary) Fill(b byte, count int) int { return e.buf.fill(b, count) }

func (e *Binary) Grow(increment uint32) bool { return e.buf.grow(increment) }

func (e *Binary) GrowIncrement() uint32 { return e.buf.growIncrement() }

func (e *Binary) AppendByte(b byte) bool { return e.buf.appendByte(b) }

func (e *Binary) AppendBytes(bytes []byte) bool { return e.buf.appendBytes(bytes) }

func (e *Binary) PopLastByte() (byte, bool) { return e.buf.popLastByte() }

// DecodeToValue hands the encoding's bytes to decoder d
// (io_value_encoding_decode_to_io_value's default: every encoding flavor
// shares this unless it overrides decode_to_io_value, which binary/text
// do not).
func (e *Binary) DecodeToValue(d Decoder, vm *value.Memory) (value.Ref, bool) {
	if d == nil {
		return value.Nil, false
	}
	return d(e, vm)
}

func (e *Binary) Reference() Encoding {
	e.reference()
	return e
}

func (e *Binary) Unreference() {
	if e.unreference() {
		e.Free()
	}
}
