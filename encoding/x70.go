package encoding

import (
	"github.com/abstractsig/io-core/mem"
	"github.com/abstractsig/io-core/value"
)

// x70UintMarker tags a raw uint value on the wire (X70_UINT_VALUE_BYTE).
const x70UintMarker = 'U'

// AppendUintValue appends a marker byte followed by u encoded as a
// 7-bit-per-byte, MSB-continues uvarint (io_x70_encoding_append_uint_value).
func AppendUintValue(e Encoding, u uint32) bool {
	if !e.AppendByte(x70UintMarker) {
		return false
	}
	for {
		b := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		if !e.AppendByte(b) {
			return false
		}
		if u == 0 {
			break
		}
	}
	return true
}

// TakeUintValue decodes a value written by AppendUintValue from the front
// of bytes, returning the value and the number of bytes consumed
// (io_x70_encoding_take_uint_value). Returns consumed=-1 on malformed
// input, mirroring the original's int32_t error return.
func TakeUintValue(bytes []byte) (uint32, int) {
	if len(bytes) == 0 || bytes[0] != x70UintMarker {
		return 0, -1
	}
	var u uint32
	shift := uint(0)
	n := 1
	for {
		if n >= len(bytes) {
			return 0, -1
		}
		b := bytes[n]
		n++
		u |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return u, n
}

// X70Implementation decodes the body of a named x70 TLV entry into a
// value (I.decode[X70] in the original).
type X70Implementation interface {
	Name() string
	DecodeBody(body []byte, vm *value.Memory) (value.Ref, int, bool)
	EncodeBody(e Encoding, v value.Ref) bool
}

// x70Implementations is a compile-time-registered dispatch table keyed by
// a small integer id, per spec §9's REDESIGN FLAGS note preferring this
// over the original's global string-hash map; the wire format still
// carries the implementation's name, so a name→id index resolves
// incoming TLV entries to their handler.
var (
	x70Implementations = map[uint16]X70Implementation{}
	x70NamesToIDs      = map[string]uint16{}
)

// RegisterX70Implementation associates a small id with impl, indexing it
// by name as well so decoding wire bytes (which only carry the name) can
// find the right handler.
func RegisterX70Implementation(id uint16, impl X70Implementation) {
	x70Implementations[id] = impl
	x70NamesToIDs[impl.Name()] = id
}

// X70 is the TLV wire encoding: each entry is 'U' + uvarint(name length)
// + name bytes + implementation-defined body (spec §4.G).
type X70 struct{ Binary }

// NewX70 allocates a fresh x70 encoding.
func NewX70(heap *mem.Heap) *X70 {
	return &X70{Binary: Binary{base: base{refCount: 1}, buf: newGrowBuffer(heap, 64)}}
}

// AppendValue writes v's TLV entry: its implementation's registered name
// followed by its encoded body.
func (e *X70) AppendValue(id uint16, v value.Ref) bool {
	impl, ok := x70Implementations[id]
	if !ok {
		return false
	}
	name := impl.Name()
	if !e.AppendByte(x70UintMarker) {
		return false
	}
	nameLen := uint32(len(name))
	for {
		b := byte(nameLen & 0x7f)
		nameLen >>= 7
		if nameLen != 0 {
			b |= 0x80
		}
		if !e.AppendByte(b) {
			return false
		}
		if nameLen == 0 {
			break
		}
	}
	if !e.AppendBytes([]byte(name)) {
		return false
	}
	return impl.EncodeBody(e, v)
}

// Decode reads one TLV entry from the front of content, dispatching
// on its embedded name to a registered X70Implementation (io_x70_decoder).
func Decode(content []byte, vm *value.Memory) (value.Ref, int, bool) {
	if len(content) == 0 || content[0] != x70UintMarker {
		return value.Nil, -1, false
	}
	nameLen, n := takeUvarint(content[1:])
	if n < 0 {
		return value.Nil, -1, false
	}
	n++ // account for the marker byte
	if n+int(nameLen) > len(content) {
		return value.Nil, -1, false
	}
	name := string(content[n : n+int(nameLen)])
	n += int(nameLen)

	id, known := x70NamesToIDs[name]
	if !known {
		return value.Nil, -1, false
	}
	impl := x70Implementations[id]
	v, bodyLen, ok := impl.DecodeBody(content[n:], vm)
	if !ok {
		return value.Nil, -1, false
	}
	return v, n + bodyLen, true
}

func takeUvarint(bytes []byte) (uint32, int) {
	var u uint32
	shift := uint(0)
	n := 0
	for {
		if n >= len(bytes) {
			return 0, -1
		}
		b := bytes[n]
		n++
		u |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return u, n
}
