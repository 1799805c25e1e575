package encoding

import (
	"encoding/binary"
	"math"

	"github.com/abstractsig/io-core/mem"
)

// Int64 is a fixed 8-byte binary encoding carrying a single little-endian
// int64 (spec §4.G "int64 value-bearing encoding").
type Int64 struct{ Binary }

// NewInt64 allocates an Int64 encoding holding v.
func NewInt64(heap *mem.Heap, v int64) *Int64 {
	e := &Int64{Binary: Binary{base: base{refCount: 1}, buf: newGrowBuffer(heap, 8)}}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	e.AppendBytes(b[:])
	return e
}

// Value decodes the carried int64.
func (e *Int64) Value() int64 {
	content := e.GetContent()
	if len(content) < 8 {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(content[:8]))
}

// Float64 is a fixed 8-byte binary encoding carrying a single IEEE-754
// double (spec §4.G "float64 value-bearing encoding").
type Float64 struct{ Binary }

// NewFloat64 allocates a Float64 encoding holding v.
func NewFloat64(heap *mem.Heap, v float64) *Float64 {
	e := &Float64{Binary: Binary{base: base{refCount: 1}, buf: newGrowBuffer(heap, 8)}}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	e.AppendBytes(b[:])
	return e
}

// Value decodes the carried float64.
func (e *Float64) Value() float64 {
	content := e.GetContent()
	if len(content) < 8 {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(content[:8]))
}
