// Package value implements the runtime's garbage-collected value memory
// (spec §4.F): an opaque 8-byte reference (vref) dispatching to one of a
// small, closed set of reference flavors, and a heap-backed Memory that
// allocates, initialises, reference-counts and incrementally sweeps
// values. Per spec §9's REDESIGN FLAGS, the original's function-pointer
// vtable-per-flavor is replaced by a closed tag switch rather than a
// runtime vtable walk — the flavor set is fixed at four members and will
// not grow.
package value

import "github.com/abstractsig/io-core/mem"

// Flavor tags how a Ref's payload should be interpreted (spec §4.F).
type Flavor int8

const (
	flavorInvalid Flavor = iota
	flavorHeap
	flavorConstant
	flavorDataSection
	flavorStack
)

// Ref is the runtime's opaque value handle. The zero value is Nil.
type Ref struct {
	flavor   Flavor
	memoryID uint8
	block    mem.Ptr
	bytes    []byte
}

// Nil is the canonical invalid reference (spec §3, INVALID_VREF).
var Nil = Ref{}

// Constant wraps a read-only Go byte slice that outlives the runtime
// (e.g. a literal embedded in code) as a value reference. Reference and
// Unreference are no-ops; RWPointer returns nil (reference_to_constant_value).
func Constant(bytes []byte) Ref {
	return Ref{flavor: flavorConstant, bytes: bytes}
}

// DataSection wraps a mutable byte slice living in a fixed data segment:
// unlike Constant, its RW pointer is available (reference_to_data_section_value).
func DataSection(bytes []byte) Ref {
	return Ref{flavor: flavorDataSection, bytes: bytes}
}

// Stack wraps a byte slice backing a stack-declared literal value; it
// behaves exactly like DataSection (spec §4.F).
func Stack(bytes []byte) Ref {
	return Ref{flavor: flavorStack, bytes: bytes}
}

// IsValid reports whether r has a dispatchable flavor.
func (r Ref) IsValid() bool { return r.flavor != flavorInvalid }

// IsNil reports whether r is the invalid reference (vref_is_nil).
func (r Ref) IsNil() bool { return !r.IsValid() }

// Equal is structural equality on both the flavor and the payload
// (vref_is_equal_to): two invalid references are always equal; heap
// references compare by (memory id, block); the remaining flavors compare
// by identity of the underlying backing array.
func Equal(a, b Ref) bool {
	if a.flavor != b.flavor {
		return false
	}
	switch a.flavor {
	case flavorInvalid:
		return true
	case flavorHeap:
		return a.memoryID == b.memoryID && a.block == b.block
	default:
		if len(a.bytes) == 0 || len(b.bytes) == 0 {
			return len(a.bytes) == len(b.bytes)
		}
		return &a.bytes[0] == &b.bytes[0]
	}
}

// NotEqual is the complement of Equal (vref_not_equal_to).
func NotEqual(a, b Ref) bool { return !Equal(a, b) }

// Reference increments a heap-backed value's refcount and returns r
// unchanged; it is a no-op for the other flavors (reference_value).
func Reference(r Ref) Ref {
	if r.flavor == flavorHeap {
		if m := memoryByID(r.memoryID); m != nil {
			m.incrementRefcount(r.block)
		}
	}
	return r
}

// Unreference decrements a heap-backed value's refcount (a value at zero
// becomes collectable by the next sweep); it is a no-op for the other
// flavors (unreference_value). It returns r for chaining, matching the
// teacher idiom of functions that return what they were handed.
func Unreference(r Ref) Ref {
	if r.flavor == flavorHeap {
		if m := memoryByID(r.memoryID); m != nil {
			m.decrementRefcount(r.block)
		}
	}
	return r
}

// Store assigns newValue into *slot, referencing the new value before
// unreferencing the old one so that self-assignment (newValue aliasing
// *slot) does not transiently drop the only reference (store_vref).
func Store(slot *Ref, newValue Ref) {
	newValue = Reference(newValue)
	old := *slot
	*slot = newValue
	Unreference(old)
}

// ROPointer returns a read-only view of r's bytes (vref_cast_to_ro_pointer).
func (r Ref) ROPointer() []byte {
	switch r.flavor {
	case flavorHeap:
		if m := memoryByID(r.memoryID); m != nil {
			return m.valueData(r.block)
		}
		return nil
	case flavorInvalid:
		return nil
	default:
		return r.bytes
	}
}

// RWPointer returns a writable view of r's bytes, or nil if the flavor
// forbids mutation (vref_cast_to_rw_pointer — constants return nil).
func (r Ref) RWPointer() []byte {
	switch r.flavor {
	case flavorHeap:
		if m := memoryByID(r.memoryID); m != nil {
			return m.valueData(r.block)
		}
		return nil
	case flavorConstant, flavorInvalid:
		return nil
	default:
		return r.bytes
	}
}

// AsBuiltinInteger exposes r's payload as an integer (get_as_builtin_integer):
// for heap references this packs (memory id, block) the way the 32-bit
// build packs a compacted pointer; other flavors have no integer form.
func (r Ref) AsBuiltinInteger() int64 {
	if r.flavor == flavorHeap {
		return int64(r.memoryID)<<32 | int64(r.block)
	}
	return 0
}

// ContainingMemory returns the Memory that owns r, or nil for non-heap
// flavors (vref_get_containing_memory).
func (r Ref) ContainingMemory() *Memory {
	if r.flavor != flavorHeap {
		return nil
	}
	return memoryByID(r.memoryID)
}
