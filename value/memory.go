package value

import (
	"encoding/binary"

	"github.com/abstractsig/io-core/ioc"
	"github.com/abstractsig/io-core/mem"
)

// headerSize is the fixed prefix every heap-allocated value carries: a
// 2-byte implementation kind, a 2-byte reference count, and a 4-byte
// content length (spec §3: "prefixed by a value-implementation vtable, a
// reference count ... and a byte length"). The original's vtable pointer
// becomes a small registered kind id here, per the same tagged-variant
// REDESIGN as Ref's flavor.
const headerSize = 8

// Implementation describes one value "kind": how to initialise freshly
// allocated storage for it. Kinds are registered once at startup with
// RegisterImplementation and referenced thereafter by their small id, the
// way a C vtable pointer would be, but closed and switchable instead of
// walked.
type Implementation interface {
	// Initialise fills data (the value's content, excluding the header)
	// given the value memory's caller-supplied base reference, returning
	// false to abort the allocation (new_value rolls back on failure).
	Initialise(data []byte, base Ref) bool
}

var implementations = map[uint16]Implementation{}

// RegisterImplementation associates kind with impl. Re-registering the
// same kind replaces the previous implementation.
func RegisterImplementation(kind uint16, impl Implementation) {
	implementations[kind] = impl
}

// memoriesByID backs ContainingMemory/Reference/Unreference lookups: the
// payload's 3-bit memory id in the original build, widened to a byte here
// since Go has no reason to squeeze it into spare pointer bits.
var memoriesByID [256]*Memory

func memoryByID(id uint8) *Memory { return memoriesByID[id] }

// Memory is a heap-backed pool of garbage-collected values (umm_io_value_memory_t).
// Values are reference counted; DoGC incrementally walks the underlying
// byte heap's allocation list, freeing values whose count has reached
// zero. There is no cycle detection (spec §9 Open Questions) — breaking
// reference cycles is the caller's responsibility.
type Memory struct {
	id     uint8
	heap   *mem.Heap
	cursor uint16
	log    *ioc.Logger
}

// NewMemory creates a value memory with the given small identity (used to
// round-trip heap references through AsBuiltinInteger/ContainingMemory)
// backed by heap. id must be unique among memories alive at once.
func NewMemory(id uint8, heap *mem.Heap, log *ioc.Logger) *Memory {
	m := &Memory{id: id, heap: heap, log: log}
	memoriesByID[id] = m
	return m
}

// IsPersistent reports whether values in this memory survive GC
// unconditionally. Heap-backed memory never does (is_persistant).
func (m *Memory) IsPersistent() bool { return false }

// Info reports the underlying heap's usage (get_info).
func (m *Memory) Info() mem.Info { return m.heap.Info() }

func (m *Memory) header(ptr mem.Ptr) []byte { return m.heap.Data(ptr)[:headerSize] }

func (m *Memory) valueData(ptr mem.Ptr) []byte { return m.heap.Data(ptr)[headerSize:] }

func (m *Memory) refcount(ptr mem.Ptr) uint16 {
	return binary.LittleEndian.Uint16(m.header(ptr)[2:4])
}

func (m *Memory) setRefcount(ptr mem.Ptr, v uint16) {
	binary.LittleEndian.PutUint16(m.header(ptr)[2:4], v)
}

func (m *Memory) incrementRefcount(ptr mem.Ptr) {
	m.setRefcount(ptr, m.refcount(ptr)+1)
}

func (m *Memory) decrementRefcount(ptr mem.Ptr) {
	if rc := m.refcount(ptr); rc > 0 {
		m.setRefcount(ptr, rc-1)
	}
}

// AllocateValue reserves size content bytes for a value of the given
// registered kind, with an initial reference count of one
// (allocate_value). The returned Ref's content is zeroed.
func (m *Memory) AllocateValue(kind uint16, size int) (Ref, bool) {
	ptr, ok := m.heap.AllocateAndZero(size + headerSize)
	if !ok {
		return Nil, false
	}
	h := m.header(ptr)
	binary.LittleEndian.PutUint16(h[0:2], kind)
	binary.LittleEndian.PutUint16(h[2:4], 1)
	binary.LittleEndian.PutUint32(h[4:8], uint32(size))
	return Ref{flavor: flavorHeap, memoryID: m.id, block: ptr}, true
}

// NewValue allocates a value of the given kind and size, then runs its
// registered Implementation's Initialise against base, rolling back to
// Nil if either the kind is unregistered or initialisation fails
// (new_value).
func (m *Memory) NewValue(kind uint16, size int, base Ref) (Ref, bool) {
	impl, known := implementations[kind]
	if !known {
		return Nil, false
	}
	r, ok := m.AllocateValue(kind, size)
	if !ok {
		return Nil, false
	}
	if !impl.Initialise(m.valueData(r.block), base) {
		m.heap.Free(r.block)
		return Nil, false
	}
	return r, true
}

// DoGC performs up to count incremental sweep steps, each visiting one
// heap block and freeing it if it holds a value whose reference count has
// reached zero. A single call's work is bounded by count; repeated calls
// eventually cover the whole heap (spec §4.F, §9 "bounded per call").
func (m *Memory) DoGC(count int32) {
	for i := int32(0); i < count; i++ {
		more := m.heap.IncrementalIterate(&m.cursor, func(ptr mem.Ptr, data []byte) bool {
			if binary.LittleEndian.Uint16(data[2:4]) == 0 {
				m.heap.Free(ptr)
			}
			return true
		})
		if !more {
			break
		}
	}
}

// ValueKind returns the registered kind id stored in r's header, and the
// length of its content, for a heap-backed reference.
func ValueKind(r Ref) (kind uint16, length uint32, ok bool) {
	if r.flavor != flavorHeap {
		return 0, 0, false
	}
	m := memoryByID(r.memoryID)
	if m == nil {
		return 0, 0, false
	}
	h := m.header(r.block)
	return binary.LittleEndian.Uint16(h[0:2]), binary.LittleEndian.Uint32(h[4:8]), true
}

// RefCount returns a heap-backed value's current reference count, mostly
// useful for tests asserting GC reachability.
func RefCount(r Ref) (uint16, bool) {
	if r.flavor != flavorHeap {
		return 0, false
	}
	m := memoryByID(r.memoryID)
	if m == nil {
		return 0, false
	}
	return m.refcount(r.block), true
}
