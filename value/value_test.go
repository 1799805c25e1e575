package value

import "testing"

import "github.com/abstractsig/io-core/mem"

const kindTestCounter uint16 = 1

type counterImpl struct{ fail bool }

func (c counterImpl) Initialise(data []byte, base Ref) bool {
	if c.fail {
		return false
	}
	if len(data) >= 1 {
		data[0] = 0x42
	}
	return true
}

func newTestMemory(t *testing.T, id uint8) *Memory {
	t.Helper()
	h := mem.NewHeap(64*1024, 16, nil)
	return NewMemory(id, h, nil)
}

func TestNilIsInvalid(t *testing.T) {
	if Nil.IsValid() {
		t.Fatal("Nil should not be valid")
	}
	if !Nil.IsNil() {
		t.Fatal("Nil.IsNil() should be true")
	}
}

func TestEqualOnInvalidRefs(t *testing.T) {
	if !Equal(Nil, Ref{}) {
		t.Fatal("two invalid refs should be equal")
	}
}

func TestConstantFlavorReferenceIsNoopAndReadOnly(t *testing.T) {
	backing := []byte("hello")
	c := Constant(backing)
	if got := Reference(c); !Equal(got, c) {
		t.Fatal("Reference on constant should return same ref")
	}
	Unreference(c) // must not panic
	if c.RWPointer() != nil {
		t.Fatal("constant RWPointer should be nil")
	}
	if string(c.ROPointer()) != "hello" {
		t.Fatalf("got %q", c.ROPointer())
	}
}

func TestDataSectionAndStackAllowRWPointer(t *testing.T) {
	backing := []byte{1, 2, 3}
	d := DataSection(backing)
	if d.RWPointer() == nil {
		t.Fatal("data-section RWPointer should be non-nil")
	}
	s := Stack(backing)
	if s.RWPointer() == nil {
		t.Fatal("stack RWPointer should be non-nil")
	}
}

func TestAllocateValueRoundtrip(t *testing.T) {
	m := newTestMemory(t, 1)
	RegisterImplementation(kindTestCounter, counterImpl{})

	r, ok := m.AllocateValue(kindTestCounter, 8)
	if !ok || !r.IsValid() {
		t.Fatal("allocate failed")
	}
	kind, length, ok := ValueKind(r)
	if !ok || kind != kindTestCounter || length != 8 {
		t.Fatalf("got kind=%d length=%d ok=%v", kind, length, ok)
	}
	if rc, ok := RefCount(r); !ok || rc != 1 {
		t.Fatalf("expected initial refcount 1, got %d", rc)
	}
}

func TestNewValueRunsInitialiseAndRollsBackOnFailure(t *testing.T) {
	m := newTestMemory(t, 2)
	RegisterImplementation(kindTestCounter, counterImpl{})

	r, ok := m.NewValue(kindTestCounter, 4, Nil)
	if !ok {
		t.Fatal("NewValue failed")
	}
	if r.ROPointer()[0] != 0x42 {
		t.Fatalf("Initialise did not run: %v", r.ROPointer())
	}

	RegisterImplementation(kindTestCounter, counterImpl{fail: true})
	before := m.Info()
	_, ok = m.NewValue(kindTestCounter, 4, Nil)
	if ok {
		t.Fatal("expected NewValue to fail when Initialise fails")
	}
	after := m.Info()
	if after.UsedBytes != before.UsedBytes {
		t.Fatalf("failed NewValue should free its allocation: before=%d after=%d", before.UsedBytes, after.UsedBytes)
	}
	RegisterImplementation(kindTestCounter, counterImpl{})
}

func TestReferenceAndUnreferenceAdjustHeapRefcount(t *testing.T) {
	m := newTestMemory(t, 3)
	r, _ := m.AllocateValue(kindTestCounter, 4)

	Reference(r)
	if rc, _ := RefCount(r); rc != 2 {
		t.Fatalf("expected refcount 2 after Reference, got %d", rc)
	}
	Unreference(r)
	Unreference(r)
	if rc, _ := RefCount(r); rc != 0 {
		t.Fatalf("expected refcount 0 after two Unreference calls, got %d", rc)
	}
}

func TestStoreReferencesBeforeUnreferencing(t *testing.T) {
	m := newTestMemory(t, 4)
	r, _ := m.AllocateValue(kindTestCounter, 4)

	var slot Ref
	Store(&slot, r)
	if rc, _ := RefCount(r); rc != 2 {
		t.Fatalf("expected refcount 2 after Store, got %d", rc)
	}

	// Self-assignment must not transiently drop the only reference.
	Store(&slot, slot)
	if rc, _ := RefCount(r); rc != 2 {
		t.Fatalf("self-store should leave refcount unchanged, got %d", rc)
	}
}

func TestDoGCFreesZeroRefcountValues(t *testing.T) {
	m := newTestMemory(t, 5)
	var refs []Ref
	for i := 0; i < 10; i++ {
		r, ok := m.AllocateValue(kindTestCounter, 8)
		if !ok {
			t.Fatal("allocate failed")
		}
		refs = append(refs, r)
	}
	for _, r := range refs {
		Unreference(r)
	}

	before := m.Info()
	for i := 0; i < 100; i++ {
		m.DoGC(4)
	}
	after := m.Info()
	if after.UsedBytes >= before.UsedBytes {
		t.Fatalf("expected GC to reclaim space: before=%d after=%d", before.UsedBytes, after.UsedBytes)
	}
}

func TestContainingMemoryAndAsBuiltinInteger(t *testing.T) {
	m := newTestMemory(t, 6)
	r, _ := m.AllocateValue(kindTestCounter, 4)
	if r.ContainingMemory() != m {
		t.Fatal("ContainingMemory mismatch")
	}
	if Constant([]byte("x")).ContainingMemory() != nil {
		t.Fatal("constant refs have no containing memory")
	}
	if r.AsBuiltinInteger() == 0 {
		t.Fatal("heap ref should have non-zero builtin integer form")
	}
}
