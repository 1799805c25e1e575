package encoding

import "testing"

type fakeLayer struct{ offset int }

func (l *fakeLayer) Offset() int     { return l.offset }
func (l *fakeLayer) SetOffset(o int) { l.offset = o }

func TestPushLayerRecordsCurrentLength(t *testing.T) {
	p := NewPacket(newTestHeap(t))
	p.AppendBytes([]byte("xx"))

	l := p.PushLayer(func(offset int) Layer { return &fakeLayer{offset: offset} })
	if l.Offset() != 2 {
		t.Fatalf("pushed layer offset = %d, want 2", l.Offset())
	}

	p.AppendBytes([]byte("yyy"))
	l2 := p.PushLayer(func(offset int) Layer { return &fakeLayer{offset: offset} })
	if l2.Offset() != 5 {
		t.Fatalf("second pushed layer offset = %d, want 5", l2.Offset())
	}
}

func TestGetLayerFromOutermost(t *testing.T) {
	p := NewPacket(newTestHeap(t))
	outer := p.PushLayer(func(o int) Layer { return &fakeLayer{offset: o} })
	inner := p.PushLayer(func(o int) Layer { return &fakeLayer{offset: o} })

	if p.GetLayer(0) != outer {
		t.Fatal("GetLayer(0) should return the outermost (first-pushed) layer")
	}
	if p.GetLayer(1) != inner {
		t.Fatal("GetLayer(1) should return the next layer in")
	}
	if p.GetLayer(2) != nil {
		t.Fatal("GetLayer() past the stack depth should return nil")
	}
	if p.GetLayer(-1) != outer {
		t.Fatal("GetLayer(-1) should behave like GetLayer(0)")
	}
}

func TestGetLayerOnEmptyStack(t *testing.T) {
	p := NewPacket(newTestHeap(t))
	if p.GetLayer(0) != nil {
		t.Fatal("GetLayer(0) on an empty stack should return nil")
	}
}

func TestGetOuterAndInnerLayer(t *testing.T) {
	p := NewPacket(newTestHeap(t))
	first := p.PushLayer(func(o int) Layer { return &fakeLayer{offset: o} })
	second := p.PushLayer(func(o int) Layer { return &fakeLayer{offset: o} })

	if p.GetOuterLayer(nil) != first {
		t.Fatal("GetOuterLayer(nil) should return the outermost (first-pushed) layer")
	}
	if p.GetOuterLayer(second) != first {
		t.Fatal("GetOuterLayer(second) should return the previous (more outer) layer")
	}
	if p.GetOuterLayer(first) != nil {
		t.Fatal("GetOuterLayer() on the first-pushed (outermost) layer should return nil")
	}

	if p.GetInnerLayer(nil) != second {
		t.Fatal("GetInnerLayer(nil) should return the innermost (last-pushed) layer")
	}
	if p.GetInnerLayer(first) != second {
		t.Fatal("GetInnerLayer(first) should return the next (more inner) layer")
	}
	if p.GetInnerLayer(second) != nil {
		t.Fatal("GetInnerLayer() on the last-pushed (innermost) layer should return nil")
	}
}

func TestPushExistingLayerAppendsWithoutRecomputingOffset(t *testing.T) {
	p := NewPacket(newTestHeap(t))
	l := &fakeLayer{offset: 42}
	p.PushExistingLayer(l)

	if len(p.Layers()) != 1 || p.Layers()[0] != l {
		t.Fatal("PushExistingLayer() did not append the given layer")
	}
	if p.GetLayer(0).Offset() != 42 {
		t.Fatalf("pushed layer offset = %d, want 42 (unchanged)", p.GetLayer(0).Offset())
	}
}

func TestPacketReferenceCounting(t *testing.T) {
	p := NewPacket(newTestHeap(t))
	p.Reference()
	if p.RefCount() != 2 {
		t.Fatalf("RefCount() = %d, want 2", p.RefCount())
	}
	p.Unreference()
	if p.RefCount() != 1 {
		t.Fatalf("RefCount() = %d, want 1", p.RefCount())
	}
}
