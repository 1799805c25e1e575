package layer

import (
	"testing"

	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/ioaddr"
	"github.com/abstractsig/io-core/mem"
)

func newTestPacket(t *testing.T) *encoding.Packet {
	t.Helper()
	h := mem.NewHeap(64*1024, 16, nil)
	return encoding.NewPacket(h)
}

func TestMakeRecordsOffsetBeforeHeader(t *testing.T) {
	p := newTestPacket(t)
	p.AppendBytes([]byte("xx")) // simulate an outer layer already present
	l := Make(DLC, p)
	if l.Offset() != 2 {
		t.Fatalf("Offset() = %d, want 2", l.Offset())
	}
	if p.Length() != 2+dlcHeaderSize {
		t.Fatalf("packet length = %d, want %d", p.Length(), 2+dlcHeaderSize)
	}
}

func TestDLCSetAndGetLocalRemoteAddress(t *testing.T) {
	p := newTestPacket(t)
	l := Make(DLC, p)

	if !DLC.SetRemoteAddress(l, p, ioaddr.U8(7)) {
		t.Fatal("SetRemoteAddress failed")
	}
	if !DLC.SetLocalAddress(l, p, ioaddr.U8(9)) {
		t.Fatal("SetLocalAddress failed")
	}
	if got := DLC.RemoteAddress(l, p); !ioaddr.Equal(got, ioaddr.U8(7)) {
		t.Fatalf("RemoteAddress = %v, want 7", got)
	}
	if got := DLC.LocalAddress(l, p); !ioaddr.Equal(got, ioaddr.U8(9)) {
		t.Fatalf("LocalAddress = %v, want 9", got)
	}
}

func TestDLCDecodeReturnsLocalAddress(t *testing.T) {
	p := newTestPacket(t)
	l := Make(DLC, p)
	DLC.SetLocalAddress(l, p, ioaddr.U8(3))

	addr, ok := DLC.Decode(l, p)
	if !ok {
		t.Fatal("Decode reported failure")
	}
	if !ioaddr.Equal(addr, ioaddr.U8(3)) {
		t.Fatalf("Decode address = %v, want 3", addr)
	}
}

func TestVirtualLayerMatchesOnlyInvalidAddress(t *testing.T) {
	p := newTestPacket(t)
	l := Make(Virtual, p)
	if !Virtual.MatchAddress(l, ioaddr.Invalid()) {
		t.Fatal("virtual layer should match the invalid address")
	}
	if Virtual.MatchAddress(l, ioaddr.U8(1)) {
		t.Fatal("virtual layer should not match a concrete address")
	}
}

func TestLayerSwapPreservesOffset(t *testing.T) {
	p := newTestPacket(t)
	l := Make(DLC, p)
	l.SetOffset(5)
	swapped := Swap(l, p)
	if swapped.Offset() != 5 {
		t.Fatalf("swapped offset = %d, want 5", swapped.Offset())
	}
}
