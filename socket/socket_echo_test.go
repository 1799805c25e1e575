package socket

import (
	"testing"

	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/event"
	"github.com/abstractsig/io-core/ioaddr"
	"github.com/abstractsig/io-core/layer"
	"github.com/abstractsig/io-core/mem"
)

// TestAdapterSocketsEchoOverSharedMedia builds two multiplexer sockets
// bound to a shared-media bus and verifies a message sent by one is
// delivered to the other's binding on the bus, grounded on
// test_io_adapter_socket_2 in the original's socket test suite: the rx
// handler there reads io_socket_get_receive_pipe(this, io_socket_address(this)),
// which for a bus binding resolves to the same lookup
// media.GetReceivePipe(addr) performs here.
func TestAdapterSocketsEchoOverSharedMedia(t *testing.T) {
	heap := mem.NewHeap(256*1024, 16, nil)
	r := event.NewRuntime(func() event.Time { return 0 }, nil)

	media := NewSharedMedia(r, 4, 4)

	addrA := ioaddr.U8(11)
	addrB := ioaddr.U8(22)

	a := NewMultiplexerSocket(r, addrA, 4, 4, nil)
	b := NewMultiplexerSocket(r, addrB, 4, 4, nil)

	if !a.BindToOuterSocket(media) {
		t.Fatal("A failed to bind to shared media")
	}
	if !b.BindToOuterSocket(media) {
		t.Fatal("B failed to bind to shared media")
	}

	var received []byte
	rxEvent := event.NewEvent(func(*event.Event) {
		rxPipe := media.GetReceivePipe(addrB)
		if rxPipe == nil {
			return
		}
		e, ok := rxPipe.PeekEncoding()
		if !ok {
			return
		}
		received = append([]byte{}, fromPipeEncoding(e).GetContent()...)
	}, nil)
	// Rebind B's media-side port with our own rx event so the test can
	// observe delivery (BindToOuterSocket already armed B's own
	// transmitEvent/receiveEvent; a real B would chain those into this
	// same pipe read instead).
	media.BindInner(addrB, nil, rxEvent)

	msg := encoding.NewPacket(heap)
	l := layer.Make(layer.DLC, msg)
	layer.SetLocalAddress(l, msg, addrA)
	msg.AppendBytes([]byte("gook"))

	if !a.SendMessage(msg) {
		t.Fatal("SendMessage failed")
	}
	r.RunToQuiescence()

	if string(received) != "gook" {
		t.Fatalf("B received %q, want %q", received, "gook")
	}
}

// TestSharedMediaExcludesSender verifies the sender's own binding never
// receives its own broadcast back.
func TestSharedMediaExcludesSender(t *testing.T) {
	heap := mem.NewHeap(256*1024, 16, nil)
	r := event.NewRuntime(func() event.Time { return 0 }, nil)
	media := NewSharedMedia(r, 4, 4)

	addrA := ioaddr.U8(1)
	a := NewMultiplexerSocket(r, addrA, 4, 4, nil)
	a.BindToOuterSocket(media)

	selfRxFired := false
	media.BindInner(addrA, nil, event.NewEvent(func(*event.Event) { selfRxFired = true }, nil))

	msg := encoding.NewPacket(heap)
	l := layer.Make(layer.DLC, msg)
	layer.SetLocalAddress(l, msg, addrA)
	msg.AppendBytes([]byte("x"))

	a.SendMessage(msg)
	r.RunToQuiescence()

	if selfRxFired {
		t.Fatal("sender's own binding received its own broadcast")
	}
}

// TestMultiplexSocketFindsBoundAddress exercises bind/get-receive-pipe
// lookup directly against the multiplex layer, independent of the
// shared-media fan-out path (io_multiplex_socket_find_inner_port).
func TestMultiplexSocketFindsBoundAddress(t *testing.T) {
	r := event.NewRuntime(func() event.Time { return 0 }, nil)
	media := NewSharedMedia(r, 2, 2)

	if media.GetReceivePipe(ioaddr.U8(5)) != nil {
		t.Fatal("expected no receive pipe before binding")
	}
	media.BindInner(ioaddr.U8(5), nil, nil)
	if media.GetReceivePipe(ioaddr.U8(5)) == nil {
		t.Fatal("expected a receive pipe after binding")
	}
}
