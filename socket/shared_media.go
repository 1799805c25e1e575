package socket

import (
	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/event"
	"github.com/abstractsig/io-core/ioaddr"
	"github.com/abstractsig/io-core/layer"
)

// SharedMedia emulates a broadcast communication medium: sending a
// message fans it out to every *other* bound inner socket whose address
// matches the message's outermost layer's address predicate
// (io_shared_media_t / io_shared_media_send_message).
type SharedMedia struct {
	MultiplexSocket
}

// NewSharedMedia builds an unaddressed shared-media socket
// (mk_io_test_media / io_shared_media_initialise).
func NewSharedMedia(r *event.Runtime, txLength, rxLength uint16) *SharedMedia {
	return &SharedMedia{MultiplexSocket: newMultiplexSocket(r, ioaddr.Invalid(), txLength, rxLength)}
}

func (s *SharedMedia) Free() { s.freeMemory() }

// Open always fails — shared media has no connection of its own to
// establish (io_shared_media_open).
func (s *SharedMedia) Open(OpenMode) bool { return false }

func (s *SharedMedia) Close() {}

// BindToOuterSocket always fails — shared media sits at the bottom of a
// socket stack (io_shared_media_bind_to_outer_socket).
func (s *SharedMedia) BindToOuterSocket(Socket) bool { return false }

// NewMessage returns nil — shared media never originates messages, only
// relays them (io_shared_media_new_message).
func (s *SharedMedia) NewMessage() encoding.Encoding { return nil }

// makeReceiveCopy duplicates source's outermost layer onto a fresh
// packet built from the same heap, copies the byte content across, and
// sets the copy's local address to the source's remote address — the
// recipients' "who sent this" field (make_reveive_copy).
func makeReceiveCopy(source *encoding.Packet) (*encoding.Packet, *layer.Layer, bool) {
	outer, ok := source.GetLayer(0).(*layer.Layer)
	if !ok || outer == nil {
		return nil, nil, false
	}
	cp := encoding.NewPacket(source.Heap())
	rxLayer := layer.Swap(outer, cp)
	if rxLayer == nil {
		return nil, nil, false
	}
	cp.PushExistingLayer(rxLayer)

	cp.Reset()
	cp.AppendBytes(source.GetContent())

	remote := layer.RemoteAddress(outer, source)
	layer.SetLocalAddress(rxLayer, cp, remote)
	return cp, rxLayer, true
}

// SendMessage fans e out to every bound inner socket other than its
// source whose address the outermost layer's predicate matches
// (io_shared_media_send_message).
func (s *SharedMedia) SendMessage(e encoding.Encoding) bool {
	pk, ok := e.(*encoding.Packet)
	if !ok {
		return true
	}
	outer, ok := pk.GetLayer(0).(*layer.Layer)
	if !ok || outer == nil {
		return true
	}
	if len(s.bindings) == 0 {
		return true
	}

	src := layer.LocalAddress(outer, pk)
	copy, _, ok := makeReceiveCopy(pk)
	if !ok {
		return true
	}
	copy.Reference()

	for i := range s.bindings {
		b := &s.bindings[i]
		if ioaddr.Compare(b.address, src) == 0 {
			continue
		}
		if !outer.Implementation.MatchAddress(outer, b.address) {
			continue
		}
		if b.port.RxAvailable != nil {
			b.port.ReceivePipe.PutEncoding(asPipeEncoding(copy))
			if s.runtime != nil {
				s.runtime.Signal(b.port.RxAvailable)
			}
		}
	}

	copy.Unreference()
	return true
}

// MTU reports 0: the minimum MTU across attached sockets is left
// unimplemented in the original too (io_shared_media_mtu).
func (s *SharedMedia) MTU() int { return 0 }
