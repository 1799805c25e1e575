// Package layer implements protocol layer metadata for packet encodings
// (spec §4.H), grounded on io_layers.h's io_layer_implementation_t /
// io_layer_t pair. The original's per-protocol vtable of
// make/swap/decode/match_address/address-accessor function pointers
// becomes a single closed Go interface (spec §9 REDESIGN FLAGS): the set
// of protocol families a board supports is fixed at compile time, so a
// switch-free interface dispatch replaces the vtable without losing
// anything the original's indirection bought it.
package layer

import (
	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/ioaddr"
)

// FamilyID identifies a registered protocol family by a short
// human-readable tag (io_layer_map_t's io_address_t id — "DLC", "X70",
// "MTU", "P01" in the original's central registry).
type FamilyID string

const (
	NullFamily FamilyID = "000"
	DLCFamily  FamilyID = "DLC"
	X70Family  FamilyID = "X70"
	MTUFamily  FamilyID = "MTU"
)

// Implementation is the per-protocol-family behaviour a Layer delegates
// to (IO_LAYER_IMPLEMENTATION_STRUCT_PROPERTIES).
type Implementation interface {
	Family() FamilyID
	// Make builds a fresh layer over packet, writing any header bytes the
	// family needs; the package-level Make records the layer's offset.
	Make(packet *encoding.Packet) *Layer
	// Swap is called when a layer's packet has been reframed (e.g. a
	// retransmit into a new buffer) and needs its implementation-specific
	// state refreshed against the new encoding; a family that carries no
	// such state returns l itself.
	Swap(l *Layer, e encoding.Encoding) *Layer
	// Decode extracts the address this layer's header says the message is
	// destined for, so a multiplex socket can demultiplex to an inner
	// binding without layer needing to know anything about sockets or
	// bindings (io_layer_decode, narrowed to its address-lookup role: the
	// original returns an io_port_t* directly, which would need layer to
	// import the socket package and create a cycle).
	Decode(l *Layer, e encoding.Encoding) (ioaddr.Address, bool)
	// MatchAddress reports whether a matches this layer's notion of "my
	// address" (broadcast/any addresses always match).
	MatchAddress(l *Layer, a ioaddr.Address) bool
	AnyAddress() ioaddr.Address
	RemoteAddress(l *Layer, e encoding.Encoding) ioaddr.Address
	SetRemoteAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool
	LocalAddress(l *Layer, e encoding.Encoding) ioaddr.Address
	SetLocalAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool
	InnerAddress(l *Layer, e encoding.Encoding) ioaddr.Address
	SetInnerAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool
}

// Layer is one entry in a packet encoding's layer stack
// (IO_LAYER_STRUCT_PROPERTIES): its implementation plus the byte offset
// at which its header begins. It satisfies encoding.Layer so a
// *encoding.Packet can hold a stack of these without either package
// importing the other's concrete types.
type Layer struct {
	Implementation Implementation
	offset         int
}

func (l *Layer) Offset() int      { return l.offset }
func (l *Layer) SetOffset(o int)  { l.offset = o }

// ByteStream returns the layer's header bytes onward within e's content
// (io_layer_get_byte_stream).
func (l *Layer) ByteStream(e encoding.Encoding) []byte {
	content := e.GetContent()
	if l.offset >= len(content) {
		return nil
	}
	return content[l.offset:]
}

// HasImplementation reports whether l is (directly, not via
// specialisation) an instance of impl.
func (l *Layer) HasImplementation(impl Implementation) bool {
	return l.Implementation != nil && l.Implementation.Family() == impl.Family()
}

// Make builds a layer of impl's family over packet and pushes it onto
// the packet's layer stack (make_io_layer + io_packet_encoding_push_layer).
func Make(impl Implementation, packet *encoding.Packet) *Layer {
	return packet.PushLayer(func(offset int) encoding.Layer {
		l := impl.Make(packet)
		l.offset = offset
		return l
	}).(*Layer)
}

func Swap(l *Layer, e encoding.Encoding) *Layer {
	if l.Implementation == nil {
		return l
	}
	return l.Implementation.Swap(l, e)
}

func MatchAddress(l *Layer, a ioaddr.Address) bool {
	return l.Implementation != nil && l.Implementation.MatchAddress(l, a)
}

func AnyAddress(l *Layer) ioaddr.Address {
	if l.Implementation == nil {
		return ioaddr.Invalid()
	}
	return l.Implementation.AnyAddress()
}

func RemoteAddress(l *Layer, e encoding.Encoding) ioaddr.Address {
	if l.Implementation == nil {
		return ioaddr.Invalid()
	}
	return l.Implementation.RemoteAddress(l, e)
}

func LocalAddress(l *Layer, e encoding.Encoding) ioaddr.Address {
	if l.Implementation == nil {
		return ioaddr.Invalid()
	}
	return l.Implementation.LocalAddress(l, e)
}

func InnerAddress(l *Layer, e encoding.Encoding) ioaddr.Address {
	if l.Implementation == nil {
		return ioaddr.Invalid()
	}
	return l.Implementation.InnerAddress(l, e)
}

func SetRemoteAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool {
	return l.Implementation != nil && l.Implementation.SetRemoteAddress(l, e, a)
}

func SetLocalAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool {
	return l.Implementation != nil && l.Implementation.SetLocalAddress(l, e, a)
}

func SetInnerAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool {
	return l.Implementation != nil && l.Implementation.SetInnerAddress(l, e, a)
}
