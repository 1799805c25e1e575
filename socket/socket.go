// Package socket implements the runtime's layered socket abstraction
// (spec §4.I): a base contract every socket flavor satisfies, plus
// multiplex/multiplexer/leaf/shared-media specializations, grounded on
// io_layers.h. The original's io_socket_implementation_t vtable plus
// "specialisation_of" chain becomes plain interface satisfaction and
// struct embedding (spec §9 REDESIGN FLAGS).
package socket

import (
	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/event"
	"github.com/abstractsig/io-core/ioaddr"
	"github.com/abstractsig/io-core/pipe"
)

// OpenMode distinguishes why a socket is being opened (IO_SOCKET_OPEN_CONNECT
// in the original; CONNECT is the only mode the core exercises).
type OpenMode int

const (
	OpenConnect OpenMode = iota
)

// Socket is the contract every socket flavor satisfies
// (IO_SOCKET_IMPLEMENTATION_STRUCT_MEMBERS, minus iterate_inner_sockets/
// iterate_outer_sockets — optional in the original and unused by any
// flavor this runtime implements).
type Socket interface {
	Address() ioaddr.Address
	Reference()
	Free()
	Open(OpenMode) bool
	Close()
	IsClosed() bool
	BindToOuterSocket(outer Socket) bool
	BindInner(addr ioaddr.Address, tx, rx *event.Event) bool
	NewMessage() encoding.Encoding
	SendMessage(encoding.Encoding) bool
	GetReceivePipe(addr ioaddr.Address) *pipe.EncodingPipe
	MTU() int
}

// pipeEncoding adapts an encoding.Encoding (Reference() encoding.Encoding)
// to pipe.Encoding (Reference() pipe.Encoding): the two interfaces are
// structurally identical but distinct named types, so a value satisfying
// one does not automatically satisfy the other — this is the thin
// bridge between the encoding and pipe packages' independently-declared
// reference-counting contracts.
type pipeEncoding struct{ e encoding.Encoding }

func (p pipeEncoding) Reference() pipe.Encoding { return pipeEncoding{p.e.Reference()} }
func (p pipeEncoding) Unreference()              { p.e.Unreference() }

func asPipeEncoding(e encoding.Encoding) pipe.Encoding { return pipeEncoding{e} }

func fromPipeEncoding(e pipe.Encoding) encoding.Encoding {
	if e == nil {
		return nil
	}
	return e.(pipeEncoding).e
}

// ContentOf recovers the bytes of an encoding handed back by a receive
// pipe (pipe.EncodingPipe.PeekEncoding/PopEncoding), letting callers
// outside this package read delivered messages without depending on
// the pipeEncoding bridge type itself.
func ContentOf(e pipe.Encoding) []byte {
	enc := fromPipeEncoding(e)
	if enc == nil {
		return nil
	}
	return enc.GetContent()
}

// base carries the state every socket flavor shares
// (IO_SOCKET_STRUCT_MEMBERS): its bound address, owning runtime and
// reference count.
type base struct {
	runtime  *event.Runtime
	address  ioaddr.Address
	refCount int
	closed   bool
}

func newBase(r *event.Runtime, addr ioaddr.Address) base {
	return base{runtime: r, address: addr}
}

func (b *base) Address() ioaddr.Address { return b.address }

// Reference increments the socket's reference count
// (io_socket_increment_reference).
func (b *base) Reference() { b.refCount++ }

func (b *base) IsClosed() bool { return b.closed }
