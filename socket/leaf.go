package socket

import (
	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/event"
	"github.com/abstractsig/io-core/ioaddr"
	"github.com/abstractsig/io-core/pipe"
)

// LeafSocket has a 1:1 relationship with a single outer socket: it binds
// itself as one inner address of that outer socket and otherwise just
// forwards (io_leaf_socket_t).
type LeafSocket struct {
	base
	transmitAvailable    *event.Event
	receiveDataAvailable *event.Event
	outer                Socket
	newMessage           func(*LeafSocket) encoding.Encoding
}

// NewLeafSocket builds an unbound leaf socket at addr
// (io_leaf_socket_initialise).
func NewLeafSocket(r *event.Runtime, addr ioaddr.Address, newMessage func(*LeafSocket) encoding.Encoding) *LeafSocket {
	return &LeafSocket{base: newBase(r, addr), newMessage: newMessage}
}

// SetOuter records the socket a builder has wired as this leaf's outer
// socket, ahead of BindInner being called to actually perform the bind
// (mirrors a socket_builder_t assigning outer_socket directly before any
// bind_inner call reaches it).
func (s *LeafSocket) SetOuter(outer Socket) { s.outer = outer }

func (s *LeafSocket) Free() {
	if s.runtime != nil {
		s.runtime.Cancel(s.transmitAvailable)
		s.runtime.Cancel(s.receiveDataAvailable)
	}
}

// Open opens the bound outer socket (io_leaf_socket_open).
func (s *LeafSocket) Open(mode OpenMode) bool {
	if s.outer == nil {
		return false
	}
	return s.outer.Open(mode)
}

// Close is a no-op in the original pending an unbind-from-outer
// implementation; kept faithful rather than inventing unbind semantics
// the spec never describes for leaf sockets.
func (s *LeafSocket) Close() {}

func (s *LeafSocket) IsClosed() bool { return false }

// BindInner records the events a leaf socket's (single) inner user wants
// notified, then binds itself to its outer socket with them
// (io_leaf_socket_bind).
func (s *LeafSocket) BindInner(addr ioaddr.Address, tx, rx *event.Event) bool {
	s.transmitAvailable = tx
	s.receiveDataAvailable = rx
	return s.BindToOuterSocket(s.outer)
}

// BindToOuterSocket binds this leaf as one inner address of outer
// (io_leaf_socket_bind_to_outer).
func (s *LeafSocket) BindToOuterSocket(outer Socket) bool {
	s.outer = outer
	if outer == nil {
		return false
	}
	return outer.BindInner(s.Address(), s.transmitAvailable, s.receiveDataAvailable)
}

func (s *LeafSocket) NewMessage() encoding.Encoding {
	if s.newMessage == nil {
		return nil
	}
	return s.newMessage(s)
}

// SendMessage forwards encoding to the outer socket
// (io_leaf_socket_send_message).
func (s *LeafSocket) SendMessage(e encoding.Encoding) bool {
	if s.outer == nil {
		return false
	}
	return s.outer.SendMessage(e)
}

func (s *LeafSocket) MTU() int {
	if s.outer == nil {
		return 0
	}
	return s.outer.MTU()
}

// GetReceivePipe is never meaningful for a leaf socket — it has no
// inner bindings of its own to demultiplex across.
func (s *LeafSocket) GetReceivePipe(ioaddr.Address) *pipe.EncodingPipe { return nil }
