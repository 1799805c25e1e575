package socket

import (
	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/event"
	"github.com/abstractsig/io-core/ioaddr"
)

// MultiplexerSocket is a multiplex socket that itself sits as an inner
// binding of a single outer socket, forwarding every outgoing message
// upward and demultiplexing incoming ones across its own bindings
// (io_multiplexer_socket_t).
type MultiplexerSocket struct {
	MultiplexSocket
	transmitEvent event.Event
	receiveEvent  event.Event
	outer         Socket
	newMessage    func(*MultiplexerSocket) encoding.Encoding
}

// NewMultiplexerSocket builds a multiplexer bound to addr, with txLength/
// rxLength-deep pipes per inner binding (initialise_io_multiplexer_socket).
// newMessage builds fresh outgoing encodings for this flavor; it may be
// nil if this multiplexer never originates messages itself.
func NewMultiplexerSocket(r *event.Runtime, addr ioaddr.Address, txLength, rxLength uint16, newMessage func(*MultiplexerSocket) encoding.Encoding) *MultiplexerSocket {
	return &MultiplexerSocket{
		MultiplexSocket: newMultiplexSocket(r, addr, txLength, rxLength),
		newMessage:      newMessage,
	}
}

func (m *MultiplexerSocket) Free() {
	if m.runtime != nil {
		m.runtime.Cancel(&m.transmitEvent)
		m.runtime.Cancel(&m.receiveEvent)
	}
	m.freeMemory()
}

func (m *MultiplexerSocket) Open(mode OpenMode) bool {
	if m.outer == nil {
		return false
	}
	return m.outer.Open(mode)
}

func (m *MultiplexerSocket) Close() {
	if m.runtime != nil {
		m.runtime.Cancel(&m.transmitEvent)
		m.runtime.Cancel(&m.receiveEvent)
	}
}

// BindToOuterSocket binds this multiplexer as an inner socket of outer,
// using its own transmit/receive events as outer's notification hooks
// (io_multiplexer_socket_bind_to_outer).
func (m *MultiplexerSocket) BindToOuterSocket(outer Socket) bool {
	m.outer = outer
	return outer.BindInner(m.Address(), &m.transmitEvent, &m.receiveEvent)
}

// NewMessage builds a fresh outgoing encoding via the configured
// constructor, or nil if this flavor never originates messages.
func (m *MultiplexerSocket) NewMessage() encoding.Encoding {
	if m.newMessage == nil {
		return nil
	}
	return m.newMessage(m)
}

// SendMessage forwards encoding to the bound outer socket
// (io_multiplexer_socket_send_message).
func (m *MultiplexerSocket) SendMessage(e encoding.Encoding) bool {
	if m.outer == nil {
		return false
	}
	return m.outer.SendMessage(e)
}

// MTU reports the outer socket's MTU, or 0 if unbound
// (io_multiplexer_socket_mtu).
func (m *MultiplexerSocket) MTU() int {
	if m.outer == nil {
		return 0
	}
	return m.outer.MTU()
}

// TransmitEvent/ReceiveEvent expose the events this multiplexer uses to
// notify its outer socket, so a board can bind their handlers to pump
// bindings (e.g. dispatch NextTransmitBinding on TransmitEvent).
func (m *MultiplexerSocket) TransmitEvent() *event.Event { return &m.transmitEvent }
func (m *MultiplexerSocket) ReceiveEvent() *event.Event  { return &m.receiveEvent }
