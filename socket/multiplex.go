package socket

import (
	"github.com/abstractsig/io-core/event"
	"github.com/abstractsig/io-core/ioaddr"
	"github.com/abstractsig/io-core/pipe"
)

// MultiplexSocket fans a single outer connection out across many inner
// bindings, each identified by an address and served by its own port
// (io_multiplex_socket_t). It implements Socket's bind/receive-pipe
// surface; SendMessage/NewMessage/MTU/Open/Close are left to embedders
// (MultiplexerSocket, SharedMedia) since those depend on what lies
// outside the multiplex.
type MultiplexSocket struct {
	base
	bindings        []binding
	roundRobin      int
	txPipeLength    uint16
	rxPipeLength    uint16
}

func newMultiplexSocket(r *event.Runtime, addr ioaddr.Address, txLength, rxLength uint16) MultiplexSocket {
	return MultiplexSocket{
		base:         newBase(r, addr),
		txPipeLength: txLength,
		rxPipeLength: rxLength,
	}
}

// HasInnerBindings reports whether any inner socket has bound
// (io_multiplex_socket_has_inner_bindings).
func (m *MultiplexSocket) HasInnerBindings() bool { return len(m.bindings) > 0 }

// findBinding returns the binding for address, or nil
// (io_multiplex_socket_find_inner_port).
func (m *MultiplexSocket) findBinding(address ioaddr.Address) *binding {
	for i := range m.bindings {
		if ioaddr.Compare(m.bindings[i].address, address) == 0 {
			return &m.bindings[i]
		}
	}
	return nil
}

// GetReceivePipe returns the receive pipe bound to address, or nil
// (io_multiplex_socket_get_receive_pipe).
func (m *MultiplexSocket) GetReceivePipe(address ioaddr.Address) *pipe.EncodingPipe {
	b := m.findBinding(address)
	if b == nil {
		return nil
	}
	return b.port.ReceivePipe
}

// BindInner finds or creates the binding for addr and (re)arms its
// tx/rx events (io_multiplex_socket_bind_inner).
func (m *MultiplexSocket) BindInner(addr ioaddr.Address, tx, rx *event.Event) bool {
	b := m.findBinding(addr)
	if b == nil {
		m.bindings = append(m.bindings, binding{address: addr, port: newPort(m.txPipeLength, m.rxPipeLength)})
		b = &m.bindings[len(m.bindings)-1]
	}
	if m.runtime != nil {
		if b.port.TxAvailable != nil {
			m.runtime.Cancel(b.port.TxAvailable)
		}
		if b.port.RxAvailable != nil {
			m.runtime.Cancel(b.port.RxAvailable)
		}
	}
	b.port.TxAvailable = tx
	b.port.RxAvailable = rx
	b.port.TransmitPipe.Reset()
	b.port.ReceivePipe.Reset()
	return true
}

// UnbindInner drops the binding for addr entirely, freeing its port
// (io_multiplex_socket_unbind_inner, extended to actually release
// resources rather than leaving the original's TODO body empty).
func (m *MultiplexSocket) UnbindInner(addr ioaddr.Address) {
	for i := range m.bindings {
		if ioaddr.Compare(m.bindings[i].address, addr) == 0 {
			m.bindings[i].port.free()
			m.bindings = append(m.bindings[:i], m.bindings[i+1:]...)
			return
		}
	}
}

func (m *MultiplexSocket) incrementRoundRobin() {
	if len(m.bindings) == 0 {
		return
	}
	m.roundRobin = (m.roundRobin + 1) % len(m.bindings)
}

// NextTransmitBinding scans from the round-robin cursor for the next
// binding with a readable transmit pipe (io_multiplex_socket_get_next_transmit_binding).
func (m *MultiplexSocket) NextTransmitBinding() *binding {
	if len(m.bindings) == 0 {
		return nil
	}
	start := m.roundRobin
	for {
		b := &m.bindings[m.roundRobin]
		if b.port.TransmitPipe.IsReadable() {
			return b
		}
		m.incrementRoundRobin()
		if m.roundRobin == start {
			return nil
		}
	}
}

// SignalTransmitAvailable advances the round-robin cursor and signals
// the next binding's tx event, if any
// (io_multiplex_socket_round_robin_signal_transmit_available).
func (m *MultiplexSocket) SignalTransmitAvailable() {
	if len(m.bindings) == 0 || m.runtime == nil {
		return
	}
	start := m.roundRobin
	for {
		m.incrementRoundRobin()
		if ev := m.bindings[m.roundRobin].port.TxAvailable; ev != nil {
			m.runtime.Signal(ev)
			return
		}
		if m.roundRobin == start {
			return
		}
	}
}

func (m *MultiplexSocket) freeMemory() {
	for i := range m.bindings {
		m.bindings[i].port.free()
	}
	m.bindings = nil
}
