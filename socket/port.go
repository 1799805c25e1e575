package socket

import (
	"github.com/abstractsig/io-core/event"
	"github.com/abstractsig/io-core/ioaddr"
	"github.com/abstractsig/io-core/pipe"
)

// Port is one inner binding's transmit/receive plumbing: a pair of
// encoding pipes and the events raised when either has work
// (io_port_t).
type Port struct {
	TransmitPipe *pipe.EncodingPipe
	ReceivePipe  *pipe.EncodingPipe
	TxAvailable  *event.Event
	RxAvailable  *event.Event
}

func newPort(txLength, rxLength uint16) *Port {
	return &Port{
		TransmitPipe: pipe.NewEncodingPipe(txLength),
		ReceivePipe:  pipe.NewEncodingPipe(rxLength),
	}
}

func (p *Port) free() {
	p.TransmitPipe.Free()
	p.ReceivePipe.Free()
}

// binding pairs an inner socket's address with the port serving it
// (io_binding_t).
type binding struct {
	address ioaddr.Address
	port    *Port
}
