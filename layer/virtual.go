package layer

import (
	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/ioaddr"
)

// Virtual is the base, header-less layer implementation
// (mk_virtual_io_layer / SPECIALISE_VIRTUAL_IO_LAYER_IMPLEMENTATION):
// it carries no header bytes of its own, matches nothing but the
// invalid address, and decodes to an invalid address so it never claims
// to demultiplex anything on its own.
var Virtual Implementation = virtualImpl{}

type virtualImpl struct{}

func (virtualImpl) Family() FamilyID { return NullFamily }

func (virtualImpl) Make(packet *encoding.Packet) *Layer {
	return &Layer{Implementation: Virtual}
}

func (virtualImpl) Swap(l *Layer, e encoding.Encoding) *Layer { return l }

func (virtualImpl) Decode(l *Layer, e encoding.Encoding) (ioaddr.Address, bool) {
	return ioaddr.Invalid(), false
}

func (virtualImpl) MatchAddress(l *Layer, a ioaddr.Address) bool { return !a.IsValid() }

func (virtualImpl) AnyAddress() ioaddr.Address { return ioaddr.Invalid() }

func (virtualImpl) RemoteAddress(l *Layer, e encoding.Encoding) ioaddr.Address {
	return ioaddr.Invalid()
}
func (virtualImpl) SetRemoteAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool {
	return false
}
func (virtualImpl) LocalAddress(l *Layer, e encoding.Encoding) ioaddr.Address {
	return ioaddr.Invalid()
}
func (virtualImpl) SetLocalAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool {
	return true
}
func (virtualImpl) InnerAddress(l *Layer, e encoding.Encoding) ioaddr.Address {
	return ioaddr.Invalid()
}
func (virtualImpl) SetInnerAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool {
	return false
}
