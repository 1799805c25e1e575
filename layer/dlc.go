package layer

import (
	"github.com/abstractsig/io-core/encoding"
	"github.com/abstractsig/io-core/ioaddr"
)

// dlcHeaderSize is the on-wire size of a DLC header: one byte of
// destination address followed by one byte of source address (a
// simplified stand-in for the original's "data link control" framing —
// spec names the family but leaves its wire format unspecified).
const dlcHeaderSize = 2

// DLC is a minimal addressed link-layer framing: two single-byte u8
// addresses (destination, then source) prepended to the packet body.
// Registered under DLCFamily, mirroring IO_DLC_LAYER_ID's reserved slot
// in the original's central protocol registry.
var DLC Implementation = dlcImpl{}

type dlcImpl struct{}

func (dlcImpl) Family() FamilyID { return DLCFamily }

func (dlcImpl) Make(packet *encoding.Packet) *Layer {
	packet.Fill(0, dlcHeaderSize)
	return &Layer{Implementation: DLC}
}

func (dlcImpl) Swap(l *Layer, e encoding.Encoding) *Layer {
	return &Layer{Implementation: DLC, offset: l.offset}
}

func (dlcImpl) Decode(l *Layer, e encoding.Encoding) (ioaddr.Address, bool) {
	return dlcImpl{}.LocalAddress(l, e), true
}

// MatchAddress always matches: match_address's signature carries no
// encoding parameter, so a layer implementation can only compare a
// against state cached on itself at construction time, never against
// header bytes it would otherwise have to re-read from a buffer it
// isn't given. DLC's minimal framing caches nothing extra, so every
// bound peer is considered a candidate recipient and shared-media fan-out
// relies on the source-address check (not MatchAddress) to skip the
// sender.
func (dlcImpl) MatchAddress(l *Layer, a ioaddr.Address) bool {
	return true
}

func (dlcImpl) AnyAddress() ioaddr.Address { return ioaddr.Invalid() }

func (dlcImpl) header(l *Layer, e encoding.Encoding) []byte {
	stream := l.ByteStream(e)
	if len(stream) < dlcHeaderSize {
		return nil
	}
	return stream[:dlcHeaderSize]
}

func (dlcImpl) RemoteAddress(l *Layer, e encoding.Encoding) ioaddr.Address {
	h := dlcImpl{}.header(l, e)
	if h == nil {
		return ioaddr.Invalid()
	}
	return ioaddr.U8(h[0])
}

func (dlcImpl) SetRemoteAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool {
	h := dlcImpl{}.header(l, e)
	if h == nil {
		return false
	}
	h[0] = a.Bytes()[0]
	return true
}

func (dlcImpl) LocalAddress(l *Layer, e encoding.Encoding) ioaddr.Address {
	h := dlcImpl{}.header(l, e)
	if h == nil {
		return ioaddr.Invalid()
	}
	return ioaddr.U8(h[1])
}

func (dlcImpl) SetLocalAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool {
	h := dlcImpl{}.header(l, e)
	if h == nil {
		return false
	}
	h[1] = a.Bytes()[0]
	return true
}

func (dlcImpl) InnerAddress(l *Layer, e encoding.Encoding) ioaddr.Address {
	return ioaddr.Invalid()
}
func (dlcImpl) SetInnerAddress(l *Layer, e encoding.Encoding, a ioaddr.Address) bool {
	return false
}
