package pipe

import "github.com/abstractsig/io-core/value"

// BytePipe is a ring of raw bytes between a producer and the event loop.
type BytePipe struct{ ring *Ring[byte] }

// NewBytePipe creates a byte pipe with room for length-1 bytes.
func NewBytePipe(length uint16) *BytePipe { return &BytePipe{ring: NewRing[byte](int(length))} }

func (p *BytePipe) IsReadable() bool      { return p.ring.IsReadable() }
func (p *BytePipe) IsWriteable() bool     { return p.ring.IsWriteable() }
func (p *BytePipe) CountFreeSlots() int   { return p.ring.CountFreeSlots() }
func (p *BytePipe) PutByte(b byte) bool   { return p.ring.Put(b) }
func (p *BytePipe) GetByte() (byte, bool) { return p.ring.Get() }

// PutBytes writes as many of bytes as fit, returning the count written
// (io_byte_pipe_put_bytes).
func (p *BytePipe) PutBytes(bytes []byte) int {
	n := 0
	for _, b := range bytes {
		if !p.ring.Put(b) {
			break
		}
		n++
	}
	return n
}

// Encoding is the narrow surface a packet encoding must satisfy to travel
// through an EncodingPipe: reference counted, so the pipe can hold on to
// it and release it on pop/overwrite.
type Encoding interface {
	Reference() Encoding
	Unreference()
}

// EncodingPipe is a ring of reference-counted encodings; putting an
// encoding references it, popping/clearing unreferences it
// (io_encoding_pipe_t).
type EncodingPipe struct{ ring *Ring[Encoding] }

// NewEncodingPipe creates an encoding pipe with room for length-1 encodings.
func NewEncodingPipe(length uint16) *EncodingPipe {
	return &EncodingPipe{ring: NewRing[Encoding](int(length))}
}

func (p *EncodingPipe) IsReadable() bool    { return p.ring.IsReadable() }
func (p *EncodingPipe) IsWriteable() bool   { return p.ring.IsWriteable() }
func (p *EncodingPipe) CountFreeSlots() int { return p.ring.CountFreeSlots() }

// PutEncoding references encoding and enqueues it.
func (p *EncodingPipe) PutEncoding(encoding Encoding) bool {
	if !p.ring.IsWriteable() {
		return false
	}
	p.ring.Put(encoding.Reference())
	return true
}

// PopEncoding discards the oldest encoding, unreferencing it.
func (p *EncodingPipe) PopEncoding() bool {
	e, ok := p.ring.Get()
	if !ok {
		return false
	}
	e.Unreference()
	return true
}

// PeekEncoding returns the oldest encoding without removing it.
func (p *EncodingPipe) PeekEncoding() (Encoding, bool) { return p.ring.Peek() }

// Free unreferences every still-buffered encoding.
func (p *EncodingPipe) Free() {
	for {
		e, ok := p.ring.Get()
		if !ok {
			break
		}
		e.Unreference()
	}
}

// Reset unreferences every buffered encoding and returns the pipe to
// empty, ready for reuse by a freshly (re)bound port
// (reset_io_encoding_pipe).
func (p *EncodingPipe) Reset() {
	p.ring.Reset(func(e Encoding) { e.Unreference() })
}

// ValuePipe is a ring of reference-counted value.Ref handles
// (io_value_pipe_t): putting a value references it, popping unreferences
// the slot's previous occupant.
type ValuePipe struct{ ring *Ring[value.Ref] }

// NewValuePipe creates a value pipe with room for length-1 values.
func NewValuePipe(length uint16) *ValuePipe { return &ValuePipe{ring: NewRing[value.Ref](int(length))} }

func (p *ValuePipe) IsReadable() bool    { return p.ring.IsReadable() }
func (p *ValuePipe) IsWriteable() bool   { return p.ring.IsWriteable() }
func (p *ValuePipe) CountFreeSlots() int { return p.ring.CountFreeSlots() }

// PutValue references r and enqueues it.
func (p *ValuePipe) PutValue(r value.Ref) bool {
	if !p.ring.IsWriteable() {
		return false
	}
	p.ring.Put(value.Reference(r))
	return true
}

// GetValue dequeues the oldest value and releases the pipe's own
// reference to it (unreference_value in io_value_pipe_get_value); the
// returned Ref carries only the references its holders already had.
func (p *ValuePipe) GetValue() (value.Ref, bool) {
	r, ok := p.ring.Get()
	if !ok {
		return value.Nil, false
	}
	return value.Unreference(r), true
}

// PeekValue returns the oldest value without removing it.
func (p *ValuePipe) PeekValue() (value.Ref, bool) { return p.ring.Peek() }

// Free unreferences every still-buffered value.
func (p *ValuePipe) Free() {
	for {
		r, ok := p.ring.Get()
		if !ok {
			break
		}
		value.Unreference(r)
	}
}
