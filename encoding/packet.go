package encoding

import "github.com/abstractsig/io-core/mem"

// Packet is a binary encoding that additionally carries a stack of
// protocol Layers (io_encoding_layer_api_t / IO_BINARY_ENCODING_STRUCT_MEMBERS
// plus a layer stack). Each layer records only its byte offset into the
// shared buffer, never a pointer, because Grow can reallocate that
// buffer out from under every layer that has already been pushed (spec
// §3). layers[0] is always the outermost (first-pushed) layer and the
// last entry the innermost, matching get_packet_encoding_layer(NULL)'s
// "layers[0]" convention in the original.
type Packet struct {
	Binary
	layers []Layer
}

// NewPacket allocates a fresh, layerless packet encoding.
func NewPacket(heap *mem.Heap) *Packet {
	return &Packet{Binary: Binary{base: base{refCount: 1}, buf: newGrowBuffer(heap, 64)}}
}

// PushLayer appends a freshly made layer recording the encoding's current
// length as its offset, and returns it (io_encoding_push_layer).
func (e *Packet) PushLayer(make func(offset int) Layer) Layer {
	l := make(e.Length())
	e.layers = append(e.layers, l)
	return l
}

// GetLayer returns the layer at the given stack depth from the outside
// (0 = outermost), or nil. With depth < 0 it returns the outermost layer,
// matching get_outermost_layer's "L == NULL" convention
// (get_packet_encoding_layer(NULL) == layers[0]).
func (e *Packet) GetLayer(depthFromOutermost int) Layer {
	n := len(e.layers)
	if n == 0 {
		return nil
	}
	if depthFromOutermost < 0 {
		depthFromOutermost = 0
	}
	if depthFromOutermost >= n {
		return nil
	}
	return e.layers[depthFromOutermost]
}

// GetOuterLayer returns the layer pushed immediately before l (one step
// closer to the outside), or nil if l is already outermost or not
// present (io_packet_encoding_get_outer_layer). l == nil means "the
// outermost layer" (io_encoding_get_outermost_layer).
func (e *Packet) GetOuterLayer(l Layer) Layer {
	if len(e.layers) == 0 {
		return nil
	}
	if l == nil {
		return e.layers[0]
	}
	for i, cur := range e.layers {
		if cur == l {
			if i-1 >= 0 {
				return e.layers[i-1]
			}
			return nil
		}
	}
	return nil
}

// GetInnerLayer returns the layer pushed immediately after l (one step
// closer to the payload), or nil if l is innermost or not present. l ==
// nil means "the innermost layer" (io_encoding_get_innermost_layer).
func (e *Packet) GetInnerLayer(l Layer) Layer {
	n := len(e.layers)
	if n == 0 {
		return nil
	}
	if l == nil {
		return e.layers[n-1]
	}
	for i, cur := range e.layers {
		if cur == l {
			if i+1 < n {
				return e.layers[i+1]
			}
			return nil
		}
	}
	return nil
}

// Layers returns the full layer stack, outermost (first-pushed) first.
func (e *Packet) Layers() []Layer { return e.layers }

// PushExistingLayer appends an already-built layer (rather than
// allocating one via a make callback) to the stack — used by a
// shared-media socket's receive-copy path, where io_layer_swap produces
// a ready-made layer bound to the copy's buffer instead of going through
// PushLayer's make-a-fresh-one contract.
func (e *Packet) PushExistingLayer(l Layer) { e.layers = append(e.layers, l) }

func (e *Packet) Free() { e.Binary.Free() }

func (e *Packet) Reference() Encoding {
	e.reference()
	return e
}

func (e *Packet) Unreference() {
	if e.unreference() {
		e.Free()
	}
}
