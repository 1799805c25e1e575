package encoding

import (
	"unicode/utf8"

	"github.com/abstractsig/io-core/hashtable"
	"github.com/abstractsig/io-core/mem"
)

// Text is a human-readable encoding of values, used by printf's %v
// conversion and by value printing generally (io_text_encoding_t). Its
// "visited" set breaks reference cycles while printing structures that
// may contain cycles — allocated lazily since most text encodings never
// print anything cyclic.
type Text struct {
	Binary
	visited *hashtable.RefHash
}

// NewText allocates a fresh text encoding.
func NewText(heap *mem.Heap) *Text {
	return &Text{Binary: Binary{base: base{refCount: 1}, buf: newGrowBuffer(heap, 64)}}
}

// Visited lazily allocates and returns the cycle-breaking set
// (io_text_encoding_get_visited).
func (e *Text) Visited() *hashtable.RefHash {
	if e.visited == nil {
		e.visited = hashtable.NewRefHash(8)
	}
	return e.visited
}

func (e *Text) Free() {
	if e.visited != nil {
		e.visited.Free()
	}
	e.Binary.Free()
}

func (e *Text) Reference() Encoding {
	e.reference()
	return e
}

func (e *Text) Unreference() {
	if e.unreference() {
		e.Free()
	}
}

// IterateCharacters decodes e's content as UTF-8, calling cb with each
// rune in turn and stopping early if cb returns false
// (io_text_encoding_iterate_characters).
func (e *Text) IterateCharacters(cb func(rune) bool) bool {
	content := e.GetContent()
	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		if !cb(r) {
			return false
		}
		content = content[size:]
	}
	return true
}
