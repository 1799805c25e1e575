// Package hashtable implements the runtime's two chained hash-table
// flavors (spec §4.C): a string-keyed table mapping byte strings to an
// arbitrary payload, and a vref-keyed set used to break reference cycles
// while printing. Both grow when any one bucket's chain depth exceeds 7,
// rehashing into a new prime-sized table (mk_string_hash_table /
// mk_vref_bucket_hash_table in the original).
package hashtable

import (
	"github.com/abstractsig/io-core/value"
	"github.com/abstractsig/io-core/xutil"
)

const growDepthThreshold = 7

type stringEntry struct {
	next    *stringEntry
	key     []byte
	mapping interface{}
}

// StringHash is a chained, prime-sized hash table keyed by byte strings
// (string_hash_table_t).
type StringHash struct {
	table     []*stringEntry
	tableGrow uint32
}

// NewStringHash creates a table sized to hold at least initialSize
// entries before its first grow.
func NewStringHash(initialSize uint32) *StringHash {
	size := xutil.NextPrime(initialSize)
	return &StringHash{
		table:     make([]*stringEntry, size),
		tableGrow: size / 2,
	}
}

func (h *StringHash) index(key []byte) uint32 {
	return xutil.TommyHash32(0, key) % uint32(len(h.table))
}

func (h *StringHash) getEntry(key []byte, index uint32) (*stringEntry, int) {
	depth := 0
	for cursor := h.table[index]; cursor != nil; cursor = cursor.next {
		depth++
		if keysEqual(cursor.key, key) {
			return cursor, depth
		}
	}
	return nil, depth
}

func keysEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Insert maps key to mapping, returning false (and overwriting the
// mapping) if key was already present, matching string_hash_table_insert.
func (h *StringHash) Insert(key []byte, mapping interface{}) bool {
	index := h.index(key)
	entry, depth := h.getEntry(key, index)
	if entry != nil {
		entry.mapping = mapping
		return false
	}
	if depth > growDepthThreshold {
		h.grow()
		return h.Insert(key, mapping)
	}
	owned := append([]byte(nil), key...)
	h.table[index] = &stringEntry{next: h.table[index], key: owned, mapping: mapping}
	return true
}

func (h *StringHash) grow() {
	old := h.table
	newSize := xutil.NextPrime(uint32(len(h.table)) + h.tableGrow)
	h.table = make([]*stringEntry, newSize)
	h.tableGrow = newSize / 2
	for _, cursor := range old {
		for cursor != nil {
			next := cursor.next
			idx := h.index(cursor.key)
			cursor.next = h.table[idx]
			h.table[idx] = cursor
			cursor = next
		}
	}
}

// Remove deletes key's entry if present, reporting whether it was found
// (string_hash_table_remove).
func (h *StringHash) Remove(key []byte) bool {
	index := h.index(key)
	cursor := &h.table[index]
	for *cursor != nil {
		if keysEqual((*cursor).key, key) {
			*cursor = (*cursor).next
			return true
		}
		cursor = &(*cursor).next
	}
	return false
}

// Map looks up key, returning its mapping and whether it was found
// (string_hash_table_map).
func (h *StringHash) Map(key []byte) (interface{}, bool) {
	index := h.index(key)
	entry, _ := h.getEntry(key, index)
	if entry == nil {
		return nil, false
	}
	return entry.mapping, true
}

// Iterate calls cb for every entry in table-order (iterate_string_hash_table),
// stopping early if cb returns false.
func (h *StringHash) Iterate(cb func(key []byte, mapping interface{}) bool) {
	for _, bucket := range h.table {
		for cursor := bucket; cursor != nil; cursor = cursor.next {
			if !cb(cursor.key, cursor.mapping) {
				return
			}
		}
	}
}

// refEntry and RefHash mirror StringHash but key on value.Ref, and
// reference/unreference their stored values the way a GC'd value set
// must (vref_bucket_hash_table_t).
type refEntry struct {
	next  *refEntry
	value value.Ref
}

// RefHash is a vref-keyed set that holds a reference on every member it
// stores and releases it on removal/free. It is used as the "visited" set
// that breaks reference cycles while printing values (spec §4.G).
type RefHash struct {
	table     []*refEntry
	tableGrow uint32
}

// NewRefHash creates a set sized to hold at least initialSize members
// before its first grow.
func NewRefHash(initialSize uint32) *RefHash {
	size := xutil.NextPrime(initialSize)
	return &RefHash{
		table:     make([]*refEntry, size),
		tableGrow: size / 2,
	}
}

func (h *RefHash) index(r value.Ref) uint32 {
	hash := xutil.IntegerHash64(uint64(r.AsBuiltinInteger()))
	return uint32(hash % uint64(len(h.table)))
}

func (h *RefHash) getEntry(r value.Ref, index uint32) (*refEntry, int) {
	depth := 0
	for cursor := h.table[index]; cursor != nil; cursor = cursor.next {
		depth++
		if value.Equal(cursor.value, r) {
			return cursor, depth
		}
	}
	return nil, depth
}

// Insert adds r to the set, taking a reference on it, and reports whether
// it was newly inserted (false if already present).
func (h *RefHash) Insert(r value.Ref) bool {
	index := h.index(r)
	entry, depth := h.getEntry(r, index)
	if entry != nil {
		return false
	}
	if depth > growDepthThreshold {
		h.grow()
		return h.Insert(r)
	}
	h.table[index] = &refEntry{next: h.table[index], value: value.Reference(r)}
	return true
}

func (h *RefHash) grow() {
	old := h.table
	newSize := xutil.NextPrime(uint32(len(h.table)) + h.tableGrow)
	h.table = make([]*refEntry, newSize)
	h.tableGrow = newSize / 2
	for _, cursor := range old {
		for cursor != nil {
			next := cursor.next
			idx := h.index(cursor.value)
			cursor.next = h.table[idx]
			h.table[idx] = cursor
			cursor = next
		}
	}
}

// Contains reports whether r is a member.
func (h *RefHash) Contains(r value.Ref) bool {
	index := h.index(r)
	entry, _ := h.getEntry(r, index)
	return entry != nil
}

// Remove deletes r from the set, releasing its reference, and reports
// whether it was present.
func (h *RefHash) Remove(r value.Ref) bool {
	index := h.index(r)
	cursor := &h.table[index]
	for *cursor != nil {
		if value.Equal((*cursor).value, r) {
			removed := *cursor
			*cursor = (*cursor).next
			value.Unreference(removed.value)
			return true
		}
		cursor = &(*cursor).next
	}
	return false
}

// Free releases every member's reference and empties the set.
func (h *RefHash) Free() {
	for i, bucket := range h.table {
		for cursor := bucket; cursor != nil; {
			next := cursor.next
			value.Unreference(cursor.value)
			cursor = next
		}
		h.table[i] = nil
	}
}
