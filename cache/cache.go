// Package cache implements the runtime's constrained, age-bounded value
// cache (spec §4.D, cht_* / io_constrained_hash_t in the original): a
// fixed-capacity open-addressed table where each primary bucket may chain
// to overflow entries elsewhere in the same backing array via
// successor/predecessor links (coalesced hashing), and where growth is
// capped by pruning the least-recently/least-often used entries instead
// of resizing.
package cache

import (
	"encoding/binary"

	"github.com/abstractsig/io-core/value"
	"github.com/abstractsig/io-core/xutil"
)

const none = int32(-1)

type entry struct {
	key, val    value.Ref
	age         int64
	accessCount uint32
	free        bool
	successor   int32
	predecessor int32
}

// PurgeFunc is consulted before an entry is evicted during a prune pass;
// returning false vetoes that particular eviction (cht_purge_entry_helper_t).
type PurgeFunc func(key, val value.Ref) bool

// Cache is a fixed-size constrained hash table of vref keys to vref
// values (io_constrained_hash_t).
type Cache struct {
	entries        []entry
	tableSize      uint32
	entryCount     uint32
	pruneThreshold uint32
	pruneBatch     uint32
	clock          int64
	ordered        []int32
	beginPurge     func()
	purge          PurgeFunc
}

// New creates a cache with room for tableSize entries (rounded up to a
// prime via the same table-sizing convention as hashtable). beginPurge is
// called once before a prune pass begins; purge is consulted per
// candidate eviction.
func New(tableSize uint32, beginPurge func(), purge PurgeFunc) *Cache {
	n := xutil.NextPrime(tableSize)
	c := &Cache{
		entries:        make([]entry, n),
		tableSize:      n,
		pruneThreshold: n * 8 / 10,
		pruneBatch:     n/10 + 1,
		ordered:        make([]int32, n),
		beginPurge:     beginPurge,
		purge:          purge,
	}
	for i := range c.entries {
		c.entries[i].free = true
		c.entries[i].successor = none
		c.entries[i].predecessor = none
	}
	return c
}

// TableSize returns the cache's fixed capacity.
func (c *Cache) TableSize() uint32 { return c.tableSize }

// Count returns the number of occupied entries.
func (c *Cache) Count() uint32 { return c.entryCount }

func (c *Cache) primaryIndex(key value.Ref) uint32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(key.AsBuiltinInteger()))
	return xutil.Murmur3_32(b[:]) % c.tableSize
}

// find walks the chain rooted at key's primary bucket, returning the
// occupied entry's index or -1.
func (c *Cache) find(key value.Ref) int32 {
	home := int32(c.primaryIndex(key))
	if c.entries[home].free {
		return none
	}
	for i := home; i != none; i = c.entries[i].successor {
		if !c.entries[i].free && value.Equal(c.entries[i].key, key) {
			return i
		}
	}
	return none
}

func (c *Cache) firstFreeSlot() int32 {
	for i := range c.entries {
		if c.entries[i].free {
			return int32(i)
		}
	}
	return none
}

func (c *Cache) chainTail(home int32) int32 {
	i := home
	for c.entries[i].successor != none {
		i = c.entries[i].successor
	}
	return i
}

// Has reports whether key has an entry (cht_has_key).
func (c *Cache) Has(key value.Ref) bool {
	return c.find(key) != none
}

// Get returns key's value and whether it was found, bumping the entry's
// access count on a hit (cht_get_value).
func (c *Cache) Get(key value.Ref) (value.Ref, bool) {
	i := c.find(key)
	if i == none {
		return value.Nil, false
	}
	c.entries[i].accessCount++
	return c.entries[i].val, true
}

// Set inserts or updates key's value. An update to an existing key bumps
// its access count as a re-put does in the original (cht_set_value); a
// fresh insert may trigger a prune pass first if the table has reached
// its load threshold.
func (c *Cache) Set(key, val value.Ref) {
	if i := c.find(key); i != none {
		value.Store(&c.entries[i].val, val)
		c.entries[i].accessCount++
		return
	}

	if c.entryCount+1 >= c.pruneThreshold {
		c.prune()
	}

	home := int32(c.primaryIndex(key))
	var slot int32
	if c.entries[home].free {
		slot = home
	} else {
		slot = c.firstFreeSlot()
		if slot == none {
			// Table truly full; caller's structural-violation path.
			return
		}
		tail := c.chainTail(home)
		c.entries[tail].successor = slot
		c.entries[slot].predecessor = tail
	}

	c.clock++
	c.entries[slot] = entry{
		key:         value.Reference(key),
		val:         value.Reference(val),
		age:         c.clock,
		accessCount: 0,
		free:        false,
		successor:   c.entries[slot].successor,
		predecessor: c.entries[slot].predecessor,
	}
	c.entryCount++
}

// Unset removes key's entry if present, releasing its held references,
// and reports whether it was found (cht_unset).
func (c *Cache) Unset(key value.Ref) bool {
	i := c.find(key)
	if i == none {
		return false
	}
	c.unlink(i)
	return true
}

func (c *Cache) unlink(i int32) {
	e := &c.entries[i]
	value.Unreference(e.key)
	value.Unreference(e.val)

	if e.predecessor == none && e.successor != none {
		// i is a chain root (occupies its own primary/home slot) with a
		// member chained behind it. find() only ever looks directly at a
		// key's home slot and walks forward from there — it never scans
		// the table for a root that moved — so freeing i here would
		// strand every entry still reachable only via its chain, leaking
		// their references forever. Promote the next member into i
		// instead, keeping the home slot occupied.
		c.promoteIntoHomeSlot(i)
		c.entryCount--
		return
	}

	if e.predecessor != none {
		c.entries[e.predecessor].successor = e.successor
	}
	if e.successor != none {
		c.entries[e.successor].predecessor = e.predecessor
	}
	*e = entry{free: true, successor: none, predecessor: none}
	c.entryCount--
}

// promoteIntoHomeSlot moves the chain member immediately behind the root
// at i forward into i's storage, preserving i as the chain's root
// (predecessor stays none) and relinking the promoted member's own
// successor, if any, to point back at i.
func (c *Cache) promoteIntoHomeSlot(i int32) {
	succ := c.entries[i].successor
	moved := c.entries[succ]
	c.entries[i] = entry{
		key:         moved.key,
		val:         moved.val,
		age:         moved.age,
		accessCount: moved.accessCount,
		free:        false,
		successor:   moved.successor,
		predecessor: none,
	}
	if moved.successor != none {
		c.entries[moved.successor].predecessor = i
	}
	c.entries[succ] = entry{free: true, successor: none, predecessor: none}
}

// prune sorts a shadow index array by (free desc, access_count asc, age
// asc) and evicts from the front of the non-free run until pruneBatch
// entries have been removed or the run is exhausted (cht_sort +
// purge_callback walk).
func (c *Cache) prune() {
	if c.beginPurge != nil {
		c.beginPurge()
	}
	for i := range c.ordered {
		c.ordered[i] = int32(i)
	}
	xutil.Quicksort(c.ordered, func(x, y int32) int {
		ex, ey := &c.entries[x], &c.entries[y]
		if ex.free != ey.free {
			if ex.free {
				return -1
			}
			return 1
		}
		if ex.accessCount != ey.accessCount {
			if ex.accessCount < ey.accessCount {
				return -1
			}
			return 1
		}
		if ex.age != ey.age {
			if ex.age < ey.age {
				return -1
			}
			return 1
		}
		return 0
	})

	evicted := uint32(0)
	for _, idx := range c.ordered {
		if evicted >= c.pruneBatch {
			break
		}
		e := &c.entries[idx]
		if e.free {
			continue
		}
		if c.purge != nil && !c.purge(e.key, e.val) {
			continue
		}
		c.unlink(idx)
		evicted++
	}
}
