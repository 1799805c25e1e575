// Package mem implements the runtime's byte heap (spec §4.A): a
// coalescing best-fit allocator over a fixed array of equal-size blocks,
// ported from the classic umm_malloc algorithm the original C runtime
// embeds (see original_source/io_core.h, the UMM_* macros). Every other
// package in this module allocates through a *Heap rather than the Go
// runtime's own allocator, the way the teacher's std/runtime.Alloc is the
// one place raw memory is handed out.
package mem

import (
	"encoding/binary"

	"github.com/abstractsig/io-core/ioc"
)

// freelistMask marks a block as being on the free list; blockNoMask
// extracts the 15-bit block index, leaving room for the flag in the top
// bit of the 16-bit "next" field (spec §3 invariant iii).
const (
	freelistMask = 0x8000
	blockNoMask  = 0x7fff
	maxBlocks    = blockNoMask
)

// Status reports the outcome of Free: not every call indicates an error,
// per spec §7 ("not-found / already-done ... expected and recoverable").
type Status int

const (
	OK Status = iota
	AlreadyFree
	NotInMemory
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case AlreadyFree:
		return "already_free"
	case NotInMemory:
		return "not_in_memory"
	default:
		return "unknown"
	}
}

// Ptr is an opaque handle into a Heap's arena: the index of the block that
// begins an allocation. The zero value is the null pointer — block 0 is
// reserved as the free-list sentinel and is never handed out by Allocate.
type Ptr uint32

// Info is the observable byte-memory info named in spec §6.
type Info struct {
	TotalBytes uint32
	UsedBytes  uint32
	FreeBytes  uint32
}

// Allowed block sizes (spec §3): one is chosen per Heap at construction.
var AllowedBlockSizes = []int{8, 16, 32, 64, 128, 256, 1024, 4096}

// Heap is a fixed-size, block-addressed byte arena with best-fit
// coalescing allocation. It is not safe for concurrent use from more than
// one goroutine at a time without external synchronization — see
// SetCriticalSection, whose enter/exit pair brackets every mutator
// the way spec §5 requires for interrupt-driven callers.
type Heap struct {
	arena       []byte
	blockSize   int
	numBlocks   int
	log         *ioc.Logger
	critSection func() func()
}

// NewHeap allocates size bytes (rounded down to a whole number of
// blockSize-byte blocks) and initialises the allocation/free lists exactly
// as umm_malloc's initialise_io_byte_memory does: block 0 is the free-list
// sentinel, block 1 is one giant free block spanning the rest of the
// arena, and the last block terminates the allocation list with next=0.
func NewHeap(size int, blockSize int, log *ioc.Logger) *Heap {
	if !validBlockSize(blockSize) {
		ioc.PanicWithCode(log, ioc.InvalidOperation, "mem.NewHeap: invalid block size")
		return nil
	}
	numBlocks := size / blockSize
	if numBlocks > maxBlocks {
		numBlocks = maxBlocks
	}
	if numBlocks < 3 {
		numBlocks = 3
	}

	h := &Heap{
		arena:       make([]byte, numBlocks*blockSize),
		blockSize:   blockSize,
		numBlocks:   numBlocks,
		log:         log,
		critSection: func() func() { return func() {} },
	}

	const block0, block1 = 0, 1
	blockLast := numBlocks - 1

	h.setNBlock(block0, block1, false)
	h.setNFree(block0, uint16(block1))
	h.setPFree(block0, uint16(block1))

	h.setNBlock(block1, blockLast, true)
	h.setNFree(block1, 0)
	h.setPBlock(block1, block0)
	h.setPFree(block1, block0)

	h.setNBlock(blockLast, 0, false)
	h.setPBlock(blockLast, block1)

	return h
}

// SetCriticalSection installs the platform's critical-section pair (spec
// §5): enter returns a token (opaque to Heap) that exit consumes. The
// default, installed by NewHeap, is a no-op matching "default platform
// implementation is no-op".
func (h *Heap) SetCriticalSection(enter func() interface{}, exit func(interface{})) {
	h.critSection = func() func() {
		token := enter()
		return func() { exit(token) }
	}
}

func (h *Heap) critical() func() {
	return h.critSection()
}

func validBlockSize(n int) bool {
	for _, v := range AllowedBlockSizes {
		if v == n {
			return true
		}
	}
	return false
}

// --- block header accessors -------------------------------------------

func (h *Heap) blockOffset(b int) int { return b * h.blockSize }

func (h *Heap) nBlockRaw(b int) uint16 {
	off := h.blockOffset(b)
	return binary.LittleEndian.Uint16(h.arena[off : off+2])
}

func (h *Heap) setNBlockRaw(b int, v uint16) {
	off := h.blockOffset(b)
	binary.LittleEndian.PutUint16(h.arena[off:off+2], v)
}

func (h *Heap) nBlock(b int) (idx int, free bool) {
	raw := h.nBlockRaw(b)
	return int(raw & blockNoMask), raw&freelistMask != 0
}

func (h *Heap) setNBlock(b int, idx int, free bool) {
	v := uint16(idx) & blockNoMask
	if free {
		v |= freelistMask
	}
	h.setNBlockRaw(b, v)
}

func (h *Heap) pBlock(b int) int {
	off := h.blockOffset(b)
	return int(binary.LittleEndian.Uint16(h.arena[off+2 : off+4]))
}

func (h *Heap) setPBlock(b int, idx int) {
	off := h.blockOffset(b)
	binary.LittleEndian.PutUint16(h.arena[off+2:off+4], uint16(idx))
}

func (h *Heap) nFree(b int) int {
	off := h.blockOffset(b)
	return int(binary.LittleEndian.Uint16(h.arena[off+4 : off+6]))
}

func (h *Heap) setNFree(b int, v uint16) {
	off := h.blockOffset(b)
	binary.LittleEndian.PutUint16(h.arena[off+4:off+6], v)
}

func (h *Heap) pFree(b int) int {
	off := h.blockOffset(b)
	return int(binary.LittleEndian.Uint16(h.arena[off+6 : off+8]))
}

func (h *Heap) setPFree(b int, v uint16) {
	off := h.blockOffset(b)
	binary.LittleEndian.PutUint16(h.arena[off+6:off+8], uint16(v))
}

func (h *Heap) isFree(b int) bool {
	_, free := h.nBlock(b)
	return free
}

func (h *Heap) blockSpan(b int) int {
	n, _ := h.nBlock(b)
	return n - b
}

// data returns the usable byte range for an allocated block (the header
// occupies the first 4 bytes of every block, shared with the free-list
// next/prev fields when the block is free).
func (h *Heap) data(b int) []byte {
	off := h.blockOffset(b)
	n, _ := h.nBlock(b)
	end := off + (n-b)*h.blockSize
	return h.arena[off+4 : end]
}

func (h *Heap) blockCountFor(size int) int {
	total := size + 4 // header
	blocks := (total + h.blockSize - 1) / h.blockSize
	if blocks < 1 {
		blocks = 1
	}
	return blocks
}
