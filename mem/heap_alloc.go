package mem

// The free bit stored in a block's own "next" field (nBlock's second
// return value / isFree) always describes that block itself, never its
// neighbour — so "is the block following c free" is isFree(nBlock(c)),
// two separate lookups, not one.

// disconnectFromFreeList splices c out of the free list using c's own
// free-list links, and clears c's free bit.
func (h *Heap) disconnectFromFreeList(c int) {
	h.setNFree(h.pFree(c), uint16(h.nFree(c)))
	h.setPFree(h.nFree(c), uint16(h.pFree(c)))
	n, _ := h.nBlock(c)
	h.setNBlock(c, n, false)
}

// assimilateUp merges c's allocation-list successor into c when that
// successor is free, extending c's span. c's own free bit is preserved.
func (h *Heap) assimilateUp(c int) {
	cNext, cFree := h.nBlock(c)
	if !h.isFree(cNext) {
		return
	}
	h.disconnectFromFreeList(cNext)
	sNext, _ := h.nBlock(cNext)
	h.setNBlock(c, sNext, cFree)
	if sNext != 0 {
		h.setPBlock(sNext, c)
	}
}

// assimilateDown merges c into its allocation-list predecessor (which the
// caller guarantees is free), setting the predecessor's free bit to
// freeMark. No free-list relinking is needed: the predecessor was already
// correctly threaded into the free list and keeps its position, just
// spanning more blocks.
func (h *Heap) assimilateDown(c int, freeMark bool) int {
	prev := h.pBlock(c)
	n, _ := h.nBlock(c)
	h.setNBlock(prev, n, freeMark)
	if n != 0 {
		h.setPBlock(n, prev)
	}
	return prev
}

// splitBlock splits block c after newBlocks blocks. The tail becomes a new
// block; if freeTail is set it is inserted at the front of the free list,
// otherwise it is left marked in-use for the caller to finish setting up.
func (h *Heap) splitBlock(c int, newBlocks int, freeTail bool) {
	n, cFree := h.nBlock(c)
	newBlock := c + newBlocks

	h.setNBlock(newBlock, n, false)
	h.setPBlock(newBlock, c)
	if n != 0 {
		h.setPBlock(n, newBlock)
	}

	h.setNBlock(c, newBlock, cFree)

	if freeTail {
		h.insertFreeBlock(newBlock)
	}
}

// insertFreeBlock splices block c in at the front of the free list
// (immediately after the sentinel) and marks it free. umm_malloc does not
// keep the free list address-ordered, so neither do we.
func (h *Heap) insertFreeBlock(c int) {
	const sentinel = 0
	firstFree := h.nFree(sentinel)
	h.setNFree(c, uint16(firstFree))
	h.setPFree(c, uint16(sentinel))
	h.setPFree(firstFree, uint16(c))
	h.setNFree(sentinel, uint16(c))
	n, _ := h.nBlock(c)
	h.setNBlock(c, n, true)
}

// findBestFit walks the free list from the sentinel, selecting the
// smallest free block whose span is >= need blocks (spec §4.A).
func (h *Heap) findBestFit(need int) (int, bool) {
	const sentinel = 0
	best := 0
	bestSpan := 0
	cur := h.nFree(sentinel)
	for cur != sentinel {
		span := h.blockSpan(cur)
		if span >= need {
			if best == 0 || span < bestSpan {
				best = cur
				bestSpan = span
				if span == need {
					break
				}
			}
		}
		cur = h.nFree(cur)
	}
	if best == 0 {
		return 0, false
	}
	return best, true
}

// Allocate reserves size bytes, rounded up to a whole number of blocks,
// returning ok=false on out-of-memory.
func (h *Heap) Allocate(size int) (Ptr, bool) {
	if size <= 0 {
		return 0, false
	}
	defer h.critical()()

	need := h.blockCountFor(size)
	b, ok := h.findBestFit(need)
	if !ok {
		return 0, false
	}

	h.disconnectFromFreeList(b)

	if span := h.blockSpan(b); span > need {
		h.splitBlock(b, need, true)
	}

	return Ptr(b), true
}

// AllocateAndZero is Allocate followed by a zero-fill of the usable range.
func (h *Heap) AllocateAndZero(size int) (Ptr, bool) {
	p, ok := h.Allocate(size)
	if !ok {
		return 0, false
	}
	b := h.data(int(p))
	for i := range b {
		b[i] = 0
	}
	return p, true
}

// Free releases ptr. Double-free and freeing a pointer this heap did not
// hand out are reported as a Status, never panicked (spec §7).
func (h *Heap) Free(ptr Ptr) Status {
	b := int(ptr)
	if b <= 0 || b >= h.numBlocks {
		return NotInMemory
	}
	defer h.critical()()

	if h.isFree(b) {
		return AlreadyFree
	}

	next, _ := h.nBlock(b)
	if h.isFree(next) {
		h.assimilateUp(b)
	}

	prev := h.pBlock(b)
	if h.isFree(prev) {
		h.assimilateDown(b, true)
	} else {
		h.insertFreeBlock(b)
	}

	return OK
}

// Reallocate changes the size of the allocation at ptr, trying in-place
// assimilation in the order spec §4.A prescribes before falling back to
// allocate/copy/free.
func (h *Heap) Reallocate(ptr Ptr, newSize int) (Ptr, bool) {
	if ptr == 0 {
		return h.Allocate(newSize)
	}
	if newSize <= 0 {
		h.Free(ptr)
		return 0, true
	}

	defer h.critical()()

	b := int(ptr)
	need := h.blockCountFor(newSize)
	curSpan := h.blockSpan(b)

	// (1) already big enough: left exactly as it is.
	if curSpan >= need {
		return ptr, true
	}

	next, _ := h.nBlock(b)
	nextFree := h.isFree(next)
	prev := h.pBlock(b)
	prevFree := h.isFree(prev)

	// (2) assimilate up: next is free and big enough together with b.
	if nextFree && curSpan+h.blockSpan(next) >= need {
		h.disconnectFromFreeList(next)
		nn, _ := h.nBlock(next)
		h.setNBlock(b, nn, false)
		if nn != 0 {
			h.setPBlock(nn, b)
		}
		if span := h.blockSpan(b); span > need {
			h.splitBlock(b, need, true)
		}
		return ptr, true
	}

	// (3) assimilate down: prev is free and big enough together with b;
	// memmove the data into prev's position.
	if prevFree && curSpan+h.blockSpan(prev) >= need {
		oldData := append([]byte(nil), h.data(b)...)
		h.disconnectFromFreeList(prev)
		nn, _ := h.nBlock(b)
		h.setNBlock(prev, nn, false)
		if nn != 0 {
			h.setPBlock(nn, prev)
		}
		copy(h.data(prev), oldData)
		if span := h.blockSpan(prev); span > need {
			h.splitBlock(prev, need, true)
		}
		return Ptr(prev), true
	}

	// (4) assimilate both neighbours.
	if nextFree && prevFree && curSpan+h.blockSpan(next)+h.blockSpan(prev) >= need {
		oldData := append([]byte(nil), h.data(b)...)
		h.disconnectFromFreeList(next)
		h.disconnectFromFreeList(prev)
		nn, _ := h.nBlock(next)
		h.setNBlock(prev, nn, false)
		if nn != 0 {
			h.setPBlock(nn, prev)
		}
		copy(h.data(prev), oldData)
		if span := h.blockSpan(prev); span > need {
			h.splitBlock(prev, need, true)
		}
		return Ptr(prev), true
	}

	// (5) fallback: allocate, copy, free.
	newPtr, ok := h.Allocate(newSize)
	if !ok {
		return 0, false
	}
	copy(h.data(int(newPtr)), h.data(b))
	h.Free(ptr)
	return newPtr, true
}

// Data returns the byte slice backing ptr's allocation. The slice aliases
// the heap's arena; callers must not retain it past a Free/Reallocate of
// ptr.
func (h *Heap) Data(ptr Ptr) []byte {
	if ptr == 0 {
		return nil
	}
	return h.data(int(ptr))
}

// Info reports aggregate byte-memory usage (spec §6).
func (h *Heap) Info() Info {
	defer h.critical()()

	total := uint32(h.numBlocks * h.blockSize)
	free := uint32(0)
	b, _ := h.nBlock(0)
	for b != 0 {
		if h.isFree(b) {
			free += uint32(h.blockSpan(b) * h.blockSize)
		}
		b, _ = h.nBlock(b)
	}
	return Info{TotalBytes: total, UsedBytes: total - free, FreeBytes: free}
}

// IterateAllocations visits every in-use block's data range in address
// order, stopping early if cb returns false.
func (h *Heap) IterateAllocations(cb func(ptr Ptr, data []byte) bool) {
	defer h.critical()()

	b, _ := h.nBlock(0)
	for b != 0 {
		span := h.blockSpan(b)
		if span <= 0 {
			return
		}
		if !h.isFree(b) {
			if !cb(Ptr(b), h.data(b)) {
				return
			}
		}
		b += span
	}
}

// IncrementalIterate resumes allocation iteration from *cursor (0 starts
// at the beginning), visiting one block's worth of work per call and
// writing back where it left off — the shape the value memory's GC uses
// to bound a single pass's work (spec §4.F). Returns false once the
// allocation list is exhausted.
func (h *Heap) IncrementalIterate(cursor *uint16, cb func(ptr Ptr, data []byte) bool) bool {
	defer h.critical()()

	b := int(*cursor)
	if b == 0 {
		b, _ = h.nBlock(0)
	}
	if b == 0 {
		*cursor = 0
		return false
	}

	if h.blockSpan(b) > 0 && !h.isFree(b) {
		cb(Ptr(b), h.data(b))
	}
	// Re-read b's own NBLOCK after the callback rather than using a span
	// captured before it ran: the callback may have freed b (or a
	// neighbour), and assimilation rewrites exactly the NBLOCK fields a
	// pre-computed span would miss.
	next, _ := h.nBlock(b)
	*cursor = uint16(next)
	return next != 0
}
