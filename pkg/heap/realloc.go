package heap

import (
	"github.com/flier/goheap/pkg/xunsafe"
)

// Realloc resizes the block p points at to size payload bytes.
//
// A nil p is plain allocation. Otherwise the block first tries to grow in
// place by absorbing free successors; if that is enough the block is shrunk
// back to the requested size and keeps its address. Failing that, the block
// is relocated: a fresh block is allocated, the old payload copied over, and
// the old block released. Relocation failure returns nil and leaves the old
// block live, with whatever size the forward merges grew it to.
func (h *Heap) Realloc(p *byte, size int) (*byte, error) {
	hdr, err := findHeader(p)
	if err != nil {
		return nil, err
	}
	if hdr == nil {
		return h.Malloc(size), nil
	}

	return h.growOrMove(hdr, size, h.Malloc), nil
}

// ReallocOnlyFree is [Heap.Realloc] allocating through the free-block
// registry. The two variants differ only in which allocator serves the
// relocation.
func (h *Heap) ReallocOnlyFree(p *byte, size int) (*byte, error) {
	hdr, err := findHeader(p)
	if err != nil {
		return nil, err
	}
	if hdr == nil {
		return h.MallocOnlyFree(size), nil
	}

	return h.growOrMove(hdr, size, h.MallocOnlyFree), nil
}

// growOrMove grows hdr in place by repeated forward merges, then either
// shrinks it to size via split or relocates the payload through alloc.
func (h *Heap) growOrMove(hdr *Header, size int, alloc func(int) *byte) *byte {
	for size > hdr.size && h.merge(hdr) {
	}

	if size <= hdr.size {
		// Splitting a live block is fine here: it is off the registry and
		// its size covers the request.
		return h.split(hdr, size)
	}

	p := alloc(size)
	if p != nil {
		xunsafe.Copy(p, hdr.addr.AssertValid(), hdr.size)

		// Release the old block the way Free does, padding folded in, so
		// free blocks on the chain never carry alignment.
		hdr.state = false
		hdr.size += hdr.alignment
		hdr.alignment = 0
		h.free.push(hdr)

		h.log("realloc", "%v -> %p, %d bytes", hdr.addr, p, size)
	}

	return p
}
