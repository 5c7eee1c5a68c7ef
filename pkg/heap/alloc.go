package heap

import (
	"math/bits"

	"github.com/flier/goheap/pkg/xunsafe"
)

// Malloc allocates size payload bytes and returns their address, or nil when
// no free block is large enough.
//
// The search walks the whole header chain from the arena's start and takes
// the first free block whose size is sufficient.
func (h *Heap) Malloc(size int) *byte {
	for cur := h.first(); cur != nil; cur = cur.Next() {
		if !cur.state && cur.size >= size {
			h.free.remove(cur)

			return h.split(cur, size)
		}
	}

	return nil
}

// MallocOnlyFree is [Heap.Malloc] searching only the free-block registry, in
// its insertion order.
func (h *Heap) MallocOnlyFree(size int) *byte {
	for i, a := range h.free.order {
		if hdr := a.AssertValid(); hdr.size >= size {
			h.free.removeAt(i, a)

			return h.split(hdr, size)
		}
	}

	return nil
}

// Calloc allocates num elements of the given size and zeroes them. It
// returns nil when no free block is large enough or num*size overflows.
func (h *Heap) Calloc(num, size int) *byte {
	total, ok := checkedMul(num, size)
	if !ok {
		return nil
	}

	p := h.Malloc(total)
	if p != nil {
		xunsafe.Clear(p, total)
	}

	return p
}

// CallocOnlyFree is [Heap.Calloc] over the free-block registry.
func (h *Heap) CallocOnlyFree(num, size int) *byte {
	total, ok := checkedMul(num, size)
	if !ok {
		return nil
	}

	p := h.MallocOnlyFree(total)
	if p != nil {
		xunsafe.Clear(p, total)
	}

	return p
}

// split carves a size-byte live block out of the free block hdr, which must
// already be off the registry and have size >= the request.
//
// When shrinking leaves a gap behind the new payload, the gap becomes a new
// free block spliced in after hdr. A gap too small to host a header plus one
// word cannot become a block and is absorbed into hdr's alignment instead.
func (h *Heap) split(hdr *Header, size int) *byte {
	if hdr.size != size {
		end := hdr.addr.ByteAdd(hdr.size + hdr.alignment)

		hdr.size = size
		hdr.alignment = alignPad(size + HeaderSize)

		at := hdr.addr.ByteAdd(hdr.size + hdr.alignment)
		left := int(end - at)
		if left < MinSize {
			hdr.alignment += left
		} else {
			next := xunsafe.Cast[Header](at.AssertValid())
			*next = Header{
				next: hdr.next,
				prev: xunsafe.AddrOf(hdr),
				size: left - HeaderSize,
				addr: at.ByteAdd(HeaderSize),
			}
			if after := hdr.Next(); after != nil {
				after.prev = xunsafe.AddrOf(next)
			}
			hdr.next = xunsafe.AddrOf(next)
			h.free.push(next)

			h.log("split", "%v, %d bytes left", next.addr, next.size)
		}
	}

	hdr.state = true

	h.log("malloc", "%v, %d:%d", hdr.addr, hdr.size, hdr.alignment)

	return hdr.addr.AssertValid()
}

// checkedMul multiplies two non-negative sizes, reporting overflow.
func checkedMul(num, size int) (int, bool) {
	if num < 0 || size < 0 {
		return 0, false
	}

	hi, lo := bits.Mul64(uint64(num), uint64(size))
	if hi != 0 || lo > uint64(maxInt) {
		return 0, false
	}

	return int(lo), true
}

const maxInt = int(^uint(0) >> 1)
