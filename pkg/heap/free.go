package heap

import (
	"github.com/flier/goheap/pkg/xunsafe"
)

// Free releases the block p points at.
//
// A nil pointer is a silent no-op. A non-nil pointer that does not name a
// live block fails with [ErrBadPointer]. The block's alignment padding is
// folded back into its size so the whole span is available to future
// allocations, and the header joins the free-block registry.
//
// Free never coalesces with neighbors; that is deferred to reallocation and
// to [Heap.Defragment].
func (h *Heap) Free(p *byte) error {
	hdr, err := findHeader(p)
	if hdr == nil || err != nil {
		return err
	}

	hdr.state = false
	hdr.size += hdr.alignment
	hdr.alignment = 0
	h.free.push(hdr)

	h.log("free", "%v, %d bytes", hdr.addr, hdr.size)

	return nil
}

// FreeOnlyFree is [Heap.Free] under the registry-driven naming scheme. The
// two release paths are identical; the name exists so each strategy family
// is complete.
func (h *Heap) FreeOnlyFree(p *byte) error { return h.Free(p) }

// merge absorbs hdr's immediate successor if that successor is free,
// reporting whether it did.
//
// The successor's header ceases to exist: its payload, padding and header
// bytes all become part of hdr's payload.
func (h *Heap) merge(hdr *Header) bool {
	next := hdr.Next()
	if next == nil || next.state {
		return false
	}

	h.free.remove(next)

	hdr.size += hdr.alignment + next.size + next.alignment + HeaderSize
	hdr.alignment = 0
	hdr.next = next.next
	if after := hdr.Next(); after != nil {
		after.prev = xunsafe.AddrOf(hdr)
	}

	h.log("merge", "%v, %d bytes", hdr.addr, hdr.size)

	return true
}
