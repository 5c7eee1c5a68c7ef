package heap

import (
	"github.com/flier/goheap/pkg/xunsafe"
)

// Defragment slides every live block toward the arena's start and coalesces
// the recovered space into at most one trailing free block.
//
// The pass keeps a running shift: the number of bytes each subsequent live
// block moves down. Free blocks are dropped from the chain and contribute
// their whole span to the shift; live blocks whose alignment exceeds one word
// (an absorbed sliver) are trimmed back to the canonical padding first, and
// the reclaimed bytes join the shift too. Each live block is copied to its
// new position in one piece (header, payload and padding); the copy always
// moves toward lower addresses, so a plain forward copy is safe.
//
// Afterwards the live blocks sit contiguously from the arena's start in
// their original order, with sizes and payload bytes intact. A trailing gap
// big enough to host a header plus one word becomes a single free block; a
// smaller one is absorbed into the last block's alignment.
func (h *Heap) Defragment() error {
	if h.mem == nil {
		return ErrNotInitialized
	}

	var prev *Header
	shift := 0

	for cur := h.first(); cur != nil; {
		next := cur.Next()

		if !cur.state {
			shift += HeaderSize + cur.size
			cur = next
			continue
		}

		extra := 0
		if cur.alignment > Word {
			extra = cur.alignment - alignPad(cur.size+HeaderSize)
			cur.alignment -= extra
		}

		src := cur.addr.ByteAdd(-HeaderSize)
		n := HeaderSize + cur.size + cur.alignment
		dst := src.ByteAdd(-shift)
		if shift != 0 {
			xunsafe.Copy(dst.AssertValid(), src.AssertValid(), n)
		}

		moved := xunsafe.Cast[Header](dst.AssertValid())
		moved.addr = dst.ByteAdd(HeaderSize)
		moved.prev = xunsafe.AddrOf(prev)
		if prev != nil {
			prev.next = xunsafe.AddrOf(moved)
		}

		prev = moved
		shift += extra
		cur = next
	}

	h.free.clear()

	if prev != nil && shift != 0 {
		start := prev.addr.ByteAdd(prev.size + prev.alignment)
		gap := int(h.end - start)
		if gap < MinSize {
			prev.alignment += gap
		} else {
			tail := xunsafe.Cast[Header](start.AssertValid())
			*tail = Header{
				prev: xunsafe.AddrOf(prev),
				size: gap - HeaderSize,
				addr: start.ByteAdd(HeaderSize),
			}
			prev.next = xunsafe.AddrOf(tail)
			h.free.push(tail)
		}
	}

	h.log("defrag", "%d bytes shifted", shift)

	return nil
}
