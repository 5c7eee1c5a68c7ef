// Package heap implements a user-space heap allocator over a single
// fixed-size contiguous byte region.
//
// The allocator owns one arena and services C-style requests from it:
// allocate ([Heap.Malloc]), zero-allocate ([Heap.Calloc]), reallocate
// ([Heap.Realloc]) and release ([Heap.Free]). Each primitive comes in two
// flavors so that the cost of the two search strategies can be measured
// against each other:
//
//   - The scan-all flavor walks every block header in the arena, live or
//     free, and takes the first free block large enough.
//   - The OnlyFree flavor ([Heap.MallocOnlyFree] and friends) consults a
//     separately maintained registry of currently-free blocks instead.
//
// Both flavors are first-fit and stop at the first match, so they may hand
// out different addresses for the same logical call sequence. [Research]
// compares their wall-clock cost at a configurable free-block density.
//
// # Layout
//
// Block metadata lives inline in the arena: every block is a [Header]
// immediately followed by its payload and alignment padding that pushes the
// next header onto a machine-word boundary: normally 0 to [Word]-1 bytes, more
// when a trailing sliver too small to host a block was absorbed. Headers
// form a doubly-linked chain starting at the arena's first byte. Chain links
// and payload addresses are stored as [xunsafe.Addr] values, so the region
// holds no pointers the garbage collector would care about; the Heap value
// keeps the backing slice alive.
//
// Releasing a block does not coalesce it with its neighbors. Coalescing is
// deferred: [Heap.Realloc] merges a block forward with free successors when
// growing in place, and [Heap.Defragment] slides all live blocks to the
// front of the arena, leaving at most one trailing free block.
//
// # Memory safety
//
// Payload pointers are invalidated by releasing their block, by a
// reallocation that relocates it, by [Heap.Defragment], and by
// re-initialization. Passing a pointer that did not come from this allocator
// is undefined behavior; at best it is rejected as [ErrBadPointer].
//
// A Heap is not safe for concurrent use. Callers that share one across
// goroutines must wrap every operation in a mutex.
package heap

import (
	"unsafe"

	"github.com/flier/goheap/internal/debug"
	"github.com/flier/goheap/pkg/xunsafe"
	"github.com/flier/goheap/pkg/xunsafe/layout"
)

const (
	// Word is the machine word size. Headers start on Word boundaries.
	Word = int(unsafe.Sizeof(uintptr(0)))

	// HeaderSize is the number of bytes of arena space each block's inline
	// metadata occupies.
	HeaderSize = int(unsafe.Sizeof(Header{}))

	// MinSize is the smallest capacity [Heap.Init] accepts.
	MinSize = HeaderSize + Word
)

// Heap is an allocator over a single contiguous arena.
//
// The zero Heap has no arena; every capacity-dependent operation fails with
// [ErrNotInitialized] or reports no memory until [Heap.Init] is called.
type Heap struct {
	_ xunsafe.NoCopy

	// Backing arena. Headers and payloads live inside; nothing else may
	// reference it.
	mem []byte

	base, end xunsafe.Addr[byte]

	free registry
}

// New creates a heap with an arena of the given capacity in bytes.
func New(size int) (*Heap, error) {
	h := new(Heap)
	if err := h.Init(size); err != nil {
		return nil, err
	}

	return h, nil
}

// Init replaces the arena with a fresh one of the given capacity in bytes.
//
// All previously handed out payload pointers become invalid. A size of zero
// only validates that an arena exists. The arena actually reserved is size
// plus one header, rounded up to a word boundary, and starts out as a single
// free block spanning all of it.
func (h *Heap) Init(size int) error {
	if size == 0 {
		if h.mem == nil {
			return ErrNotInitialized
		}
		return nil
	}

	if size < MinSize {
		return &SizeError{Size: size, Min: MinSize}
	}

	size += HeaderSize
	size += alignPad(size)

	h.mem = make([]byte, size)
	h.base = xunsafe.AddrOf(&h.mem[0])
	h.free.clear()

	hdr := xunsafe.Cast[Header](h.base.AssertValid())
	*hdr = Header{
		size: size - HeaderSize,
		addr: h.base.ByteAdd(HeaderSize),
	}
	h.end = hdr.addr.ByteAdd(hdr.size)
	h.free.push(hdr)

	h.log("init", "%d bytes, %v:%v", size, h.base, h.end)

	return nil
}

// Empty reports whether the heap has no arena.
func (h *Heap) Empty() bool { return h.mem == nil }

// FirstHeader returns the header of the first block in the arena.
func (h *Heap) FirstHeader() (*Header, error) {
	if h.mem == nil {
		return nil, ErrNotInitialized
	}

	return h.first(), nil
}

// first returns the header at the arena's first byte, or nil if there is no
// arena.
func (h *Heap) first() *Header {
	if h.mem == nil {
		return nil
	}

	return xunsafe.Cast[Header](h.base.AssertValid())
}

// alignPad returns the padding that makes n a multiple of the machine word.
func alignPad(n int) int {
	return layout.Padding(n, Word)
}

func (h *Heap) log(op, format string, args ...any) {
	debug.Log([]any{"%p", h}, op, format, args...)
}
