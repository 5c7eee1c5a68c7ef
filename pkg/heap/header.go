package heap

import (
	"github.com/flier/goheap/pkg/xunsafe"
)

// Kind tags the contents of a block for [Heap.Write] and [Heap.Dump].
//
// The allocator itself never reads the tag; freshly created blocks default
// to [Char].
type Kind uint8

const (
	Char Kind = iota
	Int
	Double
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Char:
		return "char"
	case Int:
		return "int"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

// Header is the inline metadata at the start of every block.
//
// A block is a Header immediately followed by size payload bytes and
// alignment padding bytes. Headers are only ever materialized inside an
// arena; taking one by value detaches it from the chain.
type Header struct {
	next, prev xunsafe.Addr[Header]

	// state is true while the block is handed out to a caller.
	state bool

	// size is the usable payload size in bytes. For a live block this is
	// exactly what the caller asked for; releasing the block folds the
	// padding back in.
	size int

	// alignment is the padding between the payload's end and the next
	// header. Normally below Word, but a trailing sliver too small to host
	// a header gets absorbed here.
	alignment int

	addr xunsafe.Addr[byte]

	typ Kind
}

// Next returns the following block's header, or nil at the chain's end.
func (b *Header) Next() *Header { return b.next.AssertValid() }

// Prev returns the preceding block's header, or nil at the chain's start.
func (b *Header) Prev() *Header { return b.prev.AssertValid() }

// Live reports whether the block is currently handed out.
func (b *Header) Live() bool { return b.state }

// Size returns the usable payload size in bytes.
func (b *Header) Size() int { return b.size }

// Alignment returns the block's trailing padding in bytes.
func (b *Header) Alignment() int { return b.alignment }

// Payload returns the block's payload pointer.
func (b *Header) Payload() *byte { return b.addr.AssertValid() }

// Kind returns the block's content tag.
func (b *Header) Kind() Kind { return b.typ }

// findHeader recovers the header a payload pointer belongs to.
//
// A nil pointer yields a nil header. The header is assumed to sit
// immediately before the payload; no bounds check against the arena is
// performed, so pointers that did not come from this allocator are undefined
// behavior. A header in the free state rejects the pointer.
func findHeader(p *byte) (*Header, error) {
	if p == nil {
		return nil, nil
	}

	hdr := xunsafe.ByteAdd[Header](p, -HeaderSize)
	if !hdr.state {
		return nil, ErrBadPointer
	}

	return hdr, nil
}
