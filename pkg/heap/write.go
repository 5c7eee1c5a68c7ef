package heap

import (
	"fmt"
	"io"
	"strings"

	"github.com/flier/goheap/pkg/xunsafe"
	"github.com/flier/goheap/pkg/xunsafe/layout"
)

// kindSize is the element width each tag is rendered with. Integers are
// stored as 64-bit values.
func kindSize(k Kind) int {
	switch k {
	case Int:
		return layout.Size[int64]()
	case Double:
		return layout.Size[float64]()
	default:
		return 1
	}
}

// Write copies values into the live block p points at, converting each from
// the common numeric form to the given kind's representation, and records
// the kind on the block's header.
//
// The values must fit in the block's payload; otherwise nothing is written
// and [ErrOutOfBounds] is returned. A pointer that does not name a live
// block fails with [ErrBadPointer].
func (h *Heap) Write(p *byte, kind Kind, values []float64) error {
	hdr, err := findHeader(p)
	if err != nil {
		return err
	}
	if hdr == nil {
		return ErrBadPointer
	}

	if len(values)*kindSize(kind) > hdr.size {
		return ErrOutOfBounds
	}

	for i, v := range values {
		switch kind {
		case Int:
			xunsafe.ByteStore(p, i*kindSize(kind), int64(v))
		case Double:
			xunsafe.ByteStore(p, i*kindSize(kind), v)
		default:
			xunsafe.ByteStore(p, i, byte(v))
		}
	}
	hdr.typ = kind

	return nil
}

// Dump writes a formatted walk of the header chain to w: each block's
// payload address, its contents rendered per the block's kind tag, its size
// and its state.
func (h *Heap) Dump(w io.Writer) error {
	if h.mem == nil {
		return ErrNotInitialized
	}

	for cur := h.first(); cur != nil; cur = cur.Next() {
		fmt.Fprintf(w, "%v\n", cur.addr)
		fmt.Fprintf(w, "\tContent: %s\n", renderPayload(cur))
		fmt.Fprintf(w, "\tSize: %d\n", cur.size)
		fmt.Fprintf(w, "\tState: %v\n", cur.state)
	}

	return nil
}

// renderPayload formats a block's payload as elements of its tagged kind.
// Multi-element payloads render as a bracketed list; chars are quoted.
func renderPayload(hdr *Header) string {
	n := hdr.size / kindSize(hdr.typ)
	p := hdr.addr.AssertValid()

	var sb strings.Builder
	if n > 1 {
		sb.WriteByte('[')
	}

	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}

		switch hdr.typ {
		case Int:
			fmt.Fprintf(&sb, "%d", xunsafe.ByteLoad[int64](p, i*kindSize(hdr.typ)))
		case Double:
			fmt.Fprintf(&sb, "%g", xunsafe.ByteLoad[float64](p, i*kindSize(hdr.typ)))
		default:
			fmt.Fprintf(&sb, "'%c'", xunsafe.ByteLoad[byte](p, i))
		}
	}

	if n > 1 {
		sb.WriteByte(']')
	}

	return sb.String()
}
