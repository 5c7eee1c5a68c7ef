package heap

import (
	"github.com/flier/goheap/pkg/xunsafe"
)

// registry is the auxiliary index of currently-free headers.
//
// Insertion order is observable: [Heap.MallocOnlyFree] scans order front to
// back and the first fit wins. The membership set keeps duplicate pushes out
// without a linear scan; a header must never appear here twice, and a live
// header must never appear at all.
type registry struct {
	order []xunsafe.Addr[Header]
	index addrSet
}

// push registers a free header. Pushing a header that is already registered
// is a no-op.
func (r *registry) push(hdr *Header) {
	a := xunsafe.AddrOf(hdr)
	if !r.index.put(a) {
		return
	}

	r.order = append(r.order, a)
}

// remove unregisters a header, keeping the order of the rest. Headers that
// are not registered are ignored.
func (r *registry) remove(hdr *Header) {
	a := xunsafe.AddrOf(hdr)
	if !r.index.del(a) {
		return
	}

	for i, b := range r.order {
		if b == a {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// removeAt unregisters the header at a known position in order.
func (r *registry) removeAt(i int, a xunsafe.Addr[Header]) {
	r.index.del(a)
	r.order = append(r.order[:i], r.order[i+1:]...)
}

func (r *registry) clear() {
	r.order = r.order[:0]
	r.index.reset()
}
