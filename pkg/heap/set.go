package heap

import (
	"github.com/dolthub/maphash"

	"github.com/flier/goheap/pkg/xunsafe"
)

// addrSet is an open-addressing hash set of header addresses with linear
// probing, kept deliberately small: the registry only needs membership, the
// scan order lives in its slice.
type addrSet struct {
	hash maphash.Hasher[xunsafe.Addr[Header]]

	// ctrl holds one state byte per slot; keys holds the slot contents.
	ctrl []int8
	keys []xunsafe.Addr[Header]

	resident, dead int
}

const (
	slotEmpty     int8 = -128 // 0b1000_0000
	slotTombstone int8 = -2   // 0b1111_1110
	slotFull      int8 = 0

	minSetSlots = 16
)

// limit is the occupancy bound past which the table rehashes.
func (s *addrSet) limit() int { return len(s.ctrl) * 3 / 4 }

// put inserts a, reporting whether it was absent.
func (s *addrSet) put(a xunsafe.Addr[Header]) bool {
	if s.ctrl == nil {
		s.hash = maphash.NewHasher[xunsafe.Addr[Header]]()
		s.grow(minSetSlots)
	} else if s.resident+s.dead >= s.limit() {
		// Mostly-dead tables rehash in place, dropping the tombstones.
		n := len(s.ctrl)
		if s.dead < s.resident {
			n *= 2
		}
		s.grow(n)
	}

	mask := len(s.ctrl) - 1
	i := int(s.hash.Hash(a)) & mask
	grave := -1

	for {
		switch s.ctrl[i] {
		case slotEmpty:
			if grave >= 0 {
				i = grave
				s.dead--
			}
			s.ctrl[i] = slotFull
			s.keys[i] = a
			s.resident++

			return true

		case slotTombstone:
			if grave < 0 {
				grave = i
			}

		default:
			if s.keys[i] == a {
				return false
			}
		}

		i = (i + 1) & mask
	}
}

// del removes a, reporting whether it was present.
func (s *addrSet) del(a xunsafe.Addr[Header]) bool {
	if s.ctrl == nil {
		return false
	}

	mask := len(s.ctrl) - 1
	for i := int(s.hash.Hash(a)) & mask; ; i = (i + 1) & mask {
		switch s.ctrl[i] {
		case slotEmpty:
			return false

		case slotFull:
			if s.keys[i] == a {
				s.ctrl[i] = slotTombstone
				s.resident--
				s.dead++

				return true
			}
		}
	}
}

// has reports whether a is in the set.
func (s *addrSet) has(a xunsafe.Addr[Header]) bool {
	if s.ctrl == nil {
		return false
	}

	mask := len(s.ctrl) - 1
	for i := int(s.hash.Hash(a)) & mask; ; i = (i + 1) & mask {
		switch s.ctrl[i] {
		case slotEmpty:
			return false

		case slotFull:
			if s.keys[i] == a {
				return true
			}
		}
	}
}

// reset empties the set, keeping its storage and seed.
func (s *addrSet) reset() {
	for i := range s.ctrl {
		s.ctrl[i] = slotEmpty
	}
	clear(s.keys)
	s.resident, s.dead = 0, 0
}

// grow rehashes into a table of n slots, dropping tombstones.
func (s *addrSet) grow(n int) {
	ctrl, keys := s.ctrl, s.keys

	s.ctrl = make([]int8, n)
	for i := range s.ctrl {
		s.ctrl[i] = slotEmpty
	}
	s.keys = make([]xunsafe.Addr[Header], n)
	s.resident, s.dead = 0, 0

	for i, c := range ctrl {
		if c == slotFull {
			s.put(keys[i])
		}
	}
}
