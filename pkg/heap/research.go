package heap

import (
	"math/rand/v2"
	"time"
)

const (
	// researchArena is the capacity the benchmark runs against.
	researchArena = 1_000_000

	// researchBlock is the allocation size the benchmark exhausts the arena
	// with.
	researchBlock = 10
)

// Research measures the wall-clock difference between the two search
// strategies at the given free-block density.
//
// For each strategy it fills a fresh million-byte arena with ten-byte
// allocations, randomly frees percent% of the resulting blocks, and times
// how long re-exhausting the arena takes. percent must be in [1, 100];
// anything else fails with [ErrPercentRange].
func Research(percent int) (scan, onlyFree time.Duration, err error) {
	if percent < 1 || percent > 100 {
		return 0, 0, ErrPercentRange
	}

	h := new(Heap)

	var blocks []*byte
	run := func(malloc func(int) *byte) time.Duration {
		blocks = blocks[:0]
		for {
			p := malloc(researchBlock)
			if p == nil {
				break
			}
			blocks = append(blocks, p)
		}

		quota := len(blocks) / 100 * percent
		randomlyFree(h, blocks, quota)

		start := time.Now()
		for malloc(researchBlock) != nil {
		}

		return time.Since(start)
	}

	if err = h.Init(researchArena); err != nil {
		return 0, 0, err
	}
	scan = run(h.Malloc)

	if err = h.Init(researchArena); err != nil {
		return 0, 0, err
	}
	onlyFree = run(h.MallocOnlyFree)

	return scan, onlyFree, nil
}

// randomlyFree releases quota of the given blocks, picked by repeated
// uniform coin flips over the whole list. The quota is clamped to the number
// of blocks so the walk always terminates.
func randomlyFree(h *Heap, blocks []*byte, quota int) {
	quota = min(quota, len(blocks))

	for freed := 0; freed < quota; {
		for i, p := range blocks {
			if p == nil || rand.IntN(2) == 0 {
				continue
			}

			_ = h.Free(p)
			blocks[i] = nil

			if freed++; freed == quota {
				return
			}
		}
	}
}
