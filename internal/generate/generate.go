// Package generate produces randomly shaped bitmaps for the fuzz harness.
//
// Generated subjects vary container shape as well as content: each chosen
// container is filled as a sparse scatter, a dense scatter, or a handful of
// runs, so the structural paths of the bitmap (array form, bit-field form,
// promotion, range insertion) all see coverage. The complexity bound caps
// the number of containers, not the element count.
package generate

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/roach88/bitfuzz/internal/bitmap"
)

// Source generates random bitmaps. The zero-argument New source draws from
// the shared process-wide generator and is safe for concurrent use; a
// seeded source serializes access to its private generator so it stays
// safe to call from the worker pool while remaining deterministic.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand // nil: use the shared top-level source
}

// New returns a source backed by the shared random generator.
func New() *Source {
	return &Source{}
}

// NewSeeded returns a deterministic source. Two sources with the same seed
// produce the same sequence of bitmaps.
func NewSeeded(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (s *Source) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Bitmap generates one random subject with at most maxKeys containers.
// The result always holds at least two values.
func (s *Source) Bitmap(maxKeys int) (*bitmap.Bitmap, error) {
	if maxKeys <= 0 {
		return nil, fmt.Errorf("generate: complexity bound must be positive, got %d", maxKeys)
	}
	numKeys := 1 + s.intN(maxKeys)
	seen := make(map[uint16]struct{}, numKeys)
	for len(seen) < numKeys {
		seen[uint16(s.intN(1<<16))] = struct{}{}
	}
	// Fill in key order so a seeded source stays deterministic.
	keys := make([]uint16, 0, numKeys)
	for key := range seen {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	b := bitmap.New()
	for _, key := range keys {
		base := uint64(key) << 16
		switch s.intN(3) {
		case 0: // sparse scatter
			for n := 2 + s.intN(63); n > 0; n-- {
				b.Add(uint32(base) | uint32(s.intN(1<<16)))
			}
		case 1: // dense scatter, enough to force the bit-field form
			for n := 4097 + s.intN(16384); n > 0; n-- {
				b.Add(uint32(base) | uint32(s.intN(1<<16)))
			}
		default: // runs
			for n := 1 + s.intN(8); n > 0; n-- {
				lo := uint64(s.intN(1 << 16))
				hi := lo + 1 + uint64(s.intN(int(1<<16-lo)))
				b.AddRange(base+lo, base+hi)
			}
		}
	}

	// The catalogue's first/last range checks need a non-degenerate subject.
	for b.Count() < 2 {
		b.Add(uint32(s.intN(1 << 16)))
	}
	return b, nil
}

// Provider adapts the source to the harness generator contract.
func (s *Source) Provider() func(maxKeys int) (*bitmap.Bitmap, error) {
	return s.Bitmap
}
