package suite

import (
	"math/bits"

	"github.com/roach88/bitfuzz/internal/bitmap"
)

// refSet is an uncompressed bit set used as the reference model for
// absent-value queries. It mirrors the clear-bit semantics of a plain
// word-array bit set: positions beyond the allocated words are absent.
type refSet struct {
	words []uint64
}

func newRefSet(b *bitmap.Bitmap) *refSet {
	r := &refSet{}
	it := b.Iterator()
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		wi := int(v >> 6)
		for len(r.words) <= wi {
			r.words = append(r.words, 0)
		}
		r.words[wi] |= 1 << (v & 63)
	}
	return r
}

// nextClear returns the smallest absent position >= x.
func (r *refSet) nextClear(x uint32) uint64 {
	wi := int(x >> 6)
	if wi >= len(r.words) {
		return uint64(x)
	}
	w := ^r.words[wi] & (^uint64(0) << (x & 63))
	for {
		if w != 0 {
			return uint64(wi)<<6 | uint64(bits.TrailingZeros64(w))
		}
		wi++
		if wi >= len(r.words) {
			return uint64(wi) << 6
		}
		w = ^r.words[wi]
	}
}

// prevClear returns the largest absent position <= x, or -1 when every
// position in [0, x] is present.
func (r *refSet) prevClear(x uint32) int64 {
	wi := int(x >> 6)
	if wi >= len(r.words) {
		return int64(x)
	}
	w := ^r.words[wi] & (^uint64(0) >> (63 - x&63))
	for {
		if w != 0 {
			return int64(wi)<<6 | int64(63-bits.LeadingZeros64(w))
		}
		wi--
		if wi < 0 {
			return -1
		}
		w = ^r.words[wi]
	}
}
