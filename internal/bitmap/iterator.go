package bitmap

import "math/bits"

// Iterator walks the values of a bitmap in ascending order. Each call to
// Bitmap.Iterator returns a fresh iterator; mutating the bitmap while
// iterating is undefined.
type Iterator struct {
	b      *Bitmap
	ci     int    // current container
	ai     int    // position within a sparse container
	wi     int    // word index within a dense container
	w      uint64 // unread bits of word wi
	loaded bool
}

// Iterator returns a new iterator positioned before the first value.
func (b *Bitmap) Iterator() *Iterator {
	return &Iterator{b: b}
}

// Next returns the next value in ascending order.
// The second result is false once the values are exhausted.
func (it *Iterator) Next() (uint32, bool) {
	for it.ci < len(it.b.cs) {
		c := it.b.cs[it.ci]
		base := uint32(it.b.keys[it.ci]) << 16
		if c.words == nil {
			if it.ai < len(c.array) {
				v := base | uint32(c.array[it.ai])
				it.ai++
				return v, true
			}
		} else {
			for it.wi < containerWords {
				if !it.loaded {
					it.w = c.words[it.wi]
					it.loaded = true
				}
				if it.w == 0 {
					it.wi++
					it.loaded = false
					continue
				}
				v := base | uint32(it.wi<<6|bits.TrailingZeros64(it.w))
				it.w &= it.w - 1
				return v, true
			}
		}
		it.ci++
		it.ai, it.wi, it.w, it.loaded = 0, 0, 0, false
	}
	return 0, false
}
