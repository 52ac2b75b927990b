// Package bitmap implements a compressed bit-indexed set of uint32 values.
//
// Values are partitioned by their high 16 bits into containers of 2^16
// values each. Sparse containers store their low 16-bit values as a sorted
// array; dense containers store them as a fixed bit field. Containers switch
// form automatically around the point where the bit field becomes the
// smaller representation.
//
// A Bitmap is not safe for concurrent mutation. All set-algebra operations
// (And, Or, Xor, AndNot) produce fresh bitmaps and never modify their
// operands.
package bitmap

import "slices"

// maxSpan is the exclusive upper bound of the value space.
const maxSpan = 1 << 32

// Bitmap is a compressed set of uint32 values.
// The zero value is an empty set ready for use.
type Bitmap struct {
	keys []uint16     // sorted container keys (high 16 bits)
	cs   []*container // parallel to keys; never empty containers
}

// New returns an empty bitmap.
func New() *Bitmap {
	return &Bitmap{}
}

// Of returns a bitmap holding the given values.
func Of(values ...uint32) *Bitmap {
	b := New()
	for _, v := range values {
		b.Add(v)
	}
	return b
}

// Clone returns an independent copy of b.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{
		keys: slices.Clone(b.keys),
		cs:   make([]*container, len(b.cs)),
	}
	for i, c := range b.cs {
		out.cs[i] = c.clone()
	}
	return out
}

func (b *Bitmap) find(key uint16) (int, bool) {
	return slices.BinarySearch(b.keys, key)
}

// Add inserts x into the set.
func (b *Bitmap) Add(x uint32) {
	key, low := uint16(x>>16), uint16(x)
	i, ok := b.find(key)
	if !ok {
		b.keys = slices.Insert(b.keys, i, key)
		b.cs = slices.Insert(b.cs, i, &container{})
	}
	b.cs[i].add(low)
}

// AddRange inserts every value in [lo, hi). Bounds use 64-bit semantics and
// are clamped to the uint32 value space; an empty range is a no-op.
func (b *Bitmap) AddRange(lo, hi uint64) {
	if hi > maxSpan {
		hi = maxSpan
	}
	if lo >= hi {
		return
	}
	for base := lo - lo%containerSpan; base < hi; base += containerSpan {
		from := uint32(0)
		if lo > base {
			from = uint32(lo - base)
		}
		to := uint32(containerSpan)
		if hi-base < containerSpan {
			to = uint32(hi - base)
		}
		key := uint16(base >> 16)
		i, ok := b.find(key)
		if !ok {
			b.keys = slices.Insert(b.keys, i, key)
			b.cs = slices.Insert(b.cs, i, &container{})
		}
		b.cs[i].addRange(from, to)
	}
}

// Count returns the number of values in the set.
func (b *Bitmap) Count() int {
	n := 0
	for _, c := range b.cs {
		n += c.count()
	}
	return n
}

// IsEmpty reports whether the set holds no values.
func (b *Bitmap) IsEmpty() bool {
	return len(b.cs) == 0
}

// Contains reports whether x is in the set.
func (b *Bitmap) Contains(x uint32) bool {
	i, ok := b.find(uint16(x >> 16))
	if !ok {
		return false
	}
	return b.cs[i].contains(uint16(x))
}

// Equal reports whether b and other hold exactly the same values.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if len(b.keys) != len(other.keys) {
		return false
	}
	for i, key := range b.keys {
		if other.keys[i] != key {
			return false
		}
		if !equalContainers(b.cs[i], other.cs[i]) {
			return false
		}
	}
	return true
}

// First returns the smallest value in the set.
// The second result is false when the set is empty.
func (b *Bitmap) First() (uint32, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	return uint32(b.keys[0])<<16 | uint32(b.cs[0].minValue()), true
}

// Last returns the largest value in the set.
// The second result is false when the set is empty.
func (b *Bitmap) Last() (uint32, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	last := len(b.keys) - 1
	return uint32(b.keys[last])<<16 | uint32(b.cs[last].maxValue()), true
}
