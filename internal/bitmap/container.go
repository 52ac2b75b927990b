package bitmap

import (
	"math/bits"
	"slices"
)

const (
	// containerSpan is the number of values covered by one container.
	containerSpan = 1 << 16

	// containerWords is the size of the dense (bit field) form.
	containerWords = containerSpan / 64

	// arrayMaxLen is the largest cardinality kept in sorted-array form.
	// Beyond this a bit field is smaller than the array.
	arrayMaxLen = 4096
)

// container holds one 2^16-value chunk of the set.
//
// A container is in exactly one of two forms: sparse (array is a sorted
// slice of low 16-bit values, words is nil) or dense (words is a fixed
// 1024-word bit field with cached cardinality n, array is nil). The zero
// value is an empty sparse container.
type container struct {
	array []uint16
	words []uint64
	n     int
}

func (c *container) count() int {
	if c.words != nil {
		return c.n
	}
	return len(c.array)
}

func (c *container) clone() *container {
	out := &container{n: c.n}
	if c.words != nil {
		out.words = slices.Clone(c.words)
	} else {
		out.array = slices.Clone(c.array)
	}
	return out
}

func (c *container) contains(v uint16) bool {
	if c.words != nil {
		return c.words[v>>6]&(1<<(v&63)) != 0
	}
	_, ok := slices.BinarySearch(c.array, v)
	return ok
}

func (c *container) add(v uint16) {
	if c.words != nil {
		w, bit := v>>6, uint64(1)<<(v&63)
		if c.words[w]&bit == 0 {
			c.words[w] |= bit
			c.n++
		}
		return
	}
	i, ok := slices.BinarySearch(c.array, v)
	if ok {
		return
	}
	c.array = slices.Insert(c.array, i, v)
	if len(c.array) > arrayMaxLen {
		c.toWords()
	}
}

// addRange sets all local values in [lo, hi), 0 <= lo < hi <= 2^16.
func (c *container) addRange(lo, hi uint32) {
	if lo >= hi {
		return
	}
	if c.words == nil {
		if len(c.array)+int(hi-lo) <= arrayMaxLen {
			for v := lo; v < hi; v++ {
				c.add(uint16(v))
			}
			return
		}
		c.toWords()
	}
	setWordRange(c.words, lo, hi)
	c.n = 0
	for _, w := range c.words {
		c.n += bits.OnesCount64(w)
	}
}

// setWordRange sets bits [lo, hi) in a bit field.
func setWordRange(words []uint64, lo, hi uint32) {
	first, last := lo>>6, (hi-1)>>6
	firstMask := ^uint64(0) << (lo & 63)
	lastMask := ^uint64(0) >> (63 - (hi-1)&63)
	if first == last {
		words[first] |= firstMask & lastMask
		return
	}
	words[first] |= firstMask
	for i := first + 1; i < last; i++ {
		words[i] = ^uint64(0)
	}
	words[last] |= lastMask
}

// toWords converts a sparse container to its dense form in place.
func (c *container) toWords() {
	words := make([]uint64, containerWords)
	for _, v := range c.array {
		words[v>>6] |= 1 << (v & 63)
	}
	c.words, c.n, c.array = words, len(c.array), nil
}

// compact demotes a dense container back to sparse form when small enough.
// Keeps the representation canonical after bulk operations.
func (c *container) compact() {
	if c.words == nil || c.n > arrayMaxLen {
		return
	}
	arr := make([]uint16, 0, c.n)
	for wi, w := range c.words {
		for w != 0 {
			arr = append(arr, uint16(wi<<6|bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}
	c.array, c.words, c.n = arr, nil, 0
}

// view returns the container as a bit field without modifying it. Sparse
// containers are materialized into buf; dense containers return their own
// words. The result must be treated as read-only.
func (c *container) view(buf []uint64) []uint64 {
	if c.words != nil {
		return c.words
	}
	clear(buf)
	for _, v := range c.array {
		buf[v>>6] |= 1 << (v & 63)
	}
	return buf
}

// rank returns the number of values <= v.
func (c *container) rank(v uint16) int {
	if c.words == nil {
		i, ok := slices.BinarySearch(c.array, v)
		if ok {
			return i + 1
		}
		return i
	}
	n := 0
	for i := uint16(0); i < v>>6; i++ {
		n += bits.OnesCount64(c.words[i])
	}
	mask := ^uint64(0) >> (63 - v&63)
	return n + bits.OnesCount64(c.words[v>>6]&mask)
}

// rankBelow returns the number of values < v, 0 <= v <= 2^16.
func (c *container) rankBelow(v uint32) int {
	if v == 0 {
		return 0
	}
	if v >= containerSpan {
		return c.count()
	}
	return c.rank(uint16(v - 1))
}

// selectAt returns the i-th smallest value. The caller guarantees
// 0 <= i < count().
func (c *container) selectAt(i int) uint16 {
	if c.words == nil {
		return c.array[i]
	}
	for wi, w := range c.words {
		n := bits.OnesCount64(w)
		if i < n {
			for ; i > 0; i-- {
				w &= w - 1
			}
			return uint16(wi<<6 | bits.TrailingZeros64(w))
		}
		i -= n
	}
	panic("bitmap: select index out of range")
}

func (c *container) minValue() uint16 {
	return c.selectAt(0)
}

func (c *container) maxValue() uint16 {
	if c.words == nil {
		return c.array[len(c.array)-1]
	}
	for wi := containerWords - 1; wi >= 0; wi-- {
		if w := c.words[wi]; w != 0 {
			return uint16(wi<<6 | (63 - bits.LeadingZeros64(w)))
		}
	}
	panic("bitmap: max of empty container")
}

// prefix returns a new container holding the k smallest values.
// The caller guarantees 0 < k <= count().
func (c *container) prefix(k int) *container {
	if c.words == nil {
		return &container{array: slices.Clone(c.array[:k])}
	}
	out := &container{words: make([]uint64, containerWords), n: k}
	left := k
	for wi, w := range c.words {
		n := bits.OnesCount64(w)
		if left > n {
			out.words[wi] = w
			left -= n
			continue
		}
		for ; left > 0; left-- {
			low := w & -w
			out.words[wi] |= low
			w &^= low
		}
		break
	}
	out.compact()
	return out
}

// nextClear returns the smallest absent local value >= lo, or false when
// every value in [lo, 2^16) is present.
func (c *container) nextClear(lo uint32) (uint16, bool) {
	var buf [containerWords]uint64
	words := c.view(buf[:])
	wi := lo >> 6
	w := ^words[wi] & (^uint64(0) << (lo & 63))
	for {
		if w != 0 {
			return uint16(wi<<6 | uint32(bits.TrailingZeros64(w))), true
		}
		wi++
		if wi >= containerWords {
			return 0, false
		}
		w = ^words[wi]
	}
}

// prevClear returns the largest absent local value <= hi, or false when
// every value in [0, hi] is present.
func (c *container) prevClear(hi uint32) (uint16, bool) {
	var buf [containerWords]uint64
	words := c.view(buf[:])
	wi := int(hi >> 6)
	w := ^words[wi] & (^uint64(0) >> (63 - hi&63))
	for {
		if w != 0 {
			return uint16(wi<<6 | (63 - bits.LeadingZeros64(w))), true
		}
		wi--
		if wi < 0 {
			return 0, false
		}
		w = ^words[wi]
	}
}

// full reports whether every value in the container is present.
func (c *container) full() bool {
	return c.count() == containerSpan
}

func equalContainers(a, b *container) bool {
	if a.count() != b.count() {
		return false
	}
	if a.words == nil && b.words == nil {
		return slices.Equal(a.array, b.array)
	}
	var ba, bb [containerWords]uint64
	wa, wb := a.view(ba[:]), b.view(bb[:])
	for i := range wa {
		if wa[i] != wb[i] {
			return false
		}
	}
	return true
}

// subsetOf reports whether every value of a is present in b.
func subsetOf(a, b *container) bool {
	if a.count() > b.count() {
		return false
	}
	if a.words == nil {
		for _, v := range a.array {
			if !b.contains(v) {
				return false
			}
		}
		return true
	}
	var bb [containerWords]uint64
	wb := b.view(bb[:])
	for i, w := range a.words {
		if w&^wb[i] != 0 {
			return false
		}
	}
	return true
}

// binary set operations. Each returns a fresh container, or nil when the
// result is empty; operands are never modified.

func andContainers(a, b *container) *container {
	if a.words == nil && b.words == nil {
		out := make([]uint16, 0, min(len(a.array), len(b.array)))
		i, j := 0, 0
		for i < len(a.array) && j < len(b.array) {
			switch {
			case a.array[i] < b.array[j]:
				i++
			case a.array[i] > b.array[j]:
				j++
			default:
				out = append(out, a.array[i])
				i++
				j++
			}
		}
		if len(out) == 0 {
			return nil
		}
		return &container{array: out}
	}
	return combine(a, b, func(x, y uint64) uint64 { return x & y })
}

func orContainers(a, b *container) *container {
	return combine(a, b, func(x, y uint64) uint64 { return x | y })
}

func xorContainers(a, b *container) *container {
	return combine(a, b, func(x, y uint64) uint64 { return x ^ y })
}

func andNotContainers(a, b *container) *container {
	return combine(a, b, func(x, y uint64) uint64 { return x &^ y })
}

func combine(a, b *container, op func(x, y uint64) uint64) *container {
	var ba, bb [containerWords]uint64
	wa, wb := a.view(ba[:]), b.view(bb[:])
	words := make([]uint64, containerWords)
	n := 0
	for i := range words {
		w := op(wa[i], wb[i])
		words[i] = w
		n += bits.OnesCount64(w)
	}
	if n == 0 {
		return nil
	}
	out := &container{words: words, n: n}
	out.compact()
	return out
}

// combineCount is the cardinality-only counterpart of combine.
func combineCount(a, b *container, op func(x, y uint64) uint64) int {
	var ba, bb [containerWords]uint64
	wa, wb := a.view(ba[:]), b.view(bb[:])
	n := 0
	for i := range wa {
		n += bits.OnesCount64(op(wa[i], wb[i]))
	}
	return n
}
