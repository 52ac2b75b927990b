package bitmap

// And returns the intersection of a and b as a new bitmap.
func And(a, b *Bitmap) *Bitmap {
	out := New()
	i, j := 0, 0
	for i < len(a.keys) && j < len(b.keys) {
		switch {
		case a.keys[i] < b.keys[j]:
			i++
		case a.keys[i] > b.keys[j]:
			j++
		default:
			if c := andContainers(a.cs[i], b.cs[j]); c != nil {
				out.keys = append(out.keys, a.keys[i])
				out.cs = append(out.cs, c)
			}
			i++
			j++
		}
	}
	return out
}

// Or returns the union of a and b as a new bitmap.
func Or(a, b *Bitmap) *Bitmap {
	out := New()
	i, j := 0, 0
	for i < len(a.keys) || j < len(b.keys) {
		switch {
		case j >= len(b.keys) || (i < len(a.keys) && a.keys[i] < b.keys[j]):
			out.keys = append(out.keys, a.keys[i])
			out.cs = append(out.cs, a.cs[i].clone())
			i++
		case i >= len(a.keys) || a.keys[i] > b.keys[j]:
			out.keys = append(out.keys, b.keys[j])
			out.cs = append(out.cs, b.cs[j].clone())
			j++
		default:
			out.keys = append(out.keys, a.keys[i])
			out.cs = append(out.cs, orContainers(a.cs[i], b.cs[j]))
			i++
			j++
		}
	}
	return out
}

// Xor returns the symmetric difference of a and b as a new bitmap.
func Xor(a, b *Bitmap) *Bitmap {
	out := New()
	i, j := 0, 0
	for i < len(a.keys) || j < len(b.keys) {
		switch {
		case j >= len(b.keys) || (i < len(a.keys) && a.keys[i] < b.keys[j]):
			out.keys = append(out.keys, a.keys[i])
			out.cs = append(out.cs, a.cs[i].clone())
			i++
		case i >= len(a.keys) || a.keys[i] > b.keys[j]:
			out.keys = append(out.keys, b.keys[j])
			out.cs = append(out.cs, b.cs[j].clone())
			j++
		default:
			if c := xorContainers(a.cs[i], b.cs[j]); c != nil {
				out.keys = append(out.keys, a.keys[i])
				out.cs = append(out.cs, c)
			}
			i++
			j++
		}
	}
	return out
}

// AndNot returns the difference a \ b as a new bitmap.
func AndNot(a, b *Bitmap) *Bitmap {
	out := New()
	for i, key := range a.keys {
		j, ok := b.find(key)
		if !ok {
			out.keys = append(out.keys, key)
			out.cs = append(out.cs, a.cs[i].clone())
			continue
		}
		if c := andNotContainers(a.cs[i], b.cs[j]); c != nil {
			out.keys = append(out.keys, key)
			out.cs = append(out.cs, c)
		}
	}
	return out
}

// AndCount returns the cardinality of the intersection of a and b without
// materializing it.
func AndCount(a, b *Bitmap) int {
	n := 0
	i, j := 0, 0
	for i < len(a.keys) && j < len(b.keys) {
		switch {
		case a.keys[i] < b.keys[j]:
			i++
		case a.keys[i] > b.keys[j]:
			j++
		default:
			n += combineCount(a.cs[i], b.cs[j], func(x, y uint64) uint64 { return x & y })
			i++
			j++
		}
	}
	return n
}

// OrCount returns the cardinality of the union of a and b without
// materializing it.
func OrCount(a, b *Bitmap) int {
	return a.Count() + b.Count() - AndCount(a, b)
}

// XorCount returns the cardinality of the symmetric difference of a and b
// without materializing it.
func XorCount(a, b *Bitmap) int {
	return a.Count() + b.Count() - 2*AndCount(a, b)
}

// ContainsAll reports whether every value of other is present in b.
func (b *Bitmap) ContainsAll(other *Bitmap) bool {
	for j, key := range other.keys {
		i, ok := b.find(key)
		if !ok {
			return false
		}
		if !subsetOf(other.cs[j], b.cs[i]) {
			return false
		}
	}
	return true
}

// rankBelow returns the number of values < x, with 0 <= x <= 2^32.
func (b *Bitmap) rankBelow(x uint64) int {
	if x == 0 {
		return 0
	}
	if x >= maxSpan {
		return b.Count()
	}
	return b.Rank(uint32(x - 1))
}

// RangeCount returns the number of values in [lo, hi) without materializing
// a new bitmap. Bounds use 64-bit semantics and are clamped to the value
// space.
func (b *Bitmap) RangeCount(lo, hi uint64) int {
	if hi > maxSpan {
		hi = maxSpan
	}
	if lo >= hi {
		return 0
	}
	return b.rankBelow(hi) - b.rankBelow(lo)
}

// ContainsRange reports whether every value in [lo, hi) is present.
// An empty range is trivially contained.
func (b *Bitmap) ContainsRange(lo, hi uint64) bool {
	if hi > maxSpan {
		hi = maxSpan
	}
	if lo >= hi {
		return true
	}
	return b.RangeCount(lo, hi) == int(hi-lo)
}

// IntersectsRange reports whether any value in [lo, hi) is present.
// An empty range intersects nothing.
func (b *Bitmap) IntersectsRange(lo, hi uint64) bool {
	return b.RangeCount(lo, hi) > 0
}
