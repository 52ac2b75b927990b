package bitmap

// Rank returns the number of values <= x.
func (b *Bitmap) Rank(x uint32) int {
	key := uint16(x >> 16)
	i, ok := b.find(key)
	n := 0
	for k := 0; k < i; k++ {
		n += b.cs[k].count()
	}
	if ok {
		n += b.cs[i].rank(uint16(x))
	}
	return n
}

// Select returns the i-th smallest value (0-indexed).
// The second result is false when i is out of range.
func (b *Bitmap) Select(i int) (uint32, bool) {
	if i < 0 {
		return 0, false
	}
	for k, c := range b.cs {
		n := c.count()
		if i < n {
			return uint32(b.keys[k])<<16 | uint32(c.selectAt(i)), true
		}
		i -= n
	}
	return 0, false
}

// Limit returns a new bitmap holding the k smallest values of b.
// When k >= Count() the result equals b.
func (b *Bitmap) Limit(k int) *Bitmap {
	if k <= 0 {
		return New()
	}
	out := New()
	for i, c := range b.cs {
		n := c.count()
		if k >= n {
			out.keys = append(out.keys, b.keys[i])
			out.cs = append(out.cs, c.clone())
			k -= n
			if k == 0 {
				break
			}
			continue
		}
		out.keys = append(out.keys, b.keys[i])
		out.cs = append(out.cs, c.prefix(k))
		break
	}
	return out
}

// NextAbsent returns the smallest value >= x that is not in the set.
// The result is 2^32 when every value in [x, 2^32) is present.
func (b *Bitmap) NextAbsent(x uint32) uint64 {
	key := uint16(x >> 16)
	i, ok := b.find(key)
	if !ok {
		return uint64(x)
	}
	if v, found := b.cs[i].nextClear(uint32(x & 0xffff)); found {
		return uint64(key)<<16 | uint64(v)
	}
	// The rest of this container is full; scan forward from the next one.
	for k := uint32(key) + 1; ; k++ {
		if k == 1<<16 {
			return maxSpan
		}
		j, ok := b.find(uint16(k))
		if !ok {
			return uint64(k) << 16
		}
		if v, found := b.cs[j].nextClear(0); found {
			return uint64(k)<<16 | uint64(v)
		}
	}
}

// PrevAbsent returns the largest value <= x that is not in the set.
// The result is -1 when every value in [0, x] is present.
func (b *Bitmap) PrevAbsent(x uint32) int64 {
	key := uint16(x >> 16)
	i, ok := b.find(key)
	if !ok {
		return int64(x)
	}
	if v, found := b.cs[i].prevClear(uint32(x & 0xffff)); found {
		return int64(key)<<16 | int64(v)
	}
	for k := int32(key) - 1; ; k-- {
		if k < 0 {
			return -1
		}
		j, ok := b.find(uint16(k))
		if !ok {
			return int64(k)<<16 | 0xffff
		}
		if v, found := b.cs[j].prevClear(containerSpan - 1); found {
			return int64(k)<<16 | int64(v)
		}
	}
}
