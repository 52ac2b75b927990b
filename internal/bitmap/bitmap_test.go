package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsetScenario(t *testing.T) {
	s := Of(1, 3, 5, 7)
	u := Of(3, 7)

	assert.True(t, s.ContainsAll(u))
	assert.True(t, And(s, u).Equal(Of(3, 7)))
	assert.Equal(t, 2, AndCount(s, u))
	assert.True(t, Xor(s, u).Equal(Of(1, 5)))
}

func TestEmptyScenario(t *testing.T) {
	s := New()

	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, s.RangeCount(0, 100))
	assert.Equal(t, uint64(0), s.NextAbsent(0))

	_, ok := s.First()
	assert.False(t, ok)
	_, ok = s.Last()
	assert.False(t, ok)
	_, ok = s.Select(0)
	assert.False(t, ok)
}

func TestRangeScenario(t *testing.T) {
	s := New()
	s.AddRange(10, 20)

	assert.Equal(t, 10, s.Count())
	assert.Equal(t, 5, s.RangeCount(0, 15))
	assert.True(t, s.ContainsRange(10, 20))
	assert.False(t, s.ContainsRange(10, 21))
	assert.Equal(t, uint64(20), s.NextAbsent(19))
	assert.Equal(t, int64(9), s.PrevAbsent(10))
}

func TestSelfXorIsEmpty(t *testing.T) {
	s := Of(1, 3, 5, 7, 100000, 1<<31)

	assert.True(t, Xor(s, s).IsEmpty())
	assert.True(t, AndNot(Or(s, s), And(s, s)).IsEmpty())
}

func TestAddAndContains(t *testing.T) {
	s := New()
	s.Add(42)
	s.Add(42)
	s.Add(1 << 20)

	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Contains(42))
	assert.True(t, s.Contains(1<<20))
	assert.False(t, s.Contains(43))
}

func TestAddRangeAcrossContainers(t *testing.T) {
	s := New()
	// Spans three containers, with partial first and last.
	s.AddRange(65530, 140000)

	assert.Equal(t, 140000-65530, s.Count())
	assert.True(t, s.Contains(65530))
	assert.True(t, s.Contains(65536))
	assert.True(t, s.Contains(139999))
	assert.False(t, s.Contains(140000))
	assert.False(t, s.Contains(65529))
	assert.True(t, s.ContainsRange(65530, 140000))
}

func TestAddRangeClampsTo32Bits(t *testing.T) {
	s := New()
	s.AddRange(maxSpan-5, maxSpan+100)

	assert.Equal(t, 5, s.Count())
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, uint32(maxSpan-1), last)
}

func TestRankSelect(t *testing.T) {
	s := Of(2, 4, 8, 70000, 1<<30)

	assert.Equal(t, 0, s.Rank(1))
	assert.Equal(t, 1, s.Rank(2))
	assert.Equal(t, 3, s.Rank(8))
	assert.Equal(t, 3, s.Rank(69999))
	assert.Equal(t, 5, s.Rank(1<<31))

	for i, want := range []uint32{2, 4, 8, 70000, 1 << 30} {
		got, ok := s.Select(i)
		require.True(t, ok, "select(%d)", i)
		assert.Equal(t, want, got)
	}
	_, ok := s.Select(5)
	assert.False(t, ok)
}

func TestRankSelectDenseContainer(t *testing.T) {
	s := New()
	s.AddRange(0, 10000) // promotes past the array threshold

	assert.Equal(t, 10000, s.Count())
	assert.Equal(t, 5000, s.Rank(4999))
	v, ok := s.Select(4999)
	require.True(t, ok)
	assert.Equal(t, uint32(4999), v)
}

func TestFirstLast(t *testing.T) {
	s := Of(300, 5, 1<<25)

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, uint32(5), first)

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, uint32(1<<25), last)
}

func TestLimit(t *testing.T) {
	s := Of(1, 2, 3, 100000, 200000)

	assert.True(t, s.Limit(0).IsEmpty())
	assert.True(t, s.Limit(3).Equal(Of(1, 2, 3)))
	assert.True(t, s.Limit(4).Equal(Of(1, 2, 3, 100000)))
	assert.True(t, s.Limit(5).Equal(s))
	assert.True(t, s.Limit(50).Equal(s))
	assert.True(t, s.ContainsAll(s.Limit(2)))
}

func TestCloneIsIndependent(t *testing.T) {
	s := Of(1, 2, 3)
	c := s.Clone()
	c.Add(4)

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 4, c.Count())
	assert.False(t, s.Contains(4))
}

func TestEqualAcrossContainerForms(t *testing.T) {
	// Same set built by scattered adds and by a range insert: one side
	// stays in array form, the other goes through the bit-field form.
	a := New()
	for v := uint32(0); v < 5000; v++ {
		a.Add(v)
	}
	b := New()
	b.AddRange(0, 5000)

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.True(t, a.ContainsAll(b) && b.ContainsAll(a))

	b.Add(5000)
	assert.False(t, a.Equal(b))
}

func TestNextPrevAbsent(t *testing.T) {
	s := Of(0, 1, 2, 5, 6)

	assert.Equal(t, uint64(3), s.NextAbsent(0))
	assert.Equal(t, uint64(3), s.NextAbsent(3))
	assert.Equal(t, uint64(4), s.NextAbsent(4))
	assert.Equal(t, uint64(7), s.NextAbsent(5))

	assert.Equal(t, int64(-1), s.PrevAbsent(2))
	assert.Equal(t, int64(3), s.PrevAbsent(3))
	assert.Equal(t, int64(4), s.PrevAbsent(6))
	assert.Equal(t, int64(100), s.PrevAbsent(100))
}

func TestNextAbsentFullContainerBoundary(t *testing.T) {
	s := New()
	s.AddRange(0, 65536) // one full container

	assert.Equal(t, uint64(65536), s.NextAbsent(0))
	assert.Equal(t, uint64(65536), s.NextAbsent(65535))

	s.AddRange(maxSpan-65536, maxSpan) // full last container
	assert.Equal(t, uint64(maxSpan), s.NextAbsent(maxSpan-1))
	assert.Equal(t, int64(maxSpan-65536-1), s.PrevAbsent(maxSpan-1))
}

func TestIteratorAscendingAndRestartable(t *testing.T) {
	s := Of(7, 1, 99999, 3, 70000)
	want := []uint32{1, 3, 7, 70000, 99999}

	for round := 0; round < 2; round++ {
		it := s.Iterator()
		var got []uint32
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			got = append(got, v)
		}
		assert.Equal(t, want, got, "round %d", round)
	}
}

func TestIntersectsRange(t *testing.T) {
	s := Of(100, 200)

	assert.True(t, s.IntersectsRange(100, 101))
	assert.True(t, s.IntersectsRange(0, 1000))
	assert.False(t, s.IntersectsRange(101, 200))
	assert.False(t, s.IntersectsRange(150, 150))
}
