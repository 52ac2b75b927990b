package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAlgebra(t *testing.T) {
	a := Of(1, 2, 3, 70000)
	b := Of(2, 3, 4, 80000)

	assert.True(t, And(a, b).Equal(Of(2, 3)))
	assert.True(t, Or(a, b).Equal(Of(1, 2, 3, 4, 70000, 80000)))
	assert.True(t, Xor(a, b).Equal(Of(1, 4, 70000, 80000)))
	assert.True(t, AndNot(a, b).Equal(Of(1, 70000)))
	assert.True(t, AndNot(b, a).Equal(Of(4, 80000)))
}

func TestSetAlgebraDoesNotMutateOperands(t *testing.T) {
	a := Of(1, 2, 3)
	b := Of(3, 4)

	_ = And(a, b)
	_ = Or(a, b)
	_ = Xor(a, b)
	_ = AndNot(a, b)

	assert.True(t, a.Equal(Of(1, 2, 3)))
	assert.True(t, b.Equal(Of(3, 4)))
}

func TestCardinalityFastPaths(t *testing.T) {
	a := New()
	a.AddRange(0, 6000)
	b := New()
	b.AddRange(3000, 9000)
	b.Add(1 << 20)

	assert.Equal(t, And(a, b).Count(), AndCount(a, b))
	assert.Equal(t, Or(a, b).Count(), OrCount(a, b))
	assert.Equal(t, Xor(a, b).Count(), XorCount(a, b))

	assert.Equal(t, 3000, AndCount(a, b))
	assert.Equal(t, 9001, OrCount(a, b))
	assert.Equal(t, 6001, XorCount(a, b))
}

func TestDisjointCardinalities(t *testing.T) {
	a := Of(1, 2, 3)
	b := Of(10, 20, 1<<22)

	require.Equal(t, 0, AndCount(a, b))
	assert.Equal(t, a.Count()+b.Count(), OrCount(a, b))
	assert.Equal(t, a.Count()+b.Count(), XorCount(a, b))
}

func TestXorEqualsAndNotOfOrAnd(t *testing.T) {
	a := New()
	a.AddRange(0, 5000)
	a.Add(1 << 30)
	b := New()
	b.AddRange(2500, 7500)

	left := Xor(a, b)
	right := AndNot(Or(a, b), And(a, b))
	assert.True(t, left.Equal(right))
}

func TestContainsAll(t *testing.T) {
	s := New()
	s.AddRange(0, 10000)
	sub := Of(0, 500, 9999)

	assert.True(t, s.ContainsAll(sub))
	assert.True(t, s.ContainsAll(New()))
	assert.False(t, sub.ContainsAll(s))

	sub.Add(10000)
	assert.False(t, s.ContainsAll(sub))
}

func TestRangeCount(t *testing.T) {
	s := New()
	s.AddRange(100, 200)
	s.AddRange(70000, 70010)

	assert.Equal(t, 110, s.RangeCount(0, maxSpan))
	assert.Equal(t, 100, s.RangeCount(0, 70000))
	assert.Equal(t, 50, s.RangeCount(150, 60000))
	assert.Equal(t, 10, s.RangeCount(70000, 70010))
	assert.Equal(t, 0, s.RangeCount(200, 70000))
	assert.Equal(t, 0, s.RangeCount(150, 150))
	assert.Equal(t, 0, s.RangeCount(300, 100))
}
