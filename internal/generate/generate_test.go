package generate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmapRejectsNonPositiveBound(t *testing.T) {
	src := New()
	for _, maxKeys := range []int{0, -1} {
		_, err := src.Bitmap(maxKeys)
		assert.Error(t, err, "maxKeys=%d", maxKeys)
	}
}

func TestBitmapNeverDegenerate(t *testing.T) {
	src := NewSeeded(1)
	for i := 0; i < 50; i++ {
		b, err := src.Bitmap(8)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, b.Count(), 2)

		first, ok := b.First()
		require.True(t, ok)
		last, ok := b.Last()
		require.True(t, ok)
		assert.Less(t, first, last)
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	src := NewSeeded(2)
	a, err := src.Bitmap(16)
	require.NoError(t, err)
	b, err := src.Bitmap(16)
	require.NoError(t, err)

	before := b.Count()
	a.AddRange(0, 1000)
	assert.Equal(t, before, b.Count())
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	s1 := NewSeeded(42)
	s2 := NewSeeded(42)
	for i := 0; i < 10; i++ {
		a, err := s1.Bitmap(32)
		require.NoError(t, err)
		b, err := s2.Bitmap(32)
		require.NoError(t, err)
		assert.True(t, a.Equal(b), "iteration %d", i)
	}
}

func TestConcurrentGeneration(t *testing.T) {
	src := NewSeeded(3)
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := src.Bitmap(8); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent generation: %v", err)
	}
}
