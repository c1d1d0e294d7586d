package hashkernel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashMatchesManualPolynomial(t *testing.T) {
	c := []int32{1, -2, 3, 0, -5}
	n := len(c) - 1

	var want uint64
	mul := uint64(1)
	for i := 0; i <= n; i++ {
		want += uint64(int64(c[i])) * mul
		mul *= Radix
	}

	assert.Equal(t, want, Hash(n, c))
}

func TestHashNegativeComponentSignExtends(t *testing.T) {
	c := []int32{-1}
	got := Hash(0, c)
	var want int64 = -1
	assert.Equal(t, uint64(want), got)
}

func TestCachePowersGrow(t *testing.T) {
	cache := NewCache()

	p3 := cache.Powers(3)
	assert.Len(t, p3, 4)
	assert.Equal(t, uint64(1), p3[0])
	assert.Equal(t, Radix, p3[1])
	assert.Equal(t, Radix*Radix, p3[2])
	assert.Equal(t, Radix*Radix*Radix, p3[3])

	p1 := cache.Powers(1)
	assert.Len(t, p1, 2)

	p5 := cache.Powers(5)
	assert.Len(t, p5, 6)
	assert.Equal(t, Radix*Radix*Radix*Radix*Radix, p5[5])
}

func TestCachePowersConcurrentGrowth(t *testing.T) {
	cache := NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		n := i % 10
		go func(n int) {
			defer wg.Done()
			p := cache.Powers(n)
			assert.Len(t, p, n+1)
		}(n)
	}
	wg.Wait()
}

func TestOrderedPowers(t *testing.T) {
	cache := NewCache()
	n := 3
	order := []uint16{3, 1, 0, 2}
	out := make([]uint64, n+1)
	cache.OrderedPowers(n, order, out)

	powers := cache.Powers(n)
	for i, o := range order {
		assert.Equal(t, powers[o], out[i])
	}
}
