// Package hashkernel implements the A* lattice's polynomial hash over
// c-vectors, plus the per-engine cache of RADIX powers that makes
// incremental probe hashing cheap.
package hashkernel

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Radix is the polynomial hash base.
const Radix uint64 = 31

// Hash computes the polynomial hash of the (n+1)-element c-vector c:
//
//	sum(c[i] * Radix^i for i in 0..=n)
//
// with uint64 wraparound arithmetic. Each c[i] is widened to uint64 via an
// int64 cast first, reproducing two's-complement sign extension for negative
// components.
func Hash(n int, c []int32) uint64 {
	var hash uint64
	mul := uint64(1)
	for i := 0; i <= n; i++ {
		hash += uint64(int64(c[i])) * mul
		mul *= Radix
	}
	return hash
}

// Cache holds a growing table of Radix powers, shared by every query run
// against one Engine. Growing the table (on first use of a new, larger n)
// is serialized with singleflight so concurrent queries against an engine
// under construction don't duplicate the work or race on the backing slice.
type Cache struct {
	group singleflight.Group

	mu     sync.RWMutex
	powers []uint64 // powers[i] == Radix^i
}

// NewCache returns an empty Cache. Powers are computed lazily on first use.
func NewCache() *Cache {
	return &Cache{powers: []uint64{1}}
}

// Powers returns Radix^0..Radix^n as a slice of length n+1. The returned
// slice is owned by the cache and must not be mutated by the caller.
func (c *Cache) Powers(n int) []uint64 {
	need := n + 1

	for {
		c.mu.RLock()
		if len(c.powers) >= need {
			p := c.powers[:need]
			c.mu.RUnlock()
			return p
		}
		c.mu.RUnlock()

		// A caller that joins a grow already in flight for a smaller n gets
		// that grow's result, so the length is checked again.
		_, _, _ = c.group.Do("grow", func() (interface{}, error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			for len(c.powers) < need {
				c.powers = append(c.powers, c.powers[len(c.powers)-1]*Radix)
			}
			return nil, nil
		})
	}
}

// OrderedPowers writes Powers(n)[order[i]] into out[i] for i in 0..=n, so
// that out[i] is the hash weight of the vertex visited at step i of an
// extended-probe walk ordered by order. out must have length n+1.
func (c *Cache) OrderedPowers(n int, order []uint16, out []uint64) {
	powers := c.Powers(n)
	for i := 0; i <= n; i++ {
		out[i] = powers[order[i]]
	}
}
