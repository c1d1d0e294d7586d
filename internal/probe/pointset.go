package probe

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/ropeless/astarnn/internal/hashkernel"
)

// pointSet deduplicates c-vectors seen while searching one shell. It is an
// open-chaining hash set keyed by the polynomial hash of the c-vector, with
// a bitset presence prefilter in front of the chain walk: most probe-point
// collisions in one shell are never seen twice, so a single bit test avoids
// walking (and in the common case, even touching) the chain for them.
type pointSet struct {
	dim     int
	mask    uint64
	present *bitset.BitSet
	buckets [][]int32
	entries [][]int32
	size    int
}

// newPointSet creates a pointSet sized for roughly capacity entries. This is
// a sizing hint, not a hard limit: Go's slices grow past it if a shell
// genuinely produces more distinct points than expected.
func newPointSet(dim, capacity int) *pointSet {
	memSize := nextPowerOfTwo(uint64(capacity) << 1)
	if memSize == 0 {
		memSize = 1
	}
	return &pointSet{
		dim:     dim,
		mask:    memSize - 1,
		present: bitset.New(uint(memSize)),
		buckets: make([][]int32, memSize),
	}
}

func nextPowerOfTwo(val uint64) uint64 {
	if val == 0 {
		return 0
	}
	val--
	val |= val >> 1
	val |= val >> 2
	val |= val >> 4
	val |= val >> 8
	val |= val >> 16
	val |= val >> 32
	val++
	return val
}

// Clear empties the set for reuse on the next shell.
func (p *pointSet) Clear() {
	for i := range p.buckets {
		p.buckets[i] = p.buckets[i][:0]
	}
	p.entries = p.entries[:0]
	p.present.ClearAll()
	p.size = 0
}

// Insert adds c to the set. It returns true if c was not already present.
func (p *pointSet) Insert(c []int32) bool {
	h := hashkernel.Hash(p.dim, c)
	idx := h & p.mask

	if p.present.Test(uint(idx)) {
		for _, ei := range p.buckets[idx] {
			if equalCVector(p.entries[ei], c) {
				return false
			}
		}
	}

	entry := append([]int32(nil), c...)
	p.entries = append(p.entries, entry)
	ei := int32(len(p.entries) - 1)
	p.buckets[idx] = append(p.buckets[idx], ei)
	p.present.Set(uint(idx))
	p.size++
	return true
}

func equalCVector(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
