// Package lattice implements the geometry of the A* lattice: mapping
// vectors into and out of its (n+1)-dimensional representation space, and
// the two core point-finding algorithms (closest lattice point, and the
// remainder-0 vertex of the containing Delaunay simplex).
//
// Every function here takes its scratch buffers as explicit slice
// parameters, each pre-sized to n+1 elements by the caller. This mirrors the
// reference implementation's practice of passing a stack-scoped work-buffer
// down into every transient array use, without coupling this package to any
// particular arena implementation.
package lattice

import (
	"math"
	"sort"
)

// Rho returns the native packing radius of the A* lattice in n dimensions.
func Rho(n int) float64 {
	nf := float64(n)
	return math.Sqrt(nf*(nf+1.0)) / 2.0
}

// RoundHalfUp rounds x to the nearest int32, with ties (exact .5) rounding
// up. This matches floor(x + 0.5) for every finite x, including negative
// values, and is the rounding primitive every lattice computation below
// relies on.
func RoundHalfUp(x float64) int32 {
	x += 0.5
	i := int32(x)
	if x < float64(i) {
		i--
	}
	return i
}

// ToLatticeSpace lifts the n-vector v into the (n+1)-vector representation
// space of the A* lattice, scaling by scale. out must have length n+1.
func ToLatticeSpace(n int, scale float64, v []float64, out []float64) {
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += v[i]
	}

	norm := math.Sqrt(float64(n + 1))
	vn := -sum / norm
	t := (vn + sum) / float64(n)

	for i := 0; i < n; i++ {
		out[i] = scale * (v[i] - t)
	}
	out[n] = scale * vn
}

// FromLatticeSpace is the inverse of ToLatticeSpace. v has length n+1, out
// has length n.
func FromLatticeSpace(n int, scale float64, v []float64, out []float64) {
	norm := math.Sqrt(float64(n + 1))
	t := v[n] * (norm - float64(n+1)) / float64(n) / norm

	for i := 0; i < n; i++ {
		out[i] = (v[i] + t) / scale
	}
}

// CVectorKToPoint computes the representation-space coordinates of the
// lattice point identified by (c, k). out must have length n+1.
func CVectorKToPoint(n int, c []int32, k int32, out []float64) {
	dimp := int32(n + 1)
	for i := 0; i <= n; i++ {
		out[i] = -float64(c[i]*dimp + k)
	}
}

// CVectorToPoint derives k from c (k = (-sum(c)) mod (n+1)) and computes the
// representation-space coordinates. out must have length n+1.
func CVectorToPoint(n int, c []int32, out []float64) {
	dimp := int32(n + 1)
	var sum int32
	for i := 0; i <= n; i++ {
		sum -= c[i]
	}
	k := ((sum % dimp) + dimp) % dimp
	for i := 0; i <= n; i++ {
		out[i] = -float64(c[i]*dimp + k)
	}
}

// endSentinel marks an empty bucket chain in ClosestPoint's block sort.
const endSentinel int32 = -1

// ClosestPoint finds the lattice point closest to v (v already mapped into
// lattice space, length n+1) using the McKilliam-Clarkson-Smith-Quinn
// bucket-sort algorithm. Result is written to c (length n+1) and returned
// as k. z, link and bucket are scratch buffers, each of length n+1.
func ClosestPoint(n int, v []float64, c []int32, z []float64, link []int32, bucket []int32) int32 {
	dimp := n + 1
	dimpd := float64(dimp)

	for i := range bucket[:dimp] {
		bucket[i] = endSentinel
	}

	sum := int32(0)
	alpha := 0.0
	beta := 0.0

	for i := 0; i < dimp; i++ {
		y := v[i] / dimpd
		cRound := RoundHalfUp(y)
		zi := y - float64(cRound)

		sum += cRound
		c[i] = cRound
		z[i] = zi
		alpha += zi
		beta += zi * zi

		bi := n - int(dimpd*(zi+0.5))
		link[i] = bucket[bi]
		bucket[bi] = int32(i)
	}

	D := beta*dimpd - alpha*alpha

	m := -1 // index into bucket of the best split found, -1 means "none"
	for bi := 0; bi < dimp; bi++ {
		t := bucket[bi]
		if t == endSentinel {
			continue
		}
		for t != endSentinel {
			alpha -= 1.0
			beta += 1.0 - 2.0*z[t]
			t = link[t]
		}
		d := beta*dimpd - alpha*alpha
		if d < D {
			D = d
			m = bi
		}
	}

	for bi := 0; bi <= m; bi++ {
		t := bucket[bi]
		for t != endSentinel {
			c[t]++
			sum++
			t = link[t]
		}
	}

	k := ((-sum % int32(dimp)) + int32(dimp)) % int32(dimp)
	sK := (sum + k) / int32(dimp)

	for i := 0; i < dimp; i++ {
		c[i] -= sK
	}

	return k
}

// residualOrder implements sort.Interface, permuting ord so that
// vals[ord[i]] is non-decreasing.
type residualOrder struct {
	vals []float64
	ord  []uint16
}

func (r residualOrder) Len() int           { return len(r.ord) }
func (r residualOrder) Less(i, j int) bool { return r.vals[r.ord[i]] < r.vals[r.ord[j]] }
func (r residualOrder) Swap(i, j int)      { r.ord[i], r.ord[j] = r.ord[j], r.ord[i] }

func sortOrderBy(vals []float64, ord []uint16) {
	sort.Stable(residualOrder{vals: vals, ord: ord})
}

// DelaunayOrigin finds the remainder-0 vertex of the Delaunay simplex
// containing v (v already mapped into lattice space, length n+1). It writes
// the residuals into xmod, the c-vector into c, and the vertex-visit order
// into order (all length n+1). sortord is a scratch buffer of length n+1.
//
// After this call, sum(c) == 0 and order gives the sequence of coordinates
// to decrement, one at a time (c[order[k-1]] for k = 1..n), to walk the
// remaining n vertices of the simplex (see the root package's delaunay query).
func DelaunayOrigin(n int, v []float64, xmod []float64, c []int32, order []uint16, sortord []uint16) {
	dimp := n + 1
	dimpd := float64(dimp)

	h := int32(0)
	for i := 0; i < dimp; i++ {
		cx := RoundHalfUp(v[i] / dimpd)
		c[i] = cx
		xmod[i] = v[i] - float64(cx)*dimpd
		h += cx
	}

	if h == 0 {
		for i := 0; i < dimp; i++ {
			order[i] = uint16(i)
		}
		sortOrderBy(xmod, order)
		return
	}

	for i := 0; i < dimp; i++ {
		sortord[i] = uint16(i)
	}
	sortOrderBy(xmod, sortord)

	if h > 0 {
		for i := 0; i < int(h); i++ {
			idx := sortord[i]
			c[idx]--
			xmod[idx] += dimpd
		}
		part := dimp - int(h)
		copy(order[:part], sortord[h:dimp])
		copy(order[part:dimp], sortord[:h])
		return
	}

	hh := int(-h)
	for i := dimp - hh; i < dimp; i++ {
		idx := sortord[i]
		c[idx]++
		xmod[idx] -= dimpd
	}
	copy(order[:hh], sortord[dimp-hh:dimp])
	copy(order[hh:dimp], sortord[:dimp-hh])
}
