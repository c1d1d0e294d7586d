// Package probe generates the shell-probe sequence used by extended
// (multi-probe) queries: the remainder-zero lattice points closest to the
// origin out to a given number of shells, fanned out into their full
// n+1-point orbits, and compiled into a compact diff stream.
package probe

import (
	"errors"
	"math"
)

// MaxNumShells is the largest number of extended shells supported. It is
// bounded by the size of the precomputed probesF table.
const MaxNumShells = 30

// maxZeroProbesPerShell bounds the initial size hint for the per-shell
// dedup set. Go's dynamic slices grow past this if a shell genuinely has
// more remainder-zero probes than expected; no practical system is ever
// expected to reach it.
const maxZeroProbesPerShell = 16 * 1024

// ErrInvalidNumShells is returned when numShells exceeds MaxNumShells.
var ErrInvalidNumShells = errors.New("probe: num_shells exceeds MaxNumShells")

// ErrInconsistentProbeCount is returned if probe generation produces a
// different number of probes than NumProbes predicted. This should never
// happen; it exists as a consistency check, not an expected runtime error.
var ErrInconsistentProbeCount = errors.New("probe: generated probe count does not match prediction")

// probesF[n][k] is the number of remainder-zero probes for n dimensions
// (n <= k) and k extended shells beyond the n-th. Empirically validated for
// all k <= 10 and all n <= 512; checked and asserted every time a probe set
// is generated. Interestingly, the number of remainder-0 probes per shell is
// independent of dimensionality for n > k. Update with extreme caution.
var probesF = [][]uint64{
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31},
	{4, 6, 7, 9, 10, 12, 14, 16, 18, 21, 23, 25, 26, 28, 30, 32, 34, 38, 40, 41, 43, 45, 47, 48, 50, 52, 56, 58, 60},
	{7, 8, 11, 14, 17, 21, 25, 27, 29, 36, 39, 44, 50, 52, 56, 63, 66, 70, 77, 82, 90, 95, 99, 103, 111, 116, 122, 129},
	{12, 14, 20, 25, 32, 37, 49, 55, 67, 73, 83, 94, 110, 117, 137, 152, 164, 176, 198, 208, 233, 245, 265, 283, 313, 323, 355},
	{19, 24, 33, 43, 55, 67, 81, 101, 121, 142, 165, 189, 213, 245, 274, 309, 345, 389, 436, 474, 521, 570, 622, 677, 735, 794},
	{30, 38, 53, 69, 90, 111, 139, 163, 207, 243, 292, 337, 400, 449, 523, 587, 672, 744, 849, 931, 1064, 1176, 1296, 1416, 1581},
	{45, 59, 81, 107, 139, 176, 221, 268, 324, 399, 476, 565, 667, 778, 902, 1044, 1191, 1358, 1540, 1736, 1946, 2188, 2437, 2725},
	{67, 88, 121, 159, 209, 265, 337, 414, 510, 609, 751, 890, 1067, 1247, 1475, 1704, 1992, 2276, 2633, 2976, 3406, 3816, 4335},
	{97, 129, 175, 232, 303, 388, 494, 615, 762, 927, 1117, 1359, 1626, 1928, 2278, 2678, 3121, 3632, 4197, 4835, 5550, 6324},
	{139, 184, 250, 329, 431, 552, 706, 882, 1102, 1350, 1647, 1977, 2407, 2859, 3411, 4016, 4736, 5513, 6448, 7438, 8620},
	{195, 260, 349, 460, 600, 771, 984, 1237, 1547, 1910, 2342, 2840, 3423, 4128, 4928, 5852, 6912, 8128, 9507, 11085},
	{272, 360, 482, 632, 824, 1056, 1350, 1697, 2129, 2635, 3247, 3956, 4803, 5760, 6948, 8268, 9828, 11585, 13653},
	{373, 494, 656, 859, 1114, 1429, 1821, 2294, 2876, 3570, 4405, 5392, 6566, 7924, 9520, 11425, 13603, 16127},
	{508, 669, 885, 1152, 1492, 1907, 2429, 3056, 3833, 4758, 5883, 7211, 8807, 10662, 12865, 15405, 18459},
	{684, 899, 1180, 1533, 1975, 2522, 3202, 4028, 5043, 6266, 7744, 9508, 11622, 14108, 17057, 20501},
	{915, 1195, 1563, 2019, 2595, 3302, 4185, 5253, 6573, 8157, 10083, 12379, 15145, 18401, 22288},
	{1212, 1579, 2051, 2642, 3380, 4292, 5421, 6798, 8486, 10526, 12996, 15958, 19515, 23733},
	{1597, 2068, 2676, 3430, 4375, 5535, 6977, 8726, 10877, 13469, 16617, 20384, 24924},
	{2087, 2694, 3466, 4428, 5623, 7098, 8916, 11132, 13842, 17120, 21085, 25849},
	{2714, 3485, 4466, 5679, 7191, 9044, 11333, 14112, 17515, 21618, 26592},
	{3506, 4486, 5719, 7250, 9142, 11468, 14324, 17800, 22035, 27155},
	{4508, 5740, 7292, 9204, 11571, 14466, 18023, 22335, 27594},
	{5763, 7314, 9248, 11636, 14574, 18172, 22569, 27909},
	{7338, 9271, 11682, 14642, 18285, 22725, 28154},
	{9296, 11706, 14690, 18356, 22843, 28317},
	{11732, 14715, 18406, 22917, 28440},
	{14742, 18432, 22969, 28517},
	{18460, 22996, 28571},
	{23025, 28599},
	{28629},
}

// NumZeroProbes returns the number of remainder-zero probes for dim
// dimensions and numShells extended shells.
func NumZeroProbes(dim, numShells int) (int, error) {
	if numShells < 0 || numShells > MaxNumShells {
		return 0, ErrInvalidNumShells
	}
	d := dim
	if d > numShells {
		d = numShells
	}
	return int(probesF[d][numShells-d]), nil
}

// NumProbes returns the total number of probes (remainder-zero probes times
// their full n+1-point orbits) for dim dimensions and numShells shells.
func NumProbes(dim, numShells int) (int, error) {
	z, err := NumZeroProbes(dim, numShells)
	if err != nil {
		return 0, err
	}
	return (dim + 1) * z, nil
}

// move decomposes a successor label into the pair of dimensions (i, j) to
// increment and decrement respectively, enumerating moves in order of
// increasing total weight: label 0 is (0,0), labels 1-2 are weight 1,
// labels 3-5 are weight 2, and so on. k is recovered from label via the
// closed-form triangular-number inverse, then corrected against rounding
// error with a short integer search.
func move(label uint64) (i, j uint16) {
	const eta = 10e-6

	est := math.Sqrt(2*float64(label)+2.25) - 1.5 - eta
	var k uint64
	if est > 0 {
		k = uint64(math.Ceil(est))
	}

	for k*(k+3)/2 < label {
		k++
	}
	for k > 0 && k*(k+1)/2 > label {
		k--
	}

	l := k * (k + 3) / 2
	i = uint16(l - label)
	j = uint16(k - uint64(i))
	return i, j
}

// probePoint is a candidate remainder-zero lattice point in the search
// frontier: its c-vector and the move label it was spawned from (so its own
// descendants only explore labels >= its own, avoiding duplicate moves).
type probePoint struct {
	code  []int32
	label uint64
}

// zeroProbe is a remainder-zero probe found by generateZeroProbes, in the
// order it was discovered (shell-ascending).
type zeroProbe struct {
	shellCost int64
	code      []int32
}

// generateZeroProbes performs the priority-queue-driven breadth-first
// search over c-vector space for the remainder-zero lattice points closest
// to the origin, out to numShells extended shells.
//
// The search cost here is the real (non-negative, shell-ascending) analogue
// of the signed "negative of cost" quantity used to drive a max-heap in the
// reference algorithm: this implementation pops a genuine min-heap ordered
// by ascending real cost, so the costs here are never negated.
func generateZeroProbes(dim, numShells int) ([]zeroProbe, error) {
	dimp := dim + 1

	seen := newCostSet(numShells + 1)
	pq := newProbeQueue()
	points := newPointSet(dim, maxZeroProbesPerShell)

	zero := &probePoint{code: make([]int32, dimp)}
	seen.PushUniqueSmall(0)
	pq.PushItem(zero, 0)

	var results []zeroProbe

	cost := int64(-1)
	shellsToGo := numShells

	lMax := uint64(dimp) * uint64(dim)
	lSwp := lMax / 2

	for pq.Len() > 0 {
		pp, probeCost := pq.PopItem()

		if probeCost > cost {
			points.Clear()
			cost = probeCost
			shellsToGo--
			if shellsToGo < -1 {
				break
			}
		}

		if !points.Insert(pp.code) {
			continue
		}

		results = append(results, zeroProbe{
			shellCost: cost,
			code:      append([]int32(nil), pp.code...),
		})

		for l := pp.label; l < lMax; l++ {
			var incDim, decDim int
			if l < lSwp {
				li, lj := move(l)
				incDim = dim - int(li)
				decDim = int(lj)
			} else {
				ll := lMax - 1 - l
				lli, llj := move(ll)
				incDim = int(lli)
				decDim = dim - int(llj)
			}

			oldI := pp.code[incDim]
			if oldI < 0 {
				continue
			}
			oldJ := pp.code[decDim]
			if oldJ > 0 {
				continue
			}

			newCost := cost + int64(dimp)*int64(oldI-oldJ+1) + int64(decDim) - int64(incDim)

			if seen.PushUniqueSmall(newCost) {
				newCode := append([]int32(nil), pp.code...)
				newCode[incDim]++
				newCode[decDim]--
				pq.PushItem(&probePoint{code: newCode, label: l}, newCost)
			}
		}
	}

	return results, nil
}

// GenerateProbes generates the full set of probes for dim dimensions and
// numShells extended shells: every remainder-zero probe, fanned out into
// its full n+1-point orbit. The result is a flat []int32 of
// NumProbes(dim,numShells)*(dim+1) elements, arranged in blocks of dim+1
// c-vectors per orbit, ordered remainder-0 .. remainder-dim within a block
// and shell-ascending across blocks.
func GenerateProbes(dim, numShells int) ([]int32, error) {
	numProbes, err := NumProbes(dim, numShells)
	if err != nil {
		return nil, err
	}
	dimp := dim + 1

	zeroProbes, err := generateZeroProbes(dim, numShells)
	if err != nil {
		return nil, err
	}

	probes := make([]int32, numProbes*dimp)
	pos := 0
	for _, zp := range zeroProbes {
		if pos+dimp*dimp > len(probes) {
			return nil, ErrInconsistentProbeCount
		}

		copy(probes[pos:pos+dimp], zp.code)
		pos += dimp

		for k := 1; k < dimp; k++ {
			prev := probes[pos-dimp : pos]
			copy(probes[pos+1:pos+dimp], prev[:dim])
			probes[pos] = prev[dim] - 1
			pos += dimp
		}
	}

	if pos != len(probes) {
		return nil, ErrInconsistentProbeCount
	}

	return probes, nil
}
