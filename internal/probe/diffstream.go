package probe

// StreamMark is the sentinel value terminating each decrement and increment
// run in a probe diff stream.
const StreamMark uint16 = 0xFFFF

// flipIdx maps a diff-stream index to the probe index it reads from,
// reversing the order of every second orbit so that adjacent probes (in
// diff-stream order) differ by as few coordinates as possible.
func flipIdx(i, dimp, dimp2 uint64) uint64 {
	j := i % dimp2
	if j < dimp {
		return i
	}
	return i - j - j + dimp2 + dimp - 1
}

// SizeProbeStream computes the number of uint16 elements GenerateProbeDiffs
// will write for the given probes, without writing anything. probes must be
// the flat (numProbes*(dim+1))-element c-vector array from GenerateProbes.
func SizeProbeStream(dim, numProbes int, probes []int32) int {
	dimp := uint64(dim + 1)
	dimp2 := dimp * 2
	size := 3 * (numProbes - 1)

	for i := 1; i < numProbes; i++ {
		s := flipIdx(uint64(i-1), dimp, dimp2)
		t := flipIdx(uint64(i), dimp, dimp2)

		probeS := probes[s*dimp : s*dimp+dimp]
		probeT := probes[t*dimp : t*dimp+dimp]

		for d := uint64(0); d < dimp; d++ {
			diff := probeT[d] - probeS[d]
			if diff < 0 {
				diff = -diff
			}
			size += int(diff)
		}
	}
	return size
}

// GenerateProbeDiffs compiles probes into a diff stream: for each probe
// after the first, the remainder value k followed by the coordinates to
// decrement (terminated by StreamMark) followed by the coordinates to
// increment (terminated by StreamMark), walking from the previous probe (in
// flip order) to this one. stream must have length SizeProbeStream(...).
// Returns the number of elements written.
func GenerateProbeDiffs(dim, numProbes int, probes []int32, stream []uint16) int {
	dimp := uint64(dim + 1)
	dimp2 := dimp * 2
	pos := 0

	tempCols := make([]uint16, 0, int(dimp)+MaxNumShells)

	for i := 1; i < numProbes; i++ {
		s := flipIdx(uint64(i-1), dimp, dimp2)
		t := flipIdx(uint64(i), dimp, dimp2)

		probeS := probes[s*dimp : s*dimp+dimp]
		probeT := probes[t*dimp : t*dimp+dimp]

		var k uint16
		if uint64(i)%dimp2 < dimp {
			k = uint16(uint64(i) % dimp)
		} else {
			k = uint16(uint64(dim) - uint64(i)%dimp)
		}
		stream[pos] = k
		pos++

		tempCols = tempCols[:0]
		for d := uint64(0); d < dimp; d++ {
			diff := probeT[d] - probeS[d]
			switch {
			case diff < 0:
				for diff < 0 {
					stream[pos] = uint16(d)
					pos++
					diff++
				}
			case diff > 0:
				for diff > 0 {
					tempCols = append(tempCols, uint16(d))
					diff--
				}
			}
		}
		stream[pos] = StreamMark
		pos++

		for _, col := range tempCols {
			stream[pos] = col
			pos++
		}
		stream[pos] = StreamMark
		pos++
	}

	return pos
}
