package astarnn

import (
	latticeLib "github.com/ropeless/astarnn/internal/lattice"
)

// Callback is the common shape every query result consumer implements.
// Init is called once at the start of a query, before any probes are
// reported, so a reusable collector can reset its state.
type Callback interface {
	Init()
}

// FullCallback receives every piece of information about each probe: its
// hash code, its remainder value k, and its c-vector.
type FullCallback interface {
	Callback
	OnProbe(hash uint64, k int32, c []int32) error
}

// HashCallback receives only the hash code of each probe. Implement this
// when the caller only needs bucket keys. The query still maintains each
// probe's c-vector internally; it is just not passed on.
type HashCallback interface {
	Callback
	OnProbe(hash uint64) error
}

// CVectorCallback receives the remainder value and c-vector of each probe,
// without the hash being computed on its behalf.
type CVectorCallback interface {
	Callback
	OnProbe(k int32, c []int32) error
}

// PointCallback receives each probe mapped back into the original
// n-dimensional vector space (the caller's coordinate system), rather than
// the lattice's internal c-vector representation.
type PointCallback interface {
	Callback
	OnProbe(point []float64) error
}

// emitFunc is the closure a query loop calls once per probe found. Exactly
// one of the four Callback shapes above drives it, resolved once per query
// by resolveCallback rather than re-dispatched per probe.
type emitFunc func(hash uint64, k int32, c []int32) error

// resolveCallback inspects which of the four sealed shapes cb implements
// and returns a single emit closure for the whole query, plus whether the
// query loop needs to maintain a running hash at all. latticeBuf and
// pointBuf are scratch space only PointCallback uses, owned by the caller.
func resolveCallback(e *Engine, cb Callback, scale float64, latticeBuf, pointBuf []float64) (emit emitFunc, needHash bool, err error) {
	switch v := cb.(type) {
	case FullCallback:
		return func(hash uint64, k int32, c []int32) error {
			return v.OnProbe(hash, k, c)
		}, true, nil

	case HashCallback:
		return func(hash uint64, k int32, c []int32) error {
			return v.OnProbe(hash)
		}, true, nil

	case CVectorCallback:
		return func(hash uint64, k int32, c []int32) error {
			return v.OnProbe(k, c)
		}, false, nil

	case PointCallback:
		return func(hash uint64, k int32, c []int32) error {
			latticeLib.CVectorKToPoint(e.n, c, k, latticeBuf)
			latticeLib.FromLatticeSpace(e.n, scale, latticeBuf, pointBuf)
			return v.OnProbe(pointBuf)
		}, false, nil

	default:
		return nil, false, errUnknown("callback does not implement FullCallback, HashCallback, CVectorCallback or PointCallback")
	}
}

// Probe is one reported probe in a FullCallback-driven query, as collected
// by KeepProbes.
type Probe struct {
	Hash uint64
	K    int32
	C    []int32
}

// KeepHashes is a ready-made HashCallback that collects every hash code
// reported during a query.
type KeepHashes struct {
	Hashes []uint64
}

func (k *KeepHashes) Init() { k.Hashes = k.Hashes[:0] }

func (k *KeepHashes) OnProbe(hash uint64) error {
	k.Hashes = append(k.Hashes, hash)
	return nil
}

// CVector is the remainder value and c-vector of one probe, as collected by
// KeepCVectors.
type CVector struct {
	K int32
	C []int32
}

// KeepCVectors is a ready-made CVectorCallback that collects the remainder
// value and c-vector of every probe reported during a query.
type KeepCVectors struct {
	Probes []CVector
}

func (k *KeepCVectors) Init() { k.Probes = k.Probes[:0] }

func (k *KeepCVectors) OnProbe(kk int32, c []int32) error {
	k.Probes = append(k.Probes, CVector{K: kk, C: append([]int32(nil), c...)})
	return nil
}

// KeepProbes is a ready-made FullCallback that collects every probe (hash,
// remainder value and c-vector) reported during a query.
type KeepProbes struct {
	Probes []Probe
}

func (k *KeepProbes) Init() { k.Probes = k.Probes[:0] }

func (k *KeepProbes) OnProbe(hash uint64, kk int32, c []int32) error {
	k.Probes = append(k.Probes, Probe{Hash: hash, K: kk, C: append([]int32(nil), c...)})
	return nil
}

// KeepPoints is a ready-made PointCallback that collects every probe,
// mapped back into the original n-dimensional vector space.
type KeepPoints struct {
	Points [][]float64
}

func (k *KeepPoints) Init() { k.Points = k.Points[:0] }

func (k *KeepPoints) OnProbe(point []float64) error {
	k.Points = append(k.Points, append([]float64(nil), point...))
	return nil
}
