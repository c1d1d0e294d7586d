package astarnn

import (
	"context"
	"time"

	"github.com/ropeless/astarnn/internal/hashkernel"
	latticeLib "github.com/ropeless/astarnn/internal/lattice"
)

// Nearest finds the single A* lattice point closest to v (the containing
// Voronoi cell) and reports it through cb. v must have length Dim().
func (e *Engine) Nearest(ctx context.Context, v []float64, cb Callback) error {
	return e.nearest(ctx, v, cb)
}

// NearestHash is a convenience wrapper around Nearest for callers who only
// need the hash code of the closest lattice point.
func (e *Engine) NearestHash(v []float64) (uint64, error) {
	var kept KeepHashes
	if err := e.Nearest(context.Background(), v, &kept); err != nil {
		return 0, err
	}
	return kept.Hashes[0], nil
}

func (e *Engine) nearest(ctx context.Context, v []float64, cb Callback) (err error) {
	start := time.Now()
	matches := 0
	defer func() {
		e.logger.LogQuery(ctx, "nearest", matches, time.Since(start), err)
		e.metrics.RecordQuery("nearest", matches, time.Since(start), err)
	}()

	if err = e.checkOpen(); err != nil {
		return err
	}
	if len(v) != e.n {
		return errUnknown("vector length does not match engine dimension")
	}
	if err = e.waitRateLimit(ctx); err != nil {
		return err
	}

	arena := e.getArena()
	defer e.putArena(arena)

	latticePoint, err := allocFloat64(arena, e.n+1)
	if err != nil {
		return err
	}
	c, err := allocInt32(arena, e.n+1)
	if err != nil {
		return err
	}
	z, err := allocFloat64(arena, e.n+1)
	if err != nil {
		return err
	}
	link, err := allocInt32(arena, e.n+1)
	if err != nil {
		return err
	}
	bucket, err := allocInt32(arena, e.n+1)
	if err != nil {
		return err
	}
	pointBuf, err := allocFloat64(arena, e.n)
	if err != nil {
		return err
	}

	cb.Init()
	emit, needHash, err := resolveCallback(e, cb, e.scale, latticePoint, pointBuf)
	if err != nil {
		return err
	}

	latticeLib.ToLatticeSpace(e.n, e.scale, v, latticePoint)
	k := latticeLib.ClosestPoint(e.n, latticePoint, c, z, link, bucket)

	var hash uint64
	if needHash {
		hash = hashkernel.Hash(e.n, c)
	}

	if cerr := emit(hash, k, c); cerr != nil {
		return propagateCallbackError(cerr)
	}
	matches = 1
	return nil
}
