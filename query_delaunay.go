package astarnn

import (
	"context"
	"time"

	"github.com/ropeless/astarnn/internal/hashkernel"
	latticeLib "github.com/ropeless/astarnn/internal/lattice"
)

// Delaunay finds the n+1 lattice points forming the vertices of the
// Delaunay cell containing v, and reports each through cb in visiting
// order (the first is always the remainder-0 vertex). v must have length
// Dim().
func (e *Engine) Delaunay(ctx context.Context, v []float64, cb Callback) error {
	return e.delaunay(ctx, v, cb)
}

func (e *Engine) delaunay(ctx context.Context, v []float64, cb Callback) (err error) {
	start := time.Now()
	matches := 0
	defer func() {
		e.logger.LogQuery(ctx, "delaunay", matches, time.Since(start), err)
		e.metrics.RecordQuery("delaunay", matches, time.Since(start), err)
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
	xmod, err := allocFloat64(arena, e.n+1)
	if err != nil {
		return err
	}
	order, err := allocUint16(arena, e.n+1)
	if err != nil {
		return err
	}
	sortord, err := allocUint16(arena, e.n+1)
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
	latticeLib.DelaunayOrigin(e.n, latticePoint, xmod, c, order, sortord)

	var hash uint64
	if needHash {
		hash = hashkernel.Hash(e.n, c)
	}

	if cerr := emit(hash, 0, c); cerr != nil {
		return propagateCallbackError(cerr)
	}
	matches++

	for k := 1; k <= e.n; k++ {
		c[order[k-1]]--

		if needHash {
			hash = hashkernel.Hash(e.n, c)
		}

		if cerr := emit(hash, int32(k), c); cerr != nil {
			return propagateCallbackError(cerr)
		}
		matches++
	}

	return nil
}
