package astarnn

import (
	"context"
	"time"

	"github.com/ropeless/astarnn/internal/hashkernel"
	latticeLib "github.com/ropeless/astarnn/internal/lattice"
	"github.com/ropeless/astarnn/internal/probe"
)

// Extended finds every lattice point within the engine's configured number
// of shells of the Delaunay hole nearest v, for multi-probe LSH, and reports
// each through cb. The first probe reported is always the Delaunay origin
// found by Delaunay. v must have length Dim().
func (e *Engine) Extended(ctx context.Context, v []float64, cb Callback) error {
	return e.extended(ctx, v, cb)
}

func (e *Engine) extended(ctx context.Context, v []float64, cb Callback) (err error) {
	start := time.Now()
	matches := 0
	defer func() {
		e.logger.LogQuery(ctx, "extended", matches, time.Since(start), err)
		e.metrics.RecordQuery("extended", matches, time.Since(start), err)
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
	orderedPowers, err := allocUint64(arena, e.n+1)
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

	if needHash {
		e.hashCache.OrderedPowers(e.n, order, orderedPowers)
	}

	var hash uint64
	if needHash {
		hash = hashkernel.Hash(e.n, c)
	}

	if cerr := emit(hash, 0, c); cerr != nil {
		return propagateCallbackError(cerr)
	}
	matches++

	stream := e.diffStream
	pos := 0
	for i := 1; i < e.numProbes; i++ {
		k := int32(stream[pos])
		pos++

		for stream[pos] != probe.StreamMark {
			diffCol := stream[pos]
			col := order[diffCol]
			c[col]--
			if needHash {
				hash -= orderedPowers[diffCol]
			}
			pos++
		}
		pos++

		for stream[pos] != probe.StreamMark {
			diffCol := stream[pos]
			col := order[diffCol]
			c[col]++
			if needHash {
				hash += orderedPowers[diffCol]
			}
			pos++
		}
		pos++

		if cerr := emit(hash, k, c); cerr != nil {
			return propagateCallbackError(cerr)
		}
		matches++
	}

	return nil
}
