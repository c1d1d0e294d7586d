package astarnn

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ropeless/astarnn/internal/hashkernel"
	latticeLib "github.com/ropeless/astarnn/internal/lattice"
	"github.com/ropeless/astarnn/internal/probe"
	"github.com/ropeless/astarnn/internal/workbuf"
)

// MaxNumShells returns the largest number of extended shells New will
// accept.
func MaxNumShells() int {
	return probe.MaxNumShells
}

// Rho returns the native packing radius of the A* lattice in n dimensions,
// independent of any Engine's chosen packing radius. An Engine constructed
// with New(n, rho, ...) scales the lattice by rho/Rho(n).
func Rho(n int) float64 {
	return latticeLib.Rho(n)
}

// ToLatticeSpace lifts the n-vector v into the (n+1)-vector representation
// space of the A* lattice scaled by scale, writing the result to out. out
// must have length n+1. Callers combining this package's c-vectors with an
// external index or collaborator use this (and FromLatticeSpace) to move
// between the caller's vector space and the representation space c-vectors
// are expressed in.
func ToLatticeSpace(n int, scale float64, v []float64, out []float64) {
	latticeLib.ToLatticeSpace(n, scale, v, out)
}

// FromLatticeSpace is the inverse of ToLatticeSpace: v has length n+1, out
// has length n.
func FromLatticeSpace(n int, scale float64, v []float64, out []float64) {
	latticeLib.FromLatticeSpace(n, scale, v, out)
}

// CVectorKToPoint computes the representation-space coordinates of the
// lattice point identified by (c, k), as reported by a Callback's OnProbe.
// out must have length n+1.
func CVectorKToPoint(n int, c []int32, k int32, out []float64) {
	latticeLib.CVectorKToPoint(n, c, k, out)
}

// CVectorToPoint derives k from c (k = (-sum(c)) mod (n+1)) and computes the
// representation-space coordinates, for callers that only kept a c-vector
// and need the point it identifies. out must have length n+1.
func CVectorToPoint(n int, c []int32, out []float64) {
	latticeLib.CVectorToPoint(n, c, out)
}

// Engine answers Nearest, Delaunay and Extended queries against the A*
// lattice in a fixed number of dimensions. An Engine is safe for concurrent
// use by multiple goroutines.
type Engine struct {
	id uuid.UUID

	n         int
	rho       float64
	scale     float64
	numShells int

	probes      []int32
	diffStream  []uint16
	numProbes   int
	numOrbits   int

	hashCache *hashkernel.Cache

	arenaPool *workbuf.Pool
	mmapArena *workbuf.MmapArena

	logger  *Logger
	metrics MetricsCollector
	limiter rateLimiter

	closed atomic.Bool
}

// rateLimiter is satisfied by *rate.Limiter; kept as a narrow interface
// here so engine.go doesn't need to import golang.org/x/time/rate directly.
type rateLimiter interface {
	Wait(ctx context.Context) error
}

// New constructs an Engine for n-dimensional queries against the A* lattice
// scaled to packing radius rho, with its extended-probe table built out to
// numShells shells.
func New(n int, rho float64, numShells int, opts ...Option) (*Engine, error) {
	start := time.Now()
	o := applyOptions(opts)

	eng, err := newEngine(n, rho, numShells, o)

	o.logger.LogConstruct(context.Background(), n, rho, numShells, eng.probeCountOrZero(), time.Since(start), err)
	o.metricsCollector.RecordConstruct(time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return eng, nil
}

func (e *Engine) probeCountOrZero() int {
	if e == nil {
		return 0
	}
	return e.numProbes
}

func newEngine(n int, rho float64, numShells int, o options) (*Engine, error) {
	if n <= 0 {
		return nil, errInvalidDim(n)
	}
	if numShells < 0 || numShells > MaxNumShells() {
		return nil, errInvalidNumShells(numShells)
	}
	if rho <= 0 {
		return nil, errInvalidPackingRadius(rho)
	}

	scale := latticeLib.Rho(n) / rho

	numProbes, err := probe.NumProbes(n, numShells)
	if err != nil {
		return nil, wrapError(Unknown, "failed to compute probe count", err)
	}

	probes, err := probe.GenerateProbes(n, numShells)
	if err != nil {
		return nil, wrapError(Unknown, "failed to generate probes", err)
	}

	streamSize := probe.SizeProbeStream(n, numProbes, probes)
	diffStream := make([]uint16, streamSize)
	written := probe.GenerateProbeDiffs(n, numProbes, probes, diffStream)
	if written != streamSize {
		return nil, errUnknown("probe diff stream size mismatch")
	}

	e := &Engine{
		id:         uuid.New(),
		n:          n,
		rho:        rho,
		scale:      scale,
		numShells:  numShells,
		probes:     probes,
		diffStream: diffStream,
		numProbes:  numProbes,
		numOrbits:  numProbes / (n + 1),
		hashCache:  hashkernel.NewCache(),
		metrics:    o.metricsCollector,
	}
	e.logger = o.logger.WithEngineID(e.id)
	if o.limiter != nil {
		e.limiter = o.limiter
	}

	slotSize := scratchSlotSize(n)
	const poolSize = 8
	if o.mmapArena {
		m, mmapErr := workbuf.NewMmapArena(poolSize, slotSize)
		if mmapErr != nil {
			return nil, wrapError(MemFail, "failed to create mmap scratch arena", mmapErr)
		}
		e.mmapArena = m
	} else {
		e.arenaPool = workbuf.NewPool(poolSize, slotSize)
	}

	return e, nil
}

// scratchSlotSize sizes one query's scratch arena generously enough for
// the largest of the Nearest, Delaunay and Extended query walks: a small
// constant number of (n+1)-element buffers of various element types, plus
// room for 8-byte alignment padding between each.
func scratchSlotSize(n int) int {
	return (n+1)*64 + 512
}

func (e *Engine) getArena() *workbuf.Arena {
	if e.mmapArena != nil {
		return e.mmapArena.Get()
	}
	return e.arenaPool.Get()
}

func (e *Engine) putArena(a *workbuf.Arena) {
	if e.mmapArena != nil {
		e.mmapArena.Put(a)
		return
	}
	e.arenaPool.Put(a)
}

// Dim returns the number of dimensions, n.
func (e *Engine) Dim() int { return e.n }

// PackingRadius returns the packing radius, rho, this engine was
// constructed with.
func (e *Engine) PackingRadius() float64 { return e.rho }

// Scale returns the scale factor mapping the caller's vector space onto the
// lattice's native packing radius.
func (e *Engine) Scale() float64 { return e.scale }

// NumShells returns the number of extended shells this engine's probe table
// covers.
func (e *Engine) NumShells() int { return e.numShells }

// NumProbes returns the total number of probes generated for an Extended
// query.
func (e *Engine) NumProbes() int { return e.numProbes }

// NumOrbits returns the number of remainder-zero probes found by the shell
// search, before orbit fan-out. NumProbes() == NumOrbits() * (Dim() + 1).
func (e *Engine) NumOrbits() int { return e.numOrbits }

// ID returns the engine's unique identity, used to correlate its log lines.
func (e *Engine) ID() uuid.UUID { return e.id }

// Close releases the engine's scratch memory. An Engine must not be used
// after Close returns. Close is idempotent.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	if e.mmapArena != nil {
		return e.mmapArena.Close()
	}
	return nil
}

func (e *Engine) checkOpen() error {
	if e.closed.Load() {
		return errUnknown(fmt.Sprintf("engine %s is closed", e.id))
	}
	return nil
}

func (e *Engine) waitRateLimit(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}
