package astarnn

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/ropeless/astarnn/internal/hashkernel"
	latticeLib "github.com/ropeless/astarnn/internal/lattice"
	"github.com/ropeless/astarnn/internal/probe"
	"github.com/ropeless/astarnn/internal/workbuf"
)

// persistMagic and persistVersion identify the binary format MarshalTables
// writes and LoadTables reads. Bump persistVersion on any incompatible
// layout change.
const (
	persistMagic   uint32 = 0x41535421 // "AST!"
	persistVersion uint16 = 1
)

// MarshalTables serializes the engine's precomputed probe table and diff
// stream, compressed with zstd. A later call to LoadTables with the same
// (n, rho, numShells) reconstructs an equivalent Engine without repeating
// the shell-probe search.
func (e *Engine) MarshalTables() ([]byte, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	var raw bytes.Buffer
	if err := binary.Write(&raw, binary.LittleEndian, int64(len(e.probes))); err != nil {
		return nil, wrapError(Unknown, "failed to write probe table length", err)
	}
	if err := binary.Write(&raw, binary.LittleEndian, e.probes); err != nil {
		return nil, wrapError(Unknown, "failed to write probe table", err)
	}
	if err := binary.Write(&raw, binary.LittleEndian, int64(len(e.diffStream))); err != nil {
		return nil, wrapError(Unknown, "failed to write diff stream length", err)
	}
	if err := binary.Write(&raw, binary.LittleEndian, e.diffStream); err != nil {
		return nil, wrapError(Unknown, "failed to write diff stream", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, wrapError(Unknown, "failed to create zstd encoder", err)
	}
	defer enc.Close()
	compressed := enc.EncodeAll(raw.Bytes(), nil)

	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, persistMagic)
	_ = binary.Write(&out, binary.LittleEndian, persistVersion)
	_ = binary.Write(&out, binary.LittleEndian, int32(e.n))
	_ = binary.Write(&out, binary.LittleEndian, e.rho)
	_ = binary.Write(&out, binary.LittleEndian, int32(e.numShells))
	_ = binary.Write(&out, binary.LittleEndian, int64(len(compressed)))
	out.Write(compressed)

	return out.Bytes(), nil
}

// LoadTables reconstructs an Engine from data previously produced by
// MarshalTables. n, rho and numShells must match the engine that produced
// data; a mismatch is reported as an Unknown error rather than silently
// producing an engine with the wrong tables.
func LoadTables(n int, rho float64, numShells int, data []byte, opts ...Option) (*Engine, error) {
	start := time.Now()
	o := applyOptions(opts)

	eng, err := loadEngine(n, rho, numShells, data, o)

	o.logger.LogConstruct(context.Background(), n, rho, numShells, eng.probeCountOrZero(), time.Since(start), err)
	o.metricsCollector.RecordConstruct(time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return eng, nil
}

func loadEngine(n int, rho float64, numShells int, data []byte, o options) (*Engine, error) {
	if n <= 0 {
		return &Engine{logger: o.logger}, errInvalidDim(n)
	}
	if numShells < 0 || numShells > MaxNumShells() {
		return &Engine{logger: o.logger}, errInvalidNumShells(numShells)
	}
	if rho <= 0 {
		return &Engine{logger: o.logger}, errInvalidPackingRadius(rho)
	}

	r := bytes.NewReader(data)

	var magic uint32
	var version uint16
	var fileN, fileNumShells int32
	var fileRho float64
	var compressedLen int64

	for _, field := range []any{&magic, &version, &fileN, &fileRho, &fileNumShells, &compressedLen} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return &Engine{logger: o.logger}, wrapError(Unknown, "failed to read persisted table header", err)
		}
	}

	if magic != persistMagic {
		return &Engine{logger: o.logger}, errUnknown("persisted data has the wrong magic number")
	}
	if version != persistVersion {
		return &Engine{logger: o.logger}, errUnknown(fmt.Sprintf("persisted data has unsupported version %d", version))
	}
	if int(fileN) != n || int(fileNumShells) != numShells || fileRho != rho {
		return &Engine{logger: o.logger}, errUnknown("persisted table parameters do not match requested (n, rho, num_shells)")
	}

	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return &Engine{logger: o.logger}, wrapError(Unknown, "failed to read compressed payload", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return &Engine{logger: o.logger}, wrapError(Unknown, "failed to create zstd decoder", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return &Engine{logger: o.logger}, wrapError(Unknown, "failed to decompress persisted tables", err)
	}

	rawReader := bytes.NewReader(raw)

	var numProbesStored int64
	if err := binary.Read(rawReader, binary.LittleEndian, &numProbesStored); err != nil {
		return &Engine{logger: o.logger}, wrapError(Unknown, "failed to read probe table length", err)
	}
	probes := make([]int32, numProbesStored)
	if err := binary.Read(rawReader, binary.LittleEndian, probes); err != nil {
		return &Engine{logger: o.logger}, wrapError(Unknown, "failed to read probe table", err)
	}

	var streamLenStored int64
	if err := binary.Read(rawReader, binary.LittleEndian, &streamLenStored); err != nil {
		return &Engine{logger: o.logger}, wrapError(Unknown, "failed to read diff stream length", err)
	}
	diffStream := make([]uint16, streamLenStored)
	if err := binary.Read(rawReader, binary.LittleEndian, diffStream); err != nil {
		return &Engine{logger: o.logger}, wrapError(Unknown, "failed to read diff stream", err)
	}

	numProbes, err := probe.NumProbes(n, numShells)
	if err != nil {
		return &Engine{logger: o.logger}, wrapError(Unknown, "failed to compute expected probe count", err)
	}
	if int(numProbesStored) != numProbes*(n+1) {
		return &Engine{logger: o.logger}, errUnknown("persisted probe table length does not match (n, num_shells)")
	}
	wantStreamLen := probe.SizeProbeStream(n, numProbes, probes)
	if int(streamLenStored) != wantStreamLen {
		return &Engine{logger: o.logger}, errUnknown("persisted diff stream length does not match probe table")
	}

	scale := latticeLib.Rho(n) / rho

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
			return &Engine{logger: o.logger}, wrapError(MemFail, "failed to create mmap scratch arena", mmapErr)
		}
		e.mmapArena = m
	} else {
		e.arenaPool = workbuf.NewPool(poolSize, slotSize)
	}

	return e, nil
}
