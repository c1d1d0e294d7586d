package astarnn

import "github.com/ropeless/astarnn/internal/workbuf"

// allocFloat64, allocInt32 and allocUint16 carve typed scratch slices out of
// a query's arena, translating the arena's generic exhaustion error into
// the InsufficientBuffers taxonomy code.

func allocFloat64(arena *workbuf.Arena, n int) ([]float64, error) {
	s, err := workbuf.Get[float64](arena, n)
	if err != nil {
		return nil, wrapError(InsufficientBuffers, "scratch arena exhausted", err)
	}
	return s, nil
}

func allocInt32(arena *workbuf.Arena, n int) ([]int32, error) {
	s, err := workbuf.Get[int32](arena, n)
	if err != nil {
		return nil, wrapError(InsufficientBuffers, "scratch arena exhausted", err)
	}
	return s, nil
}

func allocUint16(arena *workbuf.Arena, n int) ([]uint16, error) {
	s, err := workbuf.Get[uint16](arena, n)
	if err != nil {
		return nil, wrapError(InsufficientBuffers, "scratch arena exhausted", err)
	}
	return s, nil
}

func allocUint64(arena *workbuf.Arena, n int) ([]uint64, error) {
	s, err := workbuf.Get[uint64](arena, n)
	if err != nil {
		return nil, wrapError(InsufficientBuffers, "scratch arena exhausted", err)
	}
	return s, nil
}
