package workbuf

// MmapArena is an Arena backed by a single anonymous memory mapping shared
// by a pool of queries, instead of per-arena heap slices. It exists purely
// as an allocator-pressure optimization (see WithMmapArena in the root
// package): under heavy concurrent query load it keeps scratch memory out
// of the Go heap and GC scan set entirely.
//
// Each slot is exactly the arena byte size requested by the caller (the
// kernel rounds only the whole mapping up to a page boundary), and slots
// never overlap because every query's Arena view is carved out once at
// construction and never resized.
type MmapArena struct {
	region []byte
	slots  []*Arena
	free   chan *Arena
}

// NewMmapArena creates n Arenas of slotSize bytes each, backed by one
// mmap'd region of n*slotSize bytes. If anonymous mmap is unavailable on
// this platform, it falls back to heap-backed Arenas so callers never need
// a platform check of their own.
func NewMmapArena(n, slotSize int) (*MmapArena, error) {
	if !mmapSupported {
		m := &MmapArena{free: make(chan *Arena, n)}
		for i := 0; i < n; i++ {
			m.slots = append(m.slots, NewArena(slotSize))
			m.free <- m.slots[i]
		}
		return m, nil
	}

	region, err := newMmapBytes(n * slotSize)
	if err != nil {
		return nil, err
	}

	m := &MmapArena{region: region, free: make(chan *Arena, n)}
	for i := 0; i < n; i++ {
		slot := NewArenaFromBytes(region[i*slotSize : (i+1)*slotSize])
		m.slots = append(m.slots, slot)
		m.free <- slot
	}
	return m, nil
}

// Get borrows an Arena slot, blocking until one is returned by Put if the
// pool is momentarily exhausted.
func (m *MmapArena) Get() *Arena {
	a := <-m.free
	return a
}

// Put resets and returns a borrowed slot.
func (m *MmapArena) Put(a *Arena) {
	a.Reset()
	m.free <- a
}

// Close releases the underlying mapping. It is a no-op if mmap was
// unavailable and Arenas fell back to the heap.
func (m *MmapArena) Close() error {
	if m.region == nil {
		return nil
	}
	return freeMmapBytes(m.region)
}
