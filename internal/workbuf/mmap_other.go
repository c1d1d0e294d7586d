//go:build windows

package workbuf

import "errors"

// newMmapBytes has no implementation on this platform; MmapArena falls back
// to a plain heap-backed Arena instead (see NewMmapArena).
func newMmapBytes(size int) ([]byte, error) {
	return nil, errors.New("workbuf: anonymous mmap not supported on this platform")
}

func freeMmapBytes(b []byte) error {
	return nil
}

const mmapSupported = false
