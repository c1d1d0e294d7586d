//go:build !windows

package workbuf

import "golang.org/x/sys/unix"

// newMmapBytes allocates an anonymous, process-private mapping; scratch
// memory has no backing file to page to, so MAP_ANON is used instead of
// mapping a file descriptor.
func newMmapBytes(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func freeMmapBytes(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}

const mmapSupported = true
