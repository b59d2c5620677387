//go:build linux

package render

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SharedMemory is an anonymous memfd mapping that can be handed to the
// compositor as a wl_shm pool.
type SharedMemory struct {
	fd   int
	data []byte
}

// NewSharedMemory creates and maps size bytes of anonymous shared memory.
func NewSharedMemory(name string, size int) (*SharedMemory, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shm: invalid size %d", size)
	}
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, fmt.Errorf("shm: memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("shm: ftruncate: %w", err)
	}
	// The pool never shrinks, so the compositor may rely on its size.
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, unix.F_SEAL_SHRINK); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("shm: seal: %w", err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("shm: mmap: %w", err)
	}
	return &SharedMemory{fd: fd, data: data}, nil
}

// Fd returns the file descriptor backing the mapping.
func (m *SharedMemory) Fd() int { return m.fd }

// Bytes returns the mapped memory.
func (m *SharedMemory) Bytes() []byte { return m.data }

// Size returns the mapping length.
func (m *SharedMemory) Size() int { return len(m.data) }

// Close unmaps the memory and closes the descriptor.
func (m *SharedMemory) Close() error {
	var first error
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			first = fmt.Errorf("shm: munmap: %w", err)
		}
		m.data = nil
	}
	if m.fd >= 0 {
		if err := unix.Close(m.fd); err != nil && first == nil {
			first = fmt.Errorf("shm: close: %w", err)
		}
		m.fd = -1
	}
	return first
}
