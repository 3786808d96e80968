// Package mmapfile opens a file and maps it read-only into the process
// address space. The file handle is held only while Open runs: it is closed
// when Open returns, on success and on every error path, and the mapping
// stays valid without it until Close unmaps it. Release is therefore not in
// reverse order of acquisition: the handle is released before the mapping.
package mmapfile

import (
	"fmt"
	"os"
	"syscall"
)

// Mapping is a read-only view over an entire file's contents. The returned
// byte slice aliases the OS page cache; it is valid until Close is called
// and must not be retained past that point.
type Mapping struct {
	data []byte
}

// Open opens path, stats it, and mmaps the whole file read-only and shared
// (so every worker goroutine can read it concurrently without copying).
// The file descriptor is closed before Open returns, whether or not the
// mapping succeeded.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mmapfile: statting %s: %w", path, err)
	}
	size := fi.Size()
	if size == 0 {
		return &Mapping{data: nil}, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: mmap %s: %w", path, err)
	}

	return &Mapping{data: data}, nil
}

// Bytes returns the mapped contents.
func (m *Mapping) Bytes() []byte { return m.data }

// Close unmaps the file. The file descriptor was already closed by Open's
// own defer, so the unmap is the only release left (open -> stat -> mmap ->
// close fd -> [use] -> munmap).
func (m *Mapping) Close() error {
	if m.data == nil {
		return nil
	}
	if err := syscall.Munmap(m.data); err != nil {
		return fmt.Errorf("mmapfile: munmap: %w", err)
	}
	m.data = nil
	return nil
}
