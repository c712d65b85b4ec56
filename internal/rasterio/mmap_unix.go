//go:build !windows
// +build !windows

package rasterio

import (
	"os"
	"syscall"
)

// mmapReader provides zero-copy file access via memory mapping.
type mmapReader struct {
	data []byte
	file *os.File
}

// newMmapReader memory-maps f read-only for its full size.
func newMmapReader(f *os.File) (*mmapReader, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &mmapReader{data: nil, file: f}, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &mmapReader{data: data, file: f}, nil
}

// Bytes returns the whole mapped region. Valid only while the reader is open.
func (m *mmapReader) Bytes() []byte {
	return m.data
}

// Close unmaps the file and closes the underlying handle.
func (m *mmapReader) Close() error {
	if m.data != nil {
		if err := syscall.Munmap(m.data); err != nil {
			return err
		}
		m.data = nil
	}
	if m.file != nil {
		return m.file.Close()
	}
	return nil
}
