//go:build windows
// +build windows

package rasterio

import (
	"os"
	"syscall"
	"unsafe"
)

// mmapReader provides zero-copy file access via memory mapping.
type mmapReader struct {
	data   []byte
	file   *os.File
	handle syscall.Handle
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

	sizeLow := uint32(size)
	sizeHigh := uint32(size >> 32)
	handle, err := syscall.CreateFileMapping(syscall.Handle(f.Fd()), nil, syscall.PAGE_READONLY, sizeHigh, sizeLow, nil)
	if err != nil {
		return nil, err
	}

	ptr, err := syscall.MapViewOfFile(handle, syscall.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		syscall.CloseHandle(handle)
		return nil, err
	}

	data := (*[1 << 30]byte)(unsafe.Pointer(ptr))[:size:size]

	return &mmapReader{data: data, file: f, handle: handle}, nil
}

// Bytes returns the whole mapped region. Valid only while the reader is open.
func (m *mmapReader) Bytes() []byte {
	return m.data
}

// Close unmaps the file and closes the underlying handle.
func (m *mmapReader) Close() error {
	if m.data != nil {
		syscall.UnmapViewOfFile(uintptr(unsafe.Pointer(&m.data[0])))
		m.data = nil
	}
	if m.handle != 0 {
		syscall.CloseHandle(m.handle)
		m.handle = 0
	}
	if m.file != nil {
		return m.file.Close()
	}
	return nil
}
