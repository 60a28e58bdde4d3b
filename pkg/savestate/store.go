package savestate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrOutOfRange indicates a read or write beyond the store's capacity.
var ErrOutOfRange = errors.New("savestate: access beyond store capacity")

// ErrStoreClosed indicates an operation on a closed file store.
var ErrStoreClosed = errors.New("savestate: store is closed")

// erasedByte is the value of unprogrammed EEPROM cells. Fresh store images
// are filled with it so that first-boot detection sees a non-magic header.
const erasedByte = 0xFF

// Store models a small byte-addressable non-volatile device. Present
// reports whether the device exists at all; when it returns false the
// engine degrades every operation to a no-op.
type Store interface {
	// Present reports whether the device was detected.
	Present() bool

	// ReadAt fills p with len(p) bytes starting at off.
	ReadAt(p []byte, off int64) error

	// WriteAt writes all of p starting at off.
	WriteAt(p []byte, off int64) error

	// Capacity returns the device size in bytes.
	Capacity() int64
}

// FileStore is a Store backed by a fixed-capacity binary file, an EEPROM
// image on disk. The file is created and filled with erased bytes if it
// does not exist or is shorter than the requested capacity.
type FileStore struct {
	path     string
	file     *os.File
	capacity int64
}

// NewFileStore opens (or creates) the EEPROM image at path with the given
// capacity in bytes.
func NewFileStore(path string, capacity int64) (*FileStore, error) {
	if capacity < RecordSize {
		return nil, fmt.Errorf("savestate: capacity %d below record size %d", capacity, RecordSize)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open store image: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat store image: %w", err)
	}

	// Pad a new or truncated image up to capacity with erased cells.
	if info.Size() < capacity {
		pad := make([]byte, capacity-info.Size())
		for i := range pad {
			pad[i] = erasedByte
		}
		if _, err := file.WriteAt(pad, info.Size()); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to format store image: %w", err)
		}
	}

	return &FileStore{path: path, file: file, capacity: capacity}, nil
}

// Present always reports true: a FileStore that could be constructed is a
// detected device.
func (s *FileStore) Present() bool {
	return s.file != nil
}

// ReadAt implements Store.
func (s *FileStore) ReadAt(p []byte, off int64) error {
	if s.file == nil {
		return ErrStoreClosed
	}
	if off < 0 || off+int64(len(p)) > s.capacity {
		return ErrOutOfRange
	}
	if _, err := s.file.ReadAt(p, off); err != nil {
		return fmt.Errorf("store read failed: %w", err)
	}
	return nil
}

// WriteAt implements Store.
func (s *FileStore) WriteAt(p []byte, off int64) error {
	if s.file == nil {
		return ErrStoreClosed
	}
	if off < 0 || off+int64(len(p)) > s.capacity {
		return ErrOutOfRange
	}
	if _, err := s.file.WriteAt(p, off); err != nil {
		return fmt.Errorf("store write failed: %w", err)
	}
	return nil
}

// Capacity implements Store.
func (s *FileStore) Capacity() int64 {
	return s.capacity
}

// Path returns the file path of the store image.
func (s *FileStore) Path() string {
	return s.path
}

// Close closes the underlying file. Reads and writes after Close fail.
func (s *FileStore) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// MemStore is an in-memory Store, used by tests and volatile demo runs.
type MemStore struct {
	buf []byte
}

// NewMemStore returns a MemStore of the given capacity, filled with erased
// bytes.
func NewMemStore(capacity int64) *MemStore {
	buf := make([]byte, capacity)
	for i := range buf {
		buf[i] = erasedByte
	}
	return &MemStore{buf: buf}
}

// Present implements Store.
func (s *MemStore) Present() bool { return true }

// ReadAt implements Store.
func (s *MemStore) ReadAt(p []byte, off int64) error {
	if off < 0 || off+int64(len(p)) > int64(len(s.buf)) {
		return ErrOutOfRange
	}
	copy(p, s.buf[off:])
	return nil
}

// WriteAt implements Store.
func (s *MemStore) WriteAt(p []byte, off int64) error {
	if off < 0 || off+int64(len(p)) > int64(len(s.buf)) {
		return ErrOutOfRange
	}
	copy(s.buf[off:], p)
	return nil
}

// Capacity implements Store.
func (s *MemStore) Capacity() int64 { return int64(len(s.buf)) }

// Bytes exposes the backing buffer so tests can inspect persisted records.
func (s *MemStore) Bytes() []byte { return s.buf }

// AbsentStore models a missing device: Present reports false and all I/O
// fails. It exercises the engine's silent no-op degradation path.
type AbsentStore struct{}

// Present implements Store.
func (AbsentStore) Present() bool { return false }

// ReadAt implements Store.
func (AbsentStore) ReadAt([]byte, int64) error { return ErrStoreClosed }

// WriteAt implements Store.
func (AbsentStore) WriteAt([]byte, int64) error { return ErrStoreClosed }

// Capacity implements Store.
func (AbsentStore) Capacity() int64 { return 0 }
