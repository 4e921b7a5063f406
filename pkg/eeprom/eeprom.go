// Package eeprom emulates the small fixed-size, byte-addressed persistent memory
// found on microcontrollers: reads and writes hit an in-memory image and only
// Commit makes them durable.
package eeprom

import (
	"fmt"
	"sync"

	"github.com/benmeehan/otp-display/pkg/file"
	"github.com/rs/zerolog"
)

// Storage is fixed-address byte storage with an explicit commit.
type Storage interface {
	// Read fills buf from offset. Bytes outside the image read as zero.
	Read(offset int, buf []byte)
	// Write copies data to offset. Bytes outside the image are dropped.
	Write(offset int, data []byte)
	// Commit persists every write made so far.
	Commit() error
}

// FileStorage keeps the byte image in a single file.
type FileStorage struct {
	path       string
	image      []byte
	fileClient file.FileOperations
	logger     zerolog.Logger
	mu         sync.Mutex
}

// NewFileStorage creates a FileStorage of size bytes backed by path and loads
// the current image. A missing file yields an all-zero image; a file of the
// wrong length is truncated or zero-extended.
func NewFileStorage(path string, size int, fileClient file.FileOperations, logger zerolog.Logger) (*FileStorage, error) {
	if size <= 0 {
		return nil, fmt.Errorf("eeprom: invalid size %d", size)
	}

	s := &FileStorage{
		path:       path,
		image:      make([]byte, size),
		fileClient: fileClient,
		logger:     logger,
	}

	exists, err := fileClient.IsFileExists(path)
	if err != nil {
		return nil, fmt.Errorf("eeprom: failed to stat %s: %w", path, err)
	}
	if !exists {
		logger.Info().Str("path", path).Int("size", size).Msg("No EEPROM image found, starting blank")
		return s, nil
	}

	data, err := fileClient.ReadFileRaw(path)
	if err != nil {
		return nil, fmt.Errorf("eeprom: failed to read %s: %w", path, err)
	}
	if len(data) != size {
		logger.Warn().Int("expected", size).Int("actual", len(data)).Msg("EEPROM image has unexpected size")
	}
	copy(s.image, data)

	return s, nil
}

// Size returns the image size in bytes.
func (s *FileStorage) Size() int {
	return len(s.image)
}

// Read fills buf from offset.
func (s *FileStorage) Read(offset int, buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range buf {
		addr := offset + i
		if addr < 0 || addr >= len(s.image) {
			buf[i] = 0
			continue
		}
		buf[i] = s.image[addr]
	}
}

// Write copies data to offset.
func (s *FileStorage) Write(offset int, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range data {
		addr := offset + i
		if addr < 0 || addr >= len(s.image) {
			continue
		}
		s.image[addr] = b
	}
}

// Commit writes the whole image to the backing file.
func (s *FileStorage) Commit() error {
	s.mu.Lock()
	snapshot := make([]byte, len(s.image))
	copy(snapshot, s.image)
	s.mu.Unlock()

	if err := s.fileClient.WriteFileRaw(s.path, snapshot); err != nil {
		return fmt.Errorf("eeprom: failed to commit %s: %w", s.path, err)
	}
	s.logger.Debug().Str("path", s.path).Msg("EEPROM image committed")
	return nil
}
