package zobj

import (
	"errors"
	"io"
	"io/fs"
	"sync/atomic"
)

// Algorithm represents a compression algorithm
type Algorithm string

const (
	AlgorithmZlib   Algorithm = "zlib"
	AlgorithmGzip   Algorithm = "gzip"
	AlgorithmZstd   Algorithm = "zstd"
	AlgorithmLZ4    Algorithm = "lz4"
	AlgorithmBrotli Algorithm = "brotli"
	AlgorithmSnappy Algorithm = "snappy"
)

// Config holds object store configuration
type Config struct {
	// Algorithm used to compress stored objects (default: zlib, which is
	// what git itself uses; anything else produces a store only zobj can
	// read back)
	Algorithm Algorithm

	// Compression level (algorithm-specific, 0 = library default)
	// zlib/gzip: 1-9
	// zstd: 1-22
	// lz4: 1-9
	// brotli: 1-11
	// snappy: ignored (no levels)
	Level int

	// Dir is the repository directory (default: .git)
	Dir string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Algorithm: AlgorithmZlib,
		Level:     0,
		Dir:       ".git",
	}
}

// Stats holds object store statistics
type Stats struct {
	ObjectsRead    int64
	ObjectsWritten int64

	BytesCompressed   int64
	BytesDecompressed int64
}

var (
	ErrUnsupportedAlgorithm = errors.New("zobj: unsupported compression algorithm")
	ErrInvalidLevel         = errors.New("zobj: invalid compression level")
	ErrObjectFormat         = errors.New("zobj: invalid object format")
	ErrObjectType           = errors.New("zobj: invalid object type")
	ErrInvalidHash          = errors.New("zobj: invalid object hash")
)

// FileSystem is the filesystem interface the object store operates on
type FileSystem interface {
	Open(name string) (File, error)
	Create(name string) (File, error)
	Mkdir(name string, perm fs.FileMode) error
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

// File interface for stored objects
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Stat() (fs.FileInfo, error)
}

// GetStats returns a copy of the current statistics
func (s *Store) GetStats() *Stats {
	return &Stats{
		ObjectsRead:       atomic.LoadInt64(&s.stats.ObjectsRead),
		ObjectsWritten:    atomic.LoadInt64(&s.stats.ObjectsWritten),
		BytesCompressed:   atomic.LoadInt64(&s.stats.BytesCompressed),
		BytesDecompressed: atomic.LoadInt64(&s.stats.BytesDecompressed),
	}
}

// ResetStats resets statistics to zero
func (s *Store) ResetStats() {
	atomic.StoreInt64(&s.stats.ObjectsRead, 0)
	atomic.StoreInt64(&s.stats.ObjectsWritten, 0)
	atomic.StoreInt64(&s.stats.BytesCompressed, 0)
	atomic.StoreInt64(&s.stats.BytesDecompressed, 0)
}
