package zobj

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// createCompressor creates a compressor for the specified algorithm
func createCompressor(algo Algorithm, w io.Writer, level int) (io.WriteCloser, error) {
	switch algo {
	case AlgorithmZlib:
		return createZlibCompressor(w, level)
	case AlgorithmGzip:
		return createGzipCompressor(w, level)
	case AlgorithmZstd:
		return createZstdCompressor(w, level)
	case AlgorithmLZ4:
		return createLZ4Compressor(w, level)
	case AlgorithmBrotli:
		return createBrotliCompressor(w, level)
	case AlgorithmSnappy:
		return createSnappyCompressor(w)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

// createDecompressor creates a decompressor for the specified algorithm
func createDecompressor(algo Algorithm, r io.Reader) (io.ReadCloser, error) {
	switch algo {
	case AlgorithmZlib:
		return zlib.NewReader(r)
	case AlgorithmGzip:
		return gzip.NewReader(r)
	case AlgorithmZstd:
		return createZstdDecompressor(r)
	case AlgorithmLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case AlgorithmBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case AlgorithmSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

func createZlibCompressor(w io.Writer, level int) (io.WriteCloser, error) {
	if level == 0 {
		level = zlib.DefaultCompression
	}
	return zlib.NewWriterLevel(w, level)
}

func createGzipCompressor(w io.Writer, level int) (io.WriteCloser, error) {
	if level == 0 {
		level = gzip.DefaultCompression
	}
	return gzip.NewWriterLevel(w, level)
}

func createZstdCompressor(w io.Writer, level int) (io.WriteCloser, error) {
	var opts []zstd.EOption
	if level != 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	}
	return zstd.NewWriter(w, opts...)
}

func createZstdDecompressor(r io.Reader) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return zr.IOReadCloser(), nil
}

var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

func createLZ4Compressor(w io.Writer, level int) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if level != 0 {
		if err := zw.Apply(lz4.CompressionLevelOption(lz4Levels[level])); err != nil {
			return nil, err
		}
	}
	return zw, nil
}

func createBrotliCompressor(w io.Writer, level int) (io.WriteCloser, error) {
	if level == 0 {
		level = brotli.DefaultCompression
	}
	return brotli.NewWriterLevel(w, level), nil
}

func createSnappyCompressor(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

// validateLevel checks a compression level against the algorithm's range.
// Level 0 always means the library default.
func validateLevel(algo Algorithm, level int) error {
	if level == 0 {
		return nil
	}
	var max int
	switch algo {
	case AlgorithmZlib, AlgorithmGzip, AlgorithmLZ4:
		max = 9
	case AlgorithmZstd:
		max = 22
	case AlgorithmBrotli:
		max = 11
	case AlgorithmSnappy:
		max = 0 // no levels
	default:
		return ErrUnsupportedAlgorithm
	}
	if level < 0 || level > max {
		return ErrInvalidLevel
	}
	return nil
}

// CompressBytes compresses a byte slice using the specified algorithm and level
func CompressBytes(data []byte, algo Algorithm, level int) ([]byte, error) {
	if err := validateLevel(algo, level); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	compressor, err := createCompressor(algo, &buf, level)
	if err != nil {
		return nil, err
	}

	if _, err := compressor.Write(data); err != nil {
		return nil, err
	}

	if err := compressor.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecompressBytes decompresses a byte slice using the specified algorithm
func DecompressBytes(data []byte, algo Algorithm) ([]byte, error) {
	decompressor, err := createDecompressor(algo, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer decompressor.Close()

	return io.ReadAll(decompressor)
}
