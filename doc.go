// Package zobj reads and writes git-style zlib-compressed objects and
// recovers plaintext from blobs whose encoding has been mangled in transit.
//
// # Features
//
//   - Recover: best-effort decompression of text blobs (raw zlib, zlib/gzip
//     header auto-detection, base64-wrapped, hex-wrapped)
//   - Loose object store: blobs and trees, SHA-1 addressed, git-compatible
//     layout under .git/objects
//   - Pluggable object compression: zlib, gzip, zstd, lz4, brotli, snappy
//   - FileSystem abstraction with OS and in-memory implementations
//   - Statistics tracking
//
// # Quick Start
//
//	store, _ := zobj.NewStore(zobj.NewOSFS(), nil)
//	_ = store.Init()
//
//	hash, _ := store.WriteBlob([]byte("hello world\n"))
//	obj, _ := store.ReadObject(hash)
//	fmt.Print(obj.Content)
//
// Recover is a pure function and never returns an error; every failure is
// reported as a diagnostic string:
//
//	fmt.Println(zobj.Recover(mystery))
//
// The cmd/zobj tool exposes the store and the recovery decoder on the
// command line.
package zobj
