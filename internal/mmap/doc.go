// Package mmap provides read-only memory-mapped file access.
//
// Local dataset blobs are mapped instead of read so that large corpora are
// parsed straight from the page cache.
//
// # Usage
//
//	m, err := mmap.Open("train.csv")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// Mapping is safe for concurrent reads. Close is idempotent; callers must not
// touch the slice returned by Bytes after Close.
package mmap
