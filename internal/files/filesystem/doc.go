// Package filesystem provides the places source files are read from.
//
// A Provider resolves a bare file name (such as "orders.csv") against its
// root and opens it for reading. Missing files surface as errors wrapping
// fs.ErrNotExist, whatever the backend.
//
// Implementations:
//   - OSFileSystem: a local directory
//   - MemoryFileSystem: in-memory files for tests
//   - S3FileSystem: objects under a prefix of an S3 (or S3-compatible) bucket
package filesystem
