// Package files contains source file access and parsing.
//
// Subpackages:
//   - filesystem: where source files come from (local directory, memory, S3)
//   - reader: turns one header-delimited source file into typed rows
package files
