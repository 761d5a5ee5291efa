// Package checksum fingerprints source files.
//
// Every table's source bytes are hashed while they are parsed, so a run can
// report exactly which input produced the stored rows. Two runs over files
// with equal checksums must leave the store in the same state.
//
// # Example Usage
//
//	calculator := checksum.New()
//	digest := calculator.NewDigest()
//	io.Copy(digest, file)
//	sum := digest.Sum()
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines. A Digest is not.
package checksum
