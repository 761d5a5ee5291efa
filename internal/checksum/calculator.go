package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// Calculator computes content checksums.
type Calculator interface {
	// NewDigest returns a streaming digest.
	NewDigest() Digest
}

// Digest accumulates written bytes.
type Digest interface {
	io.Writer
	Sum() string
}

// SHA256 implements Calculator using SHA-256, hex encoded.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// NewDigest starts a streaming SHA-256.
func (c SHA256) NewDigest() Digest {
	return &sha256Digest{h: sha256.New()}
}

type sha256Digest struct {
	h hash.Hash
}

func (d *sha256Digest) Write(p []byte) (int, error) { return d.h.Write(p) }

func (d *sha256Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
