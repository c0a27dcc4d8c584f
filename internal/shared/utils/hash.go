package utils

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/zeebo/blake3"
)

// HashAlgorithm represents the hashing algorithm to use
type HashAlgorithm string

const (
	MD5    HashAlgorithm = "md5"
	SHA256 HashAlgorithm = "sha256"
	BLAKE3 HashAlgorithm = "blake3"
)

// ErrUnsupportedAlgorithm is returned for algorithms the hasher does not know
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

// DefaultChunkSize bounds memory use when hashing readers
const DefaultChunkSize = 32 * 1024

// Hasher provides hex digests over byte slices and streams
type Hasher struct {
	algorithm HashAlgorithm
}

// NewHasher creates a new hasher with the specified algorithm
func NewHasher(algorithm HashAlgorithm) *Hasher {
	return &Hasher{
		algorithm: algorithm,
	}
}

// Algorithm returns the configured algorithm
func (h *Hasher) Algorithm() HashAlgorithm {
	return h.algorithm
}

// New returns a fresh hash.Hash for the configured algorithm
func (h *Hasher) New() (hash.Hash, error) {
	switch h.algorithm {
	case MD5:
		return md5.New(), nil
	case SHA256:
		return sha256.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, h.algorithm)
	}
}

// Hash computes a hex digest of the input data
func (h *Hasher) Hash(data []byte) (string, error) {
	d, err := h.New()
	if err != nil {
		return "", err
	}
	d.Write(data)
	return hex.EncodeToString(d.Sum(nil)), nil
}

// HashString computes a hex digest of a string
func (h *Hasher) HashString(s string) (string, error) {
	return h.Hash([]byte(s))
}

// HashReader streams r through the digest in chunkSize pieces
func (h *Hasher) HashReader(r io.Reader, chunkSize int) (string, error) {
	d, err := h.New()
	if err != nil {
		return "", err
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(d, r, buf); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}
