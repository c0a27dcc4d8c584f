package capability

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// KeySize is the length of the per-process signing key in bytes
const KeySize = 32

// Signer issues and checks keyed signatures over absolute file paths.
// The key is generated once, never leaves memory and is read-only after
// construction, so a Signer is safe for concurrent use.
type Signer struct {
	key []byte
}

// NewSigner creates a signer with a fresh random key.
// A signer from another process (or another NewSigner call) cannot verify
// signatures issued by this one.
func NewSigner() (*Signer, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return &Signer{key: key}, nil
}

// Sign returns the hex HMAC-SHA256 of the path's UTF-8 bytes
func (s *Signer) Sign(path string) string {
	return s.mac([]byte(path))
}

// Verify reports whether mac is the signature of path under this signer's key.
// Malformed signatures simply fail.
func (s *Signer) Verify(path, mac string) bool {
	return s.check([]byte(path), mac)
}

// SignKind signs path bound to kind, so the capability is only valid for that endpoint
func (s *Signer) SignKind(kind Kind, path string) string {
	return s.mac(kindPayload(kind, path))
}

// VerifyKind checks a signature produced by SignKind for the same kind and path
func (s *Signer) VerifyKind(kind Kind, path, mac string) bool {
	return s.check(kindPayload(kind, path), mac)
}

func (s *Signer) mac(payload []byte) string {
	h := hmac.New(sha256.New, s.key)
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Signer) check(payload []byte, mac string) bool {
	if s == nil || mac == "" {
		return false
	}
	got, err := hex.DecodeString(mac)
	if err != nil || len(got) != sha256.Size {
		return false
	}
	h := hmac.New(sha256.New, s.key)
	h.Write(payload)
	return hmac.Equal(got, h.Sum(nil))
}

// kindPayload separates kind and path with a NUL, which cannot occur in a path
func kindPayload(kind Kind, path string) []byte {
	name := kind.String()
	payload := make([]byte, 0, len(name)+1+len(path))
	payload = append(payload, name...)
	payload = append(payload, 0)
	payload = append(payload, path...)
	return payload
}
