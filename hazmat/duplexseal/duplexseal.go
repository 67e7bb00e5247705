// Package duplexseal provides authenticated encryption for sealing cached
// subscriber-side payload blobs at rest (see package cache). Its API shape —
// EncryptAndMAC/DecryptAndMAC returning ciphertext plus a detached tag — is
// carried over from the teacher corpus's tree-parallel sealing primitive;
// the leaf-parallel SIMD machinery underneath it is not, since this package
// protects small, already-decoded messages rather than bulk streams, and two
// domain-separated SHAKE128 instances (one deriving the keystream, one the
// tag) are simpler to get right for that size class.
package duplexseal

import (
	"crypto/sha3"
	"crypto/subtle"

	"github.com/rootwave/mam/internal/mem"
)

// KeySize is the size of the sealing key in bytes.
const KeySize = 32

// TagSize is the size of the authentication tag in bytes.
const TagSize = 32

// EncryptAndMAC encrypts plaintext, appends the ciphertext to dst, and
// returns the resulting slice along with a detached tag. The key must be
// unique per invocation (the cache keys each seal by root||index, see
// package cache).
func EncryptAndMAC(dst []byte, key *[KeySize]byte, plaintext []byte) ([]byte, [TagSize]byte) {
	ret, ciphertext := mem.SliceForAppend(dst, len(plaintext))

	ks := keystream(key, len(plaintext))
	copy(ciphertext, plaintext)
	mem.XORInPlace(ciphertext, ks)

	return ret, tag(key, ciphertext)
}

// DecryptAndMAC decrypts ciphertext, appends the plaintext to dst, and
// returns the resulting slice along with the expected tag. The caller must
// compare the returned tag against the stored one in constant time before
// trusting the plaintext.
func DecryptAndMAC(dst []byte, key *[KeySize]byte, ciphertext []byte) ([]byte, [TagSize]byte) {
	expected := tag(key, ciphertext)

	ret, plaintext := mem.SliceForAppend(dst, len(ciphertext))
	ks := keystream(key, len(ciphertext))
	copy(plaintext, ciphertext)
	mem.XORInPlace(plaintext, ks)

	return ret, expected
}

// Equal reports whether two tags are equal, in constant time.
func Equal(a, b [TagSize]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

func keystream(key *[KeySize]byte, n int) []byte {
	h := sha3.NewSHAKE128()
	_, _ = h.Write([]byte("mam/duplexseal/stream"))
	_, _ = h.Write(key[:])
	out := make([]byte, n)
	_, _ = h.Read(out)
	return out
}

func tag(key *[KeySize]byte, ciphertext []byte) [TagSize]byte {
	h := sha3.NewSHAKE128()
	_, _ = h.Write([]byte("mam/duplexseal/tag"))
	_, _ = h.Write(key[:])
	_, _ = h.Write(ciphertext)
	var out [TagSize]byte
	_, _ = h.Read(out[:])
	return out
}
