// Package cache provides a bounded, subscriber-side store of decoded
// messages keyed by the (root, index) they were parsed under, so repeat
// reads of the same payload (a resubscribe, a UI re-render) don't re-run
// Parse. It is sealed, not plaintext: entries are encrypted and
// authenticated with hazmat/duplexseal before being placed in the
// underlying LRU.
package cache

import (
	"bytes"
	"crypto/sha3"
	"encoding/binary"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rootwave/mam/hazmat/duplexseal"
	"github.com/rootwave/mam/trit"
)

// ErrTampered is returned by Get when a sealed entry's authentication tag
// doesn't match the one computed at seal time.
var ErrTampered = errors.New("cache: authentication tag mismatch")

type sealed struct {
	ciphertext []byte
	tag        [duplexseal.TagSize]byte
}

// Cache holds at most a fixed number of sealed entries, evicting the least
// recently used when full.
type Cache struct {
	lru *lru.Cache[string, sealed]
}

// New creates a cache holding at most size entries.
func New(size int) (*Cache, error) {
	c, err := lru.New[string, sealed](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// Put seals message under (root, index) and stores it.
func (c *Cache) Put(root []trit.Trit, index int, message []byte) {
	key := sealKey(root, index)
	ciphertext, tag := duplexseal.EncryptAndMAC(nil, &key, message)
	c.lru.Add(cacheKey(root, index), sealed{ciphertext: ciphertext, tag: tag})
}

// Get retrieves and unseals the message stored under (root, index). The
// second return reports whether an entry existed at all; the error is
// non-nil only when an entry existed but failed to authenticate.
func (c *Cache) Get(root []trit.Trit, index int) ([]byte, bool, error) {
	s, ok := c.lru.Get(cacheKey(root, index))
	if !ok {
		return nil, false, nil
	}
	key := sealKey(root, index)
	plaintext, tag := duplexseal.DecryptAndMAC(nil, &key, s.ciphertext)
	if !duplexseal.Equal(tag, s.tag) {
		return nil, true, ErrTampered
	}
	return plaintext, true, nil
}

// Remove evicts any entry stored under (root, index).
func (c *Cache) Remove(root []trit.Trit, index int) {
	c.lru.Remove(cacheKey(root, index))
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}

func cacheKey(root []trit.Trit, index int) string {
	var buf bytes.Buffer
	for _, t := range root {
		buf.WriteByte(byte(t + 1))
	}
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], uint64(index))
	buf.Write(idx[:])
	return buf.String()
}

// sealKey derives a per-entry sealing key from (root, index), so no two
// entries ever share a keystream.
func sealKey(root []trit.Trit, index int) [duplexseal.KeySize]byte {
	h := sha3.NewSHAKE128()
	_, _ = h.Write([]byte("mam/cache/seal"))
	for _, t := range root {
		_, _ = h.Write([]byte{byte(t + 1)})
	}
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], uint64(index))
	_, _ = h.Write(idx[:])
	var key [duplexseal.KeySize]byte
	_, _ = h.Read(key[:])
	return key
}
