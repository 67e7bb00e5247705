package duplexseal

import (
	"bytes"
	"testing"
)

func testKey(seed byte) *[KeySize]byte {
	var key [KeySize]byte
	for i := range key {
		key[i] = seed + byte(i)
	}
	return &key
}

func TestRoundTrip(t *testing.T) {
	key := testKey(0)
	sizes := []int{0, 1, 31, 32, 33, 1000}

	for _, size := range sizes {
		pt := make([]byte, size)
		for i := range pt {
			pt[i] = byte(i)
		}

		ct, encTag := EncryptAndMAC(nil, key, pt)
		if len(ct) != len(pt) {
			t.Fatalf("size=%d: ciphertext length %d, want %d", size, len(ct), len(pt))
		}
		if size > 0 && bytes.Equal(ct, pt) {
			t.Errorf("size=%d: ciphertext equals plaintext", size)
		}

		got, decTag := DecryptAndMAC(nil, key, ct)
		if !Equal(encTag, decTag) {
			t.Fatalf("size=%d: tags do not match", size)
		}
		if !bytes.Equal(got, pt) {
			t.Errorf("size=%d: round-tripped plaintext does not match original", size)
		}
	}
}

func TestTamperedCiphertextFailsTag(t *testing.T) {
	key := testKey(0)
	pt := []byte("a message worth sealing")

	ct, encTag := EncryptAndMAC(nil, key, pt)
	ct[0] ^= 1

	_, decTag := DecryptAndMAC(nil, key, ct)
	if Equal(encTag, decTag) {
		t.Error("tampered ciphertext should not authenticate")
	}
}

func TestWrongKeyFailsTag(t *testing.T) {
	pt := []byte("a message worth sealing")

	ct, encTag := EncryptAndMAC(nil, testKey(0), pt)
	_, decTag := DecryptAndMAC(nil, testKey(1), ct)

	if Equal(encTag, decTag) {
		t.Error("decrypting with the wrong key should not authenticate")
	}
}
