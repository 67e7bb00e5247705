// Package testdata provides a deterministic random bit generator for tests
// and fuzz seeds.
package testdata

import "crypto/sha3"

// DRBG is a deterministic random bit generator based on SHAKE128, used to
// produce reproducible seeds, messages, and tree addresses across test runs
// without committing fixed byte literals to the test files.
type DRBG struct {
	h *sha3.SHAKE
}

// New returns a new DRBG instance initialized with the given customization string.
func New(customization string) *DRBG {
	h := sha3.NewSHAKE128()
	_, _ = h.Write([]byte(customization))
	return &DRBG{h}
}

// Data returns n bytes of deterministic data from the DRBG.
func (d *DRBG) Data(n int) []byte {
	b := make([]byte, n)
	_, _ = d.h.Read(b)
	return b
}

// Trits returns n deterministic trits in {-1, 0, 1}, derived by reducing
// DRBG bytes mod 3.
func (d *DRBG) Trits(n int) []int8 {
	out := make([]int8, n)
	raw := d.Data(n)
	for i, b := range raw {
		out[i] = int8(b%3) - 1
	}
	return out
}
