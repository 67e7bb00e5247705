// Package pascal implements the variable-length, self-delimiting ternary
// encoding of non-negative integers used for the payload's length and
// siblings-count prefixes. Its exact wire format is not mandated by the
// channel layer's specification — pascal is an external collaborator the
// core only calls through Estimate/Encode/Decode — so this is a
// from-scratch scheme rather than a byte-exact port of a particular
// reference implementation (the retrieved original source for this codec is
// itself incomplete and does not compile).
//
// Layout: a run of k trits, each -1 or 0, announcing "k more trytes follow";
// a +1 terminator trit; then k trytes (3k trits) holding n in balanced
// ternary, least-significant trit first, zero-padded up to the tryte
// boundary. n == 0 encodes as a single terminator trit (k == 0).
package pascal

import (
	"errors"

	"github.com/rootwave/mam/trit"
)

// ErrIncomplete is returned by Decode when in does not contain a complete
// encoding — the caller needs more trits before it can decode.
var ErrIncomplete = errors.New("pascal: incomplete encoding")

// Estimate returns the number of trits Encode(n, ...) will write.
func Estimate(n int) int {
	k := trytesFor(n)
	return 4*k + 1
}

// Encode writes n's encoding into out (which must be at least
// Estimate(n) trits long) and returns the number of trits written.
func Encode(n int, out []trit.Trit) int {
	k := trytesFor(n)
	for i := range k {
		out[i] = 0
	}
	out[k] = 1

	mag := trit.Int2Trits(n)
	body := out[k+1 : k+1+3*k]
	for i := range body {
		body[i] = 0
	}
	copy(body, mag)

	return 4*k + 1
}

// Decode reads an encoding from the front of in and returns the decoded
// value along with the number of trits consumed. It returns ErrIncomplete
// if in does not contain a terminator trit followed by its full magnitude.
func Decode(in []trit.Trit) (int, int, error) {
	k := 0
	for k < len(in) && in[k] != 1 {
		k++
	}
	if k == len(in) {
		return 0, 0, ErrIncomplete
	}
	total := 4*k + 1
	if len(in) < total {
		return 0, 0, ErrIncomplete
	}
	n := trit.Trits2Int(in[k+1 : k+1+3*k])
	return n, total, nil
}

func trytesFor(n int) int {
	m := trit.MinTrits(n)
	return (m + 2) / 3
}
