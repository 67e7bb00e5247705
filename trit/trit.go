// Package trit implements balanced ternary arithmetic: the scalar trit type
// consumed by the masking, layout, compose, and parse logic in package mam,
// and its binary-coded dual consumed by the proof-of-work nonce searcher.
package trit

// Trit is a ternary digit in {-1, 0, +1}.
type Trit = int8

// BCTrit is the binary-coded dual of a Trit, used only by the proof-of-work
// searcher in package pow. The searcher's caller never needs to interpret its
// internal encoding; it exists so the nonce search can run its own sponge
// instance without disturbing the caller's trit-typed Curl state.
type BCTrit = int8

// TritSum computes the ternary sum of a and b without carry: the table used
// to mask and unmask a single trit. It is its own inverse under negation —
// TritSum(TritSum(a, b), -b) == a — which is what lets mask_slice and
// unmask_slice invert each other.
func TritSum(a, b Trit) Trit {
	s := a + b
	switch s {
	case 2:
		return -1
	case -2:
		return 1
	default:
		return s
	}
}

// AddAssign adds index, a non-negative integer, into buf in place using
// balanced-ternary long addition with carry propagation. Carry that runs off
// the end of buf is silently dropped — this is the "wrap-free" addition the
// channel-key preamble relies on: buf is always HASH_LENGTH trits, far wider
// than any realistic leaf index, so truncation is never observed in practice.
func AddAssign(buf []Trit, index int) {
	idx := Int2Trits(index)
	var carry Trit
	for i := range buf {
		var b Trit
		if i < len(idx) {
			b = idx[i]
		}
		s := buf[i] + b + carry
		switch {
		case s > 1:
			buf[i] = s - 3
			carry = 1
		case s < -1:
			buf[i] = s + 3
			carry = -1
		default:
			buf[i] = s
			carry = 0
		}
	}
}

// MinTrits returns the minimum number of trits needed to represent n in
// balanced ternary.
func MinTrits(n int) int {
	if n < 0 {
		n = -n
	}
	count := 0
	for bound := 0; bound < n; count++ {
		bound = pow3(count+1) / 2
	}
	return count
}

// Int2Trits converts n into its minimal balanced-ternary representation,
// least-significant trit first. The sign of n is carried by negating every
// digit of |n|'s representation.
func Int2Trits(n int) []Trit {
	size := MinTrits(n)
	out := make([]Trit, size)
	neg := n < 0
	v := n
	if neg {
		v = -v
	}
	for i := 0; i < size; i++ {
		rem := v % 3
		v /= 3
		if rem == 2 {
			rem = -1
			v++
		}
		out[i] = Trit(rem)
	}
	if neg {
		for i := range out {
			out[i] = -out[i]
		}
	}
	return out
}

// Trits2Int converts a balanced-ternary trit sequence (least-significant
// first) back into an integer.
func Trits2Int(t []Trit) int {
	v := 0
	mul := 1
	for _, tr := range t {
		v += int(tr) * mul
		mul *= 3
	}
	return v
}

func pow3(n int) int {
	v := 1
	for range n {
		v *= 3
	}
	return v
}
