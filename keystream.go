package mam

import (
	"github.com/rootwave/mam/hazmat/curl"
	"github.com/rootwave/mam/trit"
)

// HashLength is the sponge's rate length in trits, H in the layout math
// below.
const HashLength = curl.HashLength

// NonceLength is the maximum length, in trits, of the proof-of-work nonce.
const NonceLength = 81

// MaskSlice overwrites out in place with out ⊕ keyChunk (trit-wise sum),
// chunking out into HashLength-sized pieces. keyChunk is HashLength trits
// long and is refreshed from sponge's rate after each chunk, so the
// keystream of every later chunk depends on every earlier chunk's
// plaintext — absorption always happens on the plaintext, tying the mask to
// what was actually written rather than what's recovered on the other end.
func MaskSlice(out []trit.Trit, keyChunk []trit.Trit, sponge curl.Sponge) {
	for len(out) > 0 {
		n := min(len(out), HashLength)
		chunk := out[:n]

		for i := range n {
			keyChunk[i] = trit.TritSum(chunk[i], keyChunk[i])
		}
		sponge.Absorb(chunk)
		copy(chunk, keyChunk[:n])
		copy(keyChunk, sponge.Rate())

		out = out[n:]
	}
}

// UnmaskSlice is MaskSlice's inverse: it subtracts the keystream before
// absorbing, so the sponge sees the same plaintext the composer absorbed and
// evolves identically on both sides.
func UnmaskSlice(out []trit.Trit, keyChunk []trit.Trit, sponge curl.Sponge) {
	for len(out) > 0 {
		n := min(len(out), HashLength)
		chunk := out[:n]

		for i := range n {
			keyChunk[i] = trit.TritSum(chunk[i], -keyChunk[i])
		}
		copy(chunk, keyChunk[:n])
		sponge.Absorb(chunk)
		copy(keyChunk, sponge.Rate())

		out = out[n:]
	}
}

// MessageKey derives the channel-key preamble: root shifted by index, then
// absorbed into sponge. The returned slice is the initial keyChunk for
// composing or parsing a message under (root, index); sponge is left
// holding it in its rate.
func MessageKey(root []trit.Trit, index int, sponge curl.Sponge) []trit.Trit {
	buf := make([]trit.Trit, HashLength)
	copy(buf, root[:min(len(root), HashLength)])
	trit.AddAssign(buf, index)

	sponge.Reset()
	sponge.Absorb(buf)
	out := make([]trit.Trit, HashLength)
	copy(out, sponge.Rate())
	return out
}

// MessageID is the publishable address a message under (root, index) is
// stored at: the channel key doubly absorbed, i.e. the second squeeze of the
// same derivation. It is a pure function of (root, index) since sponge is
// reset before use.
func MessageID(root []trit.Trit, index int, sponge curl.Sponge) []trit.Trit {
	key := MessageKey(root, index, sponge)
	sponge.Absorb(key)
	out := make([]trit.Trit, HashLength)
	copy(out, sponge.Rate())
	return out
}
