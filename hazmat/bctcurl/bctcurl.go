// Package bctcurl implements the binary-coded-trit sponge consumed only by
// the proof-of-work nonce searcher in package pow. In this module a
// binary-coded trit shares Trit's int8 representation, and the searcher
// evaluates its predicate one trit at a time; the permutation backing it is, like the
// scalar Curl in package curl, explicitly out of scope of the channel
// layer's specification. Rather than hand-roll a second bespoke permutation,
// this one is backed by the standard library's SHAKE128 — the same XOF the
// teacher corpus itself reaches for in its own deterministic test fixtures.
package bctcurl

import (
	"crypto/sha3"

	"github.com/rootwave/mam/trit"
)

// HashLength mirrors curl.HashLength: one squeeze emits this many
// binary-coded trits.
const HashLength = 243

// Sponge is the binary-coded-trit Curl instance.
type Sponge struct {
	h         *sha3.SHAKE
	absorbed  []byte
	squeezing bool
	rate      [HashLength]trit.BCTrit
}

// New returns a Sponge in the reset state.
func New() *Sponge {
	s := &Sponge{}
	s.Reset()
	return s
}

// Absorb feeds in into the sponge. Each binary-coded trit is packed into one
// byte before being absorbed by the underlying XOF.
func (s *Sponge) Absorb(in []trit.BCTrit) {
	if s.squeezing {
		s.Reset()
	}
	buf := make([]byte, len(in))
	for i, t := range in {
		buf[i] = byte(t + 1)
	}
	s.absorbed = append(s.absorbed, buf...)
}

// Squeeze fills out with binary-coded trits derived from the absorbed input.
// The first call finalizes absorption; subsequent calls continue squeezing
// from the same XOF stream.
func (s *Sponge) Squeeze(out []trit.BCTrit) {
	if !s.squeezing {
		_, _ = s.h.Write(s.absorbed)
		s.squeezing = true
	}
	raw := make([]byte, len(out))
	_, _ = s.h.Read(raw)
	for i, b := range raw {
		out[i] = trit.BCTrit(b%3) - 1
	}
	clear(s.rate[:])
	copy(s.rate[:], out[:min(len(out), HashLength)])
}

// Rate returns the most recently squeezed block, zero-padded/truncated to
// HashLength.
func (s *Sponge) Rate() []trit.BCTrit {
	return s.rate[:]
}

// Reset discards all absorbed input and starts a fresh XOF instance.
func (s *Sponge) Reset() {
	s.h = sha3.NewSHAKE128()
	s.absorbed = s.absorbed[:0]
	s.squeezing = false
	clear(s.rate[:])
}
