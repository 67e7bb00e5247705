// Package mam implements the core of a masked authenticated messaging
// channel layer: composing and parsing a single signed, encrypted payload
// under a Merkle-tree one-time-signature channel, chained to its successor
// by a next-root carried inside the payload itself.
//
// Composition and parsing are synchronous and single-threaded; callers own
// the payload and output buffers and every sponge instance, and are free to
// pool them across calls. Compose and Parse are not allocation-free: they
// allocate working storage of their own (key registers, Merkle tree levels
// and scratch sponges, signature scratch, and copies of the recovered
// message and next-root).
package mam

import "errors"

// ErrArrayOutOfBounds is returned when a caller-provided buffer is too small
// for the computed layout, or when a decoded length field would place a
// field past the end of the payload.
var ErrArrayOutOfBounds = errors.New("mam: buffer too small for layout")

// ErrInvalidSignature is returned when signature verification fails, the
// recomputed Merkle root does not match the trusted root, or the nonce's
// proof-of-work predicate does not hold.
var ErrInvalidSignature = errors.New("mam: invalid signature or root")
