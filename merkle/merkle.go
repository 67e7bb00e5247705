// Package merkle builds the Winternitz-key authentication tree the core
// authenticates each message against. Leaves are padded up to the next
// power of two so that every leaf has a well-defined sibling at every level,
// following the same "split at the tree's natural shape" approach used by
// RFC 6962-style audit-path construction, adapted here to a fixed-depth
// binary tree of trit-hashed leaves instead of an append-only log.
package merkle

import (
	"github.com/rootwave/mam/hazmat/curl"
	"github.com/rootwave/mam/trit"
)

// HashLength is the width, in trits, of a tree node.
const HashLength = curl.HashLength

// SiblingsCount returns the number of sibling hashes (the tree depth) for a
// tree holding numLeaves leaves. A single-leaf tree has depth 0 and no
// siblings.
func SiblingsCount(numLeaves int) int {
	if numLeaves <= 1 {
		return 0
	}
	d := 0
	for (1 << d) < numLeaves {
		d++
	}
	return d
}

// Siblings writes the leaf-to-root authentication path for leaf index into
// out (which must hold SiblingsCount(numLeaves)*HashLength trits, numLeaves
// = len(addresses)/HashLength) and leaves the recomputed root in sponge's
// rate. sponge hashes the final pair of every level (the other pairs are
// hashed with fresh scratch sponges), so the last hash it performs is the
// root; it is left unreset on return so the caller can read the root
// immediately.
func Siblings(addresses []trit.Trit, index int, out []trit.Trit, sponge curl.Sponge) {
	numLeaves := len(addresses) / HashLength
	depth := SiblingsCount(numLeaves)
	size := 1 << depth

	level := make([][]trit.Trit, size)
	for i := range size {
		if i < numLeaves {
			level[i] = addresses[i*HashLength : (i+1)*HashLength]
		} else {
			level[i] = make([]trit.Trit, HashLength)
		}
	}

	if depth == 0 {
		// A single-leaf tree has no siblings; its root is the leaf itself.
		sponge.Reset()
		copy(sponge.StateMut()[:HashLength], level[0])
		return
	}

	idx := index
	for d := 0; d < depth; d++ {
		sibIdx := idx ^ 1
		copy(out[d*HashLength:(d+1)*HashLength], level[sibIdx])

		next := make([][]trit.Trit, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			if i+2 == len(level) {
				// Final pair of the level: hash it with the caller's sponge
				// so that, once the whole path is built, the last hash
				// performed on the deepest-remaining level is always the
				// one that lands in sponge's rate.
				next[i/2] = hashPair(sponge, level[i], level[i+1])
			} else {
				next[i/2] = hashPair(scratch(), level[i], level[i+1])
			}
		}
		level = next
		idx /= 2
	}
}

// RootFromSiblings recomputes the tree root from a leaf digest and its
// authentication path, following the same left/right convention Siblings
// used to record them. Used by the parser to authenticate a message's
// signature digest.
func RootFromSiblings(leaf []trit.Trit, index int, siblings []trit.Trit, sponge curl.Sponge) []trit.Trit {
	depth := len(siblings) / HashLength
	cur := append([]trit.Trit(nil), leaf...)
	idx := index
	for d := 0; d < depth; d++ {
		sib := siblings[d*HashLength : (d+1)*HashLength]
		if idx%2 == 0 {
			cur = hashPair(sponge, cur, sib)
		} else {
			cur = hashPair(sponge, sib, cur)
		}
		idx /= 2
	}
	return cur
}

func hashPair(sponge curl.Sponge, left, right []trit.Trit) []trit.Trit {
	sponge.Reset()
	sponge.Absorb(left)
	sponge.Absorb(right)
	out := make([]trit.Trit, HashLength)
	copy(out, sponge.Rate())
	return out
}

func scratch() curl.Sponge {
	return curl.New()
}
