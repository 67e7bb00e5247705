// Package iss implements the Winternitz-style one-time signature scheme the
// core authenticates each leaf's message digest under: subseed derivation,
// key expansion, signing, and the verify-side digest recovery, plus a
// keygen-time leaf digest helper used to build the Merkle tree's addresses.
// Grounded on the segment/fragment hash-chain structure of a real IOTA
// signing implementation, adapted from Kerl to the sponge abstraction this
// module consumes.
package iss

import (
	"github.com/rootwave/mam/hazmat/curl"
	"github.com/rootwave/mam/trit"
)

// HashLength is the width, in trits, of one hash-chain segment.
const HashLength = curl.HashLength

// SegmentsPerFragment is the number of hash-chain segments in one
// security-level's key fragment.
const SegmentsPerFragment = 27

// KeyLength is the trit length of one security level's key fragment:
// SegmentsPerFragment segments of HashLength trits each.
const KeyLength = SegmentsPerFragment * HashLength

// chainSteps is the maximum number of times a segment is hashed; a signed
// segment and its verify-side recovery always sum to this.
const chainSteps = 26

// Subseed derives the leaf subseed for leaf index from seed into out (which
// must be HashLength trits long), using sponge.
func Subseed(seed []trit.Trit, index int, out []trit.Trit, sponge curl.Sponge) {
	buf := make([]trit.Trit, HashLength)
	copy(buf, seed[:min(len(seed), HashLength)])
	trit.AddAssign(buf, index)

	sponge.Reset()
	sponge.Absorb(buf)
	copy(out, sponge.Rate())
}

// Key expands the subseed already present in out[:HashLength] into a full
// raw private key of security fragments, overwriting out in place. out must
// be security*KeyLength trits long.
func Key(out []trit.Trit, security int, sponge curl.Sponge) {
	subseed := append([]trit.Trit(nil), out[:HashLength]...)

	sponge.Reset()
	sponge.Absorb(subseed)
	sponge.Squeeze(out[:security*KeyLength])
}

// Signature signs digest (HashLength trits) in place over the raw key
// already present in out, replacing each segment with its partial hash
// chain. out must be security*KeyLength trits long, where
// security = len(out) / KeyLength.
func Signature(digest []trit.Trit, out []trit.Trit, sponge curl.Sponge) {
	security := len(out) / KeyLength
	groups := normalizedGroups(digest)

	for i := range security {
		group := groups[i%3]
		for j := range SegmentsPerFragment {
			seg := out[(i*SegmentsPerFragment+j)*HashLength : (i*SegmentsPerFragment+j+1)*HashLength]
			steps := 13 - int(group[j])
			for range steps {
				sponge.Reset()
				sponge.Absorb(seg)
				copy(seg, sponge.Rate())
			}
		}
	}
}

// DigestFromSignature recovers the leaf digest a valid signature over digest
// must correspond to: for each security-level fragment it completes the
// partial hash chains left by Signature, folds the recovered segments into a
// per-fragment digest, then folds all fragment digests into the final
// HashLength-trit leaf digest the Merkle path should authenticate.
func DigestFromSignature(digest []trit.Trit, sig []trit.Trit, sponge curl.Sponge) []trit.Trit {
	security := len(sig) / KeyLength
	groups := normalizedGroups(digest)
	chain := curl.New()

	fragmentDigests := make([]trit.Trit, security*HashLength)
	for i := range security {
		group := groups[i%3]
		sponge.Reset()
		for j := range SegmentsPerFragment {
			seg := append([]trit.Trit(nil), sig[(i*SegmentsPerFragment+j)*HashLength:(i*SegmentsPerFragment+j+1)*HashLength]...)
			steps := 13 + int(group[j])
			for range steps {
				chain.Reset()
				chain.Absorb(seg)
				copy(seg, chain.Rate())
			}
			sponge.Absorb(seg)
		}
		copy(fragmentDigests[i*HashLength:(i+1)*HashLength], sponge.Rate())
	}

	sponge.Reset()
	sponge.Absorb(fragmentDigests)
	out := make([]trit.Trit, HashLength)
	copy(out, sponge.Rate())
	return out
}

// LeafDigest computes the keygen-time digest for leaf index: the value the
// publisher feeds into merkle's addresses array for that leaf, before any
// message is signed under it. It is not part of the composer/parser's
// consumed interface — callers use it to build the addresses array passed to
// merkle.Siblings.
func LeafDigest(seed []trit.Trit, index int, security int, sponge curl.Sponge) []trit.Trit {
	key := make([]trit.Trit, security*KeyLength)
	Subseed(seed, index, key[:HashLength], sponge)
	Key(key, security, sponge)

	chain := curl.New()
	fragmentDigests := make([]trit.Trit, security*HashLength)
	for i := range security {
		sponge.Reset()
		for j := range SegmentsPerFragment {
			seg := append([]trit.Trit(nil), key[(i*SegmentsPerFragment+j)*HashLength:(i*SegmentsPerFragment+j+1)*HashLength]...)
			for range chainSteps {
				chain.Reset()
				chain.Absorb(seg)
				copy(seg, chain.Rate())
			}
			sponge.Absorb(seg)
		}
		copy(fragmentDigests[i*HashLength:(i+1)*HashLength], sponge.Rate())
	}

	sponge.Reset()
	sponge.Absorb(fragmentDigests)
	out := make([]trit.Trit, HashLength)
	copy(out, sponge.Rate())
	return out
}

// normalizedGroups splits digest (HashLength trits) into three 27-tryte
// groups, each renormalized so its trytes sum to zero — the signing scheme's
// defense against an attacker forging a different digest whose per-segment
// digits are all ≥ the signed one.
func normalizedGroups(digest []trit.Trit) [3][SegmentsPerFragment]int8 {
	var groups [3][SegmentsPerFragment]int8

	for g := range 3 {
		base := g * (HashLength / 3)
		sum := 0
		for j := range SegmentsPerFragment {
			v := trit.Trits2Int(digest[base+3*j : base+3*j+3])
			groups[g][j] = int8(v)
			sum += v
		}
		for sum > 0 {
			for j := range SegmentsPerFragment {
				if groups[g][j] > -13 {
					groups[g][j]--
					sum--
					break
				}
			}
		}
		for sum < 0 {
			for j := range SegmentsPerFragment {
				if groups[g][j] < 13 {
					groups[g][j]++
					sum++
					break
				}
			}
		}
	}
	return groups
}
