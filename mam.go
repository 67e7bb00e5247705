package mam

import (
	"github.com/rootwave/mam/hazmat/bctcurl"
	"github.com/rootwave/mam/hazmat/curl"
	"github.com/rootwave/mam/iss"
	"github.com/rootwave/mam/merkle"
	"github.com/rootwave/mam/pascal"
	"github.com/rootwave/mam/pow"
	"github.com/rootwave/mam/trit"
)

// Compose writes a masked, signed payload for message under the Merkle tree
// described by addresses (its concatenated leaf-key material) and start
// (the absolute leaf offset of addresses' first entry in the publisher's key
// space), signing leaf index with the one-time key derived from seed.
// next is the successor channel's root, carried inside the payload so a
// subscriber can chain to it. curl1, curl2, and bcurl are reset on return,
// including on error. It returns the number of trits written to out.
func Compose(seed, message, addresses, next, out []trit.Trit, start, index, security int, curl1, curl2 curl.Sponge, bcurl *bctcurl.Sponge) (int, error) {
	defer curl1.Reset()
	defer curl2.Reset()
	defer bcurl.Reset()

	numLeaves := len(addresses) / merkle.HashLength
	d := merkle.SiblingsCount(numLeaves)
	lp := planLayout(len(message), security, d)
	if len(out) < lp.payloadEnd {
		return 0, ErrArrayOutOfBounds
	}

	// 1. Emit siblings; the recomputed root lands in curl1's rate.
	merkle.Siblings(addresses, index, out[lp.siblingsStart:lp.siblingsEnd], curl1)
	rootTag := out[lp.siblingsEnd : lp.siblingsEnd+HashLength]
	copy(rootTag, curl1.Rate())

	// 2. Derive the message key from the freshly computed root.
	keyChunk := MessageKey(rootTag, index, curl2)

	// 3. Length prefix: encodes L+H, not L.
	cursor := pascal.Encode(len(message)+HashLength, out[:lp.lenPrefixLen])
	MaskSlice(out[:cursor], keyChunk, curl2)

	// 4, 5. next-root and message.
	copy(out[cursor:cursor+HashLength], next)
	cursor += HashLength
	copy(out[cursor:cursor+len(message)], message)
	cursor += len(message)

	// 6. Mask next-root+message as one range; the length prefix stays
	// singly masked.
	MaskSlice(out[lp.lenPrefixLen:cursor], keyChunk, curl2)

	// 7. Nonce search: snapshot curl2's state into curl1 and grind.
	copy(curl1.StateMut(), curl2.State())
	nonceLen := pow.Search(security, 0, NonceLength, curl1, bcurl)
	nonceField := out[cursor : cursor+NonceLength]
	clear(nonceField)
	copy(nonceField[:nonceLen], curl1.Rate()[:nonceLen])
	MaskSlice(nonceField, keyChunk, curl2)
	cursor += NonceLength

	// 8. Sign: the digest signed is keyChunk as of right now, which
	// therefore depends on the length prefix, next-root, message, and
	// nonce.
	sigStart := cursor
	keyLength := security * KeyLength

	curl1.Reset()
	iss.Subseed(seed, start+index, out[sigStart:sigStart+HashLength], curl1)
	curl1.Reset()
	iss.Key(out[sigStart:sigStart+keyLength], security, curl1)
	curl1.Reset()
	iss.Signature(keyChunk, out[sigStart:sigStart+keyLength], curl1)
	cursor = sigStart + keyLength

	// 9. Siblings count prefix.
	pascal.Encode(d, out[lp.siblingsCountStart:lp.siblingsCountStart+lp.siblingsLenLen])

	// 10. Mask signature + siblings-count + siblings as one range.
	MaskSlice(out[sigStart:lp.siblingsEnd], keyChunk, curl2)

	return lp.payloadEnd, nil
}

// Parse inverts Compose. Given a trusted root, it unmasks payload into out,
// recovers the plaintext message and next-root, checks that the nonce paid
// its proof-of-work cost, reconstructs a candidate Merkle root from the
// signature and siblings, and authenticates the payload by checking that
// candidate against root. security and index must match the values the
// publisher composed with — they are channel metadata the core does not
// attempt to recover from the wire.
func Parse(payload, root []trit.Trit, security, index int, out []trit.Trit, curl1, curl2 curl.Sponge, bcurl *bctcurl.Sponge) (message, nextRoot, recoveredRoot []trit.Trit, err error) {
	defer curl1.Reset()
	defer curl2.Reset()
	defer bcurl.Reset()

	if len(out) < len(payload) {
		return nil, nil, nil, ErrArrayOutOfBounds
	}
	buf := out[:len(payload)]
	copy(buf, payload)

	keyChunk := MessageKey(root, index, curl2)

	M, lenPrefixLen, perr := peekPascal(buf, keyChunk, curl2)
	if perr != nil {
		return nil, nil, nil, perr
	}
	if M < HashLength || lenPrefixLen+M > len(buf) {
		return nil, nil, nil, ErrArrayOutOfBounds
	}
	UnmaskSlice(buf[:lenPrefixLen], keyChunk, curl2)
	UnmaskSlice(buf[lenPrefixLen:lenPrefixLen+M], keyChunk, curl2)

	nextRoot = append([]trit.Trit(nil), buf[lenPrefixLen:lenPrefixLen+HashLength]...)
	message = append([]trit.Trit(nil), buf[lenPrefixLen+HashLength:lenPrefixLen+M]...)

	nonceStart := lenPrefixLen + M
	if nonceStart+NonceLength > len(buf) {
		return nil, nil, nil, ErrArrayOutOfBounds
	}
	UnmaskSlice(buf[nonceStart:nonceStart+NonceLength], keyChunk, curl2)

	if !pow.Verify(buf[nonceStart:nonceStart+NonceLength], security, bcurl) {
		return nil, nil, nil, ErrInvalidSignature
	}

	// The digest iss verifies against is keyChunk exactly as it stands now —
	// before any further masking advances it past this point.
	digest := append([]trit.Trit(nil), keyChunk...)

	keyLength := security * KeyLength
	sigStart := nonceStart + NonceLength
	signatureEnd := sigStart + keyLength
	if signatureEnd > len(buf) {
		return nil, nil, nil, ErrArrayOutOfBounds
	}
	UnmaskSlice(buf[sigStart:signatureEnd], keyChunk, curl2)

	d, siblingsLenLen, perr2 := peekPascal(buf[signatureEnd:], keyChunk, curl2)
	if perr2 != nil {
		return nil, nil, nil, perr2
	}
	if d < 0 {
		return nil, nil, nil, ErrArrayOutOfBounds
	}
	siblingsStart := signatureEnd + siblingsLenLen
	siblingsEnd := siblingsStart + d*HashLength
	if siblingsEnd > len(buf) {
		return nil, nil, nil, ErrArrayOutOfBounds
	}
	UnmaskSlice(buf[signatureEnd:siblingsEnd], keyChunk, curl2)

	signature := buf[sigStart:signatureEnd]
	siblings := buf[siblingsStart:siblingsEnd]

	leafDigest := iss.DigestFromSignature(digest, signature, curl1)
	recoveredRoot = append([]trit.Trit(nil), merkle.RootFromSiblings(leafDigest, index, siblings, curl1)...)

	if !equalTrits(recoveredRoot, root) {
		return nil, nil, nil, ErrInvalidSignature
	}
	return message, nextRoot, recoveredRoot, nil
}

// peekPascal decodes a pascal-encoded field at the front of ciphertext
// without disturbing curl2's real state: it walks a disposable clone of
// curl2 through the same chunked unmasking curl2 would perform, stopping as
// soon as a complete encoding is found. The caller then performs the real
// commit itself, over exactly the field length this reports, so curl2's
// actual state advances in one step identical to what a single continuous
// call over that same range would have produced.
func peekPascal(ciphertext []trit.Trit, keyChunk []trit.Trit, curl2 curl.Sponge) (value int, fieldLen int, err error) {
	clone := curl.New()
	copy(clone.StateMut(), curl2.State())
	kc := append([]trit.Trit(nil), keyChunk...)
	plain := make([]trit.Trit, 0, HashLength)

	consumed := 0
	for consumed < len(ciphertext) {
		n := min(HashLength, len(ciphertext)-consumed)
		chunk := append([]trit.Trit(nil), ciphertext[consumed:consumed+n]...)
		UnmaskSlice(chunk, kc, clone)
		plain = append(plain, chunk...)
		consumed += n

		if v, used, derr := pascal.Decode(plain); derr == nil {
			return v, used, nil
		}
	}
	return 0, 0, ErrArrayOutOfBounds
}

func equalTrits(a, b []trit.Trit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
