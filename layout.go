package mam

import "github.com/rootwave/mam/pascal"

// KeyLength is the trit length of one security level's signature/key
// fragment.
const KeyLength = 27 * HashLength

// layout holds the trit offsets of every field in a composed payload, in
// order. lenPrefixLen, siblingsLenLen and keyLength are field lengths; the
// remaining fields are absolute offsets into the payload buffer.
type layout struct {
	lenPrefixLen   int
	siblingsLenLen int
	keyLength      int

	cursorStart        int // end of the length prefix; start of next-root
	messageStart       int
	nonceStart         int
	signatureEnd       int
	siblingsCountStart int
	siblingsStart      int
	siblingsEnd        int
	payloadEnd         int
}

// planLayout computes the exact field offsets for a message of length L
// trits, a given security level, and d Merkle siblings.
func planLayout(messageLen int, security int, siblings int) layout {
	var l layout
	l.lenPrefixLen = pascal.Estimate(messageLen + HashLength)
	l.siblingsLenLen = pascal.Estimate(siblings)
	l.keyLength = security * KeyLength

	l.cursorStart = l.lenPrefixLen
	l.messageStart = l.cursorStart + HashLength
	l.nonceStart = l.messageStart + messageLen
	l.signatureEnd = l.nonceStart + NonceLength + l.keyLength
	l.siblingsCountStart = l.signatureEnd
	l.siblingsStart = l.siblingsCountStart + l.siblingsLenLen
	l.siblingsEnd = l.siblingsStart + siblings*HashLength
	l.payloadEnd = l.siblingsEnd + HashLength
	return l
}
