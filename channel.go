package mam

import (
	"github.com/rootwave/mam/hazmat/bctcurl"
	"github.com/rootwave/mam/hazmat/curl"
	"github.com/rootwave/mam/iss"
	"github.com/rootwave/mam/merkle"
	"github.com/rootwave/mam/trit"
)

// Channel is a convenience wrapper around Compose/Parse for a single Merkle
// tree of leaves: it owns the tree's leaf digests (the addresses array
// Compose consumes), the tree's root, and the sponges needed to
// drive them, so a caller doesn't have to assemble those by hand for the
// common case of publishing or reading a sequence of messages under one
// tree. It is not part of the core's mandated interface — compose and parse
// work from caller-supplied buffers and sponges regardless.
type Channel struct {
	Seed      []trit.Trit
	Start     int
	Security  int
	Root      []trit.Trit
	addresses []trit.Trit

	curl1 curl.Sponge
	curl2 curl.Sponge
	bcurl *bctcurl.Sponge
}

// NewChannel derives the addresses and root for a tree of count leaves
// starting at leaf start under seed, at the given security level.
func NewChannel(seed []trit.Trit, start, count, security int) *Channel {
	c := &Channel{
		Seed:      seed,
		Start:     start,
		Security:  security,
		addresses: make([]trit.Trit, count*HashLength),
		curl1:     curl.New(),
		curl2:     curl.New(),
		bcurl:     bctcurl.New(),
	}

	scratch := curl.New()
	for i := range count {
		digest := iss.LeafDigest(seed, start+i, security, scratch)
		copy(c.addresses[i*HashLength:(i+1)*HashLength], digest)
		scratch.Reset()
	}

	d := merkle.SiblingsCount(count)
	siblings := make([]trit.Trit, d*HashLength)
	merkle.Siblings(c.addresses, 0, siblings, scratch)
	c.Root = append([]trit.Trit(nil), scratch.Rate()...)
	return c
}

// Publish composes a payload for message at leaf index, chaining to next's
// root as the successor channel. out must be at least large enough for the
// computed layout; see planLayout.
func (c *Channel) Publish(message []trit.Trit, index int, next *Channel, out []trit.Trit) (int, error) {
	return Compose(c.Seed, message, c.addresses, next.Root, out, c.Start, index, c.Security, c.curl1, c.curl2, c.bcurl)
}

// Read parses a payload composed under this channel's root at leaf index.
func (c *Channel) Read(payload []trit.Trit, index int, out []trit.Trit) (message, nextRoot []trit.Trit, err error) {
	message, nextRoot, _, err = Parse(payload, c.Root, c.Security, index, out, c.curl1, c.curl2, c.bcurl)
	return message, nextRoot, err
}
