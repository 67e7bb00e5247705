// Package curl implements the ternary sponge permutation consumed by package
// mam. Its internal transform is deliberately out of scope of the channel
// layer's specification — mam only requires the Absorb/Squeeze/Rate/State
// contract in curl.Sponge — so this is a from-scratch, modestly-round
// permutation rather than a byte-exact port of any particular production
// Curl-P implementation.
package curl

import "github.com/rootwave/mam/trit"

// HashLength is the sponge's rate: the number of trits a single squeeze call
// emits, and the unit the core chunks every masked field into.
const HashLength = 243

// StateLength is the full sponge state width. The first HashLength trits are
// the rate (the externally visible portion); the remainder is capacity.
const StateLength = 3 * HashLength

const rounds = 27

// step is the fixed index stride the round function walks the state with. It
// must be coprime to StateLength (729 = 3^6) so a single pass visits every
// index exactly once; 364 = 2^2 * 7 * 13 satisfies that.
const step = 364

// Sponge is the trit-typed Curl interface the core consumes: absorb,
// squeeze, a view of the rate, full-state snapshot/restore, and reset.
// State snapshotting is exposed directly (not hidden behind the
// absorb/squeeze surface) because the composer hands curl2's state to curl1
// verbatim ahead of the nonce search.
type Sponge interface {
	Absorb(in []trit.Trit)
	Squeeze(out []trit.Trit)
	Rate() []trit.Trit
	State() []trit.Trit
	StateMut() []trit.Trit
	Reset()
}

// Curl is the default Sponge implementation.
type Curl struct {
	state [StateLength]trit.Trit
}

// New returns a Curl in the reset state.
func New() *Curl {
	return &Curl{}
}

func (c *Curl) Absorb(in []trit.Trit) {
	for len(in) > 0 {
		n := min(len(in), HashLength)
		copy(c.state[:n], in[:n])
		c.transform()
		in = in[n:]
	}
}

func (c *Curl) Squeeze(out []trit.Trit) {
	for len(out) > 0 {
		n := min(len(out), HashLength)
		copy(out[:n], c.state[:n])
		c.transform()
		out = out[n:]
	}
}

func (c *Curl) Rate() []trit.Trit { return c.state[:HashLength] }

func (c *Curl) State() []trit.Trit { return c.state[:] }

func (c *Curl) StateMut() []trit.Trit { return c.state[:] }

func (c *Curl) Reset() { clear(c.state[:]) }

// truthTable is the nonlinear combining function applied to each pair of
// trits the round function visits.
var truthTable = [9]trit.Trit{1, 0, -1, 1, -1, 0, -1, 1, 0}

func truth(a, b trit.Trit) trit.Trit {
	return truthTable[3*(a+1)+(b+1)]
}

// transform runs `rounds` passes of a fixed-stride, nonlinear substitution
// over the state, each pass touching every index exactly once.
func (c *Curl) transform() {
	var scratch [StateLength]trit.Trit
	cur := &c.state
	nxt := &scratch
	for range rounds {
		p := 0
		for i := range StateLength {
			q := p + step
			if q >= StateLength {
				q -= StateLength
			}
			nxt[i] = truth(cur[p], cur[q])
			p = q
		}
		cur, nxt = nxt, cur
	}
	if cur != &c.state {
		c.state = *cur
	}
}
