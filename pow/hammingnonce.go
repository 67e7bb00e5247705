// Package pow implements the proof-of-work nonce searcher the composer
// invokes after masking a message's preamble: it grinds candidate nonce
// trits, absorbing each onto a clone of the composer's own sponge, until the
// leading trits of the resulting state — viewed through its binary-coded
// dual in bcurl — sum to zero under a difficulty that scales with the
// security level. This predicate and its exact width are an open question
// the core's specification explicitly delegates to this module; the choice
// made here — security * WeightPerLevel leading trits summing to zero — is
// recorded so the verify side can match it exactly.
package pow

import (
	"context"
	"errors"

	"github.com/avast/retry-go/v4"

	"github.com/rootwave/mam/hazmat/bctcurl"
	"github.com/rootwave/mam/hazmat/curl"
	"github.com/rootwave/mam/trit"
)

// WeightPerLevel is the number of leading rate trits, per security level,
// that the predicate absorbs into bcurl; the same number of trits squeezed
// back out must sum to zero for a nonce to be accepted.
const WeightPerLevel = 3

// maxAttemptsPerLength bounds the grind at a single nonce length before
// giving up on that length and trying a longer one.
const maxAttemptsPerLength = 3 * 6561

// ErrNonceNotFound is returned by SearchWithRetry when no nonce up to maxLen
// satisfies the PoW predicate within the attempt budget.
var ErrNonceNotFound = errors.New("pow: no nonce found within attempt budget")

// Search grinds nonce candidates of increasing length (starting at
// security*WeightPerLevel, up to maxLen) until one makes curl1's own
// post-absorb rate satisfy the predicate: its leading security*WeightPerLevel
// trits, viewed through bcurl, sum to zero. On success it performs the
// winning absorb on curl1 for real (mutating curl1's state, per the
// composer's contract) and returns the nonce's length; curl1.Rate() then
// holds exactly the value that was checked, so a verifier can re-check the
// published rate directly without redoing the grind. If no candidate
// satisfies the predicate by maxLen, it absorbs the all-zero nonce of length
// maxLen instead, so the composer always makes progress; the verify side's
// own predicate check is what then reports the failure.
func Search(security, start, maxLen int, curl1 curl.Sponge, bcurl *bctcurl.Sponge) int {
	length, nonce, ok := searchNonce(security, start, maxLen, curl1, bcurl)
	if !ok {
		nonce = make([]trit.Trit, maxLen)
		length = maxLen
	}
	curl1.Absorb(nonce)
	return length
}

// searchNonce performs the actual grind and returns the winning nonce's
// trits alongside its length. Each candidate is checked by absorbing it onto
// a scratch clone of curl1's pre-search state, so the predicate is always
// evaluated against the exact state curl1 will hold once the winner is
// absorbed for real. Candidate lengths start at width so the published
// nonce field always carries at least width real rate trits, never a
// zero-padding artifact of a too-short nonce.
func searchNonce(security, start, maxLen int, curl1 curl.Sponge, bcurl *bctcurl.Sponge) (int, []trit.Trit, bool) {
	width := security * WeightPerLevel
	base := append([]trit.Trit(nil), curl1.State()...)
	scratch := curl.New()

	for length := width; length <= maxLen; length++ {
		for n := start; n < start+maxAttemptsPerLength; n++ {
			candidate := trit.Int2Trits(n)
			if len(candidate) > length {
				break
			}
			padded := make([]trit.Trit, length)
			copy(padded, candidate)

			copy(scratch.StateMut(), base)
			scratch.Absorb(padded)

			if satisfies(scratch.Rate(), width, bcurl) {
				return length, padded, true
			}
		}
	}
	return 0, nil, false
}

// SearchWithRetry wraps the grind with a bounded number of restarts, each
// resuming the candidate counter from where the last attempt left off,
// giving the search more total attempts before giving up with
// ErrNonceNotFound. Most callers can just call Search directly; this exists
// for callers that want to cap total wall-clock spent on a pathological
// difficulty setting.
func SearchWithRetry(ctx context.Context, security, maxLen int, curl1 curl.Sponge, bcurl *bctcurl.Sponge, attempts uint) (int, error) {
	var nonceLen int
	offset := 0
	err := retry.Do(
		func() error {
			length, nonce, ok := searchNonce(security, offset, maxLen, curl1, bcurl)
			if !ok {
				offset += maxAttemptsPerLength
				return ErrNonceNotFound
			}
			curl1.Absorb(nonce)
			nonceLen = length
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.DelayType(retry.BackOffDelay),
	)
	if err != nil {
		return 0, err
	}
	return nonceLen, nil
}

// Verify reports whether nonce's leading security*WeightPerLevel trits
// satisfy the PoW predicate. Search publishes its winning nonce field as
// curl1's own resultant rate (never as an independent hash of the nonce
// value), so a verifier re-checks the predicate directly against the
// recovered field instead of re-deriving any sponge state.
func Verify(nonce []trit.Trit, security int, bcurl *bctcurl.Sponge) bool {
	width := security * WeightPerLevel
	if len(nonce) < width {
		return false
	}
	return satisfies(nonce, width, bcurl)
}

func satisfies(rate []trit.Trit, width int, bcurl *bctcurl.Sponge) bool {
	bcurl.Reset()
	bcurl.Absorb(toBCTrits(rate[:width]))

	out := make([]trit.BCTrit, width)
	bcurl.Squeeze(out)

	sum := 0
	for _, t := range out {
		sum += int(t)
	}
	return sum == 0
}

func toBCTrits(in []trit.Trit) []trit.BCTrit {
	out := make([]trit.BCTrit, len(in))
	copy(out, in)
	return out
}
