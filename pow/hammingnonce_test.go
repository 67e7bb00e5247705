package pow

import (
	"context"
	"testing"

	"github.com/rootwave/mam/hazmat/bctcurl"
	"github.com/rootwave/mam/hazmat/curl"
	"github.com/rootwave/mam/trit"
)

func TestSearchSatisfiesPredicate(t *testing.T) {
	for _, security := range []int{1, 2, 3} {
		base := curl.New()
		base.Absorb(make([]trit.Trit, curl.HashLength))

		bcurl := bctcurl.New()
		length, nonce, ok := searchNonce(security, 0, 81, base, bcurl)
		if !ok {
			t.Fatalf("security=%d: searchNonce found no nonce within the attempt budget", security)
		}
		if length < 0 || length > 81 {
			t.Fatalf("security=%d: got out-of-range nonce length %d", security, length)
		}

		width := security * WeightPerLevel
		if length < width {
			t.Fatalf("security=%d: winning nonce length %d is shorter than width %d", security, length, width)
		}
		base.Absorb(nonce)
		if !satisfies(base.Rate(), width, bcurl) {
			t.Errorf("security=%d: winning nonce does not satisfy its own predicate", security)
		}
	}
}

// TestSearchMatchesVerify pins the property Parse depends on: the rate trits
// Search leaves behind in curl1, once published, re-satisfy Verify directly.
func TestSearchMatchesVerify(t *testing.T) {
	for _, security := range []int{1, 2, 3} {
		base := curl.New()
		base.Absorb(make([]trit.Trit, curl.HashLength))

		bcurl := bctcurl.New()
		length := Search(security, 0, 81, base, bcurl)

		published := append([]trit.Trit(nil), base.Rate()[:length]...)
		if !Verify(published, security, bctcurl.New()) {
			t.Errorf("security=%d: Search's resultant rate does not re-verify", security)
		}
	}
}

func TestVerifyRejectsShortNonce(t *testing.T) {
	nonce := make([]trit.Trit, WeightPerLevel) // one security level's width, short for security=2
	if Verify(nonce, 2, bctcurl.New()) {
		t.Error("Verify should reject a nonce shorter than security*WeightPerLevel")
	}
}

func TestSearchAbsorbsWinningNonce(t *testing.T) {
	base := curl.New()
	base.Absorb(make([]trit.Trit, curl.HashLength))
	before := append([]trit.Trit(nil), base.State()...)

	bcurl := bctcurl.New()
	length := Search(1, 0, 81, base, bcurl)

	if length < 0 || length > 81 {
		t.Fatalf("got out-of-range length %d", length)
	}
	if equalTrits(base.State(), before) {
		t.Error("Search should mutate curl1's state by absorbing the winning nonce")
	}
}

func TestSearchDeterministic(t *testing.T) {
	base1 := curl.New()
	base1.Absorb([]trit.Trit{1, 0, -1})
	len1 := Search(1, 0, 81, base1, bctcurl.New())

	base2 := curl.New()
	base2.Absorb([]trit.Trit{1, 0, -1})
	len2 := Search(1, 0, 81, base2, bctcurl.New())

	if len1 != len2 {
		t.Errorf("Search is not deterministic: got lengths %d and %d", len1, len2)
	}
	if !equalTrits(base1.State(), base2.State()) {
		t.Error("Search is not deterministic: post-absorb states differ")
	}
}

func TestSearchWithRetrySucceeds(t *testing.T) {
	base := curl.New()
	base.Absorb(make([]trit.Trit, curl.HashLength))

	length, err := SearchWithRetry(context.Background(), 1, 81, base, bctcurl.New(), 5)
	if err != nil {
		t.Fatalf("SearchWithRetry returned error: %v", err)
	}
	if length < 0 || length > 81 {
		t.Errorf("SearchWithRetry returned out-of-range length %d", length)
	}
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
