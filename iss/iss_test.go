package iss

import (
	"testing"

	"github.com/rootwave/mam/hazmat/curl"
	"github.com/rootwave/mam/trit"
)

func testSeed() []trit.Trit {
	seed := make([]trit.Trit, HashLength)
	for i := range seed {
		seed[i] = trit.Trit(i%3) - 1
	}
	return seed
}

func testDigest() []trit.Trit {
	digest := make([]trit.Trit, HashLength)
	for i := range digest {
		digest[i] = trit.Trit((i*7)%3) - 1
	}
	return digest
}

func TestSubseedDeterministic(t *testing.T) {
	seed := testSeed()
	sponge := curl.New()

	a := make([]trit.Trit, HashLength)
	Subseed(seed, 5, a, sponge)

	b := make([]trit.Trit, HashLength)
	Subseed(seed, 5, b, curl.New())

	if !equal(a, b) {
		t.Error("Subseed is not deterministic for the same seed and index")
	}

	c := make([]trit.Trit, HashLength)
	Subseed(seed, 6, c, curl.New())
	if equal(a, c) {
		t.Error("Subseed should differ across leaf indices")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	for _, security := range []int{1, 2, 3} {
		digest := testDigest()
		seed := testSeed()
		sponge := curl.New()

		key := make([]trit.Trit, security*KeyLength)
		Subseed(seed, 0, key[:HashLength], sponge)
		sponge.Reset()
		Key(key, security, sponge)

		keyCopy := append([]trit.Trit(nil), key...)
		sponge.Reset()
		wantLeaf := LeafDigest(seed, 0, security, sponge)

		sig := append([]trit.Trit(nil), keyCopy...)
		sponge.Reset()
		Signature(digest, sig, sponge)

		sponge.Reset()
		gotLeaf := DigestFromSignature(digest, sig, sponge)

		if !equal(gotLeaf, wantLeaf) {
			t.Errorf("security=%d: DigestFromSignature(Signature(digest)) != LeafDigest", security)
		}
	}
}

func TestDigestFromSignatureRejectsWrongDigest(t *testing.T) {
	security := 1
	seed := testSeed()
	digest := testDigest()

	sponge := curl.New()
	key := make([]trit.Trit, security*KeyLength)
	Subseed(seed, 0, key[:HashLength], sponge)
	sponge.Reset()
	Key(key, security, sponge)

	sig := append([]trit.Trit(nil), key...)
	sponge.Reset()
	Signature(digest, sig, sponge)

	otherDigest := append([]trit.Trit(nil), digest...)
	otherDigest[0] = trit.TritSum(otherDigest[0], 1)

	sponge.Reset()
	wantLeaf := LeafDigest(seed, 0, security, curl.New())
	sponge.Reset()
	gotLeaf := DigestFromSignature(otherDigest, sig, sponge)

	if equal(gotLeaf, wantLeaf) {
		t.Error("DigestFromSignature should not recover the correct leaf digest for a tampered digest")
	}
}

func TestNormalizedGroupsSumToZero(t *testing.T) {
	digest := testDigest()
	groups := normalizedGroups(digest)
	for g, group := range groups {
		sum := 0
		for _, v := range group {
			sum += int(v)
		}
		if sum != 0 {
			t.Errorf("group %d sums to %d, want 0", g, sum)
		}
	}
}

func equal(a, b []trit.Trit) bool {
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
