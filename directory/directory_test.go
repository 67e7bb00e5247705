package directory

import (
	"bytes"
	"testing"
)

func TestAppendGrowsRoot(t *testing.T) {
	d := New()
	emptyRoot := d.Root()

	index, root, err := d.Append([]byte("first channel root"))
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if index != 0 {
		t.Errorf("first Append returned index %d, want 0", index)
	}
	if bytes.Equal(root, emptyRoot) {
		t.Error("appending an entry should change the tree root")
	}
	if d.Size() != 1 {
		t.Errorf("Size() = %d, want 1", d.Size())
	}
}

func TestInclusionProofVerifies(t *testing.T) {
	d := New()
	entries := [][]byte{
		[]byte("root A"),
		[]byte("root B"),
		[]byte("root C"),
		[]byte("root D"),
		[]byte("root E"),
	}

	for _, e := range entries {
		if _, _, err := d.Append(e); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	size := d.Size()
	root := d.Root()

	for i, e := range entries {
		proof, err := d.InclusionProof(uint64(i), size)
		if err != nil {
			t.Fatalf("InclusionProof(%d) returned error: %v", i, err)
		}
		if err := VerifyInclusion(e, uint64(i), size, root, proof); err != nil {
			t.Errorf("VerifyInclusion(%d) failed: %v", i, err)
		}
	}
}

func TestInclusionProofRejectsWrongEntry(t *testing.T) {
	d := New()
	entries := [][]byte{[]byte("root A"), []byte("root B"), []byte("root C")}
	for _, e := range entries {
		if _, _, err := d.Append(e); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	size := d.Size()
	root := d.Root()

	proof, err := d.InclusionProof(0, size)
	if err != nil {
		t.Fatalf("InclusionProof returned error: %v", err)
	}
	if err := VerifyInclusion([]byte("not root A"), 0, size, root, proof); err == nil {
		t.Error("VerifyInclusion should reject a proof for the wrong entry")
	}
}

func TestConsistencyProofVerifies(t *testing.T) {
	d := New()
	entries := [][]byte{
		[]byte("root A"), []byte("root B"), []byte("root C"), []byte("root D"),
	}

	if _, _, err := d.Append(entries[0]); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if _, _, err := d.Append(entries[1]); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	smallerSize := d.Size()
	smallerRoot := d.Root()

	if _, _, err := d.Append(entries[2]); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if _, _, err := d.Append(entries[3]); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	largerSize := d.Size()
	largerRoot := d.Root()

	proof, err := d.ConsistencyProof(smallerSize, largerSize)
	if err != nil {
		t.Fatalf("ConsistencyProof returned error: %v", err)
	}
	if err := VerifyConsistency(smallerSize, largerSize, smallerRoot, largerRoot, proof); err != nil {
		t.Errorf("VerifyConsistency failed: %v", err)
	}
}
