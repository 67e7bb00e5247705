// Package directory is an append-only, independently auditable log of
// channel roots, distinct from the ternary Merkle tree a channel signs
// individual messages with. Where that tree authenticates one message
// under one channel, a Directory binds a whole sequence of channel roots
// (or message IDs) into a single binary hash tree a subscriber can request
// inclusion and consistency proofs against, so they don't have to trust
// whoever served them a payload history.
package directory

import (
	"errors"
	"sync"

	"github.com/transparency-dev/merkle/compact"
	"github.com/transparency-dev/merkle/proof"
	"github.com/transparency-dev/merkle/rfc6962"
)

var hasher = rfc6962.DefaultHasher

// ErrNodeNotCached is returned when a proof references a tree node the
// Directory never recorded, meaning the requested tree size predates or
// postdates what this instance has observed.
var ErrNodeNotCached = errors.New("directory: proof node not available")

// Directory is safe for concurrent use.
type Directory struct {
	mu    sync.Mutex
	rf    compact.RangeFactory
	rng   compact.Range
	nodes map[compact.NodeID][]byte
	root  []byte
}

// New returns an empty directory.
func New() *Directory {
	d := &Directory{
		rf:    compact.RangeFactory{Hash: hasher.HashChildren},
		nodes: make(map[compact.NodeID][]byte),
		root:  hasher.HashEmpty(),
	}
	r, err := d.rf.NewEmptyRange(0)
	if err != nil {
		panic(err)
	}
	d.rng = r
	return d
}

// Append commits entry at the next index and returns that index along with
// the tree's new root.
func (d *Directory) Append(entry []byte) (uint64, []byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	index := d.rng.End()
	if err := d.rng.Append(hasher.HashLeaf(entry), d.visit); err != nil {
		return 0, nil, err
	}
	root, err := d.rng.GetRootHash(d.visit)
	if err != nil {
		return 0, nil, err
	}
	d.root = root
	return index, root, nil
}

func (d *Directory) visit(id compact.NodeID, hash []byte) {
	d.nodes[id] = append([]byte(nil), hash...)
}

// Size reports the number of entries committed so far.
func (d *Directory) Size() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.End()
}

// Root returns the current tree root.
func (d *Directory) Root() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.root...)
}

// InclusionProof returns the audit path proving the entry committed at
// index belongs to the tree of the given size.
func (d *Directory) InclusionProof(index, size uint64) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	nodes, err := proof.Inclusion(index, size)
	if err != nil {
		return nil, err
	}
	return d.fetchAndRehash(nodes)
}

// ConsistencyProof returns the proof that the tree of size larger is an
// append-only extension of the tree of size smaller.
func (d *Directory) ConsistencyProof(smaller, larger uint64) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	nodes, err := proof.Consistency(smaller, larger)
	if err != nil {
		return nil, err
	}
	return d.fetchAndRehash(nodes)
}

func (d *Directory) fetchAndRehash(nodes proof.Nodes) ([][]byte, error) {
	hashes := make([][]byte, 0, len(nodes.IDs))
	for _, id := range nodes.IDs {
		h, ok := d.nodes[id]
		if !ok {
			return nil, ErrNodeNotCached
		}
		hashes = append(hashes, h)
	}
	return nodes.Rehash(hashes, hasher.HashChildren)
}

// VerifyInclusion checks an inclusion proof produced by InclusionProof
// against a trusted root.
func VerifyInclusion(entry []byte, index, size uint64, root []byte, proofHashes [][]byte) error {
	return proof.VerifyInclusion(hasher, index, size, proofHashes, root, hasher.HashLeaf(entry))
}

// VerifyConsistency checks a consistency proof produced by
// ConsistencyProof against the two roots it connects.
func VerifyConsistency(smaller, larger uint64, smallerRoot, largerRoot []byte, proofHashes [][]byte) error {
	return proof.VerifyConsistency(hasher, smaller, larger, proofHashes, smallerRoot, largerRoot)
}
