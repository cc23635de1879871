// Package merkle implements MerkleTree (spec §4.1): a deterministic binary
// Merkle tree over 32-byte leaves with duplicate-last padding at odd
// levels, producing roots and inclusion proofs. Grounded on the teacher's
// domain/consensus/utils/merkle package, generalized from a root-only
// helper into a full tree that retains its levels so proofs can be
// generated.
package merkle

import (
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/hashes"
)

// Direction indicates which side of a node a proof's sibling hash sits on.
type Direction bool

const (
	// Left means the sibling is the left child of the proof step's parent.
	Left Direction = false
	// Right means the sibling is the right child.
	Right Direction = true
)

// ProofStep is one step of an inclusion proof: a sibling hash and which
// side of the parent it occupies.
type ProofStep struct {
	Sibling   *externalapi.DomainHash
	Direction Direction
}

// Tree is a materialized Merkle tree: levels[0] is the leaves, and each
// subsequent level is half the length of the one below (rounding up),
// ending at levels[len(levels)-1], a single-element slice holding the
// root.
type Tree struct {
	levels [][]*externalapi.DomainHash
}

// FromHashes builds a Tree from leaf hashes. An empty input yields a tree
// whose root is the zero hash; a single leaf yields a tree whose root is
// that leaf, per spec §4.1.
func FromHashes(leaves []*externalapi.DomainHash) *Tree {
	if len(leaves) == 0 {
		zero := externalapi.ZeroHash
		return &Tree{levels: [][]*externalapi.DomainHash{{&zero}}}
	}

	current := externalapi.CloneHashes(leaves)
	levels := [][]*externalapi.DomainHash{current}

	for len(current) > 1 {
		next := make([]*externalapi.DomainHash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			left := current[i]
			right := left
			if i+1 < len(current) {
				right = current[i+1]
			}
			next = append(next, hashPair(left, right))
		}
		levels = append(levels, next)
		current = next
	}

	return &Tree{levels: levels}
}

func hashPair(left, right *externalapi.DomainHash) *externalapi.DomainHash {
	w := hashes.NewBlockHashWriter()
	_, _ = w.Write(left[:])
	_, _ = w.Write(right[:])
	result := w.Finalize()
	return &result
}

// Root returns the tree's root hash.
func (t *Tree) Root() *externalapi.DomainHash {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// NumLeaves returns the number of leaves the tree was built from.
func (t *Tree) NumLeaves() int {
	return len(t.levels[0])
}

// GenerateProof returns the ordered list of (sibling, direction) steps
// climbing from leaf i to the root.
func (t *Tree) GenerateProof(i int) ([]*ProofStep, error) {
	if i < 0 || i >= t.NumLeaves() {
		return nil, errIndexOutOfRange(i, t.NumLeaves())
	}

	steps := make([]*ProofStep, 0, len(t.levels)-1)
	index := i
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		isRightChild := index%2 == 1
		var siblingIndex int
		var direction Direction
		if isRightChild {
			siblingIndex = index - 1
			direction = Left
		} else {
			siblingIndex = index + 1
			if siblingIndex >= len(nodes) {
				siblingIndex = index // duplicate-last padding
			}
			direction = Right
		}
		steps = append(steps, &ProofStep{Sibling: nodes[siblingIndex], Direction: direction})
		index /= 2
	}
	return steps, nil
}

// VerifyProof folds proof into leaf and reports whether the result equals
// root.
func VerifyProof(leaf *externalapi.DomainHash, proof []*ProofStep, root *externalapi.DomainHash) bool {
	current := leaf
	for _, step := range proof {
		if step.Direction == Left {
			current = hashPair(step.Sibling, current)
		} else {
			current = hashPair(current, step.Sibling)
		}
	}
	return current.Equal(root)
}

// CalculateHashMerkleRoot is a convenience wrapper returning only the root
// of FromHashes(leaves), matching the teacher's
// CalculateHashMerkleRoot/CalculateIDMerkleRoot top-level helpers.
func CalculateHashMerkleRoot(leaves []*externalapi.DomainHash) *externalapi.DomainHash {
	return FromHashes(leaves).Root()
}
