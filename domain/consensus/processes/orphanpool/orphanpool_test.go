package orphanpool_test

import (
	"testing"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/processes/orphanpool"
	"github.com/jio-labs/jiod/domain/consensus/utils/consensusserialization"
)

func testHash(b byte) *externalapi.DomainHash {
	var h externalapi.DomainHash
	h[0] = b
	return &h
}

// testBlock returns a block whose header hashes to a distinct value per
// nonce, with no transactions (orphanpool never inspects them).
func testBlock(nonce uint64) *externalapi.DomainBlock {
	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:              1,
			ParentsByLevel:       [][]*externalapi.DomainHash{{testHash(1)}},
			HashMerkleRoot:       testHash(2),
			AcceptedIDMerkleRoot: testHash(3),
			UTXOCommitment:       testHash(4),
			TimeInMilliseconds:   1000,
			Bits:                 0x207fffff,
			Nonce:                nonce,
			BlueWork:             externalapi.ZeroBlueWork(),
			PruningPoint:         testHash(5),
		},
	}
}

func TestOrphanPoolAddAndReleaseChildrenOf(t *testing.T) {
	pool := orphanpool.New()

	missingParent := testHash(42)
	child := testBlock(1)
	childHash := consensusserialization.HeaderHash(child.Header)

	if err := pool.Add(child, []*externalapi.DomainHash{missingParent}, 1000); err != nil {
		t.Fatalf("Add: %s", err)
	}
	if !pool.Has(childHash) {
		t.Fatalf("Has: expected the orphan to be parked")
	}
	if pool.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", pool.Len())
	}

	released, err := pool.ReleaseChildrenOf(missingParent)
	if err != nil {
		t.Fatalf("ReleaseChildrenOf: %s", err)
	}
	if len(released) != 1 {
		t.Fatalf("ReleaseChildrenOf: got %d released, want 1", len(released))
	}
	if pool.Has(childHash) {
		t.Fatalf("Has: expected the orphan to be removed after release")
	}
	if pool.Len() != 0 {
		t.Fatalf("Len: got %d, want 0 after release", pool.Len())
	}
}

func TestOrphanPoolReleaseChildrenOfUnknownParentIsNoop(t *testing.T) {
	pool := orphanpool.New()

	released, err := pool.ReleaseChildrenOf(testHash(99))
	if err != nil {
		t.Fatalf("ReleaseChildrenOf: %s", err)
	}
	if len(released) != 0 {
		t.Fatalf("ReleaseChildrenOf: expected no releases for an unknown parent, got %d", len(released))
	}
}

func TestOrphanPoolEvictOlderThan(t *testing.T) {
	pool := orphanpool.New()

	missingParent := testHash(42)
	stale := testBlock(1)
	fresh := testBlock(2)

	if err := pool.Add(stale, []*externalapi.DomainHash{missingParent}, 1000); err != nil {
		t.Fatalf("Add(stale): %s", err)
	}
	if err := pool.Add(fresh, []*externalapi.DomainHash{missingParent}, 9000); err != nil {
		t.Fatalf("Add(fresh): %s", err)
	}

	evicted := pool.EvictOlderThan(5000, 10000)
	if len(evicted) != 1 {
		t.Fatalf("EvictOlderThan: got %d evicted, want 1", len(evicted))
	}
	if pool.Len() != 1 {
		t.Fatalf("Len: got %d, want 1 after eviction", pool.Len())
	}

	staleHash := consensusserialization.HeaderHash(stale.Header)
	if pool.Has(staleHash) {
		t.Fatalf("Has: expected the stale orphan to have been evicted")
	}

	// The waiting-children index for missingParent must still resolve to
	// only the surviving orphan, not the evicted one.
	released, err := pool.ReleaseChildrenOf(missingParent)
	if err != nil {
		t.Fatalf("ReleaseChildrenOf: %s", err)
	}
	if len(released) != 1 {
		t.Fatalf("ReleaseChildrenOf: got %d released after eviction, want 1", len(released))
	}
}
