package ghostdagmanager_test

import (
	"testing"

	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/blockheaderstore"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/blockrelationstore"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/processes/dagtopologymanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/ghostdagmanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/reachabilitymanager"
)

func testHash(b byte) *externalapi.DomainHash {
	var h externalapi.DomainHash
	h[0] = b
	return &h
}

func testHeader(nonce uint64, parents ...*externalapi.DomainHash) *externalapi.DomainBlockHeader {
	return &externalapi.DomainBlockHeader{
		Version:              1,
		ParentsByLevel:       [][]*externalapi.DomainHash{parents},
		HashMerkleRoot:       testHash(0xaa),
		AcceptedIDMerkleRoot: testHash(0xbb),
		UTXOCommitment:       testHash(0xcc),
		TimeInMilliseconds:   1000,
		Bits:                 0x207fffff,
		Nonce:                nonce,
		BlueWork:             externalapi.ZeroBlueWork(),
		PruningPoint:         testHash(0xdd),
	}
}

// TestGHOSTDAGDiamond wires the real header/relation/ghostdag stores,
// reachability, and topology manager together, exactly how Consensus wires
// them in production, so a diamond DAG can be colored end to end.
func TestGHOSTDAGDiamond(t *testing.T) {
	db := database.NewMemoryDB()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}

	headerStore := blockheaderstore.New()
	relationStore := blockrelationstore.New()
	ghostdagDataStore := ghostdagdatastore.New()
	reachability := reachabilitymanager.New(tx, relationStore)
	topology := dagtopologymanager.New(tx, tx, reachability, relationStore)
	manager := ghostdagmanager.New(tx, 18, ghostdagDataStore, headerStore, topology)

	genesis := testHash(1)
	a := testHash(2)
	b := testHash(3)
	c := testHash(4)

	stage := func(hash *externalapi.DomainHash, header *externalapi.DomainBlockHeader, parents []*externalapi.DomainHash) {
		if err := headerStore.Stage(tx, hash, header); err != nil {
			t.Fatalf("Stage header(%s): %s", hash, err)
		}
		if err := relationStore.Stage(tx, hash, &externalapi.BlockRelations{
			Parents:  parents,
			Children: []*externalapi.DomainHash{},
		}); err != nil {
			t.Fatalf("Stage relations(%s): %s", hash, err)
		}
		for _, p := range parents {
			parentRelations, err := relationStore.Get(tx, p)
			if err != nil {
				t.Fatalf("Get relations(%s): %s", p, err)
			}
			parentRelations.Children = append(parentRelations.Children, hash)
			if err := relationStore.Stage(tx, p, parentRelations); err != nil {
				t.Fatalf("Stage relations(%s): %s", p, err)
			}
		}
		if err := topology.AddTip(hash); err != nil {
			t.Fatalf("AddTip(%s): %s", hash, err)
		}
		data, err := manager.GHOSTDAG(hash, parents)
		if err != nil {
			t.Fatalf("GHOSTDAG(%s): %s", hash, err)
		}
		if err := ghostdagDataStore.Stage(tx, hash, data); err != nil {
			t.Fatalf("Stage ghostdag(%s): %s", hash, err)
		}
	}

	stage(genesis, testHeader(0), nil)
	stage(a, testHeader(1, genesis), []*externalapi.DomainHash{genesis})
	stage(b, testHeader(2, genesis), []*externalapi.DomainHash{genesis})
	stage(c, testHeader(3, a, b), []*externalapi.DomainHash{a, b})

	cData, err := ghostdagDataStore.Get(tx, c)
	if err != nil {
		t.Fatalf("Get(c): %s", err)
	}

	// Within K=18, both a and b merge into c's blue set alongside c's own
	// selected-parent chain, so c's blue score should count genesis, the
	// selected parent (a or b), and the other merged-in sibling: 3.
	if cData.BlueScore != 3 {
		t.Fatalf("c.BlueScore: got %d, want 3 (genesis + selected parent + merged sibling)", cData.BlueScore)
	}
	if len(cData.MergeSetReds) != 0 {
		t.Fatalf("c.MergeSetReds: expected none within K=18, got %v", cData.MergeSetReds)
	}
	if !cData.SelectedParent.Equal(a) && !cData.SelectedParent.Equal(b) {
		t.Fatalf("c.SelectedParent: got %s, want a or b", cData.SelectedParent)
	}
}

func TestGHOSTDAGGenesisBlueScoreOne(t *testing.T) {
	db := database.NewMemoryDB()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}

	headerStore := blockheaderstore.New()
	relationStore := blockrelationstore.New()
	ghostdagDataStore := ghostdagdatastore.New()
	reachability := reachabilitymanager.New(tx, relationStore)
	topology := dagtopologymanager.New(tx, tx, reachability, relationStore)
	manager := ghostdagmanager.New(tx, 18, ghostdagDataStore, headerStore, topology)

	genesis := testHash(1)
	if err := headerStore.Stage(tx, genesis, testHeader(0)); err != nil {
		t.Fatalf("Stage header: %s", err)
	}

	data, err := manager.GHOSTDAG(genesis, nil)
	if err != nil {
		t.Fatalf("GHOSTDAG(genesis): %s", err)
	}
	if data.BlueScore != 1 {
		t.Fatalf("genesis BlueScore: got %d, want 1", data.BlueScore)
	}
	if !data.SelectedParent.Equal(genesis) {
		t.Fatalf("genesis SelectedParent: got %s, want itself", data.SelectedParent)
	}
}
