package dagtopologymanager_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/blockrelationstore"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/processes/dagtopologymanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/reachabilitymanager"
)

func testHash(b byte) *externalapi.DomainHash {
	var h externalapi.DomainHash
	h[0] = b
	return &h
}

// buildChain wires a straight-line chain genesis -> ... -> tip, one parent
// each, through the real blockrelationstore and reachabilitymanager,
// exactly how BlockProcessor.ProcessHeader stages relations in production.
func buildChain(t *testing.T, tx model.DBReader, w model.DBWriter, hashes []*externalapi.DomainHash) model.DAGTopologyManager {
	t.Helper()
	relationStore := blockrelationstore.New()
	reachability := reachabilitymanager.New(tx, relationStore)
	topology := dagtopologymanager.New(tx, w, reachability, relationStore)

	for i, hash := range hashes {
		var parents []*externalapi.DomainHash
		if i > 0 {
			parents = []*externalapi.DomainHash{hashes[i-1]}
		} else {
			parents = []*externalapi.DomainHash{}
		}
		if err := relationStore.Stage(w, hash, &externalapi.BlockRelations{
			Parents:  parents,
			Children: []*externalapi.DomainHash{},
			Height:   uint64(i),
		}); err != nil {
			t.Fatalf("Stage(%s): %s", hash, err)
		}
		if i > 0 {
			parentRelations, err := relationStore.Get(tx, hashes[i-1])
			if err != nil {
				t.Fatalf("Get(%s): %s", hashes[i-1], err)
			}
			parentRelations.Children = append(parentRelations.Children, hash)
			if err := relationStore.Stage(w, hashes[i-1], parentRelations); err != nil {
				t.Fatalf("Stage(%s): %s", hashes[i-1], err)
			}
		}
		if err := topology.AddTip(hash); err != nil {
			t.Fatalf("AddTip(%s): %s", hash, err)
		}
	}
	return topology
}

func TestBlockLocatorToGenesis(t *testing.T) {
	db := database.NewMemoryDB()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}

	hashes := make([]*externalapi.DomainHash, 20)
	for i := range hashes {
		hashes[i] = testHash(byte(i + 1))
	}
	topology := buildChain(t, tx, tx, hashes)

	locator, err := topology.BlockLocator(hashes[len(hashes)-1], nil, 0)
	if err != nil {
		t.Fatalf("BlockLocator: %s", err)
	}

	if len(locator) == 0 {
		t.Fatalf("BlockLocator: expected a non-empty locator")
	}
	if !locator[0].Equal(hashes[len(hashes)-1]) {
		t.Fatalf("BlockLocator: expected to start at the tip, got %s", spew.Sdump(locator[0]))
	}
	if !locator[len(locator)-1].Equal(hashes[0]) {
		t.Fatalf("BlockLocator: expected to end at genesis, got %s", spew.Sdump(locator[len(locator)-1]))
	}
	if len(locator) >= len(hashes) {
		t.Fatalf("BlockLocator: expected a sparse backbone shorter than the full chain (%d), got %d entries", len(hashes), len(locator))
	}
}

func TestBlockLocatorRejectsHashOffSelectedChain(t *testing.T) {
	db := database.NewMemoryDB()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}

	hashes := []*externalapi.DomainHash{testHash(1), testHash(2), testHash(3)}
	topology := buildChain(t, tx, tx, hashes)

	notOnChain := testHash(99)
	if _, err := topology.BlockLocator(hashes[2], notOnChain, 0); err == nil {
		t.Fatalf("BlockLocator: expected an error for a lowHash not on the selected chain")
	}
}

func TestBlockLocatorRespectsLimit(t *testing.T) {
	db := database.NewMemoryDB()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}

	hashes := make([]*externalapi.DomainHash, 10)
	for i := range hashes {
		hashes[i] = testHash(byte(i + 1))
	}
	topology := buildChain(t, tx, tx, hashes)

	locator, err := topology.BlockLocator(hashes[len(hashes)-1], nil, 2)
	if err != nil {
		t.Fatalf("BlockLocator: %s", err)
	}
	if len(locator) != 2 {
		t.Fatalf("BlockLocator: expected exactly 2 entries under limit=2, got %d: %s", len(locator), spew.Sdump(locator))
	}
}
