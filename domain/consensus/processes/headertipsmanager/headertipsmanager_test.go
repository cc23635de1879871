package headertipsmanager_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/headertipsstore"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/processes/headertipsmanager"
)

func testHash(b byte) *externalapi.DomainHash {
	var h externalapi.DomainHash
	h[0] = b
	return &h
}

// fakeDAGTopology implements only the IsAncestorOf method headertipsmanager
// calls, treating a fixed set of (ancestor, descendant) pairs as true.
type fakeDAGTopology struct {
	ancestorPairs map[[2]externalapi.DomainHash]bool
}

func newFakeDAGTopology() *fakeDAGTopology {
	return &fakeDAGTopology{ancestorPairs: make(map[[2]externalapi.DomainHash]bool)}
}

func (f *fakeDAGTopology) setAncestor(ancestor, descendant *externalapi.DomainHash) {
	f.ancestorPairs[[2]externalapi.DomainHash{*ancestor, *descendant}] = true
}

func (f *fakeDAGTopology) Parents(*externalapi.DomainHash) ([]*externalapi.DomainHash, error) { return nil, nil }
func (f *fakeDAGTopology) Children(*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	return nil, nil
}
func (f *fakeDAGTopology) IsParentOf(a, b *externalapi.DomainHash) (bool, error)      { return false, nil }
func (f *fakeDAGTopology) IsChildOf(a, b *externalapi.DomainHash) (bool, error)       { return false, nil }
func (f *fakeDAGTopology) IsAncestorOf(a, b *externalapi.DomainHash) (bool, error) {
	return f.ancestorPairs[[2]externalapi.DomainHash{*a, *b}], nil
}
func (f *fakeDAGTopology) IsDescendantOf(a, b *externalapi.DomainHash) (bool, error) { return false, nil }
func (f *fakeDAGTopology) Tips() ([]*externalapi.DomainHash, error)                  { return nil, nil }
func (f *fakeDAGTopology) AddTip(*externalapi.DomainHash) error                      { return nil }
func (f *fakeDAGTopology) GetAnticone(*externalapi.DomainHash, int) ([]*externalapi.DomainHash, error) {
	return nil, nil
}
func (f *fakeDAGTopology) TopologicalSort(*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	return nil, nil
}
func (f *fakeDAGTopology) GetSelectedChain(*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	return nil, nil
}
func (f *fakeDAGTopology) BlockLocator(hi, lo *externalapi.DomainHash, limit uint32) ([]*externalapi.DomainHash, error) {
	return nil, nil
}

func TestAddHeaderTipDropsAncestors(t *testing.T) {
	db := database.NewMemoryDB()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}

	store := headertipsstore.New()
	topology := newFakeDAGTopology()
	manager := headertipsmanager.New(tx, tx, topology, store)

	genesis := testHash(1)
	child := testHash(2)
	topology.setAncestor(genesis, child)

	if err := manager.AddHeaderTip(genesis); err != nil {
		t.Fatalf("AddHeaderTip(genesis): %s", err)
	}
	if err := manager.AddHeaderTip(child); err != nil {
		t.Fatalf("AddHeaderTip(child): %s", err)
	}

	tips, err := store.Tips(tx)
	if err != nil {
		t.Fatalf("Tips: %s", err)
	}
	want := []*externalapi.DomainHash{child}
	if !externalapi.HashesEqual(tips, want) {
		t.Fatalf("Tips: got %s, want %s (genesis should have been dropped once child descends from it)", spew.Sdump(tips), spew.Sdump(want))
	}
}

func TestAddHeaderTipKeepsUnrelatedTips(t *testing.T) {
	db := database.NewMemoryDB()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}

	store := headertipsstore.New()
	topology := newFakeDAGTopology()
	manager := headertipsmanager.New(tx, tx, topology, store)

	a := testHash(1)
	b := testHash(2)

	if err := manager.AddHeaderTip(a); err != nil {
		t.Fatalf("AddHeaderTip(a): %s", err)
	}
	if err := manager.AddHeaderTip(b); err != nil {
		t.Fatalf("AddHeaderTip(b): %s", err)
	}

	tips, err := store.Tips(tx)
	if err != nil {
		t.Fatalf("Tips: %s", err)
	}
	if len(tips) != 2 {
		t.Fatalf("Tips: expected both unrelated tips to survive, got %s", spew.Sdump(tips))
	}
}
