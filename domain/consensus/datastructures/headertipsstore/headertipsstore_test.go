package headertipsstore_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/headertipsstore"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

func testHash(b byte) *externalapi.DomainHash {
	var h externalapi.DomainHash
	h[0] = b
	return &h
}

func TestHeaderTipsStoreEmpty(t *testing.T) {
	db := database.NewMemoryDB()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}

	store := headertipsstore.New()

	has, err := store.HasTips(tx)
	if err != nil {
		t.Fatalf("HasTips: %s", err)
	}
	if has {
		t.Fatalf("HasTips: expected false on an empty store")
	}

	tips, err := store.Tips(tx)
	if err != nil {
		t.Fatalf("Tips: %s", err)
	}
	if len(tips) != 0 {
		t.Fatalf("Tips: expected none, got %s", spew.Sdump(tips))
	}
}

func TestHeaderTipsStoreStageAndRetrieve(t *testing.T) {
	db := database.NewMemoryDB()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}

	store := headertipsstore.New()
	want := []*externalapi.DomainHash{testHash(1), testHash(2)}

	if err := store.Stage(tx, want); err != nil {
		t.Fatalf("Stage: %s", err)
	}

	has, err := store.HasTips(tx)
	if err != nil {
		t.Fatalf("HasTips: %s", err)
	}
	if !has {
		t.Fatalf("HasTips: expected true after Stage")
	}

	got, err := store.Tips(tx)
	if err != nil {
		t.Fatalf("Tips: %s", err)
	}
	if !externalapi.HashesEqual(got, want) {
		t.Fatalf("Tips: got %s, want %s", spew.Sdump(got), spew.Sdump(want))
	}
}
