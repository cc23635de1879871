package consensus_test

import (
	"testing"

	"github.com/jio-labs/jiod/domain/consensus"
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/dagconfig"
)

func TestNewIngestsGenesis(t *testing.T) {
	db := database.NewMemoryDB()
	c, err := consensus.New(&consensus.Config{DB: db, Params: &dagconfig.SimnetParams})
	if err != nil {
		t.Fatalf("New: %s", err)
	}

	tips, err := c.Tips()
	if err != nil {
		t.Fatalf("Tips: %s", err)
	}
	if len(tips) != 1 || !tips[0].Equal(dagconfig.SimnetParams.GenesisHash) {
		t.Fatalf("Tips: expected only the genesis hash as tip, got %v", tips)
	}

	status, err := c.BlockStatusStore.Get(c, dagconfig.SimnetParams.GenesisHash)
	if err != nil {
		t.Fatalf("BlockStatusStore.Get: %s", err)
	}
	if status != externalapi.StatusUTXOValid {
		t.Fatalf("genesis status: got %s, want %s", status, externalapi.StatusUTXOValid)
	}
}

func TestNewIsIdempotentAcrossReopen(t *testing.T) {
	db := database.NewMemoryDB()

	first, err := consensus.New(&consensus.Config{DB: db, Params: &dagconfig.SimnetParams})
	if err != nil {
		t.Fatalf("New (first): %s", err)
	}
	firstTips, err := first.Tips()
	if err != nil {
		t.Fatalf("Tips (first): %s", err)
	}

	second, err := consensus.New(&consensus.Config{DB: db, Params: &dagconfig.SimnetParams})
	if err != nil {
		t.Fatalf("New (second): %s", err)
	}
	secondTips, err := second.Tips()
	if err != nil {
		t.Fatalf("Tips (second): %s", err)
	}

	if len(firstTips) != len(secondTips) || !firstTips[0].Equal(secondTips[0]) {
		t.Fatalf("re-opening the same database produced different tips: %v vs %v", firstTips, secondTips)
	}
}

func TestNewIngestsGenesisOnEveryNetwork(t *testing.T) {
	for name, params := range map[string]*dagconfig.Params{
		"mainnet": &dagconfig.MainnetParams,
		"testnet": &dagconfig.TestnetParams,
		"devnet":  &dagconfig.DevnetParams,
		"simnet":  &dagconfig.SimnetParams,
	} {
		t.Run(name, func(t *testing.T) {
			db := database.NewMemoryDB()
			c, err := consensus.New(&consensus.Config{DB: db, Params: params})
			if err != nil {
				t.Fatalf("New: %s", err)
			}

			tips, err := c.Tips()
			if err != nil {
				t.Fatalf("Tips: %s", err)
			}
			if len(tips) != 1 || !tips[0].Equal(params.GenesisHash) {
				t.Fatalf("Tips: expected only the genesis hash as tip, got %v", tips)
			}

			status, err := c.BlockStatusStore.Get(c, params.GenesisHash)
			if err != nil {
				t.Fatalf("BlockStatusStore.Get: %s", err)
			}
			if status != externalapi.StatusUTXOValid {
				t.Fatalf("genesis status: got %s, want %s", status, externalapi.StatusUTXOValid)
			}
		})
	}
}

func TestHeaderTipsIncludesGenesis(t *testing.T) {
	db := database.NewMemoryDB()
	c, err := consensus.New(&consensus.Config{DB: db, Params: &dagconfig.SimnetParams})
	if err != nil {
		t.Fatalf("New: %s", err)
	}

	tips, err := c.HeaderTips()
	if err != nil {
		t.Fatalf("HeaderTips: %s", err)
	}
	if len(tips) != 1 || !tips[0].Equal(dagconfig.SimnetParams.GenesisHash) {
		t.Fatalf("HeaderTips: expected only the genesis hash, got %v", tips)
	}
}

func TestEvictStaleOrphansOnEmptyPoolIsNoop(t *testing.T) {
	db := database.NewMemoryDB()
	c, err := consensus.New(&consensus.Config{DB: db, Params: &dagconfig.SimnetParams})
	if err != nil {
		t.Fatalf("New: %s", err)
	}

	evicted := c.EvictStaleOrphans(0)
	if len(evicted) != 0 {
		t.Fatalf("EvictStaleOrphans: expected no evictions from an empty pool, got %v", evicted)
	}
}
