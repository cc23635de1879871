// Package consensus wires every store, manager, validator, and processor
// of the pipeline into a single Consensus instance, the way the teacher's
// blockdag.New(config *Config) assembles a BlockDAG from its collaborators.
package consensus

import (
	"sync"

	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/blockheaderstore"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/blockrelationstore"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/blockstatusstore"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/blockstore"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/difficultystore"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/headertipsstore"
	"github.com/jio-labs/jiod/domain/consensus/datastructures/utxosetstore"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
	"github.com/jio-labs/jiod/domain/consensus/processes/blockprocessor"
	"github.com/jio-labs/jiod/domain/consensus/processes/blockvalidator"
	"github.com/jio-labs/jiod/domain/consensus/processes/coinbasemanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/consensusstatemanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/dagtopologymanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/difficultymanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/ghostdagmanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/headertipsmanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/orphanpool"
	"github.com/jio-labs/jiod/domain/consensus/processes/reachabilitymanager"
	"github.com/jio-labs/jiod/domain/consensus/processes/transactionvalidator"
	"github.com/jio-labs/jiod/domain/consensus/utils/txmass"
	"github.com/jio-labs/jiod/domain/dagconfig"
	"github.com/jio-labs/jiod/logger"
	"github.com/pkg/errors"
)

var log, _ = logger.Get(logger.SubsystemTags.CONS)

// Config describes the required inputs to assemble a Consensus: an open
// database and the network parameters to run against.
type Config struct {
	DB     database.Database
	Params *dagconfig.Params
}

// Consensus is the assembled pipeline: every store and manager of spec §4,
// reachable either directly or through BlockProcessor.ProcessBlock.
// Consensus itself satisfies model.DBReader and model.DBWriter by
// delegating to either the live per-block transaction (while one is open)
// or the database directly, so every collaborator below is constructed
// once, against a single DataAccessor, for the lifetime of the node --
// exactly the "single shared transaction across all managers" pipeline
// architecture of spec §4.10/§5.
type Consensus struct {
	mu        sync.Mutex
	db        database.Database
	currentTx database.Transaction

	Params *dagconfig.Params

	HeaderStore        model.BlockHeaderStore
	BlockStore         model.BlockStore
	BlockStatusStore   model.BlockStatusStore
	BlockRelationStore model.BlockRelationStore
	GHOSTDAGDataStore  model.GHOSTDAGDataStore
	DifficultyStore    model.DifficultyStore
	UTXOSetStore       model.UTXOSetStore
	HeaderTipsStore    model.HeaderTipsStore

	ReachabilityManager   model.ReachabilityManager
	DAGTopologyManager    model.DAGTopologyManager
	GHOSTDAGManager       model.GHOSTDAGManager
	DifficultyManager     model.DifficultyManager
	ConsensusStateManager model.ConsensusStateManager
	CoinbaseManager       model.CoinbaseManager
	OrphanPool            model.OrphanPool
	HeaderTipsManager     model.HeaderTipsManager
	BlockProcessor        model.BlockProcessor
}

// New assembles a Consensus from config, ingesting the network's genesis
// block if the database is empty.
func New(config *Config) (*Consensus, error) {
	c := &Consensus{
		db:     config.DB,
		Params: config.Params,

		HeaderStore:        blockheaderstore.New(),
		BlockStore:         blockstore.New(),
		BlockStatusStore:   blockstatusstore.New(),
		BlockRelationStore: blockrelationstore.New(),
		GHOSTDAGDataStore:  ghostdagdatastore.New(),
		DifficultyStore:    difficultystore.New(),
		UTXOSetStore:       utxosetstore.New(),
		HeaderTipsStore:    headertipsstore.New(),
	}

	c.ReachabilityManager = reachabilitymanager.New(c, c.BlockRelationStore)
	c.DAGTopologyManager = dagtopologymanager.New(c, c, c.ReachabilityManager, c.BlockRelationStore)
	c.GHOSTDAGManager = ghostdagmanager.New(c, int(config.Params.GHOSTDAGK), c.GHOSTDAGDataStore, c.HeaderStore, c.DAGTopologyManager)
	c.DifficultyManager = difficultymanager.New(c, c, c.DifficultyStore, c.DAGTopologyManager, int(config.Params.DifficultyAdjustmentWindowSize))
	c.ConsensusStateManager = consensusstatemanager.New(c, c, c.UTXOSetStore, config.Params.CoinbaseMaturity)
	c.CoinbaseManager = coinbasemanager.New(config.Params.SubsidyReductionInterval, config.Params.InitialSubsidy)
	c.OrphanPool = orphanpool.New()
	c.HeaderTipsManager = headertipsmanager.New(c, c, c.DAGTopologyManager, c.HeaderTipsStore)

	massCalculator := txmass.New()
	txValidator := transactionvalidator.New(config.Params.CoinbaseMaturity)
	blockValidator := blockvalidator.New(massCalculator, txValidator)

	c.BlockProcessor = blockprocessor.New(
		c, c,
		c.HeaderStore, c.BlockStore, c.BlockStatusStore, c.BlockRelationStore, c.GHOSTDAGDataStore,
		c.DAGTopologyManager, c.GHOSTDAGManager, c.DifficultyManager,
		blockValidator, c.ConsensusStateManager, c.OrphanPool, c.HeaderTipsManager,
		config.Params.GenesisHash)

	if err := c.ensureGenesis(); err != nil {
		return nil, err
	}
	return c, nil
}

// ensureGenesis ingests the network's genesis block if it has not already
// been processed, so a freshly opened database always starts from a
// well-formed DAG of at least one block.
func (c *Consensus) ensureGenesis() error {
	has, err := c.HeaderStore.HasBlockHeader(c, c.Params.GenesisHash)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	log.Infof("ingesting genesis block for network %s", c.Params.Name)
	result, err := c.ProcessBlock(c.Params.GenesisBlock, 0)
	if err != nil {
		return err
	}
	if result.Status != model.StatusValid {
		if result.Err != nil {
			return errors.Wrapf(result.Err, "genesis block rejected with status %s", result.Status)
		}
		return errors.Errorf("genesis block rejected with status %s", result.Status)
	}
	return nil
}

// ProcessBlock runs block through the pipeline inside its own database
// transaction, committing on a Valid/Orphan/AlreadyExists outcome and
// rolling back on Invalid or a processing error, so a rejected block never
// leaves partial state behind.
func (c *Consensus) ProcessBlock(block *externalapi.DomainBlock, blockDAAScore uint64) (*model.ProcessingResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return nil, err
	}
	c.currentTx = tx
	defer func() { c.currentTx = nil }()

	result, err := c.BlockProcessor.ProcessBlock(block, blockDAAScore)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if result.Status == model.StatusInvalid {
		if err := tx.Rollback(); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetVirtualBlockData exposes VirtualProcessor directly: it only reads, so
// it needs no transaction of its own.
func (c *Consensus) GetVirtualBlockData(maxParents int) (*externalapi.BlockGHOSTDAGData, []*externalapi.DomainHash, error) {
	return c.BlockProcessor.(model.VirtualProcessor).GetVirtualBlockData(maxParents)
}

// Tips returns the current (body-validated) DAG tips.
func (c *Consensus) Tips() ([]*externalapi.DomainHash, error) {
	return c.DAGTopologyManager.Tips()
}

// HeaderTips returns the current header-only tips: blocks whose header is
// accepted but may still be ahead of body validation.
func (c *Consensus) HeaderTips() ([]*externalapi.DomainHash, error) {
	return c.HeaderTipsStore.Tips(c)
}

// EvictStaleOrphans sweeps the OrphanPool for blocks parked longer than
// constants.OrphanMaxAgeMilliseconds, as of nowInMilliseconds, returning
// the evicted hashes (spec §5: ORPHAN_MAX_AGE).
func (c *Consensus) EvictStaleOrphans(nowInMilliseconds int64) []*externalapi.DomainHash {
	return c.OrphanPool.EvictOlderThan(constants.OrphanMaxAgeMilliseconds, nowInMilliseconds)
}

// BlockLocator returns a sparse backbone of highHash's selected chain down
// to lowHash (nil meaning genesis), for narrowing in on a shared ancestor
// without listing every intervening block.
func (c *Consensus) BlockLocator(highHash, lowHash *externalapi.DomainHash, limit uint32) ([]*externalapi.DomainHash, error) {
	return c.DAGTopologyManager.BlockLocator(highHash, lowHash, limit)
}

// Get implements model.DBReader by delegating to the open transaction, if
// any, or the database directly.
func (c *Consensus) Get(key []byte) ([]byte, error) {
	if c.currentTx != nil {
		return c.currentTx.Get(key)
	}
	return c.db.Get(key)
}

// Has implements model.DBReader.
func (c *Consensus) Has(key []byte) (bool, error) {
	if c.currentTx != nil {
		return c.currentTx.Has(key)
	}
	return c.db.Has(key)
}

// Put implements model.DBWriter. It panics if called outside an open
// transaction: every write in this pipeline happens through Stage calls
// issued while ProcessBlock holds one open.
func (c *Consensus) Put(key, value []byte) error {
	return c.currentTx.Put(key, value)
}

// Delete implements model.DBWriter.
func (c *Consensus) Delete(key []byte) error {
	return c.currentTx.Delete(key)
}

// Cursor implements model.DBReader.
func (c *Consensus) Cursor(prefix []byte) (database.Cursor, error) {
	if c.currentTx != nil {
		return c.currentTx.Cursor(prefix)
	}
	return c.db.Cursor(prefix)
}

// Commit implements model.DBWriter by delegating to the open transaction.
func (c *Consensus) Commit() error {
	return c.currentTx.Commit()
}

// Rollback implements model.DBWriter.
func (c *Consensus) Rollback() error {
	return c.currentTx.Rollback()
}
