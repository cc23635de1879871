// Package blockprocessor implements the pipeline of spec §4.10:
// HeaderProcessor validates and stages a header, GhostdagEngine colors it,
// and DifficultyEngine observes it; BodyProcessor validates and applies the
// body against a UTXO snapshot; VirtualProcessor recomputes virtual
// parents and GHOSTDAG data from current tips without persisting them.
// BlockProcessor orchestrates the three in sequence for a whole block.
package blockprocessor

import (
	"time"

	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/ruleerrors"
	"github.com/jio-labs/jiod/domain/consensus/utils/consensusserialization"
	"github.com/jio-labs/jiod/logger"
	"github.com/pkg/errors"
)

var log, _ = logger.Get(logger.SubsystemTags.PIPE)

func nowMilliseconds() int64 {
	return time.Now().UnixMilli()
}

type blockProcessor struct {
	databaseContext model.DBReader
	databaseWriter  model.DBWriter

	headerStore        model.BlockHeaderStore
	blockStore          model.BlockStore
	blockStatusStore    model.BlockStatusStore
	blockRelationStore  model.BlockRelationStore
	ghostdagDataStore   model.GHOSTDAGDataStore

	dagTopologyManager    model.DAGTopologyManager
	ghostdagManager       model.GHOSTDAGManager
	difficultyManager     model.DifficultyManager
	blockValidator        model.BlockValidator
	consensusStateManager model.ConsensusStateManager
	orphanPool            model.OrphanPool
	headerTipsManager     model.HeaderTipsManager

	genesisHash *externalapi.DomainHash
}

// New instantiates a BlockProcessor wiring together every process of the
// pipeline.
func New(
	databaseContext model.DBReader,
	databaseWriter model.DBWriter,
	headerStore model.BlockHeaderStore,
	blockStore model.BlockStore,
	blockStatusStore model.BlockStatusStore,
	blockRelationStore model.BlockRelationStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	dagTopologyManager model.DAGTopologyManager,
	ghostdagManager model.GHOSTDAGManager,
	difficultyManager model.DifficultyManager,
	blockValidator model.BlockValidator,
	consensusStateManager model.ConsensusStateManager,
	orphanPool model.OrphanPool,
	headerTipsManager model.HeaderTipsManager,
	genesisHash *externalapi.DomainHash) model.BlockProcessor {

	return &blockProcessor{
		databaseContext:       databaseContext,
		databaseWriter:        databaseWriter,
		headerStore:           headerStore,
		blockStore:            blockStore,
		blockStatusStore:      blockStatusStore,
		blockRelationStore:    blockRelationStore,
		ghostdagDataStore:     ghostdagDataStore,
		dagTopologyManager:    dagTopologyManager,
		ghostdagManager:       ghostdagManager,
		difficultyManager:     difficultyManager,
		blockValidator:        blockValidator,
		consensusStateManager: consensusStateManager,
		orphanPool:            orphanPool,
		headerTipsManager:     headerTipsManager,
		genesisHash:           genesisHash,
	}
}

// ProcessHeader implements spec §4.10 HeaderProcessor.process_header.
func (bp *blockProcessor) ProcessHeader(header *externalapi.DomainBlockHeader) (*model.ProcessingResult, error) {
	hash := consensusserialization.HeaderHash(header)

	if has, err := bp.headerStore.HasBlockHeader(bp.databaseContext, hash); err != nil {
		return nil, err
	} else if has {
		return &model.ProcessingResult{Status: model.StatusAlreadyExists, Hash: hash}, nil
	}

	isGenesis := hash.Equal(bp.genesisHash)
	directParents := header.DirectParents()

	if err := bp.blockValidator.ValidateHeaderInIsolation(header, isGenesis, nowMilliseconds()); err != nil {
		log.Warnf("rejected header %s in isolation: %s", hash, err)
		return &model.ProcessingResult{Status: model.StatusInvalid, Hash: hash, Err: err}, nil
	}

	var missingParents []*externalapi.DomainHash
	parentTimestamps := make([]int64, 0, len(directParents))
	for _, parent := range directParents {
		has, err := bp.headerStore.HasBlockHeader(bp.databaseContext, parent)
		if err != nil {
			return nil, err
		}
		if !has {
			missingParents = append(missingParents, parent)
			continue
		}
		parentHeader, err := bp.headerStore.BlockHeader(bp.databaseContext, parent)
		if err != nil {
			return nil, err
		}
		parentTimestamps = append(parentTimestamps, parentHeader.TimeInMilliseconds)
	}
	if len(missingParents) > 0 {
		log.Debugf("parking %s as orphan, missing %d parent(s)", hash, len(missingParents))
		return &model.ProcessingResult{Status: model.StatusOrphan, Hash: hash}, nil
	}

	if err := bp.blockValidator.ValidateHeaderInContext(header, parentTimestamps); err != nil {
		log.Warnf("rejected header %s in context: %s", hash, err)
		return &model.ProcessingResult{Status: model.StatusInvalid, Hash: hash, Err: err}, nil
	}

	// The header must be staged before GHOSTDAG runs: for a genesis block,
	// GhostdagEngine derives its own work contribution from its own header
	// bits.
	if err := bp.headerStore.Stage(bp.databaseWriter, hash, header); err != nil {
		return nil, err
	}

	ghostdagData, err := bp.ghostdagManager.GHOSTDAG(hash, directParents)
	if err != nil {
		return nil, err
	}
	if err := bp.ghostdagDataStore.Stage(bp.databaseWriter, hash, ghostdagData); err != nil {
		return nil, err
	}

	if err := bp.difficultyManager.Observe(hash, header.TimeInMilliseconds, header.Bits); err != nil {
		return nil, err
	}

	relations := &externalapi.BlockRelations{
		Parents:  selectedParentFirst(ghostdagData.SelectedParent, directParents),
		Children: []*externalapi.DomainHash{},
		Height:   ghostdagData.Height,
	}
	if err := bp.blockRelationStore.Stage(bp.databaseWriter, hash, relations); err != nil {
		return nil, err
	}
	for _, parent := range directParents {
		parentRelations, err := bp.blockRelationStore.Get(bp.databaseContext, parent)
		if err != nil {
			return nil, err
		}
		parentRelations.Children = append(parentRelations.Children, hash)
		if err := bp.blockRelationStore.Stage(bp.databaseWriter, parent, parentRelations); err != nil {
			return nil, err
		}
	}

	if err := bp.blockStatusStore.Stage(bp.databaseWriter, hash, externalapi.StatusHeaderOnly); err != nil {
		return nil, err
	}
	if err := bp.dagTopologyManager.AddTip(hash); err != nil {
		return nil, err
	}
	if err := bp.headerTipsManager.AddHeaderTip(hash); err != nil {
		return nil, err
	}

	log.Debugf("accepted header %s at blue score %d", hash, ghostdagData.BlueScore)
	return &model.ProcessingResult{Status: model.StatusValid, Hash: hash, GHOSTDAG: ghostdagData}, nil
}

// ProcessBody implements spec §4.10 BodyProcessor.process_body.
func (bp *blockProcessor) ProcessBody(block *externalapi.DomainBlock, blockDAAScore uint64) (*model.ProcessingResult, error) {
	hash := consensusserialization.HeaderHash(block.Header)

	if has, err := bp.blockStore.HasBlock(bp.databaseContext, hash); err != nil {
		return nil, err
	} else if has {
		return &model.ProcessingResult{Status: model.StatusAlreadyExists, Hash: hash}, nil
	}

	isGenesis := hash.Equal(bp.genesisHash)
	if err := bp.blockValidator.ValidateBlockInIsolation(block, isGenesis, nowMilliseconds()); err != nil {
		log.Warnf("rejected body %s in isolation: %s", hash, err)
		return &model.ProcessingResult{Status: model.StatusInvalid, Hash: hash, Err: err}, nil
	}

	currentDAAScore := block.Header.DAAScore
	totalFees, err := bp.blockValidator.ValidateBlockInContext(block, bp.consensusStateManager, currentDAAScore)
	if err != nil {
		log.Warnf("rejected body %s in context: %s", hash, err)
		return &model.ProcessingResult{Status: model.StatusInvalid, Hash: hash, Err: err}, nil
	}

	if _, err := bp.consensusStateManager.ApplyBlock(block.Transactions, currentDAAScore, blockDAAScore); err != nil {
		if errors.As(err, new(*ruleerrors.RuleError)) &&
			!ruleerrors.Is(err, ruleerrors.KindDatabaseError) && !ruleerrors.Is(err, ruleerrors.KindSerializationError) {
			log.Warnf("rejected body %s applying UTXO state: %s", hash, err)
			return &model.ProcessingResult{Status: model.StatusInvalid, Hash: hash, Err: err}, nil
		}
		log.Errorf("fatal error applying block %s: %s", hash, err)
		return nil, err
	}

	if err := bp.blockStore.Stage(bp.databaseWriter, hash, block); err != nil {
		return nil, err
	}
	if err := bp.blockStatusStore.Stage(bp.databaseWriter, hash, externalapi.StatusUTXOValid); err != nil {
		return nil, err
	}

	log.Debugf("accepted body %s with %d transaction(s), fees %d", hash, len(block.Transactions), totalFees)
	return &model.ProcessingResult{Status: model.StatusValid, Hash: hash, TotalFees: totalFees}, nil
}

// GetVirtualBlockData implements spec §4.10 VirtualProcessor.
func (bp *blockProcessor) GetVirtualBlockData(maxParents int) (*externalapi.BlockGHOSTDAGData, []*externalapi.DomainHash, error) {
	return bp.ghostdagManager.VirtualGHOSTDAGData(maxParents)
}

// ProcessBlock orchestrates ProcessHeader and ProcessBody, parking the
// block in the OrphanPool on header Orphan and re-driving any orphans
// waiting on this block once it is accepted (spec §4.10).
func (bp *blockProcessor) ProcessBlock(block *externalapi.DomainBlock, blockDAAScore uint64) (*model.ProcessingResult, error) {
	headerResult, err := bp.ProcessHeader(block.Header)
	if err != nil {
		return nil, err
	}

	switch headerResult.Status {
	case model.StatusOrphan:
		missingParents, err := bp.missingParents(block.Header)
		if err != nil {
			return nil, err
		}
		if err := bp.orphanPool.Add(block, missingParents, nowMilliseconds()); err != nil {
			return nil, err
		}
		return headerResult, nil
	case model.StatusInvalid, model.StatusAlreadyExists:
		return headerResult, nil
	}

	bodyResult, err := bp.ProcessBody(block, blockDAAScore)
	if err != nil {
		return nil, err
	}
	if bodyResult.Status != model.StatusValid {
		return bodyResult, nil
	}

	if err := bp.releaseOrphans(headerResult.Hash, blockDAAScore); err != nil {
		return nil, err
	}

	return &model.ProcessingResult{
		Status:    model.StatusValid,
		Hash:      headerResult.Hash,
		TotalFees: bodyResult.TotalFees,
		GHOSTDAG:  headerResult.GHOSTDAG,
	}, nil
}

// releaseOrphans re-schedules every orphan directly waiting on hash
// through ProcessBlock (spec §4.10: "release any orphan children waiting
// on h.hash and schedule them").
func (bp *blockProcessor) releaseOrphans(hash *externalapi.DomainHash, blockDAAScore uint64) error {
	released, err := bp.orphanPool.ReleaseChildrenOf(hash)
	if err != nil {
		return err
	}
	if len(released) > 0 {
		log.Debugf("releasing %d orphan(s) waiting on %s", len(released), hash)
	}
	for _, child := range released {
		if _, err := bp.ProcessBlock(child, blockDAAScore); err != nil {
			return err
		}
	}
	return nil
}

func (bp *blockProcessor) missingParents(header *externalapi.DomainBlockHeader) ([]*externalapi.DomainHash, error) {
	var missing []*externalapi.DomainHash
	for _, parent := range header.DirectParents() {
		has, err := bp.headerStore.HasBlockHeader(bp.databaseContext, parent)
		if err != nil {
			return nil, err
		}
		if !has {
			missing = append(missing, parent)
		}
	}
	return missing, nil
}

// selectedParentFirst orders directParents with the GHOSTDAG-selected
// parent first, so that DAGTopologyManager.GetSelectedChain and the
// difficulty window can follow Parents()[0] to genesis.
func selectedParentFirst(selectedParent *externalapi.DomainHash, directParents []*externalapi.DomainHash) []*externalapi.DomainHash {
	if len(directParents) == 0 {
		return []*externalapi.DomainHash{}
	}
	ordered := make([]*externalapi.DomainHash, 0, len(directParents))
	ordered = append(ordered, selectedParent)
	for _, parent := range directParents {
		if parent.Equal(selectedParent) {
			continue
		}
		ordered = append(ordered, parent)
	}
	return ordered
}
