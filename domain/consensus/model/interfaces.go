package model

import (
	"math/big"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

// ReachabilityManager answers ancestry queries over the DAG (spec §4.3).
// The traversal-based implementation satisfies the same contract as an
// interval-labeling one; see the reachabilitymanager package comment for
// the documented upgrade seam.
type ReachabilityManager interface {
	IsAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
}

// DAGTopologyManager composes BlockRelationStore and ReachabilityManager
// (spec §4.4).
type DAGTopologyManager interface {
	Parents(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	Children(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	IsParentOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	IsChildOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	IsAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	IsDescendantOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error)
	Tips() ([]*externalapi.DomainHash, error)
	AddTip(tipHash *externalapi.DomainHash) error
	GetAnticone(blockHash *externalapi.DomainHash, cap int) ([]*externalapi.DomainHash, error)
	TopologicalSort(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	GetSelectedChain(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	BlockLocator(highHash, lowHash *externalapi.DomainHash, limit uint32) ([]*externalapi.DomainHash, error)
}

// HeaderTipsManager maintains the header-only tip set as headers are
// accepted, independent of body validation (spec §4.10's header-first
// path).
type HeaderTipsManager interface {
	AddHeaderTip(hash *externalapi.DomainHash) error
}

// GHOSTDAGManager implements the K-cluster coloring algorithm (spec §4.5).
type GHOSTDAGManager interface {
	GHOSTDAG(blockHash *externalapi.DomainHash, directParents []*externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error)
	ChooseSelectedParent(blockHashes ...*externalapi.DomainHash) (*externalapi.DomainHash, error)
	Less(blockHashA *externalapi.DomainHash, ghostdagDataA *externalapi.BlockGHOSTDAGData,
		blockHashB *externalapi.DomainHash, ghostdagDataB *externalapi.BlockGHOSTDAGData) bool
	VirtualGHOSTDAGData(maxParents int) (*externalapi.BlockGHOSTDAGData, []*externalapi.DomainHash, error)
}

// DifficultyManager implements the sliding-window retarget (spec §4.6).
type DifficultyManager interface {
	RequiredDifficulty(blockHash *externalapi.DomainHash) (uint32, error)
	Observe(blockHash *externalapi.DomainHash, timestampInMilliseconds int64, bits uint32) error
}

// UTXODiff is the set of UTXO entries created and spent by one transaction
// or block application (spec §4.7).
type UTXODiff struct {
	Created map[externalapi.DomainOutpoint]*externalapi.UTXOEntry
	Spent   map[externalapi.DomainOutpoint]*externalapi.UTXOEntry
}

// NewUTXODiff returns an empty diff.
func NewUTXODiff() *UTXODiff {
	return &UTXODiff{
		Created: make(map[externalapi.DomainOutpoint]*externalapi.UTXOEntry),
		Spent:   make(map[externalapi.DomainOutpoint]*externalapi.UTXOEntry),
	}
}

// UTXOView is a read-only snapshot of the UTXO set (spec §4.7).
type UTXOView interface {
	Get(outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, bool, error)
	IsSpendable(outpoint *externalapi.DomainOutpoint, currentDAAScore uint64) (bool, error)
}

// ConsensusStateManager owns the live UTXO ledger (spec §4.7).
type ConsensusStateManager interface {
	UTXOView
	ApplyTransaction(tx *externalapi.DomainTransaction, currentDAAScore, blockDAAScore uint64) (*UTXODiff, error)
	ApplyBlock(txs []*externalapi.DomainTransaction, currentDAAScore, blockDAAScore uint64) ([]*UTXODiff, error)
	Revert(diff *UTXODiff) error
}

// MassCalculator implements non-contextual and KIP-0009 contextual mass
// (spec §4.8).
type MassCalculator interface {
	ComputeMass(tx *externalapi.DomainTransaction) uint64
	TransientMass(tx *externalapi.DomainTransaction) uint64
	StorageMass(tx *externalapi.DomainTransaction, inputEntries []*externalapi.UTXOEntry) (uint64, bool)
}

// HeaderValidator implements the structural and contextual header checks
// (spec §4.9).
type HeaderValidator interface {
	ValidateHeaderInIsolation(header *externalapi.DomainBlockHeader, isGenesis bool, nowInMilliseconds int64) error
	ValidateHeaderInContext(header *externalapi.DomainBlockHeader, parentTimestamps []int64) error
}

// TransactionValidator implements structural and UTXO-contextual
// transaction checks (spec §4.9).
type TransactionValidator interface {
	ValidateTransactionInIsolation(tx *externalapi.DomainTransaction) error
	ValidateTransactionInContext(tx *externalapi.DomainTransaction, view UTXOView, currentDAAScore uint64) (fee uint64, err error)
}

// BlockValidator implements whole-block checks (spec §4.9). It embeds
// HeaderValidator since HeaderProcessor validates a block's header through
// the same concrete validator BodyProcessor uses for the rest of the
// block.
type BlockValidator interface {
	HeaderValidator
	ValidateBlockInIsolation(block *externalapi.DomainBlock, isGenesis bool, nowInMilliseconds int64) error
	ValidateBlockInContext(block *externalapi.DomainBlock, view UTXOView, currentDAAScore uint64) (totalFees uint64, err error)
}

// CoinbaseManager implements subsidy schedule and coinbase construction
// (spec §4.11).
type CoinbaseManager interface {
	Subsidy(height uint64) uint64
	Reward(height uint64, fees uint64) uint64
	ExpectedCoinbaseTransaction(height uint64, fees uint64, minerScriptPublicKey *externalapi.ScriptPublicKey) (*externalapi.DomainTransaction, error)
	ValidateCoinbase(tx *externalapi.DomainTransaction, expectedReward uint64) error
}

// ProcessingStatus is the outcome status of a pipeline stage (spec §4.10).
type ProcessingStatus int

// Processing statuses a ProcessingResult may carry.
const (
	StatusValid ProcessingStatus = iota
	StatusInvalid
	StatusOrphan
	StatusAlreadyExists
)

func (s ProcessingStatus) String() string {
	switch s {
	case StatusValid:
		return "Valid"
	case StatusInvalid:
		return "Invalid"
	case StatusOrphan:
		return "Orphan"
	case StatusAlreadyExists:
		return "AlreadyExists"
	default:
		return "Unknown"
	}
}

// ProcessingResult is the outcome of BlockProcessor.ProcessBlock (spec §4.10
// / §7).
type ProcessingResult struct {
	Status     ProcessingStatus
	Hash       *externalapi.DomainHash
	TotalFees  uint64
	GHOSTDAG   *externalapi.BlockGHOSTDAGData
	Err        error
}

// HeaderProcessor implements the header-acceptance stage (spec §4.10).
type HeaderProcessor interface {
	ProcessHeader(header *externalapi.DomainBlockHeader) (*ProcessingResult, error)
}

// BodyProcessor implements the body-acceptance stage (spec §4.10).
type BodyProcessor interface {
	ProcessBody(block *externalapi.DomainBlock, blockDAAScore uint64) (*ProcessingResult, error)
}

// VirtualProcessor computes (but never persists) virtual block data (spec
// §4.10).
type VirtualProcessor interface {
	GetVirtualBlockData(maxParents int) (*externalapi.BlockGHOSTDAGData, []*externalapi.DomainHash, error)
}

// BlockProcessor orchestrates header, body, and virtual processing (spec
// §4.10).
type BlockProcessor interface {
	ProcessBlock(block *externalapi.DomainBlock, blockDAAScore uint64) (*ProcessingResult, error)
}

// OrphanPool parks blocks with unknown parents (spec §4.10, §5).
type OrphanPool interface {
	Add(block *externalapi.DomainBlock, missingParents []*externalapi.DomainHash, nowInMilliseconds int64) error
	ReleaseChildrenOf(blockHash *externalapi.DomainHash) ([]*externalapi.DomainBlock, error)
	EvictOlderThan(maxAgeInMilliseconds int64, nowInMilliseconds int64) []*externalapi.DomainHash
	Has(blockHash *externalapi.DomainHash) bool
	Len() int
}

// Work converts an expanded 256-bit target to its approximate proof-of-work value
// (spec §4.5 step 5): work(b) = floor((2**256 - 1) / target(b)).
func Work(target *big.Int) *big.Int {
	if target == nil || target.Sign() <= 0 {
		return big.NewInt(0)
	}
	maxTarget := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	return new(big.Int).Div(maxTarget, target)
}
