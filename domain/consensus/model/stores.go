package model

import (
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

// DBReader is anything that can satisfy a read: either the live database or
// an open write transaction (spec §5: "readers either see the pre-state or
// the post-state, never a mix").
type DBReader = database.DataAccessor

// DBWriter is an open exclusive write transaction.
type DBWriter = database.Transaction

// BlockHeaderStore persists headers, keyed by hash.
type BlockHeaderStore interface {
	Stage(w DBWriter, blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) error
	BlockHeader(r DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error)
	HasBlockHeader(r DBReader, blockHash *externalapi.DomainHash) (bool, error)
	Delete(w DBWriter, blockHash *externalapi.DomainHash) error
}

// BlockStore persists full blocks (header + transactions), keyed by hash.
type BlockStore interface {
	Stage(w DBWriter, blockHash *externalapi.DomainHash, block *externalapi.DomainBlock) error
	Block(r DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error)
	HasBlock(r DBReader, blockHash *externalapi.DomainHash) (bool, error)
	Delete(w DBWriter, blockHash *externalapi.DomainHash) error
}

// BlockStatusStore tracks each block's pipeline status (spec §4.10).
type BlockStatusStore interface {
	Stage(w DBWriter, blockHash *externalapi.DomainHash, status externalapi.BlockStatus) error
	Get(r DBReader, blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error)
	Exists(r DBReader, blockHash *externalapi.DomainHash) (bool, error)
}

// BlockRelationStore persists parent/child adjacency and height (spec
// §4.3).
type BlockRelationStore interface {
	Stage(w DBWriter, blockHash *externalapi.DomainHash, relations *externalapi.BlockRelations) error
	Get(r DBReader, blockHash *externalapi.DomainHash) (*externalapi.BlockRelations, error)
	Has(r DBReader, blockHash *externalapi.DomainHash) (bool, error)
	Tips(r DBReader) ([]*externalapi.DomainHash, error)
	StageTips(w DBWriter, tips []*externalapi.DomainHash) error
}

// GHOSTDAGDataStore persists per-block GHOSTDAG coloring output (spec
// §4.5).
type GHOSTDAGDataStore interface {
	Stage(w DBWriter, blockHash *externalapi.DomainHash, data *externalapi.BlockGHOSTDAGData) error
	Get(r DBReader, blockHash *externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error)
	Has(r DBReader, blockHash *externalapi.DomainHash) (bool, error)
}

// UTXOSetStore is the authoritative live UTXO set (spec §4.7).
type UTXOSetStore interface {
	Get(r DBReader, outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error)
	Has(r DBReader, outpoint *externalapi.DomainOutpoint) (bool, error)
	Stage(w DBWriter, outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error
	Delete(w DBWriter, outpoint *externalapi.DomainOutpoint) error
}

// DifficultyStore persists each block's observed (timestamp, bits) pair so
// the sliding window (spec §4.6) can be reconstructed along the selected
// chain.
type DifficultyStore interface {
	Stage(w DBWriter, blockHash *externalapi.DomainHash, timestamp int64, bits uint32) error
	Get(r DBReader, blockHash *externalapi.DomainHash) (timestamp int64, bits uint32, err error)
}

// HeaderTipsStore persists the set of header-only tips: blocks whose
// header has been accepted but whose body may not have arrived yet,
// tracked separately from BlockRelationStore's (body-validated) tip set so
// header-first ingestion has somewhere to record progress ahead of the
// body.
type HeaderTipsStore interface {
	Stage(w DBWriter, tips []*externalapi.DomainHash) error
	Tips(r DBReader) ([]*externalapi.DomainHash, error)
	HasTips(r DBReader) (bool, error)
}
