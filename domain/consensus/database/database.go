// Package database defines the abstract transactional key-value store the
// core assumes (spec §1 non-goals: "durable key-value storage... the core
// assumes an abstract transactional store"), plus the one concrete
// implementation this repo ships. The interface shape is grounded on the
// teacher's database2/database.go (Database/Transaction/Cursor) and
// infrastructure/db/dbaccess, kept intentionally small because the core
// itself treats persistence as an external collaborator.
package database

import "github.com/pkg/errors"

// ErrNotFound is returned by Get when a key does not exist.
var ErrNotFound = errors.New("key not found")

// DataAccessor is the read/write surface shared by a Database and a
// Transaction.
type DataAccessor interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key []byte, value []byte) error
	Delete(key []byte) error
	Cursor(prefix []byte) (Cursor, error)
}

// Cursor iterates over keys sharing a prefix, in ascending key order.
type Cursor interface {
	Next() bool
	Key() ([]byte, error)
	Value() ([]byte, error)
	Close() error
}

// Transaction is a single exclusive write transaction. The pipeline (spec
// §5) takes exactly one Transaction per block commit, covering headers,
// blocks, UTXOs, and GHOSTDAG data, so that readers never observe a mixed
// pre/post state.
type Transaction interface {
	DataAccessor
	Commit() error
	Rollback() error
}

// Database is the top-level handle: it can answer reads directly and begin
// exclusive write transactions.
type Database interface {
	DataAccessor
	Begin() (Transaction, error)
	Close() error
}

// Key prefixes for the column-family-style layout of spec §6.
var (
	prefixBlocks         = []byte("blocks/")
	prefixHeaders        = []byte("headers/")
	prefixUTXOs          = []byte("utxo/")
	prefixGhostdag       = []byte("ghostdag/")
	prefixBlockRelations = []byte("block_relations/")
	prefixBlockStatus    = []byte("block_status/")
	prefixDifficulty     = []byte("difficulty/")
	prefixTips           = []byte("tips/")
	prefixMetadata       = []byte("metadata/")
)

// BucketKey builds a namespaced key: prefix ‖ rawKey.
func BucketKey(prefix, rawKey []byte) []byte {
	key := make([]byte, 0, len(prefix)+len(rawKey))
	key = append(key, prefix...)
	key = append(key, rawKey...)
	return key
}
