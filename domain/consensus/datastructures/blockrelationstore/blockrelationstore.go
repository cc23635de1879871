// Package blockrelationstore implements model.BlockRelationStore (spec
// §4.3): parent/child adjacency, height, and the tip set.
package blockrelationstore

import (
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/database/serialization"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

var (
	bucket  = []byte("block_relations/")
	tipsKey = []byte("tips/tips")
)

type store struct{}

// New instantiates a BlockRelationStore.
func New() model.BlockRelationStore {
	return &store{}
}

func key(blockHash *externalapi.DomainHash) []byte {
	return database.BucketKey(bucket, blockHash[:])
}

func (s *store) Stage(w model.DBWriter, blockHash *externalapi.DomainHash, relations *externalapi.BlockRelations) error {
	data, err := serialization.SerializeBlockRelations(relations)
	if err != nil {
		return err
	}
	return w.Put(key(blockHash), data)
}

func (s *store) Get(r model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.BlockRelations, error) {
	data, err := r.Get(key(blockHash))
	if err != nil {
		return nil, err
	}
	return serialization.DeserializeBlockRelations(data)
}

func (s *store) Has(r model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	return r.Has(key(blockHash))
}

func (s *store) Tips(r model.DBReader) ([]*externalapi.DomainHash, error) {
	data, err := r.Get(tipsKey)
	if err != nil {
		if errDatabaseNotFound(err) {
			return []*externalapi.DomainHash{}, nil
		}
		return nil, err
	}
	return serialization.DeserializeHashes(data)
}

func (s *store) StageTips(w model.DBWriter, tips []*externalapi.DomainHash) error {
	data, err := serialization.SerializeHashes(tips)
	if err != nil {
		return err
	}
	return w.Put(tipsKey, data)
}

func errDatabaseNotFound(err error) bool {
	return err == database.ErrNotFound
}
