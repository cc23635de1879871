// Package blockstore implements model.BlockStore.
package blockstore

import (
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/database/serialization"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

var bucket = []byte("blocks/")

type store struct{}

// New instantiates a BlockStore.
func New() model.BlockStore {
	return &store{}
}

func key(blockHash *externalapi.DomainHash) []byte {
	return database.BucketKey(bucket, blockHash[:])
}

func (s *store) Stage(w model.DBWriter, blockHash *externalapi.DomainHash, block *externalapi.DomainBlock) error {
	data, err := serialization.SerializeBlock(block)
	if err != nil {
		return err
	}
	return w.Put(key(blockHash), data)
}

func (s *store) Block(r model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	data, err := r.Get(key(blockHash))
	if err != nil {
		return nil, err
	}
	return serialization.DeserializeBlock(data)
}

func (s *store) HasBlock(r model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	return r.Has(key(blockHash))
}

func (s *store) Delete(w model.DBWriter, blockHash *externalapi.DomainHash) error {
	return w.Delete(key(blockHash))
}
