// Package ghostdagdatastore implements model.GHOSTDAGDataStore.
package ghostdagdatastore

import (
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/database/serialization"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

var bucket = []byte("ghostdag/")

type store struct{}

// New instantiates a GHOSTDAGDataStore.
func New() model.GHOSTDAGDataStore {
	return &store{}
}

func key(blockHash *externalapi.DomainHash) []byte {
	return database.BucketKey(bucket, blockHash[:])
}

func (s *store) Stage(w model.DBWriter, blockHash *externalapi.DomainHash, data *externalapi.BlockGHOSTDAGData) error {
	raw, err := serialization.SerializeGHOSTDAGData(data)
	if err != nil {
		return err
	}
	return w.Put(key(blockHash), raw)
}

func (s *store) Get(r model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error) {
	raw, err := r.Get(key(blockHash))
	if err != nil {
		return nil, err
	}
	return serialization.DeserializeGHOSTDAGData(raw)
}

func (s *store) Has(r model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	return r.Has(key(blockHash))
}
