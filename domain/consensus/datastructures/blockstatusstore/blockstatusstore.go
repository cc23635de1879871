// Package blockstatusstore implements model.BlockStatusStore.
package blockstatusstore

import (
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

var bucket = []byte("block_status/")

type store struct{}

// New instantiates a BlockStatusStore.
func New() model.BlockStatusStore {
	return &store{}
}

func key(blockHash *externalapi.DomainHash) []byte {
	return database.BucketKey(bucket, blockHash[:])
}

func (s *store) Stage(w model.DBWriter, blockHash *externalapi.DomainHash, status externalapi.BlockStatus) error {
	return w.Put(key(blockHash), []byte{byte(status)})
}

func (s *store) Get(r model.DBReader, blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error) {
	data, err := r.Get(key(blockHash))
	if err != nil {
		return externalapi.StatusInvalid, err
	}
	return externalapi.BlockStatus(data[0]), nil
}

func (s *store) Exists(r model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	return r.Has(key(blockHash))
}
