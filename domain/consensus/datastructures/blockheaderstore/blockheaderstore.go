// Package blockheaderstore implements model.BlockHeaderStore.
package blockheaderstore

import (
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/database/serialization"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var bucket = []byte("headers/")

type store struct{}

// New instantiates a BlockHeaderStore.
func New() model.BlockHeaderStore {
	return &store{}
}

func key(blockHash *externalapi.DomainHash) []byte {
	return database.BucketKey(bucket, blockHash[:])
}

func (s *store) Stage(w model.DBWriter, blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) error {
	data, err := serialization.SerializeHeader(header)
	if err != nil {
		return err
	}
	return w.Put(key(blockHash), data)
}

func (s *store) BlockHeader(r model.DBReader, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	data, err := r.Get(key(blockHash))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, errors.Wrapf(err, "header for block %s not found", blockHash)
		}
		return nil, err
	}
	return serialization.DeserializeHeader(data)
}

func (s *store) HasBlockHeader(r model.DBReader, blockHash *externalapi.DomainHash) (bool, error) {
	return r.Has(key(blockHash))
}

func (s *store) Delete(w model.DBWriter, blockHash *externalapi.DomainHash) error {
	return w.Delete(key(blockHash))
}
