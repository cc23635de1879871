// Package headertipsstore implements model.HeaderTipsStore: the set of
// header-only tips, stored separately from block_relations' body tip set
// exactly as the teacher keeps a dedicated headerTipsStore alongside its
// body-tip-tracking block relation store.
package headertipsstore

import (
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/database/serialization"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

var tipsKey = []byte("header_tips/tips")

type store struct{}

// New instantiates a HeaderTipsStore.
func New() model.HeaderTipsStore {
	return &store{}
}

func (s *store) Stage(w model.DBWriter, tips []*externalapi.DomainHash) error {
	data, err := serialization.SerializeHashes(tips)
	if err != nil {
		return err
	}
	return w.Put(tipsKey, data)
}

func (s *store) Tips(r model.DBReader) ([]*externalapi.DomainHash, error) {
	data, err := r.Get(tipsKey)
	if err != nil {
		if err == database.ErrNotFound {
			return []*externalapi.DomainHash{}, nil
		}
		return nil, err
	}
	return serialization.DeserializeHashes(data)
}

func (s *store) HasTips(r model.DBReader) (bool, error) {
	return r.Has(tipsKey)
}
