// Package utxosetstore implements model.UTXOSetStore: the live UTXO set,
// keyed by outpoint (spec §6 "UTXO key layout").
package utxosetstore

import (
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/database/serialization"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

var bucket = []byte("utxo/")

type store struct{}

// New instantiates a UTXOSetStore.
func New() model.UTXOSetStore {
	return &store{}
}

func key(outpoint *externalapi.DomainOutpoint) []byte {
	return database.BucketKey(bucket, serialization.OutpointKey(outpoint))
}

func (s *store) Get(r model.DBReader, outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error) {
	data, err := r.Get(key(outpoint))
	if err != nil {
		return nil, err
	}
	return serialization.DeserializeUTXOEntry(data)
}

func (s *store) Has(r model.DBReader, outpoint *externalapi.DomainOutpoint) (bool, error) {
	return r.Has(key(outpoint))
}

func (s *store) Stage(w model.DBWriter, outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
	data, err := serialization.SerializeUTXOEntry(entry)
	if err != nil {
		return err
	}
	return w.Put(key(outpoint), data)
}

func (s *store) Delete(w model.DBWriter, outpoint *externalapi.DomainOutpoint) error {
	return w.Delete(key(outpoint))
}
