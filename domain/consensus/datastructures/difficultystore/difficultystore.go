// Package difficultystore implements model.DifficultyStore: the per-block
// (timestamp, bits) pairs the difficulty manager's sliding window (spec
// §4.6) walks along the selected chain.
package difficultystore

import (
	"encoding/binary"

	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

var bucket = []byte("difficulty/")

type store struct{}

// New instantiates a DifficultyStore.
func New() model.DifficultyStore {
	return &store{}
}

func key(blockHash *externalapi.DomainHash) []byte {
	return database.BucketKey(bucket, blockHash[:])
}

func (s *store) Stage(w model.DBWriter, blockHash *externalapi.DomainHash, timestamp int64, bits uint32) error {
	raw := make([]byte, 12)
	binary.LittleEndian.PutUint64(raw[:8], uint64(timestamp))
	binary.LittleEndian.PutUint32(raw[8:], bits)
	return w.Put(key(blockHash), raw)
}

func (s *store) Get(r model.DBReader, blockHash *externalapi.DomainHash) (int64, uint32, error) {
	raw, err := r.Get(key(blockHash))
	if err != nil {
		return 0, 0, err
	}
	timestamp := int64(binary.LittleEndian.Uint64(raw[:8]))
	bits := binary.LittleEndian.Uint32(raw[8:])
	return timestamp, bits, nil
}
