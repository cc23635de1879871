// Package serialization encodes the stored entities of spec §6's
// "persistent state layout" for the key-value CFs the abstract store
// exposes (blocks, headers, utxos, ghostdag, block_relations). Since
// persistence itself is a non-goal of the core (spec §1: "the core assumes
// an abstract transactional store"), value encoding uses encoding/gob
// rather than a hand-rolled wire format; only the byte-exact encodings that
// ARE normative (header/transaction hash pre-images, in package
// consensusserialization) are hand-written.
package serialization

import (
	"bytes"
	"encoding/gob"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, errors.Wrap(err, "serialization: encode failed")
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return errors.Wrap(err, "serialization: decode failed")
	}
	return nil
}

// SerializeHeader encodes a header for storage.
func SerializeHeader(header *externalapi.DomainBlockHeader) ([]byte, error) {
	return encode(header)
}

// DeserializeHeader decodes a stored header.
func DeserializeHeader(data []byte) (*externalapi.DomainBlockHeader, error) {
	header := &externalapi.DomainBlockHeader{}
	if err := decode(data, header); err != nil {
		return nil, err
	}
	return header, nil
}

// SerializeBlock encodes a block for storage.
func SerializeBlock(block *externalapi.DomainBlock) ([]byte, error) {
	return encode(block)
}

// DeserializeBlock decodes a stored block.
func DeserializeBlock(data []byte) (*externalapi.DomainBlock, error) {
	block := &externalapi.DomainBlock{}
	if err := decode(data, block); err != nil {
		return nil, err
	}
	return block, nil
}

// SerializeUTXOEntry encodes a UTXO entry for storage.
func SerializeUTXOEntry(entry *externalapi.UTXOEntry) ([]byte, error) {
	return encode(entry)
}

// DeserializeUTXOEntry decodes a stored UTXO entry.
func DeserializeUTXOEntry(data []byte) (*externalapi.UTXOEntry, error) {
	entry := &externalapi.UTXOEntry{}
	if err := decode(data, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// SerializeGHOSTDAGData encodes GHOSTDAG data for storage.
func SerializeGHOSTDAGData(data *externalapi.BlockGHOSTDAGData) ([]byte, error) {
	return encode(data)
}

// DeserializeGHOSTDAGData decodes stored GHOSTDAG data.
func DeserializeGHOSTDAGData(raw []byte) (*externalapi.BlockGHOSTDAGData, error) {
	data := &externalapi.BlockGHOSTDAGData{}
	if err := decode(raw, data); err != nil {
		return nil, err
	}
	return data, nil
}

// SerializeBlockRelations encodes block relations for storage.
func SerializeBlockRelations(relations *externalapi.BlockRelations) ([]byte, error) {
	return encode(relations)
}

// DeserializeBlockRelations decodes stored block relations.
func DeserializeBlockRelations(data []byte) (*externalapi.BlockRelations, error) {
	relations := &externalapi.BlockRelations{}
	if err := decode(data, relations); err != nil {
		return nil, err
	}
	return relations, nil
}

// SerializeHashes encodes a slice of hashes (used for tip sets).
func SerializeHashes(hashes []*externalapi.DomainHash) ([]byte, error) {
	return encode(hashes)
}

// DeserializeHashes decodes a stored slice of hashes.
func DeserializeHashes(data []byte) ([]*externalapi.DomainHash, error) {
	var hashes []*externalapi.DomainHash
	if err := decode(data, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// OutpointKey encodes an outpoint as the 36-byte key of spec §6:
// outpoint(36 bytes: 32 txid + 4 LE index).
func OutpointKey(outpoint *externalapi.DomainOutpoint) []byte {
	key := make([]byte, 36)
	copy(key[:32], outpoint.TransactionID[:])
	key[32] = byte(outpoint.Index)
	key[33] = byte(outpoint.Index >> 8)
	key[34] = byte(outpoint.Index >> 16)
	key[35] = byte(outpoint.Index >> 24)
	return key
}

// ParseOutpointKey is the inverse of OutpointKey.
func ParseOutpointKey(key []byte) (*externalapi.DomainOutpoint, error) {
	if len(key) != 36 {
		return nil, errors.Errorf("invalid outpoint key length %d", len(key))
	}
	var outpoint externalapi.DomainOutpoint
	copy(outpoint.TransactionID[:], key[:32])
	outpoint.Index = uint32(key[32]) | uint32(key[33])<<8 | uint32(key[34])<<16 | uint32(key[35])<<24
	return &outpoint, nil
}
