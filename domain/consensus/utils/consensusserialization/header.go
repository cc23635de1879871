package consensusserialization

import (
	"io"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// serializeHeader writes the canonical pre-image of spec §6:
//
//	version:u16 ‖ Σ_levels(Σ parent:32) ‖ hash_merkle_root:32 ‖
//	accepted_id_merkle_root:32 ‖ utxo_commitment:32 ‖ timestamp:u64 ‖
//	bits:u32 ‖ nonce:u64 ‖ daa_score:u64 ‖ blue_work:32 ‖ blue_score:u64 ‖
//	pruning_point:32
//
// When zeroTimestampAndNonce is set, timestamp and nonce are written as
// zero, producing the PoW pre-image rather than the header identity
// pre-image (spec §4.2 pre_pow_hash).
func serializeHeader(w io.Writer, header *externalapi.DomainBlockHeader, zeroTimestampAndNonce bool) error {
	if err := writeUint16(w, header.Version); err != nil {
		return err
	}

	for _, level := range header.ParentsByLevel {
		for _, parent := range level {
			if err := writeHash(w, parent); err != nil {
				return err
			}
		}
	}

	if err := writeHash(w, header.HashMerkleRoot); err != nil {
		return err
	}
	if err := writeHash(w, header.AcceptedIDMerkleRoot); err != nil {
		return err
	}
	if err := writeHash(w, header.UTXOCommitment); err != nil {
		return err
	}

	timestamp := header.TimeInMilliseconds
	nonce := header.Nonce
	if zeroTimestampAndNonce {
		timestamp = 0
		nonce = 0
	}
	if err := writeUint64(w, uint64(timestamp)); err != nil {
		return err
	}
	if err := writeUint32(w, header.Bits); err != nil {
		return err
	}
	if err := writeUint64(w, nonce); err != nil {
		return err
	}
	if err := writeUint64(w, header.DAAScore); err != nil {
		return err
	}

	blueWorkBytes := header.BlueWork.Bytes()
	if _, err := w.Write(blueWorkBytes[:]); err != nil {
		return err
	}

	if err := writeUint64(w, header.BlueScore); err != nil {
		return err
	}

	return writeHash(w, header.PruningPoint)
}

// HeaderHash computes a header's identity hash: double-SHA256 of its
// canonical pre-image (spec §6).
func HeaderHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	writer := hashes.NewDoubleHashWriter()
	err := serializeHeader(writer, header, false)
	if err != nil {
		// The double-hash writer never fails to absorb bytes; any error here
		// would indicate a nil pointer somewhere in the header, which
		// writeHash already guards against by substituting the zero hash.
		panic(errors.Wrap(err, "HeaderHash failed, which should never happen"))
	}
	result := writer.Finalize()
	return &result
}

// PrePoWHash computes the header's pre-PoW hash: double-SHA256 of its
// canonical pre-image with timestamp and nonce zeroed (spec §4.2).
func PrePoWHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	writer := hashes.NewDoubleHashWriter()
	err := serializeHeader(writer, header, true)
	if err != nil {
		panic(errors.Wrap(err, "PrePoWHash failed, which should never happen"))
	}
	result := writer.Finalize()
	return &result
}
