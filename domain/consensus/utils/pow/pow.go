package pow

import (
	"encoding/binary"
	"math/big"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
	"github.com/jio-labs/jiod/domain/consensus/utils/consensusserialization"
	"github.com/jio-labs/jiod/domain/consensus/utils/hashes"
)

// PrePoWHash returns the header's pre-PoW hash: double-SHA256 of its
// canonical serialization with timestamp and nonce zeroed (spec §4.2).
func PrePoWHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	return consensusserialization.PrePoWHash(header)
}

// Hash computes a header's PoW hash, dispatching on header.Version (spec
// §4.2). KHASHV2 is reserved and falls back to KHASHV1 semantics until
// specified. Any other version returns the header's plain identity hash;
// validators must reject unknown versions before this is ever reached.
func Hash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	switch header.Version {
	case constants.BlockVersionKHeavyHashV1, constants.BlockVersionKHeavyHashV2:
		return heavyHash(header)
	default:
		return consensusserialization.HeaderHash(header)
	}
}

func heavyHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	prePoW := PrePoWHash(header)

	matrix := generateMatrix((*[32]byte)(prePoW))

	state := seedState(prePoW, header.TimeInMilliseconds, header.Nonce)
	mixed := matrix.apply(toNibbles(&state))
	finalBytes := fromNibbles(mixed)

	result := hashes.DoubleHash(finalBytes[:])
	return &result
}

// seedState builds the per-nonce state hash: double-SHA256 of
// pre_pow_hash ‖ timestamp:u64 ‖ nonce:u64, the "state machine seeded with
// pre_pow_hash and timestamp; finalized with the nonce" of spec §4.2.
func seedState(prePoWHash *externalapi.DomainHash, timestamp int64, nonce uint64) [32]byte {
	w := hashes.NewDoubleHashWriter()
	_, _ = w.Write(prePoWHash[:])

	var tsBuf [8]byte
	binary.LittleEndian.PutUint64(tsBuf[:], uint64(timestamp))
	_, _ = w.Write(tsBuf[:])

	var nonceBuf [8]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], nonce)
	_, _ = w.Write(nonceBuf[:])

	return w.Finalize()
}

// ValidatePoW reports whether header's PoW hash, read as an unsigned
// big-endian integer, does not exceed the target implied by header.Bits
// (spec §4.2, §8). It is a pure function of the header's bytes.
func ValidatePoW(header *externalapi.DomainBlockHeader) bool {
	target := FromBits(header.Bits)
	hash := Hash(header)
	return HashToBig(hash).Cmp(target) <= 0
}

// CheckProofOfWorkWithTarget validates a header's PoW against an explicit
// target rather than re-deriving it from header.Bits, mirroring the
// teacher's pow.CheckProofOfWorkWithTarget entry point used by
// blockvalidator.checkProofOfWork once the target bounds have already been
// range-checked.
func CheckProofOfWorkWithTarget(header *externalapi.DomainBlockHeader, target *big.Int) bool {
	hash := Hash(header)
	return HashToBig(hash).Cmp(target) <= 0
}
