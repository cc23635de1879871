// Package pow implements PoWVerifier (spec §4.2): compact-bits <-> target
// conversion, header pre-image/PoW hashing, and target comparison. Compact
// bits conversion is grounded on the classic CompactToBig/BigToCompact
// algorithm present throughout the btcd lineage (see e.g.
// flokiorg-go-flokicoin's workmath.CompactToBig); the KHeavyHash matrix
// step is grounded on spec §4.2's textual description of the real Kaspa
// kHeavyHash construction (pre-PoW hash seeds a Xoshiro-derived 64x64
// matrix, which is folded against a per-nonce state hash).
package pow

import (
	"math/big"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
)

// maxUint256 is 2^256 - 1, used when a compact exponent would overflow
// a 256-bit target (spec §4.2: "saturating nowhere ... the target is the
// maximum u256").
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// FromBits converts compact bits to a 256-bit unsigned target, per spec §3:
// mantissa = bits & 0x007fffff, exponent = bits >> 24; exponent <= 3 shifts
// the mantissa right, otherwise left.
func FromBits(bits uint32) *big.Int {
	mantissa := int64(bits & 0x007fffff)
	exponent := bits >> 24

	var target *big.Int
	if exponent <= 3 {
		target = big.NewInt(mantissa >> (8 * (3 - exponent)))
	} else {
		target = big.NewInt(mantissa)
		shift := uint(exponent-3) * 8
		if shift > 256 {
			return new(big.Int).Set(maxUint256)
		}
		target.Lsh(target, shift)
	}

	if target.Sign() < 0 || target.Cmp(maxUint256) > 0 {
		return new(big.Int).Set(maxUint256)
	}
	return target
}

// ToBits converts a 256-bit unsigned target to compact bits. The inverse of
// FromBits is not bijective at the mantissa's 23-bit precision boundary;
// callers should only assert round-trip equivalence up to that precision
// (spec §8).
func ToBits(target *big.Int) uint32 {
	if target.Sign() <= 0 {
		return 0
	}

	// nBytes is the number of bytes needed to hold target's magnitude.
	nBytes := uint32((target.BitLen() + 7) / 8)

	var mantissa uint32
	if nBytes <= 3 {
		mantissa = uint32(target.Int64()) << (8 * (3 - nBytes))
	} else {
		shifted := new(big.Int).Rsh(target, uint(8*(nBytes-3)))
		mantissa = uint32(shifted.Int64())
	}

	// The sign bit (0x00800000) must never be set in the mantissa; if it
	// would be, shift one more byte into the exponent, matching the
	// classic Bitcoin-lineage compact encoding's handling of the
	// would-be-negative mantissa.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		nBytes++
	}

	return mantissa | (nBytes << 24)
}

// MinTarget and MaxTarget bound the retargeted target per spec §6.
func MinTarget() *big.Int { return FromBits(constants.MinCompactTargetBits) }
func MaxTarget() *big.Int { return FromBits(constants.MaxCompactTargetBits) }

// HashToBig interprets a hash as an unsigned big-endian 256-bit integer,
// used to compare a PoW hash against a target.
func HashToBig(hash *externalapi.DomainHash) *big.Int {
	// DomainHash is stored the same way the canonical serialization writes
	// it: as raw bytes in the order produced by the hash function. Compact
	// target comparison is unsigned big-endian, so we can feed the bytes
	// directly to big.Int.SetBytes.
	return new(big.Int).SetBytes(hash[:])
}
