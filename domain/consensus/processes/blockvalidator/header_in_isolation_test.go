package blockvalidator_test

import (
	"testing"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/processes/blockvalidator"
	"github.com/jio-labs/jiod/domain/consensus/processes/transactionvalidator"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
	"github.com/jio-labs/jiod/domain/consensus/utils/txmass"
)

func testHash(b byte) *externalapi.DomainHash {
	var h externalapi.DomainHash
	h[0] = b
	return &h
}

// simnetHeader returns a header with the simnet genesis block's bits,
// 0x207fffff, whose target covers about half of the hash space, so nonce 0
// satisfies it for roughly half of all headers.
func simnetHeader(parents []*externalapi.DomainHash) *externalapi.DomainBlockHeader {
	return &externalapi.DomainBlockHeader{
		Version:              constants.BlockVersion,
		ParentsByLevel:       [][]*externalapi.DomainHash{parents},
		HashMerkleRoot:       testHash(0xaa),
		AcceptedIDMerkleRoot: testHash(0xbb),
		UTXOCommitment:       testHash(0xcc),
		TimeInMilliseconds:   1_700_000_000_000,
		Bits:                 0x207fffff,
		Nonce:                0,
		BlueWork:             externalapi.ZeroBlueWork(),
		PruningPoint:         testHash(0xdd),
	}
}

func newValidator() interface {
	ValidateHeaderInIsolation(header *externalapi.DomainBlockHeader, isGenesis bool, nowInMilliseconds int64) error
} {
	massCalculator := txmass.New()
	txValidator := transactionvalidator.New(100)
	return blockvalidator.New(massCalculator, txValidator)
}

func TestValidateHeaderInIsolationAcceptsGenesis(t *testing.T) {
	v := newValidator()
	header := simnetHeader(nil)
	if err := v.ValidateHeaderInIsolation(header, true, header.TimeInMilliseconds); err != nil {
		t.Fatalf("ValidateHeaderInIsolation(genesis): %s", err)
	}
}

func TestValidateHeaderInIsolationRejectsNoParentsWhenNotGenesis(t *testing.T) {
	v := newValidator()
	header := simnetHeader(nil)
	if err := v.ValidateHeaderInIsolation(header, false, header.TimeInMilliseconds); err == nil {
		t.Fatalf("ValidateHeaderInIsolation: expected an error for a non-genesis block with no parents")
	}
}

func TestValidateHeaderInIsolationAcceptsParentsOutOfHashOrder(t *testing.T) {
	v := newValidator()
	a := testHash(2)
	b := testHash(1)
	header := simnetHeader([]*externalapi.DomainHash{a, b})
	header.Nonce = 2 // nonce 2 satisfies bits 0x207fffff for this header
	if err := v.ValidateHeaderInIsolation(header, false, header.TimeInMilliseconds); err != nil {
		t.Fatalf("ValidateHeaderInIsolation: direct_parents is a set, not an ordered sequence, so parents out of hash order must be accepted: %s", err)
	}
}

func TestValidateHeaderInIsolationRejectsDuplicateParents(t *testing.T) {
	v := newValidator()
	a := testHash(1)
	header := simnetHeader([]*externalapi.DomainHash{a, a})
	if err := v.ValidateHeaderInIsolation(header, false, header.TimeInMilliseconds); err == nil {
		t.Fatalf("ValidateHeaderInIsolation: expected an error for duplicate parents")
	}
}

// impossiblePoWHeader returns a header whose bits decode to a target of
// zero (exponent 1, mantissa 1: FromBits shifts the mantissa fully out of
// range), so no hash can ever satisfy it regardless of nonce.
func impossiblePoWHeader(parents []*externalapi.DomainHash) *externalapi.DomainBlockHeader {
	header := simnetHeader(parents)
	header.Bits = 0x01000001
	return header
}

func TestValidateHeaderInIsolationBypassesPoWForGenesis(t *testing.T) {
	v := newValidator()
	header := impossiblePoWHeader(nil)
	if err := v.ValidateHeaderInIsolation(header, true, header.TimeInMilliseconds); err != nil {
		t.Fatalf("ValidateHeaderInIsolation(genesis): expected the PoW check to be bypassed for genesis, got: %s", err)
	}
}

func TestValidateHeaderInIsolationRejectsInvalidPoWForNonGenesis(t *testing.T) {
	v := newValidator()
	header := impossiblePoWHeader([]*externalapi.DomainHash{testHash(1)})
	if err := v.ValidateHeaderInIsolation(header, false, header.TimeInMilliseconds); err == nil {
		t.Fatalf("ValidateHeaderInIsolation: expected an error for a non-genesis block that fails its claimed PoW target")
	}
}

func TestValidateHeaderInIsolationRejectsFutureTimestamp(t *testing.T) {
	v := newValidator()
	header := simnetHeader([]*externalapi.DomainHash{testHash(1)})
	now := header.TimeInMilliseconds - constants.MaxTimestampFutureOffsetMilliseconds - 1
	if err := v.ValidateHeaderInIsolation(header, false, now); err == nil {
		t.Fatalf("ValidateHeaderInIsolation: expected an error for a timestamp too far in the future")
	}
}
