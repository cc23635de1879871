package dagconfig

import (
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/consensusserialization"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
	"github.com/jio-labs/jiod/domain/consensus/utils/merkle"
	"github.com/jio-labs/jiod/domain/consensus/utils/pow"
	"github.com/jio-labs/jiod/domain/consensus/utils/subnetworks"
)

// buildGenesisBlock assembles the deterministic one-coinbase-transaction
// genesis block for a network: a coinbase paying the network's initial
// subsidy to an empty (unspendable) script, carrying payload as its
// payload. The header's blue work is set directly from its own bits, since
// a genesis block has no parents to inherit work from (spec §4.5:
// "Genesis: ... blue_work = work(H)").
func buildGenesisBlock(bits uint32, timestampInMilliseconds int64, nonce uint64, payload string, subsidy uint64) (*externalapi.DomainBlock, *externalapi.DomainHash) {
	coinbase := &externalapi.DomainTransaction{
		Version: 1,
		Inputs:  []*externalapi.DomainTransactionInput{},
		Outputs: []*externalapi.DomainTransactionOutput{
			{
				Value:           subsidy,
				ScriptPublicKey: &externalapi.ScriptPublicKey{Script: []byte{}, Version: 0},
			},
		},
		LockTime:     0,
		SubnetworkID: subnetworks.SubnetworkIDCoinbase,
		Gas:          0,
		Payload:      []byte(payload),
	}
	consensusserialization.TransactionID(coinbase)

	merkleRoot := merkle.CalculateHashMerkleRoot([]*externalapi.DomainHash{coinbase.ID.ToHash()})
	zero := externalapi.ZeroHash

	header := &externalapi.DomainBlockHeader{
		Version:              constants.BlockVersion,
		ParentsByLevel:       [][]*externalapi.DomainHash{},
		HashMerkleRoot:       merkleRoot,
		AcceptedIDMerkleRoot: &zero,
		UTXOCommitment:       &zero,
		TimeInMilliseconds:   timestampInMilliseconds,
		Bits:                 bits,
		Nonce:                nonce,
		DAAScore:             0,
		BlueWork:             externalapi.NewBlueWork(model.Work(pow.FromBits(bits))),
		BlueScore:            1,
		PruningPoint:         &zero,
	}

	hash := consensusserialization.HeaderHash(header)
	block := &externalapi.DomainBlock{
		Header:       header,
		Transactions: []*externalapi.DomainTransaction{coinbase},
	}
	return block, hash
}

// genesisBlock/genesisHash and their per-network counterparts back the
// Params vars in params.go, mirroring the teacher's genesis.go/params.go
// split.
var genesisBlock, genesisHash = buildGenesisBlock(
	0x1f00ffff, 1762971421786, 38922, "Jio deterministic genesis - 2025-11-12", 50*100_000_000)

var testnetGenesisBlock, testnetGenesisHash = buildGenesisBlock(
	0x1f00ffff, 1762971421786, 38922, "Jio deterministic genesis - 2025-11-12 (testnet)", 50*100_000_000)

var devnetGenesisBlock, devnetGenesisHash = buildGenesisBlock(
	0x1e7fffff, 1762971421786, 0, "Jio deterministic genesis - 2025-11-12 (devnet)", 50*100_000_000)

var simnetGenesisBlock, simnetGenesisHash = buildGenesisBlock(
	0x207fffff, 1762971421786, 0, "Jio deterministic genesis - 2025-11-12 (simnet)", 50*100_000_000)
