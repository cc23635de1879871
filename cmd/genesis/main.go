// Command genesis validates and, on demand, mines the deterministic
// genesis block of every registered network: it recomputes each genesis
// block's hash-merkle-root from its coinbase transaction and checks it
// against the header, then reports whether the stored nonce already
// satisfies the network's proof-of-work target, mirroring the teacher's
// cmd/genesis validate-then-solve tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/merkle"
	"github.com/jio-labs/jiod/domain/consensus/utils/pow"
	"github.com/jio-labs/jiod/domain/dagconfig"
)

func validateMerkleRoot(block *externalapi.DomainBlock) bool {
	ids := make([]*externalapi.DomainHash, len(block.Transactions))
	for i, tx := range block.Transactions {
		ids[i] = tx.ID.ToHash()
	}
	calculated := merkle.CalculateHashMerkleRoot(ids)
	return calculated.Equal(block.Header.HashMerkleRoot)
}

// solve searches nonces starting from zero until the header hash satisfies
// its own bits, reporting how far it had to search.
// jiod's deterministic genesis blocks are parameterized with PowLimitBits,
// the easiest target each network defines, so this should terminate almost
// immediately; it exists to catch a genesis that was hand-edited into
// inconsistency with its own bits.
func solve(params *dagconfig.Params) (found bool, nonce uint64, triesUsed uint64) {
	header := params.GenesisBlock.Header.Clone()
	target := pow.FromBits(header.Bits)

	const maxTries = 1 << 20
	for tries := uint64(0); tries < maxTries; tries++ {
		header.Nonce = tries
		if pow.CheckProofOfWorkWithTarget(header, target) {
			return true, tries, tries
		}
	}
	return false, 0, maxTries
}

func report(name string, params *dagconfig.Params) bool {
	ok := true

	merkleOK := validateMerkleRoot(params.GenesisBlock)
	if !merkleOK {
		fmt.Printf("%s: FAIL hash-merkle-root mismatch\n", name)
		ok = false
	}

	fmt.Printf("%s: hash=%s bits=0x%08x nonce=%d timestamp=%d\n",
		name, params.GenesisHash, params.GenesisBlock.Header.Bits,
		params.GenesisBlock.Header.Nonce, params.GenesisBlock.Header.TimeInMilliseconds)

	if params.GenesisBlock.Header.Nonce == 0 {
		found, nonce, tries := solve(params)
		if !found {
			fmt.Printf("%s: FAIL no valid nonce found in %d tries at bits 0x%08x\n", name, tries, params.GenesisBlock.Header.Bits)
			ok = false
		} else if nonce != 0 {
			fmt.Printf("%s: stored nonce 0 does not satisfy its own bits; first valid nonce found at %d\n", name, nonce)
		}
	} else if !pow.CheckProofOfWorkWithTarget(params.GenesisBlock.Header, pow.FromBits(params.GenesisBlock.Header.Bits)) {
		fmt.Printf("%s: FAIL stored nonce %d does not satisfy bits 0x%08x\n", name, params.GenesisBlock.Header.Nonce, params.GenesisBlock.Header.Bits)
		ok = false
	}

	return ok
}

func main() {
	flag.Parse()

	allOK := true
	for name, params := range map[string]*dagconfig.Params{
		"mainnet": &dagconfig.MainnetParams,
		"testnet": &dagconfig.TestnetParams,
		"devnet":  &dagconfig.DevnetParams,
		"simnet":  &dagconfig.SimnetParams,
	} {
		if !report(name, params) {
			allOK = false
		}
	}

	if !allOK {
		os.Exit(1)
	}
}
