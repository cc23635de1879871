// Package dagconfig defines the network parameter sets a jiod node can run
// against, following the teacher's dagconfig.Params/Register idiom:
// a Params value per network, default networks registered at init, and a
// Register entry point for custom test networks a main package can add.
package dagconfig

import (
	"errors"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
)

// NetworkID identifies one of the networks a node can run against.
type NetworkID byte

// The default networks.
const (
	Mainnet NetworkID = iota
	Testnet
	Devnet
	Simnet
)

// String implements fmt.Stringer.
func (n NetworkID) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Devnet:
		return "devnet"
	case Simnet:
		return "simnet"
	default:
		return "unknown"
	}
}

// Params defines a jiod network by the consensus parameters spec §6 leaves
// network-tunable (K, target block time, maturity, the genesis block
// itself) plus the ambient deployment details (ports, data directory
// suffix) the teacher's Params carries alongside them.
type Params struct {
	Network                               NetworkID
	Name                                  string
	DefaultP2PPort                        string
	DefaultRPCPort                        string

	GenesisBlock *externalapi.DomainBlock
	GenesisHash  *externalapi.DomainHash

	GHOSTDAGK                             uint32
	MaxBlockParents                       uint32
	TargetBlockTimeMilliseconds           int64
	DifficultyAdjustmentWindowSize        uint64
	MaxTimestampFutureOffsetMilliseconds  int64
	CoinbaseMaturity                      uint64
	SubsidyReductionInterval              uint64
	InitialSubsidy                        uint64
	PowLimitBits                          uint32
}

// MainnetParams defines the main jiod network.
var MainnetParams = Params{
	Network:                                    Mainnet,
	Name:                                 "mainnet",
	DefaultP2PPort:                       "8311",
	DefaultRPCPort:                       "8312",
	GenesisBlock:                         genesisBlock,
	GenesisHash:                          genesisHash,
	GHOSTDAGK:                            constants.GHOSTDAGK,
	MaxBlockParents:                      constants.MaxBlockParents,
	TargetBlockTimeMilliseconds:          constants.TargetBlockTimeMilliseconds,
	DifficultyAdjustmentWindowSize:       constants.DifficultyAdjustmentWindowSize,
	MaxTimestampFutureOffsetMilliseconds: constants.MaxTimestampFutureOffsetMilliseconds,
	CoinbaseMaturity:                     constants.CoinbaseMaturity,
	SubsidyReductionInterval:             constants.SubsidyHalvingInterval,
	InitialSubsidy:                       constants.InitialSubsidy,
	PowLimitBits:                         0x1f00ffff,
}

// TestnetParams defines the public test network: identical consensus
// constants to mainnet except a shorter coinbase maturity, so test
// deployments don't need to wait out the mainnet maturity window to chain
// spends.
var TestnetParams = Params{
	Network:                                    Testnet,
	Name:                                 "testnet",
	DefaultP2PPort:                       "18311",
	DefaultRPCPort:                       "18312",
	GenesisBlock:                         testnetGenesisBlock,
	GenesisHash:                          testnetGenesisHash,
	GHOSTDAGK:                            constants.GHOSTDAGK,
	MaxBlockParents:                      constants.MaxBlockParents,
	TargetBlockTimeMilliseconds:          constants.TargetBlockTimeMilliseconds,
	DifficultyAdjustmentWindowSize:       constants.DifficultyAdjustmentWindowSize,
	MaxTimestampFutureOffsetMilliseconds: constants.MaxTimestampFutureOffsetMilliseconds,
	CoinbaseMaturity:                     10,
	SubsidyReductionInterval:             constants.SubsidyHalvingInterval,
	InitialSubsidy:                       constants.InitialSubsidy,
	PowLimitBits:                         0x1f00ffff,
}

// DevnetParams defines the development network: a much smaller difficulty
// window and K so a single node can produce a meaningful DAG quickly.
var DevnetParams = Params{
	Network:                                    Devnet,
	Name:                                 "devnet",
	DefaultP2PPort:                       "18411",
	DefaultRPCPort:                       "18412",
	GenesisBlock:                         devnetGenesisBlock,
	GenesisHash:                          devnetGenesisHash,
	GHOSTDAGK:                            8,
	MaxBlockParents:                      constants.MaxBlockParents,
	TargetBlockTimeMilliseconds:          constants.TargetBlockTimeMilliseconds,
	DifficultyAdjustmentWindowSize:       264,
	MaxTimestampFutureOffsetMilliseconds: constants.MaxTimestampFutureOffsetMilliseconds,
	CoinbaseMaturity:                     10,
	SubsidyReductionInterval:             constants.SubsidyHalvingInterval,
	InitialSubsidy:                       constants.InitialSubsidy,
	PowLimitBits:                         0x1e7fffff,
}

// SimnetParams defines the simulation network used by integration tests
// that need deterministic, fast block production with no real proof of
// work: K and the difficulty window are trimmed to the smallest values
// that still exercise the mergeset/coloring logic meaningfully.
var SimnetParams = Params{
	Network:                                    Simnet,
	Name:                                 "simnet",
	DefaultP2PPort:                       "18511",
	DefaultRPCPort:                       "18512",
	GenesisBlock:                         simnetGenesisBlock,
	GenesisHash:                          simnetGenesisHash,
	GHOSTDAGK:                            3,
	MaxBlockParents:                      constants.MaxBlockParents,
	TargetBlockTimeMilliseconds:          constants.TargetBlockTimeMilliseconds,
	DifficultyAdjustmentWindowSize:       30,
	MaxTimestampFutureOffsetMilliseconds: constants.MaxTimestampFutureOffsetMilliseconds,
	CoinbaseMaturity:                     1,
	SubsidyReductionInterval:             constants.SubsidyHalvingInterval,
	InitialSubsidy:                       constants.InitialSubsidy,
	PowLimitBits:                         0x207fffff,
}

// ErrDuplicateNetwork is returned by Register when the network's Network ID
// is already registered.
var ErrDuplicateNetwork = errors.New("duplicate network parameters")

var registeredNetworks = make(map[NetworkID]struct{})

// Register records params as a valid network, failing with
// ErrDuplicateNetwork if its Network has already been registered. Library code
// should look up networks only through this registry rather than assuming
// the four defaults are exhaustive, exactly as the teacher's dagconfig
// package documents.
func Register(params *Params) error {
	if _, ok := registeredNetworks[params.Network]; ok {
		return ErrDuplicateNetwork
	}
	registeredNetworks[params.Network] = struct{}{}
	return nil
}

func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

func init() {
	mustRegister(&MainnetParams)
	mustRegister(&TestnetParams)
	mustRegister(&DevnetParams)
	mustRegister(&SimnetParams)
}
