// Package constants holds the normative consensus constants of spec §6.
// Values here are defaults for the main network; dagconfig.Params overrides
// a subset per network the way the teacher's dagconfig package does.
package constants

const (
	// BlockVersion is the only currently defined header version family.
	BlockVersion = 1

	// BlockVersionKHeavyHashV1 selects the KHASHV1 PoW function.
	BlockVersionKHeavyHashV1 = 1

	// BlockVersionKHeavyHashV2 is reserved; validators must reject it until
	// the algorithm is specified (spec §9 Open Questions).
	BlockVersionKHeavyHashV2 = 2

	// GHOSTDAGK is the GHOSTDAG K-cluster size parameter.
	GHOSTDAGK = 18

	// MaxBlockParents bounds the number of direct parents a block may name.
	MaxBlockParents = 10

	// MaxBlockMass bounds the total mass (compute + script + sig-op) of a
	// block's transactions.
	MaxBlockMass = 500_000

	// MaxTransactionSize bounds a transaction's estimated serialized size.
	MaxTransactionSize = 100_000

	// TargetBlockTimeMilliseconds is the DAA's target inter-block time.
	TargetBlockTimeMilliseconds = 1000

	// DifficultyAdjustmentWindowSize is the sliding window length (in
	// blocks) used by the difficulty engine.
	DifficultyAdjustmentWindowSize = 2641

	// MaxTimestampFutureOffsetMilliseconds bounds how far into the future a
	// header's timestamp may claim to be relative to local wall time.
	MaxTimestampFutureOffsetMilliseconds = 2 * 3600 * 1000

	// CoinbaseMaturity is the number of DAA-score units that must elapse
	// before a coinbase output becomes spendable.
	CoinbaseMaturity = 100

	// SubsidyHalvingInterval is the blue-score interval between subsidy
	// halvings.
	SubsidyHalvingInterval = 210_000

	// SompiPerCoin is the number of atomic units ("sompi") in one coin.
	SompiPerCoin = 100_000_000

	// InitialSubsidy is the coinbase subsidy paid before any halving, in
	// sompi.
	InitialSubsidy = 50 * SompiPerCoin

	// MaxSompi is the maximum possible supply, in sompi.
	MaxSompi = 21_000_000 * SompiPerCoin

	// MassPerTxByte is the mass charged per byte of canonical transaction
	// size.
	MassPerTxByte = 1

	// MassPerScriptPubKeyByte is the mass charged per byte of output
	// locking script, plus the fixed overhead of 2 bytes per output
	// accounted for in MassCalculator.ComputeMass.
	MassPerScriptPubKeyByte = 10

	// MassPerSigOp is the mass charged per signature operation referenced
	// by a transaction input.
	MassPerSigOp = 1000

	// TransientByteToMassFactor converts a transaction's serialized size
	// into its transient mass.
	TransientByteToMassFactor = 1

	// UTXOConstStorage is the KIP-0009 fixed per-output storage constant.
	UTXOConstStorage = 63

	// UTXOUnit is the KIP-0009 byte-to-plurality-unit divisor.
	UTXOUnit = 100

	// OrphanMaxAgeMilliseconds bounds how long a block may sit in the
	// orphan pool before it is evicted (spec §5).
	OrphanMaxAgeMilliseconds = 2 * 3600 * 1000

	// MinCompactTargetBits and MaxCompactTargetBits are the compact-bits
	// clamp bounds for the difficulty engine (spec §6).
	MinCompactTargetBits uint32 = 0x00000001
	MaxCompactTargetBits uint32 = 0x207fffff
)
