package externalapi

// UTXOEntry houses the details the ledger needs about an individual unspent
// transaction output: whether it was created by a coinbase transaction, the
// DAA score of the block that accepted it (used for coinbase maturity), its
// locking script, and its amount.
type UTXOEntry struct {
	Amount          uint64
	ScriptPublicKey *ScriptPublicKey
	BlockDAAScore   uint64
	IsCoinbase      bool
}

// NewUTXOEntry constructs a UTXOEntry.
func NewUTXOEntry(amount uint64, scriptPublicKey *ScriptPublicKey, isCoinbase bool, blockDAAScore uint64) *UTXOEntry {
	return &UTXOEntry{
		Amount:          amount,
		ScriptPublicKey: scriptPublicKey,
		BlockDAAScore:   blockDAAScore,
		IsCoinbase:      isCoinbase,
	}
}

// Clone returns a deep copy of the entry.
func (entry *UTXOEntry) Clone() *UTXOEntry {
	if entry == nil {
		return nil
	}
	return &UTXOEntry{
		Amount:          entry.Amount,
		ScriptPublicKey: entry.ScriptPublicKey.Clone(),
		BlockDAAScore:   entry.BlockDAAScore,
		IsCoinbase:      entry.IsCoinbase,
	}
}

// IsSpendableAt reports whether the entry can be spent given
// currentDAAScore, applying coinbase maturity when the entry is a coinbase
// output (spec §3, §8).
func (entry *UTXOEntry) IsSpendableAt(currentDAAScore uint64, coinbaseMaturity uint64) bool {
	if !entry.IsCoinbase {
		return true
	}
	return currentDAAScore >= entry.BlockDAAScore+coinbaseMaturity
}
