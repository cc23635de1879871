package externalapi

// DomainBlock is the domain representation of a block: a header plus the
// ordered list of transactions it carries. Transactions[0] is always the
// coinbase (spec §3).
type DomainBlock struct {
	Header       *DomainBlockHeader
	Transactions []*DomainTransaction
}

// Clone returns a deep copy of the block.
func (b *DomainBlock) Clone() *DomainBlock {
	if b == nil {
		return nil
	}
	txs := make([]*DomainTransaction, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = tx.Clone()
	}
	return &DomainBlock{
		Header:       b.Header.Clone(),
		Transactions: txs,
	}
}

// BlockStatus tracks where a block sits in the pipeline (spec §4.10).
type BlockStatus byte

const (
	// StatusInvalid marks a block that failed validation terminally.
	StatusInvalid BlockStatus = iota
	// StatusHeaderOnly marks a block whose header stage has been accepted
	// but whose body has not yet been processed.
	StatusHeaderOnly
	// StatusUTXOValid marks a block whose body has been validated and
	// applied to the UTXO ledger.
	StatusUTXOValid
	// StatusDisqualifiedFromChain marks a block that is structurally valid
	// but can never become part of the selected chain (reserved for future
	// pruning-point violation bookkeeping; unused by the core pipeline).
	StatusDisqualifiedFromChain
)

// String implements fmt.Stringer.
func (s BlockStatus) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusHeaderOnly:
		return "header-only"
	case StatusUTXOValid:
		return "utxo-valid"
	case StatusDisqualifiedFromChain:
		return "disqualified"
	default:
		return "unknown"
	}
}
