package externalapi

// DomainSubnetworkID identifies the subnetwork a transaction belongs to.
// The all-zero value is the coinbase subnetwork (spec §6).
const DomainSubnetworkIDSize = 20

// DomainSubnetworkID is a 20-byte subnetwork identifier.
type DomainSubnetworkID [DomainSubnetworkIDSize]byte

// Equal reports whether two subnetwork IDs hold the same value.
func (id *DomainSubnetworkID) Equal(other *DomainSubnetworkID) bool {
	if id == nil || other == nil {
		return id == other
	}
	return *id == *other
}

// DomainOutpoint identifies a transaction output by the ID of the
// transaction that created it and its index within that transaction.
type DomainOutpoint struct {
	TransactionID DomainHash
	Index         uint32
}

// Equal reports outpoint equality.
func (o DomainOutpoint) Equal(other DomainOutpoint) bool {
	return o.TransactionID == other.TransactionID && o.Index == other.Index
}

// DomainTransactionInput is a transaction input: a reference to a previous
// output plus the data needed to satisfy its spending script.
type DomainTransactionInput struct {
	PreviousOutpoint DomainOutpoint
	SignatureScript  []byte
	Sequence         uint64
	SigOpCount       byte

	// UTXOEntry is populated by validators while checking a transaction in
	// context; it is not part of the transaction's canonical encoding or
	// identity.
	UTXOEntry *UTXOEntry
}

// Clone returns a deep copy of the input.
func (in *DomainTransactionInput) Clone() *DomainTransactionInput {
	if in == nil {
		return nil
	}
	sigScript := make([]byte, len(in.SignatureScript))
	copy(sigScript, in.SignatureScript)
	return &DomainTransactionInput{
		PreviousOutpoint: in.PreviousOutpoint,
		SignatureScript:  sigScript,
		Sequence:         in.Sequence,
		SigOpCount:       in.SigOpCount,
		UTXOEntry:        in.UTXOEntry.Clone(),
	}
}

// ScriptPublicKey is a versioned output script, allowing future script
// engine upgrades without changing the transaction encoding.
type ScriptPublicKey struct {
	Script  []byte
	Version uint16
}

// Clone returns a deep copy.
func (spk *ScriptPublicKey) Clone() *ScriptPublicKey {
	if spk == nil {
		return nil
	}
	script := make([]byte, len(spk.Script))
	copy(script, spk.Script)
	return &ScriptPublicKey{Script: script, Version: spk.Version}
}

// DomainTransactionOutput is a transaction output: a value and the script
// that must be satisfied to spend it.
type DomainTransactionOutput struct {
	Value           uint64
	ScriptPublicKey *ScriptPublicKey
}

// Clone returns a deep copy of the output.
func (out *DomainTransactionOutput) Clone() *DomainTransactionOutput {
	if out == nil {
		return nil
	}
	return &DomainTransactionOutput{
		Value:           out.Value,
		ScriptPublicKey: out.ScriptPublicKey.Clone(),
	}
}

// DomainTransaction is the domain representation of a transaction.
type DomainTransaction struct {
	Version      uint16
	Inputs       []*DomainTransactionInput
	Outputs      []*DomainTransactionOutput
	LockTime     uint64
	SubnetworkID DomainSubnetworkID
	Gas          uint64
	Payload      []byte

	// ID caches the transaction's identity hash. It is computed by
	// consensusserialization.TransactionID and is not itself part of the
	// canonical encoding.
	ID *DomainTransactionID
}

// DomainTransactionID is the identity hash of a transaction.
type DomainTransactionID DomainHash

// ToHash reinterprets the ID as a DomainHash.
func (id *DomainTransactionID) ToHash() *DomainHash {
	if id == nil {
		return nil
	}
	return (*DomainHash)(id)
}

// IsCoinbase reports whether tx is a coinbase transaction, defined as
// membership in the coinbase subnetwork (spec §3).
func (tx *DomainTransaction) IsCoinbase() bool {
	return tx.SubnetworkID == SubnetworkIDCoinbase
}

// SubnetworkIDCoinbase is the reserved all-zero coinbase subnetwork ID.
var SubnetworkIDCoinbase = DomainSubnetworkID{}

// Clone returns a deep copy of the transaction, including a copy of the
// cached ID when one is set.
func (tx *DomainTransaction) Clone() *DomainTransaction {
	if tx == nil {
		return nil
	}
	inputs := make([]*DomainTransactionInput, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = in.Clone()
	}
	outputs := make([]*DomainTransactionOutput, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outputs[i] = out.Clone()
	}
	payload := make([]byte, len(tx.Payload))
	copy(payload, tx.Payload)

	var id *DomainTransactionID
	if tx.ID != nil {
		idCopy := *tx.ID
		id = &idCopy
	}

	return &DomainTransaction{
		Version:      tx.Version,
		Inputs:       inputs,
		Outputs:      outputs,
		LockTime:     tx.LockTime,
		SubnetworkID: tx.SubnetworkID,
		Gas:          tx.Gas,
		Payload:      payload,
		ID:           id,
	}
}
