package txmass_test

import (
	"testing"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/subnetworks"
	"github.com/jio-labs/jiod/domain/consensus/utils/txmass"
)

func coinbase() *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Version:      1,
		Inputs:       []*externalapi.DomainTransactionInput{},
		Outputs:      []*externalapi.DomainTransactionOutput{{Value: 100, ScriptPublicKey: &externalapi.ScriptPublicKey{}}},
		SubnetworkID: subnetworks.SubnetworkIDCoinbase,
	}
}

func simpleTx(outputValue uint64, scriptLen int) *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Version: 1,
		Inputs: []*externalapi.DomainTransactionInput{
			{PreviousOutpoint: externalapi.DomainOutpoint{Index: 0}, SigOpCount: 1},
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			{Value: outputValue, ScriptPublicKey: &externalapi.ScriptPublicKey{Script: make([]byte, scriptLen)}},
		},
		SubnetworkID: subnetworks.SubnetworkIDNative,
	}
}

func TestComputeMassCoinbaseIsZero(t *testing.T) {
	c := txmass.New()
	if mass := c.ComputeMass(coinbase()); mass != 0 {
		t.Fatalf("ComputeMass(coinbase): got %d, want 0", mass)
	}
}

func TestComputeMassNonCoinbaseIsPositive(t *testing.T) {
	c := txmass.New()
	tx := simpleTx(1000, 25)
	mass := c.ComputeMass(tx)
	if mass == 0 {
		t.Fatalf("ComputeMass: expected a positive mass for a non-coinbase transaction")
	}

	withBiggerScript := simpleTx(1000, 250)
	if biggerMass := c.ComputeMass(withBiggerScript); biggerMass <= mass {
		t.Fatalf("ComputeMass: expected mass to grow with output script length, got %d then %d", mass, biggerMass)
	}
}

func TestTransientMassCoinbaseIsZero(t *testing.T) {
	c := txmass.New()
	if mass := c.TransientMass(coinbase()); mass != 0 {
		t.Fatalf("TransientMass(coinbase): got %d, want 0", mass)
	}
}

func TestTransientMassScalesWithSize(t *testing.T) {
	c := txmass.New()
	small := c.TransientMass(simpleTx(1000, 1))
	large := c.TransientMass(simpleTx(1000, 100))
	if large <= small {
		t.Fatalf("TransientMass: expected mass to grow with serialized size, got %d then %d", small, large)
	}
}

func TestStorageMassCoinbaseIsZero(t *testing.T) {
	c := txmass.New()
	mass, ok := c.StorageMass(coinbase(), nil)
	if !ok {
		t.Fatalf("StorageMass(coinbase): expected ok=true")
	}
	if mass != 0 {
		t.Fatalf("StorageMass(coinbase): got %d, want 0", mass)
	}
}

// TestStorageMassRelaxedPathSingleInputOutput exercises KIP-0009's relaxed
// path (ΣI=1, a single input and output of equal size), where storage mass
// reduces to max(0, H_out - H_in) and a balanced-value transaction should
// land at (or very near) zero.
func TestStorageMassRelaxedPathSingleInputOutput(t *testing.T) {
	c := txmass.New()
	tx := simpleTx(10_000, 25)
	inputEntries := []*externalapi.UTXOEntry{
		{Amount: 10_000, ScriptPublicKey: &externalapi.ScriptPublicKey{Script: make([]byte, 25)}},
	}

	mass, ok := c.StorageMass(tx, inputEntries)
	if !ok {
		t.Fatalf("StorageMass: expected ok=true for a balanced single-input/output transaction")
	}
	if mass != 0 {
		t.Fatalf("StorageMass: expected ~0 for an equal-value single-input/output transaction, got %d", mass)
	}
}

// TestStorageMassPenalizesManyTinyOutputs exercises the relaxed path (ΣI=1):
// a single input fanning out to many small outputs should accrue positive
// storage mass (this is exactly the UTXO-bloat pattern KIP-0009 taxes).
func TestStorageMassPenalizesManyTinyOutputs(t *testing.T) {
	c := txmass.New()
	tx := &externalapi.DomainTransaction{
		Version: 1,
		Inputs: []*externalapi.DomainTransactionInput{
			{PreviousOutpoint: externalapi.DomainOutpoint{Index: 0}, SigOpCount: 1},
		},
		Outputs:      make([]*externalapi.DomainTransactionOutput, 20),
		SubnetworkID: subnetworks.SubnetworkIDNative,
	}
	for i := range tx.Outputs {
		tx.Outputs[i] = &externalapi.DomainTransactionOutput{Value: 10, ScriptPublicKey: &externalapi.ScriptPublicKey{}}
	}
	inputEntries := []*externalapi.UTXOEntry{
		{Amount: 200, ScriptPublicKey: &externalapi.ScriptPublicKey{}},
	}

	mass, ok := c.StorageMass(tx, inputEntries)
	if !ok {
		t.Fatalf("StorageMass: expected ok=true")
	}
	if mass == 0 {
		t.Fatalf("StorageMass: expected positive storage mass for a many-tiny-output fan-out transaction")
	}
}

func TestStorageMassOverflowsOnZeroValueOutput(t *testing.T) {
	c := txmass.New()
	tx := simpleTx(0, 25)
	inputEntries := []*externalapi.UTXOEntry{
		{Amount: 10_000, ScriptPublicKey: &externalapi.ScriptPublicKey{Script: make([]byte, 25)}},
	}

	if _, ok := c.StorageMass(tx, inputEntries); ok {
		t.Fatalf("StorageMass: expected ok=false for a zero-value output (division by zero in H_out)")
	}
}
