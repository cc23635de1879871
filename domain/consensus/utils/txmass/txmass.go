// Package txmass implements MassCalculator (spec §4.8): non-contextual
// compute/transient mass and the contextual KIP-0009 storage mass formula.
// Grounded in shape on the teacher's sizing helpers
// (transaction_estimated_serialized_size in
// consensusserialization.EstimatedSerializedSize) and on spec §4.8's
// explicit piecewise formula, which this package implements as a small
// state machine keyed on (|outputs|, |inputs|) per the re-architecture note
// of spec §9.
package txmass

import (
	"math"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
	"github.com/jio-labs/jiod/domain/consensus/utils/consensusserialization"
)

// Calculator computes transaction mass under the parameters of a single
// network (mass-per-byte factors are constants today, but kept as fields so
// a future network fork can override them without touching call sites).
type Calculator struct {
	massPerTxByte           uint64
	massPerScriptPubKeyByte uint64
	massPerSigOp            uint64
	transientByteToMass     uint64
}

// New constructs a Calculator using the network's mass parameters.
func New() *Calculator {
	return &Calculator{
		massPerTxByte:           constants.MassPerTxByte,
		massPerScriptPubKeyByte: constants.MassPerScriptPubKeyByte,
		massPerSigOp:            constants.MassPerSigOp,
		transientByteToMass:     constants.TransientByteToMassFactor,
	}
}

// ComputeMass returns tx's non-contextual compute mass (spec §4.8):
// size·mass_per_tx_byte + Σ(2+|script|)·mass_per_script_pub_key_byte +
// Σ sig_op_count·mass_per_sig_op. Coinbase transactions have zero mass.
func (c *Calculator) ComputeMass(tx *externalapi.DomainTransaction) uint64 {
	if tx.IsCoinbase() {
		return 0
	}

	size := consensusserialization.EstimatedSerializedSize(tx)
	mass := size * c.massPerTxByte

	for _, output := range tx.Outputs {
		scriptLen := uint64(0)
		if output.ScriptPublicKey != nil {
			scriptLen = uint64(len(output.ScriptPublicKey.Script))
		}
		mass += (2 + scriptLen) * c.massPerScriptPubKeyByte
	}

	for _, input := range tx.Inputs {
		mass += uint64(input.SigOpCount) * c.massPerSigOp
	}

	return mass
}

// TransientMass returns tx's transient mass: size *
// TRANSIENT_BYTE_TO_MASS_FACTOR. Coinbase transactions have zero mass.
func (c *Calculator) TransientMass(tx *externalapi.DomainTransaction) uint64 {
	if tx.IsCoinbase() {
		return 0
	}
	return consensusserialization.EstimatedSerializedSize(tx) * c.transientByteToMass
}

// plurality is the number of UTXO_UNIT-byte storage units an output (or an
// input's underlying UTXO) occupies, per KIP-0009.
func plurality(scriptLen int) float64 {
	return math.Ceil(float64(constants.UTXOConstStorage+scriptLen) / float64(constants.UTXOUnit))
}

// StorageMass computes the KIP-0009 contextual storage mass of tx given the
// UTXOEntry each input spends (spec §4.8). It returns (mass, true) on
// success, or (0, false) if any intermediate computation overflows — the
// caller must then treat the mass as unbounded.
func (c *Calculator) StorageMass(tx *externalapi.DomainTransaction, inputEntries []*externalapi.UTXOEntry) (uint64, bool) {
	if tx.IsCoinbase() {
		return 0, true
	}

	outputPluralities := make([]float64, len(tx.Outputs))
	sumOutputPlurality := 0.0
	hOut := 0.0
	for i, output := range tx.Outputs {
		scriptLen := 0
		if output.ScriptPublicKey != nil {
			scriptLen = len(output.ScriptPublicKey.Script)
		}
		p := plurality(scriptLen)
		outputPluralities[i] = p
		sumOutputPlurality += p
		if output.Value == 0 {
			return 0, false
		}
		hOut += float64(constants.UTXOConstStorage) * p * p / float64(output.Value)
	}
	if math.IsInf(hOut, 1) || math.IsNaN(hOut) {
		return 0, false
	}

	inputPluralities := make([]float64, len(inputEntries))
	sumInputPlurality := 0.0
	sumInputAmount := uint64(0)
	for i, entry := range inputEntries {
		scriptLen := 0
		if entry.ScriptPublicKey != nil {
			scriptLen = len(entry.ScriptPublicKey.Script)
		}
		p := plurality(scriptLen)
		inputPluralities[i] = p
		sumInputPlurality += p
		sumInputAmount += entry.Amount
	}

	numOutputs := len(tx.Outputs)
	numInputs := len(inputEntries)

	useRelaxedPath := sumOutputPlurality == 1 || sumInputPlurality == 1 ||
		(numOutputs == 2 && numInputs == 2 && sumOutputPlurality == 2 && sumInputPlurality == 2)

	var subtrahend float64
	if useRelaxedPath {
		hIn := 0.0
		for i, entry := range inputEntries {
			if entry.Amount == 0 {
				return 0, false
			}
			hIn += float64(constants.UTXOConstStorage) * inputPluralities[i] * inputPluralities[i] / float64(entry.Amount)
		}
		subtrahend = hIn
	} else {
		if sumInputPlurality == 0 || sumInputAmount == 0 {
			return 0, false
		}
		meanIn := float64(sumInputAmount) / sumInputPlurality
		subtrahend = sumInputPlurality * (float64(constants.UTXOConstStorage) / meanIn)
	}

	storageMass := hOut - subtrahend
	if storageMass < 0 {
		storageMass = 0
	}
	if storageMass > float64(math.MaxUint64) {
		return 0, false
	}

	return uint64(storageMass), true
}
