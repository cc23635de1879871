// Package transactionvalidator implements TransactionValidator (spec
// §4.9): structural checks in isolation, and UTXO-contextual checks
// (resolvability, coinbase maturity, conservation, fee) against a
// UTXOView.
package transactionvalidator

import (
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/ruleerrors"
	"github.com/jio-labs/jiod/domain/consensus/utils/consensusserialization"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
	"github.com/pkg/errors"
)

type transactionValidator struct {
	coinbaseMaturity uint64
}

// New instantiates a TransactionValidator.
func New(coinbaseMaturity uint64) model.TransactionValidator {
	return &transactionValidator{coinbaseMaturity: coinbaseMaturity}
}

// ValidateTransactionInIsolation implements the structural checks of spec
// §3 / §4.9 that require no UTXO state.
func (v *transactionValidator) ValidateTransactionInIsolation(tx *externalapi.DomainTransaction) error {
	if tx.Version < 1 {
		return errors.Wrapf(ruleerrors.ErrInvalidTxVersion, "transaction version %d is below the minimum of 1", tx.Version)
	}

	isCoinbase := tx.IsCoinbase()
	if isCoinbase {
		if len(tx.Inputs) != 0 {
			return errors.Wrap(ruleerrors.ErrBadCoinbaseTransaction, "coinbase transaction must not have inputs")
		}
	} else if len(tx.Inputs) == 0 {
		return errors.Wrap(ruleerrors.ErrNoTxInputs, "non-coinbase transaction must have at least one input")
	}
	if len(tx.Outputs) == 0 {
		return errors.Wrap(ruleerrors.ErrNoTxOutputs, "transaction must have at least one output")
	}

	seen := make(map[externalapi.DomainOutpoint]struct{}, len(tx.Inputs))
	for _, input := range tx.Inputs {
		if _, ok := seen[input.PreviousOutpoint]; ok {
			return errors.Wrapf(ruleerrors.ErrDuplicateTxInputs, "duplicate outpoint %s in transaction inputs", input.PreviousOutpoint.TransactionID)
		}
		seen[input.PreviousOutpoint] = struct{}{}
	}

	var totalOut uint64
	for _, output := range tx.Outputs {
		if output.Value == 0 {
			return errors.Wrap(ruleerrors.ErrBadTxOutValue, "transaction output value must be greater than zero")
		}
		if output.Value > constants.MaxSompi-totalOut {
			return errors.Wrapf(ruleerrors.ErrTotalTxOutTooHigh, "transaction output total exceeds maximum supply of %d", constants.MaxSompi)
		}
		totalOut += output.Value
	}

	size := consensusserialization.EstimatedSerializedSize(tx)
	if size > constants.MaxTransactionSize {
		return errors.Wrapf(ruleerrors.ErrTxTooBig, "transaction size %d exceeds maximum of %d", size, constants.MaxTransactionSize)
	}

	return nil
}

// ValidateTransactionInContext resolves every input against view, checks
// coinbase maturity, and verifies Σ inputs ≥ Σ outputs, returning the fee
// (spec §4.9).
func (v *transactionValidator) ValidateTransactionInContext(tx *externalapi.DomainTransaction, view model.UTXOView, currentDAAScore uint64) (uint64, error) {
	if tx.IsCoinbase() {
		return 0, nil
	}

	var totalIn uint64
	for _, input := range tx.Inputs {
		entry, exists, err := view.Get(&input.PreviousOutpoint)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, errors.Wrapf(ruleerrors.ErrMissingTxOut, "output %s does not exist in the UTXO set", input.PreviousOutpoint.TransactionID)
		}
		if !entry.IsSpendableAt(currentDAAScore, v.coinbaseMaturity) {
			return 0, errors.Wrapf(ruleerrors.ErrImmatureSpend,
				"output %s is an immature coinbase output (current DAA score %d, needs %d)",
				input.PreviousOutpoint.TransactionID, currentDAAScore, entry.BlockDAAScore+v.coinbaseMaturity)
		}
		totalIn += entry.Amount
	}

	var totalOut uint64
	for _, output := range tx.Outputs {
		totalOut += output.Value
	}

	if totalIn < totalOut {
		return 0, errors.Wrapf(ruleerrors.ErrSpendTooHigh, "transaction spends %d but only %d is available", totalOut, totalIn)
	}

	return totalIn - totalOut, nil
}
