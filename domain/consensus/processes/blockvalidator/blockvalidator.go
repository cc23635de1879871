// Package blockvalidator implements HeaderValidator and BlockValidator
// (spec §4.9).
package blockvalidator

import (
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/ruleerrors"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
	"github.com/jio-labs/jiod/domain/consensus/utils/merkle"
	"github.com/pkg/errors"
)

type blockValidator struct {
	massCalculator       model.MassCalculator
	transactionValidator model.TransactionValidator
}

// New instantiates a BlockValidator (which also satisfies HeaderValidator).
func New(massCalculator model.MassCalculator, transactionValidator model.TransactionValidator) model.BlockValidator {
	return &blockValidator{
		massCalculator:       massCalculator,
		transactionValidator: transactionValidator,
	}
}

// ValidateBlockInIsolation runs HeaderValidator and the structural block
// checks: coinbase at index 0, no other coinbase, every non-coinbase
// transaction structurally valid, merkle root matches, mass within the
// block ceiling (spec §4.9).
func (v *blockValidator) ValidateBlockInIsolation(block *externalapi.DomainBlock, isGenesis bool, nowInMilliseconds int64) error {
	if err := v.ValidateHeaderInIsolation(block.Header, isGenesis, nowInMilliseconds); err != nil {
		return err
	}

	if len(block.Transactions) == 0 {
		return errors.Wrap(ruleerrors.ErrEmptyTransactionList, "block has no transactions")
	}
	if !block.Transactions[0].IsCoinbase() {
		return errors.Wrap(ruleerrors.ErrFirstTxNotCoinbase, "first transaction is not a coinbase transaction")
	}
	for _, tx := range block.Transactions[1:] {
		if tx.IsCoinbase() {
			return errors.Wrap(ruleerrors.ErrMultipleCoinbase, "block contains more than one coinbase transaction")
		}
		if err := v.transactionValidator.ValidateTransactionInIsolation(tx); err != nil {
			return err
		}
	}

	leaves := make([]*externalapi.DomainHash, len(block.Transactions))
	for i, tx := range block.Transactions {
		leaves[i] = tx.ID.ToHash()
	}
	computedRoot := merkle.CalculateHashMerkleRoot(leaves)
	if !computedRoot.Equal(block.Header.HashMerkleRoot) {
		return errors.Wrapf(ruleerrors.ErrBadMerkleRoot,
			"block hash merkle root %s does not match computed root %s", block.Header.HashMerkleRoot, computedRoot)
	}

	totalMass := uint64(0)
	for _, tx := range block.Transactions {
		totalMass += v.massCalculator.ComputeMass(tx)
	}
	if totalMass > constants.MaxBlockMass {
		return errors.Wrapf(ruleerrors.ErrExceedsMaxBlockMass, "block mass %d exceeds maximum of %d", totalMass, constants.MaxBlockMass)
	}

	return nil
}

// ValidateBlockInContext composes BlockValidator and TransactionValidator
// against a UTXOView snapshot, returning total fees (spec §4.9
// ContextualValidator). It also enforces the KIP-0009 storage-mass gate:
// each transaction's effective mass is max(compute mass, storage mass),
// since storage mass only becomes computable once inputs resolve against
// view, and the sum of effective masses must still fit the block's mass
// ceiling (ValidateBlockInIsolation's isolated pass can only ever see
// compute mass).
func (v *blockValidator) ValidateBlockInContext(block *externalapi.DomainBlock, view model.UTXOView, currentDAAScore uint64) (uint64, error) {
	var totalFees uint64
	var totalEffectiveMass uint64
	for _, tx := range block.Transactions[1:] {
		fee, err := v.transactionValidator.ValidateTransactionInContext(tx, view, currentDAAScore)
		if err != nil {
			return 0, err
		}
		totalFees += fee

		effectiveMass, err := v.effectiveMass(tx, view)
		if err != nil {
			return 0, err
		}
		totalEffectiveMass += effectiveMass
	}

	totalEffectiveMass += v.massCalculator.ComputeMass(block.Transactions[0])
	if totalEffectiveMass > constants.MaxBlockMass {
		return 0, errors.Wrapf(ruleerrors.ErrExceedsMaxBlockMass,
			"block effective mass %d exceeds maximum of %d", totalEffectiveMass, constants.MaxBlockMass)
	}

	return totalFees, nil
}

// effectiveMass resolves tx's inputs against view and returns
// max(ComputeMass, StorageMass) per KIP-0009. A storage-mass overflow is
// treated as exceeding any ceiling, mirroring StorageMass's own
// unbounded-on-overflow contract.
func (v *blockValidator) effectiveMass(tx *externalapi.DomainTransaction, view model.UTXOView) (uint64, error) {
	computeMass := v.massCalculator.ComputeMass(tx)

	inputEntries := make([]*externalapi.UTXOEntry, len(tx.Inputs))
	for i, input := range tx.Inputs {
		entry, exists, err := view.Get(&input.PreviousOutpoint)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, errors.Wrapf(ruleerrors.ErrMissingTxOut, "output %s does not exist in the UTXO set", input.PreviousOutpoint.TransactionID)
		}
		inputEntries[i] = entry
	}

	storageMass, ok := v.massCalculator.StorageMass(tx, inputEntries)
	if !ok {
		return 0, errors.Wrapf(ruleerrors.ErrExceedsMaxBlockMass, "storage mass of transaction %s overflows", tx.ID)
	}
	if storageMass > computeMass {
		return storageMass, nil
	}
	return computeMass, nil
}
