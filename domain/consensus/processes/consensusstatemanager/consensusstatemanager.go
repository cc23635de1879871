// Package consensusstatemanager implements the live UTXO ledger (spec
// §4.7): apply_transaction, apply_block with diff-unwind atomicity, and
// revert.
package consensusstatemanager

import (
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

type consensusStateManager struct {
	databaseContext  model.DBReader
	databaseWriter   model.DBWriter
	utxoSetStore     model.UTXOSetStore
	coinbaseMaturity uint64
}

// New instantiates a ConsensusStateManager over the given UTXOSetStore.
func New(databaseContext model.DBReader, databaseWriter model.DBWriter, utxoSetStore model.UTXOSetStore, coinbaseMaturity uint64) model.ConsensusStateManager {
	return &consensusStateManager{
		databaseContext:  databaseContext,
		databaseWriter:   databaseWriter,
		utxoSetStore:     utxoSetStore,
		coinbaseMaturity: coinbaseMaturity,
	}
}

// Get implements model.UTXOView.
func (c *consensusStateManager) Get(outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, bool, error) {
	has, err := c.utxoSetStore.Has(c.databaseContext, outpoint)
	if err != nil {
		return nil, false, err
	}
	if !has {
		return nil, false, nil
	}
	entry, err := c.utxoSetStore.Get(c.databaseContext, outpoint)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// IsSpendable implements model.UTXOView.
func (c *consensusStateManager) IsSpendable(outpoint *externalapi.DomainOutpoint, currentDAAScore uint64) (bool, error) {
	entry, exists, err := c.Get(outpoint)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	return entry.IsSpendableAt(currentDAAScore, c.coinbaseMaturity), nil
}

// ApplyTransaction implements spec §4.7 apply_transaction: atomically
// removes spent entries and inserts created ones, returning the diff. On
// failure any already-removed entries are restored before the error is
// returned.
func (c *consensusStateManager) ApplyTransaction(tx *externalapi.DomainTransaction, currentDAAScore, blockDAAScore uint64) (*model.UTXODiff, error) {
	diff := model.NewUTXODiff()

	if !tx.IsCoinbase() {
		seen := make(map[externalapi.DomainOutpoint]struct{}, len(tx.Inputs))
		for _, input := range tx.Inputs {
			outpoint := input.PreviousOutpoint
			if _, ok := seen[outpoint]; ok {
				c.restoreSpent(diff)
				return nil, errors.Wrapf(ruleerrors.ErrDoubleSpend, "duplicate outpoint %s within transaction", outpoint.TransactionID)
			}
			seen[outpoint] = struct{}{}

			entry, exists, err := c.Get(&outpoint)
			if err != nil {
				c.restoreSpent(diff)
				return nil, err
			}
			if !exists {
				c.restoreSpent(diff)
				return nil, errors.Wrapf(ruleerrors.ErrMissingTxOut, "outpoint %s does not exist", outpoint.TransactionID)
			}
			if entry.IsCoinbase && currentDAAScore < entry.BlockDAAScore+c.coinbaseMaturity {
				c.restoreSpent(diff)
				return nil, errors.Wrapf(ruleerrors.ErrImmatureSpend,
					"attempt to spend coinbase output %s before maturity (current %d, require %d)",
					outpoint.TransactionID, currentDAAScore, entry.BlockDAAScore+c.coinbaseMaturity)
			}

			if err := c.utxoSetStore.Delete(c.databaseWriter, &outpoint); err != nil {
				c.restoreSpent(diff)
				return nil, err
			}
			diff.Spent[outpoint] = entry
		}
	}

	txID := externalapi.DomainHash(*tx.ID)
	for i, output := range tx.Outputs {
		outpoint := externalapi.DomainOutpoint{TransactionID: txID, Index: uint32(i)}
		entry := externalapi.NewUTXOEntry(output.Value, output.ScriptPublicKey, tx.IsCoinbase(), blockDAAScore)
		if err := c.utxoSetStore.Stage(c.databaseWriter, &outpoint, entry); err != nil {
			_ = c.Revert(diff)
			return nil, err
		}
		diff.Created[outpoint] = entry
	}

	return diff, nil
}

// restoreSpent reinserts every entry already removed in the current
// apply_transaction attempt, matching spec §4.7's "restore any
// already-removed entries" failure clause.
func (c *consensusStateManager) restoreSpent(diff *model.UTXODiff) {
	for outpoint, entry := range diff.Spent {
		op := outpoint
		_ = c.utxoSetStore.Stage(c.databaseWriter, &op, entry)
	}
}

// ApplyBlock implements spec §4.7 apply_block: applies transactions in
// order, unwinding already-applied diffs in reverse on the first failure.
func (c *consensusStateManager) ApplyBlock(txs []*externalapi.DomainTransaction, currentDAAScore, blockDAAScore uint64) ([]*model.UTXODiff, error) {
	diffs := make([]*model.UTXODiff, 0, len(txs))

	for _, tx := range txs {
		diff, err := c.ApplyTransaction(tx, currentDAAScore, blockDAAScore)
		if err != nil {
			for i := len(diffs) - 1; i >= 0; i-- {
				if revertErr := c.Revert(diffs[i]); revertErr != nil {
					return nil, errors.Wrapf(ruleerrors.ErrDatabase, "failed to unwind block application after %s: %s", err, revertErr)
				}
			}
			return nil, err
		}
		diffs = append(diffs, diff)
	}

	return diffs, nil
}

// Revert implements spec §4.7 revert: remove all diff.created, reinsert
// all diff.spent.
func (c *consensusStateManager) Revert(diff *model.UTXODiff) error {
	for outpoint := range diff.Created {
		op := outpoint
		if err := c.utxoSetStore.Delete(c.databaseWriter, &op); err != nil {
			return err
		}
	}
	for outpoint, entry := range diff.Spent {
		op := outpoint
		if err := c.utxoSetStore.Stage(c.databaseWriter, &op, entry); err != nil {
			return err
		}
	}
	return nil
}
