// Package coinbasemanager implements the subsidy schedule and coinbase
// transaction construction/validation (spec §4.11).
package coinbasemanager

import (
	"encoding/binary"

	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/ruleerrors"
	"github.com/jio-labs/jiod/domain/consensus/utils/subnetworks"
	"github.com/pkg/errors"
)

const maxHalvingShift = 63

type coinbaseManager struct {
	subsidyReductionInterval uint64
	initialSubsidy           uint64
}

// New instantiates a CoinbaseManager with the given halving interval and
// initial subsidy (spec §6: HALVING_INTERVAL, INITIAL_SUBSIDY).
func New(subsidyReductionInterval, initialSubsidy uint64) model.CoinbaseManager {
	return &coinbaseManager{
		subsidyReductionInterval: subsidyReductionInterval,
		initialSubsidy:           initialSubsidy,
	}
}

// Subsidy returns INITIAL_SUBSIDY >> min(63, height/HALVING_INTERVAL) (spec
// §4.11).
func (c *coinbaseManager) Subsidy(height uint64) uint64 {
	if c.subsidyReductionInterval == 0 {
		return c.initialSubsidy
	}
	shift := height / c.subsidyReductionInterval
	if shift > maxHalvingShift {
		shift = maxHalvingShift
	}
	return c.initialSubsidy >> shift
}

// Reward returns Subsidy(height) + fees.
func (c *coinbaseManager) Reward(height uint64, fees uint64) uint64 {
	return c.Subsidy(height) + fees
}

// ExpectedCoinbaseTransaction builds the coinbase transaction a block at
// the given height with the given accumulated fees must carry (spec
// §4.11).
func (c *coinbaseManager) ExpectedCoinbaseTransaction(height uint64, fees uint64, minerScriptPublicKey *externalapi.ScriptPublicKey) (*externalapi.DomainTransaction, error) {
	reward := c.Reward(height, fees)

	payload := make([]byte, 8)
	binary.LittleEndian.PutUint64(payload, height)

	return &externalapi.DomainTransaction{
		Version: 1,
		Inputs:  []*externalapi.DomainTransactionInput{},
		Outputs: []*externalapi.DomainTransactionOutput{
			{
				Value:           reward,
				ScriptPublicKey: minerScriptPublicKey,
			},
		},
		LockTime:     0,
		SubnetworkID: subnetworks.SubnetworkIDCoinbase,
		Gas:          0,
		Payload:      payload,
	}, nil
}

// ValidateCoinbase checks that tx is a well-formed coinbase transaction
// paying exactly expectedReward (spec §4.11).
func (c *coinbaseManager) ValidateCoinbase(tx *externalapi.DomainTransaction, expectedReward uint64) error {
	if len(tx.Inputs) != 0 {
		return errors.Wrap(ruleerrors.ErrBadCoinbaseTransaction, "coinbase transaction must not have inputs")
	}
	if len(tx.Outputs) != 1 {
		return errors.Wrap(ruleerrors.ErrBadCoinbaseTransaction, "coinbase transaction must have exactly one output")
	}
	if tx.Outputs[0].Value != expectedReward {
		return errors.Wrapf(ruleerrors.ErrBadCoinbaseTransaction,
			"coinbase output value %d does not match expected reward %d", tx.Outputs[0].Value, expectedReward)
	}
	if tx.SubnetworkID != subnetworks.SubnetworkIDCoinbase {
		return errors.Wrap(ruleerrors.ErrBadCoinbaseTransaction, "coinbase transaction has wrong subnetwork id")
	}
	return nil
}
