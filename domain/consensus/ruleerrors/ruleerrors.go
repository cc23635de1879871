// Package ruleerrors implements the typed error taxonomy of spec §7. Every
// validator returns an error wrapping one of these sentinels via
// github.com/pkg/errors, mirroring the teacher's
// domain/consensus/ruleerrors usage throughout blockvalidator and
// transactionvalidator.
package ruleerrors

import (
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// RuleError is a rejected-block/transaction error carrying a stable kind so
// callers can switch on errors.Is / errors.Cause without parsing messages.
type RuleError struct {
	Kind    RuleErrorKind
	Message string
}

// RuleErrorKind enumerates the taxonomy of spec §7.
type RuleErrorKind int

const (
	// Structural
	KindInvalidBlockVersion RuleErrorKind = iota
	KindInvalidBlockParent
	KindEmptyTransactionList
	KindInvalidCoinbaseTransaction
	KindInvalidTransaction
	KindInvalidScript

	// Consensus
	KindInvalidProofOfWork
	KindInvalidTimestamp
	KindInvalidMerkleRoot
	KindExceedsMaxBlockMass
	KindInvalidDagStructure

	// Ledger
	KindInvalidUTXOReference
	KindDoubleSpend
	KindInsufficientFunds

	// Lifecycle
	KindAlreadyExists

	// Internal
	KindDatabaseError
	KindSerializationError
)

func (e *RuleError) Error() string {
	return e.Message
}

func newRuleError(kind RuleErrorKind, message string) error {
	return &RuleError{Kind: kind, Message: message}
}

// Sentinel errors, one per kind, used as the Cause of wrapped errors
// exactly as the teacher's blockvalidator/transactionvalidator packages use
// ruleerrors.ErrXxx with errors.Wrapf.
var (
	ErrInvalidBlockVersion       = newRuleError(KindInvalidBlockVersion, "invalid block version")
	ErrNoParents                 = newRuleError(KindInvalidBlockParent, "block has no parents")
	ErrTooManyParents            = newRuleError(KindInvalidBlockParent, "block has too many parents")
	ErrDuplicateParents          = newRuleError(KindInvalidBlockParent, "block has duplicate parents")
	ErrUnknownParent             = newRuleError(KindInvalidBlockParent, "block has an unknown parent")
	ErrEmptyTransactionList      = newRuleError(KindEmptyTransactionList, "block has no transactions")
	ErrFirstTxNotCoinbase        = newRuleError(KindInvalidCoinbaseTransaction, "first transaction is not a coinbase")
	ErrMultipleCoinbase          = newRuleError(KindInvalidCoinbaseTransaction, "block has more than one coinbase transaction")
	ErrBadCoinbasePayloadLen     = newRuleError(KindInvalidCoinbaseTransaction, "coinbase payload is too long")
	ErrBadCoinbaseTransaction    = newRuleError(KindInvalidCoinbaseTransaction, "coinbase transaction does not match expected value")
	ErrNoTxInputs                = newRuleError(KindInvalidTransaction, "transaction has no inputs")
	ErrNoTxOutputs               = newRuleError(KindInvalidTransaction, "transaction has no outputs")
	ErrDuplicateTxInputs         = newRuleError(KindInvalidTransaction, "transaction spends the same outpoint more than once")
	ErrBadTxOutValue             = newRuleError(KindInvalidTransaction, "transaction output value is not greater than zero")
	ErrTxTooBig                  = newRuleError(KindInvalidTransaction, "transaction is too large")
	ErrTotalTxOutTooHigh         = newRuleError(KindInvalidTransaction, "transaction total output value exceeds the maximum allowed")
	ErrInvalidTxVersion          = newRuleError(KindInvalidTransaction, "invalid transaction version")
	ErrInvalidScript             = newRuleError(KindInvalidScript, "invalid script")
	ErrInvalidProofOfWork        = newRuleError(KindInvalidProofOfWork, "block has invalid proof of work")
	ErrUnexpectedDifficulty      = newRuleError(KindInvalidProofOfWork, "block difficulty does not match the expected value")
	ErrTimeTooOld                = newRuleError(KindInvalidTimestamp, "block timestamp is not after the median of its parents")
	ErrTimeTooNew                = newRuleError(KindInvalidTimestamp, "block timestamp is too far in the future")
	ErrBadMerkleRoot             = newRuleError(KindInvalidMerkleRoot, "block's computed merkle root does not match the header")
	ErrExceedsMaxBlockMass       = newRuleError(KindExceedsMaxBlockMass, "block exceeds the maximum allowed mass")
	ErrInvalidDagStructure       = newRuleError(KindInvalidDagStructure, "invalid DAG structure")
	ErrMissingTxOut              = newRuleError(KindInvalidUTXOReference, "referenced transaction output does not exist")
	ErrImmatureSpend             = newRuleError(KindInvalidUTXOReference, "attempt to spend an immature coinbase output")
	ErrDoubleSpend               = newRuleError(KindDoubleSpend, "transaction double-spends an outpoint")
	ErrSpendTooHigh              = newRuleError(KindInsufficientFunds, "transaction spends more than its inputs provide")
	ErrAlreadyExists             = newRuleError(KindAlreadyExists, "block already exists")
	ErrDatabase                  = newRuleError(KindDatabaseError, "database error")
	ErrSerialization             = newRuleError(KindSerializationError, "serialization error")
)

// ErrMissingParents is a distinguished structural error that additionally
// carries the set of parent hashes that could not be found, so the pipeline
// can park the block in the orphan pool keyed on them (spec §4.10).
type ErrMissingParents struct {
	MissingParentHashes []*externalapi.DomainHash
}

// NewErrMissingParents constructs the missing-parents error, mirroring the
// teacher's ruleerrors.NewErrMissingParents constructor.
func NewErrMissingParents(missingParentHashes []*externalapi.DomainHash) error {
	return &ErrMissingParents{MissingParentHashes: missingParentHashes}
}

func (e *ErrMissingParents) Error() string {
	return "block has missing parents"
}

// Kind returns the RuleErrorKind of err if it is (or wraps) a *RuleError,
// and false otherwise.
func Kind(err error) (RuleErrorKind, bool) {
	cause := errors.Cause(err)
	ruleErr, ok := cause.(*RuleError)
	if !ok {
		return 0, false
	}
	return ruleErr.Kind, true
}

// Is reports whether err wraps a RuleError of the given kind.
func Is(err error, kind RuleErrorKind) bool {
	k, ok := Kind(err)
	return ok && k == kind
}

// IsMissingParents reports whether err is an ErrMissingParents.
func IsMissingParents(err error) bool {
	_, ok := errors.Cause(err).(*ErrMissingParents)
	return ok
}
