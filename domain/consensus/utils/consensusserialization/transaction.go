package consensusserialization

import (
	"io"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// serializeTransaction writes the canonical layout of spec §6:
//
//	version:u16 ‖ input_count:u64 ‖ inputs... ‖ output_count:u64 ‖
//	outputs... ‖ lock_time:u64 ‖ subnetwork_id:20 ‖ gas:u64 ‖
//	payload_hash:32 ‖ payload_len:u64 ‖ payload
//
// Each input is (prev_tx_id:32 ‖ prev_index:u32 ‖ sig_script_len:u64 ‖
// sig_script ‖ sequence:u64); sig_op_count is accounted for in mass but is
// not part of the hashed pre-image, matching the teacher's
// hashserialization treatment of fields that affect validation but not
// identity.
// Each output is (value:u64 ‖ spk_version:u16 ‖ script_len:u64 ‖ script).
func serializeTransaction(w io.Writer, tx *externalapi.DomainTransaction) error {
	if err := writeUint16(w, tx.Version); err != nil {
		return err
	}

	if err := writeUint64(w, uint64(len(tx.Inputs))); err != nil {
		return err
	}
	for _, input := range tx.Inputs {
		if err := writeTransactionInput(w, input); err != nil {
			return err
		}
	}

	if err := writeUint64(w, uint64(len(tx.Outputs))); err != nil {
		return err
	}
	for _, output := range tx.Outputs {
		if err := writeTransactionOutput(w, output); err != nil {
			return err
		}
	}

	if err := writeUint64(w, tx.LockTime); err != nil {
		return err
	}

	if _, err := w.Write(tx.SubnetworkID[:]); err != nil {
		return err
	}

	if err := writeUint64(w, tx.Gas); err != nil {
		return err
	}

	payloadHash := hashes.HashData(tx.Payload)
	if err := writeHash(w, payloadHash); err != nil {
		return err
	}

	return writeVarBytes(w, tx.Payload)
}

func writeTransactionInput(w io.Writer, input *externalapi.DomainTransactionInput) error {
	if err := writeOutpoint(w, &input.PreviousOutpoint); err != nil {
		return err
	}
	if err := writeVarBytes(w, input.SignatureScript); err != nil {
		return err
	}
	return writeUint64(w, input.Sequence)
}

func writeOutpoint(w io.Writer, outpoint *externalapi.DomainOutpoint) error {
	if _, err := w.Write(outpoint.TransactionID[:]); err != nil {
		return err
	}
	return writeUint32(w, outpoint.Index)
}

func writeTransactionOutput(w io.Writer, output *externalapi.DomainTransactionOutput) error {
	if err := writeUint64(w, output.Value); err != nil {
		return err
	}
	version, script := uint16(0), []byte{}
	if output.ScriptPublicKey != nil {
		version = output.ScriptPublicKey.Version
		script = output.ScriptPublicKey.Script
	}
	if err := writeUint16(w, version); err != nil {
		return err
	}
	return writeVarBytes(w, script)
}

// TransactionHash computes a transaction's hash: the transaction-ID-keyed
// Blake2b-256 of its full canonical encoding, including the signature
// scripts (spec §3: "id = hash over canonical encoding").
func TransactionHash(tx *externalapi.DomainTransaction) *externalapi.DomainHash {
	writer := hashes.NewTransactionIDWriter()
	err := serializeTransaction(writer, tx)
	if err != nil {
		panic(errors.Wrap(err, "TransactionHash failed, which should never happen"))
	}
	result := writer.Finalize()
	return &result
}

// TransactionID computes and caches tx.ID as the transaction's identity
// hash, then returns it. The core does not distinguish a signing-excluded
// ID from the full hash (unlike the teacher's SegWit-style TxID/TxHash
// split), because spec §3 defines a single id field.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	hash := TransactionHash(tx)
	id := externalapi.DomainTransactionID(*hash)
	tx.ID = &id
	return &id
}

// EstimatedSerializedSize returns the deterministic size (in bytes) of tx
// under the canonical layout above, used by MassCalculator.ComputeMass and
// by TransactionValidator's MAX_TRANSACTION_SIZE check (spec §4.8, §4.9).
func EstimatedSerializedSize(tx *externalapi.DomainTransaction) uint64 {
	size := uint64(2) // version
	size += 8         // input count
	for _, input := range tx.Inputs {
		size += estimatedInputSize(input)
	}
	size += 8 // output count
	for _, output := range tx.Outputs {
		size += estimatedOutputSize(output)
	}
	size += 8                                           // lock time
	size += uint64(externalapi.DomainSubnetworkIDSize) // subnetwork id
	size += 8                                           // gas
	size += uint64(externalapi.DomainHashSize)         // payload hash
	size += 8                                           // payload length
	size += uint64(len(tx.Payload))
	return size
}

func estimatedInputSize(input *externalapi.DomainTransactionInput) uint64 {
	size := uint64(externalapi.DomainHashSize) // prev tx id
	size += 4                                   // prev index
	size += 8                                   // sig script length prefix
	size += uint64(len(input.SignatureScript))
	size += 8 // sequence
	size += 1 // sig op count (accounted in size though not in the hashed pre-image)
	return size
}

func estimatedOutputSize(output *externalapi.DomainTransactionOutput) uint64 {
	size := uint64(8) // value
	size += 2         // spk version
	size += 8         // script length prefix
	if output.ScriptPublicKey != nil {
		size += uint64(len(output.ScriptPublicKey.Script))
	}
	return size
}
