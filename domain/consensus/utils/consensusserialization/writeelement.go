// Package consensusserialization implements the canonical byte-exact
// encodings of spec §6: header pre-images (for identity and for PoW) and
// transaction encodings (for identity and for estimated size). Grounded on
// the teacher's domain/consensus/utils/hashserialization package, whose
// serializeHeader/serializeTransaction helpers this package generalizes to
// the spec's richer header (parents-by-level, DAA score, blue work,
// pruning point) and mass-aware transaction layout (spk version, sig-op
// count).
package consensusserialization

import (
	"encoding/binary"
	"io"

	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

var byteOrder = binary.LittleEndian

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	byteOrder.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	byteOrder.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeHash(w io.Writer, hash *externalapi.DomainHash) error {
	if hash == nil {
		var zero externalapi.DomainHash
		_, err := w.Write(zero[:])
		return err
	}
	_, err := w.Write(hash[:])
	return err
}

func writeVarBytes(w io.Writer, data []byte) error {
	if err := writeUint64(w, uint64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
