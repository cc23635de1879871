package externalapi

import (
	"bytes"
	"encoding/hex"
)

// DomainHashSize is the size in bytes of a DomainHash.
const DomainHashSize = 32

// DomainHash is the domain representation of a 32-byte hash identifier.
// It is identity-only: no arithmetic is defined over it, only equality,
// ordering, and a hex codec.
type DomainHash [DomainHashSize]byte

// ZeroHash is the canonical zero-valued hash.
var ZeroHash = DomainHash{}

// String returns the hash as a hexadecimal string.
func (hash DomainHash) String() string {
	return hex.EncodeToString(hash[:])
}

// ByteSlice returns a copy of the hash bytes.
func (hash *DomainHash) ByteSlice() []byte {
	slice := make([]byte, DomainHashSize)
	copy(slice, hash[:])
	return slice
}

// Clone returns a pointer to a copy of the hash.
func (hash *DomainHash) Clone() *DomainHash {
	clone := *hash
	return &clone
}

// Equal reports whether hash and other hold the same value. Two nil
// pointers are equal; a nil and a non-nil pointer are not.
func (hash *DomainHash) Equal(other *DomainHash) bool {
	if hash == nil || other == nil {
		return hash == other
	}
	return *hash == *other
}

// Less reports whether hash sorts strictly before other under
// lexicographic byte ordering.
func (hash *DomainHash) Less(other *DomainHash) bool {
	return bytes.Compare(hash[:], other[:]) < 0
}

// IsZero reports whether hash is the canonical zero value.
func (hash *DomainHash) IsZero() bool {
	return *hash == ZeroHash
}

// NewDomainHashFromByteSlice constructs a DomainHash from a 32-byte slice.
func NewDomainHashFromByteSlice(data []byte) (*DomainHash, error) {
	if len(data) != DomainHashSize {
		return nil, errInvalidHashLength(len(data))
	}
	hash := DomainHash{}
	copy(hash[:], data)
	return &hash, nil
}

// NewDomainHashFromString decodes a hex string into a DomainHash.
func NewDomainHashFromString(s string) (*DomainHash, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewDomainHashFromByteSlice(data)
}

// HashesEqual reports whether the two hash slices hold equal hashes in
// the same order.
func HashesEqual(a, b []*DomainHash) bool {
	if len(a) != len(b) {
		return false
	}
	for i, hash := range a {
		if !hash.Equal(b[i]) {
			return false
		}
	}
	return true
}

// CloneHashes returns a deep clone of the given hash slice.
func CloneHashes(hashes []*DomainHash) []*DomainHash {
	clone := make([]*DomainHash, len(hashes))
	for i, hash := range hashes {
		clone[i] = hash.Clone()
	}
	return clone
}

// SortableBlockHashes implements sort.Interface by ascending hash value,
// used wherever the spec requires a deterministic candidate order (e.g.
// GHOSTDAG's mergeset coloring order).
type SortableBlockHashes []*DomainHash

func (s SortableBlockHashes) Len() int           { return len(s) }
func (s SortableBlockHashes) Less(i, j int) bool { return s[i].Less(s[j]) }
func (s SortableBlockHashes) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
