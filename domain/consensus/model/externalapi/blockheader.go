package externalapi

// DomainBlockHeader is the domain representation of a block header. Parents
// are organized by DAG "level" exactly as the GHOSTDAG pruning/parent
// selection machinery expects: level 0 holds the direct parents used for
// GHOSTDAG coloring, higher levels hold superblock-style shortcut parents
// that this core serializes into the header hash but otherwise ignores:
// reachability walks only the direct parents (the spec does not define a
// consumer for them beyond "non-empty for non-genesis").
type DomainBlockHeader struct {
	Version              uint16
	ParentsByLevel        [][]*DomainHash
	HashMerkleRoot        *DomainHash
	AcceptedIDMerkleRoot  *DomainHash
	UTXOCommitment        *DomainHash
	TimeInMilliseconds    int64
	Bits                  uint32
	Nonce                 uint64
	DAAScore              uint64
	BlueWork              *BlueWork
	BlueScore             uint64
	PruningPoint          *DomainHash
}

// DirectParents returns ParentsByLevel[0], the parents used by GHOSTDAG
// coloring and difficulty adjustment. It returns an empty (non-nil) slice
// for a header with no levels at all.
func (h *DomainBlockHeader) DirectParents() []*DomainHash {
	if len(h.ParentsByLevel) == 0 {
		return []*DomainHash{}
	}
	return h.ParentsByLevel[0]
}

// Clone returns a deep copy of the header.
func (h *DomainBlockHeader) Clone() *DomainBlockHeader {
	if h == nil {
		return nil
	}
	parentsByLevel := make([][]*DomainHash, len(h.ParentsByLevel))
	for i, level := range h.ParentsByLevel {
		parentsByLevel[i] = CloneHashes(level)
	}
	return &DomainBlockHeader{
		Version:              h.Version,
		ParentsByLevel:       parentsByLevel,
		HashMerkleRoot:       h.HashMerkleRoot.Clone(),
		AcceptedIDMerkleRoot: h.AcceptedIDMerkleRoot.Clone(),
		UTXOCommitment:       h.UTXOCommitment.Clone(),
		TimeInMilliseconds:   h.TimeInMilliseconds,
		Bits:                 h.Bits,
		Nonce:                h.Nonce,
		DAAScore:             h.DAAScore,
		BlueWork:             h.BlueWork.Clone(),
		BlueScore:            h.BlueScore,
		PruningPoint:         h.PruningPoint.Clone(),
	}
}

// Equal reports whether two headers are structurally identical.
func (h *DomainBlockHeader) Equal(other *DomainBlockHeader) bool {
	if h == nil || other == nil {
		return h == other
	}
	if h.Version != other.Version || h.TimeInMilliseconds != other.TimeInMilliseconds ||
		h.Bits != other.Bits || h.Nonce != other.Nonce || h.DAAScore != other.DAAScore ||
		h.BlueScore != other.BlueScore {
		return false
	}
	if !h.HashMerkleRoot.Equal(other.HashMerkleRoot) ||
		!h.AcceptedIDMerkleRoot.Equal(other.AcceptedIDMerkleRoot) ||
		!h.UTXOCommitment.Equal(other.UTXOCommitment) ||
		!h.PruningPoint.Equal(other.PruningPoint) ||
		!h.BlueWork.Equal(other.BlueWork) {
		return false
	}
	if len(h.ParentsByLevel) != len(other.ParentsByLevel) {
		return false
	}
	for i, level := range h.ParentsByLevel {
		if !HashesEqual(level, other.ParentsByLevel[i]) {
			return false
		}
	}
	return true
}
