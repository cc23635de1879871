package externalapi

// BlockGHOSTDAGData is the per-block output of the GHOSTDAG coloring
// protocol (spec §3, §4.5).
type BlockGHOSTDAGData struct {
	BlueScore          uint64
	BlueWork           *BlueWork
	SelectedParent     *DomainHash
	MergeSetBlues      []*DomainHash
	MergeSetReds       []*DomainHash
	BluesAnticoneSizes map[DomainHash]int
	MergeSetRoot       *DomainHash
	Height             uint64
}

// Clone returns a deep copy of the GHOSTDAG data.
func (d *BlockGHOSTDAGData) Clone() *BlockGHOSTDAGData {
	if d == nil {
		return nil
	}
	anticoneSizes := make(map[DomainHash]int, len(d.BluesAnticoneSizes))
	for h, n := range d.BluesAnticoneSizes {
		anticoneSizes[h] = n
	}
	return &BlockGHOSTDAGData{
		BlueScore:          d.BlueScore,
		BlueWork:           d.BlueWork.Clone(),
		SelectedParent:     d.SelectedParent.Clone(),
		MergeSetBlues:      CloneHashes(d.MergeSetBlues),
		MergeSetReds:       CloneHashes(d.MergeSetReds),
		BluesAnticoneSizes: anticoneSizes,
		MergeSetRoot:       d.MergeSetRoot.Clone(),
		Height:             d.Height,
	}
}

// IsBlue reports whether hash is a member of the block's blue set.
func (d *BlockGHOSTDAGData) IsBlue(hash *DomainHash) bool {
	for _, blue := range d.MergeSetBlues {
		if blue.Equal(hash) {
			return true
		}
	}
	return false
}

// MergeSet returns the block's full mergeset (blue ∪ red), blues first, in
// the order produced by the coloring pass.
func (d *BlockGHOSTDAGData) MergeSet() []*DomainHash {
	out := make([]*DomainHash, 0, len(d.MergeSetBlues)+len(d.MergeSetReds))
	out = append(out, d.MergeSetBlues...)
	out = append(out, d.MergeSetReds...)
	return out
}

// BlockRelations holds a block's parent and child adjacency plus its height
// (spec §4.3).
type BlockRelations struct {
	Parents  []*DomainHash
	Children []*DomainHash
	Height   uint64
}

// Clone returns a deep copy.
func (r *BlockRelations) Clone() *BlockRelations {
	if r == nil {
		return nil
	}
	return &BlockRelations{
		Parents:  CloneHashes(r.Parents),
		Children: CloneHashes(r.Children),
		Height:   r.Height,
	}
}
