// Package ghostdagmanager implements the GHOSTDAG K-cluster coloring
// algorithm (spec §4.5).
package ghostdagmanager

import (
	"math/big"
	"sort"

	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/merkle"
	"github.com/jio-labs/jiod/domain/consensus/utils/pow"
)

type ghostdagManager struct {
	databaseContext    model.DBReader
	k                  int
	ghostdagDataStore  model.GHOSTDAGDataStore
	headerStore        model.BlockHeaderStore
	dagTopologyManager model.DAGTopologyManager
}

// New instantiates a GHOSTDAGManager with the given K.
func New(
	databaseContext model.DBReader,
	k int,
	ghostdagDataStore model.GHOSTDAGDataStore,
	headerStore model.BlockHeaderStore,
	dagTopologyManager model.DAGTopologyManager) model.GHOSTDAGManager {

	return &ghostdagManager{
		databaseContext:    databaseContext,
		k:                  k,
		ghostdagDataStore:  ghostdagDataStore,
		headerStore:        headerStore,
		dagTopologyManager: dagTopologyManager,
	}
}

// GHOSTDAG computes the GHOSTDAG data for a header with the given direct
// parents (spec §4.5). It does not persist the result; callers stage it
// through the GHOSTDAGDataStore.
func (gm *ghostdagManager) GHOSTDAG(blockHash *externalapi.DomainHash, directParents []*externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error) {
	if len(directParents) == 0 {
		return gm.genesisData(blockHash)
	}

	selectedParent, err := gm.ChooseSelectedParent(directParents...)
	if err != nil {
		return nil, err
	}
	selectedParentData, err := gm.ghostdagDataStore.Get(gm.databaseContext, selectedParent)
	if err != nil {
		return nil, err
	}

	blueSet := make(map[externalapi.DomainHash]struct{}, len(selectedParentData.MergeSetBlues))
	blueList := externalapi.CloneHashes(selectedParentData.MergeSetBlues)
	for _, b := range blueList {
		blueSet[*b] = struct{}{}
	}

	candidates, err := gm.candidateAnticone(directParents, blueSet)
	if err != nil {
		return nil, err
	}

	var redList []*externalapi.DomainHash
	anticoneSizes := make(map[externalapi.DomainHash]int)

	for _, c := range candidates {
		n, err := gm.countBluesInAnticone(c, blueSet)
		if err != nil {
			return nil, err
		}
		if n <= gm.k {
			blueSet[*c] = struct{}{}
			blueList = append(blueList, c)
			anticoneSizes[*c] = n
		} else {
			redList = append(redList, c)
		}
	}

	blueWork, err := gm.sumWork(blueList)
	if err != nil {
		return nil, err
	}

	mergeSetSorted := append(append([]*externalapi.DomainHash{}, blueList...), redList...)
	sortHashes(mergeSetSorted)

	return &externalapi.BlockGHOSTDAGData{
		BlueScore:          uint64(len(blueList)),
		BlueWork:           externalapi.NewBlueWork(blueWork),
		SelectedParent:     selectedParent,
		MergeSetBlues:      blueList,
		MergeSetReds:       redList,
		BluesAnticoneSizes: anticoneSizes,
		MergeSetRoot:       merkle.CalculateHashMerkleRoot(mergeSetSorted),
		Height:             selectedParentData.Height + 1,
	}, nil
}

func (gm *ghostdagManager) genesisData(blockHash *externalapi.DomainHash) (*externalapi.BlockGHOSTDAGData, error) {
	target, err := gm.blockTarget(blockHash)
	if err != nil {
		return nil, err
	}
	return &externalapi.BlockGHOSTDAGData{
		BlueScore:          1,
		BlueWork:           externalapi.NewBlueWork(model.Work(target)),
		SelectedParent:     blockHash,
		MergeSetBlues:      []*externalapi.DomainHash{blockHash},
		MergeSetReds:       nil,
		BluesAnticoneSizes: map[externalapi.DomainHash]int{},
		MergeSetRoot:       merkle.CalculateHashMerkleRoot([]*externalapi.DomainHash{blockHash}),
		Height:             0,
	}, nil
}

// candidateAnticone computes A = (union over p in directParents of
// blue_set(p) ∪ {p}) minus blueSet (the selected parent's blue closure),
// spec §4.5 step 2, sorted ascending by hash (step 3).
func (gm *ghostdagManager) candidateAnticone(directParents []*externalapi.DomainHash, blueSet map[externalapi.DomainHash]struct{}) ([]*externalapi.DomainHash, error) {
	seen := make(map[externalapi.DomainHash]struct{})
	var candidates []*externalapi.DomainHash

	for _, p := range directParents {
		pData, err := gm.ghostdagDataStore.Get(gm.databaseContext, p)
		if err != nil {
			return nil, err
		}
		members := append(externalapi.CloneHashes(pData.MergeSetBlues), p)
		for _, m := range members {
			if _, ok := blueSet[*m]; ok {
				continue
			}
			if _, ok := seen[*m]; ok {
				continue
			}
			seen[*m] = struct{}{}
			candidates = append(candidates, m)
		}
	}

	sortHashes(candidates)
	return candidates, nil
}

// countBluesInAnticone returns |{b ∈ blueSet : b ∈ anticone(c)}| (spec
// §4.5 step 4).
func (gm *ghostdagManager) countBluesInAnticone(c *externalapi.DomainHash, blueSet map[externalapi.DomainHash]struct{}) (int, error) {
	n := 0
	for bHash := range blueSet {
		b := bHash
		isAncestorOfC, err := gm.dagTopologyManager.IsAncestorOf(&b, c)
		if err != nil {
			return 0, err
		}
		if isAncestorOfC {
			continue
		}
		isDescendantOfC, err := gm.dagTopologyManager.IsAncestorOf(c, &b)
		if err != nil {
			return 0, err
		}
		if isDescendantOfC {
			continue
		}
		n++
		if n > gm.k {
			return n, nil
		}
	}
	return n, nil
}

func (gm *ghostdagManager) sumWork(blues []*externalapi.DomainHash) (*big.Int, error) {
	total := big.NewInt(0)
	for _, b := range blues {
		target, err := gm.blockTarget(b)
		if err != nil {
			return nil, err
		}
		total.Add(total, model.Work(target))
	}
	return total, nil
}

func (gm *ghostdagManager) blockTarget(blockHash *externalapi.DomainHash) (*big.Int, error) {
	header, err := gm.headerStore.BlockHeader(gm.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}
	return pow.FromBits(header.Bits), nil
}

// VirtualGHOSTDAGData computes, but does not persist, the GHOSTDAG data for
// a synthetic header whose direct parents are the current tips, capped at
// maxParents and chosen by descending blue score (spec §4.5 "Virtual
// state").
func (gm *ghostdagManager) VirtualGHOSTDAGData(maxParents int) (*externalapi.BlockGHOSTDAGData, []*externalapi.DomainHash, error) {
	tips, err := gm.dagTopologyManager.Tips()
	if err != nil {
		return nil, nil, err
	}
	if len(tips) == 0 {
		return nil, nil, nil
	}

	type scoredTip struct {
		hash  *externalapi.DomainHash
		score uint64
	}
	scored := make([]scoredTip, 0, len(tips))
	for _, tip := range tips {
		data, err := gm.ghostdagDataStore.Get(gm.databaseContext, tip)
		if err != nil {
			return nil, nil, err
		}
		scored = append(scored, scoredTip{hash: tip, score: data.BlueScore})
	}

	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j].score > scored[j-1].score; j-- {
			scored[j], scored[j-1] = scored[j-1], scored[j]
		}
	}

	if maxParents > 0 && len(scored) > maxParents {
		scored = scored[:maxParents]
	}

	parents := make([]*externalapi.DomainHash, len(scored))
	for i, s := range scored {
		parents[i] = s.hash
	}

	data, err := gm.GHOSTDAG(nil, parents)
	if err != nil {
		return nil, nil, err
	}
	return data, parents, nil
}

func sortHashes(hashes []*externalapi.DomainHash) {
	sort.Sort(externalapi.SortableBlockHashes(hashes))
}
