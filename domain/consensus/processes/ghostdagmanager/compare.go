package ghostdagmanager

import (
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

// ChooseSelectedParent returns the argmax, over blockHashes, of
// (blue_score, blue_work, hash) (spec §4.5 step 1).
func (gm *ghostdagManager) ChooseSelectedParent(blockHashes ...*externalapi.DomainHash) (*externalapi.DomainHash, error) {
	selectedParent := blockHashes[0]
	selectedParentData, err := gm.ghostdagDataStore.Get(gm.databaseContext, selectedParent)
	if err != nil {
		return nil, err
	}

	for _, blockHash := range blockHashes[1:] {
		blockData, err := gm.ghostdagDataStore.Get(gm.databaseContext, blockHash)
		if err != nil {
			return nil, err
		}
		if gm.Less(selectedParent, selectedParentData, blockHash, blockData) {
			selectedParent = blockHash
			selectedParentData = blockData
		}
	}

	return selectedParent, nil
}

// Less reports whether (blockHashA, ghostdagDataA) sorts strictly before
// (blockHashB, ghostdagDataB) under the selected-parent ordering: ascending
// blue score, then blue work, then lexicographic hash (spec §4.5 step 1).
func (gm *ghostdagManager) Less(blockHashA *externalapi.DomainHash, ghostdagDataA *externalapi.BlockGHOSTDAGData,
	blockHashB *externalapi.DomainHash, ghostdagDataB *externalapi.BlockGHOSTDAGData) bool {

	if ghostdagDataA.BlueScore != ghostdagDataB.BlueScore {
		return ghostdagDataA.BlueScore < ghostdagDataB.BlueScore
	}
	switch ghostdagDataA.BlueWork.Cmp(ghostdagDataB.BlueWork) {
	case -1:
		return true
	case 1:
		return false
	}
	return blockHashA.Less(blockHashB)
}
