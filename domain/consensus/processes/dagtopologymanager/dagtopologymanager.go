// Package dagtopologymanager composes the BlockRelationStore and
// ReachabilityManager into DAG-shaped queries (spec §4.4).
package dagtopologymanager

import (
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

type dagTopologyManager struct {
	databaseContext     model.DBReader
	databaseWriter      model.DBWriter
	reachabilityManager model.ReachabilityManager
	blockRelationStore  model.BlockRelationStore
}

// New instantiates a DAGTopologyManager. databaseWriter is used only by
// AddTip, which restages the tip set; every other method reads through
// databaseContext.
func New(
	databaseContext model.DBReader,
	databaseWriter model.DBWriter,
	reachabilityManager model.ReachabilityManager,
	blockRelationStore model.BlockRelationStore) model.DAGTopologyManager {

	return &dagTopologyManager{
		databaseContext:     databaseContext,
		databaseWriter:      databaseWriter,
		reachabilityManager: reachabilityManager,
		blockRelationStore:  blockRelationStore,
	}
}

func (dtm *dagTopologyManager) Parents(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	relations, err := dtm.blockRelationStore.Get(dtm.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}
	return relations.Parents, nil
}

func (dtm *dagTopologyManager) Children(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	relations, err := dtm.blockRelationStore.Get(dtm.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}
	return relations.Children, nil
}

func (dtm *dagTopologyManager) IsParentOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	relations, err := dtm.blockRelationStore.Get(dtm.databaseContext, blockHashB)
	if err != nil {
		return false, err
	}
	return isHashInSlice(blockHashA, relations.Parents), nil
}

func (dtm *dagTopologyManager) IsChildOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	relations, err := dtm.blockRelationStore.Get(dtm.databaseContext, blockHashB)
	if err != nil {
		return false, err
	}
	return isHashInSlice(blockHashA, relations.Children), nil
}

func (dtm *dagTopologyManager) IsAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	return dtm.reachabilityManager.IsAncestorOf(blockHashA, blockHashB)
}

func (dtm *dagTopologyManager) IsDescendantOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	return dtm.reachabilityManager.IsAncestorOf(blockHashB, blockHashA)
}

func (dtm *dagTopologyManager) Tips() ([]*externalapi.DomainHash, error) {
	return dtm.blockRelationStore.Tips(dtm.databaseContext)
}

func (dtm *dagTopologyManager) AddTip(tipHash *externalapi.DomainHash) error {
	tips, err := dtm.blockRelationStore.Tips(dtm.databaseContext)
	if err != nil {
		return err
	}

	relations, err := dtm.blockRelationStore.Get(dtm.databaseContext, tipHash)
	if err != nil {
		return err
	}

	filtered := tips[:0]
	for _, tip := range tips {
		if isHashInSlice(tip, relations.Parents) {
			continue
		}
		filtered = append(filtered, tip)
	}
	filtered = append(filtered, tipHash)

	return dtm.blockRelationStore.StageTips(dtm.databaseWriter, filtered)
}

// GetAnticone implements spec §4.4: all known hashes x with x != h,
// !is_ancestor_of(h,x), !is_ancestor_of(x,h). Genesis (no parents) has every
// other known hash in its anticone, capped at cap.
func (dtm *dagTopologyManager) GetAnticone(blockHash *externalapi.DomainHash, cap int) ([]*externalapi.DomainHash, error) {
	known, err := dtm.allKnownHashes(blockHash)
	if err != nil {
		return nil, err
	}

	anticone := make([]*externalapi.DomainHash, 0, len(known))
	for _, candidate := range known {
		if candidate.Equal(blockHash) {
			continue
		}
		isAncestorOfCandidate, err := dtm.IsAncestorOf(blockHash, candidate)
		if err != nil {
			return nil, err
		}
		if isAncestorOfCandidate {
			continue
		}
		isDescendantOfCandidate, err := dtm.IsAncestorOf(candidate, blockHash)
		if err != nil {
			return nil, err
		}
		if isDescendantOfCandidate {
			continue
		}
		anticone = append(anticone, candidate)
		if cap > 0 && len(anticone) >= cap {
			break
		}
	}
	return anticone, nil
}

// TopologicalSort performs a post-order DFS over parents, yielding
// ancestors before descendants (spec §4.4).
func (dtm *dagTopologyManager) TopologicalSort(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	visited := make(map[externalapi.DomainHash]struct{})
	var order []*externalapi.DomainHash

	var visit func(hash *externalapi.DomainHash) error
	visit = func(hash *externalapi.DomainHash) error {
		if _, ok := visited[*hash]; ok {
			return nil
		}
		visited[*hash] = struct{}{}

		parents, err := dtm.Parents(hash)
		if err != nil {
			return err
		}
		for _, parent := range parents {
			if err := visit(parent); err != nil {
				return err
			}
		}
		order = append(order, hash)
		return nil
	}

	if err := visit(blockHash); err != nil {
		return nil, err
	}
	return order, nil
}

// GetSelectedChain follows direct_parents[0] down to genesis, then reverses
// so genesis comes first (spec §4.4).
func (dtm *dagTopologyManager) GetSelectedChain(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	var chain []*externalapi.DomainHash
	current := blockHash
	for {
		chain = append(chain, current)
		parents, err := dtm.Parents(current)
		if err != nil {
			return nil, err
		}
		if len(parents) == 0 {
			break
		}
		current = parents[0]
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// BlockLocator builds a sparse backbone of highHash's selected chain down
// to lowHash, doubling the gap between included hashes as it walks back
// from highHash, the way a remote peer (or a local replay of a block file)
// narrows in on the highest chain block it already has without listing
// every block in between. lowHash must lie on highHash's selected chain;
// a nil lowHash locates back to genesis.
func (dtm *dagTopologyManager) BlockLocator(highHash, lowHash *externalapi.DomainHash, limit uint32) ([]*externalapi.DomainHash, error) {
	chain, err := dtm.GetSelectedChain(highHash)
	if err != nil {
		return nil, err
	}

	lowIndex := 0
	if lowHash != nil {
		found := false
		for i, hash := range chain {
			if hash.Equal(lowHash) {
				lowIndex = i
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Errorf("lowHash %s is not in the selected chain of %s", lowHash, highHash)
		}
	}

	var locator []*externalapi.DomainHash
	step := 1
	for i := len(chain) - 1; i >= lowIndex; i -= step {
		locator = append(locator, chain[i])
		if limit > 0 && uint32(len(locator)) == limit {
			return locator, nil
		}
		step *= 2
	}
	if len(locator) == 0 || !locator[len(locator)-1].Equal(chain[lowIndex]) {
		locator = append(locator, chain[lowIndex])
	}
	return locator, nil
}

func (dtm *dagTopologyManager) allKnownHashes(exclude *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	tips, err := dtm.blockRelationStore.Tips(dtm.databaseContext)
	if err != nil {
		return nil, err
	}

	visited := make(map[externalapi.DomainHash]struct{})
	var known []*externalapi.DomainHash
	queue := append([]*externalapi.DomainHash{}, tips...)
	if !isHashInSlice(exclude, queue) {
		queue = append(queue, exclude)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, ok := visited[*current]; ok {
			continue
		}
		visited[*current] = struct{}{}
		known = append(known, current)

		parents, err := dtm.Parents(current)
		if err != nil {
			return nil, err
		}
		for _, parent := range parents {
			if _, ok := visited[*parent]; !ok {
				queue = append(queue, parent)
			}
		}
	}
	return known, nil
}

func isHashInSlice(hash *externalapi.DomainHash, hashes []*externalapi.DomainHash) bool {
	for _, h := range hashes {
		if h.Equal(hash) {
			return true
		}
	}
	return false
}
