// Package reachabilitymanager answers "is A an ancestor of D" queries over
// the DAG (spec §4.3, ReachabilityOracle).
//
// The specified contract only requires that is_ancestor_of(a, d) holds iff a
// is reachable from d by walking parents zero or more times; it explicitly
// permits starting with a traversal implementation and upgrading later to
// interval labeling (each node holding [start,end] such that every
// ancestor's interval strictly contains its descendants') without changing
// the contract. This package takes the traversal option: it walks the
// BlockRelationStore breadth-first from the descendant towards genesis. A
// future interval-labeling implementation would satisfy the same
// model.ReachabilityManager interface and could replace this package
// without touching any caller.
package reachabilitymanager

import (
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

type reachabilityManager struct {
	databaseContext    model.DBReader
	blockRelationStore model.BlockRelationStore
}

// New instantiates a ReachabilityManager.
func New(databaseContext model.DBReader, blockRelationStore model.BlockRelationStore) model.ReachabilityManager {
	return &reachabilityManager{
		databaseContext:    databaseContext,
		blockRelationStore: blockRelationStore,
	}
}

// IsAncestorOf returns true if blockHashA is reachable from blockHashB by
// walking parents zero or more times. A block is its own ancestor.
func (rm *reachabilityManager) IsAncestorOf(blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {
	if blockHashA.Equal(blockHashB) {
		return true, nil
	}

	visited := make(map[externalapi.DomainHash]struct{})
	queue := []*externalapi.DomainHash{blockHashB}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if _, ok := visited[*current]; ok {
			continue
		}
		visited[*current] = struct{}{}

		relations, err := rm.blockRelationStore.Get(rm.databaseContext, current)
		if err != nil {
			if err == database.ErrNotFound {
				continue
			}
			return false, err
		}

		for _, parent := range relations.Parents {
			if parent.Equal(blockHashA) {
				return true, nil
			}
			if _, ok := visited[*parent]; !ok {
				queue = append(queue, parent)
			}
		}
	}

	return false, nil
}
