// Package headertipsmanager maintains the header-only tip set as headers
// are accepted, ahead of (and independent from) body validation — the
// header-first ingestion path a single node can use to replay a local
// block file without a peer to pull bodies from on demand.
package headertipsmanager

import (
	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
)

type headerTipsManager struct {
	databaseContext    model.DBReader
	databaseWriter     model.DBWriter
	dagTopologyManager model.DAGTopologyManager
	headerTipsStore    model.HeaderTipsStore
}

// New instantiates a HeaderTipsManager.
func New(
	databaseContext model.DBReader,
	databaseWriter model.DBWriter,
	dagTopologyManager model.DAGTopologyManager,
	headerTipsStore model.HeaderTipsStore) model.HeaderTipsManager {

	return &headerTipsManager{
		databaseContext:    databaseContext,
		databaseWriter:     databaseWriter,
		dagTopologyManager: dagTopologyManager,
		headerTipsStore:    headerTipsStore,
	}
}

// AddHeaderTip adds hash to the header tip set, dropping any existing tip
// that hash descends from.
func (h *headerTipsManager) AddHeaderTip(hash *externalapi.DomainHash) error {
	var tips []*externalapi.DomainHash
	hasTips, err := h.headerTipsStore.HasTips(h.databaseContext)
	if err != nil {
		return err
	}
	if hasTips {
		tips, err = h.headerTipsStore.Tips(h.databaseContext)
		if err != nil {
			return err
		}
	}

	newTips := make([]*externalapi.DomainHash, 0, len(tips)+1)
	for _, tip := range tips {
		isAncestor, err := h.dagTopologyManager.IsAncestorOf(tip, hash)
		if err != nil {
			return err
		}
		if !isAncestor {
			newTips = append(newTips, tip)
		}
	}
	newTips = append(newTips, hash)

	return h.headerTipsStore.Stage(h.databaseWriter, newTips)
}
