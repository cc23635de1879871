// Package orphanpool parks blocks whose parents are not yet known, and
// releases them once the missing parent is admitted (spec §4.10, §5).
package orphanpool

import (
	"sync"

	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/consensusserialization"
)

type orphan struct {
	block          *externalapi.DomainBlock
	missingParents []*externalapi.DomainHash
	admittedAt     int64
}

type orphanPool struct {
	mu sync.Mutex

	orphansByHash   map[externalapi.DomainHash]*orphan
	waitingChildren map[externalapi.DomainHash]map[externalapi.DomainHash]struct{}
}

// New instantiates an empty OrphanPool.
func New() model.OrphanPool {
	return &orphanPool{
		orphansByHash:   make(map[externalapi.DomainHash]*orphan),
		waitingChildren: make(map[externalapi.DomainHash]map[externalapi.DomainHash]struct{}),
	}
}

// Add parks block under every hash in missingParents; it becomes
// releasable once any one of those parents is admitted via
// ReleaseChildrenOf (spec §4.10: "if any parent hash is unknown, park in
// OrphanPool").
func (p *orphanPool) Add(block *externalapi.DomainBlock, missingParents []*externalapi.DomainHash, nowInMilliseconds int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	hash := consensusserialization.HeaderHash(block.Header)
	p.orphansByHash[*hash] = &orphan{
		block:          block,
		missingParents: missingParents,
		admittedAt:     nowInMilliseconds,
	}
	for _, parent := range missingParents {
		children, ok := p.waitingChildren[*parent]
		if !ok {
			children = make(map[externalapi.DomainHash]struct{})
			p.waitingChildren[*parent] = children
		}
		children[*hash] = struct{}{}
	}
	return nil
}

// ReleaseChildrenOf returns every orphan directly waiting on blockHash and
// removes it from the pool. It does not recursively chase grandchildren:
// the caller re-schedules each released block through the pipeline, which
// will itself trigger further releases (spec §5: "must not hold the lock
// while re-invoking the pipeline").
func (p *orphanPool) ReleaseChildrenOf(blockHash *externalapi.DomainHash) ([]*externalapi.DomainBlock, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	children, ok := p.waitingChildren[*blockHash]
	if !ok {
		return nil, nil
	}
	delete(p.waitingChildren, *blockHash)

	released := make([]*externalapi.DomainBlock, 0, len(children))
	for childHash := range children {
		o, ok := p.orphansByHash[childHash]
		if !ok {
			continue
		}
		delete(p.orphansByHash, childHash)
		released = append(released, o.block)
	}
	return released, nil
}

// EvictOlderThan removes every orphan admitted before the cutoff and
// returns their hashes (spec §5: "a block in the orphan pool older than
// ORPHAN_MAX_AGE is evicted").
func (p *orphanPool) EvictOlderThan(maxAgeInMilliseconds int64, nowInMilliseconds int64) []*externalapi.DomainHash {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := nowInMilliseconds - maxAgeInMilliseconds
	var evicted []*externalapi.DomainHash
	for hash, o := range p.orphansByHash {
		if o.admittedAt >= cutoff {
			continue
		}
		h := hash
		evicted = append(evicted, &h)
		delete(p.orphansByHash, hash)
		for _, parent := range o.missingParents {
			if children, ok := p.waitingChildren[*parent]; ok {
				delete(children, h)
				if len(children) == 0 {
					delete(p.waitingChildren, *parent)
				}
			}
		}
	}
	return evicted
}

// Has reports whether blockHash is currently parked.
func (p *orphanPool) Has(blockHash *externalapi.DomainHash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.orphansByHash[*blockHash]
	return ok
}

// Len returns the number of parked orphans.
func (p *orphanPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.orphansByHash)
}
