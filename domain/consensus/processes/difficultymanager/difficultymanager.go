// Package difficultymanager implements the sliding-window difficulty
// retarget (spec §4.6). It is guarded by its own mutex per spec §5:
// observations are serialized through the pipeline, and concurrent
// RequiredDifficulty calls are serialized by the same exclusive mutex.
package difficultymanager

import (
	"math/big"
	"sync"

	"github.com/jio-labs/jiod/domain/consensus/model"
	"github.com/jio-labs/jiod/domain/consensus/model/externalapi"
	"github.com/jio-labs/jiod/domain/consensus/utils/constants"
	"github.com/jio-labs/jiod/domain/consensus/utils/pow"
)

type windowEntry struct {
	timestamp int64
	bits      uint32
}

type difficultyManager struct {
	mu sync.Mutex

	databaseContext    model.DBReader
	databaseWriter     model.DBWriter
	difficultyStore    model.DifficultyStore
	dagTopologyManager model.DAGTopologyManager
	windowSize         int
}

// New instantiates a DifficultyManager with the given sliding window size
// (default constants.DifficultyAdjustmentWindowSize).
func New(
	databaseContext model.DBReader,
	databaseWriter model.DBWriter,
	difficultyStore model.DifficultyStore,
	dagTopologyManager model.DAGTopologyManager,
	windowSize int) model.DifficultyManager {

	return &difficultyManager{
		databaseContext:    databaseContext,
		databaseWriter:     databaseWriter,
		difficultyStore:    difficultyStore,
		dagTopologyManager: dagTopologyManager,
		windowSize:         windowSize,
	}
}

// Observe records a newly accepted block's (timestamp, bits) pair so later
// windows can include it.
func (dm *difficultyManager) Observe(blockHash *externalapi.DomainHash, timestampInMilliseconds int64, bits uint32) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	return dm.difficultyStore.Stage(dm.databaseWriter, blockHash, timestampInMilliseconds, bits)
}

// RequiredDifficulty computes the compact target a block built on top of
// blockHash must satisfy (spec §4.6).
func (dm *difficultyManager) RequiredDifficulty(blockHash *externalapi.DomainHash) (uint32, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	window, err := dm.window(blockHash)
	if err != nil {
		return 0, err
	}
	if len(window) == 0 {
		return constants.MaxCompactTargetBits, nil
	}
	currentBits := window[len(window)-1].bits
	if len(window) < 2 {
		return currentBits, nil
	}

	first := window[0]
	last := window[len(window)-1]

	timeSpan := last.timestamp - first.timestamp
	if timeSpan < 1 {
		timeSpan = 1
	}
	targetSpan := constants.TargetBlockTimeMilliseconds * int64(len(window)-1)
	if targetSpan < 1 {
		targetSpan = 1
	}

	numerator, denominator := clampRatio(timeSpan, targetSpan)

	currentTarget := pow.FromBits(currentBits)
	newTarget := new(big.Int).Mul(currentTarget, big.NewInt(numerator))
	newTarget.Div(newTarget, big.NewInt(denominator))

	minTarget, maxTarget := pow.MinTarget(), pow.MaxTarget()
	if newTarget.Cmp(minTarget) < 0 {
		newTarget = minTarget
	}
	if newTarget.Cmp(maxTarget) > 0 {
		newTarget = maxTarget
	}

	return pow.ToBits(newTarget), nil
}

// clampRatio clamps timeSpan/targetSpan to [0.9, 1.1] while staying in
// integer arithmetic, returning a (numerator, denominator) pair.
func clampRatio(timeSpan, targetSpan int64) (int64, int64) {
	if timeSpan*10 > targetSpan*11 {
		return 11, 10
	}
	if timeSpan*10 < targetSpan*9 {
		return 9, 10
	}
	return timeSpan, targetSpan
}

// window walks the selected chain (direct_parents[0], spec §4.4) from
// blockHash towards genesis, collecting up to windowSize (timestamp, bits)
// pairs, oldest first.
func (dm *difficultyManager) window(blockHash *externalapi.DomainHash) ([]windowEntry, error) {
	var entries []windowEntry
	current := blockHash

	for len(entries) < dm.windowSize {
		timestamp, bits, err := dm.difficultyStore.Get(dm.databaseContext, current)
		if err != nil {
			return nil, err
		}
		entries = append(entries, windowEntry{timestamp: timestamp, bits: bits})

		parents, err := dm.dagTopologyManager.Parents(current)
		if err != nil {
			return nil, err
		}
		if len(parents) == 0 {
			break
		}
		current = parents[0]
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
