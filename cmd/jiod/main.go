// Command jiod runs the jio consensus core as a standalone node: it opens
// the block/UTXO database, ingests the selected network's genesis block,
// and then idles, ready to accept blocks through the Consensus facade.
//
// jiod intentionally has no p2p or RPC layer; it is the consensus engine
// the teacher's kaspad wrapper assembles, scoped down to the DAG/UTXO core
// (see the project's non-goals for the surfaces this binary does not
// serve).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jio-labs/jiod/config"
	"github.com/jio-labs/jiod/domain/consensus"
	"github.com/jio-labs/jiod/domain/consensus/database"
	"github.com/jio-labs/jiod/logger"
	"github.com/pkg/errors"
)

const orphanSweepInterval = 10 * time.Minute

var log, _ = logger.Get(logger.SubsystemTags.CONS)

// jiod wraps the assembled Consensus with the open database it owns; stop
// halts the orphan sweep first and then closes the database.
type jiod struct {
	db             database.Database
	consensus      *consensus.Consensus
	stopOrphanSweep chan struct{}
	shutdown       int32
}

func newJiod(cfg *config.Config) (*jiod, error) {
	db, err := database.OpenLevelDB(cfg.DataDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	c, err := consensus.New(&consensus.Config{
		DB:     db,
		Params: cfg.NetParams,
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to initialize consensus")
	}

	return &jiod{db: db, consensus: c, stopOrphanSweep: make(chan struct{})}, nil
}

// sweepOrphans periodically evicts orphans older than ORPHAN_MAX_AGE until
// stop closes j.stopOrphanSweep.
func (j *jiod) sweepOrphans() {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("orphan sweep goroutine recovered from panic: %v", r)
		}
	}()

	ticker := time.NewTicker(orphanSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			evicted := j.consensus.EvictStaleOrphans(now.UnixMilli())
			if len(evicted) > 0 {
				log.Debugf("evicted %d stale orphan(s)", len(evicted))
			}
		case <-j.stopOrphanSweep:
			return
		}
	}
}

func (j *jiod) stop() error {
	if !atomic.CompareAndSwapInt32(&j.shutdown, 0, 1) {
		log.Infof("jiod is already in the process of shutting down")
		return nil
	}
	log.Infof("jiod shutting down")
	close(j.stopOrphanSweep)
	return j.db.Close()
}

// waitForShutdown blocks until the process receives an interrupt or
// termination signal, then stops j and returns.
func waitForShutdown(j *jiod) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	sig := <-interrupt
	log.Infof("received signal %s, shutting down", sig)
	if err := j.stop(); err != nil {
		log.Errorf("error during shutdown: %s", err)
	}
}

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse configuration: %s\n", err)
		os.Exit(1)
	}

	log.Infof("jiod starting, network %s, data directory %s", cfg.NetParams.Name, cfg.DataDir)

	j, err := newJiod(cfg)
	if err != nil {
		log.Criticalf("failed to start jiod: %s", err)
		os.Exit(1)
	}

	tips, err := j.consensus.Tips()
	if err != nil {
		log.Criticalf("failed to read DAG tips: %s", err)
		os.Exit(1)
	}
	log.Infof("consensus ready, %d tip(s), genesis %s", len(tips), cfg.NetParams.GenesisHash)

	go j.sweepOrphans()

	waitForShutdown(j)
}
