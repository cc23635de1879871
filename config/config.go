// Package config parses jiod's CLI configuration via
// github.com/jessevdk/go-flags, following the teacher's
// kasparov/kasparovd/config.Parse/ActiveConfig convention: a single parsed
// Config is stashed in a package-level var and retrieved by ActiveConfig.
package config

import (
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/jio-labs/jiod/domain/dagconfig"
	"github.com/jio-labs/jiod/logger"
	"github.com/pkg/errors"
)

const (
	defaultLogFilename    = "jiod.log"
	defaultErrLogFilename = "jiod_err.log"
	defaultDataDirname    = "data"
	defaultRPCListen      = "127.0.0.1:8312"
	defaultLogLevel       = "info"
)

var (
	defaultHomeDir = defaultAppDataDir("jiod")
	activeConfig   *Config
)

// defaultAppDataDir mirrors the teacher's util.AppDataDir default (an
// OS-appropriate per-application directory under the user's home), trimmed
// to the single case jiod needs: a Unix-style dotted directory name, since
// jiod only targets server deployments.
func defaultAppDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, "."+appName)
}

// ActiveConfig returns the configuration parsed by Parse. It must not be
// called before Parse succeeds.
func ActiveConfig() *Config {
	return activeConfig
}

// Config defines jiod's CLI surface: data directory, log destinations,
// network selection, the RPC listen address (stored for a future RPC
// server; this core never dials it), and per-network consensus overrides
// useful on devnet/simnet.
type Config struct {
	DataDir    string `long:"datadir" description:"Directory to store the block DAG and UTXO set"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	DebugLevel string `long:"debuglevel" description:"Logging level: trace, debug, info, warn, error, critical, or <subsystem>=<level>,..." default:"info"`

	TestNet bool `long:"testnet" description:"Use the test network"`
	DevNet  bool `long:"devnet" description:"Use the development test network"`
	SimNet  bool `long:"simnet" description:"Use the simulation test network"`

	RPCListen string `long:"rpclisten" description:"Address to listen for RPC connections"`

	OverrideGHOSTDAGK          uint32 `long:"override-k" description:"Override the network's GHOSTDAG K parameter (devnet/simnet only)"`
	OverrideDifficultyWindow   uint64 `long:"override-difficulty-window" description:"Override the network's difficulty adjustment window size (devnet/simnet only)"`
	// OverrideTargetBlockTimeMilliseconds replaces
	// NetParams.TargetBlockTimeMilliseconds. The difficulty retarget uses
	// constants.TargetBlockTimeMilliseconds and does not read that field, so
	// this override does not change the retarget.
	OverrideTargetBlockTimeMilliseconds int64 `long:"override-target-block-time" description:"Override the network's target block time, in milliseconds (devnet/simnet only)"`

	NetParams *dagconfig.Params
}

// Parse parses the process's CLI arguments into a Config, resolving
// defaults and the selected network's consensus parameters.
func Parse() (*Config, error) {
	cfg := &Config{
		DataDir:   defaultHomeDir,
		LogDir:    defaultHomeDir,
		RPCListen: defaultRPCListen,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	netCount := 0
	netParams := dagconfig.MainnetParams
	if cfg.TestNet {
		netCount++
		netParams = dagconfig.TestnetParams
	}
	if cfg.DevNet {
		netCount++
		netParams = dagconfig.DevnetParams
	}
	if cfg.SimNet {
		netCount++
		netParams = dagconfig.SimnetParams
	}
	if netCount > 1 {
		return nil, errors.New("--testnet, --devnet, and --simnet are mutually exclusive")
	}

	if cfg.OverrideGHOSTDAGK != 0 {
		if netParams.Network != dagconfig.Devnet && netParams.Network != dagconfig.Simnet {
			return nil, errors.New("--override-k is only allowed on devnet or simnet")
		}
		netParams.GHOSTDAGK = cfg.OverrideGHOSTDAGK
	}
	if cfg.OverrideDifficultyWindow != 0 {
		if netParams.Network != dagconfig.Devnet && netParams.Network != dagconfig.Simnet {
			return nil, errors.New("--override-difficulty-window is only allowed on devnet or simnet")
		}
		netParams.DifficultyAdjustmentWindowSize = cfg.OverrideDifficultyWindow
	}
	if cfg.OverrideTargetBlockTimeMilliseconds != 0 {
		if netParams.Network != dagconfig.Devnet && netParams.Network != dagconfig.Simnet {
			return nil, errors.New("--override-target-block-time is only allowed on devnet or simnet")
		}
		netParams.TargetBlockTimeMilliseconds = cfg.OverrideTargetBlockTimeMilliseconds
	}
	cfg.NetParams = &netParams

	cfg.DataDir = filepath.Join(cfg.DataDir, netParams.Name, defaultDataDirname)
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}

	logFile := filepath.Join(cfg.LogDir, netParams.Name, defaultLogFilename)
	errLogFile := filepath.Join(cfg.LogDir, netParams.Name, defaultErrLogFilename)
	logger.InitLogRotators(logFile, errLogFile)

	debugLevel := cfg.DebugLevel
	if debugLevel == "" {
		debugLevel = defaultLogLevel
	}
	if err := logger.ParseAndSetDebugLevels(debugLevel); err != nil {
		return nil, err
	}

	activeConfig = cfg
	return cfg, nil
}
