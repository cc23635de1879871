// Package logger wires the per-subsystem loggers the consensus core and
// cmd/jiod use, backed by logs.Backend and rotated to disk via
// github.com/jrick/logrotate, exactly as the teacher's logger/logger.go
// wires logs.NewBackend and rotator.New.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jio-labs/jiod/logs"
	"github.com/jrick/logrotate/rotator"
)

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	if initiated {
		os.Stdout.Write(p)
		LogRotator.Write(p)
	}
	return len(p), nil
}

type errLogWriter struct{}

func (errLogWriter) Write(p []byte) (int, error) {
	if initiated {
		os.Stdout.Write(p)
		ErrLogRotator.Write(p)
	}
	return len(p), nil
}

var (
	backendLog = logs.NewBackend([]*logs.BackendWriter{
		logs.NewAllLevelsBackendWriter(logWriter{}),
		logs.NewErrorBackendWriter(errLogWriter{}),
	})

	// LogRotator is the all-levels log output. It must be closed on
	// shutdown.
	LogRotator *rotator.Rotator
	// ErrLogRotator is the errors-and-above log output.
	ErrLogRotator *rotator.Rotator

	consLog = backendLog.Logger(SubsystemTags.CONS)
	gdagLog = backendLog.Logger(SubsystemTags.GDAG)
	utxoLog = backendLog.Logger(SubsystemTags.UTXO)
	vldtLog = backendLog.Logger(SubsystemTags.VLDT)
	pipeLog = backendLog.Logger(SubsystemTags.PIPE)
	diffLog = backendLog.Logger(SubsystemTags.DIFF)

	initiated = false
)

// SubsystemTags enumerates every logging subsystem the core and cmd/jiod
// write to (spec §10.2: CONS, GDAG, UTXO, VLDT, PIPE, DIFF).
var SubsystemTags = struct {
	CONS, GDAG, UTXO, VLDT, PIPE, DIFF string
}{
	CONS: "CONS",
	GDAG: "GDAG",
	UTXO: "UTXO",
	VLDT: "VLDT",
	PIPE: "PIPE",
	DIFF: "DIFF",
}

var subsystemLoggers = map[string]logs.Logger{
	SubsystemTags.CONS: consLog,
	SubsystemTags.GDAG: gdagLog,
	SubsystemTags.UTXO: utxoLog,
	SubsystemTags.VLDT: vldtLog,
	SubsystemTags.PIPE: pipeLog,
	SubsystemTags.DIFF: diffLog,
}

// InitLogRotators must be called before any subsystem logger is used; it
// creates the rotating log files at logFile and errLogFile.
func InitLogRotators(logFile, errLogFile string) {
	initiated = true
	LogRotator = initLogRotator(logFile)
	ErrLogRotator = initLogRotator(errLogFile)
}

func initLogRotator(logFile string) *rotator.Rotator {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %s\n", err)
		os.Exit(1)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %s\n", err)
		os.Exit(1)
	}
	return r
}

// SetLogLevel sets the level of a single subsystem, ignoring unknown tags.
func SetLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, _ := logs.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets every subsystem to the given level.
func SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// Get returns the logger registered for tag.
func Get(tag string) (logs.Logger, bool) {
	logger, ok := subsystemLoggers[tag]
	return logger, ok
}

// SupportedSubsystems returns the known subsystem tags, sorted.
func SupportedSubsystems() []string {
	tags := make([]string, 0, len(subsystemLoggers))
	for tag := range subsystemLoggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ParseAndSetDebugLevels parses a debug level spec — either a bare level
// ("info") or a comma-separated list of subsystem=level pairs
// ("CONS=debug,GDAG=trace") — and applies it.
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if !validLogLevel(debugLevel) {
			return fmt.Errorf("the specified debug level [%s] is invalid", debugLevel)
		}
		SetLogLevels(debugLevel)
		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(pair, "=") {
			return fmt.Errorf("the specified debug level contains an invalid subsystem/level pair [%s]", pair)
		}
		fields := strings.SplitN(pair, "=", 2)
		subsystemID, logLevel := fields[0], fields[1]

		if _, ok := Get(subsystemID); !ok {
			return fmt.Errorf("the specified subsystem [%s] is invalid -- supported subsystems %s",
				subsystemID, strings.Join(SupportedSubsystems(), ", "))
		}
		if !validLogLevel(logLevel) {
			return fmt.Errorf("the specified debug level [%s] is invalid", logLevel)
		}
		SetLogLevel(subsystemID, logLevel)
	}
	return nil
}

func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace", "debug", "info", "warn", "error", "critical":
		return true
	}
	return false
}
