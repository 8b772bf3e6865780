package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/tendermint/checkpoint/types"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	// NetworkMainnet enforces the production checkpoint table.
	NetworkMainnet = "mainnet"
	// NetworkTestnet never enforces checkpoints.
	NetworkTestnet = "testnet"

	// DefaultLogLevel defines a default log level as INFO.
	DefaultLogLevel = "info"
)

// NOTE: Most of the structs & relevant comments + the
// default configuration options were used to manually
// generate the config.toml. Please reflect any changes
// made here in the defaultConfigTemplate constant in
// config/toml.go
var (
	DefaultCheckpointDir = ".checkpoint"
	defaultConfigDir     = "config"
	defaultDataDir       = "data"

	defaultConfigFileName = "config.toml"

	defaultConfigFilePath = filepath.Join(defaultConfigDir, defaultConfigFileName)
)

// Config defines the top level configuration of the checkpoint tool.
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	// Options for services
	Checkpoints     *CheckpointsConfig     `mapstructure:"checkpoints"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseConfig:      DefaultBaseConfig(),
		Checkpoints:     DefaultCheckpointsConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
	}
}

// TestConfig returns a configuration that can be used for testing
func TestConfig() *Config {
	return &Config{
		BaseConfig:      TestBaseConfig(),
		Checkpoints:     TestCheckpointsConfig(),
		Instrumentation: TestInstrumentationConfig(),
	}
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	cfg.Checkpoints.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		return err
	}
	if err := cfg.Checkpoints.ValidateBasic(); err != nil {
		return pkgerrors.Wrap(err, "error in [checkpoints] section")
	}
	return pkgerrors.Wrap(
		cfg.Instrumentation.ValidateBasic(),
		"error in [instrumentation] section",
	)
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration.
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Network selects the compiled checkpoint table: mainnet | testnet
	Network string `mapstructure:"network"`

	// Hash of the genesis block, returned when no checkpoint is available.
	// Empty means the height 0 checkpoint of the selected table.
	GenesisHash string `mapstructure:"genesis-hash"`

	// Database backend: goleveldb | cleveldb | boltdb | rocksdb | badgerdb | memdb
	DBBackend string `mapstructure:"db-backend"`

	// Database directory
	DBPath string `mapstructure:"db-dir"`

	// Output level for logging
	LogLevel string `mapstructure:"log-level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log-format"`
}

// DefaultBaseConfig returns a default base configuration.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Network:   NetworkMainnet,
		LogLevel:  DefaultLogLevel,
		LogFormat: LogFormatPlain,
		DBBackend: "goleveldb",
		DBPath:    defaultDataDir,
	}
}

// TestBaseConfig returns a base configuration for testing.
func TestBaseConfig() BaseConfig {
	cfg := DefaultBaseConfig()
	cfg.DBBackend = "memdb"
	return cfg
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg BaseConfig) ValidateBasic() error {
	switch cfg.LogFormat {
	case LogFormatPlain, LogFormatJSON:
	default:
		return errors.New("unknown log format (must be 'plain' or 'json')")
	}

	switch cfg.Network {
	case NetworkMainnet, NetworkTestnet:
	default:
		return fmt.Errorf("unknown network %q (must be %q or %q)", cfg.Network, NetworkMainnet, NetworkTestnet)
	}

	if cfg.GenesisHash != "" {
		if _, err := types.HashFromHex(cfg.GenesisHash); err != nil {
			return pkgerrors.Wrap(err, "invalid genesis-hash")
		}
	}
	return nil
}

//-----------------------------------------------------------------------------
// CheckpointsConfig

// CheckpointsConfig defines the configuration of checkpoint enforcement.
type CheckpointsConfig struct {
	RootDir string `mapstructure:"home"`

	// Reject blocks that contradict a checkpoint. Has no effect on testnet.
	Enable bool `mapstructure:"enable"`

	// Optional TOML file replacing the compiled table of the selected
	// network. Relative paths are resolved against the home directory.
	TableFile string `mapstructure:"table-file"`

	// How often the serve command re-estimates sync progress.
	ProgressInterval time.Duration `mapstructure:"progress-interval"`
}

// DefaultCheckpointsConfig returns a default configuration for checkpoint
// enforcement.
func DefaultCheckpointsConfig() *CheckpointsConfig {
	return &CheckpointsConfig{
		Enable:           true,
		ProgressInterval: 10 * time.Second,
	}
}

// TestCheckpointsConfig returns a configuration for testing.
func TestCheckpointsConfig() *CheckpointsConfig {
	cfg := DefaultCheckpointsConfig()
	cfg.ProgressInterval = 100 * time.Millisecond
	return cfg
}

// TableFilePath returns the full path to the operator table file.
func (cfg *CheckpointsConfig) TableFilePath() string {
	return rootify(cfg.TableFile, cfg.RootDir)
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *CheckpointsConfig) ValidateBasic() error {
	if cfg.ProgressInterval <= 0 {
		return errors.New("progress-interval must be positive")
	}
	return nil
}

//-----------------------------------------------------------------------------
// InstrumentationConfig

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	// When true, Prometheus metrics are served under /metrics on
	// PrometheusListenAddr.
	Prometheus bool `mapstructure:"prometheus"`

	// Address to listen for Prometheus collector(s) connections.
	PrometheusListenAddr string `mapstructure:"prometheus-listen-addr"`

	// Maximum number of simultaneous connections.
	// 0 - unlimited.
	MaxOpenConnections int `mapstructure:"max-open-connections"`

	// Instrumentation namespace.
	Namespace string `mapstructure:"namespace"`
}

// DefaultInstrumentationConfig returns a default configuration for metrics
// reporting.
func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus:           false,
		PrometheusListenAddr: ":26660",
		MaxOpenConnections:   3,
		Namespace:            "checkpoint",
	}
}

// TestInstrumentationConfig returns a default configuration for metrics
// reporting.
func TestInstrumentationConfig() *InstrumentationConfig {
	return DefaultInstrumentationConfig()
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *InstrumentationConfig) ValidateBasic() error {
	if cfg.MaxOpenConnections < 0 {
		return errors.New("max-open-connections can't be negative")
	}
	return nil
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
