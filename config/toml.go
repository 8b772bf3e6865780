package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// defaultDirPerm is the default permissions used when creating directories.
const defaultDirPerm = 0700

var configTemplate *template.Template

func init() {
	var err error
	tmpl := template.New("configFileTemplate")
	if configTemplate, err = tmpl.Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

/****** these are for production settings ***********/

// EnsureRoot creates the root, config, and data directories if they don't exist,
// and writes the default config file if there is none. It panics if it fails.
func EnsureRoot(rootDir string) {
	for _, dir := range []string{
		rootDir,
		filepath.Join(rootDir, defaultConfigDir),
		filepath.Join(rootDir, defaultDataDir),
	} {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			panic(fmt.Sprintf("could not create directory %v: %v", dir, err))
		}
	}

	if err := writeDefaultConfigFileIfNone(rootDir); err != nil {
		panic(err)
	}
}

// WriteConfigFile renders config using the template and writes it to
// the config file under rootDir.
func WriteConfigFile(rootDir string, config *Config) error {
	return config.WriteToTemplate(filepath.Join(rootDir, defaultConfigFilePath))
}

// WriteToTemplate writes the config to the exact file specified by
// the path, in the default toml template and does not mangle the path
// or filename at all.
func (cfg *Config) WriteToTemplate(path string) error {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, cfg); err != nil {
		return err
	}

	return os.WriteFile(path, buffer.Bytes(), 0644)
}

func writeDefaultConfigFileIfNone(rootDir string) error {
	configFilePath := filepath.Join(rootDir, defaultConfigFilePath)
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		return WriteConfigFile(rootDir, DefaultConfig())
	}
	return nil
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

# NOTE: Any path below can be absolute (e.g. "/var/checkpoint/data") or
# relative to the home directory (e.g. "data"). The home directory is
# "$HOME/.checkpoint" by default, but could be changed via $CPHOME env variable
# or --home cmd flag.

#######################################################################
###                   Main Base Config Options                      ###
#######################################################################

# Network whose compiled checkpoint table is trusted: mainnet | testnet
# Checkpoints are never enforced on testnet.
network = "{{ .BaseConfig.Network }}"

# Hash of the genesis block, in hex. Empty means the height 0 checkpoint
# of the selected table.
genesis-hash = "{{ .BaseConfig.GenesisHash }}"

# Database backend: goleveldb | cleveldb | boltdb | rocksdb | badgerdb | memdb
db-backend = "{{ .BaseConfig.DBBackend }}"

# Database directory
db-dir = "{{ js .BaseConfig.DBPath }}"

# Output level for logging: debug | info | error
log-level = "{{ .BaseConfig.LogLevel }}"

# Output format: 'plain' (colored text) or 'json'
log-format = "{{ .BaseConfig.LogFormat }}"

#######################################################
###         Checkpoint Configuration Options        ###
#######################################################
[checkpoints]

# Reject blocks that contradict a checkpoint
enable = {{ .Checkpoints.Enable }}

# Optional TOML file replacing the compiled checkpoint table
table-file = "{{ js .Checkpoints.TableFile }}"

# How often the serve command re-estimates sync progress
progress-interval = "{{ .Checkpoints.ProgressInterval }}"

#######################################################
###       Instrumentation Configuration Options     ###
#######################################################
[instrumentation]

# When true, Prometheus metrics are served under /metrics on
# PrometheusListenAddr.
# Check out the documentation for the list of available metrics.
prometheus = {{ .Instrumentation.Prometheus }}

# Address to listen for Prometheus collector(s) connections
prometheus-listen-addr = "{{ .Instrumentation.PrometheusListenAddr }}"

# Maximum number of simultaneous connections.
# 0 - unlimited.
max-open-connections = {{ .Instrumentation.MaxOpenConnections }}

# Instrumentation namespace
namespace = "{{ .Instrumentation.Namespace }}"
`

/****** these are for test settings ***********/

// ResetTestRoot creates a fresh root directory for a test, writes the test
// config into it and returns that config.
func ResetTestRoot(dir, testName string) (*Config, error) {
	rootDir, err := os.MkdirTemp(dir, fmt.Sprintf("%s-%s_", "config", testName))
	if err != nil {
		return nil, err
	}

	conf := TestConfig()
	conf.SetRoot(rootDir)
	EnsureRoot(rootDir)

	if err := WriteConfigFile(rootDir, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
