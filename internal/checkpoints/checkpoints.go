// Package checkpoints holds the checkpoint tables a node trusts without
// re-verifying blocks, and the queries the block acceptance pipeline and the
// sync progress reporting run against them.
//
// All data is immutable once a Checkpoints value is built, so every method is
// safe for concurrent use without locking.
package checkpoints

import (
	"github.com/tendermint/checkpoint/libs/log"
)

// Option sets a parameter of Checkpoints.
type Option func(*Checkpoints)

// WithEnforcement enables or disables checkpoint enforcement. Enforcement is
// on by default.
func WithEnforcement(enabled bool) Option {
	return func(cp *Checkpoints) {
		cp.enabled = enabled
	}
}

// WithData replaces the compiled-in data of the network, e.g. with a table
// loaded by LoadDataFile.
func WithData(d *Data) Option {
	return func(cp *Checkpoints) {
		cp.data = d
	}
}

// WithLogger sets the logger. Default: nop logger.
func WithLogger(l log.Logger) Option {
	return func(cp *Checkpoints) {
		cp.logger = l
	}
}

// WithMetrics sets the metrics. Default: NopMetrics.
func WithMetrics(m *Metrics) Option {
	return func(cp *Checkpoints) {
		cp.metrics = m
	}
}

// Checkpoints binds the checkpoint data of one network together with the
// enforcement switch.
type Checkpoints struct {
	network Network
	data    *Data
	enabled bool

	logger  log.Logger
	metrics *Metrics
}

// New returns Checkpoints for the given network.
func New(network Network, options ...Option) *Checkpoints {
	cp := &Checkpoints{
		network: network,
		data:    DataFor(network),
		enabled: true,
		logger:  log.NewNopLogger(),
		metrics: NopMetrics(),
	}
	for _, o := range options {
		o(cp)
	}

	cp.logger = cp.logger.With("module", "checkpoints", "network", network.String())
	cp.metrics.TotalBlocksEstimate.Set(float64(cp.TotalBlocksEstimate()))

	return cp
}

// Network returns the network the checkpoints were built for.
func (cp *Checkpoints) Network() Network { return cp.network }

// Data returns the bound checkpoint data. It must not be modified.
func (cp *Checkpoints) Data() *Data { return cp.data }

// Enforced reports whether checkpoints are consulted when accepting blocks.
// They never are on the test network.
func (cp *Checkpoints) Enforced() bool {
	return cp.enabled && cp.network != Testnet
}
