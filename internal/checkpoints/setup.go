package checkpoints

import (
	"fmt"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/libs/log"
)

// NewFromConfig builds Checkpoints from the node configuration: the network,
// the enforcement switch and an optional operator table file.
func NewFromConfig(cfg *config.Config, logger log.Logger, metrics *Metrics) (*Checkpoints, error) {
	network, err := ParseNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}

	options := []Option{
		WithEnforcement(cfg.Checkpoints.Enable),
		WithLogger(logger),
		WithMetrics(metrics),
	}

	if cfg.Checkpoints.TableFile != "" {
		data, err := LoadDataFile(cfg.Checkpoints.TableFilePath())
		if err != nil {
			return nil, fmt.Errorf("checkpoints: %w", err)
		}
		logger.Info("loaded checkpoint table",
			"file", cfg.Checkpoints.TableFilePath(),
			"checkpoints", data.Table.Len(),
			"last_height", data.Table.Last().Height)
		options = append(options, WithData(data))
	}

	return New(network, options...), nil
}
