package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/internal/blockindex"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/libs/log"
)

// MakeEstimateProgressCommand returns the command that prints the estimated
// initial sync progress, either of an explicit block or of the tip of the
// block index.
func MakeEstimateProgressCommand(conf *config.Config, logger log.Logger, dbProvider config.DBProvider) *cobra.Command {
	var (
		chainTx   int64
		blockTime string
		now       string
	)

	cmd := &cobra.Command{
		Use:   "estimate-progress",
		Short: "Estimate the fraction of the initial sync that is verified",
		Long: `Estimates sync progress at the block with --tx transactions since genesis and
timestamp --time. Without those flags the tip of the block index is used.`,
		Example: `
	checkpoint estimate-progress --tx 93239 --time 1411478807
	checkpoint estimate-progress --tx 50000 --time 2014-09-01T00:00:00Z --now 2014-10-01T00:00:00Z
	`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := checkpoints.NewFromConfig(conf, logger, checkpoints.NopMetrics())
			if err != nil {
				return err
			}

			at := time.Now()
			if now != "" {
				if at, err = parseTime(now); err != nil {
					return err
				}
			}

			var node *blockindex.Node
			switch {
			case cmd.Flags().Changed("tx"):
				if blockTime == "" {
					return errors.New("--time is required with --tx")
				}
				if chainTx < 0 {
					return fmt.Errorf("negative chain tx count %d", chainTx)
				}
				ts, err := parseTime(blockTime)
				if err != nil {
					return err
				}
				node = &blockindex.Node{ChainTx: chainTx, Timestamp: ts, MainChain: true}
			default:
				index, closeDB, err := openBlockIndex(conf, dbProvider)
				if err != nil {
					return err
				}
				defer closeDB()

				if node, err = index.Tip(); err != nil {
					return err
				}
				if node == nil {
					return errors.New("block index is empty; pass --tx and --time")
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", cp.EstimateProgress(node, at))
			return nil
		},
	}

	cmd.Flags().Int64Var(&chainTx, "tx", 0, "transactions from genesis up to and including the block")
	cmd.Flags().StringVar(&blockTime, "time", "", "block timestamp (unix seconds or RFC 3339)")
	cmd.Flags().StringVar(&now, "now", "", "evaluation time (unix seconds or RFC 3339, default current time)")
	return cmd
}
