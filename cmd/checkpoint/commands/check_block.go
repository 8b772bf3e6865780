package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/libs/log"
	"github.com/tendermint/checkpoint/types"
)

// MakeCheckBlockCommand returns the command that runs a single block through
// checkpoint verification.
func MakeCheckBlockCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	var (
		height  int64
		hashHex string
	)

	cmd := &cobra.Command{
		Use:   "check-block",
		Short: "Check whether a block at a height is acceptable under the checkpoints",
		Example: `
	checkpoint check-block --height 0 --hash 00000496D303AE6E6ED9D474639F18B3FDF70166C8D89D1267BBF5FD640E1690
	`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if height < 0 {
				return fmt.Errorf("negative height %d", height)
			}
			hash, err := types.HashFromHex(hashHex)
			if err != nil {
				return err
			}

			cp, err := checkpoints.NewFromConfig(conf, logger, checkpoints.NopMetrics())
			if err != nil {
				return err
			}

			if err := cp.VerifyBlock(height, hash); err != nil {
				var mismatch checkpoints.ErrCheckpointMismatch
				if errors.As(err, &mismatch) {
					fmt.Fprintf(cmd.OutOrStdout(), "rejected: checkpoint at height %d is %v\n", mismatch.Height, mismatch.Want)
				}
				return err
			}

			if want, ok := cp.Data().Table.Lookup(height); ok && cp.Enforced() && want == hash {
				fmt.Fprintf(cmd.OutOrStdout(), "accepted: matches checkpoint at height %d\n", height)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "accepted")
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&height, "height", 0, "block height")
	cmd.Flags().StringVar(&hashHex, "hash", "", "block hash in hex")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}
