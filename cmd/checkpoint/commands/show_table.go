package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/libs/cli"
	"github.com/tendermint/checkpoint/libs/log"
	"github.com/tendermint/checkpoint/types"
)

type tableEntryView struct {
	Height int64      `json:"height"`
	Hash   types.Hash `json:"hash"`
}

type tableView struct {
	Network               string           `json:"network"`
	Enforced              bool             `json:"enforced"`
	LastCheckpointTime    time.Time        `json:"last_checkpoint_time"`
	LastCheckpointTxCount int64            `json:"last_checkpoint_tx_count"`
	TxPerDay              float64          `json:"tx_per_day"`
	TotalBlocksEstimate   int64            `json:"total_blocks_estimate"`
	Checkpoints           []tableEntryView `json:"checkpoints"`
}

// MakeShowTableCommand returns the command that prints the checkpoint table
// in effect.
func MakeShowTableCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show-table",
		Short: "Print the trusted checkpoint table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := checkpoints.NewFromConfig(conf, logger, checkpoints.NopMetrics())
			if err != nil {
				return err
			}

			d := cp.Data()
			view := tableView{
				Network:               cp.Network().String(),
				Enforced:              cp.Enforced(),
				LastCheckpointTime:    d.LastCheckpointTime.UTC(),
				LastCheckpointTxCount: d.LastCheckpointTxCount,
				TxPerDay:              d.TxPerDay,
				TotalBlocksEstimate:   cp.TotalBlocksEstimate(),
			}
			for _, e := range d.Table.Entries() {
				view.Checkpoints = append(view.Checkpoints, tableEntryView{Height: e.Height, Hash: e.Hash})
			}

			switch output {
			case "json":
				bz, err := json.MarshalIndent(view, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(bz))
				return nil
			case "text":
				return printTableText(cmd, view)
			default:
				return fmt.Errorf("unknown output format %q (must be 'text' or 'json')", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, cli.OutputFlag, "o", "text", "output format: text | json")
	return cmd
}

func printTableText(cmd *cobra.Command, view tableView) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "network:                  %s\n", view.Network)
	fmt.Fprintf(out, "enforced:                 %t\n", view.Enforced)
	fmt.Fprintf(out, "last checkpoint time:     %s\n", view.LastCheckpointTime.Format(time.RFC3339))
	fmt.Fprintf(out, "last checkpoint tx count: %d\n", view.LastCheckpointTxCount)
	fmt.Fprintf(out, "tx per day:               %g\n", view.TxPerDay)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HEIGHT\tHASH")
	for _, e := range view.Checkpoints {
		fmt.Fprintf(w, "%d\t%v\n", e.Height, e.Hash)
	}
	return w.Flush()
}
