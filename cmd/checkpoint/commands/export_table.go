package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/libs/log"
)

// MakeExportTableCommand returns the command that writes the checkpoint
// table in effect to a TOML file.
func MakeExportTableCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "export-table [path]",
		Short: "Write the trusted checkpoint table to a TOML file",
		Long: `Writes the checkpoint table in effect, compiled or loaded from table-file,
in the format accepted by table-file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "" {
				return errors.New("empty path")
			}

			cp, err := checkpoints.NewFromConfig(conf, logger, checkpoints.NopMetrics())
			if err != nil {
				return err
			}
			if err := checkpoints.WriteDataFile(path, cp.Data()); err != nil {
				return err
			}
			logger.Info("exported checkpoint table", "path", path, "checkpoints", cp.Data().Table.Len())
			return nil
		},
	}
}
