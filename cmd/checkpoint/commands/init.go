package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/libs/log"
)

// MakeInitCommand returns the command that writes the config file of the
// home directory, and optionally an editable copy of the compiled checkpoint
// table.
func MakeInitCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	var withTable bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the checkpoint home directory",
		Long: `Writes config/config.toml with the current settings, overwriting any
previous file. With --with-table the compiled checkpoint table of the selected
network is exported to checkpoint_table.toml and referenced from the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if withTable {
				if conf.Checkpoints.TableFile == "" {
					conf.Checkpoints.TableFile = defaultTableFile
				}
				if err := exportCompiledTable(conf); err != nil {
					return err
				}
				logger.Info("exported checkpoint table", "path", conf.Checkpoints.TableFilePath())
			}

			if err := config.WriteConfigFile(conf.RootDir, conf); err != nil {
				return err
			}
			logger.Info("wrote config", "home", conf.RootDir, "network", conf.Network)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTable, "with-table", false, "export the compiled checkpoint table for editing")
	return cmd
}

const defaultTableFile = "checkpoint_table.toml"

// exportCompiledTable writes the compiled data of the configured network to
// the table file, refusing to overwrite an existing one.
func exportCompiledTable(conf *config.Config) error {
	path := conf.Checkpoints.TableFilePath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("checkpoint table %s already exists", path)
	}

	network, err := checkpoints.ParseNetwork(conf.Network)
	if err != nil {
		return err
	}
	return checkpoints.WriteDataFile(path, checkpoints.DataFor(network))
}
