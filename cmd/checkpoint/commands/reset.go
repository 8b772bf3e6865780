package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/libs/log"
)

// MakeResetCommand constructs a command that removes the block index of the
// home directory.
func MakeResetCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Removes the persisted block index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ResetBlockIndex(conf.DBDir(), logger)
		},
	}
}

// ResetBlockIndex removes the block index database under dbDir and recreates
// an empty dbDir.
func ResetBlockIndex(dbDir string, logger log.Logger) error {
	indexDB := filepath.Join(dbDir, config.BlockIndexDBID+".db")

	if _, err := os.Stat(indexDB); err == nil {
		if err := os.RemoveAll(indexDB); err != nil {
			logger.Error("error removing block index", "dir", indexDB, "err", err)
			return err
		}
		logger.Info("Removed block index", "dir", indexDB)
	}

	return os.MkdirAll(dbDir, 0700)
}
