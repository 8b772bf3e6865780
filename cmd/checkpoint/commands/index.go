package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/internal/blockindex"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/libs/log"
	"github.com/tendermint/checkpoint/types"
)

// MakeIndexCommand returns the set of commands that maintain and query the
// persisted block index.
func MakeIndexCommand(conf *config.Config, logger log.Logger, dbProvider config.DBProvider) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Maintain and query the block index",
	}

	indexCmd.AddCommand(
		makeIndexAddCommand(conf, logger, dbProvider),
		makeIndexSetMainChainCommand(conf, logger, dbProvider),
		makeIndexTipCommand(conf, dbProvider),
		makeIndexLastCommand(conf, logger, dbProvider),
	)
	return indexCmd
}

func makeIndexAddCommand(conf *config.Config, logger log.Logger, dbProvider config.DBProvider) *cobra.Command {
	var (
		height    int64
		hashHex   string
		chainTx   int64
		blockTime string
		mainChain bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a block in the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := types.HashFromHex(hashHex)
			if err != nil {
				return err
			}
			ts, err := parseTime(blockTime)
			if err != nil {
				return err
			}

			index, closeDB, err := openBlockIndex(conf, dbProvider)
			if err != nil {
				return err
			}
			defer closeDB()

			n := &blockindex.Node{
				Height:    height,
				BlockHash: hash,
				ChainTx:   chainTx,
				Timestamp: ts,
				MainChain: mainChain,
			}
			if err := index.Save(n); err != nil {
				return err
			}
			logger.Info("indexed block", "height", height, "hash", hash, "main_chain", mainChain)
			return nil
		},
	}

	cmd.Flags().Int64Var(&height, "height", 0, "block height")
	cmd.Flags().StringVar(&hashHex, "hash", "", "block hash in hex")
	cmd.Flags().Int64Var(&chainTx, "tx", 0, "transactions from genesis up to and including the block")
	cmd.Flags().StringVar(&blockTime, "time", "0", "block timestamp (unix seconds or RFC 3339)")
	cmd.Flags().BoolVar(&mainChain, "main-chain", true, "whether the block is on the main chain")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}

func makeIndexSetMainChainCommand(conf *config.Config, logger log.Logger, dbProvider config.DBProvider) *cobra.Command {
	var onMainChain bool

	cmd := &cobra.Command{
		Use:   "set-main-chain [hash]",
		Short: "Move an indexed block on or off the main chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := types.HashFromHex(args[0])
			if err != nil {
				return err
			}

			index, closeDB, err := openBlockIndex(conf, dbProvider)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := index.SetMainChain(hash, onMainChain); err != nil {
				return err
			}
			logger.Info("updated main chain flag", "hash", hash, "main_chain", onMainChain)
			return nil
		},
	}

	cmd.Flags().BoolVar(&onMainChain, "on", true, "put the block on (true) or off (false) the main chain")
	return cmd
}

func makeIndexTipCommand(conf *config.Config, dbProvider config.DBProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Print the main-chain block with the most transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, closeDB, err := openBlockIndex(conf, dbProvider)
			if err != nil {
				return err
			}
			defer closeDB()

			tip, err := index.Tip()
			if err != nil {
				return err
			}
			if tip == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no main-chain blocks indexed")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatNode(tip))
			return nil
		},
	}
}

func makeIndexLastCommand(conf *config.Config, logger log.Logger, dbProvider config.DBProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Print the highest checkpoints found in the index",
		Long: `Prints the highest enforced checkpoint present in the index, the hash of the
highest checkpoint on the main chain (the genesis hash if none is), and the
highest compiled checkpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := checkpoints.NewFromConfig(conf, logger, checkpoints.NopMetrics())
			if err != nil {
				return err
			}
			genesis, err := genesisHash(conf, cp)
			if err != nil {
				return err
			}

			index, closeDB, err := openBlockIndex(conf, dbProvider)
			if err != nil {
				return err
			}
			defer closeDB()

			out := cmd.OutOrStdout()
			if last := cp.LastCheckpoint(index); last != nil {
				fmt.Fprintf(out, "last checkpoint:           %v\n", last.Hash())
			} else {
				fmt.Fprintln(out, "last checkpoint:           none")
			}
			fmt.Fprintf(out, "last available checkpoint: %v\n", cp.LastAvailableCheckpointHash(index, genesis))
			fmt.Fprintf(out, "latest hardened checkpoint: %v\n", cp.LatestHardenedCheckpointHash())
			return nil
		},
	}
}
