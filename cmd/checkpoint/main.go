package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tendermint/checkpoint/cmd/checkpoint/commands"
	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/libs/cli"
	"github.com/tendermint/checkpoint/libs/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conf, err := commands.ParseConfig(config.DefaultConfig())
	if err != nil {
		panic(err)
	}

	logger, err := log.NewDefaultLogger(conf.LogFormat, conf.LogLevel)
	if err != nil {
		panic(err)
	}

	dbProvider := config.DefaultDBProvider

	rcmd := commands.RootCommand(conf, logger)
	rcmd.AddCommand(
		commands.MakeInitCommand(conf, logger),
		commands.MakeShowTableCommand(conf, logger),
		commands.MakeCheckBlockCommand(conf, logger),
		commands.MakeEstimateProgressCommand(conf, logger, dbProvider),
		commands.MakeIndexCommand(conf, logger, dbProvider),
		commands.MakeExportTableCommand(conf, logger),
		commands.MakeServeCommand(conf, logger, dbProvider),
		commands.MakeResetCommand(conf, logger),
		commands.VersionCmd,
	)

	if err := cli.RunWithTrace(ctx, rcmd); err != nil {
		os.Exit(2)
	}
}
