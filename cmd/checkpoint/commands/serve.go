package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/creachadair/taskgroup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tendermint/checkpoint/config"
	"github.com/tendermint/checkpoint/internal/blockindex"
	"github.com/tendermint/checkpoint/internal/checkpoints"
	"github.com/tendermint/checkpoint/libs/log"
)

const shutdownTimeout = 4 * time.Second

// MakeServeCommand returns the command that keeps estimating the sync
// progress of the block index tip and, when enabled, serves the checkpoint
// metrics to Prometheus until interrupted.
func MakeServeCommand(conf *config.Config, logger log.Logger, dbProvider config.DBProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Report sync progress of the block index until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			metrics := checkpoints.NopMetrics()
			if conf.Instrumentation.Prometheus {
				metrics = checkpoints.PrometheusMetrics(conf.Instrumentation.Namespace, "network", conf.Network)
			}

			cp, err := checkpoints.NewFromConfig(conf, logger, metrics)
			if err != nil {
				return err
			}

			index, closeDB, err := openBlockIndex(conf, dbProvider)
			if err != nil {
				return err
			}
			defer closeDB()

			// the first task to fail stops the others
			g := taskgroup.New(taskgroup.Trigger(cancel))
			if conf.Instrumentation.Prometheus {
				g.Go(func() error {
					return servePrometheus(ctx, conf.Instrumentation, logger)
				})
			}
			g.Go(func() error {
				logger.Info("observing sync progress",
					"interval", conf.Checkpoints.ProgressInterval,
					"enforced", cp.Enforced(),
					"total_blocks_estimate", cp.TotalBlocksEstimate())
				return observeProgress(ctx, cp, index, conf.Checkpoints.ProgressInterval, logger)
			})
			return g.Wait()
		},
	}
}

// observeProgress records the progress of the index tip every interval until
// ctx is done.
func observeProgress(
	ctx context.Context,
	cp *checkpoints.Checkpoints,
	index *blockindex.DBIndex,
	interval time.Duration,
	logger log.Logger,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		tip, err := index.Tip()
		if err != nil {
			return err
		}
		if tip != nil {
			cp.ObserveProgress(tip, time.Now())
		} else {
			logger.Debug("no main-chain blocks indexed yet")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// servePrometheus runs a Prometheus HTTP server, listening for metrics
// collectors on the configured address, until ctx is done.
func servePrometheus(ctx context.Context, conf *config.InstrumentationConfig, logger log.Logger) error {
	srv := &http.Server{
		Addr: conf.PrometheusListenAddr,
		Handler: promhttp.InstrumentMetricHandler(
			prometheus.DefaultRegisterer, promhttp.HandlerFor(
				prometheus.DefaultGatherer,
				promhttp.HandlerOpts{MaxRequestsInFlight: conf.MaxOpenConnections},
			),
		),
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Error("Prometheus HTTP server Shutdown", "err", err)
		}
	}()

	logger.Info("serving metrics", "addr", conf.PrometheusListenAddr)
	err := srv.ListenAndServe()
	close(done)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
