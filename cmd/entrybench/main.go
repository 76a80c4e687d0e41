// Command entrybench hammers a single timed entry from many goroutines and
// verifies that concurrent writes form one total order while a poller plays
// the scheduler and evicts the entry once its deadline passes.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()
	var debug bool

	cmd := &cobra.Command{
		Use:           "entrybench",
		Short:         "Stress a timed-eviction entry and verify its write ordering",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(debug)
			if err != nil {
				return errors.Wrap(err, "build logger")
			}
			defer func() { _ = log.Sync() }()

			rep, err := run(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			rep.print(cmd.OutOrStdout())
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of worker goroutines")
	f.IntVar(&cfg.Ops, "ops", cfg.Ops, "operations per worker")
	f.IntVar(&cfg.ReadPct, "reads", cfg.ReadPct, "read percentage [0..100]")
	f.Int64Var(&cfg.TTLMs, "ttl", cfg.TTLMs, "entry TTL in milliseconds (0 = never expires)")
	f.DurationVar(&cfg.Poll, "poll", cfg.Poll, "scheduler poll interval")
	f.BoolVar(&debug, "debug", false, "development logger at debug level")
	return cmd
}

func defaultConfig() config {
	return config{
		Workers: 2 * runtime.GOMAXPROCS(0),
		Ops:     100_000,
		ReadPct: 80,
		TTLMs:   200,
		Poll:    5 * time.Millisecond,
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
