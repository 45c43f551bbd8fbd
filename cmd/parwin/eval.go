package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vegasq/parwin/internal/config"
	"github.com/vegasq/parwin/internal/logger"
	"github.com/vegasq/parwin/internal/metrics"
	"github.com/vegasq/parwin/output"
	"github.com/vegasq/parwin/reader"
	"github.com/vegasq/parwin/window"
)

type evalFlags struct {
	format      string
	limit       int
	workers     int
	metricsAddr string
}

func newEvalCmd(root *rootFlags) *cobra.Command {
	flags := &evalFlags{}

	cmd := &cobra.Command{
		Use:   "eval <file.parquet|glob>",
		Short: "Evaluate the configured window expressions",
		Example: `  parwin eval -c exprs.yaml data.parquet
  parwin eval -c exprs.yaml -f table --limit 20 'data/*.parquet'
  parwin eval -c exprs.yaml --workers 8 --metrics-addr :9090 data.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			initLogger(cfg)
			return runEval(cmd, cfg, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: jsonl, json, csv, table")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Limit number of rows (0 = unlimited)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Partition workers (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}

// apply overrides config values with the flags given on the command line
func (f *evalFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = f.format
	}
	if cmd.Flags().Changed("limit") {
		cfg.Output.Limit = f.limit
	}
	if cmd.Flags().Changed("workers") {
		cfg.Engine.Workers = f.workers
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
}

func runEval(cmd *cobra.Command, cfg *config.Config, pattern string) error {
	ctx := cmd.Context()

	exprs, err := cfg.Expressions()
	if err != nil {
		return err
	}

	formatter, err := output.New(cfg.Output.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	tbl, err := reader.ReadMultipleFiles(pattern)
	if err != nil {
		return err
	}
	logger.Debug("rows loaded", "source", pattern, "rows", tbl.Len(), "columns", len(tbl.Columns()))

	engine, err := window.New(
		window.WithConfig(cfg.Engine.WindowConfig()),
		window.WithLogger(logger.Get()),
		window.WithRecorder(metrics.Default()),
	)
	if err != nil {
		return err
	}
	defer engine.Close()

	rs, err := engine.Evaluate(ctx, tbl, exprs)
	if err != nil {
		var cfgErr *window.ConfigError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("invalid expression: %w", err)
		}
		if errors.Is(err, context.Canceled) {
			logger.Warn("evaluation interrupted", "source", pattern)
		}
		return err
	}

	return formatter.Format(output.Head(rs, cfg.Output.Limit))
}

// serveMetrics exposes /metrics on addr until the returned server is shut down
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return srv
}
