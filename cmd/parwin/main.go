// Command parwin evaluates window functions over Parquet files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vegasq/parwin/internal/config"
	"github.com/vegasq/parwin/internal/logger"
)

// rootFlags are shared by every subcommand
type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "parwin",
		Short: "Evaluate SQL window functions over Parquet files",
		Long: `parwin reads rows from Parquet files and evaluates window functions
(ROW_NUMBER, RANK, SUM ... OVER, LAG, ...) configured in a YAML or JSON file.

Settings can also be given as PARWIN_* environment variables,
e.g. PARWIN_ENGINE_WORKERS=8.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (YAML, JSON or TOML)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: text, json")

	root.AddCommand(newEvalCmd(flags), newSchemaCmd(flags))
	return root
}

// load reads the config file and applies the root flags on top of it
func (f *rootFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) {
	logger.Init(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
