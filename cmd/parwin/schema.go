package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/parwin/output"
	"github.com/vegasq/parwin/reader"
	"github.com/vegasq/parwin/window"
)

var schemaColumns = []string{"name", "type", "physical_type", "logical_type", "optional", "repeated", "numeric", "orderable"}

func newSchemaCmd(root *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema <file.parquet|glob>",
		Short: "Show the columns of a Parquet file",
		Long: `Show the leaf columns of a Parquet file with their types and whether they can
be used for ordering and numeric aggregates. For glob patterns the first match is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			initLogger(cfg)

			path, err := resolveSchemaPath(cmd, args[0])
			if err != nil {
				return err
			}
			tbl, err := schemaTable(path)
			if err != nil {
				return err
			}

			formatter, err := output.New(cfg.Output.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return formatter.Format(tbl)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: jsonl, json, csv, table")
	return cmd
}

// resolveSchemaPath returns the first file matching pattern
func resolveSchemaPath(cmd *cobra.Command, pattern string) (string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		return pattern, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > 1 {
		fmt.Fprintf(cmd.ErrOrStderr(), "# Showing schema from: %s (%d files matched)\n", matches[0], len(matches))
	}
	return matches[0], nil
}

func schemaTable(path string) (*window.Table, error) {
	infos, err := reader.ExtractSchemaInfo(path)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, len(infos))
	for i, info := range infos {
		var logical interface{}
		if info.LogicalType != "" {
			logical = info.LogicalType
		}
		rows[i] = []interface{}{
			info.Name, info.Type, info.PhysicalType, logical,
			info.Optional, info.Repeated, info.Numeric, info.Orderable,
		}
	}
	return window.NewTable(schemaColumns, rows)
}
