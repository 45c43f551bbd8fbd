// Package config loads parwin settings and window expressions with viper.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/vegasq/parwin/output"
	"github.com/vegasq/parwin/window"
)

// EnvPrefix is the prefix of environment overrides, e.g. PARWIN_ENGINE_WORKERS
const EnvPrefix = "PARWIN"

// Config is the complete parwin configuration
type Config struct {
	Engine      EngineConfig  `mapstructure:"engine"`
	Log         LogConfig     `mapstructure:"log"`
	Output      OutputConfig  `mapstructure:"output"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	Expressions []ExprConfig  `mapstructure:"expressions"`
}

type EngineConfig struct {
	Workers   int `mapstructure:"workers"`
	BatchSize int `mapstructure:"batch_size"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Limit  int    `mapstructure:"limit"` // 0 = all rows
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the /metrics endpoint
}

// ExprConfig is the structured form of one window expression
type ExprConfig struct {
	Name        string        `mapstructure:"name"`
	Func        string        `mapstructure:"func"`
	Column      string        `mapstructure:"column"`
	PartitionBy []string      `mapstructure:"partition_by"`
	OrderBy     []OrderConfig `mapstructure:"order_by"`
	Frame       *FrameConfig  `mapstructure:"frame"`
	Offset      *int64        `mapstructure:"offset"`
	Default     interface{}   `mapstructure:"default"`
	N           int64         `mapstructure:"n"`
}

type OrderConfig struct {
	Column string `mapstructure:"column"`
	Desc   bool   `mapstructure:"desc"`
	Nulls  string `mapstructure:"nulls"` // first, last or empty for the default
}

type FrameConfig struct {
	Mode  string      `mapstructure:"mode"`
	Start BoundConfig `mapstructure:"start"`
	End   BoundConfig `mapstructure:"end"`
}

type BoundConfig struct {
	Type   string `mapstructure:"type"`
	Offset int64  `mapstructure:"offset"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.workers", runtime.GOMAXPROCS(0))
	v.SetDefault("engine.batch_size", window.DefaultBatchSize)
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.add_source", false)
	v.SetDefault("output.format", "jsonl")
	v.SetDefault("output.limit", 0)
	v.SetDefault("metrics.addr", "")
}

// Load reads configuration from path (optional; YAML, JSON or TOML by extension) and
// from PARWIN_* environment variables, which take precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks engine, logging and output settings
func (c *Config) Validate() error {
	var errs []error

	if c.Engine.Workers < 0 {
		errs = append(errs, fmt.Errorf("engine.workers must be non-negative, got %d", c.Engine.Workers))
	}
	if c.Engine.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("engine.batch_size must be non-negative, got %d", c.Engine.BatchSize))
	}

	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("unknown log.level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	if !output.IsSupported(c.Output.Format) {
		errs = append(errs, fmt.Errorf("unknown output.format %q (supported: %s)", c.Output.Format, strings.Join(output.Formats(), ", ")))
	}
	if c.Output.Limit < 0 {
		errs = append(errs, fmt.Errorf("output.limit must be non-negative, got %d", c.Output.Limit))
	}

	return errors.Join(errs...)
}

// WindowConfig returns the engine resource settings
func (c EngineConfig) WindowConfig() window.Config {
	return window.Config{Workers: c.Workers, BatchSize: c.BatchSize}
}

// Expressions converts the configured expressions into window expressions. Names
// are resolved here; column references are checked by the engine.
func (c *Config) Expressions() ([]window.Expr, error) {
	if len(c.Expressions) == 0 {
		return nil, errors.New("no expressions configured")
	}

	exprs := make([]window.Expr, len(c.Expressions))
	for i, ec := range c.Expressions {
		x, err := ec.toExpr()
		if err != nil {
			return nil, fmt.Errorf("expression %d (%s): %w", i, ec.label(), err)
		}
		exprs[i] = x
	}
	return exprs, nil
}

func (ec ExprConfig) label() string {
	if ec.Name != "" {
		return ec.Name
	}
	return ec.Func
}

func (ec ExprConfig) toExpr() (window.Expr, error) {
	kind, err := window.ParseFuncKind(ec.Func)
	if err != nil {
		return window.Expr{}, err
	}

	x := window.Expr{
		Name:    ec.Name,
		Func:    kind,
		Column:  ec.Column,
		Offset:  ec.Offset,
		Default: ec.Default,
		N:       ec.N,
		Spec: window.WindowSpec{
			PartitionBy: ec.PartitionBy,
		},
	}

	for _, oc := range ec.OrderBy {
		nulls, err := window.ParseNullOrder(oc.Nulls)
		if err != nil {
			return window.Expr{}, err
		}
		x.Spec.OrderBy = append(x.Spec.OrderBy, window.OrderKey{Column: oc.Column, Desc: oc.Desc, Nulls: nulls})
	}

	if ec.Frame != nil {
		frame, err := ec.Frame.toFrame()
		if err != nil {
			return window.Expr{}, err
		}
		x.Spec.Frame = &frame
	}
	return x, nil
}

func (fc FrameConfig) toFrame() (window.FrameSpec, error) {
	mode, err := window.ParseFrameMode(fc.Mode)
	if err != nil {
		return window.FrameSpec{}, err
	}
	start, err := window.ParseBoundType(fc.Start.Type)
	if err != nil {
		return window.FrameSpec{}, fmt.Errorf("frame start: %w", err)
	}
	end, err := window.ParseBoundType(fc.End.Type)
	if err != nil {
		return window.FrameSpec{}, fmt.Errorf("frame end: %w", err)
	}
	return window.FrameSpec{
		Mode:  mode,
		Start: window.FrameBound{Type: start, Offset: fc.Start.Offset},
		End:   window.FrameBound{Type: end, Offset: fc.End.Offset},
	}, nil
}
