// Package config loads gridedit CLI configuration from gridedit.yaml,
// GRIDEDIT_ environment variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/javajack/gridedit"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// config file is given.
const DefaultConfigFile = "gridedit.yaml"

// Config is the CLI configuration.
type Config struct {
	Sheet          string          `koanf:"sheet"`
	IDColumn       string          `koanf:"id_column"`
	ReadOnlyFields []string        `koanf:"read_only_fields"`
	History        HistoryConfig   `koanf:"history"`
	Aggregate      AggregateConfig `koanf:"aggregate"`
	Locale         string          `koanf:"locale"`
	LogLevel       string          `koanf:"log_level"`
}

// HistoryConfig configures undo history.
type HistoryConfig struct {
	MaxEntries  int           `koanf:"max_entries"`
	MergeWindow time.Duration `koanf:"merge_window"`
}

// AggregateConfig configures column summaries.
type AggregateConfig struct {
	Mode string `koanf:"mode"`
}

// flagKeys maps flag names to config keys where they differ from the
// kebab-to-snake conversion.
var flagKeys = map[string]string{
	"read-only":    "read_only_fields",
	"max-history":  "history.max_entries",
	"merge-window": "history.merge_window",
	"mode":         "aggregate.mode",
}

// Load reads configuration. Precedence (highest to lowest):
// flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"history.max_entries":  gridedit.DefaultMaxHistory,
		"history.merge_window": gridedit.DefaultMergeWindow.String(),
		"aggregate.mode":       "sum",
		"locale":               "en",
		"log_level":            "warn",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// GRIDEDIT_HISTORY__MAX_ENTRIES -> history.max_entries
	if err := k.Load(env.Provider("GRIDEDIT_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "GRIDEDIT_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries)
	}
	if c.History.MergeWindow < 0 {
		return fmt.Errorf("history.merge_window must not be negative, got %s", c.History.MergeWindow)
	}
	if _, err := gridedit.ParseAggregationMode(c.Aggregate.Mode); err != nil {
		return fmt.Errorf("aggregate.mode: %w", err)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// AggregationMode returns the configured mode.
func (c *Config) AggregationMode() gridedit.AggregationMode {
	m, _ := gridedit.ParseAggregationMode(c.Aggregate.Mode)
	return m
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

// SessionOptions translates the configuration into session options.
func (c *Config) SessionOptions(logger gridedit.Logger) []gridedit.Option {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		tag = language.English
	}
	return []gridedit.Option{
		gridedit.WithLogger(logger),
		gridedit.WithReadOnlyFields(c.ReadOnlyFields...),
		gridedit.WithMaxHistory(c.History.MaxEntries),
		gridedit.WithMergeWindow(c.History.MergeWindow),
		gridedit.WithLocale(tag),
	}
}

// WorkbookOptions translates the configuration into workbook options.
func (c *Config) WorkbookOptions() []gridedit.WorkbookOption {
	return []gridedit.WorkbookOption{
		gridedit.WithSheet(c.Sheet),
		gridedit.WithIDColumn(c.IDColumn),
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log_level %q (must be debug, info, warn or error)", s)
}
