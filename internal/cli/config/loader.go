package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/sqlidator/sqlidator/internal/report"
	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store config in context.
type configKey struct{}

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "SQLIDATOR_"

// configFileNames are searched in the working directory, in order.
var configFileNames = []string{"sqlidator.yaml", "sqlidator.yml"}

// sections are the nested key groups. SQLIDATOR_REPORT_FORMAT maps to
// report.format rather than report_format.
var sections = []string{"report", "server"}

// flagKeys maps flag names that differ from their config key.
var flagKeys = map[string]string{
	"report":           "report.format",
	"report-output":    "report.output",
	"addr":             "server.addr",
	"shutdown-timeout": "server.shutdown_timeout",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile finds the config file to use.
// Priority: explicit path > sqlidator.yaml > sqlidator.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// Defaults returns the configuration used when no other source sets a key.
func Defaults() *Config {
	return &Config{
		Dialect:     dialect.DefaultName,
		Output:      DefaultOutput,
		Concurrency: DefaultConcurrency,
		Report: ReportConfig{
			Output: DefaultReportOutput,
		},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}

// envKey transforms SQLIDATOR_SERVER_ADDR into server.addr.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// FlagKey returns the config key a command line flag sets.
func FlagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// reportFormatHook decodes format names and aliases into report.Format.
func reportFormatHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(report.Format("")) {
		return data, nil
	}
	name, _ := data.(string)
	if name == "" {
		return report.Format(""), nil
	}
	return report.ParseFormat(name)
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	def := Defaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dialect":                 def.Dialect,
		"output":                  def.Output,
		"verbose":                 false,
		"normalize":               false,
		"concurrency":             def.Concurrency,
		"report.format":           "",
		"report.output":           def.Report.Output,
		"server.addr":             def.Server.Addr,
		"server.shutdown_timeout": def.Server.ShutdownTimeout.String(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (SQLIDATOR_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			return FlagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				reportFormatHook,
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Dialect = strings.ToLower(strings.TrimSpace(cfg.Dialect))
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from ctx, falling back to the last
// loaded config and then to defaults.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	if currentConfig != nil {
		return currentConfig
	}
	return Defaults()
}
