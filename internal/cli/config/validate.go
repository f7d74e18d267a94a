package config

import (
	"fmt"

	"github.com/sqlidator/sqlidator/internal/report"
	"github.com/sqlidator/sqlidator/pkg/dialect"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := dialect.Lookup(c.Dialect); err != nil {
		return fmt.Errorf("dialect: %w", err)
	}

	switch c.Output {
	case OutputAuto, OutputText, OutputMarkdown, OutputJSON:
	default:
		return fmt.Errorf("output: unknown mode %q (want auto, text, markdown or json)", c.Output)
	}

	if c.Report.Enabled() {
		if _, err := report.ParseFormat(string(c.Report.Format)); err != nil {
			return fmt.Errorf("report.format: %w", err)
		}
		if c.Report.Output == "" {
			return fmt.Errorf("report.output is required when report.format is set")
		}
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	return nil
}
