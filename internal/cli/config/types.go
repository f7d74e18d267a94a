// Package config provides configuration management for the sqlidator CLI.
//
// Values are layered from defaults, a sqlidator.yaml file, SQLIDATOR_*
// environment variables and explicitly set command line flags, in that
// order of increasing precedence.
package config

import (
	"time"

	"github.com/sqlidator/sqlidator/internal/report"
)

// Output modes for terminal rendering.
const (
	OutputAuto     = "auto"
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)

// Defaults applied before any other source is loaded.
const (
	DefaultOutput          = OutputAuto
	DefaultReportOutput    = "sqlidator_report"
	DefaultServerAddr      = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultConcurrency     = 4
)

// ReportConfig controls report file generation.
type ReportConfig struct {
	// Format is empty when no report should be written.
	Format report.Format `koanf:"format"`
	// Output is the base filename; the format extension is appended.
	Output string `koanf:"output"`
}

// Enabled reports whether a report file was requested.
func (r ReportConfig) Enabled() bool {
	return r.Format != ""
}

// Path returns the report filename including its extension.
func (r ReportConfig) Path() string {
	return r.Output + r.Format.Extension()
}

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Config holds all CLI configuration options.
type Config struct {
	Dialect     string       `koanf:"dialect"`
	Output      string       `koanf:"output"`
	Verbose     bool         `koanf:"verbose"`
	Normalize   bool         `koanf:"normalize"`
	Concurrency int          `koanf:"concurrency"`
	Report      ReportConfig `koanf:"report"`
	Server      ServerConfig `koanf:"server"`
}
