package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sqlidator/sqlidator/internal/cli/config"
	"github.com/sqlidator/sqlidator/internal/report"
	"github.com/sqlidator/sqlidator/pkg/dialect"
)

// configKey documents one sqlidator.yaml setting.
type configKey struct {
	Key         string
	Default     string
	Description string
}

func configKeys(cfg *config.Config) []configKey {
	formats := make([]string, 0, len(report.Formats))
	for _, f := range report.Formats {
		formats = append(formats, string(f))
	}

	return []configKey{
		{"dialect", cfg.Dialect, "SQL dialect: " + strings.Join(dialect.List(), ", ")},
		{"output", cfg.Output, "Terminal output mode: auto, text, markdown, json"},
		{"verbose", strconv.FormatBool(cfg.Verbose), "Enable debug logging"},
		{"normalize", strconv.FormatBool(cfg.Normalize), "Collapse whitespace before validating"},
		{"concurrency", strconv.Itoa(cfg.Concurrency), "Parallel validations per batch"},
		{"report.format", string(cfg.Report.Format), "Report file format: " + strings.Join(formats, ", ")},
		{"report.output", cfg.Report.Output, "Report base filename; the format extension is appended"},
		{"server.addr", cfg.Server.Addr, "HTTP API listen address"},
		{"server.shutdown_timeout", cfg.Server.ShutdownTimeout.String(), "Graceful shutdown deadline"},
	}
}

// envName maps a dotted config key to its environment variable.
func envName(key string) string {
	return "SQLIDATOR_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// sampleConfig renders the defaults as a sqlidator.yaml document.
func sampleConfig(cfg *config.Config) (string, error) {
	doc := map[string]any{
		"dialect":     cfg.Dialect,
		"output":      cfg.Output,
		"verbose":     cfg.Verbose,
		"normalize":   cfg.Normalize,
		"concurrency": cfg.Concurrency,
		"report": map[string]any{
			"format": string(cfg.Report.Format),
			"output": cfg.Report.Output,
		},
		"server": map[string]any{
			"addr":             cfg.Server.Addr,
			"shutdown_timeout": cfg.Server.ShutdownTimeout.String(),
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// generateConfigDocs writes config.md describing every configuration key.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cfg := config.Defaults()

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "Configuration file and environment reference for sqlidator")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("Settings are read from defaults, then " + InlineCode("sqlidator.yaml") +
		", then environment variables, then command line flags. Later sources win.")

	w.Header(2, "Keys")
	var rows [][]string
	for _, k := range configKeys(cfg) {
		def := k.Default
		if def != "" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode(k.Key), InlineCode(envName(k.Key)), def, cleanDescription(k.Description)})
	}
	w.Table([]string{"Key", "Environment", "Default", "Description"}, rows)

	sample, err := sampleConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to render sample config: %w", err)
	}
	w.Header(2, "Example")
	w.CodeBlock("yaml", sample)

	if err := os.WriteFile(filepath.Join(outDir, "config.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated config.md")
	return nil
}

// generateDialectDocs writes dialects.md from the dialect registry.
func generateDialectDocs(outDir string) error {
	log.Printf("Generating dialect docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Dialects", "SQL dialects supported by sqlidator")
	w.GeneratedMarker()

	w.Header(1, "Dialects")
	w.Paragraph("All dialects share one grammar. The dialect selects how syntax errors are worded and where they point.")

	var rows [][]string
	for _, d := range dialect.All() {
		name := InlineCode(d.Name)
		if d.Name == dialect.DefaultName {
			name += " (default)"
		}
		rows = append(rows, []string{name, d.DisplayName, d.Style.String(), cleanDescription(d.Description)})
	}
	w.Table([]string{"Name", "Display Name", "Error Style", "Description"}, rows)

	w.Header(2, "Selecting a dialect")
	w.CodeBlock("bash", `sqlidator validate --dialect postgres "SELECT * FROM users;"
SQLIDATOR_DIALECT=plsql sqlidator validate --file query.sql`)

	if err := os.WriteFile(filepath.Join(outDir, "dialects.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated dialects.md")
	return nil
}
