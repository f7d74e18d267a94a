package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sqlidator/sqlidator/internal/cli"
	"github.com/sqlidator/sqlidator/internal/cli/config"
)

// commandDoc is the documented view of one cobra command.
type commandDoc struct {
	Name        string
	Summary     string
	Description string
	Usage       string
	Aliases     []string
	Example     string
	Local       *pflag.FlagSet
	Inherited   *pflag.FlagSet
}

// documented lists the commands that get a page, in registration order.
func documented(root *cobra.Command) []commandDoc {
	var docs []commandDoc
	for _, cmd := range root.Commands() {
		if cmd.Hidden || !cmd.IsAvailableCommand() || cmd.Name() == "help" {
			continue
		}

		usage := cmd.UseLine()
		if !strings.HasPrefix(usage, root.Name()) {
			usage = root.Name() + " " + usage
		}
		desc := cmd.Long
		if desc == "" {
			desc = cmd.Short
		}

		doc := commandDoc{
			Name:        cmd.Name(),
			Summary:     cleanDescription(cmd.Short),
			Description: desc,
			Usage:       usage,
			Aliases:     cmd.Aliases,
			Example:     cleanExample(cmd.Example),
		}
		if cmd.HasAvailableLocalFlags() {
			doc.Local = cmd.LocalFlags()
		}
		if cmd.HasAvailableInheritedFlags() {
			doc.Inherited = cmd.InheritedFlags()
		}
		docs = append(docs, doc)
	}
	return docs
}

// generateCLIDocs writes index.md plus one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	docs := documented(root)

	if err := writePage(outDir, "index.md", cliIndex(root, docs)); err != nil {
		return err
	}
	for _, doc := range docs {
		if err := writePage(outDir, doc.Name+".md", commandPage(doc)); err != nil {
			return err
		}
	}
	return nil
}

func writePage(dir, name string, w *MarkdownWriter) error {
	if err := os.WriteFile(filepath.Join(dir, name), w.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Printf("  Generated %s", name)
	return nil
}

func cliIndex(root *cobra.Command, docs []commandDoc) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for sqlidator")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("sqlidator checks SQL statements for syntax errors without a database connection and reports them in the style of the selected dialect.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/sqlidator/sqlidator/cmd/sqlidator@latest")

	w.Header(2, "Commands")
	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, []string{fmt.Sprintf("[%s](/cli/%s)", InlineCode(doc.Name), doc.Name), doc.Summary})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	flagTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Every configuration key can be set through the environment. See the configuration reference for the full list.")
	var envRows [][]string
	for _, k := range configKeys(config.Defaults()) {
		envRows = append(envRows, []string{InlineCode(envName(k.Key)), cleanDescription(k.Description)})
	}
	w.Table([]string{"Variable", "Description"}, envRows)
	w.Paragraph("Flags take precedence over environment variables, which take precedence over the config file.")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Every query is valid"},
		{InlineCode("1"), "A query is invalid or the command failed"},
	})
	return w
}

func commandPage(doc commandDoc) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(doc.Name, doc.Summary)
	w.GeneratedMarker()

	w.Header(1, doc.Name)
	w.Paragraph(doc.Description)

	w.Header(2, "Usage")
	w.CodeBlock("bash", doc.Usage)

	if len(doc.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, len(doc.Aliases))
		for i, a := range doc.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.BulletList(aliases)
	}
	if doc.Local != nil {
		w.Header(2, "Options")
		flagTable(w, doc.Local)
	}
	if doc.Inherited != nil {
		w.Header(2, "Global Options")
		flagTable(w, doc.Inherited)
	}
	if doc.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", doc.Example)
	}
	return w
}

// flagTable lists visible flags. Flags backed by a config key also show
// the environment variable for that key.
func flagTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	known := map[string]bool{}
	for _, k := range configKeys(config.Defaults()) {
		known[k.Key] = true
	}

	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := f.DefValue
		if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
			def = InlineCode(def)
		} else {
			def = ""
		}
		env := ""
		if key := config.FlagKey(f.Name); known[key] {
			env = InlineCode(envName(key))
		}
		rows = append(rows, []string{name, def, env, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Default", "Environment", "Description"}, rows)
}

// cleanExample removes the common indentation of a cobra example block.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
