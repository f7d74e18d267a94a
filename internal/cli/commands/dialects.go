package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sqlidator/sqlidator/internal/cli/output"
	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "dialects",
		Aliases: []string{"ls-dialects"},
		Short:   "List supported SQL dialects",
		Long: `List the dialect tags accepted by --dialect.

The dialect selects how errors are reported. The accepted grammar is the
same for every dialect. The configured default is marked with an asterisk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			return renderDialects(cmdCtx.Renderer, cmdCtx.Cfg.Dialect)
		},
	}
}

func renderDialects(r *output.Renderer, current string) error {
	dialects := dialect.All()

	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		return r.JSON(dialects)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Display Name", "Error Style", "Description"})
	for _, d := range dialects {
		name := d.Name
		if d.Name == current {
			name += " *"
		}
		t.AppendRow(table.Row{name, d.DisplayName, d.Style, d.Description})
	}

	if mode == output.ModeMarkdown {
		r.Println(t.RenderMarkdown())
		return nil
	}
	r.Println(t.Render())
	return nil
}
