package commands

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqlidator/sqlidator/pkg/dialect"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	BuildDate string   `json:"build_date"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	Dialects  []string `json:"dialects"`
}

// NewBuildInfo fills in the runtime fields around the values stamped at
// build time.
func NewBuildInfo(version, commit, buildDate string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Dialects:  dialect.List(),
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the sqlidator version, build metadata and supported dialects.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			switch {
			case short:
				_, err := fmt.Fprintln(w, info.Version)
				return err
			case asJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			_, _ = fmt.Fprintf(w, "sqlidator %s\n", info.Version)
			_, _ = fmt.Fprintf(w, "  commit:   %s\n", info.Commit)
			_, _ = fmt.Fprintf(w, "  built:    %s\n", info.BuildDate)
			_, _ = fmt.Fprintf(w, "  go:       %s %s\n", info.GoVersion, info.Platform)
			_, err := fmt.Fprintf(w, "  dialects: %s\n", strings.Join(info.Dialects, ", "))
			return err
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")
	cmd.MarkFlagsMutuallyExclusive("short", "json")

	return cmd
}
