package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlidator/sqlidator/internal/cli"
	"github.com/sqlidator/sqlidator/internal/cli/commands"
	"github.com/sqlidator/sqlidator/internal/cli/config"
)

// run executes the root command with args from an empty working directory
// so no stray sqlidator.yaml is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlidator "+cli.Version+"\n")
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlidator "+cli.Version)
}

func TestHelpCommand(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)

	for _, sub := range []string{"validate", "tokens", "dialects", "repl", "serve", "lsp", "completion"} {
		assert.Contains(t, out, sub, "help should list %s", sub)
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			out, err := run(t, "completion", shell)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := run(t, "unknown-command")
	assert.Error(t, err, "unknown command should return an error")
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    error
		wantStatus string
		wantType   string
	}{
		{
			name:       "valid query",
			args:       []string{"validate", "-o", "json", "-q", "SELECT * FROM users;"},
			wantStatus: "success",
		},
		{
			name:       "syntax error",
			args:       []string{"validate", "-o", "json", "-d", "postgres", "-q", "SELECT * FROM;"},
			wantErr:    commands.ErrValidationFailed,
			wantStatus: "error",
			wantType:   "SyntaxError",
		},
		{
			name:       "normalize keeps the query valid",
			args:       []string{"validate", "-o", "json", "--normalize", "-q", "SELECT   a\n\tFROM t;"},
			wantStatus: "success",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &body), "output should be JSON: %s", out)
			assert.Equal(t, tt.wantStatus, body["status"])
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, body["type"])
			}
		})
	}
}

func TestValidateCommand_InvalidDialect(t *testing.T) {
	_, err := run(t, "validate", "-d", "oracle", "-q", "SELECT 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestValidateCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sqlidator.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dialect: plsql\noutput: json\n"), 0o600))

	out, err := run(t, "--config", cfgPath, "validate", "-q", "SELECT a FROM t;")
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "plsql", body["dialect"])
}

func TestDialectsCommand(t *testing.T) {
	out, err := run(t, "dialects", "-o", "json", "-d", "postgres")
	require.NoError(t, err)

	var dialects []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &dialects))
	assert.Len(t, dialects, 3)
}
