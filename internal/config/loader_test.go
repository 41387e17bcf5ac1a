package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "startpl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Cleanup(Reset)

	cfg, err := Load(os.DevNull, nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Output)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Watch)
	assert.Empty(t, cfg.Vars)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Cleanup(Reset)

	path := writeConfig(t, `
output: out.txt
verbose: true
vars:
  name: Ada
  count: 3
delims:
  inline_start: "[["
  inline_end: "]]"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "out.txt", cfg.Output)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "Ada", cfg.Vars["name"])
	assert.Equal(t, 3, cfg.Vars["count"])
	assert.Equal(t, "[[", cfg.Delims.InlineStart)
	assert.Equal(t, "]]", cfg.Delims.InlineEnd)
	assert.Equal(t, path, ConfigFileUsed())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Cleanup(Reset)

	path := writeConfig(t, "output: from-file.txt\n")
	t.Setenv("STARTPL_OUTPUT", "from-env.txt")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "from-env.txt", cfg.Output)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Cleanup(Reset)

	t.Setenv("STARTPL_OUTPUT", "from-env.txt")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "")
	require.NoError(t, flags.Set("output", "from-flag.txt"))

	cfg, err := Load(os.DevNull, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-flag.txt", cfg.Output)
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	t.Cleanup(Reset)

	path := writeConfig(t, "verbose: true\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verbose", false, "")

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose, "flag defaults do not mask config values")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Cleanup(Reset)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestDelimConfig_Delims(t *testing.T) {
	d := DelimConfig{InlineStart: "[[", InlineEnd: "]]"}
	delims := d.Delims()

	assert.Equal(t, "[[", delims.InlineStart)
	assert.Equal(t, "", delims.BlockStart, "unset fields stay empty for downstream defaults")
}
