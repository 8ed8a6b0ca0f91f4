package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collapsehead/internal/config"
)

const testTrace = "../trace/testdata/collapse.toml"

// execute runs the root command with a private config and log file
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	base := []string{
		"--config", filepath.Join(dir, "config.toml"),
		"--log-file", filepath.Join(dir, "collapsehead.log"),
	}

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandFlags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"config", "topology", "dead-zone", "log-level", "log-file", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag --%s", name)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"run", "replay", "config"})
}

func TestReplayPrintsEveryStep(t *testing.T) {
	out, err := execute(t, "replay", testTrace)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "# drag past the midpoint with the list scrolled", lines[0])
	assert.Equal(t, "   400 tick       100.00   100.00 idle     down", lines[7])
}

func TestReplayWithEvents(t *testing.T) {
	out, err := execute(t, "replay", "--events", testTrace)
	require.NoError(t, err)
	assert.Contains(t, out, "· phase       idle -> dragging")
	assert.Contains(t, out, "· phase       settling -> idle")
}

func TestReplayErrors(t *testing.T) {
	_, err := execute(t, "replay", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to load trace")

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[[event]]\nkind = \"wobble\"\nat_ms = 0\n"), 0644))
	_, err = execute(t, "replay", bad)
	assert.ErrorContains(t, err, "event 0")

	_, err = execute(t, "replay", "--topology", "diagonal", testTrace)
	assert.ErrorContains(t, err, "--topology")

	_, err = execute(t, "replay")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	run := func(args ...string) string {
		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"config", "init", "--config", path}, args...))
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	out := run("--topology", "sticky", "--dead-zone", "4")
	assert.Contains(t, out, "Configuration written to "+path)

	cfg, err := config.NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "sticky", cfg.Header.Topology)
	assert.Equal(t, 4.0, cfg.Header.DeadZone)

	out = run("--topology", "fixed-top")
	assert.Contains(t, out, "already exists")
	cfg, err = config.NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "sticky", cfg.Header.Topology, "an existing file is kept without --force")

	run("--force")
	cfg, err = config.NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "single", cfg.Header.Topology)
}

func TestConfigShowAppliesOverrides(t *testing.T) {
	out, err := execute(t, "config", "show", "--topology", "fixed-top")
	require.NoError(t, err)
	assert.Contains(t, out, "does not exist, showing defaults")
	assert.Contains(t, out, "topology = 'fixed-top'")
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "config.toml"))
}
