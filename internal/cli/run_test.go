package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitfuzz/internal/store"
)

func TestRunCommand_NamedChecksPass(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping randomized run in short mode")
	}

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--trials", "2", "equalsSymmetry", "containsSelf"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "all 2 checks passed")
}

func TestRunCommand_WritesNothingOnSuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping randomized run in short mode")
	}

	db := filepath.Join(t.TempDir(), "artifacts.db")
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--trials", "2", "--db", db, "equalsSymmetry"})

	require.NoError(t, cmd.Execute())

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	recs, err := st.ListArtifacts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRunCommand_UnknownCheck(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"noSuchCheck"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "noSuchCheck")
}

func TestRunCommand_BadConfigPath(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_ConfigSelectsChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping randomized run in short mode")
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("trials: 2\nchecks:\n  - containsSelf\n"), 0o644))

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--config", cfgPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "all 1 checks passed")
}
