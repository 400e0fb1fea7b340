package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/globalview"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	root := newRootCommand(&logs)
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func TestRun_Strip(t *testing.T) {
	out, logs, err := execute(t, "run", "--shape", "strip", "-n", "100", "-m", "4", "-k", "40",
		"--refine", "procrustes", "--max-iter", "2", "--n-proc", "2", "--repair")
	require.NoError(t, err)
	assert.Contains(t, out, "embedding:  100x2")
	assert.Contains(t, out, "after 2 iterations")
	assert.Contains(t, out, "repair:")
	assert.Contains(t, logs, "Stitched (")
}

func TestRun_VerboseLogsFrames(t *testing.T) {
	_, logs, err := execute(t, "run", "-v", "--shape", "strip", "-n", "60", "-m", "3", "-k", "30", "--max-iter", "1")
	require.NoError(t, err)
	assert.Contains(t, logs, "global embedding")
	assert.Contains(t, logs, "title=Init")
}

func TestRun_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.toml")
	require.NoError(t, os.WriteFile(path, []byte("refine_algo_name = \"gpm\"\nto_tear = false\ncolor_tear = false\n"), 0o644))

	out, _, err := execute(t, "run", "--shape", "strip", "-n", "60", "-m", "3", "-k", "30", "-c", path, "--max-iter", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "torn pairs: 0")
	assert.NotContains(t, out, "tear pts:")
}

func TestRun_Errors(t *testing.T) {
	_, _, err := execute(t, "run", "--refine", "magic")
	assert.ErrorIs(t, err, align.ErrUnknownAlgorithm)

	_, _, err = execute(t, "run", "--noise", "-1")
	assert.Error(t, err)

	_, _, err = execute(t, "run", "--shape", "torus", "-n", "20", "-m", "2", "-k", "5")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	out, _, err := execute(t, "defaults")
	require.NoError(t, err)
	assert.Contains(t, out, `refine_algo_name = "rgd"`)

	o, err := globalview.DecodeOptions(bytes.NewBufferString(out))
	require.NoError(t, err)
	assert.Equal(t, globalview.DefaultOptions(), o)

	path := filepath.Join(t.TempDir(), "defaults.toml")
	_, logs, err := execute(t, "defaults", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, logs, "Wrote")
	loaded, err := globalview.LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, globalview.DefaultOptions(), loaded)
}
