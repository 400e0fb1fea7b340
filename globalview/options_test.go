package globalview_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/globalview"
	"github.com/katalvlaran/lvstitch/knn"
	"github.com/katalvlaran/lvstitch/spanning"
	"github.com/katalvlaran/lvstitch/tear"
)

func TestDefaultOptions_Valid(t *testing.T) {
	require.NoError(t, globalview.DefaultOptions().Validate())
}

func TestOptions_TOMLRoundTrip(t *testing.T) {
	o := globalview.DefaultOptions()
	o.TearColorEigInds = []int{1, 2}
	o.Seed = 42
	o.RepelBy = 0.25

	var buf bytes.Buffer
	require.NoError(t, o.Encode(&buf))
	assert.Contains(t, buf.String(), `init_algo_name = "procrustes"`)

	back, err := globalview.DecodeOptions(&buf)
	require.NoError(t, err)
	assert.Equal(t, o, back)
}

func TestLoadOptions_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.toml")
	require.NoError(t, os.WriteFile(path, []byte("refine_algo_name = \"gpm\"\nmax_iter = 3\nto_tear = false\n"), 0o644))

	o, err := globalview.LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "gpm", o.RefineAlgoName)
	assert.Equal(t, 3, o.MaxIter)
	assert.False(t, o.ToTear)
	assert.Equal(t, globalview.DefaultOptions().Patience, o.Patience)

	_, err = globalview.LoadOptions(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*globalview.Options)
		want   error
	}{
		{"affine", func(o *globalview.Options) { o.AlignTransform = "affine" }, align.ErrNotImplemented},
		{"init", func(o *globalview.Options) { o.InitAlgoName = "gpm" }, align.ErrUnknownAlgorithm},
		{"refine", func(o *globalview.Options) { o.RefineAlgoName = "magic" }, align.ErrUnknownAlgorithm},
		{"metric", func(o *globalview.Options) { o.Metric = "cosine" }, knn.ErrUnsupportedMetric},
		{"colour", func(o *globalview.Options) { o.TearColorMethod = "rainbow" }, tear.ErrUnknownColor},
		{"spanning", func(o *globalview.Options) { o.SpanningMethod = "boruvka" }, spanning.ErrUnknownMethod},
		{"patience", func(o *globalview.Options) { o.Patience = 0 }, globalview.ErrInvalidOption},
		{"n_proc", func(o *globalview.Options) { o.NProc = 0 }, globalview.ErrInvalidOption},
		{"cutoff", func(o *globalview.Options) { o.ColorCutoffFrac = 2 }, globalview.ErrInvalidOption},
		{"k", func(o *globalview.Options) { o.K = 0 }, globalview.ErrInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := globalview.DefaultOptions()
			tt.mutate(&o)
			assert.ErrorIs(t, o.Validate(), tt.want)
		})
	}

	o := globalview.DefaultOptions()
	o.K, o.ToTear, o.ColorTear = 0, false, false
	assert.NoError(t, o.Validate(), "k is unused without tearing")
}
