package globalview

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/katalvlaran/lvstitch/align"
	"github.com/katalvlaran/lvstitch/knn"
	"github.com/katalvlaran/lvstitch/spanning"
	"github.com/katalvlaran/lvstitch/tear"
	"github.com/katalvlaran/lvstitch/vis"
)

// Sentinel errors for engine configuration and use.
var (
	ErrInvalidOption = errors.New("globalview: invalid option")
	ErrAddDim        = errors.New("globalview: add_dim disagrees with the view set")
	ErrNotComposed   = errors.New("globalview: initial embedding not composed")
)

// Options is the configuration bundle of the engine.
type Options struct {
	AlignTransform string `toml:"align_transform"`
	AddDim         bool   `toml:"add_dim"`
	VisBeforeInit  bool   `toml:"vis_before_init"`
	InitAlgoName   string `toml:"init_algo_name"`
	RefineAlgoName string `toml:"refine_algo_name"`

	NForcedClusters int    `toml:"n_forced_clusters"`
	SpanningMethod  string `toml:"spanning_method"`
	NProc           int    `toml:"n_proc"`

	ToTear                   bool    `toml:"to_tear"`
	ColorTear                bool    `toml:"color_tear"`
	TearColorMethod          string  `toml:"tear_color_method"`
	TearColorEigInds         []int   `toml:"tear_color_eig_inds"`
	ColorCutoffFrac          float64 `toml:"color_cutoff_frac"`
	ColorLargestTearCompOnly bool    `toml:"color_largest_tear_comp_only"`
	K                        int     `toml:"k"`
	Nu                       int     `toml:"nu"`
	Metric                   string  `toml:"metric"`

	MaxIter         int     `toml:"max_iter"`
	MaxInternalIter int     `toml:"max_internal_iter"`
	Patience        int     `toml:"patience"`
	ErrTol          float64 `toml:"err_tol"`
	ComputeError    bool    `toml:"compute_error"`
	RepelBy         float64 `toml:"repel_by"`
	RepelDecay      float64 `toml:"repel_decay"`
	Beta            float64 `toml:"beta"`
	// FarOffFactor flags points whose discrepancy exceeds this multiple of
	// the median; 0 disables the check.
	FarOffFactor float64 `toml:"far_off_factor"`
	Seed         int64   `toml:"seed"`

	// Logger receives phase and iteration logs; nil means log.Default().
	Logger *log.Logger `toml:"-"`
	// Sink receives every global embedding; nil means vis.Noop.
	Sink vis.Sink `toml:"-"`
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		AlignTransform:   align.Rigid,
		InitAlgoName:     "procrustes",
		RefineAlgoName:   "rgd",
		NForcedClusters:  1,
		SpanningMethod:   spanning.MethodKruskal,
		NProc:            1,
		ToTear:           true,
		ColorTear:        true,
		TearColorMethod:  tear.Spectral,
		TearColorEigInds: []int{1},
		ColorCutoffFrac:  0.001,
		K:                5,
		Nu:               3,
		Metric:           knn.Euclidean,
		MaxIter:          20,
		MaxInternalIter:  10,
		Patience:         5,
		ErrTol:           1e-6,
		ComputeError:     true,
		RepelDecay:       1,
		Beta:             0.5,
	}
}

// LoadOptions reads a TOML file over DefaultOptions. Keys absent from the
// file keep their default.
func LoadOptions(path string) (Options, error) {
	o := DefaultOptions()
	if _, err := toml.DecodeFile(path, &o); err != nil {
		return Options{}, fmt.Errorf("globalview: load %s: %w", path, err)
	}
	return o, nil
}

// DecodeOptions reads TOML from r over DefaultOptions.
func DecodeOptions(r io.Reader) (Options, error) {
	o := DefaultOptions()
	if _, err := toml.NewDecoder(r).Decode(&o); err != nil {
		return Options{}, fmt.Errorf("globalview: decode: %w", err)
	}
	return o, nil
}

// Encode writes o as TOML.
func (o Options) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(o)
}

// Validate checks names against the registries and numeric ranges.
func (o Options) Validate() error {
	if err := align.CheckTransform(o.AlignTransform); err != nil {
		return err
	}
	if _, err := align.Init(o.InitAlgoName); err != nil {
		return err
	}
	if _, err := align.Refine(o.RefineAlgoName); err != nil {
		return err
	}
	if err := knn.CheckMetric(o.Metric); err != nil {
		return err
	}
	switch o.TearColorMethod {
	case tear.Heuristic, tear.Spectral, "":
	default:
		return fmt.Errorf("%q: %w", o.TearColorMethod, tear.ErrUnknownColor)
	}
	switch o.SpanningMethod {
	case spanning.MethodKruskal, spanning.MethodPrim, "":
	default:
		return fmt.Errorf("%q: %w", o.SpanningMethod, spanning.ErrUnknownMethod)
	}

	checks := []struct {
		ok   bool
		name string
	}{
		{o.NForcedClusters >= 0, "n_forced_clusters"},
		{o.NProc >= 1, "n_proc"},
		{o.MaxIter >= 0, "max_iter"},
		{o.MaxInternalIter >= 1, "max_internal_iter"},
		{o.Patience >= 1, "patience"},
		{o.ErrTol >= 0, "err_tol"},
		{o.RepelBy >= 0, "repel_by"},
		{o.RepelDecay >= 0, "repel_decay"},
		{o.Beta >= 0, "beta"},
		{o.FarOffFactor >= 0, "far_off_factor"},
		{o.ColorCutoffFrac >= 0 && o.ColorCutoffFrac <= 1, "color_cutoff_frac"},
		{!o.tearing() || (o.K >= 1 && o.Nu >= 1), "k/nu"},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%s: %w", c.name, ErrInvalidOption)
		}
	}
	return nil
}

// tearing reports whether tear detection runs at all.
func (o Options) tearing() bool { return o.ToTear || o.ColorTear }

// tearOptions maps the configuration onto tear.Options.
func (o Options) tearOptions() tear.Options {
	return tear.Options{
		K:           o.K,
		Nu:          o.Nu,
		Metric:      o.Metric,
		Color:       o.ColorTear,
		Method:      o.TearColorMethod,
		EigInds:     o.TearColorEigInds,
		CutoffFrac:  o.ColorCutoffFrac,
		LargestOnly: o.ColorLargestTearCompOnly,
	}
}
