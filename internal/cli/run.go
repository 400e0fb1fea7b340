package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvstitch/builder"
	"github.com/katalvlaran/lvstitch/globalview"
	"github.com/katalvlaran/lvstitch/repair"
	"github.com/katalvlaran/lvstitch/vis"
)

// runOpts holds the flags of the run command.
type runOpts struct {
	shape     string  // builder shape: strip or ring
	points    int     // number of sampled points
	views     int     // number of views
	neighbors int     // view domain size
	seed      int64   // 0 keeps the deterministic lattice
	noise     float64 // local coordinate noise (needs a seed)
	config    string  // TOML options file
	init      string  // overrides init_algo_name
	refine    string  // overrides refine_algo_name
	maxIter   int     // overrides max_iter when >= 0
	nproc     int     // overrides n_proc when > 0
	repair    bool    // also repair distances across tears
}

func newRunCmd() *cobra.Command {
	opts := runOpts{
		shape:     builder.ShapeRing,
		points:    builder.DefaultPoints,
		views:     builder.DefaultViews,
		neighbors: builder.DefaultNeighbors,
		maxIter:   -1,
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stitch a synthetic view set and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.noise < 0 {
				return errFlag("noise", opts.noise)
			}
			return runStitch(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.shape, "shape", opts.shape, "synthetic shape: strip, ring")
	cmd.Flags().IntVarP(&opts.points, "points", "n", opts.points, "number of points")
	cmd.Flags().IntVarP(&opts.views, "views", "m", opts.views, "number of views")
	cmd.Flags().IntVarP(&opts.neighbors, "neighbors", "k", opts.neighbors, "points per view domain")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0: deterministic lattice)")
	cmd.Flags().Float64Var(&opts.noise, "noise", 0, "gaussian noise on local coordinates")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML options file")
	cmd.Flags().StringVar(&opts.init, "init", "", "initialisation algorithm")
	cmd.Flags().StringVar(&opts.refine, "refine", "", "refinement algorithm")
	cmd.Flags().IntVar(&opts.maxIter, "max-iter", opts.maxIter, "refinement iterations (-1: from options)")
	cmd.Flags().IntVar(&opts.nproc, "n-proc", 0, "workers for parallel phases (0: from options)")
	cmd.Flags().BoolVar(&opts.repair, "repair", false, "repair pairwise distances across tears")

	return cmd
}

// engineOptions resolves the engine options from --config and overrides.
func (o *runOpts) engineOptions() (globalview.Options, error) {
	eo := globalview.DefaultOptions()
	if o.config != "" {
		var err error
		if eo, err = globalview.LoadOptions(o.config); err != nil {
			return eo, err
		}
	}
	if o.init != "" {
		eo.InitAlgoName = o.init
	}
	if o.refine != "" {
		eo.RefineAlgoName = o.refine
	}
	if o.maxIter >= 0 {
		eo.MaxIter = o.maxIter
	}
	if o.nproc > 0 {
		eo.NProc = o.nproc
	}
	if o.seed != 0 {
		eo.Seed = o.seed
	}
	return eo, eo.Validate()
}

func runStitch(ctx context.Context, out io.Writer, opts *runOpts) error {
	logger := loggerFromContext(ctx)

	eo, err := opts.engineOptions()
	if err != nil {
		return err
	}
	eo.Logger = logger
	eo.Sink = vis.LogSink{Logger: logger}

	bopts := []builder.BuilderOption{builder.WithNoise(opts.noise)}
	if opts.seed != 0 {
		bopts = append(bopts, builder.WithSeed(opts.seed))
	}
	if eo.AddDim {
		bopts = append(bopts, builder.WithAddDim())
	}
	prog := newProgress(logger)
	ds, err := builder.Generate(opts.shape, opts.points, opts.views, opts.neighbors, bopts...)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %s with %d points in %d views", opts.shape, opts.points, opts.views))

	eng, err := globalview.New(ds.Views, eo)
	if err != nil {
		return err
	}
	prog = newProgress(logger)
	res, err := eng.Fit(ctx)
	if err != nil {
		return err
	}
	prog.done("Stitched")

	printSummary(out, res)

	if opts.repair {
		_, st, err := eng.Distances(ctx, repair.Options{})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "repair:     %d substituted, %d relays, %d passes\n", st.Substituted, st.Boundary, st.Passes)
	}
	return nil
}

func printSummary(w io.Writer, res *globalview.Result) {
	r, c := res.Y.Dims()
	fmt.Fprintf(w, "embedding:  %dx%d\n", r, c)
	fmt.Fprintf(w, "clusters:   %d\n", len(res.Clusters))
	fmt.Fprintf(w, "status:     %s after %d iterations\n", res.Status, res.Iterations)
	fmt.Fprintf(w, "init error: %.3e\n", res.InitErr)
	if res.HasFinalErr {
		fmt.Fprintf(w, "error:      %.3e\n", res.FinalErr)
	}
	fmt.Fprintf(w, "torn pairs: %d\n", res.TornPairs)
	if res.Coloring != nil {
		fmt.Fprintf(w, "tear pts:   %d\n", res.Coloring.Count())
	}
}
