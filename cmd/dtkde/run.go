// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvprune/errbudget"
	"github.com/katalvlaran/lvprune/kde"
	"github.com/katalvlaran/lvprune/kdtree"
	"github.com/katalvlaran/lvprune/paramsrc"
)

// runConfig is the resolved configuration of one run.
type runConfig struct {
	Variant    string
	Queries    int
	References int
	Dim        int
	Clusters   int
	Spread     float64
	Seed       int64
	LeafSize   int
	Bandwidth  float64
	Strict     bool
	NoAsserts  bool
}

func defaultRunConfig() runConfig {
	return runConfig{
		Variant:    errbudget.Relative.String(),
		Queries:    2000,
		References: 2000,
		Dim:        3,
		Clusters:   8,
		Spread:     0.05,
		Seed:       0,
		LeafSize:   kdtree.DefaultLeafSize,
		Bandwidth:  kde.DefaultBandwidth,
	}
}

// criterionFlags maps flag names to errbudget parameter names.
var criterionFlags = map[string]string{
	"epsilon":   errbudget.ParamEpsilon,
	"steepness": errbudget.ParamSteepness,
	"max-error": errbudget.ParamMaxError,
	"min-error": errbudget.ParamMinError,
}

func newRunCmd(rf *rootFlags) *cobra.Command {
	var cfg = defaultRunConfig()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a pruned dual-tree kernel sum and compare with the exact sum",
		Long: `Run generates clustered reference points and uniform query points, runs the
dual-tree kernel sum with the selected criterion, and prints pruning statistics
together with the observed and guaranteed error.

YAML layout (all keys optional except the criterion parameters):

  criterion:
    variant: hybrid
    epsilon: 0.05
    steepness: 2
  kde:
    bandwidth: 0.2
    leaf_size: 16
  data:
    queries: 2000
    references: 2000
    dim: 3
    clusters: 8
    spread: 0.05
    seed: 7

Examples:
  dtkde run --variant relative --epsilon 0.05
  dtkde run --config run.yaml --verbose
  DTKDE_CRITERION_EPSILON=0.01 dtkde run --config run.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, rf, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Variant, "variant", cfg.Variant, "criterion: absolute, relative, exponential, gaussian, hybrid")
	f.IntVar(&cfg.Queries, "queries", cfg.Queries, "number of query points")
	f.IntVar(&cfg.References, "references", cfg.References, "number of reference points")
	f.IntVar(&cfg.Dim, "dim", cfg.Dim, "point dimension")
	f.IntVar(&cfg.Clusters, "clusters", cfg.Clusters, "reference clusters")
	f.Float64Var(&cfg.Spread, "spread", cfg.Spread, "cluster standard deviation")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed (0 = default seed)")
	f.IntVar(&cfg.LeafSize, "leaf-size", cfg.LeafSize, "kd-tree leaf size")
	f.Float64Var(&cfg.Bandwidth, "bandwidth", cfg.Bandwidth, "Gaussian kernel bandwidth")
	f.BoolVar(&cfg.Strict, "strict", false, "fail instead of overdrawing a node's budget")
	f.BoolVar(&cfg.NoAsserts, "no-assertions", false, "skip bound and tolerance checks (a negative tolerance then just blocks the prune)")
	for name, param := range criterionFlags {
		f.Float64(name, 0, "criterion parameter "+param)
	}

	return cmd
}

func runRun(cmd *cobra.Command, rf *rootFlags, cfg runConfig) error {
	log, err := newLogger(cmd.ErrOrStderr(), rf.logFormat, rf.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	src, err := paramsrc.LoadFile(rf.configPath, paramsrc.WithEnv(envPrefix))
	if err != nil {
		return err
	}
	if err = resolve(cmd.Flags(), src, &cfg); err != nil {
		return err
	}

	variant, err := errbudget.ParseVariant(cfg.Variant)
	if err != nil {
		return err
	}
	flagSrc, err := flagParams(cmd.Flags())
	if err != nil {
		return err
	}
	crit, err := errbudget.Configure(variant, paramsrc.Chain{flagSrc, src.Sub("criterion")}, criterionOptions(log, cfg)...)
	if err != nil {
		return err
	}
	log.Info("dtkde: configured",
		zap.Stringer("variant", variant),
		zap.Any("params", crit.Params()),
		zap.Int("queries", cfg.Queries),
		zap.Int("references", cfg.References),
		zap.Int("dim", cfg.Dim),
		zap.Float64("bandwidth", cfg.Bandwidth),
	)

	queries, err := kdtree.Uniform(cfg.Queries, cfg.Dim, cfg.Seed)
	if err != nil {
		return fmt.Errorf("generate queries: %w", err)
	}
	refs, err := kdtree.Clustered(cfg.References, cfg.Dim, cfg.Clusters, cfg.Spread, cfg.Seed+1)
	if err != nil {
		return fmt.Errorf("generate references: %w", err)
	}
	qt, err := kdtree.Build(queries, kdtree.WithLeafSize(cfg.LeafSize))
	if err != nil {
		return fmt.Errorf("build query tree: %w", err)
	}
	rt, err := kdtree.Build(refs, kdtree.WithLeafSize(cfg.LeafSize))
	if err != nil {
		return fmt.Errorf("build reference tree: %w", err)
	}

	start := time.Now()
	res, err := kde.DualTree(cmd.Context(), qt, rt, crit, kde.Options{Bandwidth: cfg.Bandwidth, Logger: log.Named("kde")})
	if err != nil {
		return err
	}
	dualElapsed := time.Since(start)

	start = time.Now()
	exact, err := kde.Naive(queries, refs, cfg.Bandwidth)
	if err != nil {
		return err
	}
	naiveElapsed := time.Since(start)

	report(cmd, variant, res, exact, len(refs), dualElapsed, naiveElapsed)

	return nil
}

// resolve layers YAML/env values under flags the user set explicitly.
func resolve(flags *pflag.FlagSet, src *paramsrc.Koanf, cfg *runConfig) error {
	var (
		data = src.Sub("data")
		k    = src.Sub("kde")
		err  error
	)
	if crit := src.Sub("criterion"); !flags.Changed("variant") && crit.Has("variant") {
		v, err := crit.Variant()
		if err != nil {
			return err
		}
		cfg.Variant = v.String()
	}

	ints := []struct {
		flag string
		sec  *paramsrc.Koanf
		key  string
		dst  *int
	}{
		{"queries", data, "queries", &cfg.Queries},
		{"references", data, "references", &cfg.References},
		{"dim", data, "dim", &cfg.Dim},
		{"clusters", data, "clusters", &cfg.Clusters},
		{"leaf-size", k, "leaf_size", &cfg.LeafSize},
	}
	for _, it := range ints {
		if flags.Changed(it.flag) {
			continue
		}
		if *it.dst, err = it.sec.GetInt(it.key, *it.dst); err != nil {
			return err
		}
	}

	floats := []struct {
		flag string
		sec  *paramsrc.Koanf
		key  string
		dst  *float64
	}{
		{"spread", data, "spread", &cfg.Spread},
		{"bandwidth", k, "bandwidth", &cfg.Bandwidth},
	}
	for _, it := range floats {
		if flags.Changed(it.flag) {
			continue
		}
		if *it.dst, err = it.sec.GetDouble(it.key, *it.dst); err != nil {
			return err
		}
	}

	if !flags.Changed("seed") {
		seed, err := data.GetInt("seed", int(cfg.Seed))
		if err != nil {
			return err
		}
		cfg.Seed = int64(seed)
	}
	if cfg.LeafSize < 1 {
		return fmt.Errorf("leaf size must be >= 1, got %d", cfg.LeafSize)
	}

	return nil
}

// criterionOptions maps run settings onto errbudget options.
func criterionOptions(log *zap.Logger, cfg runConfig) []errbudget.Option {
	opts := []errbudget.Option{
		errbudget.WithLogger(log.Named("errbudget")),
		errbudget.WithAssertions(!cfg.NoAsserts),
	}
	if cfg.Strict {
		opts = append(opts, errbudget.WithStrictBudget())
	}

	return opts
}

// flagParams collects the criterion parameters set on the command line.
func flagParams(flags *pflag.FlagSet) (paramsrc.Map, error) {
	m := paramsrc.Map{}
	for name, param := range criterionFlags {
		if !flags.Changed(name) {
			continue
		}
		x, err := flags.GetFloat64(name)
		if err != nil {
			return nil, fmt.Errorf("flag --%s: %w", name, err)
		}
		m[param] = x
	}

	return m, nil
}

// report prints the run summary.
func report(cmd *cobra.Command, v errbudget.Variant, res *kde.Result, exact []float64, nRefs int, dual, naive time.Duration) {
	var maxAbs, maxRel, maxBound float64
	for i, x := range exact {
		diff := math.Abs(res.Density[i] - x)
		maxAbs = math.Max(maxAbs, diff)
		if x > 0 {
			maxRel = math.Max(maxRel, diff/x)
		}
		maxBound = math.Max(maxBound, res.ErrorBound[i])
	}

	out := cmd.OutOrStdout()
	st := res.Stats
	fmt.Fprintf(out, "variant      %s\n", v)
	fmt.Fprintf(out, "pairs        %d\n", st.Pairs)
	fmt.Fprintf(out, "prunes       %d\n", st.Prunes)
	fmt.Fprintf(out, "base cases   %d\n", st.BaseCases)
	fmt.Fprintf(out, "kernels      %d (naive %d)\n", st.Kernels, len(exact)*nRefs)
	fmt.Fprintf(out, "max abs err  %.3e (bound %.3e)\n", maxAbs, maxBound)
	fmt.Fprintf(out, "max rel err  %.3e\n", maxRel)
	fmt.Fprintf(out, "dual-tree    %s\n", dual)
	fmt.Fprintf(out, "naive        %s\n", naive)
}
