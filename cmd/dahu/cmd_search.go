package main

import (
	"context"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dahu/internal/errors"
	"dahu/measureutil"
	"dahu/prof"
	"dahu/search"
)

var cmdSearch = &cobra.Command{
	Use:   "search [flags]",
	Short: "Search rotation-symmetric dahus exhaustively",
	Long: `
The "search" command enumerates rotation-symmetric functions of degree at most
(l+1)/2 and records those meeting the resiliency and algebraic immunity
targets in a result log. The search checkpoints its progress and resumes
from the last checkpoint when started again with the same parameters.

Parameters come from a YAML job file (--config) and are overridden by flags.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.Context(), cmd.Flags(), searchOptions, &globalOptions)
	},
}

var cmdSample = &cobra.Command{
	Use:   "sample [flags]",
	Short: "Test random rotation-symmetric functions",
	Long: `
The "sample" command draws random SANFs of degree at most (l+1)/2 from a
seeded generator and records those meeting the targets.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSample(cmd.Context(), cmd.Flags(), searchOptions, &globalOptions)
	},
}

// SearchOptions bundles the options of the search and sample commands.
type SearchOptions struct {
	Config   string
	Coverage bool
	Samples  int
	Seed     string
	Profile  bool

	job     search.Job
	maxSANF string
	minSANF string
}

var searchOptions = SearchOptions{job: search.DefaultJob()}

func init() {
	for _, cmd := range []*cobra.Command{cmdSearch, cmdSample} {
		cmdRoot.AddCommand(cmd)
		f := cmd.Flags()
		f.StringVarP(&searchOptions.Config, "config", "c", "", "read the job from YAML `file`")
		f.IntVarP(&searchOptions.job.Locality, "locality", "l", 7, "number of `variables`")
		f.IntVarP(&searchOptions.job.Resiliency, "resiliency", "r", 2, "resiliency `order`")
		f.IntVar(&searchOptions.job.AlgebraicImmunity, "ai", 4, "minimal algebraic `immunity`")
		f.StringVar(&searchOptions.maxSANF, "max-sanf", "", "fixed SANF `bits` of the maximal degree representatives")
		f.StringVar(&searchOptions.minSANF, "min-sanf", "0", "fixed leading SANF `bits`")
		f.StringVar(&searchOptions.job.ResultDir, "result-dir", "result", "write result logs to `dir`")
		f.StringVar(&searchOptions.job.CheckpointDir, "checkpoint-dir", "backup", "write checkpoints to `dir`")
		f.DurationVar(&searchOptions.job.CheckpointInterval, "checkpoint-interval", search.DefaultCheckpointInterval, "time between checkpoints")
		f.BoolVar(&searchOptions.Profile, "profile", false, "print the time spent per phase")
	}
	cmdSearch.Flags().BoolVar(&searchOptions.Coverage, "coverage", false, "only search representatives covered by the fixed maximal degree ones")
	cmdSample.Flags().IntVarP(&searchOptions.Samples, "samples", "n", 100000, "number of random functions")
	cmdSample.Flags().StringVar(&searchOptions.Seed, "seed", "dahu", "generator `seed`")
}

// resolveJob loads the config file, if any, then applies the flags the user
// set explicitly.
func resolveJob(flags *pflag.FlagSet, opts SearchOptions) (search.Job, error) {
	job := opts.job
	if opts.Config != "" {
		loaded, err := search.LoadJob(opts.Config)
		if err != nil {
			return job, err
		}
		flags.Visit(func(f *pflag.Flag) {
			switch f.Name {
			case "locality":
				loaded.Locality = job.Locality
			case "resiliency":
				loaded.Resiliency = job.Resiliency
			case "ai":
				loaded.AlgebraicImmunity = job.AlgebraicImmunity
			case "result-dir":
				loaded.ResultDir = job.ResultDir
			case "checkpoint-dir":
				loaded.CheckpointDir = job.CheckpointDir
			case "checkpoint-interval":
				loaded.CheckpointInterval = job.CheckpointInterval
			}
		})
		job = loaded
	}
	if opts.Config == "" || flags.Changed("max-sanf") {
		bits, err := search.ParseBits(opts.maxSANF)
		if err != nil {
			return job, errors.Wrap(err, "--max-sanf")
		}
		job.MaxDegreeSANF = bits
	}
	if opts.Config == "" || flags.Changed("min-sanf") {
		bits, err := search.ParseBits(opts.minSANF)
		if err != nil {
			return job, errors.Wrap(err, "--min-sanf")
		}
		job.MinDegreeSANF = bits
	}
	return job, job.Validate()
}

func runSearch(ctx context.Context, flags *pflag.FlagSet, opts SearchOptions, gopts *GlobalOptions) error {
	job, err := resolveJob(flags, opts)
	if err != nil {
		return err
	}
	drive := search.FindRSF
	if opts.Coverage {
		drive = search.FindRSFWithCoverage
	}
	n, err := drive(ctx, job, gopts.searchOptions())
	if err != nil {
		return err
	}
	gopts.printf("%d dahus found\n", n)
	return report(opts, gopts)
}

func runSample(ctx context.Context, flags *pflag.FlagSet, opts SearchOptions, gopts *GlobalOptions) error {
	job, err := resolveJob(flags, opts)
	if err != nil {
		return err
	}
	n, err := search.Sample(ctx, job, opts.Samples, []byte(opts.Seed), gopts.searchOptions())
	if err != nil {
		return err
	}
	gopts.printf("%d dahus found in %d samples\n", n, opts.Samples)
	return report(opts, gopts)
}

// report prints the search counters and, with --profile, the phase timings.
func report(opts SearchOptions, gopts *GlobalOptions) error {
	counters, err := measureutil.Snapshot(gopts.metrics.Registry())
	if err != nil {
		return err
	}
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		gopts.printf("%-24s %g\n", name, counters[name])
	}
	if !opts.Profile {
		return nil
	}
	for _, s := range prof.Summarize(prof.SnapshotAndReset()) {
		gopts.printf("%-20s %6d calls %12s total %12s max\n", s.Label, s.Count,
			s.Total.Round(time.Microsecond), s.Max.Round(time.Microsecond))
	}
	return nil
}
