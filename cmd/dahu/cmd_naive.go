package main

import (
	"context"

	"github.com/spf13/cobra"

	"dahu/search"
	"dahu/transform"
)

var cmdNaiveBF = &cobra.Command{
	Use:   "naive-bf",
	Short: "Count all functions meeting the targets by enumerating truth tables",
	Long: `
The "naive-bf" command enumerates all 2^(2^l) truth tables of l variables and
counts those that are r-resilient with algebraic immunity at least ai. It is
only practical for l <= 4.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNaiveBF(cmd.Context(), naiveOptions, &globalOptions)
	},
}

var cmdNaiveRSF = &cobra.Command{
	Use:   "naive-rsf",
	Short: "Count all rotation-symmetric functions meeting the targets",
	Long: `
The "naive-rsf" command enumerates every SANF of l variables and counts the
rotation-symmetric functions that are r-resilient with algebraic immunity at
least ai.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNaiveRSF(cmd.Context(), naiveOptions, &globalOptions)
	},
}

// NaiveOptions bundles the options of the naive commands.
type NaiveOptions struct {
	Locality   int
	Resiliency int
	AI         int
	Print      bool
}

var naiveOptions NaiveOptions

func init() {
	for _, cmd := range []*cobra.Command{cmdNaiveBF, cmdNaiveRSF} {
		cmdRoot.AddCommand(cmd)
		f := cmd.Flags()
		f.IntVarP(&naiveOptions.Locality, "locality", "l", 4, "number of `variables`")
		f.IntVarP(&naiveOptions.Resiliency, "resiliency", "r", 1, "resiliency `order` (-1 disables the check)")
		f.IntVar(&naiveOptions.AI, "ai", 2, "minimal algebraic `immunity`")
		f.BoolVar(&naiveOptions.Print, "print", false, "print every function found")
	}
}

func runNaiveBF(ctx context.Context, opts NaiveOptions, gopts *GlobalOptions) error {
	var visit func([]uint8)
	if opts.Print {
		visit = func(tt []uint8) { gopts.printf("%s\n", transform.FormatHex(tt)) }
	}
	n, err := search.NaiveBF(ctx, opts.Locality, opts.Resiliency, opts.AI, visit)
	if err != nil {
		return err
	}
	gopts.printf("%d dahus found\n", n)
	return nil
}

func runNaiveRSF(ctx context.Context, opts NaiveOptions, gopts *GlobalOptions) error {
	var visit func([]uint8)
	if opts.Print {
		visit = func(sanf []uint8) { gopts.printf("%s\n", search.Bits(sanf)) }
	}
	n, err := search.NaiveRSF(ctx, opts.Locality, opts.Resiliency, opts.AI, visit)
	if err != nil {
		return err
	}
	gopts.printf("%d dahus found\n", n)
	return nil
}
