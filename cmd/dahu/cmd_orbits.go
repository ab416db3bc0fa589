package main

import (
	"github.com/spf13/cobra"

	"dahu/symmetry"
)

var cmdOrbits = &cobra.Command{
	Use:   "orbits [flags]",
	Short: "Print the rotation orbit representatives of a locality",
	Long: `
The "orbits" command prints the number of rotation orbit representatives per
Hamming weight, the SANF length of rotation-symmetric functions of l
variables. With --list, every representative is printed with its orbit.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrbits(orbitsOptions, &globalOptions)
	},
}

// OrbitsOptions bundles the options of the orbits command.
type OrbitsOptions struct {
	Locality int
	List     bool
}

var orbitsOptions OrbitsOptions

func init() {
	cmdRoot.AddCommand(cmdOrbits)

	f := cmdOrbits.Flags()
	f.IntVarP(&orbitsOptions.Locality, "locality", "l", 7, "number of `variables`")
	f.BoolVar(&orbitsOptions.List, "list", false, "print every representative")
}

func runOrbits(opts OrbitsOptions, gopts *GlobalOptions) error {
	t, err := gopts.caches.Symmetry.Get(opts.Locality)
	if err != nil {
		return err
	}
	gopts.printf("representatives: %d\n", t.N())
	for w, n := range t.CountByWeight {
		gopts.printf("weight %2d: %d\n", w, n)
	}
	if !opts.List {
		return nil
	}
	for i, r := range t.Reps {
		gopts.printf("%4d %0*b %s\n", i, opts.Locality, r, symmetry.OrbitANFString(r, opts.Locality))
	}
	return nil
}
