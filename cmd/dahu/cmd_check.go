package main

import (
	"github.com/spf13/cobra"

	"dahu/bf"
	"dahu/transform"
)

var cmdCheck = &cobra.Command{
	Use:   "check [flags] TRUTHTABLE",
	Short: "Evaluate one Boolean function",
	Long: `
The "check" command reads a truth table, either as a 0x prefixed hexadecimal
number or as a string of 2^l zeros and ones, and prints its ANF, its
resiliency order, its algebraic immunity and the size of its lowest degree
annihilator bases.
`,
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(checkOptions, &globalOptions, args[0])
	},
}

// CheckOptions bundles the options of the check command.
type CheckOptions struct {
	Locality   int
	AI         int
	Resiliency int
}

var checkOptions CheckOptions

func init() {
	cmdRoot.AddCommand(cmdCheck)

	f := cmdCheck.Flags()
	f.IntVarP(&checkOptions.Locality, "locality", "l", 0, "number of `variables`")
	f.IntVar(&checkOptions.AI, "ai", -1, "also report whether the algebraic immunity reaches `n`")
	f.IntVar(&checkOptions.Resiliency, "resiliency", -2, "also report whether the function is `r`-resilient")
	_ = cmdCheck.MarkFlagRequired("locality")
}

func runCheck(opts CheckOptions, gopts *GlobalOptions, arg string) error {
	tt, err := transform.ParseTruthTable(arg, opts.Locality)
	if err != nil {
		return err
	}
	f, err := bf.New(opts.Locality)
	if err != nil {
		return err
	}
	if err := f.SetTruthTable(tt); err != nil {
		return err
	}
	if err := f.UpdateANF(); err != nil {
		return err
	}
	if err := f.UpdateWS(); err != nil {
		return err
	}

	anf, err := f.ANFString()
	if err != nil {
		return err
	}
	degree, err := f.Degree()
	if err != nil {
		return err
	}
	weight, err := f.Weight()
	if err != nil {
		return err
	}
	res, err := resiliencyOrder(f)
	if err != nil {
		return err
	}
	ai, err := algebraicImmunity(f)
	if err != nil {
		return err
	}

	gopts.printf("ANF: %s\n", anf)
	gopts.printf("degree: %d\nweight: %d\n", degree, weight)
	gopts.printf("resiliency: %d\n", res)
	gopts.printf("algebraic immunity: %d\n", ai)

	if err := f.UpdateAnnihilators(ai); err != nil {
		return err
	}
	af, afp1, err := f.Annihilators(0, -1)
	if err != nil {
		return err
	}
	gopts.printf("annihilators of degree <= %d: f: %d, 1+f: %d\n", ai, len(af), len(afp1))

	if opts.Resiliency >= -1 {
		ok, err := f.IsResilient(opts.Resiliency)
		if err != nil {
			return err
		}
		gopts.printf("resiliency %d: %v\n", opts.Resiliency, ok)
	}
	if opts.AI >= 0 {
		ok, err := f.IsAlgebraicImmune(opts.AI)
		if err != nil {
			return err
		}
		gopts.printf("algebraic immunity %d: %v\n", opts.AI, ok)
	}
	return nil
}

// resiliencyOrder returns the largest r for which f is r-resilient, -1 for
// an unbalanced function.
func resiliencyOrder(f *bf.BF) (int, error) {
	r := -1
	for r+1 < f.Locality() {
		ok, err := f.IsResilient(r + 1)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		r++
	}
	return r, nil
}

// algebraicImmunity returns the algebraic immunity of f, at most ⌈l/2⌉.
func algebraicImmunity(f *bf.BF) (int, error) {
	ai := 0
	for ai < (f.Locality()+1)/2 {
		ok, err := f.IsAlgebraicImmune(ai + 1)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		ai++
	}
	return ai, nil
}
