package main

import (
	"github.com/spf13/cobra"

	"dahu/bf"
	"dahu/catalog"
	"dahu/rsf"
	"dahu/search"
	"dahu/transform"
)

var cmdExample = &cobra.Command{
	Use:   "example",
	Short: "Replay the published examples",
	Long: `
The "example" command checks the 9-variable dahu with the generic engine and
the 11-variable rotation-symmetric function with the symmetric engine.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExample(&globalOptions)
	},
}

func init() {
	cmdRoot.AddCommand(cmdExample)
}

func runExample(gopts *GlobalOptions) error {
	gopts.printf("*** %d-variable dahu, generic engine ***\n", catalog.Dahu9.Locality)
	tt, err := transform.ParseTruthTable(catalog.Dahu9Hex, catalog.Dahu9.Locality)
	if err != nil {
		return err
	}
	f, err := bf.New(catalog.Dahu9.Locality)
	if err != nil {
		return err
	}
	if err := f.SetTruthTable(tt); err != nil {
		return err
	}
	if err := f.UpdateANF(); err != nil {
		return err
	}
	anf, err := f.ANFString()
	if err != nil {
		return err
	}
	gopts.printf("ANF: %s\n", anf)
	if err := f.UpdateWS(); err != nil {
		return err
	}
	ai, err := f.IsAlgebraicImmune(catalog.Dahu9.AlgebraicImmunity)
	if err != nil {
		return err
	}
	res, err := f.IsResilient(catalog.Dahu9.Resiliency)
	if err != nil {
		return err
	}
	gopts.printf("algebraic immunity %d: %v\n", catalog.Dahu9.AlgebraicImmunity, ai)
	gopts.printf("resiliency %d: %v\n", catalog.Dahu9.Resiliency, res)

	gopts.printf("\n*** %d-variable rotation-symmetric function ***\n", catalog.RSF11.Locality)
	sanf, err := search.ParseBits(catalog.RSF11SANF)
	if err != nil {
		return err
	}
	g, err := rsf.New(*gopts.caches, catalog.RSF11.Locality)
	if err != nil {
		return err
	}
	if err := g.SetSANF(sanf); err != nil {
		return err
	}
	if anf, err = g.ANFString(); err != nil {
		return err
	}
	gopts.printf("ANF: %s\n", anf)
	if ai, err = g.IsAlgebraicImmune(catalog.RSF11.AlgebraicImmunity); err != nil {
		return err
	}
	if res, err = g.IsResilient(catalog.RSF11.Resiliency); err != nil {
		return err
	}
	gopts.printf("algebraic immunity %d: %v\n", catalog.RSF11.AlgebraicImmunity, ai)
	gopts.printf("resiliency %d: %v\n", catalog.RSF11.Resiliency, res)
	return nil
}
