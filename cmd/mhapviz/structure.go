package main

import (
	"github.com/spf13/cobra"

	"github.com/inodb/mhapviz/internal/chart"
	"github.com/inodb/mhapviz/internal/gene"
)

func newStructureCmd() *cobra.Command {
	var (
		genePath string
		out      string
		width    int
		height   int
	)

	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Plot a gene exon/UTR schematic",
		Long: `Render a gene model as a schematic: a baseline across the gene span,
exon boxes over thinner UTR boxes, and labeled exons ticked at their
midpoints. The x-domain is clamped exactly to the gene span.`,
		Example: `  mhapviz structure --gene mh0421.yaml -o gene.png
  mhapviz structure --gene mh0421.yaml --width 1600 --height 200 -o gene.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStructure(cmd, genePath, out, width, height)
		},
	}

	cmd.Flags().StringVar(&genePath, "gene", "", "Gene model YAML file (required)")
	cmd.MarkFlagRequired("gene")
	addOutputFlags(cmd, &out, &width, &height)

	return cmd
}

func runStructure(cmd *cobra.Command, genePath, out string, width, height int) error {
	model, err := gene.Load(genePath)
	if err != nil {
		return err
	}

	builder := chart.NewStructureBuilder()
	builder.SetLogger(newLogger())
	panel, err := builder.Build(model)
	if err != nil {
		return err
	}

	width, height = resolvePlotSize(cmd, width, height)
	return chart.Single(panel).Export(out, width, height)
}
