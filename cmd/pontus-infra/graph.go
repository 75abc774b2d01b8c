package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pontuslabs/pontus-infra/internal/graph"
)

func newGraphCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat      string
		includeParameters bool
		clusterByType     bool
	)

	cmd := &cobra.Command{
		Use:   "graph [stack]",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies.

Ref edges are black, GetAtt edges blue and explicit DependsOn edges dashed.

The output can be rendered with Graphviz:
    pontus-infra graph | dot -Tpng -o deps.png

Examples:
    pontus-infra graph
    pontus-infra graph -p              # include parameters
    pontus-infra graph -c              # cluster by service
    pontus-infra graph core -f mermaid # mermaid format`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.OutOrStdout(), opts, stackArg(args), outputFormat, includeParameters, clusterByType)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&includeParameters, "include-parameters", "p", false, "Include parameter nodes in the graph")
	cmd.Flags().BoolVarP(&clusterByType, "cluster", "c", false, "Cluster resources by AWS service")

	return cmd
}

func runGraph(w io.Writer, opts *globalOptions, stackName, format string, includeParams, cluster bool) error {
	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	s, err := opts.synthesize(stackName)
	if err != nil {
		return err
	}

	gen := &graph.Generator{
		Format:            graphFormat,
		IncludeParameters: includeParams,
		ClusterByType:     cluster,
	}

	return gen.Generate(s.template, w)
}
