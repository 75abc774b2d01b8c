package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	pontus "github.com/pontuslabs/pontus-infra"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list [stack]",
		Short: "List declared resources",
		Long: `List displays the resources of a stack with the file and line declaring them.

Examples:
    pontus-infra list
    pontus-infra list core --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), opts, stackArg(args), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runList(w io.Writer, opts *globalOptions, stackName, format string) error {
	s, err := opts.synthesize(stackName)
	if s == nil {
		return err
	}

	declared, err := s.builder.Resources()
	if err != nil {
		return err
	}

	result := pontus.ListResult{Resources: make([]pontus.ListResource, 0, len(declared))}
	for _, r := range declared {
		result.Resources = append(result.Resources, pontus.ListResource{
			Name: r.Name,
			Type: r.Type,
			File: r.File,
			Line: r.Line,
		})
	}

	return outputListResult(w, result, format)
}

func outputListResult(w io.Writer, result pontus.ListResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(w, "No resources found.")
			return nil
		}

		fmt.Fprintf(w, "Declared resources (%d):\n\n", len(result.Resources))
		for _, res := range result.Resources {
			fmt.Fprintf(w, "  %s: %s (%s:%d)\n", res.Name, res.Type, res.File, res.Line)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
