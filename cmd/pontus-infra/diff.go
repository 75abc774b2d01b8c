package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/spf13/cobra"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/internal/differ"
	"github.com/pontuslabs/pontus-infra/internal/secrets"
)

type diffOptions struct {
	file         string
	deployed     bool
	ignoreOrder  bool
	outputFormat string
}

func newDiffCmd(opts *globalOptions) *cobra.Command {
	var dopts diffOptions

	cmd := &cobra.Command{
		Use:   "diff [stack]",
		Short: "Compare a stack with a saved or deployed template",
		Long: `Diff builds a stack and compares it with a previous template.

The previous template is read from --file (JSON or YAML) or, with --deployed,
fetched from CloudFormation.

Examples:
    pontus-infra diff --file app.json
    pontus-infra diff core --deployed
    pontus-infra diff --file app.yaml --ignore-order --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd.OutOrStdout(), opts, stackArg(args), dopts)
		},
	}

	cmd.Flags().StringVar(&dopts.file, "file", "", "Template file to compare against")
	cmd.Flags().BoolVar(&dopts.deployed, "deployed", false, "Compare against the deployed stack")
	cmd.Flags().BoolVar(&dopts.ignoreOrder, "ignore-order", false, "Ignore list element order")
	cmd.Flags().StringVarP(&dopts.outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.MarkFlagsMutuallyExclusive("file", "deployed")

	return cmd
}

func runDiff(ctx context.Context, w io.Writer, opts *globalOptions, stackName string, dopts diffOptions) error {
	if dopts.file == "" && !dopts.deployed {
		return errors.New("one of --file or --deployed is required")
	}

	s, err := opts.synthesize(stackName)
	if err != nil {
		return err
	}

	var before *pontus.Template
	if dopts.deployed {
		awsCfg, err := secrets.LoadAWSConfig(ctx, s.cfg.Region)
		if err != nil {
			return err
		}
		before, err = differ.FetchTemplate(ctx, cloudformation.NewFromConfig(awsCfg), s.stack.DeployedName(s.cfg))
		if err != nil {
			return err
		}
	} else {
		before, err = differ.LoadTemplate(dopts.file)
		if err != nil {
			return err
		}
	}

	result, err := differ.Compare(before, s.template, differ.Options{IgnoreOrder: dopts.ignoreOrder})
	if err != nil {
		return err
	}

	return outputDiffResult(w, result, dopts.outputFormat)
}

func outputDiffResult(w io.Writer, result *differ.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(pontus.DiffResult{
			Success: true,
			Diff:    result.Diff,
			Summary: result.Summary,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if result.Summary.Total == 0 {
			fmt.Fprintln(w, "No differences.")
			return nil
		}

		for _, e := range result.Diff.Added {
			fmt.Fprintf(w, "+ %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Removed {
			fmt.Fprintf(w, "- %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Modified {
			fmt.Fprintf(w, "~ %s (%s)\n", e.Resource, e.Type)
			for _, c := range e.Changes {
				fmt.Fprintf(w, "    %s\n", c)
			}
		}
		fmt.Fprintf(w, "\n%d added, %d removed, %d modified\n",
			result.Summary.Added, result.Summary.Removed, result.Summary.Modified)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
