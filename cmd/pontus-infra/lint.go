package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/internal/lint"
)

func newLintCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat string
		rules        []string
	)

	cmd := &cobra.Command{
		Use:   "lint [stack]",
		Short: "Check a stack template for insecure declarations",
		Long: `Lint builds a stack and checks the template for common issues.

Rules:
    PON001: Security group ingress open to the internet on a non-web port
    PON002: IAM statement granting a wildcard action
    PON003: Secret-like property set from a literal or a visible parameter
    PON004: Database or broker reachable from the internet
    PON005: Load balancer listener without TLS
    PON006: VPC or subnet without tags

Examples:
    pontus-infra lint
    pontus-infra lint core --format json
    pontus-infra lint --rules PON001,PON002`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd.OutOrStdout(), opts, stackArg(args), outputFormat, rules)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringSliceVar(&rules, "rules", nil, "Rule IDs to run (default: all)")

	return cmd
}

func runLint(w io.Writer, opts *globalOptions, stackName, format string, rules []string) error {
	s, err := opts.synthesize(stackName)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	sources, err := s.builder.Resources()
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	result := lint.LintTemplate(s.template, lint.Options{
		EnabledRules: rules,
		Sources:      sources,
	})

	if err := outputLintResult(w, pontus.LintResult{Success: result.Success, Issues: result.Issues}, format); err != nil {
		return err
	}
	if result.HasErrors() {
		return errors.New("lint found errors")
	}
	return nil
}

func outputLintResult(w io.Writer, result pontus.LintResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if result.Success {
			fmt.Fprintln(w, "No issues found.")
			return nil
		}

		for _, issue := range result.Issues {
			where := issue.Resource
			if issue.Path != "" {
				where += "." + issue.Path
			}
			if issue.File != "" {
				fmt.Fprintf(w, "%s:%d: %s: %s: %s [%s]\n",
					issue.File, issue.Line, where, issue.Severity, issue.Message, issue.Rule)
			} else {
				fmt.Fprintf(w, "%s: %s: %s [%s]\n", where, issue.Severity, issue.Message, issue.Rule)
			}
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
