package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/internal/validation"
)

// newValidateCmd creates the "validate" subcommand for checking template validity.
func newValidateCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat string
		skipCfnLint  bool
	)

	cmd := &cobra.Command{
		Use:   "validate [stack]",
		Short: "Validate references and run cfn-lint",
		Long: `Validate builds a stack and checks the template before deployment.

Checks performed:
  - Reference validity: every Ref, GetAtt, Sub variable and DependsOn target is declared
  - Unused parameters are reported as warnings
  - cfn-lint rules for CloudFormation templates

Examples:
    pontus-infra validate
    pontus-infra validate core --format json
    pontus-infra validate --skip-cfn-lint`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), opts, stackArg(args), outputFormat, skipCfnLint)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&skipCfnLint, "skip-cfn-lint", false, "Only check references")

	return cmd
}

// runValidate builds the stack and validates the resulting template.
func runValidate(w io.Writer, opts *globalOptions, stackName, format string, skipCfnLint bool) error {
	s, err := opts.synthesize(stackName)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := validation.Validate(s.template, validation.Options{SkipCfnLint: skipCfnLint})
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return outputValidateResult(w, result, format)
}

func outputValidateResult(w io.Writer, result pontus.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
		if result.Success {
			fmt.Fprintf(w, "Validation passed: %d resources OK\n", result.Resources)
			return nil
		}

		fmt.Fprintln(w, "Validation FAILED:")
		for _, errMsg := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", errMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		return errors.New("validation failed")
	}
	return nil
}
