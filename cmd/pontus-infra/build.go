package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/internal/template"
)

func newBuildCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build [stack]",
		Short: "Generate the CloudFormation template of a stack",
		Long: `Build declares the resources of a stack and generates its template.

Stacks:
    app     network, data services and the core API (default)
    core    account-wide GitHub Actions deployment identity

Examples:
    pontus-infra build
    pontus-infra build app -o app.json
    pontus-infra build core --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.OutOrStdout(), opts, stackArg(args), outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(w io.Writer, opts *globalOptions, stackName, format, outputFile string) error {
	s, err := opts.synthesize(stackName)
	if s == nil {
		return err
	}
	if err != nil {
		return outputResult(w, pontus.BuildResult{Success: false, Errors: []string{err.Error()}}, format, outputFile)
	}

	resources, err := s.builder.Resources()
	if err != nil {
		return outputResult(w, pontus.BuildResult{Success: false, Errors: []string{err.Error()}}, format, outputFile)
	}
	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = r.Name
	}

	opts.logger().Debugw("template built", "stack", stackName, "resources", len(names))

	return outputResult(w, pontus.BuildResult{
		Success:   true,
		Template:  *s.template,
		Resources: names,
	}, format, outputFile)
}

func outputResult(w io.Writer, result pontus.BuildResult, format, outputFile string) error {
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("build failed")
	}

	data, err := encodeTemplate(&result.Template, format)
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Fprintln(w, string(data))
		return nil
	}

	return os.WriteFile(outputFile, data, 0o644)
}

func encodeTemplate(tmpl *pontus.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(tmpl)
	case "yaml":
		return template.ToYAML(tmpl)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
