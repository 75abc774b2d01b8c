// Package validation checks synthesized templates before deployment.
//
// Two passes run over a template:
//   - reference checks: every Ref, Fn::GetAtt, Fn::Sub variable and DependsOn target is declared
//   - cfn-lint-go: schema and best-practice rules for CloudFormation templates
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/internal/serialize"
	"github.com/pontuslabs/pontus-infra/internal/template"
)

// CfnLintResult contains the result of running cfn-lint.
type CfnLintResult struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r CfnLintResult) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// Options configures Validate.
type Options struct {
	// SkipCfnLint runs the reference checks only.
	SkipCfnLint bool
}

// Validate runs the reference checks and cfn-lint-go over tmpl.
func Validate(tmpl *pontus.Template, opts Options) (pontus.ValidateResult, error) {
	result := pontus.ValidateResult{Resources: len(tmpl.Resources)}

	refErrs, refWarnings := CheckReferences(tmpl)
	result.Errors = append(result.Errors, refErrs...)
	result.Warnings = append(result.Warnings, refWarnings...)

	if !opts.SkipCfnLint {
		cfn, err := LintTemplate(tmpl)
		if err != nil {
			return result, err
		}
		result.Errors = append(result.Errors, cfn.Errors...)
		result.Warnings = append(result.Warnings, cfn.Warnings...)
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// CheckReferences reports references to undeclared names as errors and parameters nothing
// references as warnings. Both lists are sorted.
func CheckReferences(tmpl *pontus.Template) (errs, warnings []string) {
	used := make(map[string]bool)

	check := func(owner string, v any) {
		serialize.Visit(v, func(name string, kind serialize.Kind) {
			used[name] = true
			_, isResource := tmpl.Resources[name]
			_, isParam := tmpl.Parameters[name]
			switch {
			case kind == serialize.KindGetAtt && isParam:
				errs = append(errs, fmt.Sprintf("%s: GetAtt on parameter %s", owner, name))
			case !isResource && !isParam:
				errs = append(errs, fmt.Sprintf("%s: reference to undefined %s", owner, name))
			}
		})
	}

	for _, name := range sortedKeys(tmpl.Resources) {
		res := tmpl.Resources[name]
		check(name, res.Properties)
		for _, dep := range res.DependsOn {
			used[dep] = true
			if _, ok := tmpl.Resources[dep]; !ok {
				errs = append(errs, fmt.Sprintf("%s: DependsOn undefined resource %s", name, dep))
			}
		}
	}

	for _, name := range sortedKeys(tmpl.Outputs) {
		out := tmpl.Outputs[name]
		check("Outputs."+name, out.Value)
		if out.Export != nil {
			check("Outputs."+name+".Export", out.Export.Name)
		}
	}

	for _, name := range sortedKeys(tmpl.Parameters) {
		if !used[name] {
			warnings = append(warnings, fmt.Sprintf("parameter %s is never referenced", name))
		}
	}

	sort.Strings(errs)
	return slices.Compact(errs), warnings
}

// LintTemplate writes tmpl to a temporary file and runs cfn-lint-go over it.
func LintTemplate(tmpl *pontus.Template) (*CfnLintResult, error) {
	data, err := template.ToJSON(tmpl)
	if err != nil {
		return nil, fmt.Errorf("serializing template: %w", err)
	}

	dir, err := os.MkdirTemp("", "pontus-validate-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "template.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}

	return RunCfnLint(path)
}

// RunCfnLint runs cfn-lint-go on the given template file.
func RunCfnLint(templatePath string) (*CfnLintResult, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Template file not found: %s", templatePath)},
		}, nil
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(templatePath)
	if err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Linter error: %v", err)},
		}, nil
	}

	result := &CfnLintResult{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}

	for _, match := range matches {
		formatted := formatMatch(match)

		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	// Warnings do not fail validation
	result.Passed = len(result.Errors) == 0

	return result, nil
}

// formatMatch formats a cfn-lint-go match for display.
func formatMatch(match lint.Match) string {
	if len(match.Location.Path) > 0 {
		parts := make([]string, len(match.Location.Path))
		for i, p := range match.Location.Path {
			parts[i] = fmt.Sprintf("%v", p)
		}
		return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, strings.Join(parts, "/"))
	}
	return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
