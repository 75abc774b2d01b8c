// Package lint checks synthesized templates for insecure or incomplete declarations.
package lint

import (
	"sort"

	pontus "github.com/pontuslabs/pontus-infra"
)

// Issue is a single finding.
type Issue = pontus.LintIssue

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Rule is a template lint rule.
type Rule interface {
	ID() string
	Description() string
	Check(tmpl *pontus.Template) []Issue
}

// Result contains the outcome of linting.
type Result struct {
	Success bool
	Issues  []Issue
}

// HasErrors reports whether any issue has error severity.
func (r Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Options configures the linter.
type Options struct {
	// Rules to enable. If empty, all rules are enabled.
	EnabledRules []string
	// Sources locates resources in Go source so issues carry file:line.
	Sources []pontus.DeclaredResource
}

// LintTemplate runs the enabled rules against tmpl. Issues are sorted by resource, then rule.
func LintTemplate(tmpl *pontus.Template, opts Options) Result {
	locations := make(map[string]pontus.DeclaredResource, len(opts.Sources))
	for _, src := range opts.Sources {
		locations[src.Name] = src
	}

	var issues []Issue
	for _, rule := range getRules(opts) {
		for _, issue := range rule.Check(tmpl) {
			issue.Rule = rule.ID()
			if src, ok := locations[issue.Resource]; ok {
				issue.File = src.File
				issue.Line = src.Line
			}
			issues = append(issues, issue)
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Resource != issues[j].Resource {
			return issues[i].Resource < issues[j].Resource
		}
		if issues[i].Rule != issues[j].Rule {
			return issues[i].Rule < issues[j].Rule
		}
		return issues[i].Path < issues[j].Path
	})

	return Result{
		Success: len(issues) == 0,
		Issues:  issues,
	}
}

// getRules returns the rules to use based on options.
func getRules(opts Options) []Rule {
	all := AllRules()
	if len(opts.EnabledRules) == 0 {
		return all
	}

	enabled := make(map[string]bool)
	for _, id := range opts.EnabledRules {
		enabled[id] = true
	}

	var filtered []Rule
	for _, r := range all {
		if enabled[r.ID()] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
