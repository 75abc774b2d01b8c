// Package differ compares CloudFormation templates resource by resource.
package differ

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"gopkg.in/yaml.v3"

	pontus "github.com/pontuslabs/pontus-infra"
)

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores list element order in comparisons
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    pontus.TemplateDiff
	Summary pontus.DiffSummary
}

// Entry types for the non-resource sections of a template.
const (
	TypeParameter = "Parameter"
	TypeOutput    = "Output"
)

// Compare compares two templates. Resources, parameters and outputs are matched by logical name.
func Compare(before, after *pontus.Template, opts Options) (*Result, error) {
	result := &Result{}
	d := &result.Diff

	diffSection(d, before.Resources, after.Resources,
		func(def pontus.ResourceDef) string { return def.Type },
		func(a, b pontus.ResourceDef) []string { return compareResources(a, b, opts) })

	diffSection(d, before.Parameters, after.Parameters,
		func(pontus.Parameter) string { return TypeParameter },
		func(a, b pontus.Parameter) []string { return compareValues(a, b, opts) })

	diffSection(d, before.Outputs, after.Outputs,
		func(pontus.Output) string { return TypeOutput },
		func(a, b pontus.Output) []string { return compareValues(a, b, opts) })

	sortEntries(d.Added)
	sortEntries(d.Removed)
	sortEntries(d.Modified)

	result.Summary = pontus.DiffSummary{
		Added:    len(d.Added),
		Removed:  len(d.Removed),
		Modified: len(d.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result, nil
}

func diffSection[V any](d *pontus.TemplateDiff, before, after map[string]V, typeOf func(V) string, changed func(a, b V) []string) {
	for name, v := range after {
		if _, ok := before[name]; !ok {
			d.Added = append(d.Added, pontus.DiffEntry{Resource: name, Type: typeOf(v)})
		}
	}
	for name, v := range before {
		other, ok := after[name]
		if !ok {
			d.Removed = append(d.Removed, pontus.DiffEntry{Resource: name, Type: typeOf(v)})
			continue
		}
		if changes := changed(v, other); len(changes) > 0 {
			d.Modified = append(d.Modified, pontus.DiffEntry{Resource: name, Type: typeOf(v), Changes: changes})
		}
	}
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	t1, err := LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	t2, err := LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(t1, t2, opts)
}

// LoadTemplate loads a template from a JSON or YAML file.
func LoadTemplate(path string) (*pontus.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTemplate(data)
}

// ParseTemplate parses a JSON or YAML template body.
func ParseTemplate(data []byte) (*pontus.Template, error) {
	var template pontus.Template

	if err := json.Unmarshal(data, &template); err != nil {
		if err := yaml.Unmarshal(data, &template); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}

	return &template, nil
}

// TemplateGetter is the CloudFormation API used to fetch deployed templates.
type TemplateGetter interface {
	GetTemplate(ctx context.Context, params *cloudformation.GetTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.GetTemplateOutput, error)
}

var _ TemplateGetter = (*cloudformation.Client)(nil)

// FetchTemplate returns the template of the deployed stack.
func FetchTemplate(ctx context.Context, client TemplateGetter, stackName string) (*pontus.Template, error) {
	out, err := client.GetTemplate(ctx, &cloudformation.GetTemplateInput{
		StackName:     aws.String(stackName),
		TemplateStage: types.TemplateStageOriginal,
	})
	if err != nil {
		return nil, fmt.Errorf("getting template of stack %s: %w", stackName, err)
	}
	return ParseTemplate([]byte(aws.ToString(out.TemplateBody)))
}

func compareResources(def1, def2 pontus.ResourceDef, opts Options) []string {
	var changes []string

	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}

	changes = append(changes, compareProperties("", def1.Properties, def2.Properties, opts)...)

	if !reflect.DeepEqual(uniqueSorted(def1.DependsOn), uniqueSorted(def2.DependsOn)) {
		changes = append(changes, "DependsOn changed")
	}
	if def1.DeletionPolicy != def2.DeletionPolicy {
		changes = append(changes, fmt.Sprintf("DeletionPolicy changed: %q → %q", def1.DeletionPolicy, def2.DeletionPolicy))
	}

	return changes
}

// compareProperties reports changed paths. Nested maps are walked; lists and scalars are
// compared as a whole.
func compareProperties(prefix string, props1, props2 map[string]any, opts Options) []string {
	var changes []string

	for key, val2 := range props2 {
		path := join(prefix, key)
		val1, exists := props1[key]
		if !exists {
			changes = append(changes, path+" added")
			continue
		}
		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 && !isIntrinsic(m1) && !isIntrinsic(m2) {
			changes = append(changes, compareProperties(path, m1, m2, opts)...)
			continue
		}
		if !deepEqual(val1, val2, opts) {
			changes = append(changes, path+" modified")
		}
	}

	for key := range props1 {
		if _, exists := props2[key]; !exists {
			changes = append(changes, join(prefix, key)+" removed")
		}
	}

	sort.Strings(changes)
	return changes
}

// compareValues compares parameters and outputs field by field.
func compareValues(a, b any, opts Options) []string {
	m1, _ := normalize(a).(map[string]any)
	m2, _ := normalize(b).(map[string]any)
	return compareProperties("", m1, m2, opts)
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func isIntrinsic(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		return k == "Ref" || strings.HasPrefix(k, "Fn::")
	}
	return false
}

func deepEqual(a, b any, opts Options) bool {
	a, b = normalize(a), normalize(b)
	if opts.IgnoreOrder {
		a, b = sortLists(a), sortLists(b)
	}
	return reflect.DeepEqual(a, b)
}

// normalize round-trips v through JSON so a synthesized template (int64, typed structs) and a
// parsed one (float64, plain maps) compare equal.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func sortLists(v any) any {
	switch val := v.(type) {
	case []any:
		result := make([]any, len(val))
		for i, elem := range val {
			result[i] = sortLists(elem)
		}
		sort.SliceStable(result, func(i, j int) bool {
			return encode(result[i]) < encode(result[j])
		})
		return result
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, elem := range val {
			result[k] = sortLists(elem)
		}
		return result
	default:
		return v
	}
}

func encode(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// sortEntries sorts diff entries by resource name.
func sortEntries(entries []pontus.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
