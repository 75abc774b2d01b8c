// Package template assembles CloudFormation templates from resources declared on a Builder.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/intrinsics"
	"github.com/pontuslabs/pontus-infra/internal/serialize"
)

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

// Builder collects resources, parameters and outputs and synthesizes a template from them.
// A Builder is not safe for concurrent use.
type Builder struct {
	description string
	resources   map[string]*declared
	parameters  map[string]pontus.Parameter
	outputs     map[string]pontus.Output
	errs        []error
}

type declared struct {
	info           pontus.DeclaredResource
	value          pontus.Resource
	dependsOn      []string
	deletionPolicy string
}

// Handle names a declared resource so other resources can reference it.
type Handle struct {
	name string
}

// Name returns the logical ID.
func (h Handle) Name() string {
	return h.name
}

// Ref returns a Ref to the resource.
func (h Handle) Ref() intrinsics.Ref {
	return intrinsics.Ref{LogicalName: h.name}
}

// GetAtt returns a reference to an attribute of the resource.
func (h Handle) GetAtt(attribute string) pontus.AttrRef {
	return pontus.AttrRef{Resource: h.name, Attribute: attribute}
}

// Option configures a resource declaration.
type Option func(*declared)

// DependsOn adds explicit DependsOn entries for ordering that no property reference expresses.
func DependsOn(handles ...Handle) Option {
	return func(d *declared) {
		for _, h := range handles {
			d.dependsOn = append(d.dependsOn, h.name)
		}
	}
}

// DeletionPolicy sets the resource's DeletionPolicy attribute (Delete, Retain, Snapshot).
func DeletionPolicy(policy string) Option {
	return func(d *declared) {
		d.deletionPolicy = policy
	}
}

// New creates an empty Builder.
func New(description string) *Builder {
	return &Builder{
		description: description,
		resources:   make(map[string]*declared),
		parameters:  make(map[string]pontus.Parameter),
		outputs:     make(map[string]pontus.Output),
	}
}

// Resource declares a resource under the logical ID name and records the caller's
// file and line. Declaring the same name twice is reported by Build.
func (b *Builder) Resource(name string, r pontus.Resource, opts ...Option) Handle {
	_, file, line, _ := runtime.Caller(1)

	if prev, exists := b.resources[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate resource %s at %s:%d (first declared at %s:%d)",
			name, file, line, prev.info.File, prev.info.Line))
		return Handle{name: name}
	}
	if _, exists := b.parameters[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("resource %s at %s:%d collides with a parameter", name, file, line))
		return Handle{name: name}
	}

	d := &declared{
		info: pontus.DeclaredResource{
			Name: name,
			Type: r.ResourceType(),
			File: file,
			Line: line,
		},
		value: r,
	}
	for _, opt := range opts {
		opt(d)
	}
	b.resources[name] = d
	return Handle{name: name}
}

// Parameter declares a template parameter and returns a Ref to it.
func (b *Builder) Parameter(name string, p pontus.Parameter) intrinsics.Ref {
	if _, exists := b.resources[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("parameter %s collides with a resource", name))
	}
	if p.Type == "" {
		p.Type = "String"
	}
	b.parameters[name] = p
	return intrinsics.Ref{LogicalName: name}
}

// Output declares a template output. A nil exportName declares no export.
func (b *Builder) Output(name, description string, value, exportName any) {
	out := pontus.Output{Description: description, Value: value}
	if exportName != nil {
		out.Export = &pontus.OutputExport{Name: exportName}
	}
	b.outputs[name] = out
}

// Resources returns the declared resources sorted by name, with their dependencies resolved.
func (b *Builder) Resources() ([]pontus.DeclaredResource, error) {
	if err := b.resolveDependencies(); err != nil {
		return nil, err
	}

	names := b.sortedNames()
	result := make([]pontus.DeclaredResource, 0, len(names))
	for _, name := range names {
		result = append(result, b.resources[name].info)
	}
	return result, nil
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*pontus.Template, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	if err := b.resolveDependencies(); err != nil {
		return nil, err
	}
	if err := b.checkReferences(); err != nil {
		return nil, err
	}
	if _, err := b.topologicalSort(); err != nil {
		return nil, err
	}

	tmpl := &pontus.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]pontus.ResourceDef, len(b.resources)),
	}

	if len(b.parameters) > 0 {
		tmpl.Parameters = make(map[string]pontus.Parameter, len(b.parameters))
		for name, p := range b.parameters {
			tmpl.Parameters[name] = p
		}
	}

	for name, d := range b.resources {
		props, err := serialize.Properties(d.value)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}
		def := pontus.ResourceDef{Type: d.info.Type, Properties: props, DeletionPolicy: d.deletionPolicy}
		if len(d.dependsOn) > 0 {
			def.DependsOn = uniqueSorted(d.dependsOn)
		}
		tmpl.Resources[name] = def
	}

	if len(b.outputs) > 0 {
		tmpl.Outputs = make(map[string]pontus.Output, len(b.outputs))
		for name, out := range b.outputs {
			value, err := serialize.Value(out.Value)
			if err != nil {
				return nil, fmt.Errorf("serializing output %s: %w", name, err)
			}
			out.Value = value
			if out.Export != nil {
				exportName, err := serialize.Value(out.Export.Name)
				if err != nil {
					return nil, fmt.Errorf("serializing output %s export: %w", name, err)
				}
				out.Export = &pontus.OutputExport{Name: exportName}
			}
			tmpl.Outputs[name] = out
		}
	}

	return tmpl, nil
}

// resolveDependencies fills each resource's Dependencies from its property references
// and explicit DependsOn entries.
func (b *Builder) resolveDependencies() error {
	for name, d := range b.resources {
		props, err := serialize.Properties(d.value)
		if err != nil {
			return fmt.Errorf("serializing %s: %w", name, err)
		}
		deps := append(serialize.References(props), d.dependsOn...)
		d.info.Dependencies = uniqueSorted(deps)
	}
	return nil
}

func (b *Builder) checkReferences() error {
	var errs []error
	for _, name := range b.sortedNames() {
		info := b.resources[name].info
		for _, dep := range info.Dependencies {
			_, isResource := b.resources[dep]
			_, isParameter := b.parameters[dep]
			if !isResource && !isParameter {
				errs = append(errs, fmt.Errorf("%s (%s:%d) references undefined %s", name, info.File, info.Line, dep))
			}
		}
	}
	return errors.Join(errs...)
}

func (b *Builder) sortedNames() []string {
	names := make([]string, 0, len(b.resources))
	for name := range b.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Builder) topologicalSort() ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, d := range b.resources {
		for _, dep := range d.info.Dependencies {
			if _, exists := b.resources[dep]; exists {
				graph[dep] = append(graph[dep], name)
				inDegree[name]++
			}
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.resources) {
		return nil, b.detectCycle()
	}
	return result, nil
}

// detectCycle reports one dependency cycle with the declaration site of each member.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		onPath[node] = true

		for _, dep := range b.resources[node].info.Dependencies {
			if _, exists := b.resources[dep]; !exists {
				continue
			}
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if onPath[dep] {
				cycle = []string{node, dep}
				return true
			}
		}

		onPath[node] = false
		return false
	}

	for _, name := range b.sortedNames() {
		if !visited[name] && findCycle(name) {
			break
		}
	}

	if len(cycle) == 0 {
		return errors.New("circular dependency detected")
	}

	var msg strings.Builder
	msg.WriteString("circular dependency detected:\n")
	for i, name := range cycle {
		info := b.resources[name].info
		fmt.Fprintf(&msg, "  %s (%s:%d)", name, info.File, info.Line)
		if i < len(cycle)-1 {
			msg.WriteString("\n    → ")
		}
	}
	return errors.New(msg.String())
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			result = append(result, n)
		}
	}
	sort.Strings(result)
	return result
}

// ToJSON serializes the template to JSON.
func ToJSON(t *pontus.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *pontus.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
