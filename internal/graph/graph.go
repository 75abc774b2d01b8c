// Package graph renders the resource dependency graph of a template as DOT or Mermaid.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/internal/serialize"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from synthesized templates.
type Generator struct {
	// IncludeParameters adds parameter nodes and the edges to them.
	IncludeParameters bool

	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByType groups resources by AWS service.
	ClusterByType bool
}

type edgeKind int

const (
	edgeRef edgeKind = iota
	edgeGetAtt
	edgeDependsOn
)

// Generate creates a dependency graph of tmpl and writes it to w.
func (g *Generator) Generate(tmpl *pontus.Template, w io.Writer) error {
	graph := g.buildGraph(tmpl)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString returns the graph as a string.
func (g *Generator) GenerateString(tmpl *pontus.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(tmpl, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(tmpl *pontus.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	names := sortedKeys(tmpl.Resources)
	if g.ClusterByType {
		g.addClusteredNodes(graph, tmpl.Resources, names)
	} else {
		for _, name := range names {
			label(graph.Node(name), name, tmpl.Resources[name].Type)
		}
	}

	if g.IncludeParameters {
		for _, name := range sortedKeys(tmpl.Parameters) {
			n := graph.Node(name)
			n.Attr("shape", "ellipse")
			n.Attr("style", "dashed")
			n.Label(name)
		}
	}

	for _, name := range names {
		edges := edgesOf(tmpl.Resources[name])
		for _, dep := range sortedKeys(edges) {
			_, isResource := tmpl.Resources[dep]
			_, isParam := tmpl.Parameters[dep]
			if !isResource && !(isParam && g.IncludeParameters) {
				continue
			}

			e := graph.Edge(graph.Node(name), graph.Node(dep))
			switch edges[dep] {
			case edgeGetAtt:
				e.Attr("color", "blue")
			case edgeDependsOn:
				e.Attr("style", "dashed")
				e.Attr("color", "gray")
			}
		}
	}

	return graph
}

// edgesOf returns the logical names res points at. GetAtt wins over Ref, and an explicit
// DependsOn is only kept when no property references the target.
func edgesOf(res pontus.ResourceDef) map[string]edgeKind {
	edges := make(map[string]edgeKind)
	serialize.Visit(res.Properties, func(name string, kind serialize.Kind) {
		if kind == serialize.KindGetAtt {
			edges[name] = edgeGetAtt
			return
		}
		if _, ok := edges[name]; !ok {
			edges[name] = edgeRef
		}
	})
	for _, dep := range res.DependsOn {
		if _, ok := edges[dep]; !ok {
			edges[dep] = edgeDependsOn
		}
	}
	return edges
}

// addClusteredNodes groups resources by service. Services with a single resource are not clustered.
func (g *Generator) addClusteredNodes(graph *dot.Graph, resources map[string]pontus.ResourceDef, names []string) {
	byService := make(map[string][]string)
	for _, name := range names {
		svc := Service(resources[name].Type)
		byService[svc] = append(byService[svc], name)
	}

	for _, svc := range sortedKeys(byService) {
		members := byService[svc]
		parent := graph
		if len(members) > 1 {
			parent = graph.Subgraph("cluster_"+svc, dot.ClusterOption{})
			parent.Attr("label", svc)
			parent.Attr("style", "rounded")
			parent.Attr("bgcolor", "lightyellow")
		}
		for _, name := range members {
			label(parent.Node(name), name, resources[name].Type)
		}
	}
}

func label(n dot.Node, name, cfType string) {
	n.Label(name + "\\n[" + cfType + "]")
}

// Service extracts the service from a CloudFormation type.
// e.g., "AWS::EC2::VPC" -> "EC2"
func Service(cfType string) string {
	parts := strings.Split(cfType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
