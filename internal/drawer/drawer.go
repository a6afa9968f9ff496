package drawer

import (
	"fmt"
	"github.com/dominikbraun/graph"
	"github.com/packagewjx/tensorprep/internal/preprocess"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"
	"io"
	"text/template"
)

const (
	SourceVertex = "source"
	SinkVertex   = "sink"
)

type family struct {
	r, g, b uint8
}

var (
	terminalFamily   = family{r: 200, g: 200, b: 200}
	normalizeFamily  = family{r: 135, g: 180, b: 240}
	structuralFamily = family{r: 150, g: 220, b: 150}
	spatialFamily    = family{r: 245, g: 180, b: 110}
)

func stageFamily(name string) family {
	switch name {
	case preprocess.StageZScore, preprocess.StageMinMax, preprocess.StageScale, preprocess.StageImpute:
		return normalizeFamily
	case preprocess.StageResize:
		return spatialFamily
	default:
		return structuralFamily
	}
}

func (f family) hex() (string, error) {
	c, err := colors.RGB(f.r, f.g, f.b)
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}
	return c.ToHEX().String(), nil
}

// Graph builds the chain source -> stage_1 -> ... -> sink of p. Vertices are
// keyed by position, so a stage used twice gets two vertices.
func Graph(p *preprocess.Pipeline) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())

	addVertex := func(key, label string, f family) error {
		c, err := f.hex()
		if err != nil {
			return err
		}
		err = g.AddVertex(key,
			graph.VertexAttribute("label", label),
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", c))
		if err != nil {
			return errors.Wrap(err, "unable to add vertex")
		}
		return nil
	}

	if err := addVertex(SourceVertex, SourceVertex, terminalFamily); err != nil {
		return nil, err
	}
	previous := SourceVertex
	for i, stage := range p.Stages() {
		key := fmt.Sprintf("stage_%d", i+1)
		if err := addVertex(key, stage.Name(), stageFamily(stage.Name())); err != nil {
			return nil, err
		}
		if err := g.AddEdge(previous, key); err != nil {
			return nil, errors.Wrapf(err, "unable to add edge from %s to %s", previous, key)
		}
		previous = key
	}
	if err := addVertex(SinkVertex, SinkVertex, terminalFamily); err != nil {
		return nil, err
	}
	if err := g.AddEdge(previous, SinkVertex); err != nil {
		return nil, errors.Wrapf(err, "unable to add edge from %s to %s", previous, SinkVertex)
	}
	return g, nil
}

// Draw writes the DOT rendering of p to wrt.
func Draw(p *preprocess.Pipeline, wrt io.Writer) error {
	g, err := Graph(p)
	if err != nil {
		return err
	}
	desc, err := generateDOT(g, GraphAttribute("rankdir", "LR"))
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}
	return renderDOT(wrt, desc)
}

const dotTemplate = `strict {{.GraphType}} {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range $s := .Statements}}
	"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}"{{else}}[ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.SourceWeight}} ]{{end}};
{{- end}}
}
`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	SourceWeight     int
}

// GraphAttribute sets a top level attribute of the rendered graph.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT lists vertices in topological order with each vertex followed
// by its outgoing edges, so the output is stable.
func generateDOT(g graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if g.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	order, err := graph.TopologicalSort(g)
	if err != nil {
		return desc, errors.Wrap(err, "unable to sort vertices")
	}
	adjacencyMap, err := g.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range order {
		_, properties, err := g.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}
		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceAttributes: properties.Attributes,
			SourceWeight:     properties.Weight,
		})
		for _, target := range order {
			if _, ok := adjacencyMap[vertex][target]; ok {
				desc.Statements = append(desc.Statements, statement{Source: vertex, Target: target})
			}
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}
