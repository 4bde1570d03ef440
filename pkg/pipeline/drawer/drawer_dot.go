package drawer

import (
	"fmt"
	"io"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/gemsimvalid/internal/store"
	"github.com/askiada/gemsimvalid/pkg/pipeline/measure"
)

// DOTDrawer writes a graphviz description of the drawn graph.
// Nodes and edges are written in the order they were added.
type DOTDrawer struct {
	graph graph.Graph[string, string]
	store store.OrderedStore[string, string]
	wrt   io.Writer
	attrs map[string]string
}

// NewDOTDrawer creates a new DOT drawer writing to wrt.
func NewDOTDrawer(wrt io.Writer) *DOTDrawer {
	st := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		graph: graph.NewWithStore[string, string](graph.StringHash, st, graph.Directed()),
		store: st,
		wrt:   wrt,
		attrs: map[string]string{"rankdir": "LR"},
	}
}

// AddStep adds a node to the graph.
func (d *DOTDrawer) AddStep(name string, attributes map[string]string) error {
	opts := make([]func(*graph.VertexProperties), 0, len(attributes))
	for key, value := range attributes {
		opts = append(opts, graph.VertexAttribute(key, value))
	}

	err := d.graph.AddVertex(name, opts...)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// SetAttribute sets a DOT attribute on a node.
func (d *DOTDrawer) SetAttribute(stepName, key, value string) error {
	_, properties, err := d.graph.VertexWithProperties(stepName)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stepName)
	}

	properties.Attributes[key] = value

	return nil
}

// SetTotalTime sets the total time for the step.
func (d *DOTDrawer) SetTotalTime(stepName string, startTime time.Time) error {
	return d.SetAttribute(stepName, "xlabel", time.Since(startTime).Round(time.Millisecond).String())
}

const maxRGB = 240

// AddMeasure labels every measured node with its average duration and fills it
// with a colour going from blue for the fastest to red for the slowest stage.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()

	var minValue, maxValue time.Duration
	first := true
	for _, mt := range metrics {
		avg := mt.AVGDuration()
		if avg == 0 {
			continue
		}
		if first || avg < minValue {
			minValue = avg
		}
		if first || avg > maxValue {
			maxValue = avg
		}
		first = false
	}

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mt := metrics[name]
		if _, err := d.graph.Vertex(name); err != nil {
			continue
		}

		avg := mt.AVGDuration()
		if avg == 0 {
			continue
		}

		err := d.SetAttribute(name, "xlabel", avg.String())
		if err != nil {
			return err
		}

		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(avg-minValue) / float64(maxValue-minValue)
		}

		heat, err := colors.RGB(uint8(maxRGB*fraction), 0, uint8(maxRGB-maxRGB*fraction)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		err = d.SetAttribute(name, "color", heat.ToHEX().String())
		if err != nil {
			return err
		}
	}

	return nil
}

// Draw writes the graph to the drawer writer.
func (d *DOTDrawer) Draw() error {
	desc, err := d.generateDOT()
	if err != nil {
		return errors.Wrap(err, "unable to generate DOT description")
	}

	return renderDOT(d.wrt, desc)
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range $s := .Statements}}
	"{{.Source}}"{{if .Target}} {{$.EdgeOperator}} "{{.Target}}"{{end}} [ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}}{{range $k, $v := .Attributes}}{{$k}}="{{$v}}", {{end}}];
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
	Source         string
	Target         string
	Attributes     map[string]string
	HTMLAttributes map[string]string
}

func (d *DOTDrawer) generateDOT() (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   d.attrs,
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	adjacencyMap, err := d.graph.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	order := d.store.Order()

	for _, vertex := range order {
		_, properties, err := d.graph.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(properties.Attributes))
		htmlAttributes := make(map[string]string)
		for k, v := range properties.Attributes {
			attributes[k] = v
		}

		if xlabel, ok := attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="10">%s</FONT>>`, vertex, xlabel)
			delete(attributes, "xlabel")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:         vertex,
			Attributes:     attributes,
			HTMLAttributes: htmlAttributes,
		})
	}

	for _, vertex := range order {
		for _, adjacency := range order {
			edge, ok := adjacencyMap[vertex][adjacency]
			if !ok {
				continue
			}
			desc.Statements = append(desc.Statements, statement{
				Source:     vertex,
				Target:     adjacency,
				Attributes: edge.Properties.Attributes,
			})
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

var _ Drawer = (*DOTDrawer)(nil)
