package sequence

import (
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/gemsimvalid/internal/store"
)

const (
	GEMSequenceName = "gemSimValid"
	ME0SequenceName = "me0SimValid"
)

// Sequence is an ordered, immutable list of validation modules.
type Sequence struct {
	name     string
	detector Detector
	modules  []Module
}

// Name returns the sequence label.
func (s Sequence) Name() string { return s.name }

// Detector returns the detector the sequence validates.
func (s Sequence) Detector() Detector { return s.detector }

// Modules returns a copy of the modules in execution order.
func (s Sequence) Modules() []Module {
	res := make([]Module, 0, len(s.modules))
	for _, m := range s.modules {
		res = append(res, m.clone())
	}

	return res
}

// Names returns the module labels in execution order.
func (s Sequence) Names() []string {
	res := make([]string, 0, len(s.modules))
	for _, m := range s.modules {
		res = append(res, m.Name)
	}

	return res
}

// Len returns the number of modules.
func (s Sequence) Len() int { return len(s.modules) }

// String renders the sequence as a product of its modules, the way the
// framework writes sequences: a*b*c.
func (s Sequence) String() string {
	return strings.Join(s.Names(), "*")
}

type yamlSequence struct {
	Name     string   `yaml:"name"`
	Detector Detector `yaml:"detector"`
	Modules  []Module `yaml:"modules"`
}

// MarshalYAML implements yaml.Marshaler.
func (s Sequence) MarshalYAML() (interface{}, error) {
	return yamlSequence{Name: s.name, Detector: s.detector, Modules: s.Modules()}, nil
}

func moduleHash(m Module) string {
	return m.Name
}

// Compose builds the sequence of one detector from the catalog.
//
// Every layer must have exactly one module. The modules are linked
// hits → digis → rechits in a directed acyclic graph and returned in
// topological order.
func Compose(name string, detector Detector, catalog *Catalog) (Sequence, error) {
	if catalog == nil {
		return Sequence{}, ErrCatalogMustBeSet
	}
	if !detector.valid() {
		return Sequence{}, errors.Wrapf(ErrUnknownDetector, "%q", detector)
	}

	gra := graph.NewWithStore[string, Module](moduleHash, store.NewMemoryStore[string, Module](),
		graph.Directed(), graph.Acyclic(), graph.PreventCycles())

	byLayer := make(map[Layer]Module)
	for _, m := range catalog.ForDetector(detector) {
		err := gra.AddVertex(m, graph.VertexAttribute("layer", string(m.Layer)))
		if err != nil {
			return Sequence{}, errors.Wrapf(err, "unable to add module %s", m.Name)
		}
		byLayer[m.Layer] = m
	}

	layers := Layers()
	for _, layer := range layers {
		if _, ok := byLayer[layer]; !ok {
			return Sequence{}, errors.Wrapf(ErrMissingLayer, "%s %s", detector, layer)
		}
	}

	for i := 1; i < len(layers); i++ {
		parent, child := byLayer[layers[i-1]], byLayer[layers[i]]
		err := gra.AddEdge(parent.Name, child.Name)
		if err != nil {
			return Sequence{}, errors.Wrapf(err, "unable to link %s to %s", parent.Name, child.Name)
		}
	}

	order, err := graph.TopologicalSort(gra)
	if err != nil {
		return Sequence{}, errors.Wrapf(err, "unable to order sequence %s", name)
	}

	seq := Sequence{name: name, detector: detector, modules: make([]Module, 0, len(order))}
	for _, hash := range order {
		m, err := gra.Vertex(hash)
		if err != nil {
			return Sequence{}, errors.Wrapf(err, "unable to get module %s", hash)
		}
		seq.modules = append(seq.modules, m)
	}

	return seq, nil
}

// Config holds the assembled validation sequences.
type Config struct {
	GEM Sequence
	ME0 Sequence
}

// Assemble composes gemSimValid and me0SimValid from the catalog.
func Assemble(catalog *Catalog) (Config, error) {
	gem, err := Compose(GEMSequenceName, DetectorGEM, catalog)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to compose GEM sequence")
	}
	me0, err := Compose(ME0SequenceName, DetectorME0, catalog)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to compose ME0 sequence")
	}

	return Config{GEM: gem, ME0: me0}, nil
}

// Sequences returns the sequences in a stable order, GEM first.
func (c Config) Sequences() []Sequence {
	return []Sequence{c.GEM, c.ME0}
}

// Lookup returns the sequence with the given label.
func (c Config) Lookup(name string) (Sequence, bool) {
	for _, seq := range c.Sequences() {
		if seq.name == name {
			return seq, true
		}
	}

	return Sequence{}, false
}

// DetailPlotLabels returns the analyzer labels of a detector that accept the
// detailPlot switch, in execution order.
func (c Config) DetailPlotLabels(d Detector) []string {
	var res []string
	for _, seq := range c.Sequences() {
		if seq.detector != d {
			continue
		}
		for _, m := range seq.modules {
			if m.DetailPlot {
				res = append(res, m.Members...)
			}
		}
	}

	return res
}
