package sequence

import (
	"github.com/pkg/errors"
)

// Detector identifies the muon sub-detector a module validates.
type Detector string

const (
	DetectorGEM Detector = "gem"
	DetectorME0 Detector = "me0"
)

// Detectors lists the supported detectors.
func Detectors() []Detector {
	return []Detector{DetectorGEM, DetectorME0}
}

func (d Detector) valid() bool {
	return d == DetectorGEM || d == DetectorME0
}

// Layer is the stage of the simulation chain a module looks at.
type Layer string

const (
	LayerHits    Layer = "hits"
	LayerDigis   Layer = "digis"
	LayerRecHits Layer = "rechits"
)

// Layers returns the layers in execution order.
func Layers() []Layer {
	return []Layer{LayerHits, LayerDigis, LayerRecHits}
}

func (l Layer) valid() bool {
	for _, layer := range Layers() {
		if l == layer {
			return true
		}
	}

	return false
}

// Module describes a validation module provided by the framework.
type Module struct {
	// Name is the label the module is registered under, e.g. gemDigiValidation.
	Name     string   `yaml:"name"`
	Detector Detector `yaml:"detector"`
	Layer    Layer    `yaml:"layer"`
	// Members are the analyzer labels the module groups.
	Members []string `yaml:"members,omitempty"`
	// DetailPlot is true when the members accept the detailPlot switch.
	DetailPlot bool `yaml:"detailPlot"`
}

func (m Module) validate() error {
	if m.Name == "" {
		return ErrEmptyName
	}
	if !m.Detector.valid() {
		return errors.Wrapf(ErrUnknownDetector, "module %s: %q", m.Name, m.Detector)
	}
	if !m.Layer.valid() {
		return errors.Wrapf(ErrUnknownLayer, "module %s: %q", m.Name, m.Layer)
	}

	return nil
}

func (m Module) clone() Module {
	if m.Members != nil {
		members := make([]string, len(m.Members))
		copy(members, m.Members)
		m.Members = members
	}

	return m
}
