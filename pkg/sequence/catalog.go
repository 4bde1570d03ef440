package sequence

import (
	"github.com/pkg/errors"
)

// Catalog holds the validation modules available for composition.
// At most one module may be registered per detector and layer.
type Catalog struct {
	modules []Module
	byName  map[string]int
}

// NewCatalog creates a catalog and registers the given modules in order.
func NewCatalog(modules ...Module) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int)}
	for _, m := range modules {
		if err := c.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Register adds a module to the catalog.
func (c *Catalog) Register(m Module) error {
	if err := m.validate(); err != nil {
		return err
	}
	if _, ok := c.byName[m.Name]; ok {
		return errors.Wrap(ErrDuplicateModule, m.Name)
	}
	for _, existing := range c.modules {
		if existing.Detector == m.Detector && existing.Layer == m.Layer {
			return errors.Wrapf(ErrLayerTaken, "%s %s: %s, cannot add %s", m.Detector, m.Layer, existing.Name, m.Name)
		}
	}

	c.byName[m.Name] = len(c.modules)
	c.modules = append(c.modules, m.clone())

	return nil
}

// Lookup returns the module registered under name.
func (c *Catalog) Lookup(name string) (Module, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Module{}, false
	}

	return c.modules[idx].clone(), true
}

// Modules returns every module in registration order.
func (c *Catalog) Modules() []Module {
	res := make([]Module, 0, len(c.modules))
	for _, m := range c.modules {
		res = append(res, m.clone())
	}

	return res
}

// ForDetector returns the modules of one detector in registration order.
func (c *Catalog) ForDetector(d Detector) []Module {
	var res []Module
	for _, m := range c.modules {
		if m.Detector == d {
			res = append(res, m.clone())
		}
	}

	return res
}

// DefaultCatalog returns the stock GEM and ME0 validation modules.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		Module{
			Name:       "gemSimHitValidation",
			Detector:   DetectorGEM,
			Layer:      LayerHits,
			Members:    []string{"gemSimHitValidation", "gemSimTrackValidation"},
			DetailPlot: true,
		},
		Module{
			Name:     "gemDigiValidation",
			Detector: DetectorGEM,
			Layer:    LayerDigis,
			Members: []string{
				"gemStripValidation",
				"gemPadValidation",
				"gemCoPadValidation",
				"gemDigiTrackValidation",
				"gemGeometryChecker",
			},
			DetailPlot: true,
		},
		Module{
			Name:       "gemRecHitsValidation",
			Detector:   DetectorGEM,
			Layer:      LayerRecHits,
			Members:    []string{"gemRecHitsValidation", "gemRecHitTrackValidation"},
			DetailPlot: true,
		},
		Module{
			Name:     "me0HitsValidation",
			Detector: DetectorME0,
			Layer:    LayerHits,
			Members:  []string{"me0HitsValidation"},
		},
		Module{
			Name:     "me0DigiValidation",
			Detector: DetectorME0,
			Layer:    LayerDigis,
			Members:  []string{"me0DigiValidation"},
		},
		Module{
			Name:     "me0RecHitsValidation",
			Detector: DetectorME0,
			Layer:    LayerRecHits,
			Members:  []string{"me0RecHitsValidation"},
		},
	)
	if err != nil {
		// the stock modules are static
		panic(err)
	}

	return c
}
