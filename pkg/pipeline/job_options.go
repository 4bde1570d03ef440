package pipeline

import (
	"strconv"
	"strings"
)

const (
	customisePlaceholder = "%s"

	DefaultCondition = "auto:run2_design"
	DefaultMagField  = "38T_PostLS1"
	DefaultGeometry  = "Extended2015MuonGEMDev,Extended2015MuonGEMDevReco"
	DefaultCustomise = "SLHCUpgradeSimulations/Configuration/gemCustom.customise2023," +
		"Geometry/GEMGeometry/gemGeometryCustoms.custom_%s"
	DefaultMaxEvents = "100"
	DefaultEra       = "Run2_25ns"
	DefaultDriver    = "cmsDriver.py"
	DefaultWorkDir   = "."
)

// JobOptions are the run parameters shared by every generated job.
type JobOptions struct {
	// Condition is the global tag.
	Condition string `yaml:"condition"`
	MagField  string `yaml:"magField"`
	// Geometry is the comma separated simulation and reconstruction geometry pair.
	Geometry string `yaml:"geometry"`
	// Customise is the customisation function list. It must contain exactly one
	// %s, replaced by the geometry variant.
	Customise string `yaml:"customise"`
	MaxEvents string `yaml:"maxEvents"`
	Era       string `yaml:"era"`

	// DetailPlot enables detailed plots in the validation configuration.
	DetailPlot bool `yaml:"detailPlot"`
	// NoBkgNoise switches off background noise in the digitisation configuration.
	NoBkgNoise bool `yaml:"noBkgNoise"`

	// Driver is the driver executable.
	Driver string `yaml:"driver"`
	// WorkDir is where the driver runs and where the generated files are patched.
	WorkDir  string            `yaml:"workdir"`
	Variants []GeometryVariant `yaml:"variants"`
	// DryRun prints the commands without running them or patching anything.
	DryRun bool `yaml:"dryRun"`
}

// DefaultJobOptions returns the options used when nothing is set.
func DefaultJobOptions() JobOptions {
	return JobOptions{
		Condition: DefaultCondition,
		MagField:  DefaultMagField,
		Geometry:  DefaultGeometry,
		Customise: DefaultCustomise,
		MaxEvents: DefaultMaxEvents,
		Era:       DefaultEra,
		Driver:    DefaultDriver,
		WorkDir:   DefaultWorkDir,
		Variants:  DefaultVariants(),
	}
}

// Validate checks the options can produce well formed commands for every
// configured variant.
func (o JobOptions) Validate() error {
	if err := o.validateCommands(); err != nil {
		return err
	}

	if len(o.Variants) == 0 {
		return invalidOptionsf("at least one geometry variant is required")
	}
	seen := make(map[GeometryVariant]struct{}, len(o.Variants))
	for _, v := range o.Variants {
		if err := v.validate(); err != nil {
			return err
		}
		if _, ok := seen[v]; ok {
			return invalidOptionsf("geometry variant %s listed twice", v)
		}
		seen[v] = struct{}{}
	}

	return nil
}

func (o JobOptions) validateCommands() error {
	required := []struct{ name, value string }{
		{"condition", o.Condition},
		{"magField", o.MagField},
		{"geometry", o.Geometry},
		{"era", o.Era},
		{"driver", o.Driver},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalidOptionsf("%s must be set", r.name)
		}
	}

	if err := validateCustomise(o.Customise); err != nil {
		return err
	}

	events, err := strconv.Atoi(o.MaxEvents)
	if err != nil {
		return invalidOptionsf("maxEvents %q is not an integer", o.MaxEvents)
	}
	if events < -1 {
		return invalidOptionsf("maxEvents must not be below -1, got %d", events)
	}

	return nil
}

func validateCustomise(tpl string) error {
	if n := strings.Count(tpl, customisePlaceholder); n != 1 {
		return invalidOptionsf("customise template %q must contain exactly one %s placeholder, found %d", tpl, customisePlaceholder, n)
	}
	if strings.Count(tpl, "%") != 1 {
		return invalidOptionsf("customise template %q contains an unsupported verb", tpl)
	}

	return nil
}

// CustomiseFor returns the customisation list of a geometry variant.
func (o JobOptions) CustomiseFor(v GeometryVariant) (string, error) {
	if err := validateCustomise(o.Customise); err != nil {
		return "", err
	}
	if err := v.validate(); err != nil {
		return "", err
	}

	return strings.Replace(o.Customise, customisePlaceholder, string(v), 1), nil
}
