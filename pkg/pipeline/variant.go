package pipeline

import (
	"regexp"
)

// GeometryVariant names a GEM geometry configuration, e.g. GE21_v7.
type GeometryVariant string

const (
	VariantGE21v7      GeometryVariant = "GE21_v7"
	VariantGE21v710deg GeometryVariant = "GE21_v7_10deg"
)

// DefaultVariants returns the geometry variants generated by default, in order.
func DefaultVariants() []GeometryVariant {
	return []GeometryVariant{VariantGE21v7, VariantGE21v710deg}
}

// Variant names end up in file names and python identifiers.
var variantPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func (v GeometryVariant) validate() error {
	if !variantPattern.MatchString(string(v)) {
		return invalidOptionsf("geometry variant %q must only contain letters, digits and underscores", string(v))
	}

	return nil
}

// FileSet holds the configuration files the driver writes for one variant.
type FileSet struct {
	Digi    string
	Valid   string
	Harvest string
}

// All returns the files in stage order.
func (f FileSet) All() []string {
	return []string{f.Digi, f.Valid, f.Harvest}
}

// FilesFor returns the generated file names of a variant.
func FilesFor(v GeometryVariant) FileSet {
	return FileSet{
		Digi:    "SingleMuPt100_cfi_GEM-SIM-DIGI_Extended2015_" + string(v) + "_cfg.py",
		Valid:   "valid_" + string(v) + "_cfg.py",
		Harvest: "harvest_" + string(v) + "_cfg.py",
	}
}
