// Package config loads job and catalog files written in YAML.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/gemsimvalid/pkg/pipeline"
	"github.com/askiada/gemsimvalid/pkg/sequence"
)

var ErrInvalidFile = errors.New("invalid configuration file")

// LoadJobOptions reads a job file and overlays it on base. Keys absent from the
// file keep the base value. Unknown keys are rejected.
func LoadJobOptions(path string, base pipeline.JobOptions) (pipeline.JobOptions, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrapf(err, "unable to read %s", path)
	}

	return ParseJobOptions(content, base)
}

// ParseJobOptions overlays the YAML document in content on base.
func ParseJobOptions(content []byte, base pipeline.JobOptions) (pipeline.JobOptions, error) {
	opts := base
	if base.Variants != nil {
		opts.Variants = append([]pipeline.GeometryVariant(nil), base.Variants...)
	}

	err := decode(content, &opts)
	if err != nil {
		return base, err
	}

	return opts, nil
}

type catalogFile struct {
	Modules []sequence.Module `yaml:"modules"`
}

// LoadCatalog reads a list of validation modules.
func LoadCatalog(path string) (*sequence.Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	return ParseCatalog(content)
}

// ParseCatalog builds a catalog from a YAML document with a modules list.
func ParseCatalog(content []byte) (*sequence.Catalog, error) {
	var file catalogFile
	err := decode(content, &file)
	if err != nil {
		return nil, err
	}

	catalog, err := sequence.NewCatalog(file.Modules...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build catalog")
	}

	return catalog, nil
}

func decode(content []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	err := dec.Decode(out)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(ErrInvalidFile, "%v", err)
	}

	return nil
}
