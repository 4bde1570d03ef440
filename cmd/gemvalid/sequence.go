package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/askiada/gemsimvalid/internal/config"
	"github.com/askiada/gemsimvalid/pkg/pipeline/drawer"
	"github.com/askiada/gemsimvalid/pkg/sequence"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

func newSequenceCmd(a *app) *cobra.Command {
	var format, dotPath, catalogPath string

	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Print the GEM and ME0 validation sequences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatText && format != formatYAML {
				return usageErrorf("unknown format %q, expected %s or %s", format, formatText, formatYAML)
			}

			catalog := sequence.DefaultCatalog()
			if catalogPath != "" {
				var err error
				catalog, err = config.LoadCatalog(catalogPath)
				if err != nil {
					return err
				}
			}

			cfg, err := sequence.Assemble(catalog)
			if err != nil {
				return errors.Wrap(err, "unable to assemble sequences")
			}
			a.logger.Debug("sequences assembled",
				zap.Int(cfg.GEM.Name(), cfg.GEM.Len()),
				zap.Int(cfg.ME0.Name(), cfg.ME0.Len()),
			)

			if dotPath != "" {
				if err := writeSequenceGraph(dotPath, cfg); err != nil {
					return err
				}
			}

			if format == formatYAML {
				return printSequencesYAML(cmd.OutOrStdout(), cfg)
			}

			return printSequencesText(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "Output format, text or yaml")
	cmd.Flags().StringVar(&dotPath, "dot", "", "Write the sequences as a graphviz file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML module catalog replacing the built-in one")

	return cmd
}

func printSequencesText(w io.Writer, cfg sequence.Config) error {
	for _, seq := range cfg.Sequences() {
		_, err := fmt.Fprintf(w, "%s (%s) = %s\n", seq.Name(), seq.Detector(), seq)
		if err != nil {
			return errors.Wrap(err, "unable to print sequence")
		}
	}

	return nil
}

func printSequencesYAML(w io.Writer, cfg sequence.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	doc := struct {
		Sequences []sequence.Sequence `yaml:"sequences"`
	}{Sequences: cfg.Sequences()}
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "unable to encode sequences")
	}

	return errors.Wrap(enc.Close(), "unable to flush sequences")
}

func writeSequenceGraph(path string, cfg sequence.Config) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer file.Close()

	return drawer.DrawSequences(drawer.NewDOTDrawer(file), cfg)
}
