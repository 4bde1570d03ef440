package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/gemsimvalid/internal/config"
	"github.com/askiada/gemsimvalid/pkg/pipeline"
	"github.com/askiada/gemsimvalid/pkg/pipeline/drawer"
	"github.com/askiada/gemsimvalid/pkg/pipeline/measure"
	"github.com/askiada/gemsimvalid/pkg/pipeline/model"
)

type generateFlags struct {
	opts       pipeline.JobOptions
	variants   []string
	configPath string
	graphPath  string
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{opts: pipeline.DefaultJobOptions()}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the digi, validation and harvesting configurations of every geometry variant",
		Long: `For every geometry variant, runs the driver three times with --no_exec to
write the digitisation, validation and harvesting configurations, then appends
the requested patches to the generated files.

A failing driver invocation is logged and does not stop the generation.

Example:
  gemvalid generate -n 1000 --noBkgNoise --detailPlot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.resolve(cmd)
			if err != nil {
				return err
			}

			return runGenerate(cmd, a.logger, opts, f.graphPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.opts.Condition, "condition", "c", f.opts.Condition, "Global tag")
	flags.StringVarP(&f.opts.MagField, "magField", "m", f.opts.MagField, "Magnetic field")
	flags.StringVarP(&f.opts.Geometry, "geometry", "g", f.opts.Geometry, "Simulation and reconstruction geometries, GEM included")
	flags.StringVarP(&f.opts.Customise, "customise", "u", f.opts.Customise, "Customisation functions, %s is replaced by the geometry variant")
	flags.StringVarP(&f.opts.MaxEvents, "maxEvents", "n", f.opts.MaxEvents, "Number of events")
	flags.StringVar(&f.opts.Era, "era", f.opts.Era, "Era passed to the driver")
	flags.BoolVarP(&f.opts.DetailPlot, "detailPlot", "t", false, "Enable detailed validation plots")
	flags.BoolVarP(&f.opts.NoBkgNoise, "noBkgNoise", "b", false, "Switch off GEM background noise")
	flags.StringVar(&f.opts.Driver, "driver", f.opts.Driver, "Driver executable")
	flags.StringVar(&f.opts.WorkDir, "workdir", f.opts.WorkDir, "Directory the configurations are written to")
	flags.StringArrayVar(&f.variants, "variant", nil, "Geometry variant to generate, repeatable (default GE21_v7 and GE21_v7_10deg)")
	flags.BoolVar(&f.opts.DryRun, "dry-run", false, "Print the driver commands without running them")
	flags.StringVar(&f.configPath, "config", "", "YAML job file, explicit flags take precedence")
	flags.StringVar(&f.graphPath, "graph", "", "Write the executed stages as a graphviz file")

	return cmd
}

// resolve merges defaults, the job file and the flags set on the command line,
// in increasing order of precedence.
func (f *generateFlags) resolve(cmd *cobra.Command) (pipeline.JobOptions, error) {
	opts := pipeline.DefaultJobOptions()
	if f.configPath != "" {
		var err error
		opts, err = config.LoadJobOptions(f.configPath, opts)
		if err != nil {
			return opts, err
		}
	}

	overrides := map[string]func(){
		"condition":  func() { opts.Condition = f.opts.Condition },
		"magField":   func() { opts.MagField = f.opts.MagField },
		"geometry":   func() { opts.Geometry = f.opts.Geometry },
		"customise":  func() { opts.Customise = f.opts.Customise },
		"maxEvents":  func() { opts.MaxEvents = f.opts.MaxEvents },
		"era":        func() { opts.Era = f.opts.Era },
		"detailPlot": func() { opts.DetailPlot = f.opts.DetailPlot },
		"noBkgNoise": func() { opts.NoBkgNoise = f.opts.NoBkgNoise },
		"driver":     func() { opts.Driver = f.opts.Driver },
		"workdir":    func() { opts.WorkDir = f.opts.WorkDir },
		"dry-run":    func() { opts.DryRun = f.opts.DryRun },
		"variant": func() {
			opts.Variants = make([]pipeline.GeometryVariant, 0, len(f.variants))
			for _, v := range f.variants {
				opts.Variants = append(opts.Variants, pipeline.GeometryVariant(v))
			}
		},
	}
	for name, override := range overrides {
		if cmd.Flags().Changed(name) {
			override()
		}
	}

	return opts, opts.Validate()
}

func runGenerate(cmd *cobra.Command, logger *zap.Logger, opts pipeline.JobOptions, graphPath string) error {
	msr := measure.NewDefaultMeasure()
	jobOpts := []model.JobOption{measure.JobMeasure(msr)}

	if graphPath != "" {
		file := &lazyFile{path: graphPath}
		defer file.Close()

		jobOpts = append(jobOpts, drawer.JobDrawer(drawer.NewDOTDrawer(file), msr))
	}

	gen, err := pipeline.New(opts,
		pipeline.GeneratorLogger(logger),
		pipeline.GeneratorOutput(cmd.OutOrStdout()),
		pipeline.GeneratorJobOptions(jobOpts...),
	)
	if err != nil {
		return err
	}

	summary, err := gen.Run(cmd.Context())
	if err != nil {
		return err
	}

	for _, stage := range measure.Summarise(msr) {
		logger.Debug("stage timings",
			zap.String("stage", stage.StageType),
			zap.Int64("count", stage.Count),
			zap.Int64("failures", stage.Failures),
			zap.Duration("average", stage.Average),
		)
	}
	if len(summary.Failures) > 0 {
		logger.Warn("some driver invocations failed", zap.Int("failures", len(summary.Failures)))
	}

	return nil
}

// lazyFile creates path on the first write, so an aborted run leaves no file behind.
type lazyFile struct {
	path string
	file *os.File
}

func (f *lazyFile) Write(p []byte) (int, error) {
	if f.file == nil {
		file, err := os.Create(f.path)
		if err != nil {
			return 0, errors.Wrapf(err, "unable to create %s", f.path)
		}
		f.file = file
	}

	return f.file.Write(p)
}

func (f *lazyFile) Close() error {
	if f.file == nil {
		return nil
	}

	return f.file.Close()
}
