package pipeline

import (
	"io"

	"go.uber.org/zap"

	"github.com/askiada/gemsimvalid/pkg/pipeline/model"
)

type GeneratorOption func(g *Generator)

// GeneratorRunner replaces the runner used to invoke the driver.
func GeneratorRunner(runner Runner) GeneratorOption {
	return func(g *Generator) {
		g.runner = runner
	}
}

// GeneratorLogger sets the logger.
func GeneratorLogger(logger *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// GeneratorOutput sets where progress lines are printed.
func GeneratorOutput(out io.Writer) GeneratorOption {
	return func(g *Generator) {
		g.out = out
	}
}

// GeneratorJobOptions adds options observing every stage, such as measures and drawers.
func GeneratorJobOptions(opts ...model.JobOption) GeneratorOption {
	return func(g *Generator) {
		g.jobOpts = append(g.jobOpts, opts...)
	}
}
