package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/gemsimvalid/pkg/pipeline/model"
)

// Generator runs the driver for every geometry variant and patches the files it writes.
type Generator struct {
	opts    JobOptions
	runner  Runner
	logger  *zap.Logger
	out     io.Writer
	jobOpts []model.JobOption
}

// Failure records a driver invocation that did not exit cleanly.
type Failure struct {
	Command  Command
	ExitCode int
	Err      error
}

// Summary reports what a run did.
type Summary struct {
	Plans    []Plan
	Commands int
	Failures []Failure
	Patches  []Patch
}

// New creates a new generator.
func New(opts JobOptions, options ...GeneratorOption) (*Generator, error) {
	err := opts.Validate()
	if err != nil {
		return nil, err
	}

	gen := &Generator{
		opts:   opts,
		logger: zap.NewNop(),
		out:    io.Discard,
	}
	for _, option := range options {
		option(gen)
	}
	if gen.runner == nil {
		gen.runner = NewExecRunner(opts.WorkDir, gen.logger)
	}

	for _, opt := range gen.jobOpts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply job option")
		}
	}

	return gen, nil
}

// Run processes the variants one after another.
//
// Driver failures are logged and collected in the summary. Run only returns an
// error when the options cannot be turned into plans, a patch cannot be
// applied, a job option fails or ctx is done.
func (g *Generator) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	if g.runner == nil {
		return summary, ErrRunnerMustBeSet
	}

	plans, err := BuildPlans(g.opts)
	if err != nil {
		return summary, err
	}

	parent := model.StartStage
	for _, plan := range plans {
		summary.Plans = append(summary.Plans, plan)

		parent, err = g.runPlan(ctx, plan, parent, &summary)
		if err != nil {
			return summary, errors.Wrapf(err, "variant %s", plan.Variant)
		}
	}

	g.logger.Info("jobs generated",
		zap.Int("variants", len(summary.Plans)),
		zap.Int("commands", summary.Commands),
		zap.Int("failures", len(summary.Failures)),
		zap.Int("patches", len(summary.Patches)),
	)

	return summary, g.finishRun()
}

func (g *Generator) runPlan(ctx context.Context, plan Plan, parent *model.StageInfo, summary *Summary) (*model.StageInfo, error) {
	logger := g.logger.With(zap.String("variant", string(plan.Variant)))

	for _, cmd := range plan.Commands {
		if err := ctx.Err(); err != nil {
			return parent, errors.Wrap(err, "generation interrupted")
		}

		file, _ := cmd.Arg("--python_filename")
		stage := &model.StageInfo{
			Type:    cmd.Stage,
			Name:    string(plan.Variant) + "/" + string(cmd.Stage),
			Variant: string(plan.Variant),
			File:    file,
		}
		for _, opt := range g.jobOpts {
			err := opt.PrepareStage(parent, stage)
			if err != nil {
				return parent, errors.Wrap(err, "unable to run prepare stage function")
			}
		}

		if cmd.Stage == model.ValidateStageType {
			g.checkInput(logger, cmd)
		}

		fmt.Fprintln(g.out, cmd.String())
		summary.Commands++

		res := Result{}
		if !g.opts.DryRun {
			var err error
			res, err = g.runner.Run(ctx, cmd)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return parent, errors.Wrap(ctxErr, "generation interrupted")
			}
			if err != nil || res.ExitCode != 0 {
				if err != nil && res.ExitCode == 0 {
					res.ExitCode = -1
				}
				logger.Warn("driver failed, carrying on",
					zap.String("stage", string(cmd.Stage)),
					zap.Int("exit_code", res.ExitCode),
					zap.Error(err),
				)
				summary.Failures = append(summary.Failures, Failure{Command: cmd, ExitCode: res.ExitCode, Err: err})
			}
		}

		for _, opt := range g.jobOpts {
			err := opt.AfterStage(stage, res.Duration, res.ExitCode)
			if err != nil {
				return parent, errors.Wrap(err, "unable to run after stage function")
			}
		}
		parent = stage
	}
	fmt.Fprintln(g.out)

	if g.opts.DryRun {
		return parent, nil
	}

	fmt.Fprintln(g.out, "Applying patches")
	for _, patch := range PatchesFor(g.opts, plan.Files) {
		stage := &model.StageInfo{
			Type:    model.PatchStageType,
			Name:    string(plan.Variant) + "/patch/" + patch.Name,
			Variant: string(plan.Variant),
			File:    patch.File,
		}
		for _, opt := range g.jobOpts {
			err := opt.PreparePatch(parent, stage)
			if err != nil {
				return parent, errors.Wrap(err, "unable to run prepare patch function")
			}
		}

		fmt.Fprintln(g.out, patch.Description)
		start := time.Now()
		err := ApplyPatch(g.opts.WorkDir, patch)
		if err != nil {
			return parent, err
		}
		elapsed := time.Since(start)
		logger.Debug("patch applied", zap.String("patch", patch.Name), zap.String("file", patch.File))
		summary.Patches = append(summary.Patches, patch)

		for _, opt := range g.jobOpts {
			err := opt.AfterPatch(stage, elapsed)
			if err != nil {
				return parent, errors.Wrap(err, "unable to run after patch function")
			}
		}
		parent = stage
	}

	return parent, nil
}

// checkInput warns when the reconstruction file the validation stage reads is
// not in the work directory. It is produced outside this tool.
func (g *Generator) checkInput(logger *zap.Logger, cmd Command) {
	input, ok := cmd.Arg("--filein")
	if !ok {
		return
	}

	_, err := os.Stat(filepath.Join(g.opts.WorkDir, input))
	if err != nil {
		logger.Warn("validation input not found, the driver is invoked anyway",
			zap.String("file", input),
			zap.Error(err),
		)
	}
}

func (g *Generator) finishRun() error {
	for _, opt := range g.jobOpts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish job option")
		}
	}

	return nil
}
