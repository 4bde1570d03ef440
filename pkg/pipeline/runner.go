package pipeline

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a driver invocation.
type Result struct {
	// ExitCode is -1 when the process could not be started or was killed.
	ExitCode int
	Duration time.Duration
}

// Runner runs a driver invocation and waits for it to exit. A non-zero exit
// code is reported in the Result, not as an error.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

const maxLineSize = 1024 * 1024

// ExecRunner runs commands as child processes and logs their output line by line.
type ExecRunner struct {
	// Dir is the working directory of the child processes.
	Dir    string
	logger *zap.Logger
}

// NewExecRunner creates a runner executing commands in dir.
func NewExecRunner(dir string, logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ExecRunner{Dir: dir, logger: logger}
}

// Run starts the command and waits for it.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	res := Result{ExitCode: -1}

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = r.Dir

	stdout, err := execCmd.StdoutPipe()
	if err != nil {
		return res, errors.Wrap(err, "unable to get stdout")
	}
	stderr, err := execCmd.StderrPipe()
	if err != nil {
		return res, errors.Wrap(err, "unable to get stderr")
	}

	logger := r.logger.With(
		zap.String("variant", string(cmd.Variant)),
		zap.String("stage", string(cmd.Stage)),
	)

	start := time.Now()
	err = execCmd.Start()
	if err != nil {
		return res, errors.Wrapf(err, "unable to start %s", cmd.Name)
	}

	// both pipes must be drained before Wait closes them
	var grp errgroup.Group
	grp.Go(func() error {
		return streamLines(stdout, logger.With(zap.String("stream", "stdout")))
	})
	grp.Go(func() error {
		return streamLines(stderr, logger.With(zap.String("stream", "stderr")))
	})
	streamErr := grp.Wait()

	waitErr := execCmd.Wait()
	res.Duration = time.Since(start)
	if execCmd.ProcessState != nil {
		res.ExitCode = execCmd.ProcessState.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, errors.Wrapf(ctxErr, "%s interrupted", cmd.Name)
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return res, errors.Wrapf(waitErr, "unable to wait for %s", cmd.Name)
	}
	if streamErr != nil {
		return res, errors.Wrapf(streamErr, "unable to read output of %s", cmd.Name)
	}

	return res, nil
}

func streamLines(rd io.Reader, logger *zap.Logger) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		logger.Info(scanner.Text())
	}

	err := scanner.Err()
	if err != nil {
		// keep the child from blocking on a full pipe
		_, _ = io.Copy(io.Discard, rd)
	}

	return err
}

var _ Runner = (*ExecRunner)(nil)
