// Command gemvalid generates the GEM validation job configurations and prints
// the validation sequences.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/askiada/gemsimvalid/internal/config"
	"github.com/askiada/gemsimvalid/pkg/pipeline"
)

const (
	ExitSuccess           = 0
	ExitFailure           = 1
	ExitInvalidInvocation = 2
)

// usageError marks errors caused by the invocation itself.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...interface{}) error {
	return &usageError{err: errors.Errorf(format, args...)}
}

type app struct {
	verbose bool
	logger  *zap.Logger
}

// initLogger writes console formatted entries to the command's error writer.
func (a *app) initLogger(cmd *cobra.Command, _ []string) error {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if a.verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(cmd.ErrOrStderr()), level)
	a.logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "gemvalid",
		Short: "GEM/ME0 validation sequences and job configuration generator",
		Long: `gemvalid drives cmsDriver.py to write the digitisation, validation and
harvesting configurations of every GEM geometry variant, then patches the
generated files.

It also prints the GEM and ME0 validation sequences.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initLogger,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(newGenerateCmd(a), newSequenceCmd(a))

	return root
}

func exitCode(err error) int {
	var usageErr *usageError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &usageErr),
		errors.Is(err, pipeline.ErrInvalidOptions),
		errors.Is(err, config.ErrInvalidFile):
		return ExitInvalidInvocation
	default:
		return ExitFailure
	}
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
