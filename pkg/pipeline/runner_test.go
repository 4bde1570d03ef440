package pipeline_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/askiada/gemsimvalid/pkg/pipeline"
	"github.com/askiada/gemsimvalid/pkg/pipeline/model"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	return sh
}

func TestExecRunner(t *testing.T) {
	t.Parallel()

	sh := requireShell(t)
	core, logs := observer.New(zapcore.InfoLevel)
	runner := pipeline.NewExecRunner(t.TempDir(), zap.New(core))

	tcs := map[string]struct {
		script   string
		exitCode int
		lines    []string
	}{
		"success": {script: "echo generated", exitCode: 0, lines: []string{"generated"}},
		"failure": {script: "echo oops >&2; exit 3", exitCode: 3, lines: []string{"oops"}},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			cmd := pipeline.Command{
				Stage:   model.DigitizeStageType,
				Variant: pipeline.GeometryVariant(name),
				Name:    sh,
				Args:    []string{"-c", tc.script},
			}
			res, err := runner.Run(context.Background(), cmd)
			require.NoError(t, err)
			assert.Equal(t, tc.exitCode, res.ExitCode)
			assert.Positive(t, res.Duration)

			entries := logs.FilterField(zap.String("variant", name)).All()
			var got []string
			for _, entry := range entries {
				got = append(got, entry.Message)
			}
			assert.Equal(t, tc.lines, got)
		})
	}
}

func TestExecRunnerWorkDir(t *testing.T) {
	t.Parallel()

	sh := requireShell(t)
	dir := t.TempDir()
	runner := pipeline.NewExecRunner(dir, nil)

	res, err := runner.Run(context.Background(), pipeline.Command{Name: sh, Args: []string{"-c", "touch marker_cfg.py"}})
	require.NoError(t, err)
	assert.Zero(t, res.ExitCode)
	assert.FileExists(t, dir+"/marker_cfg.py")
}

func TestExecRunnerMissingBinary(t *testing.T) {
	t.Parallel()

	runner := pipeline.NewExecRunner(t.TempDir(), nil)
	res, err := runner.Run(context.Background(), pipeline.Command{Name: "definitely-not-a-driver.py"})
	assert.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExecRunnerCancelled(t *testing.T) {
	t.Parallel()

	sh := requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := pipeline.NewExecRunner(t.TempDir(), nil)
	_, err := runner.Run(ctx, pipeline.Command{Name: sh, Args: []string{"-c", "sleep 5"}})
	assert.ErrorIs(t, err, context.Canceled)
}
