package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/gemsimvalid/pkg/pipeline"
)

// fakeRunner records commands and writes the python file the driver would have
// produced, unless the stage is listed in skipWrite.
type fakeRunner struct {
	mu        sync.Mutex
	dir       string
	exitCodes map[string]int
	errs      map[string]error
	skipWrite map[string]bool
	onRun     func(cmd pipeline.Command)
	commands  []pipeline.Command
}

func newFakeRunner(t *testing.T, dir string) *fakeRunner {
	t.Helper()

	return &fakeRunner{
		dir:       dir,
		exitCodes: make(map[string]int),
		errs:      make(map[string]error),
		skipWrite: make(map[string]bool),
	}
}

func key(cmd pipeline.Command) string {
	return string(cmd.Variant) + "/" + string(cmd.Stage)
}

func (f *fakeRunner) Run(_ context.Context, cmd pipeline.Command) (pipeline.Result, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()

	if f.onRun != nil {
		f.onRun(cmd)
	}

	k := key(cmd)
	if err := f.errs[k]; err != nil {
		return pipeline.Result{ExitCode: -1}, err
	}
	if !f.skipWrite[k] {
		file, _ := cmd.Arg("--python_filename")
		err := os.WriteFile(filepath.Join(f.dir, file), []byte("# generated by "+k+"\n"), 0o600)
		if err != nil {
			return pipeline.Result{ExitCode: 1}, nil
		}
	}

	return pipeline.Result{ExitCode: f.exitCodes[k]}, nil
}

func (f *fakeRunner) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := make([]string, 0, len(f.commands))
	for _, cmd := range f.commands {
		res = append(res, key(cmd))
	}

	return res
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(content)
}
