package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/askiada/gemsimvalid/pkg/pipeline"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out, _, err := executeWithLogs(t, args...)

	return out, err
}

func executeWithLogs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	var out, stderr bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), stderr.String(), err
}

func TestGenerateDryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out, err := execute(t, "generate", "--dry-run", "--workdir", dir, "-n", "100", "-t", "-b")
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, exitCode(err))

	assert.Equal(t, 6, strings.Count(out, "cmsDriver.py"))
	assert.Contains(t, out, "--python_filename SingleMuPt100_cfi_GEM-SIM-DIGI_Extended2015_GE21_v7_cfg.py")
	assert.Contains(t, out, "--python_filename valid_GE21_v7_cfg.py")
	assert.Contains(t, out, "--python_filename harvest_GE21_v7_10deg_cfg.py")
	assert.Contains(t, out, "-n 100")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoggerWritesToCommandStderr(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		verbose   bool
		wantDebug bool
	}{
		"info":    {},
		"verbose": {verbose: true, wantDebug: true},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			args := []string{"generate", "--dry-run", "--workdir", t.TempDir(), "--variant", "GE21_v7"}
			if tc.verbose {
				args = append(args, "-v")
			}

			out, logs, err := executeWithLogs(t, args...)
			require.NoError(t, err)

			assert.NotContains(t, out, "jobs generated")
			assert.Contains(t, logs, "jobs generated")
			assert.Contains(t, logs, "validation input not found")
			if tc.wantDebug {
				assert.Contains(t, logs, "stage timings")
			} else {
				assert.NotContains(t, logs, "stage timings")
			}
		})
	}
}

func TestGenerateConfigPrecedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxEvents: \"250\"\nvariants: [GE21_v8]\n"), 0o600))

	out, err := execute(t, "generate", "--config", path, "--dry-run", "--workdir", dir, "--maxEvents", "42")
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "cmsDriver.py"))
	assert.Contains(t, out, "valid_GE21_v8_cfg.py")
	assert.Contains(t, out, "-n 42")
	assert.NotContains(t, out, "-n 250")
}

func TestGenerateGraph(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	graph := filepath.Join(t.TempDir(), "stages.dot")
	_, err := execute(t, "generate", "--dry-run", "--workdir", dir, "--variant", "GE21_v7", "--graph", graph)
	require.NoError(t, err)

	content, err := os.ReadFile(graph)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"start" -> "GE21_v7/digitize"`)
}

func TestGenerateGraphSkippedOnPatchFailure(t *testing.T) {
	t.Parallel()

	driver, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}

	graph := filepath.Join(t.TempDir(), "stages.dot")
	_, err = execute(t, "generate", "--driver", driver, "--workdir", t.TempDir(), "--variant", "GE21_v7", "--graph", graph)
	require.ErrorIs(t, err, pipeline.ErrMissingPatchFile)
	assert.Equal(t, ExitFailure, exitCode(err))

	assert.NoFileExists(t, graph)
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args []string
		want int
	}{
		"invalid customise": {args: []string{"generate", "--dry-run", "-u", "no placeholder"}, want: ExitInvalidInvocation},
		"invalid maxEvents": {args: []string{"generate", "--dry-run", "-n", "many"}, want: ExitInvalidInvocation},
		"invalid variant":   {args: []string{"generate", "--dry-run", "--variant", "GE21 v7"}, want: ExitInvalidInvocation},
		"unknown flag":      {args: []string{"generate", "--events", "10"}, want: ExitInvalidInvocation},
		"unknown format":    {args: []string{"sequence", "--format", "json"}, want: ExitInvalidInvocation},
		"missing config":    {args: []string{"generate", "--config", "/nonexistent/job.yaml"}, want: ExitFailure},
		"sequence":          {args: []string{"sequence"}, want: ExitSuccess},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := execute(t, tc.args...)
			assert.Equal(t, tc.want, exitCode(err))
		})
	}
}

func TestSequenceText(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "sequence")
	require.NoError(t, err)
	assert.Equal(t,
		"gemSimValid (gem) = gemSimHitValidation*gemDigiValidation*gemRecHitsValidation\n"+
			"me0SimValid (me0) = me0HitsValidation*me0DigiValidation*me0RecHitsValidation\n",
		out)
}

func TestSequenceYAML(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "sequence", "--format", "yaml")
	require.NoError(t, err)

	var doc struct {
		Sequences []struct {
			Name     string `yaml:"name"`
			Detector string `yaml:"detector"`
			Modules  []struct {
				Name string `yaml:"name"`
			} `yaml:"modules"`
		} `yaml:"sequences"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Sequences, 2)
	assert.Equal(t, "gemSimValid", doc.Sequences[0].Name)
	assert.Equal(t, "gem", doc.Sequences[0].Detector)
	require.Len(t, doc.Sequences[1].Modules, 3)
	assert.Equal(t, "me0HitsValidation", doc.Sequences[1].Modules[0].Name)
}

func TestSequenceCatalogAndDot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte(`
modules:
  - {name: gemRecHits, detector: gem, layer: rechits}
  - {name: gemDigis, detector: gem, layer: digis}
  - {name: gemHits, detector: gem, layer: hits}
  - {name: me0Hits, detector: me0, layer: hits}
  - {name: me0Digis, detector: me0, layer: digis}
  - {name: me0RecHits, detector: me0, layer: rechits}
`), 0o600))
	dot := filepath.Join(dir, "sequences.dot")

	out, err := execute(t, "sequence", "--catalog", catalog, "--dot", dot)
	require.NoError(t, err)
	assert.Equal(t, "gemSimValid (gem) = gemHits*gemDigis*gemRecHits\nme0SimValid (me0) = me0Hits*me0Digis*me0RecHits\n", out)

	content, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"gemSimValid" -> "gemHits"`)
	assert.Contains(t, string(content), `"gemHits" -> "gemDigis"`)
	assert.Contains(t, string(content), `"gemDigis" -> "gemRecHits"`)
	assert.Contains(t, string(content), `"me0SimValid" -> "me0Hits"`)
}
