package wrappers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"dupradar", "fastqc", "hisat2/align", "hisat2/build"}, Names())
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		w, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, w.Name())
	}
	_, err := Lookup("bwa/mem")
	assert.Error(t, err)
}

// echoWrapper writes its "greeting" param to the "out" output with sh
type echoWrapper struct{}

func (echoWrapper) Name() string { return "echo" }

func (echoWrapper) Plan(j *job.Job) (*shell.Plan, error) {
	out, err := j.OutputOne("out")
	if err != nil {
		return nil, err
	}
	p := shell.NewPlan(j.Rule)
	p.Outputs = []string{out}
	p.Add(shell.Step{Tool: "sh", Args: []string{"-c", "echo hello; echo to-log >&2"}, Stdout: out})
	return p, nil
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	j := job.New("echo")
	j.Output.Set("out", filepath.Join(dir, "results", "hello.txt"))
	j.Log = filepath.Join(dir, "echo.log")

	r := shell.NewRunner(nil)
	r.Stdout, r.Stderr = &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, Run(context.Background(), echoWrapper{}, j, r))

	data, err := os.ReadFile(filepath.Join(dir, "results", "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
	logData, err := os.ReadFile(j.Log)
	require.NoError(t, err)
	assert.Equal(t, "to-log\n", string(logData))
}

func TestRunPlanErrorStartsNothing(t *testing.T) {
	dir := t.TempDir()
	j := job.New("dupradar")
	j.Log = filepath.Join(dir, "dupradar.log")
	j.Params["stranded"] = "sideways"

	w, err := Lookup("dupradar")
	require.NoError(t, err)
	err = Run(context.Background(), w, j, shell.NewRunner(nil))
	assert.True(t, errors.Is(err, job.ErrInvalidParam))
	assert.NoFileExists(t, j.Log)
}
