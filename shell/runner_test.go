package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() (*Runner, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	r := NewRunner(nil)
	r.Stdout = buf
	r.Stderr = buf
	return r, buf
}

func TestRunStdoutRedirect(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sub", "hello.txt")

	r, _ := newTestRunner()
	p := NewPlan("redirect")
	p.Add(Step{Tool: "sh", Args: []string{"-c", "echo hello"}, Stdout: out})
	require.NoError(t, r.Run(context.Background(), p, ""))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestRunLogReceivesStdoutAndStderr(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "step.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(logPath), 0777))
	require.NoError(t, os.WriteFile(logPath, []byte("stale\n"), 0644))

	r, buf := newTestRunner()
	p := NewPlan("log")
	p.Add(
		Step{Tool: "sh", Args: []string{"-c", "echo first; echo warn >&2"}},
		Step{Tool: "sh", Args: []string{"-c", "echo second"}},
	)
	require.NoError(t, r.Run(context.Background(), p, logPath))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "first\nwarn\nsecond\n", string(data))
	assert.Empty(t, buf.String())
}

func TestRunRemovesIntermediatesAfterSuccess(t *testing.T) {
	dir := t.TempDir()
	sam := filepath.Join(dir, "x.sam")
	bam := filepath.Join(dir, "x.bam")
	require.NoError(t, os.WriteFile(sam, []byte("reads\n"), 0644))

	r, _ := newTestRunner()
	p := NewPlan("convert")
	p.Add(Step{Tool: "cat", Args: []string{sam}, Stdout: bam, Remove: []string{sam}})
	require.NoError(t, r.Run(context.Background(), p, ""))

	assert.NoFileExists(t, sam)
	assert.FileExists(t, bam)
}

func TestRunStopsAtFailingStep(t *testing.T) {
	dir := t.TempDir()
	never := filepath.Join(dir, "never")
	script := filepath.Join(dir, "script.R")

	r, _ := newTestRunner()
	p := NewPlan("fail")
	p.WriteFile(script, "q()\n")
	p.Add(
		Step{Tool: "sh", Args: []string{"-c", "exit 3"}},
		Step{Tool: "touch", Args: []string{never}},
	)
	err := r.Run(context.Background(), p, "")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "sh", exitErr.Step.Tool)
	assert.NoFileExists(t, never)
	assert.NoFileExists(t, script, "scratch files are removed on failure too")
}

func TestRunConcurrently(t *testing.T) {
	dir := t.TempDir()
	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, _ := newTestRunner()
			p := NewPlan(fmt.Sprintf("task_%d", i))
			p.Add(Step{Tool: "sh", Args: []string{"-c", fmt.Sprintf("echo %d", i)}, Stdout: filepath.Join(dir, fmt.Sprintf("%d.txt", i))})
			errs[i] = r.Run(context.Background(), p, "")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("%d.txt", i)))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d\n", i), string(data))
	}
}

func TestRunMissingExecutable(t *testing.T) {
	r, _ := newTestRunner()
	r.Tools = map[string]string{"fastqc": "/nonexistent/fastqc"}
	p := NewPlan("missing")
	p.Add(Step{Tool: "fastqc", Args: []string{"--version"}})

	err := r.Run(context.Background(), p, "")
	require.Error(t, err)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestRunToolTableAndPrefix(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "greeting")

	r, _ := newTestRunner()
	r.Tools = map[string]string{"greeter": "echo"}
	r.Prefix = []string{"env"}
	p := NewPlan("greet")
	p.Add(Step{Tool: "greeter", Args: []string{"hi", "there"}, Stdout: out})
	require.NoError(t, r.Run(context.Background(), p, ""))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hi there\n", string(data))
}

func TestRunWritesFilesAndMoves(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "make.sh")
	produced := filepath.Join(dir, "tool_output.txt")
	declared := filepath.Join(dir, "results", "declared.txt")

	r, _ := newTestRunner()
	p := NewPlan("moves")
	p.WriteFile(script, "echo made > "+produced+"\n")
	p.Add(Step{Tool: "sh", Args: []string{script}})
	p.Rename(produced, declared)
	p.Rename(declared, declared)
	require.Len(t, p.Moves, 1)

	require.NoError(t, r.Run(context.Background(), p, ""))
	assert.NoFileExists(t, produced)
	assert.NoFileExists(t, script)
	data, err := os.ReadFile(declared)
	require.NoError(t, err)
	assert.Equal(t, "made\n", string(data))
}

func TestRunCancelledContext(t *testing.T) {
	r, _ := newTestRunner()
	p := NewPlan("cancelled")
	p.Add(Step{Tool: "sleep", Args: []string{"10"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, r.Run(ctx, p, ""))
}

func TestPlanString(t *testing.T) {
	p := NewPlan("render")
	p.WriteFile("/tmp/x.R", "library(dupRadar)")
	p.Add(Step{
		Tool:   "samtools",
		Args:   []string{"view", "-Sb", "-F", "0x04", "out.sam"},
		Stdout: "out.tmp.bam",
		Remove: []string{"out.sam"},
	})
	p.Rename("a b.html", "c.html")

	expected := "# write /tmp/x.R\n" +
		"samtools view -Sb -F 0x04 out.sam > out.tmp.bam && rm out.sam\n" +
		"mv 'a b.html' c.html\n" +
		"rm -f /tmp/x.R"
	assert.Equal(t, expected, p.String())
}

func TestSplit(t *testing.T) {
	for in, expected := range map[string][]string{
		"":                           {},
		"--sra-acc SRR1990338":       {"--sra-acc", "SRR1990338"},
		"-F 0x04":                    {"-F", "0x04"},
		`--rg "SM:sample 1" --no-un`: {"--rg", "SM:sample 1", "--no-un"},
	} {
		args, err := Split(in)
		require.NoError(t, err)
		assert.ElementsMatch(t, expected, args, "splitting %q", in)
	}

	_, err := Split(`--rg "unterminated`)
	assert.Error(t, err)
}
