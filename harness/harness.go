// Package harness runs a wrapper end to end for integration tests: it stages
// fixtures in a sandbox directory, writes a one-rule workflow file there,
// runs the wrapflow engine on it and hands over to the test's checks.
package harness

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pharmbio/scipipe-wrappers/job"
	"v.io/x/lib/gosh"
)

// TB is the part of testing.TB the harness uses
type TB interface {
	Helper()
	Logf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	FailNow()
	Skipf(format string, args ...interface{})
}

// EngineEnv names the environment variable pointing at the wrapflow binary
const EngineEnv = "WRAPFLOW_BIN"

// StageFunc puts the files a case needs into the sandbox directory dir
type StageFunc func(dir string) error

// Case describes one end-to-end run of a wrapper
type Case struct {
	// Wrapper is the wrapper name, available as {{.Wrapper}} in Workflow
	Wrapper string
	// Workflow is the workflow file template
	Workflow string
	Stage    StageFunc
	// Check runs in the sandbox directory after the engine has succeeded
	Check func()
	// TmpDir is the sandbox to use. A fresh temporary directory, removed
	// afterwards, is used when it is empty.
	TmpDir string
	// Engine is the engine command line. It defaults to the binary in
	// $WRAPFLOW_BIN, or wrapflow on PATH.
	Engine []string
}

// Run runs c. Any failure ends the test, and the working directory is
// restored whichever way Run returns.
func Run(t TB, c Case) {
	t.Helper()
	engine := c.Engine
	if len(engine) == 0 {
		engine = []string{Engine(t)}
	}

	sh := gosh.NewShell(t)
	defer sh.Cleanup()
	sh.PropagateChildOutput = true

	dir := c.TmpDir
	if dir == "" {
		dir = sh.MakeTempDir()
	}

	wfText, err := renderWorkflow(c)
	if err != nil {
		t.Fatalf("rendering workflow file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, job.DefaultWorkflowFile), []byte(wfText), 0644); err != nil {
		t.Fatalf("writing workflow file: %v", err)
	}
	if c.Stage != nil {
		if err := c.Stage(dir); err != nil {
			t.Fatalf("staging files: %v", err)
		}
	}

	sh.Pushd(dir)
	defer sh.Popd()

	args := append(append([]string{}, engine[1:]...), "run", "--cores", "1")
	sh.Cmd(engine[0], args...).Run()

	if c.Check != nil {
		c.Check()
	}
}

func renderWorkflow(c Case) (string, error) {
	tmpl, err := template.New("workflow").Parse(c.Workflow)
	if err != nil {
		return "", err
	}
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Engine returns the path of the wrapflow binary, skipping the test when
// there is none
func Engine(t TB) string {
	t.Helper()
	if bin := os.Getenv(EngineEnv); bin != "" {
		return bin
	}
	bin, err := exec.LookPath("wrapflow")
	if err != nil {
		t.Skipf("wrapflow not found: set %s or put it on PATH", EngineEnv)
	}
	return bin
}

// SymlinkInTempdir returns a StageFunc linking each source file (key) to a
// destination path (value) relative to the sandbox
func SymlinkInTempdir(mapping map[string]string) StageFunc {
	return func(dir string) error {
		for src, dst := range mapping {
			abs, err := filepath.Abs(src)
			if err != nil {
				return err
			}
			link := filepath.Join(dir, dst)
			if err := os.MkdirAll(filepath.Dir(link), 0777); err != nil {
				return err
			}
			if err := os.Symlink(abs, link); err != nil {
				return err
			}
		}
		return nil
	}
}

// Lines runs a command and returns its standard output as lines
func Lines(t TB, name string, args ...string) []string {
	t.Helper()
	sh := gosh.NewShell(t)
	defer sh.Cleanup()
	return splitLines(sh.Cmd(name, args...).Stdout())
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// InlineList renders paths as a YAML flow sequence, for use in workflow
// templates
func InlineList(paths []string) string {
	return "[" + strings.Join(paths, ", ") + "]"
}
