package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	sp "github.com/scipipe/scipipe"
)

// ExitError is returned when a step's tool exits with a non-zero status
type ExitError struct {
	Step Step
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d: %s", e.Step.Tool, e.Code, e.Step)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner executes plans synchronously in the current working directory
type Runner struct {
	// Tools maps logical tool names to executables. Tools not listed are
	// looked up on PATH under their logical name.
	Tools map[string]string
	// Prefix is put in front of every command line, e.g. to run through srun
	Prefix []string
	// Stdout and Stderr receive tool output when no log file is given
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns a Runner writing tool output to the process's own
// stdout and stderr
func NewRunner(tools map[string]string) *Runner {
	return &Runner{
		Tools:  tools,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Executable returns the executable configured for tool
func (r *Runner) Executable(tool string) string {
	if exe, ok := r.Tools[tool]; ok && exe != "" {
		return exe
	}
	return tool
}

// Run executes the plan. When logPath is non-empty the log file is truncated
// and receives the stderr of every step, and the stdout of steps that do not
// redirect it. Steps run one at a time; the first failing step ends the run
// and its error is returned. Scratch files are removed on every exit path.
func (r *Runner) Run(ctx context.Context, p *Plan, logPath string) (err error) {
	ensureLog()
	defer func() {
		for _, path := range p.Scratch {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				sp.Warning.Printf("| %-32s | Could not remove scratch file %s: %v\n", p.Name, path, rmErr)
			}
		}
	}()

	for _, out := range p.Outputs {
		if err := mkdirFor(out); err != nil {
			return err
		}
	}
	for path, content := range p.Files {
		if err := mkdirFor(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	stdout, stderr := r.Stdout, r.Stderr
	if logPath != "" {
		if err := mkdirFor(logPath); err != nil {
			return err
		}
		logFile, err := os.Create(logPath)
		if err != nil {
			return fmt.Errorf("creating log file: %w", err)
		}
		defer logFile.Close()
		stdout, stderr = logFile, logFile
	}

	for _, step := range p.Steps {
		if err := r.runStep(ctx, p.Name, step, stdout, stderr); err != nil {
			return err
		}
	}

	for _, m := range p.Moves {
		if err := mkdirFor(m.To); err != nil {
			return err
		}
		if err := os.Rename(m.From, m.To); err != nil {
			return fmt.Errorf("moving tool output into place: %w", err)
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, name string, step Step, stdout, stderr io.Writer) error {
	argv := append(append([]string{}, r.Prefix...), r.Executable(step.Tool))
	argv = append(argv, step.Args...)

	sp.Audit.Printf("| %-32s | Executing: %s\n", name, step)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if step.Stdout != "" {
		if err := mkdirFor(step.Stdout); err != nil {
			return err
		}
		f, err := os.Create(step.Stdout)
		if err != nil {
			return fmt.Errorf("creating %s: %w", step.Stdout, err)
		}
		defer f.Close()
		cmd.Stdout = f
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Step: step, Code: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("running %s: %w", step.Tool, err)
	}
	sp.Debug.Printf("| %-32s | Finished:  %s\n", name, step)

	for _, path := range step.Remove {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing intermediate file: %w", err)
		}
	}
	return nil
}

func mkdirFor(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return nil
}

var logOnce sync.Once

// ensureLog makes sure scipipe's loggers are usable when the runner is used
// outside a scipipe workflow. Runners are called from many task goroutines,
// so the check happens once.
func ensureLog() {
	logOnce.Do(func() {
		if sp.Audit == nil || sp.Debug == nil || sp.Warning == nil {
			sp.InitLogAudit()
		}
	})
}
