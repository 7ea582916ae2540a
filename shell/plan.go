// Package shell runs the external tools a wrapper plans, one step at a time,
// with each step given as an argument list rather than a shell string.
package shell

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Step is one invocation of an external tool
type Step struct {
	// Tool is the logical tool name, resolved to an executable by the Runner
	Tool string
	Args []string
	// Stdout, if set, is the file the tool's standard output is written to
	Stdout string
	// Remove lists files deleted once the step has succeeded
	Remove []string
}

// String renders the step as a shell command line
func (s Step) String() string {
	cmd := shellquote.Join(append([]string{s.Tool}, s.Args...)...)
	if s.Stdout != "" {
		cmd += " > " + shellquote.Join(s.Stdout)
	}
	if len(s.Remove) > 0 {
		cmd += " && rm " + shellquote.Join(s.Remove...)
	}
	return cmd
}

// Move renames From to To after all steps have succeeded
type Move struct {
	From string
	To   string
}

// Plan is what a wrapper wants executed for one job
type Plan struct {
	Name  string
	Steps []Step
	// Files are written (path -> content) before the first step runs
	Files map[string]string
	Moves []Move
	// Scratch files are removed whether or not the plan succeeds
	Scratch []string
	// Outputs get their parent directories created before the first step
	Outputs []string
}

// NewPlan returns an empty plan
func NewPlan(name string) *Plan {
	return &Plan{Name: name, Files: map[string]string{}}
}

// Add appends steps to the plan
func (p *Plan) Add(steps ...Step) {
	p.Steps = append(p.Steps, steps...)
}

// WriteFile registers a scratch file with content, written before the first
// step and removed when the plan is done
func (p *Plan) WriteFile(path, content string) {
	if p.Files == nil {
		p.Files = map[string]string{}
	}
	p.Files[path] = content
	p.Scratch = append(p.Scratch, path)
}

// Rename registers a move to do after the last step. Renaming a file onto
// itself is a no-op and is not registered.
func (p *Plan) Rename(from, to string) {
	if from == to {
		return
	}
	p.Moves = append(p.Moves, Move{From: from, To: to})
}

// String renders the plan as a shell script, for dry runs
func (p *Plan) String() string {
	lines := []string{}
	paths := make([]string, 0, len(p.Files))
	for path := range p.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		lines = append(lines, "# write "+shellquote.Join(path))
	}
	for _, s := range p.Steps {
		lines = append(lines, s.String())
	}
	for _, m := range p.Moves {
		lines = append(lines, shellquote.Join("mv", m.From, m.To))
	}
	if len(p.Scratch) > 0 {
		lines = append(lines, shellquote.Join(append([]string{"rm", "-f"}, p.Scratch...)...))
	}
	return strings.Join(lines, "\n")
}

// Split splits a free-form option string, such as a wrapper's "extra"
// parameter, into arguments following shell quoting rules
func Split(options string) ([]string, error) {
	return shellquote.Split(options)
}
