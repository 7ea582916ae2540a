// Package wrappers collects the tool wrappers by name, and runs them
package wrappers

import (
	"context"
	"fmt"
	"sort"

	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/pharmbio/scipipe-wrappers/wrappers/dupradar"
	"github.com/pharmbio/scipipe-wrappers/wrappers/fastqc"
	"github.com/pharmbio/scipipe-wrappers/wrappers/hisat2/align"
	"github.com/pharmbio/scipipe-wrappers/wrappers/hisat2/build"
)

// Wrapper adapts a job description to invocations of an external tool.
// Plan must validate the job and return an error before anything is run.
type Wrapper interface {
	Name() string
	Plan(j *job.Job) (*shell.Plan, error)
}

var registry = map[string]func() Wrapper{
	fastqc.Name:   func() Wrapper { return fastqc.New() },
	build.Name:    func() Wrapper { return build.New() },
	align.Name:    func() Wrapper { return align.New() },
	dupradar.Name: func() Wrapper { return dupradar.New() },
}

// Lookup returns a new instance of the wrapper registered under name
func Lookup(name string) (Wrapper, error) {
	newWrapper, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("no wrapper named %q (available: %v)", name, Names())
	}
	return newWrapper(), nil
}

// Names returns the registered wrapper names, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run plans j with w and executes the plan with r, logging to the job's log
// file if it has one
func Run(ctx context.Context, w Wrapper, j *job.Job, r *shell.Runner) error {
	p, err := w.Plan(j)
	if err != nil {
		return fmt.Errorf("%s: %w", w.Name(), err)
	}
	if err := r.Run(ctx, p, j.Log); err != nil {
		return fmt.Errorf("%s: %w", w.Name(), err)
	}
	return nil
}
