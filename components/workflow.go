package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/pharmbio/scipipe-wrappers/wrappers"
	sp "github.com/scipipe/scipipe"
)

// RunnerFunc returns the runner to use for a job running on threads threads
type RunnerFunc func(threads int) *shell.Runner

// RulesWorkflow is a scipipe workflow running the rules of a workflow file
type RulesWorkflow struct {
	*sp.Workflow
	// Procs holds one process per rule, in declaration order
	Procs []*WrapperProc
	// Upstream maps each rule name to the rules producing its inputs
	Upstream map[string][]string
}

type producer struct {
	rule int
	port string
}

// NewRulesWorkflow returns a workflow with one process per rule. An input
// path that another rule declares as output is connected to that rule's
// out-port, any other input is read from its file.
func NewRulesWorkflow(name string, rules *job.Workflow, cores int, runnerFor RunnerFunc) (*RulesWorkflow, error) {
	size := cores
	if size < 1 {
		size = 1
	}
	jobs := make([]*job.Job, len(rules.Rules))
	for i, rule := range rules.Rules {
		jobs[i] = rule.Job()
		if jobs[i].ThreadCount() > size {
			size = jobs[i].ThreadCount()
		}
	}

	producers := map[string]producer{}
	for i, j := range jobs {
		ports := portNames(j.Output)
		for _, role := range j.Output.Roles() {
			for k, path := range j.Output.Get(role) {
				key := filepath.Clean(path)
				if prev, ok := producers[key]; ok {
					return nil, fmt.Errorf("output %s is declared by both rule %q and rule %q",
						path, rules.Rules[prev.rule].Name, rules.Rules[i].Name)
				}
				producers[key] = producer{rule: i, port: ports[role][k]}
			}
		}
	}

	upstream := map[string][]string{}
	deps := make([][]int, len(jobs))
	for i, j := range jobs {
		seen := map[int]bool{}
		for _, path := range j.Input.All() {
			if src, ok := producers[filepath.Clean(path)]; ok && !seen[src.rule] {
				seen[src.rule] = true
				deps[i] = append(deps[i], src.rule)
				upstream[rules.Rules[i].Name] = append(upstream[rules.Rules[i].Name], rules.Rules[src.rule].Name)
			}
		}
	}
	if cycle := findCycle(deps); cycle != nil {
		names := []string{}
		for _, i := range cycle {
			names = append(names, rules.Rules[i].Name)
		}
		return nil, fmt.Errorf("rules depend on each other in a cycle: %s", strings.Join(names, " -> "))
	}

	wf := sp.NewWorkflow(name, size)
	rwf := &RulesWorkflow{Workflow: wf, Upstream: upstream}
	for i, rule := range rules.Rules {
		w, err := wrappers.Lookup(rule.Wrapper)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		var r *shell.Runner
		if runnerFor != nil {
			r = runnerFor(jobs[i].ThreadCount())
		}
		p, err := NewWrapperProc(wf, rule.Name, w, jobs[i], r)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		rwf.Procs = append(rwf.Procs, p)
	}

	for i, p := range rwf.Procs {
		j := jobs[i]
		for _, role := range j.Input.Roles() {
			for k, port := range p.InPortNames(role) {
				src, ok := producers[filepath.Clean(j.Input.Get(role)[k])]
				if !ok {
					continue
				}
				p.From(port, rwf.Procs[src.rule].Out(src.port))
			}
		}
		p.FeedFiles()
	}
	return rwf, nil
}

// findCycle returns the rule indexes of a dependency cycle, or nil
func findCycle(deps [][]int) []int {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(deps))
	var stack []int
	var visit func(i int) []int
	visit = func(i int) []int {
		state[i] = visiting
		stack = append(stack, i)
		for _, d := range deps[i] {
			switch state[d] {
			case visiting:
				for k, s := range stack {
					if s == d {
						return append(append([]int{}, stack[k:]...), d)
					}
				}
			case unvisited:
				if c := visit(d); c != nil {
					return c
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		return nil
	}
	for i := range deps {
		if state[i] == unvisited {
			if c := visit(i); c != nil {
				return c
			}
		}
	}
	return nil
}
