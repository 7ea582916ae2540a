// Package components provides scipipe processes that run the tool wrappers,
// so that they can be used in scipipe workflows
package components

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/pharmbio/scipipe-wrappers/wrappers"
	sp "github.com/scipipe/scipipe"
	spcomp "github.com/scipipe/scipipe/components"
)

// WrapperProc is a scipipe process running a wrapper on a fixed job. It has
// one port per input and output path, named after the role when the role
// has a single path, and <role>_<n> (counting from 1) when it has several.
//
// In-ports are connected to upstream processes with From. The ones left
// unconnected are fed the job's own paths by FeedFiles.
type WrapperProc struct {
	*sp.Process
	Wrapper   wrappers.Wrapper
	Job       *job.Job
	Runner    *shell.Runner
	wf        *sp.Workflow
	inPorts   map[string][]string
	outPorts  map[string][]string
	connected map[string]bool
}

// NewWrapperProc returns a new WrapperProc. The job is planned once against
// its declared paths, so that invalid parameters are reported here, before
// the workflow runs.
func NewWrapperProc(wf *sp.Workflow, name string, w wrappers.Wrapper, j *job.Job, r *shell.Runner) (*WrapperProc, error) {
	if _, err := w.Plan(j); err != nil {
		return nil, fmt.Errorf("process %s: %s: %w", name, w.Name(), err)
	}
	if r == nil {
		r = shell.NewRunner(nil)
	}

	inPorts := portNames(j.Input)
	outPorts := portNames(j.Output)
	placeholders := []string{}
	for _, role := range j.Input.Roles() {
		for _, port := range inPorts[role] {
			placeholders = append(placeholders, "{i:"+port+"}")
		}
	}
	for _, role := range j.Output.Roles() {
		for _, port := range outPorts[role] {
			placeholders = append(placeholders, "{o:"+port+"}")
		}
	}

	// The command is never run, it only declares the ports
	p := wf.NewProc(name, "# "+w.Name()+" "+strings.Join(placeholders, " "))
	p.CoresPerTask = j.ThreadCount()
	for _, role := range j.Output.Roles() {
		for i, port := range outPorts[role] {
			path := j.Output.Get(role)[i]
			p.SetOutFunc(port, func(t *sp.Task) string { return path })
		}
	}

	wp := &WrapperProc{
		Process:   p,
		Wrapper:   w,
		Job:       j,
		Runner:    r,
		wf:        wf,
		inPorts:   inPorts,
		outPorts:  outPorts,
		connected: map[string]bool{},
	}
	p.CustomExecute = wp.execute
	return wp, nil
}

func portNames(files job.Files) map[string][]string {
	ports := map[string][]string{}
	for _, role := range files.Roles() {
		paths := files.Get(role)
		for i := range paths {
			port := role
			if len(paths) > 1 {
				port = fmt.Sprintf("%s_%d", role, i+1)
			}
			ports[role] = append(ports[role], port)
		}
	}
	return ports
}

// InPortNames returns the names of the in-ports for an input role
func (p *WrapperProc) InPortNames(role string) []string {
	return append([]string{}, p.inPorts[role]...)
}

// OutPortNames returns the names of the out-ports for an output role
func (p *WrapperProc) OutPortNames(role string) []string {
	return append([]string{}, p.outPorts[role]...)
}

// From connects the in-port named port to an upstream out-port
func (p *WrapperProc) From(port string, out *sp.OutPort) {
	p.In(port).From(out)
	p.connected[port] = true
}

// FeedFiles connects every in-port not connected with From to a file source
// sending the job's path for it
func (p *WrapperProc) FeedFiles() {
	for _, role := range p.Job.Input.Roles() {
		for i, port := range p.inPorts[role] {
			if p.connected[port] {
				continue
			}
			src := spcomp.NewFileSource(p.wf, p.Name()+"_"+port+"_src", p.Job.Input.Get(role)[i])
			p.From(port, src.Out())
		}
	}
}

// tempOutPath returns where a task writes the output of port before
// scipipe moves it to its final path
func tempOutPath(t *sp.Task, port string) string {
	return filepath.Join(t.TempDir(), t.OutIP(port).TempPath())
}

func (p *WrapperProc) execute(t *sp.Task) {
	// Outputs are written inside the task's temp dir, which scipipe moves
	// into place only when the task succeeds
	out := job.Files{}
	for _, role := range p.Job.Output.Roles() {
		paths := []string{}
		for _, port := range p.outPorts[role] {
			paths = append(paths, tempOutPath(t, port))
		}
		out.Set(role, paths...)
	}
	in := job.Files{}
	for _, role := range p.Job.Input.Roles() {
		paths := []string{}
		for _, port := range p.inPorts[role] {
			paths = append(paths, t.InPath(port))
		}
		in.Set(role, paths...)
	}
	j := p.Job.WithOutputs(out)
	j.Input = in

	if err := wrappers.Run(context.Background(), p.Wrapper, j, p.Runner); err != nil {
		sp.Failf("| %-32s | %v\n", p.Name(), err)
	}
}
