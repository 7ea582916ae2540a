// Package build wraps hisat2-build
package build

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pharmbio/scipipe-wrappers/aligners"
	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
)

// Name is the name the wrapper is registered under
const Name = "hisat2/build"

// Params are the options the hisat2-build wrapper understands
type Params struct {
	Extra string `yaml:"extra"`
}

// Wrapper builds a HISAT2 index from one or more FASTA files
type Wrapper struct{}

// New returns a hisat2-build wrapper
func New() *Wrapper { return &Wrapper{} }

// Name returns the wrapper name
func (w *Wrapper) Name() string { return Name }

// Plan returns the hisat2-build invocation for j. Input "fasta" holds the
// reference sequences, output "index" the index files; the index prefix is
// derived from the latter.
func (w *Wrapper) Plan(j *job.Job) (*shell.Plan, error) {
	params := Params{}
	if err := j.Params.Decode(&params); err != nil {
		return nil, err
	}
	extra, err := shell.Split(params.Extra)
	if err != nil {
		return nil, fmt.Errorf("%w: extra: %v", job.ErrInvalidParam, err)
	}

	fastas := j.Input.Get("fasta")
	if len(fastas) == 0 {
		return nil, fmt.Errorf("%w: input %q", job.ErrMissingInput, "fasta")
	}
	index := j.Output.Get("index")
	if len(index) == 0 {
		return nil, fmt.Errorf("%w: output %q", job.ErrMissingOutput, "index")
	}
	prefix, err := aligners.PrefixFromHisat2Index(index)
	if err != nil {
		return nil, err
	}

	p := shell.NewPlan(j.Rule)
	p.Outputs = j.Output.All()
	args := []string{"--threads", strconv.Itoa(j.ThreadCount())}
	args = append(args, extra...)
	args = append(args, strings.Join(fastas, ","), prefix)
	p.Add(shell.Step{Tool: "hisat2-build", Args: args})
	return p, nil
}
