package components

import (
	"github.com/pharmbio/scipipe-wrappers/aligners"
	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/pharmbio/scipipe-wrappers/wrappers/hisat2/build"
	sp "github.com/scipipe/scipipe"
)

// Hisat2Build builds a HISAT2 index from one or more reference FASTA files
type Hisat2Build struct {
	*WrapperProc
}

// Hisat2BuildConf contains parameters for initializing a Hisat2Build
// process. The eight index files are named from Prefix.
type Hisat2BuildConf struct {
	Fasta   []string
	Prefix  string
	Log     string
	Threads int
	Extra   string
	Runner  *shell.Runner
}

// NewHisat2Build returns a new Hisat2Build process
func NewHisat2Build(wf *sp.Workflow, name string, params Hisat2BuildConf) (*Hisat2Build, error) {
	j := job.New(name)
	j.Input.Set("fasta", params.Fasta...)
	j.Output.Set("index", aligners.Hisat2IndexFromPrefix(params.Prefix)...)
	j.Log = params.Log
	j.Threads = params.Threads
	if params.Extra != "" {
		j.Params["extra"] = params.Extra
	}
	p, err := NewWrapperProc(wf, name, build.New(), j, params.Runner)
	if err != nil {
		return nil, err
	}
	return &Hisat2Build{p}, nil
}

// IndexFiles returns the paths of the index files, in out-port order
func (p *Hisat2Build) IndexFiles() []string {
	return p.Job.Output.Get("index")
}

// OutIndex returns the out-ports of the index files
func (p *Hisat2Build) OutIndex() []*sp.OutPort {
	outs := []*sp.OutPort{}
	for _, port := range p.OutPortNames("index") {
		outs = append(outs, p.Out(port))
	}
	return outs
}
