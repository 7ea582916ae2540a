package components

import (
	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/pharmbio/scipipe-wrappers/wrappers/fastqc"
	sp "github.com/scipipe/scipipe"
)

// FastQC runs FastQC on a reads file, producing an HTML report and a zip
// archive with the raw data behind it
type FastQC struct {
	*WrapperProc
}

// FastQCConf contains parameters for initializing a FastQC process. Zip is
// optional.
type FastQCConf struct {
	Reads   string
	Html    string
	Zip     string
	Log     string
	Threads int
	Extra   string
	Runner  *shell.Runner
}

// NewFastQC returns a new FastQC process
func NewFastQC(wf *sp.Workflow, name string, params FastQCConf) (*FastQC, error) {
	j := job.New(name)
	j.Input.Set("reads", params.Reads)
	j.Output.Set("html", params.Html)
	if params.Zip != "" {
		j.Output.Set("zip", params.Zip)
	}
	j.Log = params.Log
	j.Threads = params.Threads
	if params.Extra != "" {
		j.Params["extra"] = params.Extra
	}
	p, err := NewWrapperProc(wf, name, fastqc.New(), j, params.Runner)
	if err != nil {
		return nil, err
	}
	return &FastQC{p}, nil
}

// OutHtml returns the Html out-port
func (p *FastQC) OutHtml() *sp.OutPort {
	return p.Out("html")
}

// OutZip returns the Zip out-port, or nil when no zip output was asked for
func (p *FastQC) OutZip() *sp.OutPort {
	if !p.Job.Output.Has("zip") {
		return nil
	}
	return p.Out("zip")
}
