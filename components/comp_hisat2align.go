package components

import (
	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/pharmbio/scipipe-wrappers/wrappers/hisat2/align"
	sp "github.com/scipipe/scipipe"
)

// Hisat2Align aligns single or paired end reads against a HISAT2 index and
// writes a coordinate sorted BAM file
type Hisat2Align struct {
	*WrapperProc
}

// Hisat2AlignConf contains parameters for initializing a Hisat2Align
// process. Reads may be empty when Hisat2Extra names an --sra-acc.
type Hisat2AlignConf struct {
	Reads             []string
	Index             []string
	Bam               string
	Log               string
	Threads           int
	Hisat2Extra       string
	SamtoolsViewExtra string
	SamtoolsSortExtra string
	Runner            *shell.Runner
}

// NewHisat2Align returns a new Hisat2Align process
func NewHisat2Align(wf *sp.Workflow, name string, params Hisat2AlignConf) (*Hisat2Align, error) {
	j := job.New(name)
	if len(params.Reads) > 0 {
		j.Input.Set("fastq", params.Reads...)
	}
	j.Input.Set("index", params.Index...)
	j.Output.Set("bam", params.Bam)
	j.Log = params.Log
	j.Threads = params.Threads
	for key, val := range map[string]string{
		"hisat2_extra":        params.Hisat2Extra,
		"samtools_view_extra": params.SamtoolsViewExtra,
		"samtools_sort_extra": params.SamtoolsSortExtra,
	} {
		if val != "" {
			j.Params[key] = val
		}
	}
	p, err := NewWrapperProc(wf, name, align.New(), j, params.Runner)
	if err != nil {
		return nil, err
	}
	return &Hisat2Align{p}, nil
}

// ConnectIndex connects the index in-ports to the out-ports of an index
// build, in order
func (p *Hisat2Align) ConnectIndex(outs []*sp.OutPort) {
	for i, port := range p.InPortNames("index") {
		if i < len(outs) {
			p.From(port, outs[i])
		}
	}
}

// OutBam returns the Bam out-port
func (p *Hisat2Align) OutBam() *sp.OutPort {
	return p.Out("bam")
}
