package components

import (
	"path/filepath"

	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/pharmbio/scipipe-wrappers/wrappers/dupradar"
	sp "github.com/scipipe/scipipe"
)

// DupRadar assesses the PCR duplication rate of an RNA-seq alignment with
// the dupRadar R package
type DupRadar struct {
	*WrapperProc
}

// DupRadarConf contains parameters for initializing a DupRadar process. The
// plots and the data frame are written to OutDir, named after Sample.
type DupRadarConf struct {
	Bam        string
	Annotation string
	OutDir     string
	Sample     string
	Log        string
	Threads    int
	Stranded   dupradar.Strandedness
	Paired     bool
	Runner     *shell.Runner
}

var dupRadarSuffixes = map[string]string{
	"multimapping_histogram": "_duprm_multimapping.png",
	"density_scatter":        "_duprm_density.png",
	"expression_histogram":   "_duprm_expression_hist.png",
	"expression_boxplot":     "_duprm_expression_boxplot.png",
	"expression_barplot":     "_duprm_readcount_barplot.png",
	"dataframe":              "_duprm.txt",
}

// NewDupRadar returns a new DupRadar process
func NewDupRadar(wf *sp.Workflow, name string, params DupRadarConf) (*DupRadar, error) {
	j := job.New(name)
	j.Input.Set("bam", params.Bam)
	j.Input.Set("annotation", params.Annotation)
	for _, role := range dupradar.Outputs {
		j.Output.Set(role, filepath.Join(params.OutDir, params.Sample+dupRadarSuffixes[role]))
	}
	j.Log = params.Log
	j.Threads = params.Threads
	j.Params["stranded"] = params.Stranded
	j.Params["paired"] = params.Paired
	p, err := NewWrapperProc(wf, name, dupradar.New(), j, params.Runner)
	if err != nil {
		return nil, err
	}
	return &DupRadar{p}, nil
}

// OutDataFrame returns the out-port of the tab separated duplication data
func (p *DupRadar) OutDataFrame() *sp.OutPort {
	return p.Out("dataframe")
}

// OutPlot returns the out-port of one of the plots, named by output role
func (p *DupRadar) OutPlot(role string) *sp.OutPort {
	return p.Out(role)
}
