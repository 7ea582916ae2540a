// Package dupradar wraps the dupRadar R package, which assesses PCR
// duplication rates in RNA-seq alignments
package dupradar

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/google/uuid"
	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
)

// Name is the name the wrapper is registered under
const Name = "dupradar"

// Outputs lists the output roles the wrapper requires
var Outputs = []string{
	"multimapping_histogram",
	"density_scatter",
	"expression_histogram",
	"expression_boxplot",
	"expression_barplot",
	"dataframe",
}

// bitmap() is used instead of png() to avoid depending on X11 or cairo
var scriptTmpl = template.Must(template.New("dupradar").Funcs(template.FuncMap{
	"r": strconv.Quote,
}).Parse(`library(dupRadar)
bam <- {{ r .Bam }}
gtf <- {{ r .Annotation }}
dm <- analyzeDuprates(bam, gtf, {{ .Stranded }}, {{ .Paired }}, {{ .Threads }})

dm$mhRate <- (dm$allCountsMulti - dm$allCounts) / dm$allCountsMulti
bitmap(file={{ r .Out.multimapping_histogram }})
hist(dm$mhRate, breaks=50, main=basename(bam),
    xlab="Multimapping rate per gene", ylab="Frequency")
dev.off()

bitmap(file={{ r .Out.density_scatter }})
duprateExpDensPlot(dm, main=basename(bam))
dev.off()

bitmap(file={{ r .Out.expression_histogram }})
expressionHist(dm)
dev.off()

bitmap(file={{ r .Out.expression_boxplot }})
par(mar=c(10,4,4,2)+.1)
duprateExpBoxplot(dm, main=basename(bam))
dev.off()

bitmap(file={{ r .Out.expression_barplot }})
readcountExpBoxplot(dm)
dev.off()

write.table(dm, file={{ r .Out.dataframe }}, sep="\t")
`))

type scriptData struct {
	Bam        string
	Annotation string
	Stranded   int
	Paired     string
	Threads    int
	Out        map[string]string
}

// Wrapper runs dupRadar through a generated R script
type Wrapper struct {
	// ScriptDir is where the generated R script is written; the system
	// temp directory when empty
	ScriptDir string
}

// New returns a dupRadar wrapper
func New() *Wrapper { return &Wrapper{} }

// Name returns the wrapper name
func (w *Wrapper) Name() string { return Name }

// Plan validates the stranded and paired options, renders the R script and
// returns the Rscript invocation for j
func (w *Wrapper) Plan(j *job.Job) (*shell.Plan, error) {
	params := Params{}
	if err := j.Params.Decode(&params); err != nil {
		return nil, err
	}
	script, err := Script(j, params)
	if err != nil {
		return nil, err
	}

	dir := w.ScriptDir
	if dir == "" {
		dir = os.TempDir()
	}
	scriptPath := filepath.Join(dir, "dupradar-"+uuid.New().String()+".R")

	p := shell.NewPlan(j.Rule)
	p.Outputs = j.Output.All()
	p.WriteFile(scriptPath, script)
	p.Add(shell.Step{Tool: "Rscript", Args: []string{scriptPath}})
	return p, nil
}

// Script renders the dupRadar R script for j
func Script(j *job.Job, params Params) (string, error) {
	data := scriptData{
		Stranded: int(params.Stranded),
		Paired:   params.Paired.RLogical(),
		Threads:  j.ThreadCount(),
		Out:      map[string]string{},
	}
	var err error
	if data.Bam, err = j.InputOne("bam"); err != nil {
		return "", err
	}
	if data.Annotation, err = j.InputOne("annotation"); err != nil {
		return "", err
	}
	for _, role := range Outputs {
		if data.Out[role], err = j.OutputOne(role); err != nil {
			return "", err
		}
	}

	buf := &bytes.Buffer{}
	if err := scriptTmpl.Execute(buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
