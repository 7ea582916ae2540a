// Package fastqc wraps FastQC, renaming its report and archive to the paths
// the job declares
package fastqc

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
)

// Name is the name the wrapper is registered under
const Name = "fastqc"

// Params are the options the FastQC wrapper understands
type Params struct {
	Extra string `yaml:"extra"`
}

// Wrapper runs fastqc on the job's input files
type Wrapper struct{}

// New returns a FastQC wrapper
func New() *Wrapper { return &Wrapper{} }

// Name returns the wrapper name
func (w *Wrapper) Name() string { return Name }

// Plan returns the fastqc invocation for j. The "html" output is required,
// "zip" is optional.
func (w *Wrapper) Plan(j *job.Job) (*shell.Plan, error) {
	params := Params{}
	if err := j.Params.Decode(&params); err != nil {
		return nil, err
	}
	extra, err := shell.Split(params.Extra)
	if err != nil {
		return nil, fmt.Errorf("%w: extra: %v", job.ErrInvalidParam, err)
	}

	inputs := j.Input.All()
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: fastqc needs at least one input file", job.ErrMissingInput)
	}
	html, err := j.OutputOne("html")
	if err != nil {
		return nil, err
	}
	outDir := filepath.Dir(html)

	p := shell.NewPlan(j.Rule)
	p.Outputs = j.Output.All()
	args := []string{
		"--threads", strconv.Itoa(j.ThreadCount()),
		"--noextract",
		"--quiet",
		"--outdir", outDir,
	}
	args = append(args, extra...)
	args = append(args, inputs...)
	p.Add(shell.Step{Tool: "fastqc", Args: args})

	// fastqc names its outputs after the (first) input file
	stem := filepath.Join(outDir, ReportStem(inputs[0]))
	p.Rename(stem+"_fastqc.html", html)
	if j.Output.Has("zip") {
		zip, err := j.Output.One("zip")
		if err != nil {
			return nil, err
		}
		p.Rename(stem+"_fastqc.zip", zip)
	}
	return p, nil
}

var (
	compressionExts = []string{".gz", ".bz2"}
	formatExts      = []string{".txt", ".fastq", ".fq", ".csfastq", ".sam", ".bam"}
)

// ReportStem returns the base name fastqc uses for the report of inputFile:
// the file name without a compression extension and then without a
// recognized sequence format extension
func ReportStem(inputFile string) string {
	name := filepath.Base(inputFile)
	for _, ext := range compressionExts {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}
	for _, ext := range formatExts {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}
	return name
}
