// Package align wraps hisat2 alignment, converting its SAM output to a
// coordinate-sorted BAM with samtools
package align

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pharmbio/scipipe-wrappers/aligners"
	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/pharmbio/scipipe-wrappers/shell"
)

// Name is the name the wrapper is registered under
const Name = "hisat2/align"

// Params are the options the alignment wrapper understands, one free-form
// option string per tool invoked
type Params struct {
	Hisat2Extra       string `yaml:"hisat2_extra"`
	SamtoolsViewExtra string `yaml:"samtools_view_extra"`
	SamtoolsSortExtra string `yaml:"samtools_sort_extra"`
}

// Wrapper aligns reads with hisat2 and produces a sorted BAM
type Wrapper struct{}

// New returns a hisat2 alignment wrapper
func New() *Wrapper { return &Wrapper{} }

// Name returns the wrapper name
func (w *Wrapper) Name() string { return Name }

// Plan returns the align -> convert -> sort steps for j. Reads come from
// input "fastq" (one file for single-end, two for paired-end), or, when no
// FASTQ is given, from an SRA accession passed with --sra-acc in hisat2_extra.
func (w *Wrapper) Plan(j *job.Job) (*shell.Plan, error) {
	params := Params{}
	if err := j.Params.Decode(&params); err != nil {
		return nil, err
	}
	hisat2Extra, err := splitParam("hisat2_extra", params.Hisat2Extra)
	if err != nil {
		return nil, err
	}
	viewExtra, err := splitParam("samtools_view_extra", params.SamtoolsViewExtra)
	if err != nil {
		return nil, err
	}
	sortExtra, err := splitParam("samtools_sort_extra", params.SamtoolsSortExtra)
	if err != nil {
		return nil, err
	}

	reads, err := readArgs(j.Input.Get("fastq"), hisat2Extra)
	if err != nil {
		return nil, err
	}
	index := j.Input.Get("index")
	if len(index) == 0 {
		return nil, fmt.Errorf("%w: input %q", job.ErrMissingInput, "index")
	}
	prefix, err := aligners.PrefixFromHisat2Index(index)
	if err != nil {
		return nil, err
	}
	bam, err := j.OutputOne("bam")
	if err != nil {
		return nil, err
	}

	outPrefix := strings.TrimSuffix(bam, ".bam")
	sam := outPrefix + ".sam"
	tmpBam := outPrefix + ".tmp.bam"

	p := shell.NewPlan(j.Rule)
	p.Outputs = []string{bam}
	p.Scratch = []string{sam, tmpBam}

	hisat2Args := []string{"-x", prefix}
	hisat2Args = append(hisat2Args, reads...)
	hisat2Args = append(hisat2Args, "--threads", strconv.Itoa(j.ThreadCount()))
	hisat2Args = append(hisat2Args, hisat2Extra...)
	hisat2Args = append(hisat2Args, "-S", sam)
	p.Add(shell.Step{Tool: "hisat2", Args: hisat2Args})

	// hisat2 writes SAM, so convert to BAM
	viewArgs := []string{"view", "-Sb"}
	viewArgs = append(viewArgs, viewExtra...)
	viewArgs = append(viewArgs, sam)
	p.Add(shell.Step{Tool: "samtools", Args: viewArgs, Stdout: tmpBam, Remove: []string{sam}})

	sortArgs := []string{"sort", "-o", bam}
	sortArgs = append(sortArgs, sortExtra...)
	sortArgs = append(sortArgs, "-O", "BAM", tmpBam)
	p.Add(shell.Step{Tool: "samtools", Args: sortArgs, Remove: []string{tmpBam}})
	return p, nil
}

// readArgs returns hisat2's read options for the given FASTQ files
func readArgs(fastqs []string, hisat2Extra []string) ([]string, error) {
	switch len(fastqs) {
	case 0:
		if !hasSRAAccession(hisat2Extra) {
			return nil, fmt.Errorf("%w: provide a FASTQ file or use the --sra-acc option in hisat2_extra", job.ErrMissingInput)
		}
		return nil, nil
	case 1:
		return []string{"-U", fastqs[0]}, nil
	case 2:
		return []string{"-1", fastqs[0], "-2", fastqs[1]}, nil
	}
	return nil, fmt.Errorf("%w: input %q takes one (single-end) or two (paired-end) files, got %d", job.ErrInvalidParam, "fastq", len(fastqs))
}

func hasSRAAccession(args []string) bool {
	for _, a := range args {
		if a == "--sra-acc" || strings.HasPrefix(a, "--sra-acc=") {
			return true
		}
	}
	return false
}

func splitParam(name, value string) ([]string, error) {
	args, err := shell.Split(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", job.ErrInvalidParam, name, err)
	}
	return args, nil
}
