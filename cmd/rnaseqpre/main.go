// rnaseqpre is an RNA-seq preprocessing workflow: quality reports with
// FastQC, alignment with HISAT2 and duplication assessment with dupRadar
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pharmbio/scipipe-wrappers/components"
	"github.com/pharmbio/scipipe-wrappers/config"
	"github.com/pharmbio/scipipe-wrappers/shell"
	"github.com/pharmbio/scipipe-wrappers/wrappers/dupradar"
	sp "github.com/scipipe/scipipe"
)

var (
	plot       = flag.Bool("plot", false, "Plot graph and nothing more")
	maxTasks   = flag.Int("maxtasks", 4, "Max number of local cores to use")
	threads    = flag.Int("threads", 2, "Threads per alignment and dupRadar task")
	configPath = flag.String("config", "", "Config file with tool paths")
	dataDir    = flag.String("datadir", "data", "Directory with the reads (<sample>_R1.fastq.gz, <sample>_R2.fastq.gz)")
	refDir     = flag.String("refdir", "data/ref", "Directory with the reference (genome.fa, genes.gtf)")
	outDir     = flag.String("outdir", "rnaseqpre", "Directory to write results to")
	samples    = flag.String("samples", "sample1", "Comma separated sample names")
	stranded   = flag.String("stranded", "false", "Library strandedness: false, true or reverse")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.InitLogging()

	strandedness, ok := map[string]dupradar.Strandedness{
		"false":   dupradar.Unstranded,
		"true":    dupradar.Stranded,
		"reverse": dupradar.Reverse,
	}[*stranded]
	if !ok {
		sp.Failf("-stranded must be false, true or reverse, got %q\n", *stranded)
	}

	wf, err := NewRNASeqPreWorkflow(*maxTasks, RNASeqPreConf{
		Samples:  strings.Split(*samples, ","),
		DataDir:  *dataDir,
		RefDir:   *refDir,
		OutDir:   *outDir,
		Threads:  *threads,
		Stranded: strandedness,
		Runner: func(threads int) *shell.Runner {
			r := shell.NewRunner(cfg.ToolTable())
			r.Prefix = cfg.CommandPrefix(threads)
			return r
		},
	})
	if err != nil {
		sp.Fail(err)
	}

	if *plot {
		dotFile := "rnaseqpre.dot"
		wf.PlotGraph(dotFile)
		fmt.Println("Wrote workflow graph to:", dotFile)
		return
	}
	wf.Run()
}

// RNASeqPreConf contains parameters for the RNA-seq preprocessing workflow
type RNASeqPreConf struct {
	Samples  []string
	DataDir  string
	RefDir   string
	OutDir   string
	Threads  int
	Stranded dupradar.Strandedness
	Runner   components.RunnerFunc
}

// NewRNASeqPreWorkflow returns the RNA-seq preprocessing workflow: one HISAT2
// index build, and per sample FastQC on both read files, a paired-end
// alignment and a dupRadar run on the alignment
func NewRNASeqPreWorkflow(maxTasks int, params RNASeqPreConf) (*sp.Workflow, error) {
	if maxTasks < params.Threads {
		maxTasks = params.Threads
	}
	wf := sp.NewWorkflow("rnaseqpre", maxTasks)
	out := func(format string, v ...interface{}) string {
		return params.OutDir + "/" + fs(format, v...)
	}

	// --------------------------------------------------------------------------------
	// Build index
	// --------------------------------------------------------------------------------
	buildIndex, err := components.NewHisat2Build(wf, "hisat2_build", components.Hisat2BuildConf{
		Fasta:   []string{params.RefDir + "/genome.fa"},
		Prefix:  out("index/genome"),
		Log:     out("logs/hisat2_build.log"),
		Threads: params.Threads,
		Runner:  params.Runner(params.Threads),
	})
	if err != nil {
		return nil, err
	}
	buildIndex.FeedFiles()

	for _, sample := range params.Samples {
		reads := []string{}
		for _, mate := range []string{"R1", "R2"} {
			readsPath := fs("%s/%s_%s.fastq.gz", params.DataDir, sample, mate)
			reads = append(reads, readsPath)

			// --------------------------------------------------------------------------------
			// Quality reporting
			// --------------------------------------------------------------------------------
			fastQC, err := components.NewFastQC(wf, fs("fastqc_%s_%s", sample, mate), components.FastQCConf{
				Reads:  readsPath,
				Html:   out("fastqc/%s_%s.html", sample, mate),
				Zip:    out("fastqc/%s_%s.zip", sample, mate),
				Log:    out("logs/fastqc_%s_%s.log", sample, mate),
				Runner: params.Runner(1),
			})
			if err != nil {
				return nil, err
			}
			fastQC.FeedFiles()
		}

		// --------------------------------------------------------------------------------
		// Align samples
		// --------------------------------------------------------------------------------
		alignSample, err := components.NewHisat2Align(wf, "hisat2_align_"+sample, components.Hisat2AlignConf{
			Reads:   reads,
			Index:   buildIndex.IndexFiles(),
			Bam:     out("aligned/%s.bam", sample),
			Log:     out("logs/hisat2_align_%s.log", sample),
			Threads: params.Threads,
			Runner:  params.Runner(params.Threads),
		})
		if err != nil {
			return nil, err
		}
		alignSample.ConnectIndex(buildIndex.OutIndex())
		alignSample.FeedFiles()

		// --------------------------------------------------------------------------------
		// Duplication rates
		// --------------------------------------------------------------------------------
		dupRadar, err := components.NewDupRadar(wf, "dupradar_"+sample, components.DupRadarConf{
			Bam:        alignSample.Job.Output.Get("bam")[0],
			Annotation: params.RefDir + "/genes.gtf",
			OutDir:     out("dupradar"),
			Sample:     sample,
			Log:        out("logs/dupradar_%s.log", sample),
			Threads:    params.Threads,
			Stranded:   params.Stranded,
			Paired:     true,
			Runner:     params.Runner(params.Threads),
		})
		if err != nil {
			return nil, err
		}
		dupRadar.From("bam", alignSample.OutBam())
		dupRadar.FeedFiles()
	}

	procNames := []string{}
	for procName := range wf.Procs() {
		procNames = append(procNames, procName)
	}
	sort.Strings(procNames)
	sp.Debug.Println("Processes in workflow:", strings.Join(procNames, ", "))
	return wf, nil
}

// fs is a short-hand for fmt.Sprintf(), to make string interpolation code less
// verbose and more readable
func fs(fmtString string, v ...interface{}) string {
	return fmt.Sprintf(fmtString, v...)
}
