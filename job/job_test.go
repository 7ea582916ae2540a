package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alignWorkflow = `
rules:
  hisat2_align:
    input:
      fastq: sample1_R1.fastq.gz
      index: [2L.1.ht2, 2L.2.ht2]
    output:
      bam: sample1.bam
    params:
      samtools_view_extra: -F 0x04
    log: hisat2.log
    wrapper: hisat2/align
  fastqc:
    input:
      fastq: sample1_R1.fastq.gz
    output:
      html: results/sample1_R1.html
      zip: sample1_R1.zip
    threads: 4
    wrapper: fastqc
`

func TestParseWorkflow(t *testing.T) {
	wf, err := Parse([]byte(alignWorkflow))
	require.NoError(t, err)
	require.Len(t, wf.Rules, 2)

	align := wf.Rules[0]
	assert.Equal(t, "hisat2_align", align.Name)
	assert.Equal(t, "hisat2/align", align.Wrapper)

	j := align.Job()
	assert.Equal(t, "hisat2_align", j.Rule)
	assert.Equal(t, 1, j.Threads)
	assert.Equal(t, "hisat2.log", j.Log)
	assert.Equal(t, Paths{"sample1_R1.fastq.gz"}, j.Input.Get("fastq"))
	assert.Equal(t, Paths{"2L.1.ht2", "2L.2.ht2"}, j.Input.Get("index"))
	assert.Equal(t, []string{"fastq", "index"}, j.Input.Roles())
	assert.Equal(t, "-F 0x04", j.Params["samtools_view_extra"])

	fastqc := wf.Rule("fastqc")
	require.NotNil(t, fastqc)
	assert.Equal(t, 4, fastqc.Job().Threads)
	assert.Equal(t, []string{"results/sample1_R1.html", "sample1_R1.zip"}, fastqc.Job().Output.All())
}

func TestParseWorkflowErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":              ``,
		"no rules":           "rules: {}\n",
		"unknown key":        "ruels: {}\n",
		"no wrapper":         "rules:\n  a:\n    output: {x: x.txt}\n",
		"no outputs":         "rules:\n  a:\n    wrapper: fastqc\n",
		"bad input kind":     "rules:\n  a:\n    input: [a, b]\n    output: {x: x.txt}\n    wrapper: fastqc\n",
		"misspelled params":  "rules:\n  a:\n    output: {bam: a.bam}\n    parmas: {samtools_view_extra: -F 0x04}\n    wrapper: hisat2/align\n",
		"misspelled threads": "rules:\n  a:\n    output: {bam: a.bam}\n    thread: 8\n    wrapper: hisat2/align\n",
		"rule not a mapping": "rules:\n  a: hisat2/align\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseWorkflowNamesUnknownKey(t *testing.T) {
	_, err := Parse([]byte("rules:\n  align:\n    output: {bam: a.bam}\n    parmas: {samtools_view_extra: -F 0x04}\n    wrapper: hisat2/align\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "align": unknown key "parmas"`)
}

func TestFiles(t *testing.T) {
	f := Files{}
	f.Set("b", "b1", "b2")
	f.Set("a", "a1")
	f.Set("b", "b3")

	assert.Equal(t, []string{"b", "a"}, f.Roles())
	assert.Equal(t, []string{"b3", "a1"}, f.All())
	assert.True(t, f.Has("a"))
	assert.False(t, f.Has("c"))

	one, err := f.One("a")
	require.NoError(t, err)
	assert.Equal(t, "a1", one)

	f.Set("c", "c1", "c2")
	_, err = f.One("c")
	assert.Error(t, err)

	c := f.Clone()
	c.Set("a", "changed")
	assert.Equal(t, Paths{"a1"}, f.Get("a"))
}

func TestJobRequiredRoles(t *testing.T) {
	j := New("r")
	j.Input.Set("bam", "x.bam")

	_, err := j.InputOne("annotation")
	assert.ErrorIs(t, err, ErrMissingInput)
	_, err = j.OutputOne("dataframe")
	assert.ErrorIs(t, err, ErrMissingOutput)

	bam, err := j.InputOne("bam")
	require.NoError(t, err)
	assert.Equal(t, "x.bam", bam)
}

func TestWithOutputsLeavesOriginal(t *testing.T) {
	j := New("r")
	j.Output.Set("bam", "final.bam")

	out := Files{}
	out.Set("bam", ".tmp/final.bam")
	c := j.WithOutputs(out)

	assert.Equal(t, Paths{".tmp/final.bam"}, c.Output.Get("bam"))
	assert.Equal(t, Paths{"final.bam"}, j.Output.Get("bam"))
}

type testParams struct {
	Extra  string `yaml:"extra"`
	Paired bool   `yaml:"paired"`
	Cutoff int    `yaml:"cutoff"`
}

func TestParamsDecode(t *testing.T) {
	p := testParams{Extra: "default", Cutoff: 7}
	require.NoError(t, Params{"paired": true}.Decode(&p))
	assert.Equal(t, testParams{Extra: "default", Paired: true, Cutoff: 7}, p)

	p = testParams{Extra: "default"}
	require.NoError(t, Params{}.Decode(&p))
	assert.Equal(t, "default", p.Extra)

	err := Params{"extar": "--foo"}.Decode(&p)
	assert.ErrorIs(t, err, ErrInvalidParam)

	err = Params{"paired": "sometimes"}.Decode(&p)
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestThreadCount(t *testing.T) {
	j := &Job{}
	assert.Equal(t, 1, j.ThreadCount())
	j.Threads = 8
	assert.Equal(t, 8, j.ThreadCount())
}
