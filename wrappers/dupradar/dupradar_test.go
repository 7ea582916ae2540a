package dupradar

import (
	"strings"
	"testing"

	"github.com/pharmbio/scipipe-wrappers/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJob() *job.Job {
	j := job.New("dupradar")
	j.Threads = 4
	j.Input.Set("bam", "sample1.bam")
	j.Input.Set("annotation", "dm6.gtf")
	for _, role := range Outputs {
		j.Output.Set(role, "dupradar/sample1."+role+".png")
	}
	j.Output.Set("dataframe", "dupradar/sample1.tsv")
	return j
}

func TestPlan(t *testing.T) {
	w := &Wrapper{ScriptDir: t.TempDir()}
	j := newJob()
	j.Params["stranded"] = "reverse"
	j.Params["paired"] = true

	p, err := w.Plan(j)
	require.NoError(t, err)
	require.Len(t, p.Steps, 1)
	assert.Equal(t, "Rscript", p.Steps[0].Tool)

	scriptPath := p.Steps[0].Args[0]
	assert.True(t, strings.HasPrefix(scriptPath, w.ScriptDir))
	assert.True(t, strings.HasSuffix(scriptPath, ".R"))
	assert.Equal(t, []string{scriptPath}, p.Scratch)

	script := p.Files[scriptPath]
	assert.Contains(t, script, "library(dupRadar)")
	assert.Contains(t, script, `bam <- "sample1.bam"`)
	assert.Contains(t, script, `gtf <- "dm6.gtf"`)
	assert.Contains(t, script, "analyzeDuprates(bam, gtf, 2, TRUE, 4)")
	assert.Contains(t, script, `write.table(dm, file="dupradar/sample1.tsv", sep="\t")`)
	assert.Contains(t, script, `bitmap(file="dupradar/sample1.expression_barplot.png")`)
}

func TestScriptDefaults(t *testing.T) {
	j := newJob()
	j.Threads = 1
	script, err := Script(j, Params{})
	require.NoError(t, err)
	assert.Contains(t, script, "analyzeDuprates(bam, gtf, 0, FALSE, 1)")
}

func TestStrandedValues(t *testing.T) {
	for value, expected := range map[interface{}]string{
		false:     "analyzeDuprates(bam, gtf, 0,",
		true:      "analyzeDuprates(bam, gtf, 1,",
		"reverse": "analyzeDuprates(bam, gtf, 2,",
	} {
		j := newJob()
		j.Params["stranded"] = value
		p, err := (&Wrapper{ScriptDir: t.TempDir()}).Plan(j)
		require.NoError(t, err, "stranded=%v", value)
		assert.Contains(t, p.Files[p.Steps[0].Args[0]], expected)
	}
}

func TestInvalidParamsFailBeforeRunning(t *testing.T) {
	for name, params := range map[string]job.Params{
		"stranded yes":     {"stranded": "yes"},
		"stranded forward": {"stranded": "forward"},
		"stranded int":     {"stranded": 2},
		"paired string":    {"paired": "TRUE"},
		"paired int":       {"paired": 1},
		"unknown option":   {"strand": "reverse"},
	} {
		t.Run(name, func(t *testing.T) {
			j := newJob()
			for k, v := range params {
				j.Params[k] = v
			}
			p, err := (&Wrapper{ScriptDir: t.TempDir()}).Plan(j)
			assert.ErrorIs(t, err, job.ErrInvalidParam)
			assert.Nil(t, p)
		})
	}
}

func TestMissingRoles(t *testing.T) {
	j := newJob()
	j.Input = job.Files{}
	j.Input.Set("bam", "sample1.bam")
	_, err := New().Plan(j)
	assert.ErrorIs(t, err, job.ErrMissingInput)

	j = newJob()
	j.Output = job.Files{}
	j.Output.Set("dataframe", "x.tsv")
	_, err = New().Plan(j)
	assert.ErrorIs(t, err, job.ErrMissingOutput)
}

func TestParamsFromWorkflowFile(t *testing.T) {
	wf, err := job.Parse([]byte(`
rules:
  dupradar:
    input: {bam: a.bam, annotation: a.gtf}
    output: {dataframe: a.tsv}
    params:
      stranded: reverse
      paired: false
    wrapper: dupradar
`))
	require.NoError(t, err)
	params := Params{}
	require.NoError(t, wf.Rules[0].Job().Params.Decode(&params))
	assert.Equal(t, Reverse, params.Stranded)
	assert.Equal(t, Paired(false), params.Paired)
}
