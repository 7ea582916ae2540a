// Package job holds the job description a wrapper receives: its declared
// inputs, outputs, parameters, thread count and log path, and the workflow
// file format those jobs are declared in.
package job

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidParam is returned when a parameter has an unsupported value
	ErrInvalidParam = errors.New("invalid parameter")
	// ErrMissingInput is returned when a required input (or input
	// combination) is not declared
	ErrMissingInput = errors.New("missing input")
	// ErrMissingOutput is returned when a required output is not declared
	ErrMissingOutput = errors.New("missing output")
)

// Job is the description of one wrapper invocation. A wrapper must treat it
// as read-only.
type Job struct {
	Rule      string            `yaml:"-"`
	Input     Files             `yaml:"input"`
	Output    Files             `yaml:"output"`
	Params    Params            `yaml:"params"`
	Threads   int               `yaml:"threads"`
	Log       string            `yaml:"log"`
	Wildcards map[string]string `yaml:"wildcards"`
}

// New returns an empty job for rule, running on one thread
func New(rule string) *Job {
	return &Job{
		Rule:    rule,
		Params:  Params{},
		Threads: 1,
	}
}

// ThreadCount returns the number of threads, never less than one
func (j *Job) ThreadCount() int {
	if j.Threads < 1 {
		return 1
	}
	return j.Threads
}

// WithOutputs returns a copy of the job with its outputs replaced
func (j *Job) WithOutputs(output Files) *Job {
	c := *j
	c.Input = j.Input.Clone()
	c.Output = output.Clone()
	return &c
}

// InputOne returns the single path of a required input role
func (j *Job) InputOne(role string) (string, error) {
	if !j.Input.Has(role) {
		return "", fmt.Errorf("%w: input %q", ErrMissingInput, role)
	}
	return j.Input.One(role)
}

// OutputOne returns the single path of a required output role
func (j *Job) OutputOne(role string) (string, error) {
	if !j.Output.Has(role) {
		return "", fmt.Errorf("%w: output %q", ErrMissingOutput, role)
	}
	return j.Output.One(role)
}

// Params holds a job's named options
type Params map[string]interface{}

// Decode fills v, a pointer to a struct with yaml tags, from the params.
// Fields of v that have no corresponding option keep the value they had, so
// defaults are set by initializing v before calling Decode. Unknown options and
// values of the wrong type give an error wrapping ErrInvalidParam.
func (p Params) Decode(v interface{}) error {
	if len(p) == 0 {
		return nil
	}
	raw, err := yaml.Marshal(map[string]interface{}(p))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, ErrInvalidParam) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	return nil
}
