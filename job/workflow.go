package job

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultWorkflowFile is the workflow file name looked up when none is given
const DefaultWorkflowFile = "Wrapfile.yaml"

// Rule is one declared rule of a workflow file: a job description plus the
// name of the wrapper implementing it.
type Rule struct {
	Name    string `yaml:"-"`
	Wrapper string `yaml:"wrapper"`
	Decl    Job    `yaml:",inline"`
}

// Job returns the job description of the rule
func (r *Rule) Job() *Job {
	j := r.Decl.WithOutputs(r.Decl.Output)
	j.Rule = r.Name
	if j.Params == nil {
		j.Params = Params{}
	}
	if j.Threads < 1 {
		j.Threads = 1
	}
	return j
}

// ruleKeys are the keys a rule may declare
var ruleKeys = map[string]bool{
	"input":     true,
	"output":    true,
	"params":    true,
	"log":       true,
	"threads":   true,
	"wrapper":   true,
	"wildcards": true,
}

// Workflow is a parsed workflow file, with rules in declaration order
type Workflow struct {
	Rules []*Rule
}

// Rule returns the rule with the given name, or nil
func (w *Workflow) Rule(name string) *Rule {
	for _, r := range w.Rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Load reads and parses the workflow file at path
func Load(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file: %w", err)
	}
	wf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wf, nil
}

// Parse parses a workflow file of the form
//
//	rules:
//	  <name>:
//	    input: {<role>: <path or list of paths>, ...}
//	    output: {<role>: <path or list of paths>, ...}
//	    params: {<option>: <value>, ...}
//	    log: <path>
//	    threads: <n>
//	    wrapper: <wrapper name>
func Parse(data []byte) (*Workflow, error) {
	var doc struct {
		Rules yaml.Node `yaml:"rules"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("workflow file is empty")
		}
		return nil, err
	}
	if doc.Rules.Kind != yaml.MappingNode || len(doc.Rules.Content) == 0 {
		return nil, errors.New("workflow file declares no rules")
	}

	wf := &Workflow{}
	for i := 0; i+1 < len(doc.Rules.Content); i += 2 {
		name := doc.Rules.Content[i].Value
		if wf.Rule(name) != nil {
			return nil, fmt.Errorf("rule %q declared twice", name)
		}
		node := doc.Rules.Content[i+1]
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("rule %q: expected a mapping", name)
		}
		for k := 0; k+1 < len(node.Content); k += 2 {
			if key := node.Content[k].Value; !ruleKeys[key] {
				return nil, fmt.Errorf("rule %q: unknown key %q (line %d)", name, key, node.Content[k].Line)
			}
		}
		r := &Rule{}
		if err := node.Decode(r); err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		r.Name = name
		if r.Wrapper == "" {
			return nil, fmt.Errorf("rule %q: no wrapper given", name)
		}
		if r.Decl.Output.Len() == 0 {
			return nil, fmt.Errorf("rule %q: no outputs declared", name)
		}
		wf.Rules = append(wf.Rules, r)
	}
	return wf, nil
}
