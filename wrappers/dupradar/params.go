package dupradar

import (
	"fmt"

	"github.com/pharmbio/scipipe-wrappers/job"
	"gopkg.in/yaml.v3"
)

// Strandedness is the library strandedness given to analyzeDuprates
type Strandedness int

const (
	Unstranded Strandedness = 0
	Stranded   Strandedness = 1
	Reverse    Strandedness = 2
)

// UnmarshalYAML accepts true, false or "reverse"
func (s *Strandedness) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		switch {
		case node.ShortTag() == "!!bool":
			var b bool
			if err := node.Decode(&b); err == nil {
				if b {
					*s = Stranded
				} else {
					*s = Unstranded
				}
				return nil
			}
		case node.ShortTag() == "!!str" && node.Value == "reverse":
			*s = Reverse
			return nil
		}
	}
	return fmt.Errorf(`%w: "stranded" must be true|false|"reverse", got %q`, job.ErrInvalidParam, node.Value)
}

// MarshalYAML writes the strandedness back in the form UnmarshalYAML reads
func (s Strandedness) MarshalYAML() (interface{}, error) {
	switch s {
	case Unstranded:
		return false, nil
	case Stranded:
		return true, nil
	case Reverse:
		return "reverse", nil
	}
	return nil, fmt.Errorf("%w: unknown strandedness %d", job.ErrInvalidParam, int(s))
}

// Paired tells whether reads are paired-end
type Paired bool

// UnmarshalYAML accepts only true or false
func (p *Paired) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!bool" {
		var b bool
		if err := node.Decode(&b); err == nil {
			*p = Paired(b)
			return nil
		}
	}
	return fmt.Errorf(`%w: "paired" must be true or false, got %q`, job.ErrInvalidParam, node.Value)
}

// RLogical returns the value as an R logical literal
func (p Paired) RLogical() string {
	if p {
		return "TRUE"
	}
	return "FALSE"
}

// Params are the options the dupRadar wrapper understands
type Params struct {
	Stranded Strandedness `yaml:"stranded"`
	Paired   Paired       `yaml:"paired"`
}
