package job

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Paths is the list of files bound to one input or output role. In a workflow
// file a role can be given either as a single path or as a list of paths; both
// decode to a Paths value.
type Paths []string

// UnmarshalYAML accepts a scalar path or a sequence of paths
func (p *Paths) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var path string
		if err := node.Decode(&path); err != nil {
			return err
		}
		*p = Paths{path}
		return nil
	case yaml.SequenceNode:
		var paths []string
		if err := node.Decode(&paths); err != nil {
			return err
		}
		*p = Paths(paths)
		return nil
	}
	return fmt.Errorf("line %d: expected a path or a list of paths", node.Line)
}

// Files maps named roles (like "fastq" or "index") to the paths bound to them,
// keeping the order in which the roles were declared.
type Files struct {
	roles []string
	paths map[string]Paths
}

// Set binds paths to role, replacing any earlier binding but keeping the
// role's original position
func (f *Files) Set(role string, paths ...string) {
	if f.paths == nil {
		f.paths = map[string]Paths{}
	}
	if _, ok := f.paths[role]; !ok {
		f.roles = append(f.roles, role)
	}
	f.paths[role] = append(Paths{}, paths...)
}

// Get returns the paths bound to role, or nil
func (f Files) Get(role string) Paths {
	return f.paths[role]
}

// Has tells whether role has at least one path
func (f Files) Has(role string) bool {
	return len(f.paths[role]) > 0
}

// One returns the single path bound to role
func (f Files) One(role string) (string, error) {
	paths := f.paths[role]
	if len(paths) != 1 {
		return "", fmt.Errorf("role %q: expected exactly one path, got %d", role, len(paths))
	}
	return paths[0], nil
}

// Roles returns the declared roles in order
func (f Files) Roles() []string {
	return append([]string{}, f.roles...)
}

// All returns every path, flattened in role declaration order
func (f Files) All() []string {
	all := []string{}
	for _, role := range f.roles {
		all = append(all, f.paths[role]...)
	}
	return all
}

// Len returns the number of declared roles
func (f Files) Len() int {
	return len(f.roles)
}

// Clone returns a deep copy of f
func (f Files) Clone() Files {
	c := Files{}
	for _, role := range f.roles {
		c.Set(role, f.paths[role]...)
	}
	return c
}

// UnmarshalYAML decodes a mapping of role to path(s), preserving order
func (f *Files) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of role to path(s)", node.Line)
	}
	*f = Files{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var role string
		if err := node.Content[i].Decode(&role); err != nil {
			return err
		}
		var paths Paths
		if err := node.Content[i+1].Decode(&paths); err != nil {
			return fmt.Errorf("role %q: %w", role, err)
		}
		f.Set(role, paths...)
	}
	return nil
}

// MarshalYAML writes Files back as an ordered mapping
func (f Files) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, role := range f.roles {
		val := &yaml.Node{}
		paths := f.paths[role]
		var err error
		if len(paths) == 1 {
			err = val.Encode(paths[0])
		} else {
			err = val.Encode([]string(paths))
		}
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: role}, val)
	}
	return node, nil
}
