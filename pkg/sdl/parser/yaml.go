package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"scenario-hq/criterion/pkg/sdl/ast"
)

// parseYAMLFile reads and parses a scenario file into a yaml.Node tree.
// The node tree is walked directly (rather than decoded into structs) so
// every scenario fragment keeps its line and column for error reporting.
func parseYAMLFile(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseYAMLBytes(data)
}

// parseYAMLBytes parses scenario YAML into a yaml.Node tree and unwraps
// the document node.
func parseYAMLBytes(data []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		return root.Content[0], nil
	}
	return &root, nil
}

// deref follows alias nodes to their anchor target.
func deref(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// location extracts the source location of a node.
func location(node *yaml.Node, sourcePath string) ast.Location {
	if node == nil {
		return ast.Location{File: sourcePath}
	}
	return ast.Location{
		File:   sourcePath,
		Line:   node.Line,
		Column: node.Column,
	}
}

// mapValue returns the value node for a key in a mapping, or nil.
func mapValue(node *yaml.Node, key string) *yaml.Node {
	node = deref(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return deref(node.Content[i+1])
		}
	}
	return nil
}

// mapKeys returns the key names of a mapping in declaration order.
func mapKeys(node *yaml.Node) []string {
	node = deref(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

// sequence returns the elements of a sequence node.
func sequence(node *yaml.Node) ([]*yaml.Node, bool) {
	node = deref(node)
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil, false
	}
	items := make([]*yaml.Node, 0, len(node.Content))
	for _, item := range node.Content {
		items = append(items, deref(item))
	}
	return items, true
}

// scalarString decodes a scalar node into a string.
func scalarString(node *yaml.Node) (string, error) {
	node = deref(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected scalar value")
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return "", err
	}
	return s, nil
}

// scalarInt decodes a scalar node into an int.
func scalarInt(node *yaml.Node) (int, error) {
	node = deref(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("expected integer value")
	}
	var n int
	if err := node.Decode(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// decodePayload decodes a mapping node into the opaque configuration
// payload handed to a procedure module.
func decodePayload(node *yaml.Node) (map[string]any, error) {
	node = deref(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping node")
	}
	var payload map[string]any
	if err := node.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}
