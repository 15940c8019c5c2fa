package document

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/resource"
)

// YAMLParser parses YAML resources, one property source per YAML document.
// Nested mappings flatten to dotted keys, sequences to indexed keys
// ("server.hosts[0]"). Key order follows document order.
type YAMLParser struct{}

// NewYAMLParser creates a YAML parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// FileExtensions returns the extensions claimed by this parser.
func (p *YAMLParser) FileExtensions() []string {
	return []string{"yml", "yaml"}
}

// Parse reads every YAML document in the resource. Empty documents are
// dropped.
func (p *YAMLParser) Parse(name string, res resource.Resource) ([]*env.PropertySource, error) {
	rc, err := res.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", res.Location(), err)
	}
	defer func() { _ = rc.Close() }()

	var roots []*yaml.Node
	dec := yaml.NewDecoder(rc)
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parsing %s: %w", res.Location(), err)
		}
		roots = append(roots, &node)
	}

	flats := make([]*flatCollector, 0, len(roots))
	for _, root := range roots {
		c := newFlatCollector()
		walkYAMLNode(c, "", root)
		if len(c.keys) > 0 {
			flats = append(flats, c)
		}
	}

	sources := make([]*env.PropertySource, len(flats))
	for i, c := range flats {
		sources[i] = env.NewMapSource(sourceName(name, i, len(flats)), c.keys, c.values)
	}
	return sources, nil
}

func walkYAMLNode(c *flatCollector, prefix string, node *yaml.Node) {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			walkYAMLNode(c, prefix, child)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			walkYAMLNode(c, joinKey(prefix, key), node.Content[i+1])
		}
	case yaml.SequenceNode:
		for i, child := range node.Content {
			walkYAMLNode(c, fmt.Sprintf("%s[%d]", prefix, i), child)
		}
	case yaml.AliasNode:
		walkYAMLNode(c, prefix, node.Alias)
	case yaml.ScalarNode:
		// A scalar at the top level is not a configuration mapping.
		if prefix == "" {
			return
		}
		c.put(prefix, scalarValue(node))
	}
}

func scalarValue(n *yaml.Node) any {
	var v any
	if err := n.Decode(&v); err != nil {
		return n.Value
	}
	return v
}
