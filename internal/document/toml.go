package document

import (
	"fmt"
	"io"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/resource"
)

// TOMLParser parses TOML resources. TOML has no multi-document form, so a
// non-empty file yields exactly one property source. Tables flatten to dotted
// keys with alphabetical ordering (TOML table order carries no meaning).
type TOMLParser struct{}

// NewTOMLParser creates a TOML parser.
func NewTOMLParser() *TOMLParser {
	return &TOMLParser{}
}

// FileExtensions returns the extensions claimed by this parser.
func (p *TOMLParser) FileExtensions() []string {
	return []string{"toml"}
}

// Parse reads the whole resource. An empty file yields zero documents.
func (p *TOMLParser) Parse(name string, res resource.Resource) ([]*env.PropertySource, error) {
	rc, err := res.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", res.Location(), err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", res.Location(), err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", res.Location(), err)
	}

	c := newFlatCollector()
	walkValue(c, "", raw)
	if len(c.keys) == 0 {
		return nil, nil
	}
	return []*env.PropertySource{env.NewMapSource(name, c.keys, c.values)}, nil
}
