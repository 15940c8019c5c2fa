package document

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/resource"
)

// PropertiesParser parses java-style .properties files: one key per line,
// '=' or ':' separated, '#' and '!' comments. Always a single document.
type PropertiesParser struct{}

// NewPropertiesParser creates a properties parser.
func NewPropertiesParser() *PropertiesParser {
	return &PropertiesParser{}
}

// FileExtensions returns the extensions claimed by this parser.
func (p *PropertiesParser) FileExtensions() []string {
	return []string{"properties"}
}

// Parse reads the resource line by line. An empty file yields zero documents.
func (p *PropertiesParser) Parse(name string, res resource.Resource) ([]*env.PropertySource, error) {
	rc, err := res.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", res.Location(), err)
	}
	defer func() { _ = rc.Close() }()

	c := newFlatCollector()
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		key, value := splitPropertyLine(line)
		if key == "" {
			continue
		}
		c.put(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", res.Location(), err)
	}

	if len(c.keys) == 0 {
		return nil, nil
	}
	return []*env.PropertySource{env.NewMapSource(name, c.keys, c.values)}, nil
}

// splitPropertyLine splits at the first unescaped '=' or ':'. A line without
// a separator is a bare key with an empty value.
func splitPropertyLine(line string) (key, value string) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '=', ':':
			return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
		}
	}
	return strings.TrimSpace(line), ""
}
