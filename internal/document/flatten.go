package document

import (
	"fmt"
	"sort"
)

// flatCollector accumulates flattened keys in a deterministic order before a
// property source is built from them.
type flatCollector struct {
	keys   []string
	values map[string]any
}

func newFlatCollector() *flatCollector {
	return &flatCollector{values: make(map[string]any)}
}

// put records a key, keeping first-seen position on repeats while the value
// takes the latest write.
func (c *flatCollector) put(key string, v any) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// walkValue flattens decoded Go values (maps, slices, scalars). Map keys are
// sorted so that formats decoded into Go maps produce stable key order.
func walkValue(c *flatCollector, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkValue(c, joinKey(prefix, k), v[k])
		}
	case []map[string]any:
		for i, item := range v {
			walkValue(c, fmt.Sprintf("%s[%d]", prefix, i), item)
		}
	case []any:
		for i, item := range v {
			walkValue(c, fmt.Sprintf("%s[%d]", prefix, i), item)
		}
	default:
		if prefix == "" {
			return
		}
		c.put(prefix, v)
	}
}
