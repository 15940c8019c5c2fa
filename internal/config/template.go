package config

// DefaultConfigTemplate returns a commented starter configuration. Values
// match Defaults so an untouched file behaves the same as no file at all.
func DefaultConfigTemplate() string {
	return `# Strata configuration.
#
# This file configures the strata tool itself. The layered application
# configuration that strata resolves is described by your registry and
# config documents, not here.

# Structured logging
logging:
  level: info # debug | info | warn | error
  # file: /path/to/strata.log

# Run history, recorded after each resolution
history:
  enabled: true
  # path: ~/.config/strata/history.db
  keep: 50 # runs retained when pruning

# Distributed tracing
tracing:
  enabled: false
  exporter: file # none | file | stdout | otlp
  # file_path: ~/.config/strata/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0

# Watch mode
watch:
  debounce_ms: 400 # batch window for file events before re-resolving

# Report output
output:
  format: text # text | json
  verbose: false # include per-key source attribution

# Feature flags
# flags:
#   no-doc-cache: true # bypass the parsed-document cache
#   trace-documents: true # log each resource load attempt
`
}
