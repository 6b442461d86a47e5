// YAML codec for context dump files.
package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/satchel/pkg/store"
)

// loadContextDump reads a YAML dump and builds a Context from it. Top-level
// keys must be fixed container names.
func loadContextDump(path string) (*store.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump %s: %w", path, err)
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode dump %s: %w", path, err)
	}

	ctx, err := store.FromMap(normalizeKeys(m))
	if err != nil {
		return nil, fmt.Errorf("dump %s: %w", path, err)
	}
	return ctx, nil
}

// writeContextDump exports a Context and writes it as YAML.
func writeContextDump(ctx *store.Context, path string) error {
	data, err := yaml.Marshal(ctx.Export())
	if err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dump %s: %w", path, err)
	}
	return nil
}

// normalizeKeys coerces decoded YAML mappings to string-keyed form so they
// satisfy the store's plain-mapping shape.
func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeKeys(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	}
	return v
}
