package discriminated

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// EncodeOptions are the text-shaping knobs consumed by the JSON encoder.
// They never influence the structure of the dumped mapping.
type EncodeOptions struct {
	// Indent is the per-level indentation string. Empty means compact
	// single-line output.
	Indent string
	// EscapeHTML escapes <, > and & in strings.
	EscapeHTML bool
	// Encoder stringifies a value the JSON encoder cannot represent. When
	// nil, unencodable values fail the call.
	Encoder func(v any) (any, error)
}

// JSONOptions is the fixed partition of dump-to-text configuration: the
// structural half goes to the dump step, the textual half to the encoder.
type JSONOptions struct {
	Dump   DumpOptions
	Encode EncodeOptions
}

// DumpJSON converts v to annotated JSON text. The per-call discriminator
// switch lives in opts.Dump and is consumed entirely by the dump step; the
// encoder only ever sees the finished mapping. Map keys encode in sorted
// order.
func DumpJSON(v any, opts JSONOptions) ([]byte, error) {
	m, err := DumpWith(v, opts.Dump)
	if err != nil {
		return nil, err
	}
	tree := any(m)
	if opts.Encode.Encoder != nil {
		tree, err = applyEncoder(tree, opts.Encode.Encoder)
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(opts.Encode.EscapeHTML)
	if opts.Encode.Indent != "" {
		enc.SetIndent("", opts.Encode.Indent)
	}
	if err := enc.Encode(tree); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DumpYAML converts v to annotated YAML text.
func DumpYAML(v any, opts DumpOptions) ([]byte, error) {
	m, err := DumpWith(v, opts)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(m)
}

// applyEncoder rewrites leaves the JSON encoder would reject through the
// caller's hook. Containers are rebuilt, not mutated.
func applyEncoder(v any, encode func(any) (any, error)) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			converted, err := applyEncoder(val, encode)
			if err != nil {
				return nil, err
			}
			out[k] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			converted, err := applyEncoder(val, encode)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		if _, err := json.Marshal(v); err != nil {
			return encode(v)
		}
		return v, nil
	}
}
