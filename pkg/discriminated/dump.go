package discriminated

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DumpOptions are the structure-shaping knobs consumed by the dump step.
// Text-shaping knobs live in EncodeOptions; the two never mix.
type DumpOptions struct {
	// UseDiscriminators overrides the annotation decision for this call
	// only. nil resolves to true for Aware roots, otherwise to the process
	// default. The override never mutates global state.
	UseDiscriminators *bool
	// Exclude drops the named top-level fields from the result.
	Exclude []string
	// OmitNil recursively drops null-valued mapping entries.
	OmitNil bool
}

func (o DumpOptions) annotate(v any) bool {
	if o.UseDiscriminators != nil {
		return *o.UseDiscriminators
	}
	if _, ok := v.(Aware); ok {
		return true
	}
	return policy.annotateByDefault
}

// Dump converts v to a map with discriminator fields injected per the
// current policy. Equivalent to DumpWith(v, DumpOptions{}).
func Dump(v any) (map[string]any, error) {
	return DumpWith(v, DumpOptions{})
}

// DumpWith converts v to a map: the baseline structural dump is produced by
// the underlying serializer, then the traversal engine re-walks v against it
// and injects discriminator fields. v must be a structured value (a struct,
// a map, or a pointer to one).
func DumpWith(v any, opts DumpOptions) (map[string]any, error) {
	if v == nil {
		return nil, errors.New("cannot dump nil value")
	}
	base, err := baselineDump(v)
	if err != nil {
		// The serializer choked on something in the graph (a channel, a
		// broken Marshaler). Annotation stays best effort: walk the
		// original alone and let the text step surface encoding problems.
		base = nil
	}
	out := Annotate(v, base, opts.annotate(v))
	m, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("value of type %T is not a structured object", v)
	}
	for _, name := range opts.Exclude {
		delete(m, name)
	}
	if opts.OmitNil {
		dropNils(m)
	}
	return m, nil
}

// baselineDump produces the black-box structural form of v: the serializer
// owns scalar encodings and field visibility, the engine only decorates.
// Serializer failures propagate unchanged apart from context.
func baselineDump(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("baseline dump: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("baseline dump: %w", err)
	}
	return out, nil
}

func dropNils(m map[string]any) {
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			dropNils(t)
		case []any:
			dropNilsList(t)
		}
	}
}

func dropNilsList(list []any) {
	for _, v := range list {
		switch t := v.(type) {
		case map[string]any:
			dropNils(t)
		case []any:
			dropNilsList(t)
		}
	}
}
