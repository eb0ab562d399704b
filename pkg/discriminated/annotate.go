package discriminated

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Annotate walks original alongside serialized, its already-dumped baseline
// form, and returns a fresh structure with discriminator fields injected
// wherever a registered variant appears. original supplies the type
// information the baseline has lost; serialized supplies the black-box
// scalar encodings. Neither input is mutated.
//
// When useDiscriminators is false no tag or standard fields are emitted at
// any level, regardless of each variant's own standard-fields flag.
//
// Annotation is best effort: a node the walker cannot make sense of passes
// through unchanged, and any fault while probing an unfamiliar value is
// swallowed rather than aborting the whole dump.
func Annotate(original, serialized any, useDiscriminators bool) any {
	return annotateValue(reflect.ValueOf(original), serialized, useDiscriminators)
}

func annotateValue(v reflect.Value, serialized any, on bool) (out any) {
	defer func() {
		if recover() != nil {
			out = passthrough(v, serialized)
		}
	}()

	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return serialized
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return serialized
	}

	if obj := safeInterface(v); obj != nil {
		if _, ok := obj.(Tagged); ok {
			return annotateTagged(v, obj, serialized, on)
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		// Types with their own wire encoding (time.Time and friends) keep
		// their baseline form; walking their fields would change the output.
		if hasCustomMarshaler(v.Type()) {
			return passthrough(v, serialized)
		}
		return annotateFields(v, serialized, on)
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			// Byte slices encode as base64 scalars, not element lists.
			return passthrough(v, serialized)
		}
		return annotateList(v, serialized, on)
	case reflect.Map:
		return annotateMap(v, serialized, on)
	default:
		return passthrough(v, serialized)
	}
}

// annotateTagged rebuilds a variant instance as a fresh map from its own
// declared fields, then appends the discriminator fields. The baseline map
// for this node is consulted per field but its shape is not trusted: a
// shallow baseline would not have annotated nested variants.
func annotateTagged(v reflect.Value, obj any, serialized any, on bool) map[string]any {
	out := annotateFields(v, serialized, on)
	if !on {
		return out
	}
	variant, ok := DefaultRegistry.VariantOf(obj)
	if !ok {
		// Embeds Model but was never registered; nothing to inject.
		return out
	}
	out[variant.Category] = variant.Value
	if variant.UseStandardFields {
		out[StandardCategoryField] = variant.Category
		out[StandardValueField] = variant.Value
	}
	return out
}

func annotateFields(v reflect.Value, serialized any, on bool) map[string]any {
	out := make(map[string]any, v.NumField())
	base, _ := serialized.(map[string]any)
	collectFields(v, base, out, on)
	return out
}

func collectFields(v reflect.Value, base, out map[string]any, on bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Tag.Get("json") == "" {
			// Untagged embedded structs flatten into the parent, matching
			// the baseline dump. Marker embeds contribute no fields.
			ft := f.Type
			inner := v.Field(i)
			if ft.Kind() == reflect.Pointer {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(inner, base, out, on)
				continue
			}
		}
		if f.PkgPath != "" {
			continue // unexported
		}
		name, opts := jsonFieldName(f)
		if name == "-" {
			continue
		}
		fv := v.Field(i)
		if opts.omitempty && isEmptyValue(fv) {
			continue
		}
		var sub any
		if base != nil {
			sub = base[name]
		}
		out[name] = annotateValue(fv, sub, on)
	}
}

func annotateList(v reflect.Value, serialized any, on bool) []any {
	base, _ := serialized.([]any)
	out := make([]any, v.Len())
	for i := 0; i < v.Len(); i++ {
		var sub any
		if i < len(base) {
			sub = base[i]
		}
		out[i] = annotateValue(v.Index(i), sub, on)
	}
	return out
}

func annotateMap(v reflect.Value, serialized any, on bool) map[string]any {
	base, _ := serialized.(map[string]any)
	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key := mapKey(iter.Key())
		var sub any
		if base != nil {
			sub = base[key]
		}
		out[key] = annotateValue(iter.Value(), sub, on)
	}
	return out
}

func mapKey(k reflect.Value) string {
	for k.Kind() == reflect.Interface || k.Kind() == reflect.Pointer {
		if k.IsNil() {
			return "<nil>"
		}
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(safeInterface(k))
}

// passthrough prefers the baseline encoding of a node and falls back to the
// original value itself.
func passthrough(v reflect.Value, serialized any) any {
	if serialized != nil {
		return serialized
	}
	return safeInterface(v)
}

func safeInterface(v reflect.Value) (out any) {
	defer func() {
		_ = recover()
	}()
	if v.IsValid() && v.CanInterface() {
		return v.Interface()
	}
	return nil
}

func hasCustomMarshaler(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) ||
		reflect.PointerTo(t).Implements(jsonMarshalerType) ||
		t.Implements(textMarshalerType) ||
		reflect.PointerTo(t).Implements(textMarshalerType)
}

type fieldOptions struct {
	omitempty bool
}

func jsonFieldName(f reflect.StructField) (string, fieldOptions) {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name, fieldOptions{}
	}
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = f.Name
	}
	var opts fieldOptions
	for _, p := range parts[1:] {
		if p == "omitempty" {
			opts.omitempty = true
		}
	}
	return name, opts
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
