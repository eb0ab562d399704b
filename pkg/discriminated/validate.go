package discriminated

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a cached validator to avoid recreation on each decode.
var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()
	})
	return validatorInstance
}

// Validate reconstructs a validated *T from data. T must be registered as a
// variant. Discriminator fields present in data are checked against T's
// registered identity (standard fields first when T uses them, else the
// domain tag field); a mismatch fails with *DiscriminatorError. Missing
// discriminator fields are injected before the data is handed to the
// underlying unmarshal/validation step, whose errors propagate unchanged.
func Validate[T any](data map[string]any) (*T, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	variant, ok := DefaultRegistry.variantForType(t)
	if !ok {
		return nil, &RegistrationError{Type: t, Reason: "not registered as a variant"}
	}
	out, err := decode(variant, data)
	if err != nil {
		return nil, err
	}
	return out.(*T), nil
}

// ValidateJSON parses doc and reconstructs a validated *T. Malformed text
// fails with *ParseError before any discriminator handling.
func ValidateJSON[T any](doc []byte) (*T, error) {
	var data map[string]any
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, &ParseError{Err: err}
	}
	return Validate[T](data)
}

// Resolve reconstructs the right variant for data without knowing its type
// up front. The standard fields are consulted first; failing that, the
// domain tag field named by category. With neither present it fails with
// ErrNoDiscriminator. The concrete type comes from the DefaultRegistry.
func Resolve(category string, data map[string]any) (Tagged, error) {
	if catRaw, ok := data[StandardCategoryField]; ok {
		if valRaw, ok := data[StandardValueField]; ok {
			variant, err := DefaultRegistry.Get(stringify(catRaw), stringify(valRaw))
			if err != nil {
				return nil, err
			}
			return variant.Decode(data)
		}
	}
	if raw, ok := data[category]; ok {
		variant, err := DefaultRegistry.Get(category, stringify(raw))
		if err != nil {
			return nil, err
		}
		return variant.Decode(data)
	}
	return nil, ErrNoDiscriminator
}

// ResolveJSON parses doc and dispatches through Resolve.
func ResolveJSON(category string, doc []byte) (Tagged, error) {
	var data map[string]any
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, &ParseError{Err: err}
	}
	return Resolve(category, data)
}

// decode is the shared reconstruction step behind Validate and
// Variant.Decode. data is cloned, never mutated.
func decode(v *Variant, data map[string]any) (any, error) {
	clone := make(map[string]any, len(data)+3)
	for k, val := range data {
		clone[k] = val
	}

	catRaw, hasCat := clone[StandardCategoryField]
	valRaw, hasVal := clone[StandardValueField]
	switch {
	case v.UseStandardFields && hasCat && hasVal:
		if s := stringify(catRaw); s != v.Category {
			return nil, &DiscriminatorError{Field: StandardCategoryField, Expected: v.Category, Actual: s}
		}
		if s := stringify(valRaw); s != v.Value {
			return nil, &DiscriminatorError{Field: StandardValueField, Expected: v.Value, Actual: s}
		}
	default:
		if raw, ok := clone[v.Category]; ok {
			if s := stringify(raw); s != v.Value {
				return nil, &DiscriminatorError{Field: v.Category, Expected: v.Value, Actual: s}
			}
		}
	}

	if _, ok := clone[v.Category]; !ok {
		clone[v.Category] = v.Value
	}
	if v.UseStandardFields {
		if _, ok := clone[StandardCategoryField]; !ok {
			clone[StandardCategoryField] = v.Category
		}
		if _, ok := clone[StandardValueField]; !ok {
			clone[StandardValueField] = v.Value
		}
	}

	raw, err := json.Marshal(clone)
	if err != nil {
		return nil, err
	}
	out := reflect.New(v.Type).Interface()
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	if err := getValidator().Struct(out); err != nil {
		return nil, err
	}
	return out, nil
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
