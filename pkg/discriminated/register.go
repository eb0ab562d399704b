package discriminated

import (
	"reflect"
	"strings"
)

var taggedType = reflect.TypeOf((*Tagged)(nil)).Elem()

type registerOptions struct {
	useStandardFields *bool
	registry          *Registry
}

// RegisterOption customizes a single registration.
type RegisterOption func(*registerOptions)

// WithStandardFields overrides the standard-fields policy for this
// registration, taking precedence over both the type-level StandardFieldser
// choice and the process default.
func WithStandardFields(use bool) RegisterOption {
	return func(o *registerOptions) {
		o.useStandardFields = &use
	}
}

// WithRegistry registers the variant into r instead of DefaultRegistry.
func WithRegistry(r *Registry) RegisterOption {
	return func(o *registerOptions) {
		o.registry = r
	}
}

// Register declares T as the variant identified by value within category.
// T must be a struct type embedding Model. The standard-fields flag is frozen
// now, resolved in priority order: WithStandardFields option, then T's
// StandardFieldser implementation, then the process default.
//
// Registering a second type under the same (category, value) silently
// replaces the first. Callers who need duplicate detection should guard
// registration themselves.
func Register[T any](category, value string, opts ...RegisterOption) (*Variant, error) {
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, &RegistrationError{Type: t, Reason: "not a struct type"}
	}
	if !reflect.PointerTo(t).Implements(taggedType) {
		return nil, &RegistrationError{Type: t, Reason: "does not embed discriminated.Model"}
	}

	useStandard := policy.standardFieldsDefault
	var zero T
	if sf, ok := any(zero).(StandardFieldser); ok {
		useStandard = sf.UseStandardFields()
	}
	if o.useStandardFields != nil {
		useStandard = *o.useStandardFields
	}

	v := &Variant{
		Category:          category,
		Value:             value,
		Type:              t,
		UseStandardFields: useStandard,
	}
	registry := o.registry
	if registry == nil {
		registry = DefaultRegistry
	}
	registry.add(v)
	return v, nil
}

// MustRegister is Register but panics on error. Intended for package-level
// variant declarations, where a bad registration is a programming error.
func MustRegister[T any](category, value string, opts ...RegisterOption) *Variant {
	v, err := Register[T](category, value, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// RegisterValue declares T under a category derived from the value's own
// named string type: the type name, lowered. For
//
//	type AnimalType string
//
// RegisterValue[Dog](AnimalType("dog")) registers under category
// "animaltype" with value "dog".
func RegisterValue[T any, V ~string](value V, opts ...RegisterOption) (*Variant, error) {
	category := strings.ToLower(reflect.TypeOf((*V)(nil)).Elem().Name())
	return Register[T](category, string(value), opts...)
}

// MustRegisterValue is RegisterValue but panics on error.
func MustRegisterValue[T any, V ~string](value V, opts ...RegisterOption) *Variant {
	v, err := RegisterValue[T, V](value, opts...)
	if err != nil {
		panic(err)
	}
	return v
}
