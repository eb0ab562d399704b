package discriminated

import (
	"reflect"
)

// Variant describes one concrete type registered under a (category, value)
// pair. Instances are created by Register and are immutable afterwards.
type Variant struct {
	// Category is the domain-specific tag field name, e.g. "animal_type".
	Category string
	// Value is the discriminator value identifying this variant within its
	// category.
	Value string
	// Type is the variant's struct type.
	Type reflect.Type
	// UseStandardFields controls whether dumps of this variant additionally
	// carry the two standard fields. Resolved once at registration time.
	UseStandardFields bool
}

// Decode reconstructs a validated instance of this variant from data. The
// returned value is a pointer to a fresh struct of the variant's type.
func (v *Variant) Decode(data map[string]any) (Tagged, error) {
	out, err := decode(v, data)
	if err != nil {
		return nil, err
	}
	return out.(Tagged), nil
}

// Registry maps category names to discriminator values to variant
// descriptors, with a reverse index by Go type for dump-time identity lookup.
//
// A Registry is plain map state with no locking: it is meant to be populated
// during program init and read afterwards, matching the package-wide
// concurrency assumptions (see policyState).
type Registry struct {
	categories map[string]map[string]*Variant
	types      map[reflect.Type]*Variant
}

// NewRegistry returns an empty registry. Most callers use DefaultRegistry;
// separate registries exist for tests and tools that need isolation.
func NewRegistry() *Registry {
	return &Registry{
		categories: map[string]map[string]*Variant{},
		types:      map[reflect.Type]*Variant{},
	}
}

// DefaultRegistry is the process-wide registry used by Register, Dump and
// Resolve unless a call opts into another one. Populated at init time, never
// torn down.
var DefaultRegistry = NewRegistry()

// add inserts v, replacing any variant previously registered under the same
// (category, value). Last registration wins; duplicates are not detected.
func (r *Registry) add(v *Variant) {
	byValue, ok := r.categories[v.Category]
	if !ok {
		byValue = map[string]*Variant{}
		r.categories[v.Category] = byValue
	}
	byValue[v.Value] = v
	r.types[v.Type] = v
}

// Get returns the variant registered under (category, value). The returned
// error is a *LookupError naming the unresolved key, so mis-tagged payloads
// can be diagnosed from the message alone.
func (r *Registry) Get(category, value string) (*Variant, error) {
	byValue, ok := r.categories[category]
	if !ok {
		return nil, &LookupError{Category: category}
	}
	v, ok := byValue[value]
	if !ok {
		return nil, &LookupError{Category: category, Value: value}
	}
	return v, nil
}

// Category returns all variants registered under category, keyed by
// discriminator value. Intended for tooling and tests, not the dump path.
func (r *Registry) Category(category string) (map[string]*Variant, error) {
	byValue, ok := r.categories[category]
	if !ok {
		return nil, &LookupError{Category: category}
	}
	out := make(map[string]*Variant, len(byValue))
	for value, v := range byValue {
		out[value] = v
	}
	return out, nil
}

func (r *Registry) variantForType(t reflect.Type) (*Variant, bool) {
	v, ok := r.types[t]
	return v, ok
}

// VariantOf returns the variant descriptor for obj's type, if registered.
// Pointer and value forms of the same type resolve identically.
func (r *Registry) VariantOf(obj any) (*Variant, bool) {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil, false
	}
	v, ok := r.types[t]
	return v, ok
}

// VariantOf looks obj up in the DefaultRegistry.
func VariantOf(obj any) (*Variant, bool) {
	return DefaultRegistry.VariantOf(obj)
}
