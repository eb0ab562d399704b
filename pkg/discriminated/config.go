// Package discriminated adds discriminator support to plain Go structs:
// variant types register a (category, value) tag, and dumps of any structure
// containing them carry that tag at every nesting level.
package discriminated

// Standard auxiliary field names emitted alongside the domain-specific tag
// field when a variant's standard-fields flag is on.
const (
	StandardCategoryField = "discriminator_category"
	StandardValueField    = "discriminator_value"
)

// policyState holds the process-wide serialization defaults. It is plain state
// with no locking: registration and policy flips are expected to happen on
// one logical thread (typically during program init), or under external
// synchronization. A dump in flight while a flag is flipped may observe
// either value.
type policyState struct {
	annotateByDefault     bool
	standardFieldsDefault bool
}

var policy = policyState{
	annotateByDefault:     true,
	standardFieldsDefault: true,
}

// EnableDefaultAnnotation makes Dump include discriminator fields when the
// call does not say otherwise. This is the process default. Idempotent.
func EnableDefaultAnnotation() {
	policy.annotateByDefault = true
}

// DisableDefaultAnnotation makes Dump omit discriminator fields when the
// call does not say otherwise. Aware containers and explicit per-call
// overrides are unaffected. Idempotent.
func DisableDefaultAnnotation() {
	policy.annotateByDefault = false
}

// DefaultAnnotationEnabled reports the current process default.
func DefaultAnnotationEnabled() bool {
	return policy.annotateByDefault
}

// SetStandardFieldsDefault sets the default consulted when a variant is
// registered without a per-type or per-registration standard-fields choice.
// It only affects future registrations; already-registered variants keep
// their frozen flag.
func SetStandardFieldsDefault(use bool) {
	policy.standardFieldsDefault = use
}

// StandardFieldsDefault reports the current registration-time default.
func StandardFieldsDefault() bool {
	return policy.standardFieldsDefault
}

// Bool returns a pointer to b. Convenience for DumpOptions.UseDiscriminators.
func Bool(b bool) *bool { return &b }
