package discriminated

// Model marks a struct type as a discriminated variant. Embed it in every
// type passed to Register; registration is rejected for types that do not
// carry it. The marker holds no state: a variant's identity (category,
// discriminator value, standard-fields flag) is fixed by its Go type at
// registration time and looked up through the registry, so it can never be
// overwritten after construction.
type Model struct{}

func (Model) taggedVariant() {}

// Tagged is the capability interface satisfied by types embedding Model.
type Tagged interface {
	taggedVariant()
}

// AwareModel marks a container type as discriminator-aware: dumps of it
// include discriminator fields regardless of the process default, unless the
// call explicitly passes UseDiscriminators=false. Embed it in container
// structs that must always emit tags.
type AwareModel struct{}

func (AwareModel) discriminatorAware() {}

// Aware is the capability interface satisfied by types embedding AwareModel.
type Aware interface {
	discriminatorAware()
}

// StandardFieldser is implemented by variant types that fix their
// standard-fields policy at the type level. A per-registration
// WithStandardFields option still takes precedence.
type StandardFieldser interface {
	UseStandardFields() bool
}
