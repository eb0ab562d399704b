package discriminated

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoDiscriminator is returned by Resolve when the data carries neither the
// standard fields nor the domain-specific tag field.
var ErrNoDiscriminator = errors.New("no discriminator fields found in data")

// LookupError reports a failed registry lookup. Value is empty when the
// category itself is unknown.
type LookupError struct {
	Category string
	Value    string
}

func (e *LookupError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("no variants registered for category %q", e.Category)
	}
	return fmt.Sprintf("no variant found for value %q in category %q", e.Value, e.Category)
}

// DiscriminatorError reports a discriminator field whose value does not match
// the variant being reconstructed.
type DiscriminatorError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *DiscriminatorError) Error() string {
	return fmt.Sprintf("invalid discriminator in field %q: expected %q, got %q", e.Field, e.Expected, e.Actual)
}

// RegistrationError reports an attempt to register a type that cannot act as
// a discriminated variant.
type RegistrationError struct {
	Type   reflect.Type
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("cannot register %s as a variant: %s", e.Type, e.Reason)
}

// ParseError reports malformed text handed to a JSON entry point before
// reconstruction.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
