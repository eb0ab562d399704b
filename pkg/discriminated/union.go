package discriminated

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// Union2 holds exactly one of two variant types. Unlike a bare try-in-order
// union, unmarshaling consults the discriminator fields in the document
// first: a registered variant only matches when its tag agrees, so mis-tagged
// payloads cannot land in the wrong member. Members that are not registered
// variants fall back to unmarshal-then-validate in declaration order.
type Union2[A, B any] struct {
	A *A
	B *B
}

// UnmarshalJSON implements json.Unmarshaler for Union2.
func (u *Union2[A, B]) UnmarshalJSON(data []byte) error {
	u.A = nil
	u.B = nil

	var a A
	if unionDecode(data, &a) {
		u.A = &a
		return nil
	}
	var b B
	if unionDecode(data, &b) {
		u.B = &b
		return nil
	}
	return errors.New("data does not match any of the union variants")
}

// MarshalJSON implements json.Marshaler for Union2. The active member is
// encoded with discriminator fields per the current policy.
func (u Union2[A, B]) MarshalJSON() ([]byte, error) {
	switch {
	case u.A != nil:
		return marshalUnionMember(u.A)
	case u.B != nil:
		return marshalUnionMember(u.B)
	default:
		return nil, errors.New("no value set in union")
	}
}

// Value returns the active member and its type index (0-based), or (nil, -1).
func (u Union2[A, B]) Value() (any, int) {
	switch {
	case u.A != nil:
		return u.A, 0
	case u.B != nil:
		return u.B, 1
	default:
		return nil, -1
	}
}

// Validate checks that exactly one member is set and that it passes the
// underlying validator.
func (u Union2[A, B]) Validate() error {
	value, count := unionActive(u.A, u.B)
	if err := unionCount(count); err != nil {
		return err
	}
	return getValidator().Struct(value)
}

// Union3 holds exactly one of three variant types. See Union2 for the
// matching rules.
type Union3[A, B, C any] struct {
	A *A
	B *B
	C *C
}

// UnmarshalJSON implements json.Unmarshaler for Union3.
func (u *Union3[A, B, C]) UnmarshalJSON(data []byte) error {
	u.A = nil
	u.B = nil
	u.C = nil

	var a A
	if unionDecode(data, &a) {
		u.A = &a
		return nil
	}
	var b B
	if unionDecode(data, &b) {
		u.B = &b
		return nil
	}
	var c C
	if unionDecode(data, &c) {
		u.C = &c
		return nil
	}
	return errors.New("data does not match any of the union variants")
}

// MarshalJSON implements json.Marshaler for Union3.
func (u Union3[A, B, C]) MarshalJSON() ([]byte, error) {
	switch {
	case u.A != nil:
		return marshalUnionMember(u.A)
	case u.B != nil:
		return marshalUnionMember(u.B)
	case u.C != nil:
		return marshalUnionMember(u.C)
	default:
		return nil, errors.New("no value set in union")
	}
}

// Value returns the active member and its type index (0-based), or (nil, -1).
func (u Union3[A, B, C]) Value() (any, int) {
	switch {
	case u.A != nil:
		return u.A, 0
	case u.B != nil:
		return u.B, 1
	case u.C != nil:
		return u.C, 2
	default:
		return nil, -1
	}
}

// Validate checks that exactly one member is set and that it passes the
// underlying validator.
func (u Union3[A, B, C]) Validate() error {
	value, count := unionActive(u.A, u.B, u.C)
	if err := unionCount(count); err != nil {
		return err
	}
	return getValidator().Struct(value)
}

// unionDecode attempts to decode data into target (a pointer to a candidate
// member). Registered variants go through the discriminator-checking decode
// path; anything else is plain unmarshal plus validation.
func unionDecode(data []byte, target any) bool {
	t := reflect.TypeOf(target).Elem()
	if variant, ok := DefaultRegistry.variantForType(t); ok {
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return false
		}
		out, err := decode(variant, m)
		if err != nil {
			return false
		}
		reflect.ValueOf(target).Elem().Set(reflect.ValueOf(out).Elem())
		return true
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false
	}
	if reflect.Indirect(reflect.ValueOf(target)).Kind() == reflect.Struct {
		return getValidator().Struct(target) == nil
	}
	return true
}

func marshalUnionMember(v any) ([]byte, error) {
	if _, ok := VariantOf(v); ok {
		return DumpJSON(v, JSONOptions{})
	}
	return json.Marshal(v)
}

func unionActive(members ...any) (any, int) {
	var value any
	count := 0
	for _, m := range members {
		if m != nil && !reflect.ValueOf(m).IsNil() {
			count++
			value = m
		}
	}
	return value, count
}

func unionCount(count int) error {
	if count == 0 {
		return errors.New("exactly one union option must be set")
	}
	if count > 1 {
		return fmt.Errorf("only one union option can be set, found %d", count)
	}
	return nil
}
