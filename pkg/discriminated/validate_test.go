package discriminated

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRoundTrip(t *testing.T) {
	withAnnotationDefault(t, true)

	data := map[string]any{"name": "Rex", "breed": "German Shepherd"}

	first, err := Validate[testDog](data)
	require.NoError(t, err)
	assert.Equal(t, "Rex", first.Name)

	dumped, err := Dump(*first)
	require.NoError(t, err)
	assert.Equal(t, "dog", dumped["animal_type"])

	second, err := Validate[testDog](dumped)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	v, ok := VariantOf(*second)
	require.True(t, ok)
	assert.Equal(t, "dog", v.Value)
}

func TestValidateInjectsMissingDiscriminators(t *testing.T) {
	data := map[string]any{"name": "Whiskers", "lives_left": 3}
	cat, err := Validate[testCat](data)
	require.NoError(t, err)
	assert.Equal(t, 3, cat.LivesLeft)

	// The input mapping stays untouched.
	assert.NotContains(t, data, "animal_type")
}

func TestValidateMismatchRejection(t *testing.T) {
	data := map[string]any{"name": "Rex", "animal_type": "cat"}

	_, err := Validate[testDog](data)
	require.Error(t, err)

	var discErr *DiscriminatorError
	require.True(t, errors.As(err, &discErr))
	assert.Equal(t, "dog", discErr.Expected)
	assert.Equal(t, "cat", discErr.Actual)
	assert.Contains(t, err.Error(), "dog")
	assert.Contains(t, err.Error(), "cat")
}

func TestValidateStandardFieldMismatch(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{
			name: "wrong category",
			data: map[string]any{
				"name":                "Rex",
				StandardCategoryField: "message_type",
				StandardValueField:    "dog",
			},
		},
		{
			name: "wrong value",
			data: map[string]any{
				"name":                "Rex",
				StandardCategoryField: "animal_type",
				StandardValueField:    "bird",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate[testDog](tt.data)
			var discErr *DiscriminatorError
			require.True(t, errors.As(err, &discErr), "got %v", err)
		})
	}
}

func TestValidateJSON(t *testing.T) {
	dog, err := ValidateJSON[testDog]([]byte(`{"name": "Rex", "breed": "GSD"}`))
	require.NoError(t, err)
	assert.Equal(t, "GSD", dog.Breed)

	_, err = ValidateJSON[testDog]([]byte(`{invalid`))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestValidateUnderlyingValidatorPropagates(t *testing.T) {
	_, err := Validate[testDog](map[string]any{"breed": "GSD"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs), "expected the validator's own error, got %T", err)
}

func TestValidateUnregisteredType(t *testing.T) {
	type unknownVariant struct {
		Model
		Name string `json:"name"`
	}
	_, err := Validate[unknownVariant](map[string]any{"name": "x"})

	var regErr *RegistrationError
	require.True(t, errors.As(err, &regErr))
}

func TestResolve(t *testing.T) {
	t.Run("by standard fields", func(t *testing.T) {
		obj, err := Resolve("animal_type", map[string]any{
			"name":                "Rex",
			StandardCategoryField: "animal_type",
			StandardValueField:    "dog",
		})
		require.NoError(t, err)
		dog, ok := obj.(*testDog)
		require.True(t, ok, "got %T", obj)
		assert.Equal(t, "Rex", dog.Name)
	})

	t.Run("by domain field", func(t *testing.T) {
		obj, err := Resolve("animal_type", map[string]any{
			"name":        "Whiskers",
			"animal_type": "cat",
		})
		require.NoError(t, err)
		_, ok := obj.(*testCat)
		require.True(t, ok, "got %T", obj)
	})

	t.Run("no discriminator fields", func(t *testing.T) {
		_, err := Resolve("animal_type", map[string]any{"name": "Rex"})
		assert.ErrorIs(t, err, ErrNoDiscriminator)
	})

	t.Run("unknown value", func(t *testing.T) {
		_, err := Resolve("animal_type", map[string]any{
			"name":        "Nemo",
			"animal_type": "fish",
		})
		var lookupErr *LookupError
		require.True(t, errors.As(err, &lookupErr))
		assert.Contains(t, err.Error(), "fish")
		assert.Contains(t, err.Error(), "animal_type")
	})
}

func TestResolveJSON(t *testing.T) {
	obj, err := ResolveJSON("animal_type", []byte(`{"name": "Tweety", "animal_type": "bird", "can_fly": true}`))
	require.NoError(t, err)
	bird, ok := obj.(*testBird)
	require.True(t, ok, "got %T", obj)
	assert.True(t, bird.CanFly)

	_, err = ResolveJSON("animal_type", []byte(`not json`))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestVariantDecode(t *testing.T) {
	v, err := DefaultRegistry.Get("animal_type", "dog")
	require.NoError(t, err)

	obj, err := v.Decode(map[string]any{"name": "Rex"})
	require.NoError(t, err)
	dog, ok := obj.(*testDog)
	require.True(t, ok)
	assert.Equal(t, "Rex", dog.Name)
}
