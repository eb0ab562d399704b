package discriminated

import (
	"encoding/json"
	"testing"
)

func TestUnion2DiscriminatorDirected(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantA   bool
		wantB   bool
		wantErr bool
	}{
		{
			name:  "tag selects second member",
			json:  `{"name": "Whiskers", "lives_left": 9, "animal_type": "cat"}`,
			wantB: true,
		},
		{
			name:  "tag selects first member",
			json:  `{"name": "Rex", "animal_type": "dog"}`,
			wantA: true,
		},
		{
			name:  "no tag falls back to declaration order",
			json:  `{"name": "Rex"}`,
			wantA: true,
		},
		{
			name:    "tag matches neither member",
			json:    `{"name": "Tweety", "animal_type": "fish"}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			json:    `{invalid}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u Union2[testDog, testCat]
			err := json.Unmarshal([]byte(tt.json), &u)

			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantA && u.A == nil {
				t.Error("expected A to be set")
			}
			if tt.wantB && u.B == nil {
				t.Error("expected B to be set")
			}
		})
	}
}

func TestUnion2Marshal(t *testing.T) {
	withAnnotationDefault(t, true)

	u := Union2[testDog, testCat]{B: &testCat{Name: "Whiskers", LivesLeft: 9}}
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["animal_type"] != "cat" {
		t.Errorf("active member should carry its tag, got %v", m)
	}

	var empty Union2[testDog, testCat]
	if _, err := json.Marshal(empty); err == nil {
		t.Error("marshaling an empty union should fail")
	}
}

func TestUnion3RoundTrip(t *testing.T) {
	withAnnotationDefault(t, true)

	orig := Union3[testDog, testCat, testBird]{C: &testBird{Name: "Tweety", CanFly: true}}
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var u Union3[testDog, testCat, testBird]
	if err := json.Unmarshal(data, &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.C == nil || !u.C.CanFly {
		t.Errorf("round trip lost the active member: %+v", u)
	}

	value, idx := u.Value()
	if idx != 2 || value == nil {
		t.Errorf("Value() = %v, %d", value, idx)
	}
}

func TestUnionValidate(t *testing.T) {
	u := Union2[testDog, testCat]{A: &testDog{Name: "Rex"}}
	if err := u.Validate(); err != nil {
		t.Errorf("valid member should pass: %v", err)
	}

	var empty Union2[testDog, testCat]
	if err := empty.Validate(); err == nil {
		t.Error("empty union should fail validation")
	}

	both := Union2[testDog, testCat]{
		A: &testDog{Name: "Rex"},
		B: &testCat{Name: "Whiskers"},
	}
	if err := both.Validate(); err == nil {
		t.Error("doubly-set union should fail validation")
	}

	invalid := Union2[testDog, testCat]{A: &testDog{}}
	if err := invalid.Validate(); err == nil {
		t.Error("member failing the validator should fail")
	}
}
