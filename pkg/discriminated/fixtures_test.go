package discriminated

// Shared variant fixtures. Categories used by other test files live here so
// the process-wide registry is populated exactly once.

type testDog struct {
	Model
	Name  string `json:"name" validate:"required"`
	Breed string `json:"breed"`
}

type testCat struct {
	Model
	Name      string `json:"name" validate:"required"`
	LivesLeft int    `json:"lives_left"`
}

// testCat opts out of the standard fields at the type level.
func (testCat) UseStandardFields() bool { return false }

type testBird struct {
	Model
	Name   string `json:"name" validate:"required"`
	CanFly bool   `json:"can_fly"`
}

var (
	_ = MustRegister[testDog]("animal_type", "dog")
	_ = MustRegister[testCat]("animal_type", "cat")
	_ = MustRegister[testBird]("animal_type", "bird")
)

// testShelter is a plain container: dumps of it follow the process default.
type testShelter struct {
	Name    string `json:"name"`
	Animals []any  `json:"animals"`
}

// testAwareShelter always dumps with discriminators unless explicitly told
// not to.
type testAwareShelter struct {
	AwareModel
	Name    string `json:"name"`
	Animals []any  `json:"animals"`
}

func sampleDog() testDog {
	return testDog{Name: "Rex", Breed: "German Shepherd"}
}

func sampleCat() testCat {
	return testCat{Name: "Whiskers", LivesLeft: 9}
}
