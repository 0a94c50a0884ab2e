package match

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wandermate/nearby/internal/profile"
)

func intPtr(v int) *int { return &v }

// birthDateFor returns an RFC3339 birth date for someone turning age
// half a year ago, so the derived age is stable around the test run.
func birthDateFor(age int) string {
	return time.Now().AddDate(-age, -6, 0).Format(time.RFC3339)
}

func TestKeepEmptyCriteriaIsPermissive(t *testing.T) {
	profiles := []profile.TravelerProfile{
		{ID: "full", Age: intPtr(30), Gender: "Female", OriginCountryCode: "CR", TravelStyle: "Backpacker", Interests: []string{"hiking"}},
		{ID: "bare"},
		{ID: "broken-date", BirthDate: "not a date"},
	}

	for _, p := range profiles {
		assert.True(t, Keep(p, Criteria{}), "empty criteria must keep %q", p.ID)
	}
}

func TestKeepAge(t *testing.T) {
	criteria := Criteria{MinAge: intPtr(25), MaxAge: intPtr(35)}

	t.Run("within range kept", func(t *testing.T) {
		assert.True(t, Keep(profile.TravelerProfile{Age: intPtr(30)}, criteria))
	})

	t.Run("above range dropped", func(t *testing.T) {
		assert.False(t, Keep(profile.TravelerProfile{Age: intPtr(40)}, criteria))
	})

	t.Run("unparseable birth date fails closed", func(t *testing.T) {
		p := profile.TravelerProfile{BirthDate: "yesterday-ish"}
		assert.False(t, Keep(p, criteria))
		assert.True(t, Keep(p, Criteria{}), "no age criteria never excludes the same candidate")
	})

	t.Run("missing age fails closed", func(t *testing.T) {
		assert.False(t, Keep(profile.TravelerProfile{}, Criteria{MinAge: intPtr(21)}))
	})

	t.Run("derives age from birth date", func(t *testing.T) {
		p := profile.TravelerProfile{BirthDate: birthDateFor(30)}
		assert.True(t, Keep(p, criteria))
	})

	t.Run("bounds are optional independently", func(t *testing.T) {
		assert.True(t, Keep(profile.TravelerProfile{Age: intPtr(70)}, Criteria{MinAge: intPtr(21)}))
		assert.True(t, Keep(profile.TravelerProfile{Age: intPtr(18)}, Criteria{MaxAge: intPtr(21)}))
	})
}

func TestDeriveAgeFormats(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		raw   string
		age   int
		valid bool
	}{
		{"fractional second timestamp", "1996-03-15T00:00:00.000Z", 30, true},
		{"rfc3339", "1996-03-15T00:00:00Z", 30, true},
		{"date only", "1996-03-15", 30, true},
		{"birthday not yet reached", "1996-12-25", 29, true},
		{"garbage", "born in the 90s", 0, false},
		{"empty", "", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			age, ok := deriveAge(profile.TravelerProfile{BirthDate: tc.raw}, now)
			assert.Equal(t, tc.valid, ok)
			if tc.valid {
				assert.Equal(t, tc.age, age)
			}
		})
	}

	t.Run("precomputed age wins over birth date", func(t *testing.T) {
		p := profile.TravelerProfile{Age: intPtr(44), BirthDate: "1996-03-15"}
		age, ok := deriveAge(p, now)
		assert.True(t, ok)
		assert.Equal(t, 44, age)
	})
}

func TestKeepOrigin(t *testing.T) {
	criteria := Criteria{OriginCountryCode: "cr"}

	assert.True(t, Keep(profile.TravelerProfile{OriginCountryCode: "CR"}, criteria))
	assert.False(t, Keep(profile.TravelerProfile{OriginCountryCode: "US"}, criteria))
	assert.False(t, Keep(profile.TravelerProfile{}, criteria), "missing origin fails closed")
	assert.True(t, Keep(profile.TravelerProfile{}, Criteria{}), "no origin criteria skips the dimension")
}

func TestKeepGender(t *testing.T) {
	t.Run("case-insensitive match", func(t *testing.T) {
		assert.True(t, Keep(profile.TravelerProfile{Gender: "female"}, Criteria{Gender: "Female"}))
		assert.False(t, Keep(profile.TravelerProfile{Gender: "Male"}, Criteria{Gender: "Female"}))
	})

	t.Run("wildcard passes everything", func(t *testing.T) {
		for _, g := range []string{"Female", "Male", "Non-binary", ""} {
			assert.True(t, Keep(profile.TravelerProfile{Gender: g}, Criteria{Gender: GenderAll}),
				"gender %q must pass the All wildcard", g)
			assert.True(t, Keep(profile.TravelerProfile{Gender: g}, Criteria{Gender: "all"}))
		}
	})

	t.Run("missing gender fails closed against a concrete criteria", func(t *testing.T) {
		assert.False(t, Keep(profile.TravelerProfile{}, Criteria{Gender: "Female"}))
	})
}

func TestKeepTravelStyle(t *testing.T) {
	assert.True(t, Keep(profile.TravelerProfile{TravelStyle: "Backpacker"}, Criteria{TravelStyle: " backpacker "}))
	assert.False(t, Keep(profile.TravelerProfile{TravelStyle: "Luxury"}, Criteria{TravelStyle: "Backpacker"}))
	assert.False(t, Keep(profile.TravelerProfile{}, Criteria{TravelStyle: "Backpacker"}))

	t.Run("whitespace-only criteria is unset", func(t *testing.T) {
		assert.True(t, Keep(profile.TravelerProfile{}, Criteria{TravelStyle: "   "}))
	})
}

func TestKeepInterests(t *testing.T) {
	p := profile.TravelerProfile{Interests: []string{"Hiking", "street food"}}

	assert.True(t, Keep(p, Criteria{Interests: []string{"hiking", "surfing"}}), "one common tag is enough")
	assert.False(t, Keep(p, Criteria{Interests: []string{"surfing"}}))
	assert.True(t, Keep(p, Criteria{Interests: nil}))
	assert.True(t, Keep(profile.TravelerProfile{}, Criteria{Interests: []string{"", "  "}}),
		"blank-only tags mean the dimension is inactive")
	assert.False(t, Keep(profile.TravelerProfile{}, Criteria{Interests: []string{"hiking"}}),
		"empty profile interest set fails a non-empty criteria")
}

func TestKeepDimensionsAreANDed(t *testing.T) {
	p := profile.TravelerProfile{
		Age:               intPtr(30),
		OriginCountryCode: "CR",
		Gender:            "Female",
		TravelStyle:       "Backpacker",
		Interests:         []string{"hiking"},
	}

	full := Criteria{
		MinAge:            intPtr(25),
		MaxAge:            intPtr(35),
		OriginCountryCode: "CR",
		Gender:            "Female",
		TravelStyle:       "Backpacker",
		Interests:         []string{"hiking"},
	}
	assert.True(t, Keep(p, full))

	failing := full
	failing.OriginCountryCode = "US"
	assert.False(t, Keep(p, failing), "one failing dimension drops the candidate")
}

func TestApplyKeepsOrderAndIndexes(t *testing.T) {
	profiles := make([]profile.TravelerProfile, 5)
	for i := range profiles {
		profiles[i] = profile.TravelerProfile{ID: fmt.Sprintf("u%d", i), Age: intPtr(20 + i*5)}
	}

	kept, indexes := Apply(profiles, Criteria{MinAge: intPtr(25), MaxAge: intPtr(35)})

	assert.Equal(t, []int{1, 2, 3}, indexes)
	assert.Len(t, kept, 3)
	assert.Equal(t, "u1", kept[0].ID)
	assert.Equal(t, "u3", kept[2].ID)
}

func TestCriteriaIsEmpty(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{Gender: "All", TravelStyle: " ", Interests: []string{""}}.IsEmpty())
	assert.False(t, Criteria{MinAge: intPtr(18)}.IsEmpty())
	assert.False(t, Criteria{Gender: "Female"}.IsEmpty())
}
