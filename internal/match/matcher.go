// Package match evaluates filter criteria against traveler profiles.
//
// Each dimension is evaluated independently and the results are ANDed.
// The precedence per dimension is fixed: an absent criteria field skips
// the dimension entirely; a present criteria field with a missing or
// unparseable profile attribute rejects the candidate (fail-closed).
// The two cases must never be conflated — "no criteria" and "no data"
// are different answers.
package match

import (
	"strings"
	"time"

	"github.com/wandermate/nearby/internal/profile"
)

// birthDateFormats are tried in order when deriving an age from a raw
// birth date string. None parsing means no derivable age.
var birthDateFormats = []string{
	"2006-01-02T15:04:05.000Z",
	time.RFC3339,
	"2006-01-02",
}

// Keep reports whether p passes every active dimension of c.
func Keep(p profile.TravelerProfile, c Criteria) bool {
	return keepAge(p, c) && keepOrigin(p, c) && keepGender(p, c) &&
		keepTravelStyle(p, c) && keepInterests(p, c)
}

// Apply filters profiles by c, preserving order. The second return
// value holds the indexes of the kept profiles in the input slice, so
// callers can keep a parallel slice aligned.
func Apply(profiles []profile.TravelerProfile, c Criteria) ([]profile.TravelerProfile, []int) {
	kept := make([]profile.TravelerProfile, 0, len(profiles))
	indexes := make([]int, 0, len(profiles))
	for i, p := range profiles {
		if Keep(p, c) {
			kept = append(kept, p)
			indexes = append(indexes, i)
		}
	}
	return kept, indexes
}

func keepAge(p profile.TravelerProfile, c Criteria) bool {
	if !c.wantsAge() {
		return true
	}
	age, ok := deriveAge(p, time.Now())
	if !ok {
		return false
	}
	if c.MinAge != nil && age < *c.MinAge {
		return false
	}
	if c.MaxAge != nil && age > *c.MaxAge {
		return false
	}
	return true
}

func keepOrigin(p profile.TravelerProfile, c Criteria) bool {
	if !c.wantsOrigin() {
		return true
	}
	origin := strings.TrimSpace(p.OriginCountryCode)
	if origin == "" {
		return false
	}
	return strings.EqualFold(origin, strings.TrimSpace(c.OriginCountryCode))
}

func keepGender(p profile.TravelerProfile, c Criteria) bool {
	if !c.wantsGender() {
		return true
	}
	gender := strings.TrimSpace(p.Gender)
	if gender == "" {
		return false
	}
	return strings.EqualFold(gender, strings.TrimSpace(c.Gender))
}

func keepTravelStyle(p profile.TravelerProfile, c Criteria) bool {
	if !c.wantsTravelStyle() {
		return true
	}
	style := strings.TrimSpace(p.TravelStyle)
	if style == "" {
		return false
	}
	return strings.EqualFold(style, strings.TrimSpace(c.TravelStyle))
}

func keepInterests(p profile.TravelerProfile, c Criteria) bool {
	if !c.wantsInterests() {
		return true
	}
	wanted := make(map[string]struct{}, len(c.Interests))
	for _, tag := range c.Interests {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			wanted[tag] = struct{}{}
		}
	}
	for _, tag := range p.Interests {
		if _, ok := wanted[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return true
		}
	}
	return false
}

// deriveAge resolves the candidate's age, preferring a precomputed age
// over parsing the birth date. Returns false when neither source yields
// an age.
func deriveAge(p profile.TravelerProfile, now time.Time) (int, bool) {
	if p.Age != nil {
		return *p.Age, true
	}
	raw := strings.TrimSpace(p.BirthDate)
	if raw == "" {
		return 0, false
	}
	for _, layout := range birthDateFormats {
		born, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return yearsBetween(born, now), true
	}
	return 0, false
}

func yearsBetween(born, now time.Time) int {
	years := now.Year() - born.Year()
	anniversary := born.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
