package match

import (
	"strings"
)

// GenderAll is the wildcard gender criteria value; it passes every
// profile regardless of its gender attribute, including a missing one.
const GenderAll = "All"

// Criteria is the UI-owned filter set applied to nearby travelers.
// Every field is optional: an absent field never excludes a candidate.
// The UI passes Criteria by value on each evaluation; the engine never
// retains it.
type Criteria struct {
	MinAge            *int     `json:"min_age,omitempty"`
	MaxAge            *int     `json:"max_age,omitempty"`
	OriginCountryCode string   `json:"origin_country_code,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	TravelStyle       string   `json:"travel_style,omitempty"`
	Interests         []string `json:"interests,omitempty"`
}

// IsEmpty reports whether no dimension is active, in which case every
// candidate is kept.
func (c Criteria) IsEmpty() bool {
	return !c.wantsAge() && !c.wantsOrigin() && !c.wantsGender() &&
		!c.wantsTravelStyle() && !c.wantsInterests()
}

func (c Criteria) wantsAge() bool {
	return c.MinAge != nil || c.MaxAge != nil
}

func (c Criteria) wantsOrigin() bool {
	return strings.TrimSpace(c.OriginCountryCode) != ""
}

// wantsGender is false both for an unset gender and for the "All"
// wildcard; either way the dimension is skipped.
func (c Criteria) wantsGender() bool {
	g := strings.TrimSpace(c.Gender)
	return g != "" && !strings.EqualFold(g, GenderAll)
}

// wantsTravelStyle treats whitespace-only free text as unset.
func (c Criteria) wantsTravelStyle() bool {
	return strings.TrimSpace(c.TravelStyle) != ""
}

func (c Criteria) wantsInterests() bool {
	for _, tag := range c.Interests {
		if strings.TrimSpace(tag) != "" {
			return true
		}
	}
	return false
}
