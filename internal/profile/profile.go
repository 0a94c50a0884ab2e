package profile

// TravelerProfile is the read-only attribute set for one traveler,
// sourced from the external profile store.
type TravelerProfile struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"display_name"`
	OriginCountryCode string   `json:"origin_country_code,omitempty"`
	BirthDate         string   `json:"birth_date,omitempty"`
	Age               *int     `json:"age,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	TravelStyle       string   `json:"travel_style,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	AvatarURL         string   `json:"avatar_url,omitempty"`
}
