package profile

import "time"

// Profile is the single public identity block shown on the portfolio: hero
// section, biography and contact details. The table holds exactly one row.
type Profile struct {
	FullName    string    `json:"fullName"`
	Title       string    `json:"title"`
	HeroTagline string    `json:"heroTagline"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Location    string    `json:"location,omitempty"`
	GithubURL   string    `json:"githubUrl,omitempty"`
	LinkedinURL string    `json:"linkedinUrl,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
