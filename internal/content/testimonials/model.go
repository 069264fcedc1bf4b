package testimonials

import "time"

// Testimonial is a quote from a client or colleague. Only approved entries
// are shown publicly.
type Testimonial struct {
	ID          int64     `json:"id"`
	AuthorName  string    `json:"authorName"`
	AuthorTitle string    `json:"authorTitle,omitempty"`
	Company     string    `json:"company,omitempty"`
	Quote       string    `json:"quote"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"createdAt"`
}
