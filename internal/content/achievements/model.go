package achievements

import "time"

// Achievement is a certification, award or milestone.
type Achievement struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Issuer        string    `json:"issuer,omitempty"`
	Description   string    `json:"description,omitempty"`
	CredentialURL string    `json:"credentialUrl,omitempty"`
	AwardedOn     time.Time `json:"awardedOn"`
}
