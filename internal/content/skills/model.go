package skills

// Skill is a single entry on the skills grid.
type Skill struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Level     int    `json:"level"`
	SortOrder int    `json:"sortOrder"`
}
