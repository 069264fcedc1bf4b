package posts

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello, World!", "hello-world"},
		{"Go 1.22 Release Notes", "go-1-22-release-notes"},
		{"Café Déjà Vu", "cafe-deja-vu"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"UPPERCASE TITLE", "uppercase-title"},
		{"multiple---separators___here", "multiple-separators-here"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
