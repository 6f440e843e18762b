package models

// Theme preference values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Profile holds the locally cached user settings.
type Profile struct {
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
	Theme string `json:"theme"`
	// JoinedClassrooms mirrors the profile screen counter.
	JoinedClassrooms int `json:"joinedClassrooms"`
}

// IsDark reports whether the dark palette is active.
func (p Profile) IsDark() bool {
	return p.Theme == ThemeDark
}
