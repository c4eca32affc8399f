package model

// Settings holds the display and behavior toggles.
type Settings struct {
	Notifications bool `json:"notifications"`
	Autosave      bool `json:"autosave"`
	DarkMode      bool `json:"darkMode"`
}

// DefaultSettings returns the settings used when nothing valid is stored.
func DefaultSettings() Settings {
	return Settings{
		Notifications: true,
		Autosave:      true,
		DarkMode:      false,
	}
}

// SettingsPatch changes only the toggles that are set.
type SettingsPatch struct {
	Notifications *bool `json:"notifications,omitempty"`
	Autosave      *bool `json:"autosave,omitempty"`
	DarkMode      *bool `json:"darkMode,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.Notifications == nil && p.Autosave == nil && p.DarkMode == nil
}

// Apply returns s with the patch applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Autosave != nil {
		s.Autosave = *p.Autosave
	}
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	return s
}
