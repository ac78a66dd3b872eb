package domain

import (
	"fmt"
	"strings"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme accepts "dark" or "light", case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("domain: unknown theme %q", s)
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Preference is the persisted theme choice of one visitor.
type Preference struct {
	VisitorID string
	Theme     Theme
	UpdatedAt string
}
