package entity

type ThemePreference string

const (
	ThemeLight  ThemePreference = "light"
	ThemeDark   ThemePreference = "dark"
	ThemeSystem ThemePreference = "system"
)

func (t ThemePreference) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// ResolvedTheme is what actually gets rendered, after "system" has been
// resolved against the OS preference.
type ResolvedTheme string

const (
	ResolvedLight ResolvedTheme = "light"
	ResolvedDark  ResolvedTheme = "dark"
)
