// Package lipgloss provides theme implementations using the Lipgloss styling library.
package lipgloss

import "github.com/fwojciec/diffexpand"

// Compile-time interface verification.
var _ diffexpand.Theme = (*Theme)(nil)

// Theme implements diffexpand.Theme with Lipgloss-compatible colors.
type Theme struct {
	styles diffexpand.Styles
}

// Styles returns the color styles for this theme.
func (t *Theme) Styles() diffexpand.Styles {
	return t.styles
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds
// (Catppuccin Mocha).
func DarkTheme() *Theme {
	return &Theme{
		styles: diffexpand.Styles{
			Added: diffexpand.ColorPair{
				Foreground: "#a6e3a1", // Green
				Background: "#004000", // Very dark green
			},
			Deleted: diffexpand.ColorPair{
				Foreground: "#f38ba8", // Red
				Background: "#3f0001", // Very dark red
			},
			Context: diffexpand.ColorPair{
				Foreground: "#cdd6f4",
			},
			HunkHeader: diffexpand.ColorPair{
				Foreground: "#89b4fa", // Blue
			},
			FileHeader: diffexpand.ColorPair{
				Foreground: "#f9e2af", // Yellow
				Background: "#313244", // Dark surface
			},
			LineNumber: diffexpand.ColorPair{
				Foreground: "#6c7086", // Muted gray
			},
			AddedGutter: diffexpand.ColorPair{
				Foreground: "#a6e3a1",
				Background: "#004000",
			},
			DeletedGutter: diffexpand.ColorPair{
				Foreground: "#f38ba8",
				Background: "#3f0001",
			},
			AddedHighlight: diffexpand.ColorPair{
				Foreground: "#1e1e2e", // Dark text on bright background
				Background: "#a6e3a1",
			},
			DeletedHighlight: diffexpand.ColorPair{
				Foreground: "#1e1e2e",
				Background: "#f38ba8",
			},
			ExpandHint: diffexpand.ColorPair{
				Foreground: "#89dceb", // Cyan
			},
			Loading: diffexpand.ColorPair{
				Foreground: "#f9e2af", // Yellow
			},
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds
// (Catppuccin Latte).
func LightTheme() *Theme {
	return &Theme{
		styles: diffexpand.Styles{
			Added: diffexpand.ColorPair{
				Foreground: "#40a02b", // Green
				Background: "#d4f4d4", // Subtle green background
			},
			Deleted: diffexpand.ColorPair{
				Foreground: "#d20f39", // Red
				Background: "#f4d4d4", // Subtle red background
			},
			Context: diffexpand.ColorPair{
				Foreground: "#4c4f69",
			},
			HunkHeader: diffexpand.ColorPair{
				Foreground: "#1e66f5", // Blue
			},
			FileHeader: diffexpand.ColorPair{
				Foreground: "#df8e1d", // Yellow
				Background: "#e6e9ef", // Light surface
			},
			LineNumber: diffexpand.ColorPair{
				Foreground: "#9ca0b0", // Muted gray
			},
			AddedGutter: diffexpand.ColorPair{
				Foreground: "#40a02b",
				Background: "#d4f4d4",
			},
			DeletedGutter: diffexpand.ColorPair{
				Foreground: "#d20f39",
				Background: "#f4d4d4",
			},
			AddedHighlight: diffexpand.ColorPair{
				Foreground: "#eff1f5", // Light text on saturated background
				Background: "#40a02b",
			},
			DeletedHighlight: diffexpand.ColorPair{
				Foreground: "#eff1f5",
				Background: "#d20f39",
			},
			ExpandHint: diffexpand.ColorPair{
				Foreground: "#179299", // Teal
			},
			Loading: diffexpand.ColorPair{
				Foreground: "#df8e1d", // Yellow
			},
		},
	}
}
