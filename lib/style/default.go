// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package style

import "github.com/muesli/termenv"

// The built-in themes are authored in the same JSONC the user-facing
// stylesheets use, so the parser is the single source of truth for
// what a theme can express.

const defaultDarkSource = `{
	// Dark terminal baseline.
	":root":  { "foreground": "#c6c8d1" },
	"block":  { "border": "rounded", "border_foreground": "#44475a" },
	"button": { "bold": true, "foreground": "#8be9fd" },
	"input":  { "foreground": "#f8f8f2" },
	"gauge":  { "foreground": "#50fa7b" },
	"table":  { "foreground": "#c6c8d1" },
	"modal":  { "border": "thick", "border_foreground": "#bd93f9" },
	"toast":  { "bold": true },
	".muted": { "faint": true },
	".error": { "foreground": "#ff5555", "bold": true },
	".warn":  { "foreground": "#f1fa8c" },
}`

const defaultLightSource = `{
	// Light terminal baseline.
	":root":  { "foreground": "#2e3440" },
	"block":  { "border": "rounded", "border_foreground": "#aab2c0" },
	"button": { "bold": true, "foreground": "#005f87" },
	"input":  { "foreground": "#1c1c1c" },
	"gauge":  { "foreground": "#007a33" },
	"table":  { "foreground": "#2e3440" },
	"modal":  { "border": "thick", "border_foreground": "#5e81ac" },
	"toast":  { "bold": true },
	".muted": { "faint": true },
	".error": { "foreground": "#bf0000", "bold": true },
	".warn":  { "foreground": "#8a6d00" },
}`

// DefaultDark returns the built-in dark theme.
func DefaultDark() *Sheet {
	return mustParseTheme("dark", defaultDarkSource)
}

// DefaultLight returns the built-in light theme.
func DefaultLight() *Sheet {
	return mustParseTheme("light", defaultLightSource)
}

// Default returns the built-in theme for the terminal's detected
// background, dark when detection cannot tell.
func Default() *Sheet {
	if termenv.HasDarkBackground() {
		return DefaultDark()
	}
	return DefaultLight()
}

func mustParseTheme(name, source string) *Sheet {
	sheet, err := Parse([]byte(source))
	if err != nil {
		panic("style: built-in " + name + " theme is invalid: " + err.Error())
	}
	return sheet
}
