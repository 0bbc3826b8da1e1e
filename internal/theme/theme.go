// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package theme holds the terminal color scheme of the interactive shell.
package theme

import (
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// ColorScheme provides pterm and color styles for shell output.
type ColorScheme struct {
	Header  *pterm.Style
	Prompt  *color.Color
	Path    *color.Color
	Error   *color.Color
	Success *color.Color
	Muted   *color.Color
}

// DefaultColorScheme returns the scheme used on color terminals.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:  pterm.NewStyle(pterm.FgLightMagenta, pterm.Bold),
		Prompt:  color.New(color.FgCyan),
		Path:    color.New(color.FgBlue),
		Error:   color.New(color.FgRed, color.Bold),
		Success: color.New(color.FgGreen),
		Muted:   color.New(color.FgHiBlack),
	}
}

// DisabledColorScheme returns a color scheme with all colors disabled (for NO_COLOR).
func DisabledColorScheme() *ColorScheme {
	color.NoColor = true

	return &ColorScheme{
		Header:  pterm.NewStyle(),
		Prompt:  color.New(),
		Path:    color.New(),
		Error:   color.New(),
		Success: color.New(),
		Muted:   color.New(),
	}
}

// ForOutput picks the scheme for a stream: colors only on a terminal and
// only while NO_COLOR is unset.
func ForOutput(isTerminal bool) *ColorScheme {
	if os.Getenv("NO_COLOR") != "" || !isTerminal {
		return DisabledColorScheme()
	}
	return DefaultColorScheme()
}
