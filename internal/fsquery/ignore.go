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

package fsquery

import (
	"path/filepath"
	"strings"
)

// ShouldIgnore reports whether a listing entry is excluded by any of the
// patterns. Each pattern is tried against the entry name and its absolute
// path; a trailing "/*" is treated as a plain prefix test on the absolute
// path and "**" is collapsed to a single "*". Both shortcuts are looser than
// real glob semantics: "/src/*" also drops "/src-old", and "**" does not
// cross directory separators.
func ShouldIgnore(name, absPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if globMatch(pattern, name) || globMatch(pattern, absPath) {
			return true
		}
		if strings.HasSuffix(pattern, "/*") && strings.HasPrefix(absPath, strings.TrimSuffix(pattern, "/*")) {
			return true
		}
		if strings.Contains(pattern, "**") && globMatch(strings.ReplaceAll(pattern, "**", "*"), absPath) {
			return true
		}
	}
	return false
}

// globMatch treats malformed patterns as non-matching.
func globMatch(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}
