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

package tools

import (
	"path/filepath"

	apperrors "codeprobe/internal/errors"
	"codeprobe/internal/paths"
)

// pathRules restricts tool paths to a set of base directories. An empty set
// allows everything.
type pathRules struct {
	roots []string
}

func newPathRules(entries []string, base string) (pathRules, error) {
	rules := pathRules{}
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		root, err := paths.ResolveRootEntry(entry, base)
		if err != nil {
			return pathRules{}, err
		}
		rules.roots = append(rules.roots, root)
	}
	return rules, nil
}

func (p pathRules) check(path string) error {
	if len(p.roots) == 0 {
		return nil
	}
	candidate := filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	}
	for _, root := range p.roots {
		if paths.HasPathPrefix(candidate, root) {
			return nil
		}
	}
	return apperrors.Wrap(apperrors.KindInvalidArgument, "", path, ErrPathOutsideRoots)
}
