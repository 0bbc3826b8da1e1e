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
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "codeprobe/internal/errors"
	"codeprobe/internal/paths"
)

const opList = "list"

// List returns the immediate children of the directory at absPath, skipping
// entries matched by ignore and entries that cannot be stat'ed. Directories
// sort before files; names compare case-insensitively.
func List(ctx context.Context, absPath string, ignore []string) ([]DirectoryEntry, error) {
	if err := paths.ValidateAbsolute(opList, absPath); err != nil {
		return nil, err
	}
	if _, err := paths.ValidateDirectory(opList, absPath); err != nil {
		return nil, err
	}

	children, err := os.ReadDir(absPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, opList, absPath, err)
	}

	entries := make([]DirectoryEntry, 0, len(children))
	for _, child := range children {
		if err := ensureContext(ctx); err != nil {
			return nil, err
		}
		name := child.Name()
		fullPath := filepath.Join(absPath, name)
		if ShouldIgnore(name, fullPath, ignore) {
			continue
		}

		// Follows symlinks; a dangling link is dropped with the other stat failures.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		entry := DirectoryEntry{
			Name:         name,
			Path:         fullPath,
			AbsolutePath: fullPath,
			Size:         info.Size(),
			IsDir:        info.IsDir(),
			ModTime:      info.ModTime(),
			Mode:         ModeString(info.Mode()),
		}
		fillOwner(&entry, fullPath, info)
		entries = append(entries, entry)
	}

	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []DirectoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
}
