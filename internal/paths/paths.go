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

// Package paths holds the path predicates shared by every filesystem query.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	apperrors "codeprobe/internal/errors"
)

// ValidatePathString validates raw path input before resolution. Names in
// any Unicode normalization form are accepted.
func ValidatePathString(path string, maxLen int) error {
	invalid := func(reason string) error {
		return apperrors.Wrap(apperrors.KindInvalidArgument, "", path, fmt.Errorf("%s", reason))
	}
	if strings.TrimSpace(path) == "" {
		return invalid("path cannot be empty")
	}
	if strings.IndexByte(path, 0) != -1 {
		return invalid("path contains null byte")
	}
	if !utf8.ValidString(path) {
		return invalid("path is not valid UTF-8")
	}
	if maxLen > 0 && len(filepath.Clean(path)) > maxLen {
		return invalid(fmt.Sprintf("path exceeds maximum length of %d characters", maxLen))
	}
	return nil
}

// ValidateAbsolute rejects empty and relative paths.
func ValidateAbsolute(op, path string) error {
	if path == "" {
		return apperrors.Wrap(apperrors.KindInvalidArgument, op, path, fmt.Errorf("path is required"))
	}
	if !filepath.IsAbs(path) {
		return apperrors.Wrap(apperrors.KindInvalidArgument, op, path, fmt.Errorf("path must be absolute"))
	}
	return nil
}

// ValidateDirectory checks that path exists and is a directory.
func ValidateDirectory(op, path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindNotFound, op, path, err)
	}
	if !info.IsDir() {
		return nil, apperrors.New(apperrors.KindNotADirectory, op, path)
	}
	return info, nil
}

// ValidateFile checks that path exists and is not a directory. Stat failures
// other than non-existence are reported as IOFailure.
func ValidateFile(op, path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, op, path, err)
		}
		return nil, apperrors.Wrap(apperrors.KindIOFailure, op, path, err)
	}
	if info.IsDir() {
		return nil, apperrors.New(apperrors.KindIsADirectory, op, path)
	}
	return info, nil
}

// Resolve makes path absolute against base when it is relative.
func Resolve(path, base string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

// HasPathPrefix returns true when path is within base.
func HasPathPrefix(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && rel != "..")
}

// ResolveRootEntry resolves an allowed-root entry relative to a base,
// following symlinks when the entry exists.
func ResolveRootEntry(entry, base string) (string, error) {
	candidate := Resolve(entry, base)
	if _, err := os.Lstat(candidate); err == nil {
		resolved, err := filepath.EvalSymlinks(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to resolve allowed path: %v", err)
		}
		return resolved, nil
	} else if os.IsNotExist(err) {
		return candidate, nil
	} else {
		return "", fmt.Errorf("failed to stat allowed path: %v", err)
	}
}
