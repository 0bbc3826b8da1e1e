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
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	apperrors "codeprobe/internal/errors"
)

const opGlob = "glob"

// GlobOptions tunes glob matching.
type GlobOptions struct {
	// CheckBase, when set, is called with the absolute directory the walk
	// starts from before anything is read. Absolute and "../" patterns move
	// that directory away from root. A non-nil error aborts the glob.
	CheckBase func(base string) error
}

// Glob returns the files under root matching pattern, relative to root and
// sorted lexicographically. "**" matches any number of directories, and
// absolute patterns are honoured as long as results can be expressed
// relative to root. Directories, including symlinks to directories, never
// appear in the result.
func Glob(ctx context.Context, root, pattern string) ([]string, error) {
	return GlobWith(ctx, root, pattern, GlobOptions{})
}

// GlobWith is Glob with explicit options.
func GlobWith(ctx context.Context, root, pattern string, opts GlobOptions) ([]string, error) {
	root, err := resolveSearchRoot(opGlob, root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, apperrors.Wrap(apperrors.KindNotFound, opGlob, root, err)
	}

	base, rel := splitGlobPattern(root, pattern)
	if rel == "" {
		return []string{}, nil
	}
	if !doublestar.ValidatePattern(rel) {
		return nil, apperrors.Pattern(opGlob, pattern, doublestar.ErrBadPattern)
	}
	if opts.CheckBase != nil {
		if err := opts.CheckBase(base); err != nil {
			return nil, err
		}
	}

	matches := make([]string, 0, 32)
	walkErr := doublestar.GlobWalk(os.DirFS(base), rel, func(match string, d fs.DirEntry) error {
		if err := ensureContext(ctx); err != nil {
			return err
		}
		full := filepath.Join(base, filepath.FromSlash(match))
		if d != nil && d.Type()&fs.ModeSymlink != 0 {
			// WithNoFollow reports links as entries; keep only links to files.
			info, err := os.Stat(full)
			if err != nil || info.IsDir() {
				return nil
			}
		}
		out, err := filepath.Rel(root, full)
		if err != nil {
			return nil
		}
		matches = append(matches, out)
		return nil
	}, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
	if walkErr != nil {
		if ctxErr := ensureContext(ctx); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.Pattern(opGlob, pattern, walkErr)
	}

	sort.Strings(matches)
	return matches, nil
}

// splitGlobPattern returns the directory the walk starts from and the
// slash-separated pattern relative to it.
func splitGlobPattern(root, pattern string) (string, string) {
	if pattern == "" {
		return root, ""
	}
	if filepath.IsAbs(pattern) {
		b, p := doublestar.SplitPattern(filepath.ToSlash(filepath.Clean(pattern)))
		return filepath.FromSlash(b), p
	}
	base := root
	rel := path.Clean(filepath.ToSlash(pattern))
	for rel == ".." || strings.HasPrefix(rel, "../") {
		base = filepath.Dir(base)
		rel = strings.TrimPrefix(strings.TrimPrefix(rel, ".."), "/")
	}
	if rel == "" {
		rel = "."
	}
	return base, rel
}

// resolveSearchRoot requires an explicit root and makes it absolute.
func resolveSearchRoot(op, root string) (string, error) {
	if root == "" {
		return "", apperrors.New(apperrors.KindInvalidArgument, op, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInvalidArgument, op, root, err)
	}
	return abs, nil
}
