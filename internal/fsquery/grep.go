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
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	apperrors "codeprobe/internal/errors"
)

const opGrep = "grep"

// DefaultChunkSize is the block size content search reads files in.
const DefaultChunkSize = 4096

// GrepOptions tunes content search.
type GrepOptions struct {
	// ChunkSize is the number of bytes matched at a time. Matches that
	// straddle two chunks are not found.
	ChunkSize int
}

type contentMatch struct {
	path    string
	modTime time.Time
}

// Grep returns the files under root whose base name matches include and
// whose content matches the regular expression pattern, most recently
// modified first, relative to root.
func Grep(ctx context.Context, root, include, pattern string) ([]string, error) {
	return GrepWith(ctx, root, include, pattern, GrepOptions{})
}

// GrepWith is Grep with explicit options.
//
// Files are scanned as raw bytes in fixed-size chunks and each chunk is
// matched on its own, so binary files are safe to scan but a match spanning a
// chunk boundary is missed. Unreadable files and directories are skipped. An
// empty include matches every file.
func GrepWith(ctx context.Context, root, include, pattern string, opts GrepOptions) ([]string, error) {
	root, err := resolveSearchRoot(opGrep, root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindNotFound, opGrep, root, err)
	}
	if !info.IsDir() {
		return nil, apperrors.New(apperrors.KindNotADirectory, opGrep, root)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, apperrors.Pattern(opGrep, pattern, err)
	}
	if include == "" {
		include = "*"
	}
	if !doublestar.ValidatePattern(include) {
		return nil, apperrors.Pattern(opGrep, include, doublestar.ErrBadPattern)
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	buf := make([]byte, chunkSize)

	var found []contentMatch
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ensureContext(ctx); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := doublestar.Match(include, d.Name()); !ok {
			return nil
		}
		if !fileContains(p, re, buf) {
			return nil
		}
		fi, err := os.Stat(p)
		if err != nil {
			return nil
		}
		found = append(found, contentMatch{path: p, modTime: fi.ModTime()})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].modTime.After(found[j].modTime)
	})

	results := make([]string, 0, len(found))
	for _, m := range found {
		rel, err := filepath.Rel(root, m.path)
		if err != nil {
			rel = m.path
		}
		results = append(results, rel)
	}
	return results, nil
}

// fileContains scans path chunk by chunk and stops at the first match. Any
// open or read failure counts as no match.
func fileContains(path string, re *regexp.Regexp, buf []byte) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	adviseSequential(f)

	for {
		n, err := io.ReadFull(f, buf)
		if n > 0 && re.Match(buf[:n]) {
			return true
		}
		if err != nil {
			return false
		}
	}
}
