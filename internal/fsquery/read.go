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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "codeprobe/internal/errors"
	"codeprobe/internal/paths"
)

const opRead = "read"

// Read window defaults, applied when offset or limit is not positive.
const (
	DefaultReadOffset = 1
	DefaultReadLimit  = 2000
)

// EmptyReadPrefix starts the result of a read whose window holds no lines.
const EmptyReadPrefix = "file is empty: "

const contextCheckInterval = 1024

// Read returns up to limit lines of the file at absPath starting at the
// 1-based line offset. Each line is prefixed with its number right-aligned
// to six columns and a tab, and the block is preceded by a header naming the
// file, its size and modification time. When the window is empty the result
// is EmptyReadPrefix followed by absPath.
//
// Lines end at '\n'; a trailing '\r' is dropped and invalid UTF-8 sequences
// are removed.
func Read(ctx context.Context, absPath string, offset, limit int) (string, error) {
	if err := paths.ValidateAbsolute(opRead, absPath); err != nil {
		return "", err
	}
	info, err := paths.ValidateFile(opRead, absPath)
	if err != nil {
		return "", err
	}
	if offset <= 0 {
		offset = DefaultReadOffset
	}
	if limit <= 0 {
		limit = DefaultReadLimit
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindIOFailure, opRead, absPath, err)
	}
	defer f.Close()

	lines, err := readWindow(ctx, bufio.NewReader(f), offset, limit)
	if err != nil {
		if ctxErr := ensureContext(ctx); ctxErr != nil {
			return "", ctxErr
		}
		return "", apperrors.Wrap(apperrors.KindIOFailure, opRead, absPath, err)
	}
	if len(lines) == 0 {
		return EmptyReadPrefix + absPath, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s (%d bytes, modified: %s)", filepath.Base(absPath), info.Size(), formatTimestamp(info.ModTime()))
	for _, line := range lines {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String(), nil
}

func readWindow(ctx context.Context, r *bufio.Reader, offset, limit int) ([]string, error) {
	capacity := limit
	if capacity > 256 {
		capacity = 256
	}
	lines := make([]string, 0, capacity)
	lineNo := 0
	for len(lines) < limit {
		raw, err := r.ReadString('\n')
		if len(raw) > 0 {
			lineNo++
			if lineNo%contextCheckInterval == 0 {
				if ctxErr := ensureContext(ctx); ctxErr != nil {
					return nil, ctxErr
				}
			}
			if lineNo >= offset {
				lines = append(lines, fmt.Sprintf("%6d\t%s", lineNo, cleanLine(raw)))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return lines, nil
}

func cleanLine(raw string) string {
	line := strings.TrimSuffix(raw, "\n")
	line = strings.TrimSuffix(line, "\r")
	return strings.ToValidUTF8(line, "")
}
