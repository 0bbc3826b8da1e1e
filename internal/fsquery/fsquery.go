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

// Package fsquery implements read-only queries over a code tree: directory
// listing, glob matching, content search and ranged file reads.
//
// Operations take explicit paths, never consult the process working
// directory on their own, return results in a deterministic order and report
// failures as *errors.Error values from codeprobe/internal/errors. Per-entry
// failures met while traversing a tree are skipped; only failures at the
// operation's top level are returned. Nothing in this package logs.
package fsquery

import (
	"context"
	"time"
)

// TimestampLayout is the layout used for modification times in listings and
// read headers.
const TimestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

func ensureContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
