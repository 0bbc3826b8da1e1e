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

type lsArgs struct {
	Path   string   `json:"path" validate:"required" jsonschema:"description=Absolute path of the directory to list"`
	Ignore []string `json:"ignore,omitempty" jsonschema:"description=Glob patterns for entries to leave out of the listing"`
}

type globArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"description=Directory to search in (default: working directory)"`
	Pattern string `json:"pattern" validate:"required" jsonschema:"description=Glob pattern to match such as **/*.go"`
}

type grepArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"description=Directory to search in (default: working directory)"`
	Include string `json:"include" jsonschema:"description=File name pattern selecting which files to search such as *.py"`
	Pattern string `json:"pattern" validate:"required" jsonschema:"description=Regular expression to search file contents for"`
}

type readArgs struct {
	FilePath string `json:"file_path" validate:"required" jsonschema:"description=Absolute path of the file to read"`
	Offset   int    `json:"offset,omitempty" jsonschema:"description=Line number to start reading from (1-based)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Maximum number of lines to read"`
}
