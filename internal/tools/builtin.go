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
	"context"
	"encoding/json"
	"path/filepath"

	"codeprobe/internal/fsquery"
	"codeprobe/internal/paths"
)

const (
	lsDescription = "Lists files and directories in a given path. The path must be absolute. " +
		"Entries come back directories first, then by case-insensitive name, with size, " +
		"modification time and permissions. Optional ignore globs leave matching entries out."
	globDescription = "Fast file pattern matching that works with codebases of any size. " +
		"Supports patterns like \"**/*.js\" or \"src/**/*.ts\" and returns matching file paths " +
		"relative to the search directory in sorted order. Use it to find files by name."
	grepDescription = "Fast content search that works with codebases of any size. " +
		"Searches file contents with a regular expression and returns the paths of matching files " +
		"sorted by modification time, newest first. Filter files with include " +
		"(for example \"*.js\" or \"*.{ts,tsx}\")."
	readDescription = "Reads a file from the local filesystem. The file_path must be absolute. " +
		"By default up to 2000 lines are read from the start of the file; offset and limit select " +
		"a window of a long file. Lines come back numbered starting at 1."
)

func registerBuiltInTools(r *Registry) error {
	builtins := []Tool{
		&ToolDefinition{
			NameValue:        "ls",
			DescriptionValue: lsDescription,
			ParametersValue:  mustSchemaParametersFor[lsArgs](),
			ExecuteFunc:      r.listDirectory,
			ValidateFunc:     ChainValidation(ValidateStruct[lsArgs](), ValidPathArg("path")),
		},
		&ToolDefinition{
			NameValue:        "glob",
			DescriptionValue: globDescription,
			ParametersValue:  mustSchemaParametersFor[globArgs](),
			ExecuteFunc:      r.globFiles,
			ValidateFunc:     ChainValidation(ValidateStruct[globArgs](), ValidPathArg("path")),
		},
		&ToolDefinition{
			NameValue:        "grep",
			DescriptionValue: grepDescription,
			ParametersValue:  mustSchemaParametersFor[grepArgs](),
			ExecuteFunc:      r.grepFiles,
			ValidateFunc:     ChainValidation(ValidateStruct[grepArgs](), ValidPathArg("path")),
		},
		&ToolDefinition{
			NameValue:        "read",
			DescriptionValue: readDescription,
			ParametersValue:  mustSchemaParametersFor[readArgs](),
			ExecuteFunc:      r.readFile,
			ValidateFunc:     ChainValidation(ValidateStruct[readArgs](), ValidPathArg("file_path")),
		},
	}
	for _, tool := range builtins {
		if err := r.RegisterTool(tool); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) listDirectory(ctx context.Context, raw map[string]interface{}) (string, error) {
	args, err := unmarshalAndValidate[lsArgs](raw)
	if err != nil {
		return "", err
	}
	if err := r.checkAbsolute(args.Path); err != nil {
		return "", err
	}
	entries, err := fsquery.List(ctx, args.Path, args.Ignore)
	if err != nil {
		return "", err
	}
	if entries == nil {
		entries = []fsquery.DirectoryEntry{}
	}
	return encodeResult(entries)
}

func (r *Registry) globFiles(ctx context.Context, raw map[string]interface{}) (string, error) {
	args, err := unmarshalAndValidate[globArgs](raw)
	if err != nil {
		return "", err
	}
	root, err := r.searchRoot(args.Path)
	if err != nil {
		return "", err
	}
	matches, err := fsquery.GlobWith(ctx, root, args.Pattern, fsquery.GlobOptions{CheckBase: r.rules.check})
	if err != nil {
		return "", err
	}
	return encodeResult(nonNil(matches))
}

func (r *Registry) grepFiles(ctx context.Context, raw map[string]interface{}) (string, error) {
	args, err := unmarshalAndValidate[grepArgs](raw)
	if err != nil {
		return "", err
	}
	root, err := r.searchRoot(args.Path)
	if err != nil {
		return "", err
	}
	matches, err := fsquery.GrepWith(ctx, root, args.Include, args.Pattern, fsquery.GrepOptions{ChunkSize: r.grepSize})
	if err != nil {
		return "", err
	}
	return encodeResult(nonNil(matches))
}

func (r *Registry) readFile(ctx context.Context, raw map[string]interface{}) (string, error) {
	args, err := unmarshalAndValidate[readArgs](raw)
	if err != nil {
		return "", err
	}
	if err := r.checkAbsolute(args.FilePath); err != nil {
		return "", err
	}
	limit := args.Limit
	if limit <= 0 {
		limit = r.readMax
	}
	return fsquery.Read(ctx, args.FilePath, args.Offset, limit)
}

// searchRoot resolves an optional directory argument against the working
// directory and checks it against the allowed roots.
func (r *Registry) searchRoot(path string) (string, error) {
	if path == "" {
		path = r.workDir
	}
	resolved := paths.Resolve(path, r.workDir)
	if err := r.rules.check(resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

// checkAbsolute applies the allowed roots to an absolute path. Relative paths
// are left for the query to reject.
func (r *Registry) checkAbsolute(path string) error {
	if !filepath.IsAbs(path) {
		return nil
	}
	return r.rules.check(path)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func encodeResult(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
