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

package main

import (
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
)

// run executes a tool through the registry and prints its result.
func (a *app) run(cmd *cobra.Command, name string, args map[string]interface{}) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result := a.registry.Execute(ctx, name, args)
	if result.Error != nil {
		return result.Error
	}
	return writeResult(cmd.OutOrStdout(), result.Result)
}

// absPath makes a command-line path absolute against the configured work
// directory.
func (a *app) absPath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(a.registry.WorkDir(), path)
}

func newLsCmd(a *app) *cobra.Command {
	var ignore []string
	cmd := &cobra.Command{
		Use:   "ls [directory]",
		Short: "List a directory, directories first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.registry.WorkDir()
			if len(args) == 1 {
				dir = a.absPath(args[0])
			}
			return a.run(cmd, "ls", map[string]interface{}{
				"path":   dir,
				"ignore": ignore,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&ignore, "ignore", "i", nil, "glob pattern of entries to leave out (repeatable)")
	return cmd
}

func newGlobCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "glob <pattern>",
		Short: "Find files whose paths match a glob pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "glob", map[string]interface{}{
				"path":    path,
				"pattern": args[0],
			})
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "directory to search (default: work directory)")
	return cmd
}

func newGrepCmd(a *app) *cobra.Command {
	var path, include string
	cmd := &cobra.Command{
		Use:   "grep <regexp>",
		Short: "Find files whose contents match a regular expression, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "grep", map[string]interface{}{
				"path":    path,
				"include": include,
				"pattern": args[0],
			})
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "directory to search (default: work directory)")
	cmd.Flags().StringVar(&include, "include", "*", "file name pattern to search, e.g. '*.{ts,tsx}'")
	return cmd
}

func newReadCmd(a *app) *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print a numbered window of lines from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs := map[string]interface{}{"file_path": a.absPath(args[0])}
			if offset > 0 {
				callArgs["offset"] = offset
			}
			if limit > 0 {
				callArgs["limit"] = limit
			}
			return a.run(cmd, "read", callArgs)
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "first line to print (1-based)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of lines (default from config)")
	return cmd
}
