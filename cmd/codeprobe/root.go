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
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"codeprobe/internal/config"
	"codeprobe/internal/tools"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *tools.Registry
	closer   io.Closer
}

type rootOptions struct {
	configPath string
	workDir    string
	logFile    string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:   "codeprobe",
		Short: "Read-only filesystem queries for exploring code trees",
		Long: "codeprobe lists directories, globs file names, greps file contents and reads\n" +
			"line ranges of files. The same operations are exposed as LLM tools.",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "config.json", "config file (.json, .yaml, .yml or .toml)")
	flags.StringVarP(&opts.workDir, "workdir", "w", "", "directory relative paths resolve against")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(
		newLsCmd(a),
		newGlobCmd(a),
		newGrepCmd(a),
		newReadCmd(a),
		newToolsCmd(a),
		newConfigCmd(a, opts),
		newShellCmd(a),
	)
	return cmd
}

// setup loads configuration, applies flag overrides and builds the logger
// and tool registry.
func (a *app) setup(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("workdir") {
		cfg.WorkDir = opts.workDir
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}

	logger, closer, err := initLogger(cfg.Debug, cfg.LogFile)
	if err != nil {
		return err
	}
	a.closer = closer
	logger.Debug().Str("command", cmd.Name()).Str("config", opts.configPath).Msg("codeprobe starting")

	registry, err := tools.NewRegistry(cfg.RegistryOptions(&logger))
	if err != nil {
		a.close()
		return fmt.Errorf("failed to create tool registry: %w", err)
	}
	for _, w := range cfg.Validate(registry) {
		logger.Warn().Str("field", w.Field).Msg(w.Message)
	}

	a.cfg = cfg
	a.logger = logger
	a.registry = registry
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
		a.closer = nil
	}
}
