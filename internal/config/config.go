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

// Package config loads codeprobe settings from JSON, YAML or TOML files, a
// .env file and environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"codeprobe/internal/fsquery"
	"codeprobe/internal/tools"
)

// Environment variables that override file settings.
const (
	EnvWorkDir = "CODEPROBE_WORKDIR"
	EnvLogFile = "CODEPROBE_LOG_FILE"
	EnvDebug   = "CODEPROBE_DEBUG"
)

// Config represents the application configuration
type Config struct {
	WorkDir            string       `json:"work_dir,omitempty" yaml:"work_dir,omitempty" toml:"work_dir,omitempty"`
	AllowedRoots       []string     `json:"allowed_roots,omitempty" yaml:"allowed_roots,omitempty" toml:"allowed_roots,omitempty"`
	Tools              ToolSettings `json:"tools,omitempty" yaml:"tools,omitempty" toml:"tools,omitempty"`
	ToolTimeouts       ToolTimeouts `json:"tool_timeouts,omitempty" yaml:"tool_timeouts,omitempty" toml:"tool_timeouts,omitempty"`
	Grep               GrepSettings `json:"grep,omitempty" yaml:"grep,omitempty" toml:"grep,omitempty"`
	Read               ReadSettings `json:"read,omitempty" yaml:"read,omitempty" toml:"read,omitempty"`
	LogFile            string       `json:"log_file,omitempty" yaml:"log_file,omitempty" toml:"log_file,omitempty"`
	Debug              bool         `json:"debug,omitempty" yaml:"debug,omitempty" toml:"debug,omitempty"`
	CommandHistoryFile string       `json:"command_history_file,omitempty" yaml:"command_history_file,omitempty" toml:"command_history_file,omitempty"`
}

// ToolSettings describes tool allow/deny lists.
type ToolSettings struct {
	Allow []string `json:"allow,omitempty" yaml:"allow,omitempty" toml:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty" yaml:"deny,omitempty" toml:"deny,omitempty"`
}

// ToolTimeouts configures tool execution timeouts.
type ToolTimeouts struct {
	DefaultSeconds int            `json:"default_seconds,omitempty" yaml:"default_seconds,omitempty" toml:"default_seconds,omitempty"`
	PerToolSeconds map[string]int `json:"per_tool_seconds,omitempty" yaml:"per_tool_seconds,omitempty" toml:"per_tool_seconds,omitempty"`
}

// GrepSettings tunes content search.
type GrepSettings struct {
	ChunkSize int `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty" toml:"chunk_size,omitempty"`
}

// ReadSettings tunes ranged reads.
type ReadSettings struct {
	DefaultLimit int `json:"default_limit,omitempty" yaml:"default_limit,omitempty" toml:"default_limit,omitempty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		ToolTimeouts: ToolTimeouts{
			DefaultSeconds: int(tools.DefaultToolTimeout.Seconds()),
		},
		Grep:               GrepSettings{ChunkSize: fsquery.DefaultChunkSize},
		Read:               ReadSettings{DefaultLimit: fsquery.DefaultReadLimit},
		CommandHistoryFile: ".codeprobe_history",
	}
}

// LoadConfig builds the configuration from defaults, the file at path (if
// it exists), a .env file beside it and the CODEPROBE_* environment.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			normalized, err := decodeConfigFile(path, data)
			if err != nil {
				return nil, fmt.Errorf("invalid config %s: %w", path, err)
			}
			if err := json.Unmarshal(normalized, config); err != nil {
				return nil, fmt.Errorf("invalid config %s: %w", path, err)
			}
		}
	}

	if err := loadDotEnv(envFileFor(path)); err != nil {
		return nil, err
	}
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// decodeConfigFile turns a JSON, YAML or TOML document into validated JSON.
func decodeConfigFile(path string, data []byte) ([]byte, error) {
	var raw interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		raw = doc
	case ".toml":
		var doc map[string]interface{}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		raw = doc
	default:
		return normalizeConfigJSON(data)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return normalizeConfigJSON(data)
}

func envFileFor(configPath string) string {
	if configPath == "" {
		return ".env"
	}
	return filepath.Join(filepath.Dir(configPath), ".env")
}

// loadDotEnv exports variables from file without overriding the
// environment. A missing file is not an error.
func loadDotEnv(file string) error {
	if err := godotenv.Load(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if val := os.Getenv(EnvWorkDir); val != "" {
		c.WorkDir = val
	}
	if val := os.Getenv(EnvLogFile); val != "" {
		c.LogFile = val
	}
	if val := os.Getenv(EnvDebug); val != "" {
		debug, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", EnvDebug, err)
		}
		c.Debug = debug
	}
	return nil
}

// ToolPolicy converts config settings into a tool policy.
func (c *Config) ToolPolicy() tools.Policy {
	return tools.PolicyFromLists(c.Tools.Allow, c.Tools.Deny)
}

// ToolTimeoutsConfig returns timeout configuration for tools.
func (c *Config) ToolTimeoutsConfig() tools.TimeoutConfig {
	return tools.TimeoutsFromSeconds(c.ToolTimeouts.DefaultSeconds, c.ToolTimeouts.PerToolSeconds)
}

// RegistryOptions assembles the tool registry options for this config.
func (c *Config) RegistryOptions(logger *zerolog.Logger) tools.Options {
	return tools.Options{
		WorkDir:       c.WorkDir,
		AllowedRoots:  append([]string{}, c.AllowedRoots...),
		Policy:        c.ToolPolicy(),
		Timeouts:      c.ToolTimeoutsConfig(),
		GrepChunkSize: c.Grep.ChunkSize,
		ReadLimit:     c.Read.DefaultLimit,
		Logger:        logger,
	}
}

// ValidationWarning represents a non-fatal configuration issue
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate checks the configuration for common issues and returns warnings
func (c *Config) Validate(registry *tools.Registry) []ValidationWarning {
	var warnings []ValidationWarning

	if registry != nil {
		check := func(field string, names []string) {
			for _, name := range names {
				if !registry.HasTool(name) {
					warnings = append(warnings, ValidationWarning{
						Field:   field,
						Message: fmt.Sprintf("tool %q in %s list is not registered", name, strings.TrimPrefix(field, "tools.")),
					})
				}
			}
		}
		check("tools.allow", c.Tools.Allow)
		check("tools.deny", c.Tools.Deny)
	}

	if c.ToolTimeouts.DefaultSeconds <= 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "tool_timeouts.default_seconds",
			Message: fmt.Sprintf("default_seconds %d disables the default timeout", c.ToolTimeouts.DefaultSeconds),
		})
	}
	for name, seconds := range c.ToolTimeouts.PerToolSeconds {
		if seconds <= 0 {
			warnings = append(warnings, ValidationWarning{
				Field:   "tool_timeouts.per_tool_seconds." + name,
				Message: fmt.Sprintf("timeout %d for %s disables its timeout", seconds, name),
			})
		}
	}

	if c.Grep.ChunkSize <= 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "grep.chunk_size",
			Message: fmt.Sprintf("chunk_size %d should be positive, using %d", c.Grep.ChunkSize, fsquery.DefaultChunkSize),
		})
	}
	if c.Read.DefaultLimit <= 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "read.default_limit",
			Message: fmt.Sprintf("default_limit %d should be positive, using %d", c.Read.DefaultLimit, fsquery.DefaultReadLimit),
		})
	}

	if c.WorkDir != "" {
		info, err := os.Stat(c.WorkDir)
		switch {
		case err != nil:
			warnings = append(warnings, ValidationWarning{
				Field:   "work_dir",
				Message: fmt.Sprintf("work_dir %s is not accessible: %v", c.WorkDir, err),
			})
		case !info.IsDir():
			warnings = append(warnings, ValidationWarning{
				Field:   "work_dir",
				Message: fmt.Sprintf("work_dir %s is not a directory", c.WorkDir),
			})
		}
	}

	return warnings
}
